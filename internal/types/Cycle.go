/*

Per-farm auto-compound cycle state. A FarmCycle advances through discrete
stages, one stage per harvest invocation; its fields are the continuation
state carried between invocations.

*/

package types

import (
	sdkmath "cosmossdk.io/math"
)

// FarmState is the lifecycle state of one farm's compounding cycle.
type FarmState string

const (
	// FarmRunning means the farm is distributing rewards and the cycle advances.
	FarmRunning FarmState = "Running"
	// FarmEnded means the farm stopped distributing or slippage breached the
	// ceiling; pending rewards may still be drained.
	FarmEnded FarmState = "Ended"
	// FarmCleared is terminal: pending rewards reached zero after the farm ended.
	FarmCleared FarmState = "Cleared"
)

// CycleStage is one sequential phase of the compounding cycle. The cycle is
// strictly cyclic: Stake wraps back to ClaimReward.
type CycleStage string

const (
	StageClaimReward CycleStage = "ClaimReward"
	StageWithdrawal  CycleStage = "Withdrawal"
	StageSwap        CycleStage = "Swap"
	// StageSwapToken2 is used only by the boosted ("jumbo") variant, which
	// swaps the two pool legs in separate invocations.
	StageSwapToken2 CycleStage = "SwapToken2"
	StageStake      CycleStage = "Stake"
)

// FarmCycle holds the mutable per-farm continuation state.
type FarmCycle struct {
	FarmID FarmID     `json:"farm_id"`
	State  FarmState  `json:"state"`
	Stage  CycleStage `json:"stage"`

	// SlippageBps is the fraction of the quoted swap output demanded as
	// min_amount_out, in basis points. It starts at the strategy baseline and
	// is lowered (tolerance widened) on repeated swap failures down to the
	// strategy floor, past which the farm transitions to Ended.
	SlippageBps uint64 `json:"slippage_bps"`

	// LastReward is the reward amount pending at the current stage.
	LastReward sdkmath.Int `json:"last_reward"`

	// AvailableBalance holds per-token amounts already swapped but not yet
	// deposited as liquidity. Both entries must be zero again after a
	// successful stake so a retried invocation cannot double-spend.
	AvailableBalance [2]sdkmath.Int `json:"available_balance"`

	// SharesToStake reconciles pool shares minted by this cycle against other
	// strategies feeding the same seed (boosted variant only).
	SharesToStake sdkmath.Int `json:"shares_to_stake"`
}

// NewFarmCycle returns a running cycle positioned at ClaimReward.
func NewFarmCycle(farmID FarmID, slippageBaselineBps uint64) *FarmCycle {
	return &FarmCycle{
		FarmID:           farmID,
		State:            FarmRunning,
		Stage:            StageClaimReward,
		SlippageBps:      slippageBaselineBps,
		LastReward:       sdkmath.ZeroInt(),
		AvailableBalance: [2]sdkmath.Int{sdkmath.ZeroInt(), sdkmath.ZeroInt()},
		SharesToStake:    sdkmath.ZeroInt(),
	}
}

// WidenSlippage lowers the min-out fraction by step, widening the tolerated
// shortfall. Returns false when the floor is already breached, in which case
// the caller must mark the farm Ended.
func (c *FarmCycle) WidenSlippage(stepBps, floorBps uint64) bool {
	if c.SlippageBps <= floorBps || c.SlippageBps-stepBps < floorBps {
		return false
	}
	c.SlippageBps -= stepBps
	return true
}

// ResetSlippage restores the baseline tolerance after a successful swap stage.
func (c *FarmCycle) ResetSlippage(baselineBps uint64) {
	c.SlippageBps = baselineBps
}

// Normalize replaces nil amounts with zero. Cycle records loaded from storage
// may predate fields added later.
func (c *FarmCycle) Normalize() {
	if c.LastReward.IsNil() {
		c.LastReward = sdkmath.ZeroInt()
	}
	for i := range c.AvailableBalance {
		if c.AvailableBalance[i].IsNil() {
			c.AvailableBalance[i] = sdkmath.ZeroInt()
		}
	}
	if c.SharesToStake.IsNil() {
		c.SharesToStake = sdkmath.ZeroInt()
	}
}
