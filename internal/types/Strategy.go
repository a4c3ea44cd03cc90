/*

This file contains the strategy record types: identity, fee configuration with
escrowed payouts, and the per-farm cycle list. One strategy feeds one seed;
several strategies (and several farms) may feed the same seed.

*/

package types

import (
	"errors"
	"fmt"

	sdkmath "cosmossdk.io/math"
)

// StrategySchemaVersion is the current on-disk schema of the strategy record.
// Records with an older version are migrated once at load time.
const StrategySchemaVersion = 2

// StrategyKind selects the backend mechanics of a strategy.
type StrategyKind string

const (
	KindSimplePair  StrategyKind = "SimplePair"
	KindStablePool  StrategyKind = "StablePool"
	KindBoostedFarm StrategyKind = "BoostedFarm"
	KindLending     StrategyKind = "Lending"
)

var ErrUnknownStrategyKind = errors.New("unknown strategy kind")

// ValidKind reports whether k names one of the supported strategy variants.
func ValidKind(k StrategyKind) bool {
	switch k {
	case KindSimplePair, KindStablePool, KindBoostedFarm, KindLending:
		return true
	}
	return false
}

// AdminFees holds the configured fee percentages and the accrued-but-unpaid
// amounts per payee. Amounts are escrowed explicitly (not keyed by an account
// id) because a payout transfer may fail and must be retried later together
// with newly accrued fees.
type AdminFees struct {
	StrategyFeePct uint64 `json:"strategy_fee_pct"` // % of gross reward taken as fees
	SentryFeePct   uint64 `json:"sentry_fee_pct"`   // % of fees owed to the triggering sentry
	CreatorFeePct  uint64 `json:"creator_fee_pct"`  // % of fees owed to the strategy creator

	Creator string `json:"creator"`

	PendingSentry   sdkmath.Int `json:"pending_sentry"`
	PendingCreator  sdkmath.Int `json:"pending_creator"`
	PendingTreasury sdkmath.Int `json:"pending_treasury"`
}

// Validate rejects percentage configurations that could make the fee split
// exceed the reward. Misconfiguration is a setup-time error, never a
// compute-time one.
func (f AdminFees) Validate() error {
	if f.StrategyFeePct > 100 {
		return fmt.Errorf("strategy fee percent %d exceeds 100", f.StrategyFeePct)
	}
	if f.SentryFeePct+f.CreatorFeePct > 100 {
		return fmt.Errorf("sentry (%d) plus creator (%d) fee percent exceeds 100",
			f.SentryFeePct, f.CreatorFeePct)
	}
	return nil
}

// Strategy is one auto-compounding strategy record.
type Strategy struct {
	SchemaVersion int          `json:"schema_version"`
	ID            string       `json:"id"`
	Kind          StrategyKind `json:"kind"`

	// Collaborator contract accounts.
	Exchange string `json:"exchange"`
	Farm     string `json:"farm"`
	// Lending protocol account, set only for the Lending kind.
	LendingProtocol string `json:"lending_protocol,omitempty"`

	PoolID      uint64 `json:"pool_id"`
	TokenA      string `json:"token_a"`
	TokenB      string `json:"token_b"`
	RewardToken string `json:"reward_token"`

	SeedID  SeedID `json:"seed_id"`
	ShareID string `json:"share_id"`

	Fees AdminFees `json:"fees"`

	// MinDeposit is the pool-share threshold below which a stake attempt is
	// skipped for the round to avoid dust stakes.
	MinDeposit sdkmath.Int `json:"min_deposit"`

	SlippageBaselineBps uint64 `json:"slippage_baseline_bps"`
	SlippageStepBps     uint64 `json:"slippage_step_bps"`
	SlippageFloorBps    uint64 `json:"slippage_floor_bps"`

	Paused bool `json:"paused"`

	Cycles []*FarmCycle `json:"cycles"`
}

// Cycle returns the cycle record for the given farm, or nil.
func (s *Strategy) Cycle(farmID FarmID) *FarmCycle {
	for _, c := range s.Cycles {
		if c.FarmID == farmID {
			return c
		}
	}
	return nil
}

// Normalize fills nil amounts on the strategy and its cycles.
func (s *Strategy) Normalize() {
	if s.MinDeposit.IsNil() {
		s.MinDeposit = sdkmath.ZeroInt()
	}
	if s.Fees.PendingSentry.IsNil() {
		s.Fees.PendingSentry = sdkmath.ZeroInt()
	}
	if s.Fees.PendingCreator.IsNil() {
		s.Fees.PendingCreator = sdkmath.ZeroInt()
	}
	if s.Fees.PendingTreasury.IsNil() {
		s.Fees.PendingTreasury = sdkmath.ZeroInt()
	}
	for _, c := range s.Cycles {
		c.Normalize()
	}
}
