package strategy

import (
	"context"
	"fmt"

	sdkmath "cosmossdk.io/math"

	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/exchange"
	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/types"
)

// LendingBackend compounds a money-market position: the reward is swapped to
// the supplied token and re-supplied. Supplying is the stake, so the share and
// seed accounting runs in underlying token units.
type LendingBackend struct {
	contractBackend
	lender exchange.Lender
}

// NewLendingBackend wraps the shared contract plumbing with a lending client.
func NewLendingBackend(base contractBackend, lender exchange.Lender) *LendingBackend {
	return &LendingBackend{contractBackend: base, lender: lender}
}

var lendingStages = []types.CycleStage{
	types.StageClaimReward,
	types.StageWithdrawal,
	types.StageSwap,
	types.StageStake,
}

func (b *LendingBackend) Stages() []types.CycleStage {
	return lendingStages
}

func (b *LendingBackend) SwapLegs(stage types.CycleStage, cycle *types.FarmCycle) ([]SwapLeg, error) {
	if stage != types.StageSwap {
		return nil, fmt.Errorf("no swap legs at stage %s", stage)
	}
	return []SwapLeg{
		{TokenIn: b.st.RewardToken, TokenOut: b.st.TokenA, AmountIn: cycle.LastReward, Slot: 0},
	}, nil
}

func (b *LendingBackend) ProvideLiquidity(ctx context.Context, amounts [2]sdkmath.Int) (sdkmath.Int, error) {
	if err := b.lender.Supply(ctx, b.st.TokenA, amounts[0]); err != nil {
		return sdkmath.ZeroInt(), err
	}
	return amounts[0], nil
}

// Stake is a no-op: ft_transfer_call into the lending protocol already left
// the supplied amount earning.
func (b *LendingBackend) Stake(ctx context.Context, amount sdkmath.Int) error {
	return nil
}

// PoolBalance is always zero: supplied funds earn inside the protocol and
// cannot be transferred until withdrawn.
func (b *LendingBackend) PoolBalance(ctx context.Context) (sdkmath.Int, error) {
	return sdkmath.ZeroInt(), nil
}

func (b *LendingBackend) Staked(ctx context.Context) (sdkmath.Int, error) {
	return b.lender.Supplied(ctx, b.st.TokenA, b.account)
}

func (b *LendingBackend) Unstake(ctx context.Context, amount sdkmath.Int) error {
	return b.lender.Withdraw(ctx, b.st.TokenA, amount)
}

func (b *LendingBackend) TransferOut(ctx context.Context, receiver string, amount sdkmath.Int) error {
	return b.tokens.Transfer(ctx, b.st.TokenA, receiver, amount)
}
