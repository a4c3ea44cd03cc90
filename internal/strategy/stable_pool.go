package strategy

import (
	"context"
	"fmt"

	sdkmath "cosmossdk.io/math"

	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/tokenmath"
	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/types"
)

// StablePoolBackend compounds a stableswap pool single-sided: the whole reward
// is swapped to one pool token and deposited alone.
type StablePoolBackend struct {
	contractBackend
}

var stablePoolStages = []types.CycleStage{
	types.StageClaimReward,
	types.StageWithdrawal,
	types.StageSwap,
	types.StageStake,
}

func (b *StablePoolBackend) Stages() []types.CycleStage {
	return stablePoolStages
}

func (b *StablePoolBackend) SwapLegs(stage types.CycleStage, cycle *types.FarmCycle) ([]SwapLeg, error) {
	if stage != types.StageSwap {
		return nil, fmt.Errorf("no swap legs at stage %s", stage)
	}
	return []SwapLeg{
		{TokenIn: b.st.RewardToken, TokenOut: b.st.TokenA, AmountIn: cycle.LastReward, Slot: 0},
	}, nil
}

func (b *StablePoolBackend) ProvideLiquidity(ctx context.Context, amounts [2]sdkmath.Int) (sdkmath.Int, error) {
	before, err := b.amm.PoolShares(ctx, b.st.PoolID, b.account)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	// Stable pool shares track token units near the peg, so the deposit
	// amount itself bounds the acceptable share output.
	minShares, err := tokenmath.ApplyBps(amounts[0], b.st.SlippageBaselineBps)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	err = b.amm.AddStableLiquidity(ctx, b.st.PoolID,
		[]sdkmath.Int{amounts[0], sdkmath.ZeroInt()}, minShares)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	after, err := b.amm.PoolShares(ctx, b.st.PoolID, b.account)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	minted := after.Sub(before)
	if minted.IsNegative() {
		return sdkmath.ZeroInt(), fmt.Errorf("pool shares decreased across add_stable_liquidity: %s -> %s", before, after)
	}
	return minted, nil
}
