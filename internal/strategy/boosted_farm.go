package strategy

import (
	"fmt"

	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/tokenmath"
	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/types"
)

// BoostedFarmBackend compounds a boosted-farm pool. The two swap legs run in
// separate invocations so each gets its own slippage retry budget.
type BoostedFarmBackend struct {
	contractBackend
}

var boostedFarmStages = []types.CycleStage{
	types.StageClaimReward,
	types.StageWithdrawal,
	types.StageSwap,
	types.StageSwapToken2,
	types.StageStake,
}

func (b *BoostedFarmBackend) Stages() []types.CycleStage {
	return boostedFarmStages
}

func (b *BoostedFarmBackend) SwapLegs(stage types.CycleStage, cycle *types.FarmCycle) ([]SwapLeg, error) {
	switch stage {
	case types.StageSwap:
		half, _ := tokenmath.SplitHalf(cycle.LastReward)
		return []SwapLeg{
			{TokenIn: b.st.RewardToken, TokenOut: b.st.TokenA, AmountIn: half, Slot: 0},
		}, nil
	case types.StageSwapToken2:
		// The first leg's input was already deducted from LastReward.
		return []SwapLeg{
			{TokenIn: b.st.RewardToken, TokenOut: b.st.TokenB, AmountIn: cycle.LastReward, Slot: 1},
		}, nil
	}
	return nil, fmt.Errorf("no swap legs at stage %s", stage)
}
