package strategy

import (
	"fmt"

	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/tokenmath"
	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/types"
)

// SimplePairBackend compounds a plain two-token pool: the reward is split in
// half and both halves are swapped in a single stage.
type SimplePairBackend struct {
	contractBackend
}

var simplePairStages = []types.CycleStage{
	types.StageClaimReward,
	types.StageWithdrawal,
	types.StageSwap,
	types.StageStake,
}

func (b *SimplePairBackend) Stages() []types.CycleStage {
	return simplePairStages
}

func (b *SimplePairBackend) SwapLegs(stage types.CycleStage, cycle *types.FarmCycle) ([]SwapLeg, error) {
	if stage != types.StageSwap {
		return nil, fmt.Errorf("no swap legs at stage %s", stage)
	}
	// A retried stage plans only the legs that have not filled yet, so a
	// partial failure never re-spends the completed half.
	legA := cycle.AvailableBalance[0].IsZero()
	legB := cycle.AvailableBalance[1].IsZero()
	switch {
	case legA && legB:
		half, rest := tokenmath.SplitHalf(cycle.LastReward)
		return []SwapLeg{
			{TokenIn: b.st.RewardToken, TokenOut: b.st.TokenA, AmountIn: half, Slot: 0},
			{TokenIn: b.st.RewardToken, TokenOut: b.st.TokenB, AmountIn: rest, Slot: 1},
		}, nil
	case legA:
		return []SwapLeg{
			{TokenIn: b.st.RewardToken, TokenOut: b.st.TokenA, AmountIn: cycle.LastReward, Slot: 0},
		}, nil
	case legB:
		return []SwapLeg{
			{TokenIn: b.st.RewardToken, TokenOut: b.st.TokenB, AmountIn: cycle.LastReward, Slot: 1},
		}, nil
	}
	return nil, nil
}
