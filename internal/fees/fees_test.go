package fees

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/types"
)

func feeConfig(strategyPct, sentryPct, creatorPct uint64) types.AdminFees {
	return types.AdminFees{
		StrategyFeePct: strategyPct,
		SentryFeePct:   sentryPct,
		CreatorFeePct:  creatorPct,
	}
}

func TestComputeSplit(t *testing.T) {
	split, err := Compute(sdkmath.NewInt(1_000), feeConfig(10, 20, 30))
	require.NoError(t, err)

	// 10% of 1000 = 100 in fees; 20% of that to the sentry, 30% to the
	// creator, the rest to the treasury.
	require.Equal(t, int64(20), split.Sentry.Int64())
	require.Equal(t, int64(30), split.Creator.Int64())
	require.Equal(t, int64(50), split.Treasury.Int64())
	require.Equal(t, int64(900), split.Remaining.Int64())
}

func TestComputeConservesReward(t *testing.T) {
	rewards := []int64{0, 1, 3, 7, 99, 1_000, 123_456_789}
	for _, reward := range rewards {
		split, err := Compute(sdkmath.NewInt(reward), feeConfig(7, 13, 29))
		require.NoError(t, err)
		require.Equal(t, reward, split.Total().Int64(), "reward %d", reward)
		require.False(t, split.Remaining.IsNegative())
		require.False(t, split.Treasury.IsNegative())
	}
}

func TestComputeTreasuryAbsorbsRounding(t *testing.T) {
	// 10% of 99 floors to 9; sentry and creator each floor again and the
	// treasury takes what is left of the fee bucket.
	split, err := Compute(sdkmath.NewInt(99), feeConfig(10, 33, 33))
	require.NoError(t, err)
	require.Equal(t, int64(2), split.Sentry.Int64())
	require.Equal(t, int64(2), split.Creator.Int64())
	require.Equal(t, int64(5), split.Treasury.Int64())
	require.Equal(t, int64(90), split.Remaining.Int64())
}

func TestComputeZeroFees(t *testing.T) {
	split, err := Compute(sdkmath.NewInt(500), feeConfig(0, 0, 0))
	require.NoError(t, err)
	require.Equal(t, int64(500), split.Remaining.Int64())
	require.True(t, split.Treasury.IsZero())
	require.True(t, split.Sentry.IsZero())
	require.True(t, split.Creator.IsZero())
}

func TestComputeWholeRewardAsFees(t *testing.T) {
	split, err := Compute(sdkmath.NewInt(100), feeConfig(100, 50, 50))
	require.NoError(t, err)
	require.True(t, split.Remaining.IsZero())
	require.Equal(t, int64(50), split.Sentry.Int64())
	require.Equal(t, int64(50), split.Creator.Int64())
	require.True(t, split.Treasury.IsZero())
}

func TestComputeRejectsBadConfig(t *testing.T) {
	_, err := Compute(sdkmath.NewInt(100), feeConfig(101, 0, 0))
	require.Error(t, err)

	_, err = Compute(sdkmath.NewInt(100), feeConfig(10, 60, 60))
	require.Error(t, err)
}

func TestComputeRejectsNegativeReward(t *testing.T) {
	_, err := Compute(sdkmath.NewInt(-1), feeConfig(10, 10, 10))
	require.Error(t, err)
}
