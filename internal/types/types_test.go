package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSeedIDRoundTrip(t *testing.T) {
	seed := NewSeedID("dex.test", 42)
	require.Equal(t, SeedID("dex.test@42"), seed)

	ex, pool, err := seed.Parse()
	require.NoError(t, err)
	require.Equal(t, "dex.test", ex)
	require.Equal(t, uint64(42), pool)
}

func TestSeedIDMalformed(t *testing.T) {
	for _, raw := range []string{"", "dex.test", "dex.test@", "@42", "dex.test@pool"} {
		_, _, err := SeedID(raw).Parse()
		require.Error(t, err, "seed %q", raw)
	}
}

func TestFarmIDParts(t *testing.T) {
	farm := NewFarmID(NewSeedID("dex.test", 42), 3)
	require.Equal(t, FarmID("dex.test@42#3"), farm)

	seed, err := farm.Seed()
	require.NoError(t, err)
	require.Equal(t, SeedID("dex.test@42"), seed)

	idx, err := farm.Index()
	require.NoError(t, err)
	require.Equal(t, uint64(3), idx)

	_, err = FarmID("dex.test@42").Seed()
	require.Error(t, err)
}

func TestShareIDForSeed(t *testing.T) {
	require.Equal(t, "fft_share@dex.test@42", ShareIDForSeed(NewSeedID("dex.test", 42)))
}

func TestWidenSlippage(t *testing.T) {
	c := NewFarmCycle(FarmID("dex.test@1#0"), 9_900)

	require.True(t, c.WidenSlippage(100, 9_700))
	require.Equal(t, uint64(9_800), c.SlippageBps)
	require.True(t, c.WidenSlippage(100, 9_700))
	require.Equal(t, uint64(9_700), c.SlippageBps)

	// A step past the floor is refused and leaves the tolerance unchanged.
	require.False(t, c.WidenSlippage(100, 9_700))
	require.Equal(t, uint64(9_700), c.SlippageBps)

	c.ResetSlippage(9_900)
	require.Equal(t, uint64(9_900), c.SlippageBps)
}

func TestAdminFeesValidate(t *testing.T) {
	require.NoError(t, AdminFees{StrategyFeePct: 100, SentryFeePct: 50, CreatorFeePct: 50}.Validate())
	require.Error(t, AdminFees{StrategyFeePct: 101}.Validate())
	require.Error(t, AdminFees{StrategyFeePct: 10, SentryFeePct: 51, CreatorFeePct: 50}.Validate())
}
