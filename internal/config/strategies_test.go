package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/types"
)

const sampleDefinitions = `
whitelist:
  - account_id: tka.test
    symbol: TKA
    decimals: 18
  - account_id: tkb.test
    symbol: TKB
    decimals: 6
  - account_id: rew.test
    symbol: REW
    decimals: 18

strategies:
  - id: dex7-pair
    kind: SimplePair
    exchange: dex.test
    farm: farm.test
    pool_id: 7
    token_a: tka.test
    token_b: tkb.test
    reward_token: rew.test
    strategy_fee_pct: 10
    sentry_fee_pct: 20
    creator_fee_pct: 30
    creator: creator.test
    min_deposit: "1000000000000000000"
    slippage_baseline_bps: 9900
    slippage_step_bps: 100
    slippage_floor_bps: 9500
    farms: [0, 1]

  - id: lend-usdc
    kind: Lending
    exchange: dex.test
    farm: farm.test
    lending_protocol: lend.test
    pool_id: 12
    token_a: usdc.test
    reward_token: rew.test
    farms: [0]
`

func writeDefinitions(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "strategies.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleDefinitions), 0o600))
	return path
}

func TestLoadDefinitions(t *testing.T) {
	defs, err := LoadDefinitions(writeDefinitions(t))
	require.NoError(t, err)
	require.Len(t, defs.Whitelist, 3)
	require.Equal(t, types.Token{AccountID: "tkb.test", Symbol: "TKB", Decimals: 6}, defs.Whitelist[1])
	require.Len(t, defs.Strategies, 2)
	require.Equal(t, "dex7-pair", defs.Strategies[0].ID)
}

func TestLoadDefinitionsMissingFile(t *testing.T) {
	_, err := LoadDefinitions(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestBuildStrategy(t *testing.T) {
	defs, err := LoadDefinitions(writeDefinitions(t))
	require.NoError(t, err)

	st, err := defs.Strategies[0].Build()
	require.NoError(t, err)
	require.Equal(t, types.KindSimplePair, st.Kind)
	require.Equal(t, types.SeedID("dex.test@7"), st.SeedID)
	require.Equal(t, "fft_share@dex.test@7", st.ShareID)
	require.Equal(t, "1000000000000000000", st.MinDeposit.String())
	require.Len(t, st.Cycles, 2)
	require.Equal(t, types.FarmID("dex.test@7#0"), st.Cycles[0].FarmID)
	require.Equal(t, types.FarmID("dex.test@7#1"), st.Cycles[1].FarmID)
	require.Equal(t, types.StageClaimReward, st.Cycles[0].Stage)
	require.Equal(t, uint64(9_900), st.Cycles[0].SlippageBps)
}

func TestBuildDefaultsSlippage(t *testing.T) {
	defs, err := LoadDefinitions(writeDefinitions(t))
	require.NoError(t, err)

	st, err := defs.Strategies[1].Build()
	require.NoError(t, err)
	require.Equal(t, uint64(9_900), st.SlippageBaselineBps)
	require.Equal(t, uint64(100), st.SlippageStepBps)
	require.True(t, st.MinDeposit.IsZero())
}

func TestBuildRejectsBadMinDeposit(t *testing.T) {
	def := StrategyDef{ID: "bad", Kind: "SimplePair", MinDeposit: "not-a-number"}
	_, err := def.Build()
	require.Error(t, err)
}
