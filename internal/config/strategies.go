package config

import (
	"fmt"
	"os"

	sdkmath "cosmossdk.io/math"
	"gopkg.in/yaml.v3"

	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/types"
)

// StrategyDef is one strategy entry in the definitions file.
type StrategyDef struct {
	ID              string `yaml:"id" json:"id"`
	Kind            string `yaml:"kind" json:"kind"`
	Exchange        string `yaml:"exchange" json:"exchange"`
	Farm            string `yaml:"farm" json:"farm"`
	LendingProtocol string `yaml:"lending_protocol" json:"lending_protocol"`
	PoolID          uint64 `yaml:"pool_id" json:"pool_id"`
	TokenA          string `yaml:"token_a" json:"token_a"`
	TokenB          string `yaml:"token_b" json:"token_b"`
	RewardToken     string `yaml:"reward_token" json:"reward_token"`

	StrategyFeePct uint64 `yaml:"strategy_fee_pct" json:"strategy_fee_pct"`
	SentryFeePct   uint64 `yaml:"sentry_fee_pct" json:"sentry_fee_pct"`
	CreatorFeePct  uint64 `yaml:"creator_fee_pct" json:"creator_fee_pct"`
	Creator        string `yaml:"creator" json:"creator"`

	MinDeposit string `yaml:"min_deposit" json:"min_deposit"`

	SlippageBaselineBps uint64 `yaml:"slippage_baseline_bps" json:"slippage_baseline_bps"`
	SlippageStepBps     uint64 `yaml:"slippage_step_bps" json:"slippage_step_bps"`
	SlippageFloorBps    uint64 `yaml:"slippage_floor_bps" json:"slippage_floor_bps"`

	// Farms lists the farm indexes of the seed this strategy compounds.
	Farms []uint64 `yaml:"farms" json:"farms"`
}

// Definitions is the parsed strategy definitions file.
type Definitions struct {
	Whitelist  []types.Token `yaml:"whitelist" json:"whitelist"`
	Strategies []StrategyDef `yaml:"strategies" json:"strategies"`
}

// LoadDefinitions reads and parses the yaml definitions file.
func LoadDefinitions(path string) (*Definitions, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read strategy definitions: %w", err)
	}
	var defs Definitions
	if err := yaml.Unmarshal(raw, &defs); err != nil {
		return nil, fmt.Errorf("parse strategy definitions: %w", err)
	}
	return &defs, nil
}

// Build converts a definition into a strategy record with its farm cycles.
func (d StrategyDef) Build() (*types.Strategy, error) {
	minDeposit := sdkmath.ZeroInt()
	if d.MinDeposit != "" {
		parsed, ok := sdkmath.NewIntFromString(d.MinDeposit)
		if !ok || parsed.IsNegative() {
			return nil, fmt.Errorf("strategy %s: bad min_deposit %q", d.ID, d.MinDeposit)
		}
		minDeposit = parsed
	}

	baseline := d.SlippageBaselineBps
	if baseline == 0 {
		baseline = 9900
	}
	step := d.SlippageStepBps
	if step == 0 {
		step = 100
	}

	seed := types.NewSeedID(d.Exchange, d.PoolID)
	st := &types.Strategy{
		ID:                  d.ID,
		Kind:                types.StrategyKind(d.Kind),
		Exchange:            d.Exchange,
		Farm:                d.Farm,
		LendingProtocol:     d.LendingProtocol,
		PoolID:              d.PoolID,
		TokenA:              d.TokenA,
		TokenB:              d.TokenB,
		RewardToken:         d.RewardToken,
		SeedID:              seed,
		ShareID:             types.ShareIDForSeed(seed),
		MinDeposit:          minDeposit,
		SlippageBaselineBps: baseline,
		SlippageStepBps:     step,
		SlippageFloorBps:    d.SlippageFloorBps,
		Fees: types.AdminFees{
			StrategyFeePct: d.StrategyFeePct,
			SentryFeePct:   d.SentryFeePct,
			CreatorFeePct:  d.CreatorFeePct,
			Creator:        d.Creator,
		},
	}
	for _, idx := range d.Farms {
		farmID := types.NewFarmID(seed, idx)
		st.Cycles = append(st.Cycles, types.NewFarmCycle(farmID, baseline))
	}
	st.Normalize()
	return st, nil
}
