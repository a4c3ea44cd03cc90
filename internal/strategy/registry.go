/*

The strategy registry: validated records keyed by id, with token whitelist
enforcement at creation and a one-shot schema migration at load. The registry
itself is not safe for concurrent mutation; the engine serializes access.

*/

package strategy

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/logger"
	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/types"
)

type Registry struct {
	strategies map[string]*types.Strategy
	whitelist  map[string]types.Token
	log        zerolog.Logger
}

// NewRegistry returns an empty registry. An empty whitelist admits any token;
// a populated one rejects strategies referencing tokens outside it.
func NewRegistry(whitelist []types.Token) *Registry {
	wl := make(map[string]types.Token, len(whitelist))
	for _, token := range whitelist {
		wl[token.AccountID] = token
	}
	r := &Registry{
		strategies: make(map[string]*types.Strategy),
		whitelist:  wl,
		log:        logger.GetForComponent("registry"),
	}
	if len(wl) == 0 {
		r.log.Warn().Msg("token whitelist is empty, admitting all tokens")
	}
	return r
}

// Whitelist returns the whitelisted token metadata sorted by account id.
func (r *Registry) Whitelist() []types.Token {
	out := make([]types.Token, 0, len(r.whitelist))
	for _, token := range r.whitelist {
		out = append(out, token)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountID < out[j].AccountID })
	return out
}

// TokenWhitelisted reports whether token may be used by a strategy.
func (r *Registry) TokenWhitelisted(token string) bool {
	if len(r.whitelist) == 0 {
		return true
	}
	_, ok := r.whitelist[token]
	return ok
}

func (r *Registry) checkTokens(st *types.Strategy) error {
	for _, token := range []string{st.TokenA, st.TokenB, st.RewardToken} {
		if token == "" {
			continue
		}
		if !r.TokenWhitelisted(token) {
			return fmt.Errorf("%w: %s", ErrTokenNotWhitelisted, token)
		}
	}
	return nil
}

// Create validates and registers a new strategy. The seed and share ids are
// derived from the exchange and pool when not set explicitly.
func (r *Registry) Create(st *types.Strategy) error {
	if st.ID == "" {
		return fmt.Errorf("strategy id must not be empty")
	}
	if _, exists := r.strategies[st.ID]; exists {
		return fmt.Errorf("%w: %s", ErrStrategyExists, st.ID)
	}
	if !types.ValidKind(st.Kind) {
		return fmt.Errorf("%w: %q", types.ErrUnknownStrategyKind, st.Kind)
	}
	if st.Kind == types.KindLending && st.LendingProtocol == "" {
		return fmt.Errorf("lending strategy %s needs a lending protocol account", st.ID)
	}
	if err := st.Fees.Validate(); err != nil {
		return fmt.Errorf("strategy %s: %w", st.ID, err)
	}
	if err := r.checkTokens(st); err != nil {
		return err
	}

	if st.SeedID == "" {
		st.SeedID = types.NewSeedID(st.Exchange, st.PoolID)
	}
	if st.ShareID == "" {
		st.ShareID = types.ShareIDForSeed(st.SeedID)
	}
	st.SchemaVersion = types.StrategySchemaVersion
	st.Normalize()

	r.strategies[st.ID] = st
	r.log.Info().Str("strategy", st.ID).Str("kind", string(st.Kind)).
		Str("seed", string(st.SeedID)).Msg("strategy registered")
	return nil
}

// AddFarm attaches a new farm cycle to an existing strategy.
func (r *Registry) AddFarm(id string, farmID types.FarmID) error {
	st, err := r.Get(id)
	if err != nil {
		return err
	}
	seed, err := farmID.Seed()
	if err != nil {
		return err
	}
	if seed != st.SeedID {
		return fmt.Errorf("farm %s belongs to seed %s, not %s", farmID, seed, st.SeedID)
	}
	if st.Cycle(farmID) != nil {
		return fmt.Errorf("farm %s already tracked by strategy %s", farmID, id)
	}
	st.Cycles = append(st.Cycles, types.NewFarmCycle(farmID, st.SlippageBaselineBps))
	r.log.Info().Str("strategy", id).Str("farm", string(farmID)).Msg("farm attached")
	return nil
}

// Get returns the strategy with the given id.
func (r *Registry) Get(id string) (*types.Strategy, error) {
	st, ok := r.strategies[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStrategyNotFound, id)
	}
	return st, nil
}

// Remove deletes the strategy record. The engine checks that no shares are
// outstanding before calling this.
func (r *Registry) Remove(id string) error {
	if _, ok := r.strategies[id]; !ok {
		return fmt.Errorf("%w: %s", ErrStrategyNotFound, id)
	}
	delete(r.strategies, id)
	r.log.Info().Str("strategy", id).Msg("strategy removed")
	return nil
}

// List returns all strategies ordered by id.
func (r *Registry) List() []*types.Strategy {
	out := make([]*types.Strategy, 0, len(r.strategies))
	for _, st := range r.strategies {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// FarmCycle finds the strategy and cycle record tracking farmID.
func (r *Registry) FarmCycle(farmID types.FarmID) (*types.Strategy, *types.FarmCycle, error) {
	for _, st := range r.strategies {
		if c := st.Cycle(farmID); c != nil {
			return st, c, nil
		}
	}
	return nil, nil, fmt.Errorf("%w: %s", ErrFarmNotFound, farmID)
}

// Load replaces the registry contents with stored records, migrating records
// written under an older schema.
func (r *Registry) Load(stored []*types.Strategy) error {
	loaded := make(map[string]*types.Strategy, len(stored))
	for _, st := range stored {
		if st.ID == "" {
			return fmt.Errorf("stored strategy record without id")
		}
		if err := Migrate(st); err != nil {
			return fmt.Errorf("strategy %s: %w", st.ID, err)
		}
		loaded[st.ID] = st
	}
	r.strategies = loaded
	r.log.Info().Int("strategies", len(loaded)).Msg("registry loaded")
	return nil
}

// Migrate upgrades a stored record to the current schema version in place.
// Version 1 predates the explicit fee escrow fields and per-cycle amounts;
// Normalize zero-fills everything the old schema did not carry.
func Migrate(st *types.Strategy) error {
	if st.SchemaVersion > types.StrategySchemaVersion {
		return fmt.Errorf("record schema %d newer than supported %d",
			st.SchemaVersion, types.StrategySchemaVersion)
	}
	st.Normalize()
	if st.ShareID == "" {
		st.ShareID = types.ShareIDForSeed(st.SeedID)
	}
	for _, c := range st.Cycles {
		if c.SlippageBps == 0 {
			c.SlippageBps = st.SlippageBaselineBps
		}
		if c.State == "" {
			c.State = types.FarmRunning
		}
		if c.Stage == "" {
			c.Stage = types.StageClaimReward
		}
	}
	st.SchemaVersion = types.StrategySchemaVersion
	return nil
}
