/*

Administrative operations on the engine: strategy lifecycle, pause control and
fee payouts for treasury and creator.

*/

package strategy

import (
	"context"
	"fmt"

	sdkmath "cosmossdk.io/math"

	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/types"
)

// CreateStrategy validates and registers a new strategy record.
func (e *Engine) CreateStrategy(st *types.Strategy) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.Create(st)
}

// AddFarm attaches a new farm cycle to an existing strategy.
func (e *Engine) AddFarm(strategyID string, farmID types.FarmID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.AddFarm(strategyID, farmID)
}

// RemoveStrategy deletes a strategy once no accounting shares remain.
func (e *Engine) RemoveStrategy(strategyID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, err := e.registry.Get(strategyID)
	if err != nil {
		return err
	}
	supply, err := e.ledger.TotalSupply(st.ShareID)
	if err != nil {
		return err
	}
	if supply.IsPositive() {
		return fmt.Errorf("%w: %s shares of %s outstanding", ErrStrategyNotEmpty, supply, st.ShareID)
	}
	return e.registry.Remove(strategyID)
}

// SetPaused toggles the guardian pause on a strategy. Paused strategies reject
// harvests and deposits; unstakes always pass.
func (e *Engine) SetPaused(strategyID string, paused bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, err := e.registry.Get(strategyID)
	if err != nil {
		return err
	}
	st.Paused = paused
	e.log.Info().Str("strategy", strategyID).Bool("paused", paused).Msg("pause flag set")
	return nil
}

// PayTreasury transfers the escrowed treasury fee to the treasury account.
func (e *Engine) PayTreasury(ctx context.Context, strategyID string) (sdkmath.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, err := e.registry.Get(strategyID)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	return e.payEscrow(ctx, st, &st.Fees.PendingTreasury, e.treasury)
}

// PayCreator transfers the escrowed creator fee to the strategy creator.
func (e *Engine) PayCreator(ctx context.Context, strategyID string) (sdkmath.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, err := e.registry.Get(strategyID)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	if st.Fees.Creator == "" {
		return sdkmath.ZeroInt(), fmt.Errorf("strategy %s has no creator account", strategyID)
	}
	return e.payEscrow(ctx, st, &st.Fees.PendingCreator, st.Fees.Creator)
}

// payEscrow pays out one escrow bucket in full. The bucket is zeroed before
// the transfer and restored if it fails, mirroring the sentry payout.
func (e *Engine) payEscrow(ctx context.Context, st *types.Strategy, bucket *sdkmath.Int, receiver string) (sdkmath.Int, error) {
	if !bucket.IsPositive() {
		return sdkmath.ZeroInt(), nil
	}
	backend, err := e.backends(st)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}

	amount := *bucket
	*bucket = sdkmath.ZeroInt()
	if err := backend.PayReward(ctx, receiver, amount); err != nil {
		*bucket = bucket.Add(amount)
		return sdkmath.ZeroInt(), fmt.Errorf("fee payout to %s: %w", receiver, err)
	}
	e.log.Info().Str("strategy", st.ID).Str("receiver", receiver).
		Str("amount", amount.String()).Msg("escrowed fee paid")
	return amount, nil
}
