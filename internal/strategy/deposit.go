package strategy

import (
	"context"
	"fmt"

	sdkmath "cosmossdk.io/math"

	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/types"
)

// DepositReport describes a completed deposit.
type DepositReport struct {
	StrategyID string      `json:"strategy_id"`
	Account    string      `json:"account"`
	Amount     sdkmath.Int `json:"amount"`
	Shares     sdkmath.Int `json:"shares"`
}

// Deposit stakes amount of the user's pool shares through the strategy and
// mints accounting shares for the account. The share price is locked in
// before the seed total moves, so the depositor cannot capture value from
// rewards compounded for earlier holders.
func (e *Engine) Deposit(ctx context.Context, strategyID, account string, amount sdkmath.Int) (*DepositReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, err := e.registry.Get(strategyID)
	if err != nil {
		return nil, err
	}
	if st.Paused {
		return nil, fmt.Errorf("%w: %s", ErrStrategyPaused, st.ID)
	}
	if amount.IsNil() || !amount.IsPositive() {
		return nil, fmt.Errorf("deposit amount must be positive")
	}
	if amount.LT(st.MinDeposit) {
		return nil, fmt.Errorf("%w: %s < %s", ErrBelowMinDeposit, amount, st.MinDeposit)
	}

	minted, err := e.ledger.SharesForDeposit(st.SeedID, amount)
	if err != nil {
		return nil, err
	}
	if !minted.IsPositive() {
		return nil, fmt.Errorf("deposit of %s mints no shares", amount)
	}

	backend, err := e.backends(st)
	if err != nil {
		return nil, err
	}
	// Remote stake first: if it fails nothing was minted and the deposit
	// can simply be retried.
	if err := backend.Stake(ctx, amount); err != nil {
		return nil, fmt.Errorf("stake deposit: %w", err)
	}

	if _, err := e.ledger.Mint(st.ShareID, account, minted); err != nil {
		return nil, err
	}
	if err := e.ledger.AddSeedTotal(st.SeedID, amount); err != nil {
		return nil, err
	}

	e.log.Info().Str("strategy", st.ID).Str("account", account).
		Str("amount", amount.String()).Str("shares", minted.String()).
		Msg("deposit staked")
	return &DepositReport{
		StrategyID: st.ID,
		Account:    account,
		Amount:     amount,
		Shares:     minted,
	}, nil
}

// Entitlement returns the underlying amount the account's shares are worth.
func (e *Engine) Entitlement(seed types.SeedID, account string) (sdkmath.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Entitlement(seed, account)
}
