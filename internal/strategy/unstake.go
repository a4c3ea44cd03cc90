package strategy

import (
	"context"
	"fmt"

	sdkmath "cosmossdk.io/math"

	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/types"
)

// UnstakeReport describes a completed withdrawal.
type UnstakeReport struct {
	StrategyID string      `json:"strategy_id"`
	Account    string      `json:"account"`
	Amount     sdkmath.Int `json:"amount"`
	Shares     sdkmath.Int `json:"shares"`
}

// Unstake withdraws underlying from the strategy for the account. A nil or
// zero amount withdraws the account's full entitlement. Shares are burned only
// after the underlying has left the operator, so a failed transfer leaves the
// account's claim intact.
func (e *Engine) Unstake(ctx context.Context, strategyID, account string, amount sdkmath.Int) (*UnstakeReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, err := e.registry.Get(strategyID)
	if err != nil {
		return nil, err
	}

	entitlement, err := e.ledger.Entitlement(st.SeedID, account)
	if err != nil {
		return nil, err
	}
	if !entitlement.IsPositive() {
		return nil, fmt.Errorf("%w: %s on %s", ErrNothingStaked, account, st.ID)
	}

	balance, err := e.ledger.Balance(st.ShareID, account)
	if err != nil {
		return nil, err
	}

	var withdraw, burn sdkmath.Int
	if amount.IsNil() || amount.IsZero() {
		withdraw = entitlement
		burn = balance
	} else {
		if amount.GT(entitlement) {
			return nil, fmt.Errorf("%w: %s > %s", ErrAmountExceedsEntitlement, amount, entitlement)
		}
		withdraw = amount
		burn, err = e.ledger.SharesForAmount(st.SeedID, amount)
		if err != nil {
			return nil, err
		}
		// A request under the share price floors to zero shares. Refuse it
		// before anything leaves the farm, or the seed drains for free.
		if burn.IsZero() {
			return nil, fmt.Errorf("%w: %s on %s", ErrAmountTooSmall, amount, st.ID)
		}
		if burn.GT(balance) {
			burn = balance
		}
	}

	backend, err := e.backends(st)
	if err != nil {
		return nil, err
	}
	shortfall, err := e.farmShortfall(ctx, st, backend, withdraw)
	if err != nil {
		return nil, err
	}
	if shortfall.IsPositive() {
		if err := backend.Unstake(ctx, shortfall); err != nil {
			return nil, fmt.Errorf("unstake from farm: %w", err)
		}
	}
	if err := backend.TransferOut(ctx, account, withdraw); err != nil {
		return nil, fmt.Errorf("transfer to %s: %w", account, err)
	}

	if _, err := e.ledger.Burn(st.ShareID, account, burn); err != nil {
		return nil, err
	}
	if err := e.ledger.SubSeedTotal(st.SeedID, withdraw); err != nil {
		return nil, err
	}

	e.log.Info().Str("strategy", st.ID).Str("account", account).
		Str("amount", withdraw.String()).Str("shares", burn.String()).
		Msg("unstake completed")
	return &UnstakeReport{
		StrategyID: st.ID,
		Account:    account,
		Amount:     withdraw,
		Shares:     burn,
	}, nil
}

// farmShortfall reconciles a withdrawal against the shares already sitting
// unstaked in the pool and returns how much must still be pulled from the
// farm. Shares a cycle minted but has not staked yet are reserved for the
// compounder and never count as idle.
func (e *Engine) farmShortfall(ctx context.Context, st *types.Strategy, backend Backend, withdraw sdkmath.Int) (sdkmath.Int, error) {
	idle, err := backend.PoolBalance(ctx)
	if err != nil {
		return sdkmath.ZeroInt(), fmt.Errorf("pool balance: %w", err)
	}
	for _, cycle := range st.Cycles {
		if !cycle.SharesToStake.IsNil() {
			idle = idle.Sub(cycle.SharesToStake)
		}
	}
	if idle.IsNegative() {
		idle = sdkmath.ZeroInt()
	}

	shortfall := withdraw.Sub(idle)
	if !shortfall.IsPositive() {
		return sdkmath.ZeroInt(), nil
	}
	staked, err := backend.Staked(ctx)
	if err != nil {
		return sdkmath.ZeroInt(), fmt.Errorf("staked shares: %w", err)
	}
	if shortfall.GT(staked) {
		return sdkmath.ZeroInt(), fmt.Errorf("%w: have %s, need %s", ErrFarmStakeShort, staked, shortfall)
	}
	return shortfall, nil
}
