/*

The share ledger tracks, per seed, the total underlying staked amount and each
account's claim on it through the seed's accounting share ("fft share").
Invariant: for every share id the sum of all balances equals the recorded total
supply after every operation.

*/

package shares

import (
	"errors"
	"fmt"

	sdkmath "cosmossdk.io/math"

	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/tokenmath"
	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/types"
)

var (
	ErrNilStore           = errors.New("share ledger: store not configured")
	ErrZeroAmount         = errors.New("share ledger: amount must be positive")
	ErrInsufficientShares = errors.New("share ledger: amount exceeds balance")
	ErrSelfTransfer       = errors.New("share ledger: transfer to self")
	ErrSeedTotalUnderflow = errors.New("share ledger: seed total underflow")
)

// Store is the persistence backend for share balances and seed totals.
// Implementations must return zero (not an error) for unknown keys.
type Store interface {
	ShareBalance(shareID, account string) (sdkmath.Int, error)
	SetShareBalance(shareID, account string, amount sdkmath.Int) error
	TotalSupply(shareID string) (sdkmath.Int, error)
	SetTotalSupply(shareID string, amount sdkmath.Int) error
	SeedTotal(seed types.SeedID) (sdkmath.Int, error)
	SetSeedTotal(seed types.SeedID, amount sdkmath.Int) error
}

// Ledger wires the proportional share accounting with persistence.
type Ledger struct {
	store Store
}

// NewLedger constructs a ledger over the given store.
func NewLedger(store Store) *Ledger {
	return &Ledger{store: store}
}

// Mint adds amount to the account's balance and to the total supply, returning
// the new balance.
func (l *Ledger) Mint(shareID, account string, amount sdkmath.Int) (sdkmath.Int, error) {
	if l == nil || l.store == nil {
		return sdkmath.ZeroInt(), ErrNilStore
	}
	if amount.IsNil() || !amount.IsPositive() {
		return sdkmath.ZeroInt(), ErrZeroAmount
	}
	balance, err := l.store.ShareBalance(shareID, account)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	supply, err := l.store.TotalSupply(shareID)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	newBalance := balance.Add(amount)
	if err := l.store.SetShareBalance(shareID, account, newBalance); err != nil {
		return sdkmath.ZeroInt(), err
	}
	if err := l.store.SetTotalSupply(shareID, supply.Add(amount)); err != nil {
		return sdkmath.ZeroInt(), err
	}
	return newBalance, nil
}

// Burn removes amount from the account's balance and the total supply.
// Burning more than the held balance is a caller bug and fails hard.
func (l *Ledger) Burn(shareID, account string, amount sdkmath.Int) (sdkmath.Int, error) {
	if l == nil || l.store == nil {
		return sdkmath.ZeroInt(), ErrNilStore
	}
	if amount.IsNil() || !amount.IsPositive() {
		return sdkmath.ZeroInt(), ErrZeroAmount
	}
	balance, err := l.store.ShareBalance(shareID, account)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	if amount.GT(balance) {
		return sdkmath.ZeroInt(), fmt.Errorf("%w: burn %s > balance %s",
			ErrInsufficientShares, amount, balance)
	}
	supply, err := l.store.TotalSupply(shareID)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	newBalance := balance.Sub(amount)
	if err := l.store.SetShareBalance(shareID, account, newBalance); err != nil {
		return sdkmath.ZeroInt(), err
	}
	if err := l.store.SetTotalSupply(shareID, supply.Sub(amount)); err != nil {
		return sdkmath.ZeroInt(), err
	}
	return newBalance, nil
}

// Transfer moves amount between two accounts of the same share id. A
// self-transfer signals a caller bug and is rejected.
func (l *Ledger) Transfer(shareID, from, to string, amount sdkmath.Int) error {
	if l == nil || l.store == nil {
		return ErrNilStore
	}
	if amount.IsNil() || !amount.IsPositive() {
		return ErrZeroAmount
	}
	if from == to {
		return ErrSelfTransfer
	}
	fromBalance, err := l.store.ShareBalance(shareID, from)
	if err != nil {
		return err
	}
	if amount.GT(fromBalance) {
		return fmt.Errorf("%w: transfer %s > balance %s",
			ErrInsufficientShares, amount, fromBalance)
	}
	toBalance, err := l.store.ShareBalance(shareID, to)
	if err != nil {
		return err
	}
	if err := l.store.SetShareBalance(shareID, from, fromBalance.Sub(amount)); err != nil {
		return err
	}
	return l.store.SetShareBalance(shareID, to, toBalance.Add(amount))
}

// Balance returns the account's share balance.
func (l *Ledger) Balance(shareID, account string) (sdkmath.Int, error) {
	if l == nil || l.store == nil {
		return sdkmath.ZeroInt(), ErrNilStore
	}
	return l.store.ShareBalance(shareID, account)
}

// TotalSupply returns the share id's total supply.
func (l *Ledger) TotalSupply(shareID string) (sdkmath.Int, error) {
	if l == nil || l.store == nil {
		return sdkmath.ZeroInt(), ErrNilStore
	}
	return l.store.TotalSupply(shareID)
}

// SeedTotal returns the total underlying amount attributed to a seed across
// all strategies that feed it.
func (l *Ledger) SeedTotal(seed types.SeedID) (sdkmath.Int, error) {
	if l == nil || l.store == nil {
		return sdkmath.ZeroInt(), ErrNilStore
	}
	return l.store.SeedTotal(seed)
}

// AddSeedTotal increases the seed's total underlying amount. Used by stake
// result and post-add-liquidity paths. Totals are re-read at mutation time;
// callers must not carry a stale value across invocations.
func (l *Ledger) AddSeedTotal(seed types.SeedID, amount sdkmath.Int) error {
	if l == nil || l.store == nil {
		return ErrNilStore
	}
	if amount.IsNil() || amount.IsNegative() {
		return ErrZeroAmount
	}
	total, err := l.store.SeedTotal(seed)
	if err != nil {
		return err
	}
	return l.store.SetSeedTotal(seed, total.Add(amount))
}

// SubSeedTotal decreases the seed's total underlying amount. A subtraction
// that would go negative indicates an upstream accounting bug; the ledger
// fails closed instead of saturating.
func (l *Ledger) SubSeedTotal(seed types.SeedID, amount sdkmath.Int) error {
	if l == nil || l.store == nil {
		return ErrNilStore
	}
	if amount.IsNil() || amount.IsNegative() {
		return ErrZeroAmount
	}
	total, err := l.store.SeedTotal(seed)
	if err != nil {
		return err
	}
	if amount.GT(total) {
		return fmt.Errorf("%w: sub %s > total %s", ErrSeedTotalUnderflow, amount, total)
	}
	return l.store.SetSeedTotal(seed, total.Sub(amount))
}

// Entitlement returns the underlying amount the account can currently claim
// from the seed: floor(balance * seed_total / total_supply). Returns zero when
// either the supply or the seed total is zero.
func (l *Ledger) Entitlement(seed types.SeedID, account string) (sdkmath.Int, error) {
	if l == nil || l.store == nil {
		return sdkmath.ZeroInt(), ErrNilStore
	}
	shareID := types.ShareIDForSeed(seed)
	balance, err := l.store.ShareBalance(shareID, account)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	supply, err := l.store.TotalSupply(shareID)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	total, err := l.store.SeedTotal(seed)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	if supply.IsZero() || total.IsZero() {
		return sdkmath.ZeroInt(), nil
	}
	return tokenmath.MulDiv(balance, total, supply)
}

// SharesForAmount converts an underlying amount back into the share amount to
// burn: floor(amount * total_supply / seed_total). Guards the partial
// withdrawal path against burning the wrong proportion.
func (l *Ledger) SharesForAmount(seed types.SeedID, amount sdkmath.Int) (sdkmath.Int, error) {
	if l == nil || l.store == nil {
		return sdkmath.ZeroInt(), ErrNilStore
	}
	shareID := types.ShareIDForSeed(seed)
	supply, err := l.store.TotalSupply(shareID)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	total, err := l.store.SeedTotal(seed)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	if supply.IsZero() || total.IsZero() {
		return sdkmath.ZeroInt(), nil
	}
	return tokenmath.MulDiv(amount, supply, total)
}

// SharesForDeposit converts a newly staked underlying amount into the shares
// to mint: 1:1 when the supply is zero, otherwise proportional to the seed's
// existing value.
func (l *Ledger) SharesForDeposit(seed types.SeedID, amount sdkmath.Int) (sdkmath.Int, error) {
	if l == nil || l.store == nil {
		return sdkmath.ZeroInt(), ErrNilStore
	}
	shareID := types.ShareIDForSeed(seed)
	supply, err := l.store.TotalSupply(shareID)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	if supply.IsZero() {
		return amount, nil
	}
	total, err := l.store.SeedTotal(seed)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	if total.IsZero() {
		return amount, nil
	}
	return tokenmath.MulDiv(amount, supply, total)
}
