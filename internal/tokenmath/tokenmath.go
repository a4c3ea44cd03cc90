/*
This file contains the proportional-conversion arithmetic shared by the share
ledger and the fee model. All products go through an arbitrary-precision
intermediate before dividing: with 128-bit token magnitudes the naive
shares * total product overflows a native integer, so the wide intermediate is
a correctness requirement, not an optimization.
*/

package tokenmath

import (
	"errors"
	"fmt"

	sdkmath "cosmossdk.io/math"
)

// Error definitions for zero-tolerance error handling
var (
	ErrAmountNil        = errors.New("amount is nil")
	ErrAmountNegative   = errors.New("amount is negative")
	ErrDivisionByZero   = errors.New("division by zero")
	ErrPercentTooLarge  = errors.New("percentage exceeds 100")
	ErrBpsTooLarge      = errors.New("basis points exceed 10000")
)

// MulDiv returns floor(a * b / denom). The multiply runs at full precision
// inside sdkmath.Int, so a and b may both be 128-bit magnitudes.
func MulDiv(a, b, denom sdkmath.Int) (sdkmath.Int, error) {
	if a.IsNil() || b.IsNil() || denom.IsNil() {
		return sdkmath.ZeroInt(), ErrAmountNil
	}
	if a.IsNegative() || b.IsNegative() || denom.IsNegative() {
		return sdkmath.ZeroInt(), ErrAmountNegative
	}
	if denom.IsZero() {
		return sdkmath.ZeroInt(), ErrDivisionByZero
	}
	return a.Mul(b).Quo(denom), nil
}

// ApplyPercent returns floor(amount * pct / 100). Caller is responsible for
// validating pct at configuration time; values above 100 are rejected here as
// a defense against stale records.
func ApplyPercent(amount sdkmath.Int, pct uint64) (sdkmath.Int, error) {
	if amount.IsNil() {
		return sdkmath.ZeroInt(), ErrAmountNil
	}
	if amount.IsNegative() {
		return sdkmath.ZeroInt(), ErrAmountNegative
	}
	if pct > 100 {
		return sdkmath.ZeroInt(), fmt.Errorf("%w: %d", ErrPercentTooLarge, pct)
	}
	return amount.Mul(sdkmath.NewIntFromUint64(pct)).Quo(sdkmath.NewInt(100)), nil
}

// ApplyBps returns floor(amount * bps / 10000). Used to turn a swap quote into
// a min_amount_out under the current slippage tolerance.
func ApplyBps(amount sdkmath.Int, bps uint64) (sdkmath.Int, error) {
	if amount.IsNil() {
		return sdkmath.ZeroInt(), ErrAmountNil
	}
	if amount.IsNegative() {
		return sdkmath.ZeroInt(), ErrAmountNegative
	}
	if bps > 10_000 {
		return sdkmath.ZeroInt(), fmt.Errorf("%w: %d", ErrBpsTooLarge, bps)
	}
	return amount.Mul(sdkmath.NewIntFromUint64(bps)).Quo(sdkmath.NewInt(10_000)), nil
}

// SplitHalf returns the two halves of amount, with the first half absorbing
// any odd unit so the halves always sum back to amount.
func SplitHalf(amount sdkmath.Int) (sdkmath.Int, sdkmath.Int) {
	half := amount.Quo(sdkmath.NewInt(2))
	return amount.Sub(half), half
}
