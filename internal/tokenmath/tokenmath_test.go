package tokenmath

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"
)

func TestMulDivFloors(t *testing.T) {
	out, err := MulDiv(sdkmath.NewInt(7), sdkmath.NewInt(3), sdkmath.NewInt(2))
	require.NoError(t, err)
	require.Equal(t, int64(10), out.Int64())
}

func TestMulDivLargeIntermediate(t *testing.T) {
	// The intermediate product exceeds 64 bits; the result must not.
	a, ok := sdkmath.NewIntFromString("123456789012345678901234567890")
	require.True(t, ok)
	out, err := MulDiv(a, sdkmath.NewInt(1_000_000), a)
	require.NoError(t, err)
	require.Equal(t, int64(1_000_000), out.Int64())
}

func TestMulDivRejectsZeroDenominator(t *testing.T) {
	_, err := MulDiv(sdkmath.OneInt(), sdkmath.OneInt(), sdkmath.ZeroInt())
	require.ErrorIs(t, err, ErrDivisionByZero)
}

func TestMulDivRejectsNegative(t *testing.T) {
	_, err := MulDiv(sdkmath.NewInt(-1), sdkmath.OneInt(), sdkmath.OneInt())
	require.ErrorIs(t, err, ErrAmountNegative)
}

func TestApplyPercent(t *testing.T) {
	out, err := ApplyPercent(sdkmath.NewInt(250), 10)
	require.NoError(t, err)
	require.Equal(t, int64(25), out.Int64())

	out, err = ApplyPercent(sdkmath.NewInt(99), 50)
	require.NoError(t, err)
	require.Equal(t, int64(49), out.Int64())

	_, err = ApplyPercent(sdkmath.NewInt(10), 101)
	require.ErrorIs(t, err, ErrPercentTooLarge)
}

func TestApplyBps(t *testing.T) {
	out, err := ApplyBps(sdkmath.NewInt(10_000), 9_900)
	require.NoError(t, err)
	require.Equal(t, int64(9_900), out.Int64())

	out, err = ApplyBps(sdkmath.NewInt(3), 9_999)
	require.NoError(t, err)
	require.Equal(t, int64(2), out.Int64())

	_, err = ApplyBps(sdkmath.NewInt(10), 10_001)
	require.ErrorIs(t, err, ErrBpsTooLarge)
}

func TestSplitHalf(t *testing.T) {
	a, b := SplitHalf(sdkmath.NewInt(10))
	require.Equal(t, int64(5), a.Int64())
	require.Equal(t, int64(5), b.Int64())

	// The first half absorbs the odd unit.
	a, b = SplitHalf(sdkmath.NewInt(11))
	require.Equal(t, int64(6), a.Int64())
	require.Equal(t, int64(5), b.Int64())
	require.Equal(t, int64(11), a.Add(b).Int64())

	a, b = SplitHalf(sdkmath.ZeroInt())
	require.True(t, a.IsZero())
	require.True(t, b.IsZero())
}
