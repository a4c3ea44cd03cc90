/*

The fee model converts a gross harvested reward into the amount to reinvest
plus the treasury, sentry, and creator cuts. The split order matters: each cut
floors independently and the treasury absorbs the rounding residue, so the
four outputs always sum exactly to the gross reward.

*/

package fees

import (
	"fmt"

	sdkmath "cosmossdk.io/math"

	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/tokenmath"
	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/types"
)

// Split is the outcome of dividing one gross reward amount.
type Split struct {
	Remaining sdkmath.Int // reinvested by the strategy
	Treasury  sdkmath.Int // protocol treasury cut (absorbs rounding)
	Sentry    sdkmath.Int // owed to the account that triggered the harvest
	Creator   sdkmath.Int // owed to the strategy creator
}

// Total returns the sum of all four outputs. Equals the input reward by
// construction; exposed for invariant checks.
func (s Split) Total() sdkmath.Int {
	return s.Remaining.Add(s.Treasury).Add(s.Sentry).Add(s.Creator)
}

// Compute splits reward according to the configured percentages. Percentages
// above 100 are a configuration bug rejected when fees are set; Compute
// reports them as an error rather than letting the arithmetic underflow.
func Compute(reward sdkmath.Int, cfg types.AdminFees) (Split, error) {
	if reward.IsNil() || reward.IsNegative() {
		return Split{}, fmt.Errorf("invalid reward amount %v", reward)
	}
	if err := cfg.Validate(); err != nil {
		return Split{}, fmt.Errorf("fee configuration: %w", err)
	}

	allFees, err := tokenmath.ApplyPercent(reward, cfg.StrategyFeePct)
	if err != nil {
		return Split{}, err
	}
	sentry, err := tokenmath.ApplyPercent(allFees, cfg.SentryFeePct)
	if err != nil {
		return Split{}, err
	}
	creator, err := tokenmath.ApplyPercent(allFees, cfg.CreatorFeePct)
	if err != nil {
		return Split{}, err
	}
	treasury := allFees.Sub(sentry).Sub(creator)
	remaining := reward.Sub(treasury).Sub(sentry).Sub(creator)

	return Split{
		Remaining: remaining,
		Treasury:  treasury,
		Sentry:    sentry,
		Creator:   creator,
	}, nil
}
