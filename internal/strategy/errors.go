package strategy

import "errors"

var (
	// ErrStrategyNotFound is returned when no strategy matches the requested id.
	ErrStrategyNotFound = errors.New("strategy not found")
	// ErrStrategyExists is returned when creating a strategy whose id is taken.
	ErrStrategyExists = errors.New("strategy already exists")
	// ErrStrategyPaused is returned when an operation hits a paused strategy.
	ErrStrategyPaused = errors.New("strategy is paused")
	// ErrFarmNotFound is returned when the strategy tracks no such farm.
	ErrFarmNotFound = errors.New("farm not found")
	// ErrFarmCleared is returned when harvesting a farm that has been fully
	// wound down. Cleared farms never re-enter the cycle.
	ErrFarmCleared = errors.New("farm is cleared")
	// ErrNoReward signals a claim stage that found nothing to claim on a
	// running farm. The stage did not advance and may be retried later.
	ErrNoReward = errors.New("no reward available yet")
	// ErrSwapBelowMinimum signals a swap leg that failed its minimum output.
	// The stage did not advance; slippage has been widened for the retry.
	ErrSwapBelowMinimum = errors.New("swap output below minimum")
	// ErrTokenNotWhitelisted is returned when a strategy references a token
	// outside the configured whitelist.
	ErrTokenNotWhitelisted = errors.New("token not whitelisted")
	// ErrBelowMinDeposit is returned when a deposit is under the strategy floor.
	ErrBelowMinDeposit = errors.New("deposit below strategy minimum")
	// ErrNothingStaked is returned when unstaking an account with no shares.
	ErrNothingStaked = errors.New("account has no shares staked")
	// ErrAmountExceedsEntitlement is returned when an unstake asks for more
	// underlying than the account's shares are worth.
	ErrAmountExceedsEntitlement = errors.New("amount exceeds share entitlement")
	// ErrAmountTooSmall is returned when an unstake amount converts to zero
	// shares at the current share price. Nothing has moved; the caller must
	// ask for more or withdraw in full.
	ErrAmountTooSmall = errors.New("amount converts to zero shares")
	// ErrFarmStakeShort is returned when the farm holds fewer staked shares
	// than a withdrawal needs after idle pool shares are counted.
	ErrFarmStakeShort = errors.New("farm stake below requested amount")
	// ErrStrategyNotEmpty is returned when removing a strategy that still has
	// outstanding shares.
	ErrStrategyNotEmpty = errors.New("strategy still has outstanding shares")
)
