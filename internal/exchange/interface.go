package exchange

import (
	"context"

	sdkmath "cosmossdk.io/math"

	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/types"
)

// FarmStatusRunning is the only farm listing status under which the cycle
// keeps compounding; anything else is treated as Ended.
const FarmStatusRunning = "Running"

// Farmer abstracts the farm contract a strategy harvests from.
// Every method is a remote call and can fail; callers must treat a returned
// error as the failure result of that single invocation.
type Farmer interface {
	// FarmStatus returns the farm's status string from the farm listing.
	FarmStatus(ctx context.Context, farmID types.FarmID) (string, error)

	// UnclaimedReward returns the reward currently claimable by account.
	UnclaimedReward(ctx context.Context, account string, farmID types.FarmID) (sdkmath.Int, error)

	// ClaimReward moves the pending reward into the farm's internal ledger
	// for the calling account.
	ClaimReward(ctx context.Context, farmID types.FarmID) error

	// WithdrawReward moves claimed reward tokens from the farm's internal
	// ledger into the exchange deposit of the calling account.
	WithdrawReward(ctx context.Context, token string, amount sdkmath.Int) error

	// StakedShares returns the amount of seed shares the account has staked.
	StakedShares(ctx context.Context, seed types.SeedID, account string) (sdkmath.Int, error)

	// WithdrawSeed pulls staked shares back into the exchange account.
	WithdrawSeed(ctx context.Context, seed types.SeedID, amount sdkmath.Int) error
}

// Exchanger abstracts the AMM exchange contract holding the pool.
type Exchanger interface {
	// GetReturn quotes the output of swapping amountIn through the pool.
	GetReturn(ctx context.Context, poolID uint64, tokenIn string, amountIn sdkmath.Int, tokenOut string) (sdkmath.Int, error)

	// Swap executes one swap leg, failing if the output falls below minOut.
	Swap(ctx context.Context, poolID uint64, tokenIn string, amountIn sdkmath.Int, tokenOut string, minOut sdkmath.Int) (sdkmath.Int, error)

	// AddLiquidity converts the deposited token amounts into new pool shares.
	AddLiquidity(ctx context.Context, poolID uint64, amounts [2]sdkmath.Int) error

	// AddStableLiquidity is the stable-pool deposit, with a minimum share out.
	AddStableLiquidity(ctx context.Context, poolID uint64, amounts []sdkmath.Int, minShares sdkmath.Int) error

	// PoolShares returns the account's unstaked shares in the pool.
	PoolShares(ctx context.Context, poolID uint64, account string) (sdkmath.Int, error)

	// StakeToFarm transfers pool shares into the farm contract for staking.
	StakeToFarm(ctx context.Context, farm string, seed types.SeedID, amount sdkmath.Int) error

	// TransferShares moves pool shares out to a user account.
	TransferShares(ctx context.Context, receiver string, seed types.SeedID, amount sdkmath.Int) error
}

// TokenMover abstracts fungible token transfers used for fee payouts.
type TokenMover interface {
	// Transfer sends amount of token to receiver.
	Transfer(ctx context.Context, token, receiver string, amount sdkmath.Int) error

	// IsRegistered reports whether account holds a storage registration for
	// the token and can therefore receive it.
	IsRegistered(ctx context.Context, token, account string) (bool, error)
}

// Lender abstracts the lending protocol used by the Lending strategy kind.
type Lender interface {
	// Supply deposits amount of token into the lending protocol.
	Supply(ctx context.Context, token string, amount sdkmath.Int) error

	// Withdraw redeems amount of token from the lending protocol.
	Withdraw(ctx context.Context, token string, amount sdkmath.Int) error

	// Supplied returns the account's lend-share balance for the token.
	Supplied(ctx context.Context, token, account string) (sdkmath.Int, error)
}
