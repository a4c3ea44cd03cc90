package strategy

import (
	"context"

	sdkmath "cosmossdk.io/math"

	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/types"
)

// SwapLeg is one planned swap inside a swap stage. Slot names the side of the
// cycle's available balance that receives the output.
type SwapLeg struct {
	TokenIn  string
	TokenOut string
	AmountIn sdkmath.Int
	Slot     int
}

// Backend adapts one strategy kind to the contracts it compounds through.
// The cycle engine drives every external effect through this interface, so a
// strategy's behavior can be exercised without any network in reach.
type Backend interface {
	// Stages returns the stage ring the cycle walks for this kind.
	Stages() []types.CycleStage

	// Status returns the farm's listing status.
	Status(ctx context.Context, farmID types.FarmID) (string, error)

	// Unclaimed returns the reward claimable by the operator account.
	Unclaimed(ctx context.Context, farmID types.FarmID) (sdkmath.Int, error)

	// Claim pulls the pending reward into the farm ledger.
	Claim(ctx context.Context, farmID types.FarmID) error

	// WithdrawReward moves claimed reward tokens out of the farm ledger.
	WithdrawReward(ctx context.Context, amount sdkmath.Int) error

	// SwapLegs plans the swap legs for the given stage from the remaining
	// reward held by the cycle.
	SwapLegs(stage types.CycleStage, cycle *types.FarmCycle) ([]SwapLeg, error)

	// Quote returns the current output for a leg with no minimum applied.
	Quote(ctx context.Context, leg SwapLeg) (sdkmath.Int, error)

	// Swap executes one leg, failing if the output falls below minOut.
	Swap(ctx context.Context, leg SwapLeg, minOut sdkmath.Int) (sdkmath.Int, error)

	// ProvideLiquidity turns the available balances into pool shares and
	// returns the amount of shares minted.
	ProvideLiquidity(ctx context.Context, amounts [2]sdkmath.Int) (sdkmath.Int, error)

	// PoolBalance returns the operator's unstaked pool shares, transferable
	// without touching the farm.
	PoolBalance(ctx context.Context) (sdkmath.Int, error)

	// Staked returns the operator's shares currently staked in the farm.
	Staked(ctx context.Context) (sdkmath.Int, error)

	// Stake moves pool shares into the farm.
	Stake(ctx context.Context, amount sdkmath.Int) error

	// Unstake pulls staked pool shares back out of the farm.
	Unstake(ctx context.Context, amount sdkmath.Int) error

	// TransferOut sends pool shares to a user account.
	TransferOut(ctx context.Context, receiver string, amount sdkmath.Int) error

	// PayReward transfers reward tokens to a fee recipient.
	PayReward(ctx context.Context, receiver string, amount sdkmath.Int) error

	// RewardRegistered reports whether account can receive the reward token.
	RewardRegistered(ctx context.Context, account string) (bool, error)
}

// BackendFactory builds a backend for a strategy. The production factory wires
// RPC contract clients; tests substitute a scripted implementation.
type BackendFactory func(st *types.Strategy) (Backend, error)
