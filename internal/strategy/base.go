/*

Shared contract-backed behavior for the AMM strategy kinds. The variants in
simple_pair.go, stable_pool.go and boosted_farm.go differ only in their stage
ring, swap planning and liquidity call; everything else lives here.

*/

package strategy

import (
	"context"
	"fmt"

	sdkmath "cosmossdk.io/math"

	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/exchange"
	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/types"
)

type contractBackend struct {
	st      *types.Strategy
	account string

	farm   exchange.Farmer
	amm    exchange.Exchanger
	tokens exchange.TokenMover
}

func (b *contractBackend) Status(ctx context.Context, farmID types.FarmID) (string, error) {
	return b.farm.FarmStatus(ctx, farmID)
}

func (b *contractBackend) Unclaimed(ctx context.Context, farmID types.FarmID) (sdkmath.Int, error) {
	return b.farm.UnclaimedReward(ctx, b.account, farmID)
}

func (b *contractBackend) Claim(ctx context.Context, farmID types.FarmID) error {
	return b.farm.ClaimReward(ctx, farmID)
}

func (b *contractBackend) WithdrawReward(ctx context.Context, amount sdkmath.Int) error {
	return b.farm.WithdrawReward(ctx, b.st.RewardToken, amount)
}

func (b *contractBackend) Quote(ctx context.Context, leg SwapLeg) (sdkmath.Int, error) {
	return b.amm.GetReturn(ctx, b.st.PoolID, leg.TokenIn, leg.AmountIn, leg.TokenOut)
}

func (b *contractBackend) Swap(ctx context.Context, leg SwapLeg, minOut sdkmath.Int) (sdkmath.Int, error) {
	return b.amm.Swap(ctx, b.st.PoolID, leg.TokenIn, leg.AmountIn, leg.TokenOut, minOut)
}

func (b *contractBackend) ProvideLiquidity(ctx context.Context, amounts [2]sdkmath.Int) (sdkmath.Int, error) {
	before, err := b.amm.PoolShares(ctx, b.st.PoolID, b.account)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	if err := b.amm.AddLiquidity(ctx, b.st.PoolID, amounts); err != nil {
		return sdkmath.ZeroInt(), err
	}
	after, err := b.amm.PoolShares(ctx, b.st.PoolID, b.account)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	minted := after.Sub(before)
	if minted.IsNegative() {
		return sdkmath.ZeroInt(), fmt.Errorf("pool shares decreased across add_liquidity: %s -> %s", before, after)
	}
	return minted, nil
}

func (b *contractBackend) PoolBalance(ctx context.Context) (sdkmath.Int, error) {
	return b.amm.PoolShares(ctx, b.st.PoolID, b.account)
}

func (b *contractBackend) Staked(ctx context.Context) (sdkmath.Int, error) {
	return b.farm.StakedShares(ctx, b.st.SeedID, b.account)
}

func (b *contractBackend) Stake(ctx context.Context, amount sdkmath.Int) error {
	return b.amm.StakeToFarm(ctx, b.st.Farm, b.st.SeedID, amount)
}

func (b *contractBackend) Unstake(ctx context.Context, amount sdkmath.Int) error {
	return b.farm.WithdrawSeed(ctx, b.st.SeedID, amount)
}

func (b *contractBackend) TransferOut(ctx context.Context, receiver string, amount sdkmath.Int) error {
	return b.amm.TransferShares(ctx, receiver, b.st.SeedID, amount)
}

func (b *contractBackend) PayReward(ctx context.Context, receiver string, amount sdkmath.Int) error {
	return b.tokens.Transfer(ctx, b.st.RewardToken, receiver, amount)
}

func (b *contractBackend) RewardRegistered(ctx context.Context, account string) (bool, error) {
	return b.tokens.IsRegistered(ctx, b.st.RewardToken, account)
}

// NewContractBackendFactory returns the production factory, building a backend
// over the given RPC client for whatever kind the strategy declares.
func NewContractBackendFactory(rpc *exchange.RPCClient, account string) BackendFactory {
	return func(st *types.Strategy) (Backend, error) {
		base := contractBackend{
			st:      st,
			account: account,
			farm:    exchange.NewFarmClient(rpc, st.Farm),
			amm:     exchange.NewExchangeClient(rpc, st.Exchange),
			tokens:  exchange.NewTokenClient(rpc),
		}
		switch st.Kind {
		case types.KindSimplePair:
			return &SimplePairBackend{contractBackend: base}, nil
		case types.KindStablePool:
			return &StablePoolBackend{contractBackend: base}, nil
		case types.KindBoostedFarm:
			return &BoostedFarmBackend{contractBackend: base}, nil
		case types.KindLending:
			return NewLendingBackend(base, exchange.NewLendingClient(rpc, st.LendingProtocol)), nil
		}
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownStrategyKind, st.Kind)
	}
}
