/*

Contract clients for the external collaborators: the AMM exchange, the reward
farm, fungible tokens and the lending protocol. Amounts cross the wire as
decimal strings; everything is parsed back into sdkmath.Int before it reaches
the engine.

*/

package exchange

import (
	"context"
	"fmt"

	sdkmath "cosmossdk.io/math"

	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/types"
)

func parseAmount(raw string) (sdkmath.Int, error) {
	if raw == "" {
		return sdkmath.ZeroInt(), nil
	}
	amount, ok := sdkmath.NewIntFromString(raw)
	if !ok {
		return sdkmath.ZeroInt(), fmt.Errorf("%w: amount %q", ErrMalformedResponse, raw)
	}
	if amount.IsNegative() {
		return sdkmath.ZeroInt(), fmt.Errorf("%w: negative amount %q", ErrMalformedResponse, raw)
	}
	return amount, nil
}

// FarmClient talks to one farm contract.
type FarmClient struct {
	rpc      *RPCClient
	contract string
}

// NewFarmClient returns a client bound to the farm contract account.
func NewFarmClient(rpc *RPCClient, contract string) *FarmClient {
	return &FarmClient{rpc: rpc, contract: contract}
}

type farmInfo struct {
	FarmID string `json:"farm_id"`
	Status string `json:"farm_status"`
}

func (f *FarmClient) FarmStatus(ctx context.Context, farmID types.FarmID) (string, error) {
	seed, err := farmID.Seed()
	if err != nil {
		return "", err
	}
	var farms []farmInfo
	err = f.rpc.View(ctx, f.contract, "list_farms_by_seed",
		map[string]string{"seed_id": string(seed)}, &farms)
	if err != nil {
		return "", err
	}
	for _, farm := range farms {
		if farm.FarmID == string(farmID) {
			return farm.Status, nil
		}
	}
	return "", fmt.Errorf("%w: farm %s not listed for seed %s", ErrRemoteCallFailed, farmID, seed)
}

func (f *FarmClient) UnclaimedReward(ctx context.Context, account string, farmID types.FarmID) (sdkmath.Int, error) {
	var raw string
	err := f.rpc.View(ctx, f.contract, "get_unclaimed_reward",
		map[string]string{"account_id": account, "farm_id": string(farmID)}, &raw)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	return parseAmount(raw)
}

func (f *FarmClient) ClaimReward(ctx context.Context, farmID types.FarmID) error {
	seed, err := farmID.Seed()
	if err != nil {
		return err
	}
	return f.rpc.Change(ctx, f.contract, "claim_reward_by_seed",
		map[string]string{"seed_id": string(seed)}, "0")
}

func (f *FarmClient) WithdrawReward(ctx context.Context, token string, amount sdkmath.Int) error {
	return f.rpc.Change(ctx, f.contract, "withdraw_reward", map[string]any{
		"token_id":   token,
		"amount":     amount.String(),
		"unregister": false,
	}, "1")
}

func (f *FarmClient) StakedShares(ctx context.Context, seed types.SeedID, account string) (sdkmath.Int, error) {
	var deposits map[string]string
	err := f.rpc.View(ctx, f.contract, "list_user_seeds",
		map[string]string{"account_id": account}, &deposits)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	return parseAmount(deposits[string(seed)])
}

func (f *FarmClient) WithdrawSeed(ctx context.Context, seed types.SeedID, amount sdkmath.Int) error {
	return f.rpc.Change(ctx, f.contract, "withdraw_seed", map[string]string{
		"seed_id": string(seed),
		"amount":  amount.String(),
	}, "1")
}

// ExchangeClient talks to one AMM exchange contract.
type ExchangeClient struct {
	rpc      *RPCClient
	contract string
}

// NewExchangeClient returns a client bound to the exchange contract account.
func NewExchangeClient(rpc *RPCClient, contract string) *ExchangeClient {
	return &ExchangeClient{rpc: rpc, contract: contract}
}

func (e *ExchangeClient) GetReturn(ctx context.Context, poolID uint64, tokenIn string, amountIn sdkmath.Int, tokenOut string) (sdkmath.Int, error) {
	var raw string
	err := e.rpc.View(ctx, e.contract, "get_return", map[string]any{
		"pool_id":   poolID,
		"token_in":  tokenIn,
		"amount_in": amountIn.String(),
		"token_out": tokenOut,
	}, &raw)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	return parseAmount(raw)
}

func (e *ExchangeClient) Swap(ctx context.Context, poolID uint64, tokenIn string, amountIn sdkmath.Int, tokenOut string, minOut sdkmath.Int) (sdkmath.Int, error) {
	action := map[string]any{
		"pool_id":        poolID,
		"token_in":       tokenIn,
		"amount_in":      amountIn.String(),
		"token_out":      tokenOut,
		"min_amount_out": minOut.String(),
	}
	err := e.rpc.Change(ctx, e.contract, "swap",
		map[string]any{"actions": []any{action}}, "1")
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	// The committed swap succeeded, so the output met the minimum; re-quote
	// is not reliable after the pool moved. The minimum is the amount the
	// cycle may safely account for.
	return minOut, nil
}

func (e *ExchangeClient) AddLiquidity(ctx context.Context, poolID uint64, amounts [2]sdkmath.Int) error {
	return e.rpc.Change(ctx, e.contract, "add_liquidity", map[string]any{
		"pool_id": poolID,
		"amounts": []string{amounts[0].String(), amounts[1].String()},
	}, "1")
}

func (e *ExchangeClient) AddStableLiquidity(ctx context.Context, poolID uint64, amounts []sdkmath.Int, minShares sdkmath.Int) error {
	raw := make([]string, len(amounts))
	for i, a := range amounts {
		raw[i] = a.String()
	}
	return e.rpc.Change(ctx, e.contract, "add_stable_liquidity", map[string]any{
		"pool_id":    poolID,
		"amounts":    raw,
		"min_shares": minShares.String(),
	}, "1")
}

func (e *ExchangeClient) PoolShares(ctx context.Context, poolID uint64, account string) (sdkmath.Int, error) {
	var raw string
	err := e.rpc.View(ctx, e.contract, "get_pool_shares", map[string]any{
		"pool_id":    poolID,
		"account_id": account,
	}, &raw)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	return parseAmount(raw)
}

func (e *ExchangeClient) StakeToFarm(ctx context.Context, farm string, seed types.SeedID, amount sdkmath.Int) error {
	_, poolID, err := seed.Parse()
	if err != nil {
		return err
	}
	return e.rpc.Change(ctx, e.contract, "mft_transfer_call", map[string]any{
		"receiver_id": farm,
		"token_id":    fmt.Sprintf(":%d", poolID),
		"amount":      amount.String(),
		"msg":         "",
	}, "1")
}

func (e *ExchangeClient) TransferShares(ctx context.Context, receiver string, seed types.SeedID, amount sdkmath.Int) error {
	_, poolID, err := seed.Parse()
	if err != nil {
		return err
	}
	return e.rpc.Change(ctx, e.contract, "mft_transfer", map[string]any{
		"receiver_id": receiver,
		"token_id":    fmt.Sprintf(":%d", poolID),
		"amount":      amount.String(),
	}, "1")
}

// TokenClient moves fungible tokens for fee payouts.
type TokenClient struct {
	rpc *RPCClient
}

// NewTokenClient returns a fungible token client.
func NewTokenClient(rpc *RPCClient) *TokenClient {
	return &TokenClient{rpc: rpc}
}

func (t *TokenClient) Transfer(ctx context.Context, token, receiver string, amount sdkmath.Int) error {
	return t.rpc.Change(ctx, token, "ft_transfer", map[string]string{
		"receiver_id": receiver,
		"amount":      amount.String(),
	}, "1")
}

func (t *TokenClient) IsRegistered(ctx context.Context, token, account string) (bool, error) {
	var balance *struct {
		Total string `json:"total"`
	}
	err := t.rpc.View(ctx, token, "storage_balance_of",
		map[string]string{"account_id": account}, &balance)
	if err != nil {
		return false, err
	}
	return balance != nil, nil
}

// LendingClient talks to the lending protocol contract.
type LendingClient struct {
	rpc      *RPCClient
	contract string
}

// NewLendingClient returns a client bound to the lending protocol account.
func NewLendingClient(rpc *RPCClient, contract string) *LendingClient {
	return &LendingClient{rpc: rpc, contract: contract}
}

func (l *LendingClient) Supply(ctx context.Context, token string, amount sdkmath.Int) error {
	// Deposits enter the lending protocol through the token's transfer-call
	// hook, not a direct method on the protocol contract.
	return l.rpc.Change(ctx, token, "ft_transfer_call", map[string]string{
		"receiver_id": l.contract,
		"amount":      amount.String(),
		"msg":         "",
	}, "1")
}

func (l *LendingClient) Withdraw(ctx context.Context, token string, amount sdkmath.Int) error {
	return l.rpc.Change(ctx, l.contract, "withdraw", map[string]string{
		"token_id": token,
		"amount":   amount.String(),
	}, "1")
}

func (l *LendingClient) Supplied(ctx context.Context, token, account string) (sdkmath.Int, error) {
	var account_ struct {
		Supplied []struct {
			TokenID string `json:"token_id"`
			Balance string `json:"balance"`
		} `json:"supplied"`
	}
	err := l.rpc.View(ctx, l.contract, "get_account",
		map[string]string{"account_id": account}, &account_)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	for _, entry := range account_.Supplied {
		if entry.TokenID == token {
			return parseAmount(entry.Balance)
		}
	}
	return sdkmath.ZeroInt(), nil
}
