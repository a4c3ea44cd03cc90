package exchange

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/types"
)

// fakeNode answers JSON-RPC requests with canned per-method handlers and
// records the decoded contract call arguments.
type fakeNode struct {
	t        *testing.T
	handlers map[string]func(args json.RawMessage) (any, error)
	calls    []string
}

func newFakeNode(t *testing.T) (*fakeNode, *RPCClient) {
	node := &fakeNode{
		t:        t,
		handlers: make(map[string]func(json.RawMessage) (any, error)),
	}
	srv := httptest.NewServer(node)
	t.Cleanup(srv.Close)

	client, err := NewRPCClient(srv.URL, "operator.test")
	require.NoError(t, err)
	return node, client
}

func (n *fakeNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID     uint64 `json:"id"`
		Method string `json:"method"`
		Params struct {
			Method     string `json:"method_name"`
			ArgsBase64 string `json:"args_base64"`
			SignerID   string `json:"signer_id"`
		} `json:"params"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		n.t.Errorf("decode rpc request: %v", err)
		return
	}
	args, err := base64.StdEncoding.DecodeString(req.Params.ArgsBase64)
	if err != nil {
		n.t.Errorf("decode args: %v", err)
		return
	}
	n.calls = append(n.calls, req.Params.Method)

	handler, ok := n.handlers[req.Params.Method]
	if !ok {
		n.t.Errorf("unexpected contract method %q", req.Params.Method)
		return
	}
	value, err := handler(args)

	var resp map[string]any
	switch {
	case err != nil:
		resp = map[string]any{
			"jsonrpc": "2.0", "id": req.ID,
			"error": map[string]any{"code": -32000, "message": err.Error()},
		}
	case req.Method == "query":
		raw, merr := json.Marshal(value)
		require.NoError(n.t, merr)
		resp = map[string]any{
			"jsonrpc": "2.0", "id": req.ID,
			"result": map[string]any{"result": json.RawMessage(raw), "logs": []string{}},
		}
	default:
		resp = map[string]any{
			"jsonrpc": "2.0", "id": req.ID,
			"result": map[string]any{
				"status":           map[string]any{"SuccessValue": ""},
				"transaction_hash": "txhash",
			},
		}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		n.t.Errorf("encode response: %v", err)
	}
}

func TestViewDecodesResult(t *testing.T) {
	node, client := newFakeNode(t)
	node.handlers["get_pool_shares"] = func(args json.RawMessage) (any, error) {
		var parsed struct {
			PoolID    uint64 `json:"pool_id"`
			AccountID string `json:"account_id"`
		}
		require.NoError(t, json.Unmarshal(args, &parsed))
		require.Equal(t, uint64(7), parsed.PoolID)
		require.Equal(t, "operator.test", parsed.AccountID)
		return "123456", nil
	}

	amm := NewExchangeClient(client, "dex.test")
	out, err := amm.PoolShares(context.Background(), 7, "operator.test")
	require.NoError(t, err)
	require.Equal(t, "123456", out.String())
}

func TestViewRemoteError(t *testing.T) {
	node, client := newFakeNode(t)
	node.handlers["get_pool_shares"] = func(json.RawMessage) (any, error) {
		return nil, fmt.Errorf("contract panicked")
	}

	amm := NewExchangeClient(client, "dex.test")
	_, err := amm.PoolShares(context.Background(), 7, "operator.test")
	require.ErrorIs(t, err, ErrRemoteCallFailed)
}

func TestChangeCarriesSignerAndArgs(t *testing.T) {
	node, client := newFakeNode(t)
	node.handlers["mft_transfer_call"] = func(args json.RawMessage) (any, error) {
		var parsed struct {
			ReceiverID string `json:"receiver_id"`
			TokenID    string `json:"token_id"`
			Amount     string `json:"amount"`
		}
		require.NoError(t, json.Unmarshal(args, &parsed))
		require.Equal(t, "farm.test", parsed.ReceiverID)
		require.Equal(t, ":7", parsed.TokenID)
		require.Equal(t, "890", parsed.Amount)
		return nil, nil
	}

	amm := NewExchangeClient(client, "dex.test")
	err := amm.StakeToFarm(context.Background(), "farm.test",
		types.NewSeedID("dex.test", 7), sdkmath.NewInt(890))
	require.NoError(t, err)
	require.Equal(t, []string{"mft_transfer_call"}, node.calls)
}

func TestFarmStatusFindsFarmInListing(t *testing.T) {
	node, client := newFakeNode(t)
	node.handlers["list_farms_by_seed"] = func(args json.RawMessage) (any, error) {
		var parsed struct {
			SeedID string `json:"seed_id"`
		}
		require.NoError(t, json.Unmarshal(args, &parsed))
		require.Equal(t, "dex.test@7", parsed.SeedID)
		return []map[string]string{
			{"farm_id": "dex.test@7#0", "farm_status": "Running"},
			{"farm_id": "dex.test@7#1", "farm_status": "Ended"},
		}, nil
	}

	farm := NewFarmClient(client, "farm.test")
	status, err := farm.FarmStatus(context.Background(), types.FarmID("dex.test@7#1"))
	require.NoError(t, err)
	require.Equal(t, "Ended", status)

	_, err = farm.FarmStatus(context.Background(), types.FarmID("dex.test@7#9"))
	require.Error(t, err)
}

func TestStorageRegistrationCheck(t *testing.T) {
	node, client := newFakeNode(t)
	registered := true
	node.handlers["storage_balance_of"] = func(json.RawMessage) (any, error) {
		if registered {
			return map[string]string{"total": "1250000000000000000000"}, nil
		}
		return nil, nil
	}

	tokens := NewTokenClient(client)
	ok, err := tokens.IsRegistered(context.Background(), "rew.test", "sentry.test")
	require.NoError(t, err)
	require.True(t, ok)

	registered = false
	ok, err = tokens.IsRegistered(context.Background(), "rew.test", "sentry.test")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestParseAmountRejectsGarbage(t *testing.T) {
	out, err := parseAmount("")
	require.NoError(t, err)
	require.True(t, out.IsZero())

	_, err = parseAmount("12x")
	require.ErrorIs(t, err, ErrMalformedResponse)

	_, err = parseAmount("-5")
	require.ErrorIs(t, err, ErrMalformedResponse)
}
