/*

Low-level JSON-RPC transport shared by the exchange, farm, token and lending
clients. The node exposes read-only contract views through `query` and state
mutations through a signed `call`; both surface remote failures as ordinary
errors, which the cycle orchestrator maps onto its per-stage retry policy.

*/

package exchange

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/logger"
)

// Error definitions for zero-tolerance error handling
var (
	ErrInvalidEndpoint   = errors.New("rpc endpoint is invalid")
	ErrRequestFailed     = errors.New("rpc request failed")
	ErrRemoteCallFailed  = errors.New("remote contract call failed")
	ErrMalformedResponse = errors.New("malformed rpc response")
)

var rpcLogger = logger.GetForComponent("rpc_client")

// RPCClient posts JSON-RPC 2.0 requests to the chain node.
type RPCClient struct {
	endpoint string
	signer   string
	http     *http.Client
	nextID   atomic.Uint64
}

// NewRPCClient validates the endpoint and returns a ready client. signer is
// the operator account on whose behalf change calls are issued.
func NewRPCClient(endpoint, signer string) (*RPCClient, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("%w: empty endpoint", ErrInvalidEndpoint)
	}
	if signer == "" {
		return nil, fmt.Errorf("%w: empty signer account", ErrInvalidEndpoint)
	}
	return &RPCClient{
		endpoint: endpoint,
		signer:   signer,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Signer returns the operator account id used for change calls.
func (c *RPCClient) Signer() string {
	return c.signer
}

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

func (e *rpcError) Error() string {
	if e.Data != "" {
		return fmt.Sprintf("rpc error %d: %s (%s)", e.Code, e.Message, e.Data)
	}
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type viewParams struct {
	RequestType string `json:"request_type"`
	AccountID   string `json:"account_id"`
	Method      string `json:"method_name"`
	ArgsBase64  string `json:"args_base64"`
	Finality    string `json:"finality"`
}

type viewResult struct {
	Result json.RawMessage `json:"result"`
	Logs   []string        `json:"logs"`
}

type changeParams struct {
	SignerID   string `json:"signer_id"`
	ReceiverID string `json:"receiver_id"`
	Method     string `json:"method_name"`
	ArgsBase64 string `json:"args_base64"`
	Deposit    string `json:"deposit"`
}

type changeResult struct {
	Status struct {
		SuccessValue string `json:"SuccessValue"`
		Failure      any    `json:"Failure"`
	} `json:"status"`
	TransactionHash string `json:"transaction_hash"`
}

// View executes a read-only contract method and decodes its JSON result into
// out. Pass a nil out to discard the result.
func (c *RPCClient) View(ctx context.Context, contract, method string, args any, out any) error {
	argsJSON, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("%w: encode args: %w", ErrRequestFailed, err)
	}
	params := viewParams{
		RequestType: "call_function",
		AccountID:   contract,
		Method:      method,
		ArgsBase64:  base64.StdEncoding.EncodeToString(argsJSON),
		Finality:    "final",
	}
	var result viewResult
	if err := c.call(ctx, "query", params, &result); err != nil {
		return fmt.Errorf("%w: %s.%s: %w", ErrRemoteCallFailed, contract, method, err)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(result.Result, out); err != nil {
		return fmt.Errorf("%w: decode %s.%s result: %w", ErrMalformedResponse, contract, method, err)
	}
	return nil
}

// Change executes a state-mutating contract method signed by the operator
// account. deposit is the attached native amount in yocto units ("0" or "1"
// for most token calls).
func (c *RPCClient) Change(ctx context.Context, contract, method string, args any, deposit string) error {
	argsJSON, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("%w: encode args: %w", ErrRequestFailed, err)
	}
	params := changeParams{
		SignerID:   c.signer,
		ReceiverID: contract,
		Method:     method,
		ArgsBase64: base64.StdEncoding.EncodeToString(argsJSON),
		Deposit:    deposit,
	}
	var result changeResult
	if err := c.call(ctx, "broadcast_tx_commit", params, &result); err != nil {
		return fmt.Errorf("%w: %s.%s: %w", ErrRemoteCallFailed, contract, method, err)
	}
	if result.Status.Failure != nil {
		return fmt.Errorf("%w: %s.%s: execution failed: %v",
			ErrRemoteCallFailed, contract, method, result.Status.Failure)
	}
	rpcLogger.Debug().
		Str("contract", contract).
		Str("method", method).
		Str("txHash", result.TransactionHash).
		Msg("Change call committed")
	return nil
}

func (c *RPCClient) call(ctx context.Context, method string, params any, out any) error {
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("encode params: %w", err)
	}
	req := rpcRequest{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  paramsJSON,
	}
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("%w: read response: %w", ErrRequestFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d: %s", ErrRequestFailed, resp.StatusCode, string(respBody))
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if rpcResp.Error != nil {
		return rpcResp.Error
	}
	if out != nil {
		if err := json.Unmarshal(rpcResp.Result, out); err != nil {
			return fmt.Errorf("%w: decode result: %w", ErrMalformedResponse, err)
		}
	}
	return nil
}
