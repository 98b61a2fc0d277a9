package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
)

// RPC rejection codes returned by the settlement network.
const (
	codeInsufficientFunds  = -32001
	codeInvalidDestination = -32002
	codeEscrowNotFound     = -32010
	codeEscrowNotMature    = -32011
	codeEscrowNotExpired   = -32012
)

// RPCGateway implements Gateway against the settlement network's JSON-RPC
// endpoint.
type RPCGateway struct {
	baseURL   string
	authToken string
	http      *http.Client
	nextID    atomic.Int64
}

var _ Gateway = (*RPCGateway)(nil)

func NewRPCGateway(baseURL, authToken string) *RPCGateway {
	return &RPCGateway{
		baseURL:   baseURL,
		authToken: authToken,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type jsonRPCRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
	ID      int64       `json:"id"`
}

type jsonRPCResponse struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      int64            `json:"id"`
	Result  json.RawMessage  `json:"result"`
	Error   *jsonRPCErrorObj `json:"error"`
}

type jsonRPCErrorObj struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (g *RPCGateway) MintDocumentToken(ctx context.Context, issuer Credential, meta DocumentMeta) (*MintResult, error) {
	payload := map[string]interface{}{
		"issuerSeed": issuer.Seed,
		"metadata":   meta,
	}
	var result struct {
		TxHash  string `json:"txHash"`
		TokenID string `json:"tokenId"`
	}
	if err := g.call(ctx, "token_mintDocument", []interface{}{payload}, &result); err != nil {
		return nil, err
	}
	return &MintResult{TxHash: result.TxHash, TokenID: result.TokenID}, nil
}

func (g *RPCGateway) TransferValue(ctx context.Context, sender Credential, destination string, amount decimal.Decimal) (*TransferResult, error) {
	payload := map[string]interface{}{
		"senderSeed":  sender.Seed,
		"destination": destination,
		"amount":      amount.String(),
	}
	var result struct {
		TxHash string `json:"txHash"`
	}
	if err := g.call(ctx, "value_transfer", []interface{}{payload}, &result); err != nil {
		return nil, err
	}
	return &TransferResult{TxHash: result.TxHash}, nil
}

func (g *RPCGateway) CreateEscrow(ctx context.Context, sender Credential, destination string, amount decimal.Decimal, finishAfter time.Time) (*EscrowResult, error) {
	if !finishAfter.After(time.Now()) {
		return nil, ErrFinishAfterPast
	}
	cancelAfter := finishAfter.Add(EscrowGrace)
	payload := map[string]interface{}{
		"senderSeed":  sender.Seed,
		"destination": destination,
		"amount":      amount.String(),
		"finishAfter": finishAfter.UTC().Unix(),
		"cancelAfter": cancelAfter.UTC().Unix(),
	}
	var result struct {
		TxHash   string `json:"txHash"`
		Sequence uint64 `json:"sequence"`
	}
	if err := g.call(ctx, "escrow_create", []interface{}{payload}, &result); err != nil {
		return nil, err
	}
	return &EscrowResult{TxHash: result.TxHash, Sequence: result.Sequence, CancelAfter: cancelAfter}, nil
}

func (g *RPCGateway) FinishEscrow(ctx context.Context, finisher Credential, owner string, sequence uint64) (*TransferResult, error) {
	payload := map[string]interface{}{
		"finisherSeed": finisher.Seed,
		"owner":        owner,
		"sequence":     sequence,
	}
	var result struct {
		TxHash string `json:"txHash"`
	}
	if err := g.call(ctx, "escrow_finish", []interface{}{payload}, &result); err != nil {
		return nil, err
	}
	return &TransferResult{TxHash: result.TxHash}, nil
}

func (g *RPCGateway) CancelEscrow(ctx context.Context, canceller Credential, owner string, sequence uint64) (*TransferResult, error) {
	payload := map[string]interface{}{
		"cancellerSeed": canceller.Seed,
		"owner":         owner,
		"sequence":      sequence,
	}
	var result struct {
		TxHash string `json:"txHash"`
	}
	if err := g.call(ctx, "escrow_cancel", []interface{}{payload}, &result); err != nil {
		return nil, err
	}
	return &TransferResult{TxHash: result.TxHash}, nil
}

func (g *RPCGateway) Balance(ctx context.Context, address string) (decimal.Decimal, error) {
	var result struct {
		Balance string `json:"balance"`
	}
	if err := g.call(ctx, "account_balance", []interface{}{map[string]string{"address": address}}, &result); err != nil {
		return decimal.Zero, err
	}
	bal, err := decimal.NewFromString(result.Balance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: malformed balance %q", ErrSubmission, result.Balance)
	}
	return bal, nil
}

func (g *RPCGateway) call(ctx context.Context, method string, params interface{}, out interface{}) error {
	id := g.nextID.Add(1)
	buf, err := json.Marshal(jsonRPCRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      id,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if strings.TrimSpace(g.authToken) != "" {
		req.Header.Set("Authorization", "Bearer "+g.authToken)
	}
	resp, err := g.http.Do(req)
	if err != nil {
		// A timed-out request may already be executing on the node; only
		// failures to connect are known to have done nothing.
		if timedOut(ctx, err) {
			return fmt.Errorf("%w: %s: %v", ErrOutcomeUnknown, method, err)
		}
		return fmt.Errorf("%w: %s: %v", ErrNetwork, method, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: %s: status=%d body=%s", ErrNetwork, method, resp.StatusCode, string(body))
	}
	var rpcResp jsonRPCResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		// The node answered 200; the result was lost on the way back.
		return fmt.Errorf("%w: %s: %v", ErrOutcomeUnknown, method, err)
	}
	if rpcResp.Error != nil {
		return rpcError(method, rpcResp.Error)
	}
	if out == nil {
		return nil
	}
	if len(rpcResp.Result) == 0 {
		return fmt.Errorf("%w: %s: empty result", ErrSubmission, method)
	}
	return json.Unmarshal(rpcResp.Result, out)
}

// timedOut reports whether a transport error is a deadline/timeout class
// failure, i.e. the request may have been delivered before the wait gave
// up.
func timedOut(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func rpcError(method string, e *jsonRPCErrorObj) error {
	var sentinel error
	switch e.Code {
	case codeInsufficientFunds:
		sentinel = ErrInsufficientFunds
	case codeInvalidDestination:
		sentinel = ErrInvalidDestination
	case codeEscrowNotFound:
		sentinel = ErrEscrowNotFound
	case codeEscrowNotMature:
		sentinel = ErrEscrowNotMature
	case codeEscrowNotExpired:
		sentinel = ErrEscrowNotExpired
	default:
		sentinel = ErrSubmission
	}
	return fmt.Errorf("%w: %s: %s (code=%d)", sentinel, method, e.Message, e.Code)
}
