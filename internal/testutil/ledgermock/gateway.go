package ledgermock

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"invoicelane-backend/internal/ledger"
)

// Ensure compile-time compliance
var _ ledger.Gateway = (*Gateway)(nil)

var errUnimplemented = errors.New("ledgermock: method not implemented")

// Gateway is a function-backed mock that satisfies ledger.Gateway.
// Unfilled methods return errUnimplemented so a test that hits an
// unexpected ledger call fails loudly.
type Gateway struct {
	MintDocumentTokenFn func(ctx context.Context, issuer ledger.Credential, meta ledger.DocumentMeta) (*ledger.MintResult, error)
	TransferValueFn     func(ctx context.Context, sender ledger.Credential, destination string, amount decimal.Decimal) (*ledger.TransferResult, error)
	CreateEscrowFn      func(ctx context.Context, sender ledger.Credential, destination string, amount decimal.Decimal, finishAfter time.Time) (*ledger.EscrowResult, error)
	FinishEscrowFn      func(ctx context.Context, finisher ledger.Credential, owner string, sequence uint64) (*ledger.TransferResult, error)
	CancelEscrowFn      func(ctx context.Context, canceller ledger.Credential, owner string, sequence uint64) (*ledger.TransferResult, error)
	BalanceFn           func(ctx context.Context, address string) (decimal.Decimal, error)
}

func (m *Gateway) MintDocumentToken(ctx context.Context, issuer ledger.Credential, meta ledger.DocumentMeta) (*ledger.MintResult, error) {
	if m.MintDocumentTokenFn != nil {
		return m.MintDocumentTokenFn(ctx, issuer, meta)
	}
	return nil, errUnimplemented
}
func (m *Gateway) TransferValue(ctx context.Context, sender ledger.Credential, destination string, amount decimal.Decimal) (*ledger.TransferResult, error) {
	if m.TransferValueFn != nil {
		return m.TransferValueFn(ctx, sender, destination, amount)
	}
	return nil, errUnimplemented
}
func (m *Gateway) CreateEscrow(ctx context.Context, sender ledger.Credential, destination string, amount decimal.Decimal, finishAfter time.Time) (*ledger.EscrowResult, error) {
	if m.CreateEscrowFn != nil {
		return m.CreateEscrowFn(ctx, sender, destination, amount, finishAfter)
	}
	return nil, errUnimplemented
}
func (m *Gateway) FinishEscrow(ctx context.Context, finisher ledger.Credential, owner string, sequence uint64) (*ledger.TransferResult, error) {
	if m.FinishEscrowFn != nil {
		return m.FinishEscrowFn(ctx, finisher, owner, sequence)
	}
	return nil, errUnimplemented
}
func (m *Gateway) CancelEscrow(ctx context.Context, canceller ledger.Credential, owner string, sequence uint64) (*ledger.TransferResult, error) {
	if m.CancelEscrowFn != nil {
		return m.CancelEscrowFn(ctx, canceller, owner, sequence)
	}
	return nil, errUnimplemented
}
func (m *Gateway) Balance(ctx context.Context, address string) (decimal.Decimal, error) {
	if m.BalanceFn != nil {
		return m.BalanceFn(ctx, address)
	}
	return decimal.Zero, errUnimplemented
}
