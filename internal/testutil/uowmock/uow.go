package uowmock

import (
	"context"
	"errors"

	"invoicelane-backend/internal/domain/invoice"
	"invoicelane-backend/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return
// errUnimplemented.
type UoW struct {
	WithinTxFn        func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinInvoiceTxFn func(ctx context.Context, invoiceID string, fn func(r uow.Repos, inv *invoice.Invoice) error) error
}

func New() *UoW { return &UoW{} }

// Passthrough runs every transaction body directly against the given
// repos, loading the locked invoice through GetByInvoiceIDForUpdate.
// Most usecase tests want exactly this.
func Passthrough(r uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(ctx context.Context, fn func(uow.Repos) error) error {
			return fn(r)
		},
		WithinInvoiceTxFn: func(ctx context.Context, invoiceID string, fn func(uow.Repos, *invoice.Invoice) error) error {
			inv, err := r.Invoices.GetByInvoiceIDForUpdate(ctx, invoiceID)
			if err != nil {
				return err
			}
			return fn(r, inv)
		},
	}
}

func (m *UoW) WithWithinTx(fn func(context.Context, func(uow.Repos) error) error) *UoW {
	m.WithinTxFn = fn
	return m
}
func (m *UoW) WithWithinInvoiceTx(fn func(context.Context, string, func(uow.Repos, *invoice.Invoice) error) error) *UoW {
	m.WithinInvoiceTxFn = fn
	return m
}
func (m *UoW) Reset() { *m = UoW{} }

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}
func (m *UoW) WithinInvoiceTx(ctx context.Context, invoiceID string, fn func(r uow.Repos, inv *invoice.Invoice) error) error {
	if m.WithinInvoiceTxFn != nil {
		return m.WithinInvoiceTxFn(ctx, invoiceID, fn)
	}
	return errUnimplemented
}
