package uow

import (
	"context"

	"invoicelane-backend/internal/domain/credit"
	"invoicelane-backend/internal/domain/escrow"
	"invoicelane-backend/internal/domain/invoice"
	"invoicelane-backend/internal/domain/settlement"
	"invoicelane-backend/internal/domain/transaction"
	"invoicelane-backend/internal/domain/user"
)

type Repos struct {
	Users        user.Repository
	Invoices     invoice.Repository
	Transactions transaction.Repository
	Escrows      escrow.Repository
	Credits      credit.Repository
	Settlements  settlement.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock invoice first, then pass it in
	WithinInvoiceTx(ctx context.Context, invoiceID string, fn func(r Repos, inv *invoice.Invoice) error) error
}
