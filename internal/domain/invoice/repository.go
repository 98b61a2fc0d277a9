package invoice

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	GetByInvoiceID(ctx context.Context, invoiceID string) (*Invoice, error)
	// GetByInvoiceIDForUpdate locks the row; only valid inside a transaction.
	GetByInvoiceIDForUpdate(ctx context.Context, invoiceID string) (*Invoice, error)
	GetDetail(ctx context.Context, invoiceID string) (*Detail, error)
	ListBySeller(ctx context.Context, sellerID string, status Status) ([]Invoice, error)

	// UpdateStatus flips status only when the current value still equals
	// `from`; ErrStatusConflict when zero rows matched.
	UpdateStatus(ctx context.Context, invoiceID string, from, to Status) error
	// MarkListed is the pending→listed flip carrying mint results.
	MarkListed(ctx context.Context, invoiceID, tokenID, mintTxHash string) error

	ListMarketplace(ctx context.Context, f Filter) ([]MarketplaceRow, error)
	SellerStats(ctx context.Context, sellerID string) (*SellerStats, error)
	MarketplaceStats(ctx context.Context) (*MarketplaceStats, error)

	// ListFundedOverdue returns funded invoices whose due date passed
	// before the cutoff, for the default sweep.
	ListFundedOverdue(ctx context.Context, cutoff time.Time, limit int) ([]Invoice, error)
}
