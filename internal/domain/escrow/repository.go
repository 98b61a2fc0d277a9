package escrow

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, e *Escrow) error
	GetActiveByInvoiceID(ctx context.Context, invoiceID string) (*Escrow, error)
	ListByInvoice(ctx context.Context, invoiceID string) ([]Escrow, error)
	ListByInvestor(ctx context.Context, investorID string, status Status) ([]Escrow, error)
	InvestorStats(ctx context.Context, investorID string) (*InvestorStats, error)
	// ListActiveExpired returns active escrows whose cancel-after passed
	// before the cutoff, candidates for cancellation by the sweep.
	ListActiveExpired(ctx context.Context, cutoff time.Time, limit int) ([]Escrow, error)
	// UpdateStatus flips status only while the row is still active;
	// ErrStatusConflict when zero rows matched. releasedAt is recorded on
	// release.
	UpdateStatus(ctx context.Context, escrowID string, to Status, releasedAt *time.Time) error
}
