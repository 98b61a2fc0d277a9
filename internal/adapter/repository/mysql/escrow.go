package mysql

import (
	"context"
	"errors"
	"time"

	escrowDomain "invoicelane-backend/internal/domain/escrow"

	"gorm.io/gorm"
)

type EscrowRepository struct{ db *gorm.DB }

func NewEscrowRepository(db *gorm.DB) *EscrowRepository { return &EscrowRepository{db: db} }

// Create inserts the escrow row. For an active escrow the mirror column
// is stamped so the unique index rejects a second active hold on the
// same invoice.
func (r *EscrowRepository) Create(ctx context.Context, e *escrowDomain.Escrow) error {
	if e.Status == "" || e.Status == escrowDomain.StatusActive {
		e.ActiveInvoiceID = &e.InvoiceID
	}
	err := r.db.WithContext(ctx).Create(e).Error
	if isDuplicateKey(err) {
		return escrowDomain.ErrActiveExists
	}
	return err
}

func (r *EscrowRepository) GetActiveByInvoiceID(ctx context.Context, invoiceID string) (*escrowDomain.Escrow, error) {
	var out escrowDomain.Escrow
	res := r.db.WithContext(ctx).
		Where("invoice_id = ? AND status = ?", invoiceID, escrowDomain.StatusActive).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, escrowDomain.ErrNoActiveEscrow
	}
	return &out, res.Error
}

func (r *EscrowRepository) ListByInvoice(ctx context.Context, invoiceID string) ([]escrowDomain.Escrow, error) {
	var out []escrowDomain.Escrow
	res := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *EscrowRepository) ListByInvestor(ctx context.Context, investorID string, status escrowDomain.Status) ([]escrowDomain.Escrow, error) {
	q := r.db.WithContext(ctx).Where("investor_id = ?", investorID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []escrowDomain.Escrow
	res := q.Order("created_at DESC, id DESC").Find(&out)
	return out, res.Error
}

func (r *EscrowRepository) InvestorStats(ctx context.Context, investorID string) (*escrowDomain.InvestorStats, error) {
	var out escrowDomain.InvestorStats
	res := r.db.WithContext(ctx).
		Table("escrows").
		Select(`COUNT(*) AS total_escrows,
			COALESCE(SUM(amount), 0) AS total_amount,
			COALESCE(SUM(CASE WHEN status = 'active' THEN 1 ELSE 0 END), 0) AS active_escrows,
			COALESCE(SUM(CASE WHEN status = 'released' THEN 1 ELSE 0 END), 0) AS released_escrows,
			COALESCE(SUM(CASE WHEN status = 'cancelled' THEN 1 ELSE 0 END), 0) AS cancelled_escrows`).
		Where("investor_id = ?", investorID).
		Scan(&out)
	return &out, res.Error
}

func (r *EscrowRepository) ListActiveExpired(ctx context.Context, cutoff time.Time, limit int) ([]escrowDomain.Escrow, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []escrowDomain.Escrow
	res := r.db.WithContext(ctx).
		Where("status = ? AND cancel_after < ?", escrowDomain.StatusActive, cutoff).
		Order("cancel_after ASC").
		Limit(limit).
		Find(&out)
	return out, res.Error
}

// UpdateStatus only moves rows out of `active`; released and cancelled
// are terminal, so the guard doubles as the transition check.
func (r *EscrowRepository) UpdateStatus(ctx context.Context, escrowID string, to escrowDomain.Status, releasedAt *time.Time) error {
	if to != escrowDomain.StatusReleased && to != escrowDomain.StatusCancelled {
		return escrowDomain.ErrStatusConflict
	}
	// Both allowed targets are terminal, so the active mirror is always
	// cleared, freeing the invoice for a new hold.
	updates := map[string]any{"status": to, "active_invoice_id": nil}
	if releasedAt != nil {
		updates["released_at"] = releasedAt.UTC()
	}
	res := r.db.WithContext(ctx).
		Model(&escrowDomain.Escrow{}).
		Where("escrow_id = ? AND status = ?", escrowID, escrowDomain.StatusActive).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return escrowDomain.ErrStatusConflict
	}
	return nil
}
