package mysql

import (
	"context"
	"errors"
	"time"

	invoiceDomain "invoicelane-backend/internal/domain/invoice"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InvoiceRepository struct{ db *gorm.DB }

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository { return &InvoiceRepository{db: db} }

func (r *InvoiceRepository) Create(ctx context.Context, inv *invoiceDomain.Invoice) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *InvoiceRepository) GetByInvoiceID(ctx context.Context, invoiceID string) (*invoiceDomain.Invoice, error) {
	var out invoiceDomain.Invoice
	res := r.db.WithContext(ctx).Where("invoice_id = ?", invoiceID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, invoiceDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *InvoiceRepository) GetByInvoiceIDForUpdate(ctx context.Context, invoiceID string) (*invoiceDomain.Invoice, error) {
	var out invoiceDomain.Invoice
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("invoice_id = ?", invoiceID).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, invoiceDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *InvoiceRepository) GetDetail(ctx context.Context, invoiceID string) (*invoiceDomain.Detail, error) {
	var out invoiceDomain.Detail
	res := r.db.WithContext(ctx).
		Table("invoices i").
		Select("i.*, u.company_name AS seller_company, u.credit_score AS seller_credit_score").
		Joins("JOIN users u ON u.user_id = i.seller_id").
		Where("i.invoice_id = ? AND i.deleted_at IS NULL", invoiceID).
		Scan(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	if out.InvoiceID == "" {
		return nil, invoiceDomain.ErrNotFound
	}
	return &out, nil
}

func (r *InvoiceRepository) ListBySeller(ctx context.Context, sellerID string, status invoiceDomain.Status) ([]invoiceDomain.Invoice, error) {
	q := r.db.WithContext(ctx).Where("seller_id = ?", sellerID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []invoiceDomain.Invoice
	res := q.Order("created_at DESC, id DESC").Find(&out)
	return out, res.Error
}

// UpdateStatus is the compare-and-swap all status flips go through: the
// WHERE clause carries the expected prior status, so a concurrent flip
// leaves zero rows affected instead of silently overwriting.
func (r *InvoiceRepository) UpdateStatus(ctx context.Context, invoiceID string, from, to invoiceDomain.Status) error {
	if !invoiceDomain.CanTransition(from, to) {
		return invoiceDomain.NewInvalidTransition(from, to)
	}
	res := r.db.WithContext(ctx).
		Model(&invoiceDomain.Invoice{}).
		Where("invoice_id = ? AND status = ?", invoiceID, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return invoiceDomain.ErrStatusConflict
	}
	return nil
}

func (r *InvoiceRepository) MarkListed(ctx context.Context, invoiceID, tokenID, mintTxHash string) error {
	res := r.db.WithContext(ctx).
		Model(&invoiceDomain.Invoice{}).
		Where("invoice_id = ? AND status = ?", invoiceID, invoiceDomain.StatusPending).
		Updates(map[string]any{
			"status":       invoiceDomain.StatusListed,
			"token_id":     tokenID,
			"mint_tx_hash": mintTxHash,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return invoiceDomain.ErrStatusConflict
	}
	return nil
}

func (r *InvoiceRepository) ListMarketplace(ctx context.Context, f invoiceDomain.Filter) ([]invoiceDomain.MarketplaceRow, error) {
	q := r.db.WithContext(ctx).
		Table("invoices i").
		Select(`i.*,
			u.company_name AS seller_company,
			u.credit_score AS seller_credit_score,
			u.total_invoices AS seller_total_invoices,
			u.on_time_payments AS seller_on_time_payments,
			(i.amount - i.selling_price) / i.selling_price * 100 AS roi_percentage`).
		Joins("JOIN users u ON u.user_id = i.seller_id").
		Where("i.status = ? AND i.deleted_at IS NULL", invoiceDomain.StatusListed)

	if f.MinAmount != nil {
		q = q.Where("i.amount >= ?", f.MinAmount)
	}
	if f.MaxAmount != nil {
		q = q.Where("i.amount <= ?", f.MaxAmount)
	}
	if f.MinCreditScore != nil {
		q = q.Where("u.credit_score >= ?", f.MinCreditScore)
	}

	switch f.SortBy {
	case "roi_desc":
		q = q.Order("roi_percentage DESC")
	case "roi_asc":
		q = q.Order("roi_percentage ASC")
	case "amount_desc":
		q = q.Order("i.amount DESC")
	case "amount_asc":
		q = q.Order("i.amount ASC")
	case "due_date":
		q = q.Order("i.due_date ASC")
	case "credit_score":
		q = q.Order("u.credit_score DESC")
	default:
		q = q.Order("i.created_at DESC")
	}

	var out []invoiceDomain.MarketplaceRow
	res := q.Scan(&out)
	return out, res.Error
}

func (r *InvoiceRepository) SellerStats(ctx context.Context, sellerID string) (*invoiceDomain.SellerStats, error) {
	var out invoiceDomain.SellerStats
	res := r.db.WithContext(ctx).
		Table("invoices").
		Select(`COUNT(*) AS total_invoices,
			COALESCE(SUM(CASE WHEN status = 'funded' THEN 1 ELSE 0 END), 0) AS funded_invoices,
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0) AS completed_invoices,
			COALESCE(SUM(amount), 0) AS total_amount,
			COALESCE(SUM(selling_price), 0) AS total_funded,
			COALESCE(AVG(discount_rate), 0) AS avg_discount_rate`).
		Where("seller_id = ? AND deleted_at IS NULL", sellerID).
		Scan(&out)
	return &out, res.Error
}

func (r *InvoiceRepository) MarketplaceStats(ctx context.Context) (*invoiceDomain.MarketplaceStats, error) {
	var out invoiceDomain.MarketplaceStats
	res := r.db.WithContext(ctx).
		Table("invoices").
		Select(`COUNT(*) AS total_listed,
			COALESCE(SUM(amount), 0) AS total_value,
			COALESCE(AVG(discount_rate), 0) AS avg_discount,
			COALESCE(AVG((amount - selling_price) / selling_price * 100), 0) AS avg_roi`).
		Where("status = ? AND deleted_at IS NULL", invoiceDomain.StatusListed).
		Scan(&out)
	return &out, res.Error
}

func (r *InvoiceRepository) ListFundedOverdue(ctx context.Context, cutoff time.Time, limit int) ([]invoiceDomain.Invoice, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []invoiceDomain.Invoice
	res := r.db.WithContext(ctx).
		Where("status = ? AND due_date < ?", invoiceDomain.StatusFunded, cutoff).
		Order("due_date ASC").
		Limit(limit).
		Find(&out)
	return out, res.Error
}
