package mysql

import (
	"context"

	txnDomain "invoicelane-backend/internal/domain/transaction"

	"gorm.io/gorm"
)

type TransactionRepository struct{ db *gorm.DB }

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, t *txnDomain.Transaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TransactionRepository) ListByInvoice(ctx context.Context, invoiceID string) ([]txnDomain.Transaction, error) {
	var out []txnDomain.Transaction
	res := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *TransactionRepository) Portfolio(ctx context.Context, investorID string) ([]txnDomain.PortfolioRow, error) {
	var out []txnDomain.PortfolioRow
	res := r.db.WithContext(ctx).
		Table("transactions t").
		Select(`t.*,
			i.invoice_number,
			i.amount AS invoice_amount,
			i.status AS invoice_status,
			i.due_date,
			e.status AS escrow_status,
			(i.amount - t.amount) AS expected_profit`).
		Joins("JOIN invoices i ON i.invoice_id = t.invoice_id").
		Joins("LEFT JOIN escrows e ON e.invoice_id = i.invoice_id AND e.investor_id = t.investor_id").
		Where("t.investor_id = ? AND t.type = ?", investorID, txnDomain.TypePurchase).
		Order("t.created_at DESC").
		Scan(&out)
	return out, res.Error
}

func (r *TransactionRepository) PortfolioSummary(ctx context.Context, investorID string) (*txnDomain.PortfolioSummary, error) {
	var out txnDomain.PortfolioSummary
	res := r.db.WithContext(ctx).
		Table("transactions t").
		Select(`COUNT(*) AS total_investments,
			COALESCE(SUM(t.amount), 0) AS total_invested,
			COALESCE(SUM(CASE WHEN i.status = 'completed' THEN i.amount ELSE 0 END), 0) AS total_returned,
			COALESCE(SUM(CASE WHEN i.status = 'completed' THEN i.amount - t.amount ELSE 0 END), 0) AS total_profit`).
		Joins("JOIN invoices i ON i.invoice_id = t.invoice_id").
		Where("t.investor_id = ? AND t.type = ?", investorID, txnDomain.TypePurchase).
		Scan(&out)
	return &out, res.Error
}
