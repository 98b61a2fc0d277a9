package transaction

import "context"

type Repository interface {
	Create(ctx context.Context, t *Transaction) error
	ListByInvoice(ctx context.Context, invoiceID string) ([]Transaction, error)
	Portfolio(ctx context.Context, investorID string) ([]PortfolioRow, error)
	PortfolioSummary(ctx context.Context, investorID string) (*PortfolioSummary, error)
}
