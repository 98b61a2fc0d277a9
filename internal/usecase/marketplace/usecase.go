package marketplace

import (
	"context"

	domainInvoice "invoicelane-backend/internal/domain/invoice"
	domainTxn "invoicelane-backend/internal/domain/transaction"
)

type Usecase struct {
	invoices     domainInvoice.Repository
	transactions domainTxn.Repository
}

func NewUsecase(invoices domainInvoice.Repository, transactions domainTxn.Repository) *Usecase {
	return &Usecase{invoices: invoices, transactions: transactions}
}

func (u *Usecase) List(ctx context.Context, f domainInvoice.Filter) ([]domainInvoice.MarketplaceRow, error) {
	return u.invoices.ListMarketplace(ctx, f)
}

func (u *Usecase) Stats(ctx context.Context) (*domainInvoice.MarketplaceStats, error) {
	return u.invoices.MarketplaceStats(ctx)
}

type PortfolioDTO struct {
	Portfolio []domainTxn.PortfolioRow    `json:"portfolio"`
	Summary   *domainTxn.PortfolioSummary `json:"summary"`
}

func (u *Usecase) Portfolio(ctx context.Context, investorID string) (*PortfolioDTO, error) {
	rows, err := u.transactions.Portfolio(ctx, investorID)
	if err != nil {
		return nil, err
	}
	summary, err := u.transactions.PortfolioSummary(ctx, investorID)
	if err != nil {
		return nil, err
	}
	return &PortfolioDTO{Portfolio: rows, Summary: summary}, nil
}
