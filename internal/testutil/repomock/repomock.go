// Package repomock provides function-backed mocks for the domain
// repositories. Only methods a test fills in do anything; unfilled
// getters return context.Canceled and unfilled writers are no-ops.
package repomock

import (
	"context"
	"time"

	"invoicelane-backend/internal/domain/credit"
	"invoicelane-backend/internal/domain/escrow"
	"invoicelane-backend/internal/domain/invoice"
	"invoicelane-backend/internal/domain/settlement"
	"invoicelane-backend/internal/domain/transaction"
	"invoicelane-backend/internal/domain/user"
)

var (
	_ user.Repository        = (*UserRepo)(nil)
	_ invoice.Repository     = (*InvoiceRepo)(nil)
	_ transaction.Repository = (*TransactionRepo)(nil)
	_ escrow.Repository      = (*EscrowRepo)(nil)
	_ credit.Repository      = (*CreditRepo)(nil)
	_ settlement.Repository  = (*SettlementRepo)(nil)
)

type UserRepo struct {
	CreateFn             func(ctx context.Context, u *user.User) error
	GetByUserIDFn        func(ctx context.Context, userID string) (*user.User, error)
	GetByWalletAddressFn func(ctx context.Context, wallet string) (*user.User, error)
	GetByDIDFn           func(ctx context.Context, did string) (*user.User, error)
	SaveFn               func(ctx context.Context, u *user.User) error
	SetKYCFn             func(ctx context.Context, userID string, verified bool) error
	SetCreditStandingFn  func(ctx context.Context, userID string, score, totalInvoices, onTimePayments int) error
}

func (m *UserRepo) Create(ctx context.Context, u *user.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	return nil
}
func (m *UserRepo) GetByUserID(ctx context.Context, userID string) (*user.User, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, userID)
	}
	return nil, context.Canceled
}
func (m *UserRepo) GetByWalletAddress(ctx context.Context, wallet string) (*user.User, error) {
	if m.GetByWalletAddressFn != nil {
		return m.GetByWalletAddressFn(ctx, wallet)
	}
	return nil, context.Canceled
}
func (m *UserRepo) GetByDID(ctx context.Context, did string) (*user.User, error) {
	if m.GetByDIDFn != nil {
		return m.GetByDIDFn(ctx, did)
	}
	return nil, context.Canceled
}
func (m *UserRepo) Save(ctx context.Context, u *user.User) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, u)
	}
	return nil
}
func (m *UserRepo) SetKYC(ctx context.Context, userID string, verified bool) error {
	if m.SetKYCFn != nil {
		return m.SetKYCFn(ctx, userID, verified)
	}
	return nil
}
func (m *UserRepo) SetCreditStanding(ctx context.Context, userID string, score, totalInvoices, onTimePayments int) error {
	if m.SetCreditStandingFn != nil {
		return m.SetCreditStandingFn(ctx, userID, score, totalInvoices, onTimePayments)
	}
	return nil
}

type InvoiceRepo struct {
	CreateFn                  func(ctx context.Context, inv *invoice.Invoice) error
	GetByInvoiceIDFn          func(ctx context.Context, invoiceID string) (*invoice.Invoice, error)
	GetByInvoiceIDForUpdateFn func(ctx context.Context, invoiceID string) (*invoice.Invoice, error)
	GetDetailFn               func(ctx context.Context, invoiceID string) (*invoice.Detail, error)
	ListBySellerFn            func(ctx context.Context, sellerID string, status invoice.Status) ([]invoice.Invoice, error)
	UpdateStatusFn            func(ctx context.Context, invoiceID string, from, to invoice.Status) error
	MarkListedFn              func(ctx context.Context, invoiceID, tokenID, mintTxHash string) error
	ListMarketplaceFn         func(ctx context.Context, f invoice.Filter) ([]invoice.MarketplaceRow, error)
	SellerStatsFn             func(ctx context.Context, sellerID string) (*invoice.SellerStats, error)
	MarketplaceStatsFn        func(ctx context.Context) (*invoice.MarketplaceStats, error)
	ListFundedOverdueFn       func(ctx context.Context, cutoff time.Time, limit int) ([]invoice.Invoice, error)
}

func (m *InvoiceRepo) Create(ctx context.Context, inv *invoice.Invoice) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, inv)
	}
	return nil
}
func (m *InvoiceRepo) GetByInvoiceID(ctx context.Context, invoiceID string) (*invoice.Invoice, error) {
	if m.GetByInvoiceIDFn != nil {
		return m.GetByInvoiceIDFn(ctx, invoiceID)
	}
	return nil, context.Canceled
}
func (m *InvoiceRepo) GetByInvoiceIDForUpdate(ctx context.Context, invoiceID string) (*invoice.Invoice, error) {
	if m.GetByInvoiceIDForUpdateFn != nil {
		return m.GetByInvoiceIDForUpdateFn(ctx, invoiceID)
	}
	return nil, context.Canceled
}
func (m *InvoiceRepo) GetDetail(ctx context.Context, invoiceID string) (*invoice.Detail, error) {
	if m.GetDetailFn != nil {
		return m.GetDetailFn(ctx, invoiceID)
	}
	return nil, context.Canceled
}
func (m *InvoiceRepo) ListBySeller(ctx context.Context, sellerID string, status invoice.Status) ([]invoice.Invoice, error) {
	if m.ListBySellerFn != nil {
		return m.ListBySellerFn(ctx, sellerID, status)
	}
	return nil, context.Canceled
}
func (m *InvoiceRepo) UpdateStatus(ctx context.Context, invoiceID string, from, to invoice.Status) error {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, invoiceID, from, to)
	}
	return nil
}
func (m *InvoiceRepo) MarkListed(ctx context.Context, invoiceID, tokenID, mintTxHash string) error {
	if m.MarkListedFn != nil {
		return m.MarkListedFn(ctx, invoiceID, tokenID, mintTxHash)
	}
	return nil
}
func (m *InvoiceRepo) ListMarketplace(ctx context.Context, f invoice.Filter) ([]invoice.MarketplaceRow, error) {
	if m.ListMarketplaceFn != nil {
		return m.ListMarketplaceFn(ctx, f)
	}
	return nil, context.Canceled
}
func (m *InvoiceRepo) SellerStats(ctx context.Context, sellerID string) (*invoice.SellerStats, error) {
	if m.SellerStatsFn != nil {
		return m.SellerStatsFn(ctx, sellerID)
	}
	return nil, context.Canceled
}
func (m *InvoiceRepo) MarketplaceStats(ctx context.Context) (*invoice.MarketplaceStats, error) {
	if m.MarketplaceStatsFn != nil {
		return m.MarketplaceStatsFn(ctx)
	}
	return nil, context.Canceled
}
func (m *InvoiceRepo) ListFundedOverdue(ctx context.Context, cutoff time.Time, limit int) ([]invoice.Invoice, error) {
	if m.ListFundedOverdueFn != nil {
		return m.ListFundedOverdueFn(ctx, cutoff, limit)
	}
	return nil, context.Canceled
}

type TransactionRepo struct {
	CreateFn           func(ctx context.Context, t *transaction.Transaction) error
	ListByInvoiceFn    func(ctx context.Context, invoiceID string) ([]transaction.Transaction, error)
	PortfolioFn        func(ctx context.Context, investorID string) ([]transaction.PortfolioRow, error)
	PortfolioSummaryFn func(ctx context.Context, investorID string) (*transaction.PortfolioSummary, error)
}

func (m *TransactionRepo) Create(ctx context.Context, t *transaction.Transaction) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, t)
	}
	return nil
}
func (m *TransactionRepo) ListByInvoice(ctx context.Context, invoiceID string) ([]transaction.Transaction, error) {
	if m.ListByInvoiceFn != nil {
		return m.ListByInvoiceFn(ctx, invoiceID)
	}
	return nil, context.Canceled
}
func (m *TransactionRepo) Portfolio(ctx context.Context, investorID string) ([]transaction.PortfolioRow, error) {
	if m.PortfolioFn != nil {
		return m.PortfolioFn(ctx, investorID)
	}
	return nil, context.Canceled
}
func (m *TransactionRepo) PortfolioSummary(ctx context.Context, investorID string) (*transaction.PortfolioSummary, error) {
	if m.PortfolioSummaryFn != nil {
		return m.PortfolioSummaryFn(ctx, investorID)
	}
	return nil, context.Canceled
}

type EscrowRepo struct {
	CreateFn               func(ctx context.Context, e *escrow.Escrow) error
	GetActiveByInvoiceIDFn func(ctx context.Context, invoiceID string) (*escrow.Escrow, error)
	ListByInvoiceFn        func(ctx context.Context, invoiceID string) ([]escrow.Escrow, error)
	ListByInvestorFn       func(ctx context.Context, investorID string, status escrow.Status) ([]escrow.Escrow, error)
	InvestorStatsFn        func(ctx context.Context, investorID string) (*escrow.InvestorStats, error)
	ListActiveExpiredFn    func(ctx context.Context, cutoff time.Time, limit int) ([]escrow.Escrow, error)
	UpdateStatusFn         func(ctx context.Context, escrowID string, to escrow.Status, releasedAt *time.Time) error
}

func (m *EscrowRepo) Create(ctx context.Context, e *escrow.Escrow) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, e)
	}
	return nil
}
func (m *EscrowRepo) GetActiveByInvoiceID(ctx context.Context, invoiceID string) (*escrow.Escrow, error) {
	if m.GetActiveByInvoiceIDFn != nil {
		return m.GetActiveByInvoiceIDFn(ctx, invoiceID)
	}
	return nil, context.Canceled
}
func (m *EscrowRepo) ListByInvoice(ctx context.Context, invoiceID string) ([]escrow.Escrow, error) {
	if m.ListByInvoiceFn != nil {
		return m.ListByInvoiceFn(ctx, invoiceID)
	}
	return nil, context.Canceled
}
func (m *EscrowRepo) ListByInvestor(ctx context.Context, investorID string, status escrow.Status) ([]escrow.Escrow, error) {
	if m.ListByInvestorFn != nil {
		return m.ListByInvestorFn(ctx, investorID, status)
	}
	return nil, context.Canceled
}
func (m *EscrowRepo) InvestorStats(ctx context.Context, investorID string) (*escrow.InvestorStats, error) {
	if m.InvestorStatsFn != nil {
		return m.InvestorStatsFn(ctx, investorID)
	}
	return nil, context.Canceled
}
func (m *EscrowRepo) ListActiveExpired(ctx context.Context, cutoff time.Time, limit int) ([]escrow.Escrow, error) {
	if m.ListActiveExpiredFn != nil {
		return m.ListActiveExpiredFn(ctx, cutoff, limit)
	}
	return nil, context.Canceled
}
func (m *EscrowRepo) UpdateStatus(ctx context.Context, escrowID string, to escrow.Status, releasedAt *time.Time) error {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, escrowID, to, releasedAt)
	}
	return nil
}

type CreditRepo struct {
	CreateFn     func(ctx context.Context, e *credit.Entry) error
	ListByUserFn func(ctx context.Context, userID string, limit int) ([]credit.Entry, error)
	SumDeltasFn  func(ctx context.Context, userID string) (int, error)
}

func (m *CreditRepo) Create(ctx context.Context, e *credit.Entry) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, e)
	}
	return nil
}
func (m *CreditRepo) ListByUser(ctx context.Context, userID string, limit int) ([]credit.Entry, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID, limit)
	}
	return nil, context.Canceled
}
func (m *CreditRepo) SumDeltas(ctx context.Context, userID string) (int, error) {
	if m.SumDeltasFn != nil {
		return m.SumDeltasFn(ctx, userID)
	}
	return 0, nil
}

type SettlementRepo struct {
	CreateFn                    func(ctx context.Context, s *settlement.Settlement) error
	GetBySettlementIDFn         func(ctx context.Context, settlementID string) (*settlement.Settlement, error)
	GetActiveByInvoiceIDFn      func(ctx context.Context, invoiceID string) (*settlement.Settlement, error)
	SetPhaseFn                  func(ctx context.Context, settlementID string, phase settlement.Phase, note string) error
	RecordTransferFn            func(ctx context.Context, settlementID, txHash string) error
	RecordEscrowFn              func(ctx context.Context, settlementID, txHash string, sequence uint64) error
	ListNeedingReconciliationFn func(ctx context.Context, limit int) ([]settlement.Settlement, error)
}

func (m *SettlementRepo) Create(ctx context.Context, s *settlement.Settlement) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, s)
	}
	return nil
}
func (m *SettlementRepo) GetBySettlementID(ctx context.Context, settlementID string) (*settlement.Settlement, error) {
	if m.GetBySettlementIDFn != nil {
		return m.GetBySettlementIDFn(ctx, settlementID)
	}
	return nil, context.Canceled
}
func (m *SettlementRepo) GetActiveByInvoiceID(ctx context.Context, invoiceID string) (*settlement.Settlement, error) {
	if m.GetActiveByInvoiceIDFn != nil {
		return m.GetActiveByInvoiceIDFn(ctx, invoiceID)
	}
	return nil, context.Canceled
}
func (m *SettlementRepo) SetPhase(ctx context.Context, settlementID string, phase settlement.Phase, note string) error {
	if m.SetPhaseFn != nil {
		return m.SetPhaseFn(ctx, settlementID, phase, note)
	}
	return nil
}
func (m *SettlementRepo) RecordTransfer(ctx context.Context, settlementID, txHash string) error {
	if m.RecordTransferFn != nil {
		return m.RecordTransferFn(ctx, settlementID, txHash)
	}
	return nil
}
func (m *SettlementRepo) RecordEscrow(ctx context.Context, settlementID, txHash string, sequence uint64) error {
	if m.RecordEscrowFn != nil {
		return m.RecordEscrowFn(ctx, settlementID, txHash, sequence)
	}
	return nil
}
func (m *SettlementRepo) ListNeedingReconciliation(ctx context.Context, limit int) ([]settlement.Settlement, error) {
	if m.ListNeedingReconciliationFn != nil {
		return m.ListNeedingReconciliationFn(ctx, limit)
	}
	return nil, context.Canceled
}
