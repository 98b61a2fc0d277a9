package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypePurchase Type = "purchase"
	TypePayment  Type = "payment"
	TypeRefund   Type = "refund"
)

type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Transaction is an append-only log entry of a value movement. Rows are
// never updated or deleted.
type Transaction struct {
	ID            uint64          `gorm:"primaryKey;column:id" json:"-"`
	TransactionID string          `gorm:"size:32;uniqueIndex:ux_transactions_txn_id" json:"transaction_id"`
	InvoiceID     string          `gorm:"size:32;index:idx_transactions_invoice" json:"invoice_id"`
	InvestorID    string          `gorm:"size:32;index:idx_transactions_investor" json:"investor_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2)" json:"amount"`
	Type          Type            `gorm:"type:enum('purchase','payment','refund')" json:"type"`
	TxHash        string          `gorm:"size:128" json:"tx_hash"`
	Status        Status          `gorm:"type:enum('completed','failed');default:'completed'" json:"status"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (Transaction) TableName() string { return "transactions" }

// PortfolioRow is a purchase joined with its invoice and escrow standing.
type PortfolioRow struct {
	Transaction
	InvoiceNumber  string          `json:"invoice_number"`
	InvoiceAmount  decimal.Decimal `json:"invoice_amount"`
	InvoiceStatus  string          `json:"invoice_status"`
	DueDate        time.Time       `json:"due_date"`
	EscrowStatus   string          `json:"escrow_status,omitempty"`
	ExpectedProfit decimal.Decimal `json:"expected_profit"`
}

// PortfolioSummary aggregates an investor's purchases.
type PortfolioSummary struct {
	TotalInvestments int64           `json:"total_investments"`
	TotalInvested    decimal.Decimal `json:"total_invested"`
	TotalReturned    decimal.Decimal `json:"total_returned"`
	TotalProfit      decimal.Decimal `json:"total_profit"`
}
