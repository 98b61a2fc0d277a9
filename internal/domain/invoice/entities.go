package invoice

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Invoice struct {
	ID            uint64          `gorm:"primaryKey;column:id" json:"-"`
	InvoiceID     string          `gorm:"size:32;uniqueIndex:ux_invoices_invoice_id" json:"invoice_id"`
	InvoiceNumber string          `gorm:"size:64" json:"invoice_number"`
	SellerID      string          `gorm:"size:32;index:idx_invoices_seller" json:"seller_id"`
	BuyerName     string          `gorm:"size:255" json:"buyer_name"`
	BuyerDID      string          `gorm:"column:buyer_did;size:128" json:"buyer_did,omitempty"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2)" json:"amount"`
	DueDate       time.Time       `gorm:"column:due_date" json:"due_date"`
	DiscountRate  decimal.Decimal `gorm:"type:decimal(5,2)" json:"discount_rate"`
	// Frozen at creation; never recomputed afterwards.
	SellingPrice decimal.Decimal `gorm:"type:decimal(18,2)" json:"selling_price"`
	Status       Status          `gorm:"type:enum('pending','listed','funded','completed','defaulted');default:'pending';index:idx_invoices_status" json:"status"`
	TokenID      string          `gorm:"size:128" json:"token_id,omitempty"`
	MintTxHash   string          `gorm:"size:128" json:"mint_tx_hash,omitempty"`
	DocumentHash string          `gorm:"size:128" json:"document_hash,omitempty"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Invoice) TableName() string { return "invoices" }

// SellingPriceFor derives the frozen discounted price:
// amount × (1 − rate/100), rounded to 2 places.
func SellingPriceFor(amount, discountRate decimal.Decimal) decimal.Decimal {
	one := decimal.NewFromInt(1)
	factor := one.Sub(discountRate.Div(decimal.NewFromInt(100)))
	return amount.Mul(factor).Round(2)
}

// MarketplaceRow is an invoice joined with seller standing, as shown to
// investors browsing the marketplace.
type MarketplaceRow struct {
	Invoice
	SellerCompany        string          `json:"seller_company"`
	SellerCreditScore    int             `json:"seller_credit_score"`
	SellerTotalInvoices  int             `json:"seller_total_invoices"`
	SellerOnTimePayments int             `json:"seller_on_time_payments"`
	ROIPercentage        decimal.Decimal `json:"roi_percentage"`
}

// Filter narrows and orders the marketplace listing.
type Filter struct {
	MinAmount      *decimal.Decimal
	MaxAmount      *decimal.Decimal
	MinCreditScore *int
	SortBy         string // roi_desc, roi_asc, amount_desc, amount_asc, due_date, credit_score
}

// SellerStats aggregates a seller's invoices.
type SellerStats struct {
	TotalInvoices     int64           `json:"total_invoices"`
	FundedInvoices    int64           `json:"funded_invoices"`
	CompletedInvoices int64           `json:"completed_invoices"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	TotalFunded       decimal.Decimal `json:"total_funded"`
	AvgDiscountRate   decimal.Decimal `json:"avg_discount_rate"`
}

// MarketplaceStats aggregates currently listed invoices.
type MarketplaceStats struct {
	TotalListed int64           `json:"total_listed"`
	TotalValue  decimal.Decimal `json:"total_value"`
	AvgDiscount decimal.Decimal `json:"avg_discount"`
	AvgROI      decimal.Decimal `json:"avg_roi"`
}

// Detail is an invoice joined with its seller's public standing.
type Detail struct {
	Invoice
	SellerCompany     string `json:"seller_company"`
	SellerCreditScore int    `json:"seller_credit_score"`
}
