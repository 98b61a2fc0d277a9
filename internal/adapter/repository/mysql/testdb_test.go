package mysql

import (
	"testing"
	"time"

	creditDomain "invoicelane-backend/internal/domain/credit"
	escrowDomain "invoicelane-backend/internal/domain/escrow"
	invoiceDomain "invoicelane-backend/internal/domain/invoice"
	userDomain "invoicelane-backend/internal/domain/user"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// --- SQLite-friendly schema only for tests (no ENUM) ---

type userSQLite struct {
	ID             uint64         `gorm:"primaryKey;column:id"`
	UserID         string         `gorm:"size:32;column:user_id"`
	WalletAddress  string         `gorm:"size:64;column:wallet_address"`
	Role           string         `gorm:"type:text;column:role"` // ← no enum
	DID            string         `gorm:"size:128;column:did"`
	Email          string         `gorm:"size:255;column:email"`
	CompanyName    string         `gorm:"size:255;column:company_name"`
	KYCVerified    bool           `gorm:"column:kyc_verified"`
	CreditScore    int            `gorm:"column:credit_score"`
	TotalInvoices  int            `gorm:"column:total_invoices"`
	OnTimePayments int            `gorm:"column:on_time_payments"`
	CreatedAt      time.Time      `gorm:"column:created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (userSQLite) TableName() string { return "users" }

type invoiceSQLite struct {
	ID            uint64         `gorm:"primaryKey;column:id"`
	InvoiceID     string         `gorm:"size:32;column:invoice_id"`
	InvoiceNumber string         `gorm:"size:64;column:invoice_number"`
	SellerID      string         `gorm:"size:32;column:seller_id"`
	BuyerName     string         `gorm:"size:255;column:buyer_name"`
	BuyerDID      string         `gorm:"size:128;column:buyer_did"`
	Amount        string         `gorm:"type:text;column:amount"`
	DueDate       time.Time      `gorm:"column:due_date"`
	DiscountRate  string         `gorm:"type:text;column:discount_rate"`
	SellingPrice  string         `gorm:"type:text;column:selling_price"`
	Status        string         `gorm:"type:text;column:status"` // ← no enum
	TokenID       string         `gorm:"size:128;column:token_id"`
	MintTxHash    string         `gorm:"size:128;column:mint_tx_hash"`
	DocumentHash  string         `gorm:"size:128;column:document_hash"`
	CreatedAt     time.Time      `gorm:"column:created_at"`
	UpdatedAt     time.Time      `gorm:"column:updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (invoiceSQLite) TableName() string { return "invoices" }

type settlementSQLite struct {
	ID              uint64    `gorm:"primaryKey;column:id"`
	SettlementID    string    `gorm:"size:32;column:settlement_id"`
	InvoiceID       string    `gorm:"size:32;column:invoice_id"`
	InvestorID      string    `gorm:"size:32;column:investor_id"`
	ActiveInvoiceID *string   `gorm:"size:32;column:active_invoice_id;uniqueIndex:ux_settlements_active_invoice"`
	Phase           string    `gorm:"type:text;column:phase"` // ← no enum
	PaymentTxHash   string    `gorm:"size:128;column:payment_tx_hash"`
	EscrowTxHash    string    `gorm:"size:128;column:escrow_tx_hash"`
	EscrowSequence  uint64    `gorm:"column:escrow_sequence"`
	Note            string    `gorm:"type:text;column:note"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (settlementSQLite) TableName() string { return "settlements" }

type escrowSQLite struct {
	ID              uint64     `gorm:"primaryKey;column:id"`
	EscrowID        string     `gorm:"size:32;column:escrow_id"`
	InvoiceID       string     `gorm:"size:32;column:invoice_id"`
	InvestorID      string     `gorm:"size:32;column:investor_id"`
	Amount          string     `gorm:"type:text;column:amount"`
	Sequence        uint64     `gorm:"column:ledger_sequence"`
	TxHash          string     `gorm:"size:128;column:tx_hash"`
	FinishAfter     time.Time  `gorm:"column:finish_after"`
	CancelAfter     time.Time  `gorm:"column:cancel_after"`
	Status          string     `gorm:"type:text;column:status"` // ← no enum
	ActiveInvoiceID *string    `gorm:"size:32;column:active_invoice_id;uniqueIndex:ux_escrows_active_invoice"`
	ReleasedAt      *time.Time `gorm:"column:released_at"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (escrowSQLite) TableName() string { return "escrows" }

type creditSQLite struct {
	ID         uint64    `gorm:"primaryKey;column:id"`
	EntryID    string    `gorm:"size:32;column:entry_id"`
	UserID     string    `gorm:"size:32;column:user_id"`
	InvoiceID  string    `gorm:"size:32;column:invoice_id"`
	Outcome    string    `gorm:"type:text;column:payment_status"` // ← no enum
	ScoreDelta int       `gorm:"column:score_change"`
	RecordedAt time.Time `gorm:"column:recorded_at"`
}

func (creditSQLite) TableName() string { return "credit_history" }

type transactionSQLite struct {
	ID            uint64    `gorm:"primaryKey;column:id"`
	TransactionID string    `gorm:"size:32;column:transaction_id"`
	InvoiceID     string    `gorm:"size:32;column:invoice_id"`
	InvestorID    string    `gorm:"size:32;column:investor_id"`
	Amount        string    `gorm:"type:text;column:amount"`
	Type          string    `gorm:"type:text;column:type"` // ← no enum
	TxHash        string    `gorm:"size:128;column:tx_hash"`
	Status        string    `gorm:"type:text;column:status"` // ← no enum
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (transactionSQLite) TableName() string { return "transactions" }

// openTestDB creates an in-memory sqlite DB and migrates ONLY the
// sqlite-safe schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// IMPORTANT: migrate the sqlite-safe models, NOT the domain models.
	if err := db.AutoMigrate(
		&userSQLite{},
		&invoiceSQLite{},
		&settlementSQLite{},
		&escrowSQLite{},
		&creditSQLite{},
		&transactionSQLite{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("decimal %q: %v", s, err)
	}
	return d
}

func makeUser(userID, wallet string) *userDomain.User {
	return &userDomain.User{
		UserID:        userID,
		WalletAddress: wallet,
		Role:          userDomain.RoleSeller,
		DID:           "did:ledger:" + wallet,
		CompanyName:   "Acme Trading",
		CreditScore:   userDomain.BaselineScore,
	}
}

func makeInvoice(t *testing.T, invoiceID, sellerID string, status invoiceDomain.Status) *invoiceDomain.Invoice {
	return &invoiceDomain.Invoice{
		InvoiceID:     invoiceID,
		InvoiceNumber: "INV-" + invoiceID,
		SellerID:      sellerID,
		BuyerName:     "Big Buyer Corp",
		Amount:        dec(t, "10000.00"),
		DueDate:       time.Now().UTC().Add(30 * 24 * time.Hour),
		DiscountRate:  dec(t, "5.00"),
		SellingPrice:  dec(t, "9500.00"),
		Status:        status,
	}
}

func makeEscrow(t *testing.T, escrowID, invoiceID, investorID string) *escrowDomain.Escrow {
	now := time.Now().UTC()
	return &escrowDomain.Escrow{
		EscrowID:    escrowID,
		InvoiceID:   invoiceID,
		InvestorID:  investorID,
		Amount:      dec(t, "10000.00"),
		Sequence:    7,
		TxHash:      "ESCHASH",
		FinishAfter: now.Add(30 * 24 * time.Hour),
		CancelAfter: now.Add(60 * 24 * time.Hour),
		Status:      escrowDomain.StatusActive,
	}
}

func makeCreditEntry(entryID, userID, invoiceID string, outcome creditDomain.Outcome) *creditDomain.Entry {
	return &creditDomain.Entry{
		EntryID:    entryID,
		UserID:     userID,
		InvoiceID:  invoiceID,
		Outcome:    outcome,
		ScoreDelta: creditDomain.DeltaFor(outcome),
	}
}
