package escrow

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusReleased  Status = "released"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusReleased, StatusCancelled:
		return true
	}
	return false
}

var (
	ErrNotFound = errors.New("escrow not found")
	// ErrNoActiveEscrow is returned when a release or cancel is requested
	// for an invoice without an active hold.
	ErrNoActiveEscrow = errors.New("no active escrow for invoice")
	// ErrStatusConflict is the guarded-update miss: the escrow left the
	// expected status concurrently.
	ErrStatusConflict = errors.New("escrow status changed concurrently")
	// ErrActiveExists means the invoice already holds an active escrow.
	ErrActiveExists = errors.New("invoice already has an active escrow")
)

// Escrow is a time-locked hold of an invoice's face amount for one
// investor. released and cancelled are terminal.
type Escrow struct {
	ID          uint64          `gorm:"primaryKey;column:id" json:"-"`
	EscrowID    string          `gorm:"size:32;uniqueIndex:ux_escrows_escrow_id" json:"escrow_id"`
	InvoiceID   string          `gorm:"size:32;index:idx_escrows_invoice" json:"invoice_id"`
	InvestorID  string          `gorm:"size:32;index:idx_escrows_investor" json:"investor_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2)" json:"amount"`
	Sequence    uint64          `gorm:"column:ledger_sequence" json:"ledger_sequence"`
	TxHash      string          `gorm:"size:128" json:"tx_hash"`
	FinishAfter time.Time       `gorm:"column:finish_after" json:"finish_after"`
	CancelAfter time.Time       `gorm:"column:cancel_after" json:"cancel_after"`
	Status      Status          `gorm:"type:enum('active','released','cancelled');default:'active'" json:"status"`
	// ActiveInvoiceID mirrors InvoiceID while the escrow is active and is
	// nulled on terminal flips; its unique index allows at most one active
	// escrow per invoice.
	ActiveInvoiceID *string    `gorm:"size:32;uniqueIndex:ux_escrows_active_invoice" json:"-"`
	ReleasedAt      *time.Time `json:"released_at,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Escrow) TableName() string { return "escrows" }

// InvestorStats aggregates an investor's escrows.
type InvestorStats struct {
	TotalEscrows     int64           `json:"total_escrows"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	ActiveEscrows    int64           `json:"active_escrows"`
	ReleasedEscrows  int64           `json:"released_escrows"`
	CancelledEscrows int64           `json:"cancelled_escrows"`
}
