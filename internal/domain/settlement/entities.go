package settlement

import (
	"errors"
	"time"
)

// Phase tracks how far a purchase saga progressed. Ledger calls cannot be
// rolled back, so each phase is persisted before and after any
// funds-moving step; a saga stuck between phases is reconciled manually,
// never blindly retried.
type Phase string

const (
	PhaseSettling            Phase = "settling"
	PhaseTransferDone        Phase = "transfer_done"
	PhaseEscrowDone          Phase = "escrow_done"
	PhaseCompleted           Phase = "completed"
	PhaseAborted             Phase = "aborted"
	PhaseNeedsReconciliation Phase = "needs_reconciliation"
)

// Terminal phases release the per-invoice claim; needs_reconciliation
// deliberately does not, which keeps the invoice out of the purchase flow
// until an operator resolves it.
func (p Phase) Terminal() bool {
	return p == PhaseCompleted || p == PhaseAborted
}

var (
	ErrNotFound = errors.New("settlement not found")
	// ErrDuplicateActive signals the single-winner claim: another saga
	// already holds this invoice.
	ErrDuplicateActive = errors.New("active settlement already exists for invoice")
)

type Settlement struct {
	ID           uint64 `gorm:"primaryKey;column:id" json:"-"`
	SettlementID string `gorm:"size:32;uniqueIndex:ux_settlements_settlement_id" json:"settlement_id"`
	InvoiceID    string `gorm:"size:32;index:idx_settlements_invoice" json:"invoice_id"`
	InvestorID   string `gorm:"size:32;index:idx_settlements_investor" json:"investor_id"`
	// ActiveInvoiceID mirrors InvoiceID while the saga holds the claim and
	// is nulled on terminal phases; the unique index makes the claim a
	// storage-level compare-and-swap.
	ActiveInvoiceID *string   `gorm:"size:32;uniqueIndex:ux_settlements_active_invoice" json:"-"`
	Phase           Phase     `gorm:"type:enum('settling','transfer_done','escrow_done','completed','aborted','needs_reconciliation');default:'settling'" json:"phase"`
	PaymentTxHash   string    `gorm:"size:128" json:"payment_tx_hash,omitempty"`
	EscrowTxHash    string    `gorm:"size:128" json:"escrow_tx_hash,omitempty"`
	EscrowSequence  uint64    `json:"escrow_sequence,omitempty"`
	Note            string    `gorm:"type:text" json:"note,omitempty"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Settlement) TableName() string { return "settlements" }
