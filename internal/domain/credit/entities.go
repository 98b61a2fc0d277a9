package credit

import (
	"time"
)

// Outcome classifies a payment event against the invoice due date.
type Outcome string

const (
	OutcomeOnTime    Outcome = "on_time"
	OutcomeLate      Outcome = "late"
	OutcomeDefaulted Outcome = "defaulted"
)

// Score deltas per outcome. The aggregate score is always recomputed as
// baseline + sum of all deltas, so history alone can reproduce it.
const (
	DeltaOnTime    = 10
	DeltaLate      = -5
	DeltaDefaulted = -30
)

func DeltaFor(o Outcome) int {
	switch o {
	case OutcomeOnTime:
		return DeltaOnTime
	case OutcomeLate:
		return DeltaLate
	case OutcomeDefaulted:
		return DeltaDefaulted
	}
	return 0
}

// Entry is an append-only credit-history record. Rows are never updated
// or deleted.
type Entry struct {
	ID         uint64    `gorm:"primaryKey;column:id" json:"-"`
	EntryID    string    `gorm:"size:32;uniqueIndex:ux_credit_history_entry_id" json:"entry_id"`
	UserID     string    `gorm:"size:32;index:idx_credit_history_user" json:"user_id"`
	InvoiceID  string    `gorm:"size:32;index:idx_credit_history_invoice" json:"invoice_id"`
	Outcome    Outcome   `gorm:"column:payment_status;type:enum('on_time','late','defaulted')" json:"payment_status"`
	ScoreDelta int       `gorm:"column:score_change" json:"score_change"`
	RecordedAt time.Time `gorm:"autoCreateTime" json:"recorded_at"`
}

func (Entry) TableName() string { return "credit_history" }
