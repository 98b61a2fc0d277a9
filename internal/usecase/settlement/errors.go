package settlement

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	// ErrReconciliationPending blocks the purchase flow while a previous
	// settlement on the invoice awaits manual reconciliation.
	ErrReconciliationPending = errors.New("settlement reconciliation pending for invoice")
)

// PartialSettlementError means the ledger side of a settlement succeeded
// but a later step did not: funds have moved and there is no undo. It
// must reach an operator — retrying the funds-moving step would risk a
// double payment.
type PartialSettlementError struct {
	InvoiceID    string
	SettlementID string
	Stage        string
	Err          error
}

func (e *PartialSettlementError) Error() string {
	return fmt.Sprintf("partial settlement on invoice %s (saga %s, stage %s): %v",
		e.InvoiceID, e.SettlementID, e.Stage, e.Err)
}

func (e *PartialSettlementError) Unwrap() error { return e.Err }
