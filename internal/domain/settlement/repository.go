package settlement

import "context"

type Repository interface {
	// Create inserts a saga holding the per-invoice claim;
	// ErrDuplicateActive when another saga already holds it.
	Create(ctx context.Context, s *Settlement) error
	GetBySettlementID(ctx context.Context, settlementID string) (*Settlement, error)
	GetActiveByInvoiceID(ctx context.Context, invoiceID string) (*Settlement, error)
	// SetPhase advances the saga, clearing the claim on terminal phases.
	SetPhase(ctx context.Context, settlementID string, phase Phase, note string) error
	// RecordTransfer and RecordEscrow persist ledger results as soon as
	// they are known.
	RecordTransfer(ctx context.Context, settlementID, txHash string) error
	RecordEscrow(ctx context.Context, settlementID, txHash string, sequence uint64) error
	ListNeedingReconciliation(ctx context.Context, limit int) ([]Settlement, error)
}
