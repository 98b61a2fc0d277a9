package mysql

import (
	"context"
	"errors"
	"testing"

	settlementDomain "invoicelane-backend/internal/domain/settlement"
)

func makeSettlement(settlementID, invoiceID, investorID string) *settlementDomain.Settlement {
	return &settlementDomain.Settlement{
		SettlementID: settlementID,
		InvoiceID:    invoiceID,
		InvestorID:   investorID,
		Phase:        settlementDomain.PhaseSettling,
	}
}

func TestSettlementCreate_ClaimsInvoice(t *testing.T) {
	db := openTestDB(t)
	repo := NewSettlementRepository(db)
	ctx := context.Background()

	s := makeSettlement("ST-1", "IV-CLAIM", "NV-1")
	if err := repo.Create(ctx, s); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if s.ActiveInvoiceID == nil || *s.ActiveInvoiceID != "IV-CLAIM" {
		t.Fatalf("claim column not populated: %+v", s.ActiveInvoiceID)
	}

	got, err := repo.GetActiveByInvoiceID(ctx, "IV-CLAIM")
	if err != nil {
		t.Fatalf("GetActiveByInvoiceID: %v", err)
	}
	if got.SettlementID != "ST-1" {
		t.Fatalf("active settlement = %s, want ST-1", got.SettlementID)
	}
}

func TestSettlementCreate_SecondClaimLoses(t *testing.T) {
	db := openTestDB(t)
	repo := NewSettlementRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, makeSettlement("ST-WIN", "IV-RACE", "NV-1")); err != nil {
		t.Fatalf("first Create: %v", err)
	}

	// The unique index on active_invoice_id makes this the losing side
	// of the race, surfaced as a domain error.
	err := repo.Create(ctx, makeSettlement("ST-LOSE", "IV-RACE", "NV-2"))
	if !errors.Is(err, settlementDomain.ErrDuplicateActive) {
		t.Fatalf("expected ErrDuplicateActive, got %v", err)
	}
}

func TestSettlementSetPhase_TerminalReleasesClaim(t *testing.T) {
	db := openTestDB(t)
	repo := NewSettlementRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, makeSettlement("ST-DONE", "IV-CYCLE", "NV-1")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.SetPhase(ctx, "ST-DONE", settlementDomain.PhaseCompleted, ""); err != nil {
		t.Fatalf("SetPhase completed: %v", err)
	}

	if _, err := repo.GetActiveByInvoiceID(ctx, "IV-CYCLE"); !errors.Is(err, settlementDomain.ErrNotFound) {
		t.Fatalf("claim not released, got %v", err)
	}

	// The invoice can now be claimed again.
	if err := repo.Create(ctx, makeSettlement("ST-NEXT", "IV-CYCLE", "NV-2")); err != nil {
		t.Fatalf("reclaim after terminal phase: %v", err)
	}

	got, err := repo.GetBySettlementID(ctx, "ST-DONE")
	if err != nil {
		t.Fatalf("GetBySettlementID: %v", err)
	}
	if got.Phase != settlementDomain.PhaseCompleted {
		t.Fatalf("phase = %s, want completed", got.Phase)
	}
}

func TestSettlementSetPhase_ReconciliationHoldsClaim(t *testing.T) {
	db := openTestDB(t)
	repo := NewSettlementRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, makeSettlement("ST-STUCK", "IV-STUCK", "NV-1")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.SetPhase(ctx, "ST-STUCK", settlementDomain.PhaseNeedsReconciliation, "escrow create failed"); err != nil {
		t.Fatalf("SetPhase needs_reconciliation: %v", err)
	}

	// The stuck saga keeps the invoice out of the purchase flow.
	err := repo.Create(ctx, makeSettlement("ST-RETRY", "IV-STUCK", "NV-2"))
	if !errors.Is(err, settlementDomain.ErrDuplicateActive) {
		t.Fatalf("expected claim still held, got %v", err)
	}

	got, err := repo.GetBySettlementID(ctx, "ST-STUCK")
	if err != nil {
		t.Fatalf("GetBySettlementID: %v", err)
	}
	if got.Note != "escrow create failed" {
		t.Fatalf("note = %q", got.Note)
	}
}

func TestSettlementSetPhase_UnknownID(t *testing.T) {
	db := openTestDB(t)
	repo := NewSettlementRepository(db)
	ctx := context.Background()

	err := repo.SetPhase(ctx, "ST-MISSING", settlementDomain.PhaseCompleted, "")
	if !errors.Is(err, settlementDomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSettlementRecordProgress(t *testing.T) {
	db := openTestDB(t)
	repo := NewSettlementRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, makeSettlement("ST-PROG", "IV-PROG", "NV-1")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.RecordTransfer(ctx, "ST-PROG", "PAYHASH"); err != nil {
		t.Fatalf("RecordTransfer: %v", err)
	}
	got, err := repo.GetBySettlementID(ctx, "ST-PROG")
	if err != nil {
		t.Fatalf("GetBySettlementID: %v", err)
	}
	if got.Phase != settlementDomain.PhaseTransferDone || got.PaymentTxHash != "PAYHASH" {
		t.Fatalf("transfer not recorded: %+v", got)
	}

	if err := repo.RecordEscrow(ctx, "ST-PROG", "ESCHASH", 7); err != nil {
		t.Fatalf("RecordEscrow: %v", err)
	}
	got, err = repo.GetBySettlementID(ctx, "ST-PROG")
	if err != nil {
		t.Fatalf("GetBySettlementID: %v", err)
	}
	if got.Phase != settlementDomain.PhaseEscrowDone || got.EscrowTxHash != "ESCHASH" || got.EscrowSequence != 7 {
		t.Fatalf("escrow not recorded: %+v", got)
	}

	// Still mid-saga: the claim survives every non-terminal phase.
	if _, err := repo.GetActiveByInvoiceID(ctx, "IV-PROG"); err != nil {
		t.Fatalf("claim lost mid-saga: %v", err)
	}
}

func TestSettlementListNeedingReconciliation(t *testing.T) {
	db := openTestDB(t)
	repo := NewSettlementRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, makeSettlement("ST-OK", "IV-OK", "NV-1")); err != nil {
		t.Fatalf("Create ST-OK: %v", err)
	}
	if err := repo.SetPhase(ctx, "ST-OK", settlementDomain.PhaseCompleted, ""); err != nil {
		t.Fatalf("SetPhase ST-OK: %v", err)
	}
	if err := repo.Create(ctx, makeSettlement("ST-BAD", "IV-BAD", "NV-2")); err != nil {
		t.Fatalf("Create ST-BAD: %v", err)
	}
	if err := repo.SetPhase(ctx, "ST-BAD", settlementDomain.PhaseNeedsReconciliation, "ledger timeout"); err != nil {
		t.Fatalf("SetPhase ST-BAD: %v", err)
	}

	got, err := repo.ListNeedingReconciliation(ctx, 10)
	if err != nil {
		t.Fatalf("ListNeedingReconciliation: %v", err)
	}
	if len(got) != 1 || got[0].SettlementID != "ST-BAD" {
		t.Fatalf("unexpected reconciliation set: %+v", got)
	}
}
