package mysql

import (
	"context"
	"testing"

	invoiceDomain "invoicelane-backend/internal/domain/invoice"
	txnDomain "invoicelane-backend/internal/domain/transaction"
)

func makePurchase(t *testing.T, txnID, invoiceID, investorID string) *txnDomain.Transaction {
	return &txnDomain.Transaction{
		TransactionID: txnID,
		InvoiceID:     invoiceID,
		InvestorID:    investorID,
		Amount:        dec(t, "9500.00"),
		Type:          txnDomain.TypePurchase,
		TxHash:        "PAYHASH",
		Status:        txnDomain.StatusCompleted,
	}
}

func TestTransactionCreateAndListByInvoice(t *testing.T) {
	db := openTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, makePurchase(t, "TX-1", "IV-1", "NV-1")); err != nil {
		t.Fatalf("Create TX-1: %v", err)
	}
	payment := makePurchase(t, "TX-2", "IV-1", "NV-1")
	payment.Type = txnDomain.TypePayment
	payment.Amount = dec(t, "10000.00")
	if err := repo.Create(ctx, payment); err != nil {
		t.Fatalf("Create TX-2: %v", err)
	}
	if err := repo.Create(ctx, makePurchase(t, "TX-3", "IV-OTHER", "NV-1")); err != nil {
		t.Fatalf("Create TX-3: %v", err)
	}

	got, err := repo.ListByInvoice(ctx, "IV-1")
	if err != nil {
		t.Fatalf("ListByInvoice: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("%d rows, want 2", len(got))
	}
	// Newest first.
	if got[0].TransactionID != "TX-2" {
		t.Fatalf("order wrong, first = %s", got[0].TransactionID)
	}
}

func TestTransactionPortfolio(t *testing.T) {
	db := openTestDB(t)
	repo := NewTransactionRepository(db)
	invoices := NewInvoiceRepository(db)
	escrows := NewEscrowRepository(db)
	ctx := context.Background()

	if err := invoices.Create(ctx, makeInvoice(t, "IV-DONE", "SL-1", invoiceDomain.StatusCompleted)); err != nil {
		t.Fatalf("Create IV-DONE: %v", err)
	}
	if err := invoices.Create(ctx, makeInvoice(t, "IV-HELD", "SL-1", invoiceDomain.StatusFunded)); err != nil {
		t.Fatalf("Create IV-HELD: %v", err)
	}
	if err := escrows.Create(ctx, makeEscrow(t, "ES-HELD", "IV-HELD", "NV-P")); err != nil {
		t.Fatalf("Create ES-HELD: %v", err)
	}
	if err := repo.Create(ctx, makePurchase(t, "TX-D", "IV-DONE", "NV-P")); err != nil {
		t.Fatalf("Create TX-D: %v", err)
	}
	if err := repo.Create(ctx, makePurchase(t, "TX-H", "IV-HELD", "NV-P")); err != nil {
		t.Fatalf("Create TX-H: %v", err)
	}
	// Payments are not portfolio entries.
	payment := makePurchase(t, "TX-PAY", "IV-DONE", "NV-P")
	payment.Type = txnDomain.TypePayment
	if err := repo.Create(ctx, payment); err != nil {
		t.Fatalf("Create TX-PAY: %v", err)
	}

	rows, err := repo.Portfolio(ctx, "NV-P")
	if err != nil {
		t.Fatalf("Portfolio: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("%d rows, want 2", len(rows))
	}
	byInvoice := map[string]txnDomain.PortfolioRow{}
	for _, r := range rows {
		byInvoice[r.InvoiceID] = r
	}
	held := byInvoice["IV-HELD"]
	if held.InvoiceStatus != "funded" || held.EscrowStatus != "active" {
		t.Fatalf("join fields wrong: %+v", held)
	}
	if !held.ExpectedProfit.Equal(dec(t, "500.00")) {
		t.Fatalf("expected profit = %s, want 500.00", held.ExpectedProfit)
	}

	sum, err := repo.PortfolioSummary(ctx, "NV-P")
	if err != nil {
		t.Fatalf("PortfolioSummary: %v", err)
	}
	if sum.TotalInvestments != 2 {
		t.Fatalf("total investments = %d, want 2", sum.TotalInvestments)
	}
	if !sum.TotalInvested.Equal(dec(t, "19000.00")) {
		t.Fatalf("total invested = %s, want 19000.00", sum.TotalInvested)
	}
	// Only the completed invoice counts as returned.
	if !sum.TotalReturned.Equal(dec(t, "10000.00")) || !sum.TotalProfit.Equal(dec(t, "500.00")) {
		t.Fatalf("returned/profit = %s/%s", sum.TotalReturned, sum.TotalProfit)
	}
}
