package settlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	domainCredit "invoicelane-backend/internal/domain/credit"
	domainEscrow "invoicelane-backend/internal/domain/escrow"
	domainInvoice "invoicelane-backend/internal/domain/invoice"
	domainSettlement "invoicelane-backend/internal/domain/settlement"
	domainTxn "invoicelane-backend/internal/domain/transaction"
	domainUser "invoicelane-backend/internal/domain/user"
	"invoicelane-backend/internal/domain/uow"
	"invoicelane-backend/internal/ledger"
	"invoicelane-backend/internal/metrics"
	creditUC "invoicelane-backend/internal/usecase/credit"
	"invoicelane-backend/pkg/id"
)

const bookkeepingAttempts = 3

// Usecase sequences the multi-step purchase and release settlements.
// Ledger calls are never wrapped in a storage transaction (they cannot be
// rolled back); instead every funds-moving step is bracketed by saga
// phase writes, and bookkeeping after on-ledger success is retried
// without re-touching the ledger.
type Usecase struct {
	uow      uow.UnitOfWork
	gateway  ledger.Gateway
	platform ledger.Credential
	now      func() time.Time
}

func NewUsecase(u uow.UnitOfWork, gateway ledger.Gateway, platformSeed string) *Usecase {
	return &Usecase{
		uow:      u,
		gateway:  gateway,
		platform: ledger.Credential{Seed: platformSeed},
		now:      time.Now,
	}
}

type PurchaseInput struct {
	InvoiceID    string
	InvestorID   string
	InvestorSeed string
}

type PurchaseDTO struct {
	SettlementID   string `json:"settlement_id"`
	InvoiceID      string `json:"invoice_id"`
	PaymentTxHash  string `json:"payment_tx_hash"`
	EscrowTxHash   string `json:"escrow_tx_hash"`
	EscrowSequence uint64 `json:"escrow_sequence"`
	Status         string `json:"status"`
}

// Purchase settles an investor buying a listed invoice:
//
//  1. transfer the frozen selling price investor → seller
//  2. lock the face amount in a time-locked escrow maturing at due date
//  3. record the purchase transaction and escrow rows
//  4. flip the invoice listed → funded
//
// The single-winner guarantee does not rely on an in-process lock: the
// saga row claims the invoice through a storage-level unique index before
// any funds move, and the status flip itself is a guarded conditional
// update.
func (u *Usecase) Purchase(ctx context.Context, in PurchaseInput) (*PurchaseDTO, error) {
	if in.InvoiceID == "" || in.InvestorID == "" || in.InvestorSeed == "" {
		return nil, fmt.Errorf("%w: invoice id, investor id and credential are required", ErrInvalidInput)
	}
	metrics.PurchaseAttempts.Inc()
	investorCred := ledger.Credential{Seed: in.InvestorSeed}

	var (
		inv      *domainInvoice.Invoice
		seller   *domainUser.User
		investor *domainUser.User
		sag      *domainSettlement.Settlement
	)
	// Claim phase: all validation plus the single-winner claim, one tx.
	err := u.uow.WithinInvoiceTx(ctx, in.InvoiceID, func(r uow.Repos, locked *domainInvoice.Invoice) error {
		switch locked.Status {
		case domainInvoice.StatusListed:
		case domainInvoice.StatusFunded:
			return domainInvoice.ErrAlreadyFunded
		default:
			return domainInvoice.NewInvalidTransition(locked.Status, domainInvoice.StatusFunded)
		}

		var err error
		if seller, err = r.Users.GetByUserID(ctx, locked.SellerID); err != nil {
			return fmt.Errorf("load seller: %w", err)
		}
		if investor, err = r.Users.GetByUserID(ctx, in.InvestorID); err != nil {
			return fmt.Errorf("load investor: %w", err)
		}

		sag = &domainSettlement.Settlement{
			SettlementID: id.NewID32(),
			InvoiceID:    locked.InvoiceID,
			InvestorID:   investor.UserID,
			Phase:        domainSettlement.PhaseSettling,
		}
		if err := r.Settlements.Create(ctx, sag); err != nil {
			if errors.Is(err, domainSettlement.ErrDuplicateActive) {
				return u.claimConflict(ctx, r, locked.InvoiceID)
			}
			return err
		}
		inv = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Step 1: pay the seller the discounted price. A rejected transfer
	// moved nothing, so the claim is released and the error surfaced.
	// A lost response is different: the payment may have landed, and
	// releasing the claim would let the transfer be replayed — that goes
	// to an operator instead.
	transfer, err := u.gateway.TransferValue(ctx, investorCred, seller.WalletAddress, inv.SellingPrice)
	if err != nil {
		if errors.Is(err, ledger.ErrOutcomeUnknown) {
			return nil, u.partial(ctx, sag, "transfer_submit",
				fmt.Errorf("transfer outcome unknown, seller may have been paid: %w", err))
		}
		u.abandon(ctx, sag.SettlementID, "transfer failed: "+err.Error())
		return nil, fmt.Errorf("transfer selling price: %w", err)
	}
	u.record(ctx, func(r uow.Repos) error {
		return r.Settlements.RecordTransfer(ctx, sag.SettlementID, transfer.TxHash)
	})

	// Step 2: lock the face amount until the buyer pays. The seller has
	// already been paid, so a failure here is a partial settlement — it
	// must reach an operator, never a blind retry of step 1.
	esc, err := u.gateway.CreateEscrow(ctx, investorCred, investor.WalletAddress, inv.Amount, inv.DueDate)
	if err != nil {
		return nil, u.partial(ctx, sag, "escrow_create",
			fmt.Errorf("seller paid (tx %s) but escrow creation failed: %w", transfer.TxHash, err))
	}
	u.record(ctx, func(r uow.Repos) error {
		return r.Settlements.RecordEscrow(ctx, sag.SettlementID, esc.TxHash, esc.Sequence)
	})

	// Steps 3-5: pure bookkeeping after on-ledger success; retried on
	// transient storage failure without re-touching the ledger.
	err = u.retryBookkeeping(ctx, func() error {
		return u.uow.WithinTx(ctx, func(r uow.Repos) error {
			if err := r.Transactions.Create(ctx, &domainTxn.Transaction{
				TransactionID: id.NewID32(),
				InvoiceID:     inv.InvoiceID,
				InvestorID:    investor.UserID,
				Amount:        inv.SellingPrice,
				Type:          domainTxn.TypePurchase,
				TxHash:        transfer.TxHash,
				Status:        domainTxn.StatusCompleted,
			}); err != nil {
				return err
			}
			if err := r.Escrows.Create(ctx, &domainEscrow.Escrow{
				EscrowID:    id.NewID32(),
				InvoiceID:   inv.InvoiceID,
				InvestorID:  investor.UserID,
				Amount:      inv.Amount,
				Sequence:    esc.Sequence,
				TxHash:      esc.TxHash,
				FinishAfter: inv.DueDate,
				CancelAfter: esc.CancelAfter,
				Status:      domainEscrow.StatusActive,
			}); err != nil {
				return err
			}
			if err := r.Invoices.UpdateStatus(ctx, inv.InvoiceID, domainInvoice.StatusListed, domainInvoice.StatusFunded); err != nil {
				return err
			}
			return r.Settlements.SetPhase(ctx, sag.SettlementID, domainSettlement.PhaseCompleted, "")
		})
	})
	if err != nil {
		return nil, u.partial(ctx, sag, "bookkeeping",
			fmt.Errorf("ledger settled (payment %s, escrow %s) but bookkeeping failed: %w", transfer.TxHash, esc.TxHash, err))
	}

	metrics.PurchaseCompleted.Inc()
	return &PurchaseDTO{
		SettlementID:   sag.SettlementID,
		InvoiceID:      inv.InvoiceID,
		PaymentTxHash:  transfer.TxHash,
		EscrowTxHash:   esc.TxHash,
		EscrowSequence: esc.Sequence,
		Status:         string(domainInvoice.StatusFunded),
	}, nil
}

type ReleaseInput struct {
	InvoiceID string
	// Optional; the platform credential finishes the escrow when empty.
	FinisherSeed string
}

type ReleaseDTO struct {
	InvoiceID     string `json:"invoice_id"`
	ReleaseTxHash string `json:"release_tx_hash"`
	Outcome       string `json:"outcome"`
	ScoreDelta    int    `json:"score_delta"`
}

// Release confirms the buyer's payment: finish the escrow on the ledger,
// mark it released, complete the invoice, and append the seller's credit
// outcome. A ledger failure aborts with no state change; bookkeeping
// after on-ledger success is retried.
func (u *Usecase) Release(ctx context.Context, in ReleaseInput) (*ReleaseDTO, error) {
	if in.InvoiceID == "" {
		return nil, fmt.Errorf("%w: invoice id is required", ErrInvalidInput)
	}

	var (
		inv      *domainInvoice.Invoice
		esc      *domainEscrow.Escrow
		investor *domainUser.User
	)
	err := u.uow.WithinInvoiceTx(ctx, in.InvoiceID, func(r uow.Repos, locked *domainInvoice.Invoice) error {
		if locked.Status != domainInvoice.StatusFunded {
			return domainInvoice.NewInvalidTransition(locked.Status, domainInvoice.StatusCompleted)
		}
		var err error
		if esc, err = r.Escrows.GetActiveByInvoiceID(ctx, locked.InvoiceID); err != nil {
			return err
		}
		if investor, err = r.Users.GetByUserID(ctx, esc.InvestorID); err != nil {
			return fmt.Errorf("load investor: %w", err)
		}
		inv = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	finisher := u.platform
	if in.FinisherSeed != "" {
		finisher = ledger.Credential{Seed: in.FinisherSeed}
	}
	release, err := u.gateway.FinishEscrow(ctx, finisher, investor.WalletAddress, esc.Sequence)
	if err != nil {
		return nil, fmt.Errorf("finish escrow: %w", err)
	}

	confirmedAt := u.now().UTC()
	outcome := domainCredit.OutcomeOnTime
	if confirmedAt.After(inv.DueDate) {
		outcome = domainCredit.OutcomeLate
	}

	err = u.retryBookkeeping(ctx, func() error {
		return u.uow.WithinTx(ctx, func(r uow.Repos) error {
			if err := r.Escrows.UpdateStatus(ctx, esc.EscrowID, domainEscrow.StatusReleased, &confirmedAt); err != nil {
				return err
			}
			if err := r.Invoices.UpdateStatus(ctx, inv.InvoiceID, domainInvoice.StatusFunded, domainInvoice.StatusCompleted); err != nil {
				return err
			}
			if err := r.Transactions.Create(ctx, &domainTxn.Transaction{
				TransactionID: id.NewID32(),
				InvoiceID:     inv.InvoiceID,
				InvestorID:    esc.InvestorID,
				Amount:        esc.Amount,
				Type:          domainTxn.TypePayment,
				TxHash:        release.TxHash,
				Status:        domainTxn.StatusCompleted,
			}); err != nil {
				return err
			}
			_, err := creditUC.Apply(ctx, r, inv.SellerID, inv.InvoiceID, outcome)
			return err
		})
	})
	if err != nil {
		metrics.PartialSettlements.WithLabelValues("release_bookkeeping").Inc()
		return nil, &PartialSettlementError{
			InvoiceID: inv.InvoiceID,
			Stage:     "release_bookkeeping",
			Err:       fmt.Errorf("escrow finished (tx %s) but bookkeeping failed: %w", release.TxHash, err),
		}
	}

	metrics.EscrowReleases.Inc()
	return &ReleaseDTO{
		InvoiceID:     inv.InvoiceID,
		ReleaseTxHash: release.TxHash,
		Outcome:       string(outcome),
		ScoreDelta:    domainCredit.DeltaFor(outcome),
	}, nil
}

// claimConflict distinguishes "another investor is settling/has settled"
// from "a broken settlement is waiting for an operator".
func (u *Usecase) claimConflict(ctx context.Context, r uow.Repos, invoiceID string) error {
	active, err := r.Settlements.GetActiveByInvoiceID(ctx, invoiceID)
	if err == nil && active.Phase == domainSettlement.PhaseNeedsReconciliation {
		return ErrReconciliationPending
	}
	return domainInvoice.ErrAlreadyFunded
}

// partial flags the saga for manual reconciliation and wraps the cause.
func (u *Usecase) partial(ctx context.Context, sag *domainSettlement.Settlement, stage string, cause error) error {
	metrics.PartialSettlements.WithLabelValues(stage).Inc()
	u.record(ctx, func(r uow.Repos) error {
		return r.Settlements.SetPhase(ctx, sag.SettlementID, domainSettlement.PhaseNeedsReconciliation, cause.Error())
	})
	slog.Error("partial settlement, manual reconciliation required",
		"invoice_id", sag.InvoiceID, "settlement_id", sag.SettlementID, "stage", stage, "err", cause)
	return &PartialSettlementError{
		InvoiceID:    sag.InvoiceID,
		SettlementID: sag.SettlementID,
		Stage:        stage,
		Err:          cause,
	}
}

// abandon releases the claim after a failure with no ledger side effects.
func (u *Usecase) abandon(ctx context.Context, settlementID, note string) {
	u.record(ctx, func(r uow.Repos) error {
		return r.Settlements.SetPhase(ctx, settlementID, domainSettlement.PhaseAborted, note)
	})
}

// record persists saga progress; failures are logged, not fatal — the
// final bookkeeping carries the full result either way.
func (u *Usecase) record(ctx context.Context, fn func(r uow.Repos) error) {
	if err := u.uow.WithinTx(ctx, fn); err != nil {
		slog.Warn("settlement progress write failed", "err", err)
	}
}

func (u *Usecase) retryBookkeeping(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; attempt <= bookkeepingAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return err
		}
		slog.Warn("bookkeeping attempt failed", "attempt", attempt, "err", err)
		select {
		case <-time.After(time.Duration(attempt) * 100 * time.Millisecond):
		case <-ctx.Done():
			return err
		}
	}
	return err
}
