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
	domainTxn "invoicelane-backend/internal/domain/transaction"
	"invoicelane-backend/internal/domain/uow"
	"invoicelane-backend/internal/metrics"
	creditUC "invoicelane-backend/internal/usecase/credit"
	"invoicelane-backend/pkg/id"

	"github.com/bsm/redislock"
)

const (
	sweepLockKey = "sweep:defaults"
	sweepLockTTL = 5 * time.Minute
	sweepBatch   = 100
)

// Sweeper periodically moves overdue funded invoices to defaulted and
// cancels expired escrows. Handlers never do this work: due dates lapse
// without requests. A Redis lock keeps concurrent processes from running
// the same pass.
type Sweeper struct {
	uc       *Usecase
	locker   *redislock.Client
	interval time.Duration
	grace    time.Duration
}

func NewSweeper(uc *Usecase, locker *redislock.Client, interval time.Duration, grace time.Duration) *Sweeper {
	return &Sweeper{uc: uc, locker: locker, interval: interval, grace: grace}
}

// Run blocks until ctx is cancelled, sweeping once per interval.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweepOnce(ctx)
		}
	}
}

func (s *Sweeper) sweepOnce(ctx context.Context) {
	lock, err := s.locker.Obtain(ctx, sweepLockKey, sweepLockTTL, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return // another process is sweeping
	}
	if err != nil {
		slog.Warn("sweep lock unavailable", "err", err)
		return
	}
	defer func() { _ = lock.Release(ctx) }()

	defaulted, err := s.uc.SweepDefaults(ctx, s.grace, sweepBatch)
	if err != nil {
		slog.Error("default sweep failed", "err", err)
	} else if defaulted > 0 {
		slog.Info("default sweep complete", "defaulted", defaulted)
	}

	cancelled, err := s.uc.CancelExpiredEscrows(ctx, sweepBatch)
	if err != nil {
		slog.Error("escrow cancel sweep failed", "err", err)
	} else if cancelled > 0 {
		slog.Info("escrow cancel sweep complete", "cancelled", cancelled)
	}
}

// SweepDefaults flips funded invoices whose due date plus grace has
// lapsed with no payment confirmation to defaulted, recording the
// defaulted credit outcome. Pure bookkeeping: the escrow stays on the
// ledger until its cancel-after passes.
func (u *Usecase) SweepDefaults(ctx context.Context, grace time.Duration, limit int) (int, error) {
	cutoff := u.now().UTC().Add(-grace)
	var overdue []domainInvoice.Invoice
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		overdue, err = r.Invoices.ListFundedOverdue(ctx, cutoff, limit)
		return err
	})
	if err != nil {
		return 0, err
	}

	count := 0
	for _, inv := range overdue {
		flipped, err := u.defaultInvoice(ctx, inv.InvoiceID)
		if err != nil {
			slog.Error("defaulting invoice failed", "invoice_id", inv.InvoiceID, "err", err)
			continue
		}
		if flipped {
			metrics.DefaultsSwept.Inc()
			count++
		}
	}
	return count, nil
}

func (u *Usecase) defaultInvoice(ctx context.Context, invoiceID string) (bool, error) {
	flipped := false
	err := u.uow.WithinInvoiceTx(ctx, invoiceID, func(r uow.Repos, inv *domainInvoice.Invoice) error {
		// re-check under lock: payment may have been confirmed meanwhile
		if inv.Status != domainInvoice.StatusFunded {
			return nil
		}
		if err := r.Invoices.UpdateStatus(ctx, inv.InvoiceID, domainInvoice.StatusFunded, domainInvoice.StatusDefaulted); err != nil {
			return err
		}
		if _, err := creditUC.Apply(ctx, r, inv.SellerID, inv.InvoiceID, domainCredit.OutcomeDefaulted); err != nil {
			return err
		}
		flipped = true
		return nil
	})
	return flipped, err
}

// CancelExpiredEscrows refunds investors whose escrows passed cancel-after
// without being finished. The cancel is a ledger call, so it runs outside
// any storage transaction; bookkeeping follows with retries.
func (u *Usecase) CancelExpiredEscrows(ctx context.Context, limit int) (int, error) {
	cutoff := u.now().UTC()
	var expired []domainEscrow.Escrow
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		expired, err = r.Escrows.ListActiveExpired(ctx, cutoff, limit)
		return err
	})
	if err != nil {
		return 0, err
	}

	count := 0
	for _, esc := range expired {
		if err := u.cancelEscrow(ctx, esc); err != nil {
			slog.Error("escrow cancel failed", "escrow_id", esc.EscrowID, "invoice_id", esc.InvoiceID, "err", err)
			continue
		}
		count++
	}
	return count, nil
}

func (u *Usecase) cancelEscrow(ctx context.Context, esc domainEscrow.Escrow) error {
	var ownerWallet string
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		investor, err := r.Users.GetByUserID(ctx, esc.InvestorID)
		if err != nil {
			return err
		}
		ownerWallet = investor.WalletAddress
		return nil
	})
	if err != nil {
		return err
	}

	res, err := u.gateway.CancelEscrow(ctx, u.platform, ownerWallet, esc.Sequence)
	if err != nil {
		return fmt.Errorf("cancel escrow on ledger: %w", err)
	}

	return u.retryBookkeeping(ctx, func() error {
		return u.uow.WithinTx(ctx, func(r uow.Repos) error {
			if err := r.Escrows.UpdateStatus(ctx, esc.EscrowID, domainEscrow.StatusCancelled, nil); err != nil {
				return err
			}
			return r.Transactions.Create(ctx, &domainTxn.Transaction{
				TransactionID: id.NewID32(),
				InvoiceID:     esc.InvoiceID,
				InvestorID:    esc.InvestorID,
				Amount:        esc.Amount,
				Type:          domainTxn.TypeRefund,
				TxHash:        res.TxHash,
				Status:        domainTxn.StatusCompleted,
			})
		})
	})
}
