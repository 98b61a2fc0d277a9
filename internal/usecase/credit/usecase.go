package credit

import (
	"context"

	domainCredit "invoicelane-backend/internal/domain/credit"
	domainUser "invoicelane-backend/internal/domain/user"
	"invoicelane-backend/internal/domain/uow"
	"invoicelane-backend/pkg/id"
)

// Apply appends a payment outcome to the credit history and rewrites the
// seller's aggregate standing. Must run inside the same transaction as
// the bookkeeping that produced the outcome.
//
// The score is recomputed as baseline + sum of all recorded deltas
// (clamped), never mutated incrementally, so history alone can reproduce
// it for audit.
func Apply(ctx context.Context, r uow.Repos, userID, invoiceID string, outcome domainCredit.Outcome) (*domainCredit.Entry, error) {
	entry := &domainCredit.Entry{
		EntryID:    id.NewID32(),
		UserID:     userID,
		InvoiceID:  invoiceID,
		Outcome:    outcome,
		ScoreDelta: domainCredit.DeltaFor(outcome),
	}
	if err := r.Credits.Create(ctx, entry); err != nil {
		return nil, err
	}

	sum, err := r.Credits.SumDeltas(ctx, userID)
	if err != nil {
		return nil, err
	}
	score := domainUser.ClampScore(domainUser.BaselineScore + sum)

	u, err := r.Users.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	total := u.TotalInvoices + 1
	onTime := u.OnTimePayments
	if outcome == domainCredit.OutcomeOnTime {
		onTime++
	}
	if err := r.Users.SetCreditStanding(ctx, userID, score, total, onTime); err != nil {
		return nil, err
	}
	return entry, nil
}
