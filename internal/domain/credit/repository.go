package credit

import "context"

type Repository interface {
	Create(ctx context.Context, e *Entry) error
	ListByUser(ctx context.Context, userID string, limit int) ([]Entry, error)
	// SumDeltas totals every recorded delta for a user; the aggregate
	// score is baseline + this sum, clamped.
	SumDeltas(ctx context.Context, userID string) (int, error)
}
