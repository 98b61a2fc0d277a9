package user

import "context"

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByUserID(ctx context.Context, userID string) (*User, error)
	GetByWalletAddress(ctx context.Context, wallet string) (*User, error)
	GetByDID(ctx context.Context, did string) (*User, error)
	Save(ctx context.Context, u *User) error
	SetKYC(ctx context.Context, userID string, verified bool) error
	// SetCreditStanding rewrites the aggregate score and payment counters
	// after a new credit-history entry has been appended.
	SetCreditStanding(ctx context.Context, userID string, score, totalInvoices, onTimePayments int) error
}
