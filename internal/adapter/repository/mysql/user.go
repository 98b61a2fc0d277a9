package mysql

import (
	"context"
	"errors"

	userDomain "invoicelane-backend/internal/domain/user"

	"gorm.io/gorm"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) Create(ctx context.Context, u *userDomain.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) Save(ctx context.Context, u *userDomain.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *UserRepository) GetByUserID(ctx context.Context, userID string) (*userDomain.User, error) {
	var out userDomain.User
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, userDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *UserRepository) GetByWalletAddress(ctx context.Context, wallet string) (*userDomain.User, error) {
	var out userDomain.User
	res := r.db.WithContext(ctx).Where("wallet_address = ?", wallet).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, userDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *UserRepository) GetByDID(ctx context.Context, did string) (*userDomain.User, error) {
	var out userDomain.User
	res := r.db.WithContext(ctx).Where("did = ?", did).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, userDomain.ErrNotFound
	}
	return &out, res.Error
}

// Existence is checked by callers up-front; RowsAffected is not a
// reliable signal here since MySQL reports 0 for no-op updates.
func (r *UserRepository) SetKYC(ctx context.Context, userID string, verified bool) error {
	return r.db.WithContext(ctx).
		Model(&userDomain.User{}).
		Where("user_id = ?", userID).
		Update("kyc_verified", verified).Error
}

func (r *UserRepository) SetCreditStanding(ctx context.Context, userID string, score, totalInvoices, onTimePayments int) error {
	return r.db.WithContext(ctx).
		Model(&userDomain.User{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"credit_score":     score,
			"total_invoices":   totalInvoices,
			"on_time_payments": onTimePayments,
		}).Error
}
