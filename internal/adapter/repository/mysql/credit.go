package mysql

import (
	"context"

	creditDomain "invoicelane-backend/internal/domain/credit"

	"gorm.io/gorm"
)

type CreditRepository struct{ db *gorm.DB }

func NewCreditRepository(db *gorm.DB) *CreditRepository { return &CreditRepository{db: db} }

func (r *CreditRepository) Create(ctx context.Context, e *creditDomain.Entry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *CreditRepository) ListByUser(ctx context.Context, userID string, limit int) ([]creditDomain.Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	var out []creditDomain.Entry
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("recorded_at DESC, id DESC").
		Limit(limit).
		Find(&out)
	return out, res.Error
}

func (r *CreditRepository) SumDeltas(ctx context.Context, userID string) (int, error) {
	var sum int
	res := r.db.WithContext(ctx).
		Table("credit_history").
		Select("COALESCE(SUM(score_change), 0)").
		Where("user_id = ?", userID).
		Scan(&sum)
	return sum, res.Error
}
