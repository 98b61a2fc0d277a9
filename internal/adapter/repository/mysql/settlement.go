package mysql

import (
	"context"
	"errors"
	"strings"

	settlementDomain "invoicelane-backend/internal/domain/settlement"

	"gorm.io/gorm"
)

type SettlementRepository struct{ db *gorm.DB }

func NewSettlementRepository(db *gorm.DB) *SettlementRepository {
	return &SettlementRepository{db: db}
}

// Create claims the invoice for this saga via the unique index on
// active_invoice_id; a duplicate-key rejection means another saga holds
// the claim.
func (r *SettlementRepository) Create(ctx context.Context, s *settlementDomain.Settlement) error {
	if s.ActiveInvoiceID == nil && !s.Phase.Terminal() {
		inv := s.InvoiceID
		s.ActiveInvoiceID = &inv
	}
	err := r.db.WithContext(ctx).Create(s).Error
	if isDuplicateKey(err) {
		return settlementDomain.ErrDuplicateActive
	}
	return err
}

func (r *SettlementRepository) GetBySettlementID(ctx context.Context, settlementID string) (*settlementDomain.Settlement, error) {
	var out settlementDomain.Settlement
	res := r.db.WithContext(ctx).Where("settlement_id = ?", settlementID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, settlementDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *SettlementRepository) GetActiveByInvoiceID(ctx context.Context, invoiceID string) (*settlementDomain.Settlement, error) {
	var out settlementDomain.Settlement
	res := r.db.WithContext(ctx).Where("active_invoice_id = ?", invoiceID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, settlementDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *SettlementRepository) SetPhase(ctx context.Context, settlementID string, phase settlementDomain.Phase, note string) error {
	updates := map[string]any{"phase": phase}
	if note != "" {
		updates["note"] = note
	}
	if phase.Terminal() {
		updates["active_invoice_id"] = nil
	}
	res := r.db.WithContext(ctx).
		Model(&settlementDomain.Settlement{}).
		Where("settlement_id = ?", settlementID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return settlementDomain.ErrNotFound
	}
	return nil
}

func (r *SettlementRepository) RecordTransfer(ctx context.Context, settlementID, txHash string) error {
	return r.db.WithContext(ctx).
		Model(&settlementDomain.Settlement{}).
		Where("settlement_id = ?", settlementID).
		Updates(map[string]any{
			"phase":           settlementDomain.PhaseTransferDone,
			"payment_tx_hash": txHash,
		}).Error
}

func (r *SettlementRepository) RecordEscrow(ctx context.Context, settlementID, txHash string, sequence uint64) error {
	return r.db.WithContext(ctx).
		Model(&settlementDomain.Settlement{}).
		Where("settlement_id = ?", settlementID).
		Updates(map[string]any{
			"phase":           settlementDomain.PhaseEscrowDone,
			"escrow_tx_hash":  txHash,
			"escrow_sequence": sequence,
		}).Error
}

func (r *SettlementRepository) ListNeedingReconciliation(ctx context.Context, limit int) ([]settlementDomain.Settlement, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []settlementDomain.Settlement
	res := r.db.WithContext(ctx).
		Where("phase = ?", settlementDomain.PhaseNeedsReconciliation).
		Order("updated_at ASC").
		Limit(limit).
		Find(&out)
	return out, res.Error
}

// isDuplicateKey matches the translated gorm error plus the raw driver
// messages (MySQL in production, sqlite in tests).
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}
