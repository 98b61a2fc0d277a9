package user

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleSeller   Role = "seller"
	RoleInvestor Role = "investor"
	RoleBoth     Role = "both"
)

func (r Role) Valid() bool {
	switch r {
	case RoleSeller, RoleInvestor, RoleBoth:
		return true
	}
	return false
}

// Credit score bounds. A fresh account starts at the baseline and moves
// with recorded payment outcomes, clamped to [MinScore, MaxScore].
const (
	BaselineScore = 50
	MinScore      = 0
	MaxScore      = 100
)

var ErrNotFound = errors.New("user not found")

type User struct {
	ID             uint64         `gorm:"primaryKey;column:id" json:"-"`
	UserID         string         `gorm:"size:32;uniqueIndex:ux_users_user_id" json:"user_id"`
	WalletAddress  string         `gorm:"size:64;uniqueIndex:ux_users_wallet" json:"wallet_address"`
	Role           Role           `gorm:"type:enum('seller','investor','both')" json:"role"`
	DID            string         `gorm:"column:did;size:128;index:idx_users_did" json:"did"`
	Email          string         `gorm:"size:255" json:"email,omitempty"`
	CompanyName    string         `gorm:"size:255" json:"company_name,omitempty"`
	KYCVerified    bool           `gorm:"default:false" json:"kyc_verified"`
	CreditScore    int            `gorm:"default:50" json:"credit_score"`
	TotalInvoices  int            `gorm:"default:0" json:"total_invoices"`
	OnTimePayments int            `gorm:"default:0" json:"on_time_payments"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

// ClampScore bounds a recomputed aggregate score into the valid range.
func ClampScore(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
