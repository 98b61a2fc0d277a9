package mysql

import (
	"context"
	"errors"
	"testing"

	userDomain "invoicelane-backend/internal/domain/user"
)

func TestUserCreateAndLookups(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := makeUser("US-1", "rWALLET1")
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID == 0 {
		t.Fatalf("Create did not set auto-increment ID")
	}

	byID, err := repo.GetByUserID(ctx, "US-1")
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if byID.WalletAddress != "rWALLET1" || byID.CreditScore != userDomain.BaselineScore {
		t.Fatalf("unexpected row: %+v", byID)
	}

	byWallet, err := repo.GetByWalletAddress(ctx, "rWALLET1")
	if err != nil {
		t.Fatalf("GetByWalletAddress: %v", err)
	}
	if byWallet.UserID != "US-1" {
		t.Fatalf("wallet lookup returned %s", byWallet.UserID)
	}

	byDID, err := repo.GetByDID(ctx, "did:ledger:rWALLET1")
	if err != nil {
		t.Fatalf("GetByDID: %v", err)
	}
	if byDID.UserID != "US-1" {
		t.Fatalf("DID lookup returned %s", byDID.UserID)
	}

	if _, err := repo.GetByWalletAddress(ctx, "rUNKNOWN"); !errors.Is(err, userDomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserSetKYC(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, makeUser("US-KYC", "rKYC")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.SetKYC(ctx, "US-KYC", true); err != nil {
		t.Fatalf("SetKYC: %v", err)
	}
	got, err := repo.GetByUserID(ctx, "US-KYC")
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if !got.KYCVerified {
		t.Fatalf("kyc flag not persisted")
	}
}

func TestUserSetCreditStanding(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, makeUser("US-SCORE", "rSCORE")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.SetCreditStanding(ctx, "US-SCORE", 60, 3, 2); err != nil {
		t.Fatalf("SetCreditStanding: %v", err)
	}
	got, err := repo.GetByUserID(ctx, "US-SCORE")
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if got.CreditScore != 60 || got.TotalInvoices != 3 || got.OnTimePayments != 2 {
		t.Fatalf("standing not persisted: %+v", got)
	}
}
