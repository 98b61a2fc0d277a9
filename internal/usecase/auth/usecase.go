package auth

import (
	"context"
	"errors"
	"strings"

	domainCredit "invoicelane-backend/internal/domain/credit"
	domainUser "invoicelane-backend/internal/domain/user"
	"invoicelane-backend/pkg/id"
)

var ErrInvalidInput = errors.New("invalid input")

type Usecase struct {
	users     domainUser.Repository
	credits   domainCredit.Repository
	tokens    *TokenManager
	didMethod string
}

func NewUsecase(users domainUser.Repository, credits domainCredit.Repository, tokens *TokenManager, didMethod string) *Usecase {
	return &Usecase{users: users, credits: credits, tokens: tokens, didMethod: didMethod}
}

// Connect looks up the wallet's account or creates one on first
// connection, then issues a session token. Accounts are never deleted.
func (u *Usecase) Connect(ctx context.Context, in ConnectInput) (*SessionDTO, error) {
	wallet := strings.TrimSpace(in.WalletAddress)
	if wallet == "" || !in.Role.Valid() {
		return nil, ErrInvalidInput
	}

	usr, err := u.users.GetByWalletAddress(ctx, wallet)
	switch {
	case err == nil:
	case errors.Is(err, domainUser.ErrNotFound):
		usr = &domainUser.User{
			UserID:        id.NewID32(),
			WalletAddress: wallet,
			Role:          in.Role,
			DID:           FormatDID(u.didMethod, wallet),
			Email:         in.Email,
			CompanyName:   in.CompanyName,
			CreditScore:   domainUser.BaselineScore,
		}
		if err := u.users.Create(ctx, usr); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	token, err := u.tokens.Generate(usr)
	if err != nil {
		return nil, err
	}
	return &SessionDTO{User: usr, Token: token}, nil
}

func (u *Usecase) Profile(ctx context.Context, userID string) (*domainUser.User, error) {
	return u.users.GetByUserID(ctx, userID)
}

func (u *Usecase) SetKYC(ctx context.Context, userID string, verified bool) (*domainUser.User, error) {
	if _, err := u.users.GetByUserID(ctx, userID); err != nil {
		return nil, err
	}
	if err := u.users.SetKYC(ctx, userID, verified); err != nil {
		return nil, err
	}
	return u.users.GetByUserID(ctx, userID)
}

func (u *Usecase) CreditInfo(ctx context.Context, userID string) (*CreditInfoDTO, error) {
	usr, err := u.users.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	history, err := u.credits.ListByUser(ctx, userID, 20)
	if err != nil {
		return nil, err
	}
	return &CreditInfoDTO{
		CreditScore:    usr.CreditScore,
		TotalInvoices:  usr.TotalInvoices,
		OnTimePayments: usr.OnTimePayments,
		History:        history,
	}, nil
}

// RegisterDID rewrites the user's DID from their wallet address. The DID
// is deterministic, so this is only useful after a method change.
func (u *Usecase) RegisterDID(ctx context.Context, userID string) (*domainUser.User, error) {
	usr, err := u.users.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	usr.DID = FormatDID(u.didMethod, usr.WalletAddress)
	if err := u.users.Save(ctx, usr); err != nil {
		return nil, err
	}
	return usr, nil
}

func (u *Usecase) ResolveDID(ctx context.Context, did string) (*domainUser.User, error) {
	return u.users.GetByDID(ctx, did)
}

// VerifyDID proves ownership: the DID must be the deterministic form for
// the wallet, and the signature must recover the wallet's key.
func (u *Usecase) VerifyDID(_ context.Context, in VerifyDIDInput) error {
	if in.DID != FormatDID(u.didMethod, in.WalletAddress) {
		return ErrDIDMismatch
	}
	return VerifyWalletSignature(in.WalletAddress, in.Message, in.Signature)
}
