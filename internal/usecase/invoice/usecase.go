package invoice

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainInvoice "invoicelane-backend/internal/domain/invoice"
	domainUser "invoicelane-backend/internal/domain/user"
	"invoicelane-backend/internal/ledger"
	"invoicelane-backend/pkg/id"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotOwner     = errors.New("invoice does not belong to seller")
)

type Usecase struct {
	repo    domainInvoice.Repository
	users   domainUser.Repository
	gateway ledger.Gateway
	issuer  ledger.Credential
}

func NewUsecase(repo domainInvoice.Repository, users domainUser.Repository, gateway ledger.Gateway, issuerSeed string) *Usecase {
	return &Usecase{repo: repo, users: users, gateway: gateway, issuer: ledger.Credential{Seed: issuerSeed}}
}

type CreateInput struct {
	InvoiceNumber string
	SellerID      string
	BuyerName     string
	BuyerDID      string
	Amount        decimal.Decimal
	DueDate       time.Time
	DiscountRate  decimal.Decimal
	DocumentHash  string
	// Optional; the platform issuer credential is used when empty.
	IssuerSeed string
}

func (in *CreateInput) validate() error {
	if in.InvoiceNumber == "" || in.SellerID == "" || in.BuyerName == "" {
		return fmt.Errorf("%w: missing required fields", ErrInvalidInput)
	}
	if in.Amount.Sign() <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if in.DiscountRate.IsNegative() || in.DiscountRate.GreaterThan(decimal.NewFromInt(20)) {
		return fmt.Errorf("%w: discount rate must be between 0 and 20", ErrInvalidInput)
	}
	if !in.DueDate.After(time.Now()) {
		return fmt.Errorf("%w: due date must be in the future", ErrInvalidInput)
	}
	return nil
}

// Create inserts the invoice as pending, mints its document token, then
// flips it to listed. The selling price is frozen here and never
// recomputed. A mint failure leaves the pending row behind; Relist
// retries the mint without creating a duplicate.
func (u *Usecase) Create(ctx context.Context, in CreateInput) (*domainInvoice.Invoice, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	seller, err := u.users.GetByUserID(ctx, in.SellerID)
	if err != nil {
		return nil, err
	}

	inv := &domainInvoice.Invoice{
		InvoiceID:     id.NewID32(),
		InvoiceNumber: in.InvoiceNumber,
		SellerID:      seller.UserID,
		BuyerName:     in.BuyerName,
		BuyerDID:      in.BuyerDID,
		Amount:        in.Amount,
		DueDate:       in.DueDate.UTC(),
		DiscountRate:  in.DiscountRate,
		SellingPrice:  domainInvoice.SellingPriceFor(in.Amount, in.DiscountRate),
		Status:        domainInvoice.StatusPending,
		DocumentHash:  in.DocumentHash,
	}
	if err := u.repo.Create(ctx, inv); err != nil {
		return nil, err
	}

	if err := u.mintAndList(ctx, inv, seller.DID, in.IssuerSeed); err != nil {
		return nil, err
	}
	return u.repo.GetByInvoiceID(ctx, inv.InvoiceID)
}

// Relist retries the mint for an invoice stuck in pending. Only the
// owning seller can retry.
func (u *Usecase) Relist(ctx context.Context, invoiceID, sellerID, issuerSeed string) (*domainInvoice.Invoice, error) {
	inv, err := u.repo.GetByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.SellerID != sellerID {
		return nil, ErrNotOwner
	}
	if inv.Status != domainInvoice.StatusPending {
		return nil, domainInvoice.NewInvalidTransition(inv.Status, domainInvoice.StatusListed)
	}
	seller, err := u.users.GetByUserID(ctx, inv.SellerID)
	if err != nil {
		return nil, err
	}
	if err := u.mintAndList(ctx, inv, seller.DID, issuerSeed); err != nil {
		return nil, err
	}
	return u.repo.GetByInvoiceID(ctx, invoiceID)
}

func (u *Usecase) mintAndList(ctx context.Context, inv *domainInvoice.Invoice, sellerDID, issuerSeed string) error {
	issuer := u.issuer
	if issuerSeed != "" {
		issuer = ledger.Credential{Seed: issuerSeed}
	}
	mint, err := u.gateway.MintDocumentToken(ctx, issuer, ledger.DocumentMeta{
		InvoiceNumber: inv.InvoiceNumber,
		Amount:        inv.Amount.String(),
		DueDate:       inv.DueDate,
		SellerDID:     sellerDID,
		BuyerName:     inv.BuyerName,
		DocumentHash:  inv.DocumentHash,
	})
	if err != nil {
		return fmt.Errorf("mint document token: %w", err)
	}
	return u.repo.MarkListed(ctx, inv.InvoiceID, mint.TokenID, mint.TxHash)
}

func (u *Usecase) Get(ctx context.Context, invoiceID string) (*domainInvoice.Detail, error) {
	return u.repo.GetDetail(ctx, invoiceID)
}

func (u *Usecase) ListBySeller(ctx context.Context, sellerID string, status domainInvoice.Status) ([]domainInvoice.Invoice, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	return u.repo.ListBySeller(ctx, sellerID, status)
}

func (u *Usecase) SellerStats(ctx context.Context, sellerID string) (*domainInvoice.SellerStats, error) {
	return u.repo.SellerStats(ctx, sellerID)
}

// Withdraw takes a listed invoice off the marketplace. The flip is
// guarded, so a purchase that wins the race first makes this fail.
func (u *Usecase) Withdraw(ctx context.Context, invoiceID, sellerID string) (*domainInvoice.Invoice, error) {
	inv, err := u.repo.GetByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.SellerID != sellerID {
		return nil, ErrNotOwner
	}
	if inv.Status != domainInvoice.StatusListed {
		return nil, domainInvoice.NewInvalidTransition(inv.Status, domainInvoice.StatusDefaulted)
	}
	if err := u.repo.UpdateStatus(ctx, invoiceID, domainInvoice.StatusListed, domainInvoice.StatusDefaulted); err != nil {
		return nil, err
	}
	return u.repo.GetByInvoiceID(ctx, invoiceID)
}
