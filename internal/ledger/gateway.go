// Package ledger adapts abstract settlement operations onto the
// distributed-ledger network. The gateway is stateless beyond its client
// handle and provides no deduplication: callers that need idempotency
// must track the transaction hashes they submit.
package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// EscrowGrace bounds how long funds stay locked if an escrow is never
// finished: cancellation becomes possible at finishAfter + EscrowGrace.
const EscrowGrace = 30 * 24 * time.Hour

// Credential signs outbound transactions. Address may be empty when it
// can be derived from the seed server-side.
type Credential struct {
	Seed    string
	Address string
}

// DocumentMeta describes the invoice a document token attests to.
type DocumentMeta struct {
	InvoiceNumber string    `json:"invoice_number"`
	Amount        string    `json:"amount"`
	DueDate       time.Time `json:"due_date"`
	SellerDID     string    `json:"seller_did"`
	BuyerName     string    `json:"buyer_name"`
	DocumentHash  string    `json:"document_hash"`
}

type MintResult struct {
	TxHash  string
	TokenID string
}

type TransferResult struct {
	TxHash string
}

type EscrowResult struct {
	TxHash      string
	Sequence    uint64
	CancelAfter time.Time
}

// Gateway is the settlement-network contract. Implementations either
// submit real transactions or, in simulated mode, return shape-compatible
// synthetic results with no side effects.
type Gateway interface {
	MintDocumentToken(ctx context.Context, issuer Credential, meta DocumentMeta) (*MintResult, error)
	TransferValue(ctx context.Context, sender Credential, destination string, amount decimal.Decimal) (*TransferResult, error)
	CreateEscrow(ctx context.Context, sender Credential, destination string, amount decimal.Decimal, finishAfter time.Time) (*EscrowResult, error)
	FinishEscrow(ctx context.Context, finisher Credential, owner string, sequence uint64) (*TransferResult, error)
	CancelEscrow(ctx context.Context, canceller Credential, owner string, sequence uint64) (*TransferResult, error)
	Balance(ctx context.Context, address string) (decimal.Decimal, error)
}
