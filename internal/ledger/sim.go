package ledger

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"invoicelane-backend/pkg/id"

	"github.com/shopspring/decimal"
)

// SimGateway is the simulated ledger: every operation returns a
// shape-compatible synthetic result and touches no network. Escrow
// sequences are tracked in memory so finish/cancel of an unknown sequence
// still fails the way the real network would.
type SimGateway struct {
	nextSeq atomic.Uint64

	mu      sync.Mutex
	escrows map[uint64]simEscrow
}

type simEscrow struct {
	finishAfter time.Time
	cancelAfter time.Time
}

var _ Gateway = (*SimGateway)(nil)

func NewSimGateway() *SimGateway {
	slog.Warn("ledger gateway in simulated mode, transactions are not submitted")
	return &SimGateway{escrows: map[uint64]simEscrow{}}
}

func (g *SimGateway) MintDocumentToken(_ context.Context, _ Credential, _ DocumentMeta) (*MintResult, error) {
	return &MintResult{
		TxHash:  id.NewHex(32),
		TokenID: id.NewHex(32),
	}, nil
}

func (g *SimGateway) TransferValue(_ context.Context, _ Credential, destination string, amount decimal.Decimal) (*TransferResult, error) {
	if destination == "" {
		return nil, ErrInvalidDestination
	}
	if amount.Sign() <= 0 {
		return nil, ErrSubmission
	}
	return &TransferResult{TxHash: id.NewHex(32)}, nil
}

func (g *SimGateway) CreateEscrow(_ context.Context, _ Credential, destination string, amount decimal.Decimal, finishAfter time.Time) (*EscrowResult, error) {
	if destination == "" {
		return nil, ErrInvalidDestination
	}
	if amount.Sign() <= 0 {
		return nil, ErrSubmission
	}
	if !finishAfter.After(time.Now()) {
		return nil, ErrFinishAfterPast
	}
	seq := g.nextSeq.Add(1)
	cancelAfter := finishAfter.Add(EscrowGrace)
	g.mu.Lock()
	g.escrows[seq] = simEscrow{finishAfter: finishAfter, cancelAfter: cancelAfter}
	g.mu.Unlock()
	return &EscrowResult{TxHash: id.NewHex(32), Sequence: seq, CancelAfter: cancelAfter}, nil
}

func (g *SimGateway) FinishEscrow(_ context.Context, _ Credential, _ string, sequence uint64) (*TransferResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.escrows[sequence]; !ok {
		return nil, ErrEscrowNotFound
	}
	delete(g.escrows, sequence)
	return &TransferResult{TxHash: id.NewHex(32)}, nil
}

func (g *SimGateway) CancelEscrow(_ context.Context, _ Credential, _ string, sequence uint64) (*TransferResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	e, ok := g.escrows[sequence]
	if !ok {
		return nil, ErrEscrowNotFound
	}
	if time.Now().Before(e.cancelAfter) {
		return nil, ErrEscrowNotExpired
	}
	delete(g.escrows, sequence)
	return &TransferResult{TxHash: id.NewHex(32)}, nil
}

func (g *SimGateway) Balance(_ context.Context, _ string) (decimal.Decimal, error) {
	return decimal.NewFromInt(1_000_000), nil
}
