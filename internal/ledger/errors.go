package ledger

import "errors"

// Gateway error taxonomy. ErrNetwork means the submission never reached
// the network (nothing happened, safe to retry before any other side
// effect). ErrOutcomeUnknown means the submission may have reached the
// network but the response was lost — the transaction may have executed,
// so callers must not replay it. Every other sentinel means the network
// saw and rejected the transaction.
var (
	ErrNetwork            = errors.New("ledger network unreachable")
	ErrOutcomeUnknown     = errors.New("ledger outcome unknown")
	ErrSubmission         = errors.New("ledger rejected transaction")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInvalidDestination = errors.New("invalid destination account")
	ErrEscrowNotFound     = errors.New("escrow not found on ledger")
	ErrEscrowNotMature    = errors.New("escrow not yet past finish-after")
	ErrEscrowNotExpired   = errors.New("escrow not yet past cancel-after")
	ErrFinishAfterPast    = errors.New("finish-after must be in the future")
)
