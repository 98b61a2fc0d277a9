package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	domainEscrow "invoicelane-backend/internal/domain/escrow"
	domainInvoice "invoicelane-backend/internal/domain/invoice"
	domainSettlement "invoicelane-backend/internal/domain/settlement"
	domainUser "invoicelane-backend/internal/domain/user"
	"invoicelane-backend/internal/ledger"
	authUC "invoicelane-backend/internal/usecase/auth"
	invoiceUC "invoicelane-backend/internal/usecase/invoice"
	settlementUC "invoicelane-backend/internal/usecase/settlement"
)

// writeError maps domain and ledger errors onto HTTP responses. Partial
// settlements carry an explicit reconciliation flag so callers never
// mistake them for retryable failures.
func writeError(c echo.Context, err error) error {
	var pse *settlementUC.PartialSettlementError
	if errors.As(err, &pse) {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:                  pse.Error(),
			ReconciliationRequired: true,
			SettlementID:           pse.SettlementID,
		})
	}

	var ite *domainInvoice.InvalidTransitionError
	switch {
	case errors.Is(err, authUC.ErrInvalidInput),
		errors.Is(err, invoiceUC.ErrInvalidInput),
		errors.Is(err, settlementUC.ErrInvalidInput),
		errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrInvalidDestination),
		errors.Is(err, ledger.ErrFinishAfterPast),
		errors.Is(err, authUC.ErrSignatureInvalid):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	case errors.Is(err, authUC.ErrDIDMismatch),
		errors.Is(err, authUC.ErrSignatureMismatch):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})

	case errors.Is(err, invoiceUC.ErrNotOwner):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})

	case errors.Is(err, domainUser.ErrNotFound),
		errors.Is(err, domainInvoice.ErrNotFound),
		errors.Is(err, domainEscrow.ErrNoActiveEscrow),
		errors.Is(err, domainSettlement.ErrNotFound),
		errors.Is(err, ledger.ErrEscrowNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})

	case errors.As(err, &ite),
		errors.Is(err, domainInvoice.ErrAlreadyFunded),
		errors.Is(err, domainInvoice.ErrStatusConflict),
		errors.Is(err, domainEscrow.ErrStatusConflict),
		errors.Is(err, domainEscrow.ErrActiveExists),
		errors.Is(err, settlementUC.ErrReconciliationPending),
		errors.Is(err, ledger.ErrEscrowNotMature),
		errors.Is(err, ledger.ErrEscrowNotExpired):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})

	case errors.Is(err, ledger.ErrNetwork),
		errors.Is(err, ledger.ErrSubmission),
		errors.Is(err, ledger.ErrOutcomeUnknown):
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
}
