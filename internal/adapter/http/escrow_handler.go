package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	domainEscrow "invoicelane-backend/internal/domain/escrow"
)

type EscrowHandler struct{ escrows domainEscrow.Repository }

func NewEscrowHandler(escrows domainEscrow.Repository) *EscrowHandler {
	return &EscrowHandler{escrows: escrows}
}

func (h *EscrowHandler) ListByInvoice(c echo.Context) error {
	list, err := h.escrows.ListByInvoice(c.Request().Context(), c.Param("invoice_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"escrows": list})
}

func (h *EscrowHandler) ListByInvestor(c echo.Context) error {
	status := domainEscrow.Status(c.QueryParam("status"))
	if status != "" && !status.Valid() {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown escrow status"})
	}
	list, err := h.escrows.ListByInvestor(c.Request().Context(), c.Param("investor_id"), status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"escrows": list})
}

func (h *EscrowHandler) InvestorStats(c echo.Context) error {
	stats, err := h.escrows.InvestorStats(c.Request().Context(), c.Param("investor_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}
