package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"invoicelane-backend/internal/ledger"
)

type LedgerHandler struct{ gateway ledger.Gateway }

func NewLedgerHandler(gateway ledger.Gateway) *LedgerHandler {
	return &LedgerHandler{gateway: gateway}
}

func (h *LedgerHandler) Balance(c echo.Context) error {
	address := c.Param("address")
	if address == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing address path param"})
	}
	balance, err := h.gateway.Balance(c.Request().Context(), address)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"address": address,
		"balance": balance,
	})
}
