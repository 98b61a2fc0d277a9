package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	domainInvoice "invoicelane-backend/internal/domain/invoice"
	"invoicelane-backend/internal/usecase/marketplace"
	"invoicelane-backend/internal/usecase/settlement"
)

type MarketplaceHandler struct {
	uc         *marketplace.Usecase
	settlement *settlement.Usecase
}

func NewMarketplaceHandler(uc *marketplace.Usecase, st *settlement.Usecase) *MarketplaceHandler {
	return &MarketplaceHandler{uc: uc, settlement: st}
}

func parseFilter(c echo.Context) domainInvoice.Filter {
	var f domainInvoice.Filter
	if raw := c.QueryParam("min_amount"); raw != "" {
		if d, err := decimal.NewFromString(raw); err == nil {
			f.MinAmount = &d
		}
	}
	if raw := c.QueryParam("max_amount"); raw != "" {
		if d, err := decimal.NewFromString(raw); err == nil {
			f.MaxAmount = &d
		}
	}
	if raw := c.QueryParam("min_credit_score"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			f.MinCreditScore = &n
		}
	}
	f.SortBy = c.QueryParam("sort_by")
	return f
}

func (h *MarketplaceHandler) List(c echo.Context) error {
	rows, err := h.uc.List(c.Request().Context(), parseFilter(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"invoices": rows, "count": len(rows)})
}

type purchaseReq struct {
	InvoiceID    string `json:"invoice_id"    validate:"required,hex32"`
	InvestorID   string `json:"investor_id"   validate:"required,hex32"`
	InvestorSeed string `json:"investor_seed" validate:"required"`
}

func (h *MarketplaceHandler) Purchase(c echo.Context) error {
	var req purchaseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.settlement.Purchase(c.Request().Context(), settlement.PurchaseInput{
		InvoiceID:    req.InvoiceID,
		InvestorID:   req.InvestorID,
		InvestorSeed: req.InvestorSeed,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *MarketplaceHandler) Stats(c echo.Context) error {
	stats, err := h.uc.Stats(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *MarketplaceHandler) Portfolio(c echo.Context) error {
	dto, err := h.uc.Portfolio(c.Request().Context(), c.Param("investor_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
