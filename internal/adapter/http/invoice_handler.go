package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"invoicelane-backend/internal/adapter/middleware"
	domainInvoice "invoicelane-backend/internal/domain/invoice"
	"invoicelane-backend/internal/usecase/invoice"
	"invoicelane-backend/internal/usecase/settlement"
)

type InvoiceHandler struct {
	uc         *invoice.Usecase
	settlement *settlement.Usecase
}

func NewInvoiceHandler(uc *invoice.Usecase, st *settlement.Usecase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, settlement: st}
}

type createInvoiceReq struct {
	InvoiceNumber string `json:"invoice_number" validate:"required"`
	BuyerName     string `json:"buyer_name"     validate:"required"`
	BuyerDID      string `json:"buyer_did"`
	Amount        string `json:"amount"         validate:"required,money"`
	DueDate       string `json:"due_date"       validate:"required,datetime=2006-01-02"`
	DiscountRate  string `json:"discount_rate"  validate:"required,rate"`
	DocumentHash  string `json:"document_hash"`
	IssuerSeed    string `json:"issuer_seed"`
}

// Create lists an invoice for the authenticated seller. The owner is
// taken from the session, never the body.
func (h *InvoiceHandler) Create(c echo.Context) error {
	sellerID := middleware.SessionUserID(c)
	if sellerID == "" {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
	}
	var req createInvoiceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	amount, _ := decimal.NewFromString(req.Amount)
	rate, _ := decimal.NewFromString(req.DiscountRate)
	due, _ := time.Parse("2006-01-02", req.DueDate)

	inv, err := h.uc.Create(c.Request().Context(), invoice.CreateInput{
		InvoiceNumber: req.InvoiceNumber,
		SellerID:      sellerID,
		BuyerName:     req.BuyerName,
		BuyerDID:      req.BuyerDID,
		Amount:        amount,
		DueDate:       due,
		DiscountRate:  rate,
		DocumentHash:  req.DocumentHash,
		IssuerSeed:    req.IssuerSeed,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, inv)
}

func (h *InvoiceHandler) Get(c echo.Context) error {
	detail, err := h.uc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *InvoiceHandler) ListBySeller(c echo.Context) error {
	status := domainInvoice.Status(c.QueryParam("status"))
	list, err := h.uc.ListBySeller(c.Request().Context(), c.Param("seller_id"), status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"invoices": list})
}

func (h *InvoiceHandler) SellerStats(c echo.Context) error {
	stats, err := h.uc.SellerStats(c.Request().Context(), c.Param("seller_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

type confirmPaymentReq struct {
	FinisherSeed string `json:"finisher_seed"`
}

// ConfirmPayment releases the escrow for a funded invoice: buyer paid.
func (h *InvoiceHandler) ConfirmPayment(c echo.Context) error {
	var req confirmPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	dto, err := h.settlement.Release(c.Request().Context(), settlement.ReleaseInput{
		InvoiceID:    c.Param("id"),
		FinisherSeed: req.FinisherSeed,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// Withdraw takes the caller's own listed invoice off the marketplace.
func (h *InvoiceHandler) Withdraw(c echo.Context) error {
	sellerID := middleware.SessionUserID(c)
	if sellerID == "" {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
	}
	inv, err := h.uc.Withdraw(c.Request().Context(), c.Param("id"), sellerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, inv)
}

type relistReq struct {
	IssuerSeed string `json:"issuer_seed"`
}

// Relist retries the document-token mint for the caller's invoice stuck
// in pending after a failed mint.
func (h *InvoiceHandler) Relist(c echo.Context) error {
	sellerID := middleware.SessionUserID(c)
	if sellerID == "" {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
	}
	var req relistReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	inv, err := h.uc.Relist(c.Request().Context(), c.Param("id"), sellerID, req.IssuerSeed)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, inv)
}
