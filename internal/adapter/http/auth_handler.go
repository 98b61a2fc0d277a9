package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	domainUser "invoicelane-backend/internal/domain/user"
	"invoicelane-backend/internal/usecase/auth"
)

type AuthHandler struct{ uc *auth.Usecase }

func NewAuthHandler(uc *auth.Usecase) *AuthHandler { return &AuthHandler{uc: uc} }

type connectReq struct {
	WalletAddress string `json:"wallet_address" validate:"required"`
	Role          string `json:"role"           validate:"required,oneof=seller investor both"`
	Email         string `json:"email"          validate:"omitempty,email"`
	CompanyName   string `json:"company_name"`
}

func (h *AuthHandler) Connect(c echo.Context) error {
	var req connectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Connect(c.Request().Context(), auth.ConnectInput{
		WalletAddress: req.WalletAddress,
		Role:          domainUser.Role(req.Role),
		Email:         req.Email,
		CompanyName:   req.CompanyName,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AuthHandler) Profile(c echo.Context) error {
	usr, err := h.uc.Profile(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, usr)
}

type kycReq struct {
	Verified *bool `json:"verified" validate:"required"`
}

func (h *AuthHandler) SetKYC(c echo.Context) error {
	var req kycReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	usr, err := h.uc.SetKYC(c.Request().Context(), c.Param("user_id"), *req.Verified)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, usr)
}

func (h *AuthHandler) CreditInfo(c echo.Context) error {
	dto, err := h.uc.CreditInfo(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type registerDIDReq struct {
	UserID string `json:"user_id" validate:"required,hex32"`
}

func (h *AuthHandler) RegisterDID(c echo.Context) error {
	var req registerDIDReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	usr, err := h.uc.RegisterDID(c.Request().Context(), req.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"did": usr.DID, "user_id": usr.UserID})
}

func (h *AuthHandler) ResolveDID(c echo.Context) error {
	usr, err := h.uc.ResolveDID(c.Request().Context(), c.Param("did"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, usr)
}

type verifyDIDReq struct {
	DID           string `json:"did"            validate:"required"`
	WalletAddress string `json:"wallet_address" validate:"required"`
	Message       string `json:"message"        validate:"required"`
	Signature     string `json:"signature"      validate:"required"`
}

func (h *AuthHandler) VerifyDID(c echo.Context) error {
	var req verifyDIDReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	err := h.uc.VerifyDID(c.Request().Context(), auth.VerifyDIDInput{
		DID:           req.DID,
		WalletAddress: req.WalletAddress,
		Message:       req.Message,
		Signature:     req.Signature,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"verified": true})
}
