package auth

import (
	domainCredit "invoicelane-backend/internal/domain/credit"
	domainUser "invoicelane-backend/internal/domain/user"
)

type ConnectInput struct {
	WalletAddress string
	Role          domainUser.Role
	Email         string
	CompanyName   string
}

type SessionDTO struct {
	User  *domainUser.User `json:"user"`
	Token string           `json:"token"`
}

type CreditInfoDTO struct {
	CreditScore    int                  `json:"credit_score"`
	TotalInvoices  int                  `json:"total_invoices"`
	OnTimePayments int                  `json:"on_time_payments"`
	History        []domainCredit.Entry `json:"history"`
}

type VerifyDIDInput struct {
	DID           string
	WalletAddress string
	Message       string
	Signature     string
}
