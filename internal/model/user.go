package model

import (
	"encoding/json"
	"time"
)

// User is a borrower record managed from the admin console.
type User struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Phone          string          `json:"phone"`
	IDNumber       string          `json:"id_number"`
	LoanNumber     string          `json:"loan_number"`
	BankCard       string          `json:"bank_card"`
	Amount         float64         `json:"amount"`
	LoanDate       *time.Time      `json:"loan_date,omitempty"`
	OverdueDays    int             `json:"overdue_days"`
	OverdueAmount  float64         `json:"overdue_amount"`
	AmountDue      float64         `json:"amount_due"`
	IsSettled      bool            `json:"is_settled"`
	IsInterestFree bool            `json:"is_interest_free"`
	PaymentMethod  json.RawMessage `json:"payment_method"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CreateUserRequest is the admin payload for a new borrower.
type CreateUserRequest struct {
	Name           string          `json:"name" binding:"required"`
	Phone          string          `json:"phone" binding:"omitempty,mobile"`
	IDNumber       string          `json:"id_number"`
	LoanNumber     string          `json:"loan_number"`
	BankCard       string          `json:"bank_card"`
	Amount         float64         `json:"amount" binding:"gte=0"`
	LoanDate       string          `json:"loan_date" binding:"omitempty,datetime=2006-01-02"`
	OverdueDays    int             `json:"overdue_days" binding:"gte=0"`
	OverdueAmount  float64         `json:"overdue_amount" binding:"gte=0"`
	AmountDue      float64         `json:"amount_due" binding:"gte=0"`
	IsSettled      bool            `json:"is_settled"`
	IsInterestFree bool            `json:"is_interest_free"`
	PaymentMethod  json.RawMessage `json:"payment_method"`
}

// UpdateUserRequest carries a partial update; nil fields are left untouched.
type UpdateUserRequest struct {
	Name           *string         `json:"name,omitempty"`
	Phone          *string         `json:"phone,omitempty" binding:"omitempty,mobile"`
	IDNumber       *string         `json:"id_number,omitempty"`
	LoanNumber     *string         `json:"loan_number,omitempty"`
	BankCard       *string         `json:"bank_card,omitempty"`
	Amount         *float64        `json:"amount,omitempty" binding:"omitempty,gte=0"`
	LoanDate       *string         `json:"loan_date,omitempty" binding:"omitempty,datetime=2006-01-02"`
	OverdueDays    *int            `json:"overdue_days,omitempty" binding:"omitempty,gte=0"`
	OverdueAmount  *float64        `json:"overdue_amount,omitempty" binding:"omitempty,gte=0"`
	AmountDue      *float64        `json:"amount_due,omitempty" binding:"omitempty,gte=0"`
	IsSettled      *bool           `json:"is_settled,omitempty"`
	IsInterestFree *bool           `json:"is_interest_free,omitempty"`
	PaymentMethod  json.RawMessage `json:"payment_method,omitempty"`
}

// Empty reports whether the request changes nothing.
func (r UpdateUserRequest) Empty() bool {
	return r.Name == nil && r.Phone == nil && r.IDNumber == nil && r.LoanNumber == nil &&
		r.BankCard == nil && r.Amount == nil && r.LoanDate == nil && r.OverdueDays == nil &&
		r.OverdueAmount == nil && r.AmountDue == nil && r.IsSettled == nil &&
		r.IsInterestFree == nil && len(r.PaymentMethod) == 0
}

// UserFilter contains filter parameters for admin user listings
type UserFilter struct {
	Search    string
	IsSettled *bool
	Pagination
}

// UserStats is the admin dashboard summary.
type UserStats struct {
	TotalUsers         int64   `json:"total_users"`
	SettledUsers       int64   `json:"settled_users"`
	OverdueUsers       int64   `json:"overdue_users"`
	InterestFreeUsers  int64   `json:"interest_free_users"`
	TotalAmount        float64 `json:"total_amount"`
	TotalAmountDue     float64 `json:"total_amount_due"`
	TotalOverdueAmount float64 `json:"total_overdue_amount"`
	ActiveCodes        int64   `json:"active_codes"`
}

// ImportResult summarises a CSV import.
type ImportResult struct {
	Imported  int      `json:"imported"`
	Skipped   int      `json:"skipped"`
	Generated int      `json:"generated"`
	Errors    []string `json:"errors,omitempty"`
}
