package model

import "encoding/json"

const (
	LoanStatusOverdue = "已逾期"
	LoanStatusSettled = "已结清"
	LoanStatusNormal  = "正常"

	DefaultInterestRate = "10.88%"
	DefaultCycle        = "随借随还"
)

// RepaymentView is the borrower-facing summary of a loan. Money values are
// pre-formatted with two decimals.
type RepaymentView struct {
	UserID     int64  `json:"user_id"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	IDNumber   string `json:"id_number"`
	LoanNumber string `json:"loan_number"`
	BankCard   string `json:"bank_card"`

	LoanAmount     string          `json:"loanAmount"`
	PaidAmount     string          `json:"paidAmount"`
	InterestRate   string          `json:"interestRate"`
	LoanDate       string          `json:"loanDate"`
	Cycle          string          `json:"cycle"`
	DueDate        string          `json:"dueDate"`
	TotalInterest  string          `json:"totalInterest"`
	Status         string          `json:"status"`
	OverdueAmount  string          `json:"overdueAmount"`
	OverdueDays    int             `json:"overdueDays"`
	AmountDue      string          `json:"amount_due"`
	TotalRepayment string          `json:"totalRepayment"`
	IsSettled      bool            `json:"is_settled"`
	IsInterestFree bool            `json:"is_interest_free"`
	PaymentMethod  json.RawMessage `json:"payment_method"`
}
