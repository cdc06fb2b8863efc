package service

import (
	"encoding/json"
	"strconv"
	"time"

	"loan_portal/internal/model"
)

const (
	loanCycleDays  = 150
	interestFactor = 0.1
	// defaultDueDate is shown when a borrower has no loan date on record.
	defaultDueDate = "2024-12-01"
	dateLayout     = "2006-01-02"
)

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// DueDate returns the loan date plus the fixed cycle, formatted as a date.
func DueDate(loanDate *time.Time) string {
	if loanDate == nil || loanDate.IsZero() {
		return defaultDueDate
	}
	return loanDate.AddDate(0, 0, loanCycleDays).Format(dateLayout)
}

// LoanStatus classifies a borrower. Any overdue days or amount wins over
// the settled flag.
func LoanStatus(u *model.User) string {
	switch {
	case u.OverdueDays > 0 || u.OverdueAmount > 0:
		return model.LoanStatusOverdue
	case u.IsSettled:
		return model.LoanStatusSettled
	default:
		return model.LoanStatusNormal
	}
}

// TotalInterest is 10% of the overdue amount when there is one, otherwise
// 10% of the principal.
func TotalInterest(u *model.User) float64 {
	if u.OverdueAmount > 0 {
		return u.OverdueAmount * interestFactor
	}
	return u.Amount * interestFactor
}

// BuildRepaymentView derives the borrower-facing loan summary.
func BuildRepaymentView(u *model.User) *model.RepaymentView {
	interest := TotalInterest(u)
	name := u.Name
	if name == "" {
		name = defaultDisplayName
	}
	loanDate := ""
	if u.LoanDate != nil {
		loanDate = u.LoanDate.Format(dateLayout)
	}
	paymentMethod := u.PaymentMethod
	if len(paymentMethod) == 0 || string(paymentMethod) == "null" {
		paymentMethod = json.RawMessage("[]")
	}

	return &model.RepaymentView{
		UserID:         u.ID,
		Name:           name,
		Phone:          u.Phone,
		IDNumber:       u.IDNumber,
		LoanNumber:     u.LoanNumber,
		BankCard:       u.BankCard,
		LoanAmount:     money(u.Amount),
		PaidAmount:     money(0),
		InterestRate:   model.DefaultInterestRate,
		LoanDate:       loanDate,
		Cycle:          model.DefaultCycle,
		DueDate:        DueDate(u.LoanDate),
		TotalInterest:  money(interest),
		Status:         LoanStatus(u),
		OverdueAmount:  money(u.OverdueAmount),
		OverdueDays:    u.OverdueDays,
		AmountDue:      money(u.AmountDue),
		TotalRepayment: money(u.AmountDue + interest),
		IsSettled:      u.IsSettled,
		IsInterestFree: u.IsInterestFree,
		PaymentMethod:  paymentMethod,
	}
}
