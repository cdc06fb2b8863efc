package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"loan_portal/internal/logger"
	"loan_portal/internal/model"
	"loan_portal/internal/repository"
	"loan_portal/internal/utils"
)

// csvColumns lists the import/export columns as (Chinese header, field key).
var csvColumns = [][2]string{
	{"姓名", "name"},
	{"手机号码", "phone"},
	{"身份证号码", "id_number"},
	{"放款编号", "loan_number"},
	{"银行卡号", "bank_card"},
	{"金额", "amount"},
	{"放款时间", "loan_date"},
	{"逾期天数", "overdue_days"},
	{"逾期金额", "overdue_amount"},
	{"应还金额", "amount_due"},
	{"是否结清", "is_settled"},
	{"是否免息", "is_interest_free"},
}

const utf8BOM = "\ufeff"

// UserService manages borrower records
type UserService interface {
	List(ctx context.Context, filter model.UserFilter) (model.PageResult[model.User], error)
	Get(ctx context.Context, id int64) (*model.User, error)
	GetByPhone(ctx context.Context, phone string) (*model.User, error)
	Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error)
	Update(ctx context.Context, id int64, req model.UpdateUserRequest) (*model.User, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*model.UserStats, error)
	Repayment(ctx context.Context, phone string) (*model.RepaymentView, error)
	ImportCSV(ctx context.Context, r io.Reader) (*model.ImportResult, error)
	ExportCSV(ctx context.Context, filter model.UserFilter, masked bool) (*bytes.Buffer, error)
	ImportTemplate() (*bytes.Buffer, error)
}

type userService struct {
	repo  repository.UserRepository
	codes CodeService
	log   *logger.Logger
}

// NewUserService creates a new UserService
func NewUserService(repo repository.UserRepository, codes CodeService, log *logger.Logger) UserService {
	return &userService{repo: repo, codes: codes, log: log.With("service", "UserService")}
}

func parseLoanDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, ErrInvalidLoanDate
	}
	return &t, nil
}

func (s *userService) List(ctx context.Context, filter model.UserFilter) (model.PageResult[model.User], error) {
	filter.Normalize()
	filter.Search = strings.TrimSpace(filter.Search)
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return model.PageResult[model.User]{}, fmt.Errorf("failed to list users: %w", err)
	}
	return model.NewPageResult(users, total, filter.Pagination), nil
}

func (s *userService) Get(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *userService) GetByPhone(ctx context.Context, phone string) (*model.User, error) {
	user, err := s.repo.FindByPhone(ctx, strings.TrimSpace(phone))
	if err != nil {
		return nil, fmt.Errorf("failed to find user by phone: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Create stores a borrower and, when a phone is present, issues a permanent
// verification code for it.
func (s *userService) Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	phone := strings.TrimSpace(req.Phone)
	if phone != "" && !utils.IsValidPhone(phone) {
		return nil, ErrInvalidPhone
	}
	loanDate, err := parseLoanDate(req.LoanDate)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:           strings.TrimSpace(req.Name),
		Phone:          phone,
		IDNumber:       strings.TrimSpace(req.IDNumber),
		LoanNumber:     strings.TrimSpace(req.LoanNumber),
		BankCard:       strings.TrimSpace(req.BankCard),
		Amount:         req.Amount,
		LoanDate:       loanDate,
		OverdueDays:    req.OverdueDays,
		OverdueAmount:  req.OverdueAmount,
		AmountDue:      req.AmountDue,
		IsSettled:      req.IsSettled,
		IsInterestFree: req.IsInterestFree,
		PaymentMethod:  req.PaymentMethod,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if _, err := s.codes.IssuePermanent(ctx, user); err != nil {
		// The borrower row is already committed; the admin can regenerate.
		s.log.Error("failed to issue code for new user", "user_id", user.ID, "error", err)
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, id int64, req model.UpdateUserRequest) (*model.User, error) {
	if req.Empty() {
		return nil, ErrNothingToUpdate
	}
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		if phone != "" && !utils.IsValidPhone(phone) {
			return nil, ErrInvalidPhone
		}
		user.Phone = phone
	}
	if req.IDNumber != nil {
		user.IDNumber = strings.TrimSpace(*req.IDNumber)
	}
	if req.LoanNumber != nil {
		user.LoanNumber = strings.TrimSpace(*req.LoanNumber)
	}
	if req.BankCard != nil {
		user.BankCard = strings.TrimSpace(*req.BankCard)
	}
	if req.Amount != nil {
		user.Amount = *req.Amount
	}
	if req.LoanDate != nil {
		loanDate, err := parseLoanDate(*req.LoanDate)
		if err != nil {
			return nil, err
		}
		user.LoanDate = loanDate
	}
	if req.OverdueDays != nil {
		user.OverdueDays = *req.OverdueDays
	}
	if req.OverdueAmount != nil {
		user.OverdueAmount = *req.OverdueAmount
	}
	if req.AmountDue != nil {
		user.AmountDue = *req.AmountDue
	}
	if req.IsSettled != nil {
		user.IsSettled = *req.IsSettled
	}
	if req.IsInterestFree != nil {
		user.IsInterestFree = *req.IsInterestFree
	}
	if len(req.PaymentMethod) > 0 {
		user.PaymentMethod = req.PaymentMethod
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if !deleted {
		return ErrUserNotFound
	}
	return nil
}

func (s *userService) Stats(ctx context.Context) (*model.UserStats, error) {
	stats, err := s.repo.GetStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}
	return stats, nil
}

// Repayment returns the loan summary for the borrower owning phone.
func (s *userService) Repayment(ctx context.Context, phone string) (*model.RepaymentView, error) {
	user, err := s.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	return BuildRepaymentView(user), nil
}

func parseBool(s string) bool {
	s = strings.TrimSpace(s)
	return s == "是" || strings.EqualFold(s, "true")
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

func parseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// ImportCSV creates one borrower per data row. Headers may be Chinese or the
// English field names. Rows that fail are counted and reported; afterwards
// codes are generated for any borrower still lacking one.
func (s *userService) ImportCSV(ctx context.Context, r io.Reader) (*model.ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%w: 至少需要表头和数据行", ErrInvalidCSV)
	}

	index := make(map[string]int)
	for i, h := range records[0] {
		h = strings.TrimSpace(strings.TrimPrefix(h, utf8BOM))
		index[h] = i
	}
	field := func(row []string, zh, en string) string {
		for _, h := range []string{zh, en} {
			if i, ok := index[h]; ok && i < len(row) {
				if v := strings.TrimSpace(row[i]); v != "" {
					return v
				}
			}
		}
		return ""
	}

	result := &model.ImportResult{}
	for n, row := range records[1:] {
		if len(strings.TrimSpace(strings.Join(row, ""))) == 0 {
			continue
		}
		req := model.CreateUserRequest{
			Name:           field(row, "姓名", "name"),
			Phone:          field(row, "手机号码", "phone"),
			IDNumber:       field(row, "身份证号码", "id_number"),
			LoanNumber:     field(row, "放款编号", "loan_number"),
			BankCard:       field(row, "银行卡号", "bank_card"),
			Amount:         parseFloat(field(row, "金额", "amount")),
			LoanDate:       field(row, "放款时间", "loan_date"),
			OverdueDays:    parseInt(field(row, "逾期天数", "overdue_days")),
			OverdueAmount:  parseFloat(field(row, "逾期金额", "overdue_amount")),
			AmountDue:      parseFloat(field(row, "应还金额", "amount_due")),
			IsSettled:      parseBool(field(row, "是否结清", "is_settled")),
			IsInterestFree: parseBool(field(row, "是否免息", "is_interest_free")),
		}
		if _, err := s.Create(ctx, req); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("第%d行: %v", n+2, err))
			continue
		}
		result.Imported++
	}

	generated, err := s.codes.GenerateForUsersLacking(ctx)
	if err != nil {
		s.log.Error("failed to generate codes after import", "error", err)
	} else {
		result.Generated = generated
	}
	s.log.Info("users imported", "imported", result.Imported, "skipped", result.Skipped)
	return result, nil
}

func yesNo(b bool) string {
	if b {
		return "是"
	}
	return "否"
}

func writeCSV(rows [][]string) (*bytes.Buffer, error) {
	buffer := &bytes.Buffer{}
	buffer.WriteString(utf8BOM)
	writer := csv.NewWriter(buffer)
	if err := writer.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to write CSV: %w", err)
	}
	return buffer, nil
}

func csvHeader() []string {
	header := make([]string, len(csvColumns))
	for i, c := range csvColumns {
		header[i] = c[0]
	}
	return header
}

// ExportCSV writes every borrower matching filter in the import format.
// masked hides the middle of names, phones, id numbers and bank cards.
func (s *userService) ExportCSV(ctx context.Context, filter model.UserFilter, masked bool) (*bytes.Buffer, error) {
	filter.Pagination = model.Pagination{}
	users, _, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users for CSV export: %w", err)
	}

	rows := [][]string{csvHeader()}
	for _, u := range users {
		name, phone, idNumber, bankCard := u.Name, u.Phone, u.IDNumber, u.BankCard
		if masked {
			name = utils.MaskName(name)
			phone = utils.MaskPhone(phone)
			idNumber = utils.MaskIDNumber(idNumber)
			bankCard = utils.MaskBankCard(bankCard)
		}
		loanDate := ""
		if u.LoanDate != nil {
			loanDate = u.LoanDate.Format(dateLayout)
		}
		rows = append(rows, []string{
			name, phone, idNumber, u.LoanNumber, bankCard,
			money(u.Amount), loanDate, strconv.Itoa(u.OverdueDays),
			money(u.OverdueAmount), money(u.AmountDue),
			yesNo(u.IsSettled), yesNo(u.IsInterestFree),
		})
	}
	return writeCSV(rows)
}

// ImportTemplate returns a CSV with the header row and one sample row.
func (s *userService) ImportTemplate() (*bytes.Buffer, error) {
	return writeCSV([][]string{
		csvHeader(),
		{"示例", "13800138000", "110101199001011234", "FQ123456789", "6217000010001234567", "10000", "2024-01-01", "0", "0", "10000", "否", "否"},
	})
}
