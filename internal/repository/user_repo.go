package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"loan_portal/internal/model"

	"github.com/jackc/pgx/v5"
)

// UserRepository defines operations for borrower data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByPhone(ctx context.Context, phone string) (*model.User, error)
	List(ctx context.Context, filter model.UserFilter) ([]model.User, int64, error)
	ListWithPhone(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id int64) (bool, error)
	GetStats(ctx context.Context) (*model.UserStats, error)
}

type userRepository struct {
	db DBTX
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DBTX) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, name, phone, id_number, loan_number, bank_card, amount, loan_date, overdue_days,
	overdue_amount, amount_due, is_settled, is_interest_free, payment_method, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	var paymentMethod []byte
	err := row.Scan(
		&u.ID, &u.Name, &u.Phone, &u.IDNumber, &u.LoanNumber, &u.BankCard, &u.Amount, &u.LoanDate,
		&u.OverdueDays, &u.OverdueAmount, &u.AmountDue, &u.IsSettled, &u.IsInterestFree,
		&paymentMethod, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.PaymentMethod = json.RawMessage(paymentMethod)
	return u, nil
}

func paymentMethodArg(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return "[]"
	}
	return string(raw)
}

// Create inserts a new borrower
func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	sql := `INSERT INTO users (name, phone, id_number, loan_number, bank_card, amount, loan_date, overdue_days,
            overdue_amount, amount_due, is_settled, is_interest_free, payment_method)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
            RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, sql,
		u.Name, u.Phone, u.IDNumber, u.LoanNumber, u.BankCard, u.Amount, u.LoanDate, u.OverdueDays,
		u.OverdueAmount, u.AmountDue, u.IsSettled, u.IsInterestFree, paymentMethodArg(u.PaymentMethod),
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	if len(u.PaymentMethod) == 0 {
		u.PaymentMethod = json.RawMessage("[]")
	}
	return nil
}

// FindByID retrieves a borrower by ID
func (r *userRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return u, nil
}

// FindByPhone retrieves the most recently created borrower with the phone
func (r *userRepository) FindByPhone(ctx context.Context, phone string) (*model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE phone = $1 ORDER BY created_at DESC, id DESC LIMIT 1`
	u, err := scanUser(r.db.QueryRow(ctx, sql, phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by phone: %w", err)
	}
	return u, nil
}

func userWhere(filter model.UserFilter) *whereBuilder {
	w := &whereBuilder{}
	if filter.Search != "" {
		w.add("(name ILIKE $? OR phone ILIKE $? OR loan_number ILIKE $?)", "%"+filter.Search+"%")
	}
	if filter.IsSettled != nil {
		w.add("is_settled = $?", *filter.IsSettled)
	}
	return w
}

// List returns one page of borrowers, newest first, plus the total match
// count. A zero Limit returns every match.
func (r *userRepository) List(ctx context.Context, filter model.UserFilter) ([]model.User, int64, error) {
	w := userWhere(filter)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`+w.clause(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := `SELECT ` + userColumns + ` FROM users` + w.clause() + ` ORDER BY created_at DESC, id DESC`
	args := w.args
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", w.placeholder(), w.placeholder()+1)
		args = append(args, filter.Limit, filter.Offset())
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users, err := collectUsers(rows)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// ListWithPhone returns every borrower that has a non-empty phone.
func (r *userRepository) ListWithPhone(ctx context.Context) ([]model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE phone IS NOT NULL AND phone <> '' ORDER BY id`
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to query users with phone: %w", err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

func collectUsers(rows pgx.Rows) ([]model.User, error) {
	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

// Update writes every mutable column of the borrower
func (r *userRepository) Update(ctx context.Context, u *model.User) error {
	sql := `UPDATE users
            SET name = $1, phone = $2, id_number = $3, loan_number = $4, bank_card = $5, amount = $6,
                loan_date = $7, overdue_days = $8, overdue_amount = $9, amount_due = $10,
                is_settled = $11, is_interest_free = $12, payment_method = $13, updated_at = NOW()
            WHERE id = $14 RETURNING updated_at`
	err := r.db.QueryRow(ctx, sql,
		u.Name, u.Phone, u.IDNumber, u.LoanNumber, u.BankCard, u.Amount, u.LoanDate, u.OverdueDays,
		u.OverdueAmount, u.AmountDue, u.IsSettled, u.IsInterestFree, paymentMethodArg(u.PaymentMethod), u.ID,
	).Scan(&u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("user not found for update")
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// Delete removes a borrower; it reports whether a row was deleted.
func (r *userRepository) Delete(ctx context.Context, id int64) (bool, error) {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

// GetStats calculates dashboard totals
func (r *userRepository) GetStats(ctx context.Context) (*model.UserStats, error) {
	stats := &model.UserStats{}
	sql := `
        SELECT
            COUNT(*),
            COUNT(*) FILTER (WHERE is_settled),
            COUNT(*) FILTER (WHERE NOT is_settled AND (overdue_days > 0 OR overdue_amount > 0)),
            COUNT(*) FILTER (WHERE is_interest_free),
            COALESCE(SUM(amount), 0)::float8,
            COALESCE(SUM(amount_due), 0)::float8,
            COALESCE(SUM(overdue_amount), 0)::float8,
            (SELECT COUNT(*) FROM verification_codes WHERE used = FALSE AND expires_at > NOW())
        FROM users`
	err := r.db.QueryRow(ctx, sql).Scan(
		&stats.TotalUsers, &stats.SettledUsers, &stats.OverdueUsers, &stats.InterestFreeUsers,
		&stats.TotalAmount, &stats.TotalAmountDue, &stats.TotalOverdueAmount, &stats.ActiveCodes,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}
	return stats, nil
}
