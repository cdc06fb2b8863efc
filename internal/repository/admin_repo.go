package repository

import (
	"context"
	"errors"
	"fmt"

	"loan_portal/internal/model"

	"github.com/jackc/pgx/v5"
)

// AdminRepository defines operations for admin accounts
type AdminRepository interface {
	Create(ctx context.Context, admin *model.AdminUser) error
	FindByUsername(ctx context.Context, username string) (*model.AdminUser, error)
	FindActiveByUsername(ctx context.Context, username string) (*model.AdminUser, error)
	FindActiveByID(ctx context.Context, id int64) (*model.AdminUser, error)
	RecordLogin(ctx context.Context, id int64) (*model.AdminUser, error)
	List(ctx context.Context) ([]model.AdminUser, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type adminRepository struct {
	db DBTX
}

// NewAdminRepository creates a new AdminRepository
func NewAdminRepository(db DBTX) AdminRepository {
	return &adminRepository{db: db}
}

const adminColumns = `id, username, password, status, login_at, login_num, created_at, updated_at`

func scanAdmin(row pgx.Row) (*model.AdminUser, error) {
	a := &model.AdminUser{}
	err := row.Scan(&a.ID, &a.Username, &a.Password, &a.Status, &a.LoginAt, &a.LoginNum, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *adminRepository) findOne(ctx context.Context, what, sql string, arg interface{}) (*model.AdminUser, error) {
	a, err := scanAdmin(r.db.QueryRow(ctx, sql, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find admin by %s: %w", what, err)
	}
	return a, nil
}

// Create inserts a new admin account
func (r *adminRepository) Create(ctx context.Context, a *model.AdminUser) error {
	sql := `INSERT INTO admin_users (username, password, status) VALUES ($1, $2, $3)
            RETURNING id, login_num, created_at, updated_at`
	err := r.db.QueryRow(ctx, sql, a.Username, a.Password, a.Status).Scan(&a.ID, &a.LoginNum, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}

// FindByUsername retrieves an admin by username regardless of status
func (r *adminRepository) FindByUsername(ctx context.Context, username string) (*model.AdminUser, error) {
	return r.findOne(ctx, "username", `SELECT `+adminColumns+` FROM admin_users WHERE username = $1`, username)
}

// FindActiveByUsername retrieves an enabled admin by username
func (r *adminRepository) FindActiveByUsername(ctx context.Context, username string) (*model.AdminUser, error) {
	return r.findOne(ctx, "username",
		fmt.Sprintf(`SELECT %s FROM admin_users WHERE username = $1 AND status = %d`, adminColumns, model.AdminStatusActive), username)
}

// FindActiveByID retrieves an enabled admin by ID
func (r *adminRepository) FindActiveByID(ctx context.Context, id int64) (*model.AdminUser, error) {
	return r.findOne(ctx, "ID",
		fmt.Sprintf(`SELECT %s FROM admin_users WHERE id = $1 AND status = %d`, adminColumns, model.AdminStatusActive), id)
}

// RecordLogin stamps login_at and increments login_num in one statement.
func (r *adminRepository) RecordLogin(ctx context.Context, id int64) (*model.AdminUser, error) {
	sql := `UPDATE admin_users SET login_at = NOW(), login_num = login_num + 1, updated_at = NOW()
            WHERE id = $1 RETURNING ` + adminColumns
	a, err := scanAdmin(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("admin not found for login update")
		}
		return nil, fmt.Errorf("failed to record admin login: %w", err)
	}
	return a, nil
}

// List returns all admins, newest first
func (r *adminRepository) List(ctx context.Context) ([]model.AdminUser, error) {
	rows, err := r.db.Query(ctx, `SELECT `+adminColumns+` FROM admin_users ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query admins: %w", err)
	}
	defer rows.Close()

	var admins []model.AdminUser
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan admin row: %w", err)
		}
		admins = append(admins, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating admin rows: %w", err)
	}
	return admins, nil
}

// Delete removes an admin; it reports whether a row was deleted.
func (r *adminRepository) Delete(ctx context.Context, id int64) (bool, error) {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM admin_users WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete admin: %w", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

func (r *adminRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM admin_users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return n, nil
}
