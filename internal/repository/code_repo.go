package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"loan_portal/internal/model"

	"github.com/jackc/pgx/v5"
)

// CodeRepository defines operations for verification codes
type CodeRepository interface {
	Create(ctx context.Context, code *model.VerificationCode) error
	CreateBatch(ctx context.Context, codes []model.VerificationCode) (int64, error)
	ConsumeLatest(ctx context.Context, phone, code string) (*model.VerificationCode, error)
	FindLatestByPhone(ctx context.Context, phone string) (*model.VerificationCode, error)
	Reissue(ctx context.Context, id int64, code string, expiresAt time.Time, userID *int64) (*model.VerificationCode, error)
	List(ctx context.Context, filter model.CodeFilter) ([]model.VerificationCode, int64, error)
	CoveredKeys(ctx context.Context) (map[int64]struct{}, map[string]struct{}, error)
}

// codeBatchRows keeps one INSERT well below the 65535 bind parameter limit
// of the extended protocol.
const codeBatchRows = 1000

type codeRepository struct {
	db        DBTX
	batchRows int
}

// NewCodeRepository creates a new CodeRepository
func NewCodeRepository(db DBTX) CodeRepository {
	return &codeRepository{db: db, batchRows: codeBatchRows}
}

const codeColumns = `id, user_id, phone, code, used, expires_at, created_at, updated_at`

func scanCode(row pgx.Row) (*model.VerificationCode, error) {
	c := &model.VerificationCode{}
	err := row.Scan(&c.ID, &c.UserID, &c.Phone, &c.Code, &c.Used, &c.ExpiresAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Create inserts one unused code
func (r *codeRepository) Create(ctx context.Context, c *model.VerificationCode) error {
	sql := `INSERT INTO verification_codes (user_id, phone, code, used, expires_at)
            VALUES ($1, $2, $3, FALSE, $4) RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, sql, c.UserID, c.Phone, c.Code, c.ExpiresAt).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create verification code: %w", err)
	}
	c.Used = false
	return nil
}

// CreateBatch inserts codes with one multi-row INSERT per chunk of
// batchRows. Chunks already written stay written when a later one fails.
func (r *codeRepository) CreateBatch(ctx context.Context, codes []model.VerificationCode) (int64, error) {
	var total int64
	for start := 0; start < len(codes); start += r.batchRows {
		end := min(start+r.batchRows, len(codes))
		n, err := r.insertChunk(ctx, codes[start:end])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (r *codeRepository) insertChunk(ctx context.Context, codes []model.VerificationCode) (int64, error) {
	var sb strings.Builder
	sb.WriteString(`INSERT INTO verification_codes (user_id, phone, code, used, expires_at) VALUES `)
	args := make([]interface{}, 0, len(codes)*4)
	for i, c := range codes {
		if i > 0 {
			sb.WriteString(", ")
		}
		n := i * 4
		sb.WriteString(fmt.Sprintf("($%d, $%d, $%d, FALSE, $%d)", n+1, n+2, n+3, n+4))
		args = append(args, c.UserID, c.Phone, c.Code, c.ExpiresAt)
	}

	cmdTag, err := r.db.Exec(ctx, sb.String(), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to batch insert verification codes: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}

// ConsumeLatest marks the newest unused, unexpired row matching phone and
// code as used and returns it. The select and the update run as one
// statement so a code can be consumed at most once. Returns nil when
// nothing matched.
func (r *codeRepository) ConsumeLatest(ctx context.Context, phone, code string) (*model.VerificationCode, error) {
	sql := `UPDATE verification_codes SET used = TRUE, updated_at = NOW()
            WHERE id = (
                SELECT id FROM verification_codes
                WHERE phone = $1 AND code = $2 AND used = FALSE AND expires_at > NOW()
                ORDER BY created_at DESC, id DESC
                LIMIT 1
                FOR UPDATE SKIP LOCKED
            ) AND used = FALSE
            RETURNING ` + codeColumns
	c, err := scanCode(r.db.QueryRow(ctx, sql, phone, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to consume verification code: %w", err)
	}
	return c, nil
}

// FindLatestByPhone returns the newest row for the phone regardless of state.
func (r *codeRepository) FindLatestByPhone(ctx context.Context, phone string) (*model.VerificationCode, error) {
	sql := `SELECT ` + codeColumns + ` FROM verification_codes WHERE phone = $1 ORDER BY created_at DESC, id DESC LIMIT 1`
	c, err := scanCode(r.db.QueryRow(ctx, sql, phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find latest verification code: %w", err)
	}
	return c, nil
}

// Reissue overwrites an existing row with a fresh unused code.
func (r *codeRepository) Reissue(ctx context.Context, id int64, code string, expiresAt time.Time, userID *int64) (*model.VerificationCode, error) {
	sql := `UPDATE verification_codes
            SET code = $1, used = FALSE, expires_at = $2, user_id = $3, updated_at = NOW()
            WHERE id = $4 RETURNING ` + codeColumns
	c, err := scanCode(r.db.QueryRow(ctx, sql, code, expiresAt, userID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("verification code not found for update")
		}
		return nil, fmt.Errorf("failed to reissue verification code: %w", err)
	}
	return c, nil
}

// List returns one page of codes, newest first.
func (r *codeRepository) List(ctx context.Context, filter model.CodeFilter) ([]model.VerificationCode, int64, error) {
	w := &whereBuilder{}
	if filter.Phone != "" {
		w.add("phone ILIKE $?", "%"+filter.Phone+"%")
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM verification_codes`+w.clause(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count verification codes: %w", err)
	}

	query := `SELECT ` + codeColumns + ` FROM verification_codes` + w.clause() +
		fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", w.placeholder(), w.placeholder()+1)
	args := append(w.args, filter.Limit, filter.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query verification codes: %w", err)
	}
	defer rows.Close()

	var codes []model.VerificationCode
	for rows.Next() {
		c, err := scanCode(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan verification code row: %w", err)
		}
		codes = append(codes, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating verification code rows: %w", err)
	}
	return codes, total, nil
}

// CoveredKeys returns the user ids and phones that already own at least one
// code row.
func (r *codeRepository) CoveredKeys(ctx context.Context) (map[int64]struct{}, map[string]struct{}, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT user_id, phone FROM verification_codes`)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query covered code keys: %w", err)
	}
	defer rows.Close()

	userIDs := make(map[int64]struct{})
	phones := make(map[string]struct{})
	for rows.Next() {
		var userID *int64
		var phone string
		if err := rows.Scan(&userID, &phone); err != nil {
			return nil, nil, fmt.Errorf("failed to scan covered code key: %w", err)
		}
		if userID != nil {
			userIDs[*userID] = struct{}{}
		}
		if phone != "" {
			phones[phone] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating covered code keys: %w", err)
	}
	return userIDs, phones, nil
}
