package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"loan_portal/internal/model"

	"github.com/jackc/pgx/v5"
)

// SettingRepository defines operations for system settings
type SettingRepository interface {
	Get(ctx context.Context, key string) (*model.SystemSetting, error)
	List(ctx context.Context) ([]model.SystemSetting, error)
	Upsert(ctx context.Context, key string, value json.RawMessage) (*model.SystemSetting, error)
}

type settingRepository struct {
	db DBTX
}

// NewSettingRepository creates a new SettingRepository
func NewSettingRepository(db DBTX) SettingRepository {
	return &settingRepository{db: db}
}

func scanSetting(row pgx.Row) (*model.SystemSetting, error) {
	s := &model.SystemSetting{}
	var raw []byte
	if err := row.Scan(&s.ID, &s.Key, &raw, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.Value = json.RawMessage(raw)
	return s, nil
}

// Get retrieves a setting by key; nil when it was never written
func (r *settingRepository) Get(ctx context.Context, key string) (*model.SystemSetting, error) {
	sql := `SELECT id, setting_key, setting_value, updated_at FROM system_settings WHERE setting_key = $1`
	s, err := scanSetting(r.db.QueryRow(ctx, sql, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get setting: %w", err)
	}
	return s, nil
}

// List returns all stored settings ordered by key
func (r *settingRepository) List(ctx context.Context) ([]model.SystemSetting, error) {
	rows, err := r.db.Query(ctx, `SELECT id, setting_key, setting_value, updated_at FROM system_settings ORDER BY setting_key`)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	var settings []model.SystemSetting
	for rows.Next() {
		s, err := scanSetting(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan setting row: %w", err)
		}
		settings = append(settings, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating setting rows: %w", err)
	}
	return settings, nil
}

// Upsert writes the value for key, replacing any previous value.
func (r *settingRepository) Upsert(ctx context.Context, key string, value json.RawMessage) (*model.SystemSetting, error) {
	sql := `INSERT INTO system_settings (setting_key, setting_value, updated_at)
            VALUES ($1, $2::jsonb, NOW())
            ON CONFLICT (setting_key) DO UPDATE SET setting_value = EXCLUDED.setting_value, updated_at = NOW()
            RETURNING id, setting_key, setting_value, updated_at`
	s, err := scanSetting(r.db.QueryRow(ctx, sql, key, string(value)))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert setting: %w", err)
	}
	return s, nil
}
