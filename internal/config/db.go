package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"loan_portal/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DBConfig holds database connection parameters
type DBConfig struct {
	DSN string
}

// LoadDBConfig loads database configuration from environment variables.
// DATABASE_URL wins over the individual DB_* variables.
func LoadDBConfig() (*DBConfig, error) {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return &DBConfig{DSN: url}, nil
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	sslMode := getEnv("DB_SSLMODE", "disable")

	if dbHost == "" || dbPort == "" || dbUser == "" || dbName == "" {
		return nil, fmt.Errorf("database environment variables not set (DATABASE_URL or DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME)")
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		dbHost, dbPort, dbUser, dbPassword, dbName, sslMode)

	return &DBConfig{DSN: dsn}, nil
}

// ConnectDB establishes a connection to the PostgreSQL database
func ConnectDB(ctx context.Context, cfg *DBConfig, log *logger.Logger) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	var err error

	maxRetries := 5
	retryInterval := 5 * time.Second

	for i := 0; i < maxRetries; i++ {
		pool, err = pgxpool.New(ctx, cfg.DSN)
		if err == nil {
			err = pool.Ping(ctx)
			if err == nil {
				log.Info("connected to PostgreSQL")
				return pool, nil
			}
			pool.Close()
		}
		log.Warn("failed to connect to database, retrying",
			"attempt", i+1, "max_attempts", maxRetries, "retry_in", retryInterval.String(), "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryInterval):
		}
	}
	return nil, fmt.Errorf("unable to connect to database after %d attempts: %w", maxRetries, err)
}

// schema is idempotent; verification_codes.user_id is a weak reference
// and intentionally carries no foreign key.
const schema = `
	CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		id_number TEXT NOT NULL DEFAULT '',
		loan_number TEXT NOT NULL DEFAULT '',
		bank_card TEXT NOT NULL DEFAULT '',
		amount NUMERIC(14,2) NOT NULL DEFAULT 0,
		loan_date DATE,
		overdue_days INTEGER NOT NULL DEFAULT 0,
		overdue_amount NUMERIC(14,2) NOT NULL DEFAULT 0,
		amount_due NUMERIC(14,2) NOT NULL DEFAULT 0,
		is_settled BOOLEAN NOT NULL DEFAULT FALSE,
		is_interest_free BOOLEAN NOT NULL DEFAULT FALSE,
		payment_method JSONB NOT NULL DEFAULT '[]'::jsonb,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS admin_users (
		id SERIAL PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL,
		status SMALLINT NOT NULL DEFAULT 1,
		login_at TIMESTAMP WITH TIME ZONE,
		login_num INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS verification_codes (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT,
		phone TEXT NOT NULL,
		code TEXT NOT NULL,
		used BOOLEAN NOT NULL DEFAULT FALSE,
		expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS system_settings (
		id SERIAL PRIMARY KEY,
		setting_key TEXT UNIQUE NOT NULL,
		setting_value JSONB NOT NULL DEFAULT 'null'::jsonb,
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_users_phone ON users(phone);
	CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at);
	CREATE INDEX IF NOT EXISTS idx_verification_codes_phone_created ON verification_codes(phone, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_verification_codes_user_id ON verification_codes(user_id);

	CREATE OR REPLACE FUNCTION update_updated_at_column()
	RETURNS TRIGGER AS $$
	BEGIN
		NEW.updated_at = NOW();
		RETURN NEW;
	END;
	$$ language 'plpgsql';

	DO $$
	DECLARE
		t TEXT;
	BEGIN
		FOREACH t IN ARRAY ARRAY['users', 'admin_users', 'verification_codes', 'system_settings'] LOOP
			IF NOT EXISTS (
				SELECT 1 FROM pg_trigger
				WHERE tgname = 'set_' || t || '_updated_at' AND tgrelid = t::regclass
			) THEN
				EXECUTE format('CREATE TRIGGER %I BEFORE UPDATE ON %I FOR EACH ROW EXECUTE FUNCTION update_updated_at_column()',
					'set_' || t || '_updated_at', t);
			END IF;
		END LOOP;
	END
	$$;
`

// AutoMigrate creates tables if they don't exist
func AutoMigrate(ctx context.Context, db *pgxpool.Pool, log *logger.Logger) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("unable to apply migrations: %w", err)
	}

	log.Info("AutoMigrate applied successfully")
	return nil
}
