package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	devSessionSecret = "dev-session-secret-change-me"
)

// AppConfig holds process-wide settings read from the environment.
type AppConfig struct {
	Env        string
	ServerPort string
	UploadsDir string

	SessionSecret string
	SessionMaxAge time.Duration
	CookieSecure  bool

	CodeTTL       time.Duration
	DevCodeBypass bool
	// PasswordScheme selects how new admin passwords are stored: "md5" or "bcrypt".
	PasswordScheme string

	// Bootstrap credentials seed the first admin when the table is empty.
	AdminBootstrapUsername string
	AdminBootstrapPassword string

	CORSOrigins []string

	RedisAddress      string
	RedisPassword     string
	RedisDB           int
	SendCodeLimit     int64
	SendCodeWindowSec int

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
	SMSCountryPrefix string

	LogLevel string
	LogFile  string

	DefaultsFile     string
	ContractFontPath string
}

// IsProduction reports whether the process runs with APP_ENV=production.
func (c *AppConfig) IsProduction() bool {
	return c.Env == EnvProduction
}

// TwilioEnabled reports whether all Twilio credentials are present.
func (c *AppConfig) TwilioEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioFromNumber != ""
}

// Load reads AppConfig from environment variables. Call godotenv.Load first
// if a .env file should be honoured.
func Load() (*AppConfig, error) {
	env := strings.ToLower(getEnv("APP_ENV", EnvProduction))
	if env != EnvDevelopment && env != EnvProduction {
		return nil, fmt.Errorf("APP_ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, env)
	}
	isProd := env == EnvProduction

	cfg := &AppConfig{
		Env:                    env,
		ServerPort:             getEnv("SERVER_PORT", "8080"),
		UploadsDir:             getEnv("UPLOADS_DIR", "uploads"),
		SessionSecret:          os.Getenv("SESSION_SECRET"),
		SessionMaxAge:          time.Duration(getEnvInt("SESSION_MAX_AGE_SECONDS", 7*24*60*60)) * time.Second,
		CookieSecure:           getEnvBool("COOKIE_SECURE", isProd),
		CodeTTL:                time.Duration(getEnvInt("CODE_TTL_SECONDS", 300)) * time.Second,
		DevCodeBypass:          getEnvBool("DEV_CODE_BYPASS", !isProd),
		PasswordScheme:         strings.ToLower(getEnv("ADMIN_PASSWORD_SCHEME", "md5")),
		AdminBootstrapUsername: os.Getenv("ADMIN_BOOTSTRAP_USERNAME"),
		AdminBootstrapPassword: os.Getenv("ADMIN_BOOTSTRAP_PASSWORD"),
		CORSOrigins:            splitList(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")),
		RedisAddress:           os.Getenv("REDIS_ADDRESS"),
		RedisPassword:          os.Getenv("REDIS_PASSWORD"),
		RedisDB:                getEnvInt("REDIS_DB", 0),
		SendCodeLimit:          int64(getEnvInt("SEND_CODE_LIMIT", 5)),
		SendCodeWindowSec:      getEnvInt("SEND_CODE_WINDOW_SECONDS", 600),
		TwilioAccountSID:       os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:        os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber:       os.Getenv("TWILIO_FROM_NUMBER"),
		SMSCountryPrefix:       getEnv("SMS_COUNTRY_PREFIX", "+86"),
		LogLevel:               os.Getenv("LOG_LEVEL"),
		LogFile:                os.Getenv("LOG_FILE"),
		DefaultsFile:           os.Getenv("SETTINGS_DEFAULTS_FILE"),
		ContractFontPath:       os.Getenv("CONTRACT_FONT_PATH"),
	}

	if cfg.SessionSecret == "" {
		if isProd {
			return nil, fmt.Errorf("SESSION_SECRET not set in environment")
		}
		cfg.SessionSecret = devSessionSecret
	}
	if isProd && cfg.DevCodeBypass {
		return nil, fmt.Errorf("DEV_CODE_BYPASS cannot be enabled in production")
	}
	if cfg.PasswordScheme != "md5" && cfg.PasswordScheme != "bcrypt" {
		return nil, fmt.Errorf("ADMIN_PASSWORD_SCHEME must be md5 or bcrypt, got %q", cfg.PasswordScheme)
	}
	if cfg.CodeTTL <= 0 {
		return nil, fmt.Errorf("CODE_TTL_SECONDS must be positive")
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
