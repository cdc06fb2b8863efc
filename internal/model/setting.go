package model

import (
	"encoding/json"
	"time"
)

// SystemSetting is a key/value row; the value is arbitrary JSON.
type SystemSetting struct {
	ID        int64           `json:"id,omitempty"`
	Key       string          `json:"setting_key"`
	Value     json.RawMessage `json:"setting_value"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

type UpsertSettingRequest struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// SiteConfig is the public subset of settings used by the landing pages.
type SiteConfig struct {
	SiteName string `json:"site_name"`
}
