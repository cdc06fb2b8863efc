package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"loan_portal/internal/model"
	"loan_portal/internal/repository"
)

// SettingService reads and writes system settings, falling back to
// configured defaults for keys that were never written
type SettingService interface {
	Get(ctx context.Context, key string) (*model.SystemSetting, error)
	List(ctx context.Context) ([]model.SystemSetting, error)
	Upsert(ctx context.Context, key string, value json.RawMessage) (*model.SystemSetting, error)
	String(ctx context.Context, key string) (string, error)
	Raw(ctx context.Context, key string) (json.RawMessage, error)
}

type settingService struct {
	repo     repository.SettingRepository
	defaults map[string]json.RawMessage
}

// NewSettingService creates a new SettingService
func NewSettingService(repo repository.SettingRepository, defaults map[string]interface{}) (SettingService, error) {
	encoded := make(map[string]json.RawMessage, len(defaults))
	for k, v := range defaults {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode default for %q: %w", k, err)
		}
		encoded[k] = raw
	}
	return &settingService{repo: repo, defaults: encoded}, nil
}

// Get returns the stored row for key, or a synthesized row holding the
// default value.
func (s *settingService) Get(ctx context.Context, key string) (*model.SystemSetting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrSettingKeyRequired
	}
	stored, err := s.repo.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get setting: %w", err)
	}
	if stored != nil {
		return stored, nil
	}
	if def, ok := s.defaults[key]; ok {
		return &model.SystemSetting{Key: key, Value: def}, nil
	}
	return nil, ErrSettingNotFound
}

// List returns the stored rows plus defaults for keys never written.
func (s *settingService) List(ctx context.Context) ([]model.SystemSetting, error) {
	stored, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	seen := make(map[string]struct{}, len(stored))
	for _, st := range stored {
		seen[st.Key] = struct{}{}
	}
	list := stored
	for k, v := range s.defaults {
		if _, ok := seen[k]; !ok {
			list = append(list, model.SystemSetting{Key: k, Value: v})
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Key < list[j].Key })
	return list, nil
}

func (s *settingService) Upsert(ctx context.Context, key string, value json.RawMessage) (*model.SystemSetting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrSettingKeyRequired
	}
	if len(value) == 0 {
		value = json.RawMessage("null")
	}
	if !json.Valid(value) {
		return nil, ErrInvalidSettingJSON
	}
	saved, err := s.repo.Upsert(ctx, key, value)
	if err != nil {
		return nil, fmt.Errorf("failed to save setting: %w", err)
	}
	return saved, nil
}

// Raw returns the effective JSON value for key.
func (s *settingService) Raw(ctx context.Context, key string) (json.RawMessage, error) {
	setting, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return setting.Value, nil
}

// String returns the effective value for key as text. Stored values that
// are not JSON strings fall back to the default.
func (s *settingService) String(ctx context.Context, key string) (string, error) {
	raw, err := s.Raw(ctx, key)
	if err != nil {
		return "", err
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil && str != "" {
		return str, nil
	}
	if def, ok := s.defaults[key]; ok {
		if err := json.Unmarshal(def, &str); err == nil {
			return str, nil
		}
	}
	return "", nil
}
