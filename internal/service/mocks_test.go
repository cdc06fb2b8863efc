package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stretchr/testify/mock"

	"loan_portal/internal/model"
)

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) FindByPhone(ctx context.Context, phone string) (*model.User, error) {
	args := m.Called(ctx, phone)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) List(ctx context.Context, filter model.UserFilter) ([]model.User, int64, error) {
	args := m.Called(ctx, filter)
	users, _ := args.Get(0).([]model.User)
	return users, args.Get(1).(int64), args.Error(2)
}

func (m *mockUserRepo) ListWithPhone(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) GetStats(ctx context.Context) (*model.UserStats, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(*model.UserStats)
	return s, args.Error(1)
}

type mockCodeRepo struct{ mock.Mock }

func (m *mockCodeRepo) Create(ctx context.Context, code *model.VerificationCode) error {
	return m.Called(ctx, code).Error(0)
}

func (m *mockCodeRepo) CreateBatch(ctx context.Context, codes []model.VerificationCode) (int64, error) {
	args := m.Called(ctx, codes)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCodeRepo) ConsumeLatest(ctx context.Context, phone, code string) (*model.VerificationCode, error) {
	args := m.Called(ctx, phone, code)
	vc, _ := args.Get(0).(*model.VerificationCode)
	return vc, args.Error(1)
}

func (m *mockCodeRepo) FindLatestByPhone(ctx context.Context, phone string) (*model.VerificationCode, error) {
	args := m.Called(ctx, phone)
	vc, _ := args.Get(0).(*model.VerificationCode)
	return vc, args.Error(1)
}

func (m *mockCodeRepo) Reissue(ctx context.Context, id int64, code string, expiresAt time.Time, userID *int64) (*model.VerificationCode, error) {
	args := m.Called(ctx, id, code, expiresAt, userID)
	vc, _ := args.Get(0).(*model.VerificationCode)
	return vc, args.Error(1)
}

func (m *mockCodeRepo) List(ctx context.Context, filter model.CodeFilter) ([]model.VerificationCode, int64, error) {
	args := m.Called(ctx, filter)
	codes, _ := args.Get(0).([]model.VerificationCode)
	return codes, args.Get(1).(int64), args.Error(2)
}

func (m *mockCodeRepo) CoveredKeys(ctx context.Context) (map[int64]struct{}, map[string]struct{}, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).(map[int64]struct{})
	phones, _ := args.Get(1).(map[string]struct{})
	return ids, phones, args.Error(2)
}

type mockAdminRepo struct{ mock.Mock }

func (m *mockAdminRepo) Create(ctx context.Context, admin *model.AdminUser) error {
	return m.Called(ctx, admin).Error(0)
}

func (m *mockAdminRepo) FindByUsername(ctx context.Context, username string) (*model.AdminUser, error) {
	args := m.Called(ctx, username)
	a, _ := args.Get(0).(*model.AdminUser)
	return a, args.Error(1)
}

func (m *mockAdminRepo) FindActiveByUsername(ctx context.Context, username string) (*model.AdminUser, error) {
	args := m.Called(ctx, username)
	a, _ := args.Get(0).(*model.AdminUser)
	return a, args.Error(1)
}

func (m *mockAdminRepo) FindActiveByID(ctx context.Context, id int64) (*model.AdminUser, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*model.AdminUser)
	return a, args.Error(1)
}

func (m *mockAdminRepo) RecordLogin(ctx context.Context, id int64) (*model.AdminUser, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*model.AdminUser)
	return a, args.Error(1)
}

func (m *mockAdminRepo) List(ctx context.Context) ([]model.AdminUser, error) {
	args := m.Called(ctx)
	admins, _ := args.Get(0).([]model.AdminUser)
	return admins, args.Error(1)
}

func (m *mockAdminRepo) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockAdminRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockSettingRepo struct{ mock.Mock }

func (m *mockSettingRepo) Get(ctx context.Context, key string) (*model.SystemSetting, error) {
	args := m.Called(ctx, key)
	s, _ := args.Get(0).(*model.SystemSetting)
	return s, args.Error(1)
}

func (m *mockSettingRepo) List(ctx context.Context) ([]model.SystemSetting, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]model.SystemSetting)
	return list, args.Error(1)
}

func (m *mockSettingRepo) Upsert(ctx context.Context, key string, value json.RawMessage) (*model.SystemSetting, error) {
	args := m.Called(ctx, key, value)
	s, _ := args.Get(0).(*model.SystemSetting)
	return s, args.Error(1)
}

type mockSender struct{ mock.Mock }

func (m *mockSender) SendCode(ctx context.Context, phone, code string) error {
	return m.Called(ctx, phone, code).Error(0)
}
