package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"loan_portal/internal/model"

	"github.com/stretchr/testify/mock"
)

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) CheckLogin(ctx context.Context, phone, code string) (*model.UserSession, error) {
	args := m.Called(ctx, phone, code)
	sess, _ := args.Get(0).(*model.UserSession)
	return sess, args.Error(1)
}

type mockCodeService struct{ mock.Mock }

func (m *mockCodeService) SendCode(ctx context.Context, phone string) (*model.VerificationCode, error) {
	args := m.Called(ctx, phone)
	vc, _ := args.Get(0).(*model.VerificationCode)
	return vc, args.Error(1)
}

func (m *mockCodeService) Consume(ctx context.Context, phone, code string) (*model.VerificationCode, error) {
	args := m.Called(ctx, phone, code)
	vc, _ := args.Get(0).(*model.VerificationCode)
	return vc, args.Error(1)
}

func (m *mockCodeService) AdminUpsert(ctx context.Context, phone, code string) (*model.CodeUpsertResult, error) {
	args := m.Called(ctx, phone, code)
	res, _ := args.Get(0).(*model.CodeUpsertResult)
	return res, args.Error(1)
}

func (m *mockCodeService) IssuePermanent(ctx context.Context, user *model.User) (*model.VerificationCode, error) {
	args := m.Called(ctx, user)
	vc, _ := args.Get(0).(*model.VerificationCode)
	return vc, args.Error(1)
}

func (m *mockCodeService) GenerateForUsersLacking(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockCodeService) List(ctx context.Context, filter model.CodeFilter) (model.PageResult[model.VerificationCode], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(model.PageResult[model.VerificationCode]), args.Error(1)
}

type mockSettingService struct{ mock.Mock }

func (m *mockSettingService) Get(ctx context.Context, key string) (*model.SystemSetting, error) {
	args := m.Called(ctx, key)
	s, _ := args.Get(0).(*model.SystemSetting)
	return s, args.Error(1)
}

func (m *mockSettingService) List(ctx context.Context) ([]model.SystemSetting, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]model.SystemSetting)
	return list, args.Error(1)
}

func (m *mockSettingService) Upsert(ctx context.Context, key string, value json.RawMessage) (*model.SystemSetting, error) {
	args := m.Called(ctx, key, value)
	s, _ := args.Get(0).(*model.SystemSetting)
	return s, args.Error(1)
}

func (m *mockSettingService) String(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *mockSettingService) Raw(ctx context.Context, key string) (json.RawMessage, error) {
	args := m.Called(ctx, key)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

type mockAdminService struct{ mock.Mock }

func (m *mockAdminService) Login(ctx context.Context, username, password string) (*model.AdminUser, error) {
	args := m.Called(ctx, username, password)
	a, _ := args.Get(0).(*model.AdminUser)
	return a, args.Error(1)
}

func (m *mockAdminService) Authenticate(ctx context.Context, id int64) (*model.AdminUser, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*model.AdminUser)
	return a, args.Error(1)
}

func (m *mockAdminService) List(ctx context.Context) ([]model.AdminUser, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]model.AdminUser)
	return list, args.Error(1)
}

func (m *mockAdminService) Create(ctx context.Context, req model.CreateAdminRequest) (*model.AdminUser, error) {
	args := m.Called(ctx, req)
	a, _ := args.Get(0).(*model.AdminUser)
	return a, args.Error(1)
}

func (m *mockAdminService) Delete(ctx context.Context, actorID, id int64) error {
	return m.Called(ctx, actorID, id).Error(0)
}

func (m *mockAdminService) Bootstrap(ctx context.Context, username, password string) (bool, error) {
	args := m.Called(ctx, username, password)
	return args.Bool(0), args.Error(1)
}

type mockUserService struct{ mock.Mock }

func (m *mockUserService) List(ctx context.Context, filter model.UserFilter) (model.PageResult[model.User], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(model.PageResult[model.User]), args.Error(1)
}

func (m *mockUserService) Get(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserService) GetByPhone(ctx context.Context, phone string) (*model.User, error) {
	args := m.Called(ctx, phone)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserService) Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	args := m.Called(ctx, req)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserService) Update(ctx context.Context, id int64, req model.UpdateUserRequest) (*model.User, error) {
	args := m.Called(ctx, id, req)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserService) Stats(ctx context.Context) (*model.UserStats, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(*model.UserStats)
	return s, args.Error(1)
}

func (m *mockUserService) Repayment(ctx context.Context, phone string) (*model.RepaymentView, error) {
	args := m.Called(ctx, phone)
	v, _ := args.Get(0).(*model.RepaymentView)
	return v, args.Error(1)
}

func (m *mockUserService) ImportCSV(ctx context.Context, r io.Reader) (*model.ImportResult, error) {
	args := m.Called(ctx, r)
	res, _ := args.Get(0).(*model.ImportResult)
	return res, args.Error(1)
}

func (m *mockUserService) ExportCSV(ctx context.Context, filter model.UserFilter, masked bool) (*bytes.Buffer, error) {
	args := m.Called(ctx, filter, masked)
	buf, _ := args.Get(0).(*bytes.Buffer)
	return buf, args.Error(1)
}

func (m *mockUserService) ImportTemplate() (*bytes.Buffer, error) {
	args := m.Called()
	buf, _ := args.Get(0).(*bytes.Buffer)
	return buf, args.Error(1)
}
