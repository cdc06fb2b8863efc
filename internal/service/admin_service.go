package service

import (
	"context"
	"fmt"
	"strings"

	"loan_portal/internal/logger"
	"loan_portal/internal/model"
	"loan_portal/internal/repository"
	"loan_portal/internal/utils"
)

const minAdminPasswordLen = 6

// AdminService manages back-office accounts and their logins
type AdminService interface {
	Login(ctx context.Context, username, password string) (*model.AdminUser, error)
	Authenticate(ctx context.Context, id int64) (*model.AdminUser, error)
	List(ctx context.Context) ([]model.AdminUser, error)
	Create(ctx context.Context, req model.CreateAdminRequest) (*model.AdminUser, error)
	Delete(ctx context.Context, actorID, id int64) error
	Bootstrap(ctx context.Context, username, password string) (bool, error)
}

type adminService struct {
	repo           repository.AdminRepository
	passwordScheme string
	log            *logger.Logger
}

// NewAdminService creates a new AdminService. passwordScheme ("md5" or
// "bcrypt") decides how newly created passwords are stored; logins accept
// either form.
func NewAdminService(repo repository.AdminRepository, passwordScheme string, log *logger.Logger) AdminService {
	return &adminService{repo: repo, passwordScheme: passwordScheme, log: log.With("service", "AdminService")}
}

func (s *adminService) digest(password string) (string, error) {
	if s.passwordScheme == "bcrypt" {
		hashed, err := utils.HashPassword(password)
		if err != nil {
			return "", fmt.Errorf("failed to hash password: %w", err)
		}
		return hashed, nil
	}
	return utils.MD5Hex(password), nil
}

// Login verifies credentials of an enabled admin and records the login.
func (s *adminService) Login(ctx context.Context, username, password string) (*model.AdminUser, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	admin, err := s.repo.FindActiveByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to find admin: %w", err)
	}
	if admin == nil || !utils.VerifyAdminPassword(password, admin.Password) {
		s.log.Warn("admin login rejected", "username", username)
		return nil, ErrInvalidCredentials
	}

	updated, err := s.repo.RecordLogin(ctx, admin.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to record admin login: %w", err)
	}
	s.log.Info("admin logged in", "admin_id", updated.ID, "login_num", updated.LoginNum)
	return updated, nil
}

// Authenticate re-checks that the admin behind a session still exists and
// is enabled.
func (s *adminService) Authenticate(ctx context.Context, id int64) (*model.AdminUser, error) {
	admin, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load admin: %w", err)
	}
	if admin == nil {
		return nil, ErrAdminNotFound
	}
	return admin, nil
}

func (s *adminService) List(ctx context.Context) ([]model.AdminUser, error) {
	admins, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	return admins, nil
}

func (s *adminService) Create(ctx context.Context, req model.CreateAdminRequest) (*model.AdminUser, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, ErrMissingCredentials
	}
	if len(req.Password) < minAdminPasswordLen {
		return nil, ErrPasswordTooShort
	}

	existing, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing admin: %w", err)
	}
	if existing != nil {
		return nil, ErrAdminExists
	}

	digest, err := s.digest(req.Password)
	if err != nil {
		return nil, err
	}
	admin := &model.AdminUser{Username: username, Password: digest, Status: model.AdminStatusActive}
	if err := s.repo.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}
	s.log.Info("admin created", "admin_id", admin.ID, "username", username)
	return admin, nil
}

// Delete removes admin id on behalf of actorID. Admins cannot delete
// themselves.
func (s *adminService) Delete(ctx context.Context, actorID, id int64) error {
	if actorID == id {
		return ErrCannotDeleteSelf
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete admin: %w", err)
	}
	if !deleted {
		return ErrAdminNotFound
	}
	s.log.Info("admin deleted", "admin_id", id, "by", actorID)
	return nil
}

// Bootstrap creates the first admin when the table is empty. It reports
// whether an account was created.
func (s *adminService) Bootstrap(ctx context.Context, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}
	n, err := s.repo.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if _, err := s.Create(ctx, model.CreateAdminRequest{Username: username, Password: password}); err != nil {
		return false, err
	}
	return true, nil
}
