package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"loan_portal/internal/logger"
	"loan_portal/internal/model"
	"loan_portal/internal/repository"
)

const defaultDisplayName = "用户"

// devBypassCodes are accepted without a stored row when the bypass is on.
var devBypassCodes = map[string]struct{}{"1234": {}, "123456": {}}

// AuthService logs borrowers in with a phone and verification code
type AuthService interface {
	CheckLogin(ctx context.Context, phone, code string) (*model.UserSession, error)
}

type authService struct {
	codes     CodeService
	userRepo  repository.UserRepository
	devBypass bool
	log       *logger.Logger
	now       func() time.Time
}

// NewAuthService creates a new AuthService. devBypass enables the fixed
// development codes and must stay off in production.
func NewAuthService(codes CodeService, userRepo repository.UserRepository, devBypass bool, log *logger.Logger) AuthService {
	return &authService{
		codes:     codes,
		userRepo:  userRepo,
		devBypass: devBypass,
		log:       log.With("service", "AuthService"),
		now:       time.Now,
	}
}

// CheckLogin consumes the code and resolves the session identity.
// Wrong, expired and already used codes all yield ErrCodeInvalidOrExpired.
func (s *authService) CheckLogin(ctx context.Context, phone, code string) (*model.UserSession, error) {
	vc, err := s.codes.Consume(ctx, phone, code)
	if err != nil {
		return nil, err
	}
	if vc == nil {
		if _, ok := devBypassCodes[code]; !ok || !s.devBypass {
			return nil, ErrCodeInvalidOrExpired
		}
		s.log.Warn("development code bypass used", "phone", phone)
	}

	user, err := s.resolveUser(ctx, phone, vc)
	if err != nil {
		return nil, err
	}

	now := s.now()
	sess := &model.UserSession{Phone: phone, Name: defaultDisplayName, LoginTime: now}
	if user != nil {
		sess.UserID = strconv.FormatInt(user.ID, 10)
		if user.Name != "" {
			sess.Name = user.Name
		}
	} else {
		sess.UserID = strconv.FormatInt(now.UnixMilli(), 10)
	}
	return sess, nil
}

func (s *authService) resolveUser(ctx context.Context, phone string, vc *model.VerificationCode) (*model.User, error) {
	if vc != nil && vc.UserID != nil {
		user, err := s.userRepo.FindByID(ctx, *vc.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to load user for code: %w", err)
		}
		if user != nil {
			return user, nil
		}
	}
	user, err := s.userRepo.FindByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("failed to load user by phone: %w", err)
	}
	return user, nil
}
