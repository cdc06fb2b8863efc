package service

import (
	"context"
	"fmt"
	"time"

	"loan_portal/internal/logger"
	"loan_portal/internal/model"
	"loan_portal/internal/repository"
	"loan_portal/internal/sms"
	"loan_portal/internal/utils"
)

// PermanentExpiry is the expiry stamped on admin-issued codes.
var PermanentExpiry = time.Date(2099, 12, 31, 23, 59, 59, 0, time.UTC)

// CodeService issues and consumes verification codes
type CodeService interface {
	SendCode(ctx context.Context, phone string) (*model.VerificationCode, error)
	Consume(ctx context.Context, phone, code string) (*model.VerificationCode, error)
	AdminUpsert(ctx context.Context, phone, code string) (*model.CodeUpsertResult, error)
	IssuePermanent(ctx context.Context, user *model.User) (*model.VerificationCode, error)
	GenerateForUsersLacking(ctx context.Context) (int, error)
	List(ctx context.Context, filter model.CodeFilter) (model.PageResult[model.VerificationCode], error)
}

type codeService struct {
	codes    repository.CodeRepository
	users    repository.UserRepository
	sender   sms.Sender
	ttl      time.Duration
	log      *logger.Logger
	now      func() time.Time
	generate func() (string, error)
}

// NewCodeService creates a new CodeService. ttl is the lifetime of
// self-service codes.
func NewCodeService(codes repository.CodeRepository, users repository.UserRepository, sender sms.Sender, ttl time.Duration, log *logger.Logger) CodeService {
	return &codeService{
		codes:    codes,
		users:    users,
		sender:   sender,
		ttl:      ttl,
		log:      log.With("service", "CodeService"),
		now:      time.Now,
		generate: utils.GenerateCode,
	}
}

func (s *codeService) userIDForPhone(ctx context.Context, phone string) (*int64, error) {
	user, err := s.users.FindByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user for phone: %w", err)
	}
	if user == nil {
		return nil, nil
	}
	return &user.ID, nil
}

// SendCode stores a fresh short-lived code for phone and hands it to the
// sender. Older unused rows are left in place.
func (s *codeService) SendCode(ctx context.Context, phone string) (*model.VerificationCode, error) {
	if !utils.IsValidPhone(phone) {
		return nil, ErrInvalidPhone
	}

	code, err := s.generate()
	if err != nil {
		return nil, err
	}
	userID, err := s.userIDForPhone(ctx, phone)
	if err != nil {
		return nil, err
	}

	vc := &model.VerificationCode{
		UserID:    userID,
		Phone:     phone,
		Code:      code,
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.codes.Create(ctx, vc); err != nil {
		return nil, fmt.Errorf("failed to store verification code: %w", err)
	}

	if err := s.sender.SendCode(ctx, phone, code); err != nil {
		return nil, fmt.Errorf("failed to deliver verification code: %w", err)
	}
	return vc, nil
}

// Consume atomically marks the newest usable row for phone/code as used.
// It returns nil when no usable row matched.
func (s *codeService) Consume(ctx context.Context, phone, code string) (*model.VerificationCode, error) {
	if !utils.IsValidPhone(phone) {
		return nil, ErrInvalidPhone
	}
	if !utils.IsValidCode(code) {
		return nil, ErrInvalidCode
	}
	vc, err := s.codes.ConsumeLatest(ctx, phone, code)
	if err != nil {
		return nil, fmt.Errorf("failed to consume verification code: %w", err)
	}
	return vc, nil
}

// AdminUpsert sets a permanent code for phone. The newest existing row is
// overwritten in place; a row is inserted only when the phone has none.
func (s *codeService) AdminUpsert(ctx context.Context, phone, code string) (*model.CodeUpsertResult, error) {
	if !utils.IsValidPhone(phone) {
		return nil, ErrInvalidPhone
	}
	if code == "" {
		generated, err := s.generate()
		if err != nil {
			return nil, err
		}
		code = generated
	} else if !utils.IsValidCode(code) {
		return nil, ErrInvalidCode
	}

	userID, err := s.userIDForPhone(ctx, phone)
	if err != nil {
		return nil, err
	}

	existing, err := s.codes.FindLatestByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("failed to look up existing code: %w", err)
	}

	result := &model.CodeUpsertResult{Phone: phone, Code: code, ExpiresAt: PermanentExpiry}
	if existing != nil {
		if userID == nil {
			userID = existing.UserID
		}
		if _, err := s.codes.Reissue(ctx, existing.ID, code, PermanentExpiry, userID); err != nil {
			return nil, fmt.Errorf("failed to update verification code: %w", err)
		}
		s.log.Info("admin updated verification code", "phone", phone, "code_id", existing.ID)
		return result, nil
	}

	vc := &model.VerificationCode{UserID: userID, Phone: phone, Code: code, ExpiresAt: PermanentExpiry}
	if err := s.codes.Create(ctx, vc); err != nil {
		return nil, fmt.Errorf("failed to create verification code: %w", err)
	}
	result.Created = true
	s.log.Info("admin created verification code", "phone", phone, "code_id", vc.ID)
	return result, nil
}

// IssuePermanent gives a freshly created borrower a permanent code.
func (s *codeService) IssuePermanent(ctx context.Context, user *model.User) (*model.VerificationCode, error) {
	if user.Phone == "" {
		return nil, nil
	}
	code, err := s.generate()
	if err != nil {
		return nil, err
	}
	userID := user.ID
	vc := &model.VerificationCode{UserID: &userID, Phone: user.Phone, Code: code, ExpiresAt: PermanentExpiry}
	if err := s.codes.Create(ctx, vc); err != nil {
		return nil, fmt.Errorf("failed to issue code for user %d: %w", user.ID, err)
	}
	return vc, nil
}

// GenerateForUsersLacking issues one permanent code for every borrower with a
// phone whose id and phone are not yet covered by any code row.
func (s *codeService) GenerateForUsersLacking(ctx context.Context) (int, error) {
	users, err := s.users.ListWithPhone(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load users: %w", err)
	}
	if len(users) == 0 {
		return 0, nil
	}

	coveredIDs, coveredPhones, err := s.codes.CoveredKeys(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load existing codes: %w", err)
	}

	var batch []model.VerificationCode
	for _, u := range users {
		if _, ok := coveredIDs[u.ID]; ok {
			continue
		}
		if _, ok := coveredPhones[u.Phone]; ok {
			continue
		}
		code, err := s.generate()
		if err != nil {
			return 0, err
		}
		userID := u.ID
		batch = append(batch, model.VerificationCode{UserID: &userID, Phone: u.Phone, Code: code, ExpiresAt: PermanentExpiry})
		coveredIDs[u.ID] = struct{}{}
		coveredPhones[u.Phone] = struct{}{}
	}

	n, err := s.codes.CreateBatch(ctx, batch)
	if err != nil {
		return 0, fmt.Errorf("failed to insert generated codes: %w", err)
	}
	s.log.Info("generated verification codes", "candidates", len(users), "generated", n)
	return int(n), nil
}

func (s *codeService) List(ctx context.Context, filter model.CodeFilter) (model.PageResult[model.VerificationCode], error) {
	filter.Normalize()
	codes, total, err := s.codes.List(ctx, filter)
	if err != nil {
		return model.PageResult[model.VerificationCode]{}, fmt.Errorf("failed to list verification codes: %w", err)
	}
	return model.NewPageResult(codes, total, filter.Pagination), nil
}
