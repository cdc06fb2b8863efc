package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"loan_portal/internal/logger"
	"loan_portal/internal/model"
)

var fixedNow = time.Date(2024, 7, 28, 10, 0, 0, 0, time.UTC)

func newTestCodeService(codes *mockCodeRepo, users *mockUserRepo, sender *mockSender) *codeService {
	return &codeService{
		codes:    codes,
		users:    users,
		sender:   sender,
		ttl:      5 * time.Minute,
		log:      logger.NewNop(),
		now:      func() time.Time { return fixedNow },
		generate: func() (string, error) { return "654321", nil },
	}
}

func TestCodeService_SendCode(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid phone", func(t *testing.T) {
		s := newTestCodeService(&mockCodeRepo{}, &mockUserRepo{}, &mockSender{})
		_, err := s.SendCode(ctx, "12345")
		assert.ErrorIs(t, err, ErrInvalidPhone)
	})

	t.Run("stores short lived code and sends it", func(t *testing.T) {
		codes, users, sender := &mockCodeRepo{}, &mockUserRepo{}, &mockSender{}
		users.On("FindByPhone", mock.Anything, "13800138000").Return(&model.User{ID: 9}, nil)
		codes.On("Create", mock.Anything, mock.MatchedBy(func(vc *model.VerificationCode) bool {
			return vc.Phone == "13800138000" && vc.Code == "654321" &&
				vc.UserID != nil && *vc.UserID == 9 &&
				vc.ExpiresAt.Equal(fixedNow.Add(5*time.Minute))
		})).Return(nil)
		sender.On("SendCode", mock.Anything, "13800138000", "654321").Return(nil)

		s := newTestCodeService(codes, users, sender)
		vc, err := s.SendCode(ctx, "13800138000")
		require.NoError(t, err)
		assert.Equal(t, "654321", vc.Code)
		codes.AssertExpectations(t)
		sender.AssertExpectations(t)
	})

	t.Run("delivery failure surfaces", func(t *testing.T) {
		codes, users, sender := &mockCodeRepo{}, &mockUserRepo{}, &mockSender{}
		users.On("FindByPhone", mock.Anything, "13800138000").Return(nil, nil)
		codes.On("Create", mock.Anything, mock.Anything).Return(nil)
		sender.On("SendCode", mock.Anything, "13800138000", "654321").Return(errors.New("gateway down"))

		s := newTestCodeService(codes, users, sender)
		_, err := s.SendCode(ctx, "13800138000")
		assert.ErrorContains(t, err, "gateway down")
	})
}

func TestCodeService_Consume(t *testing.T) {
	ctx := context.Background()
	s := newTestCodeService(&mockCodeRepo{}, &mockUserRepo{}, &mockSender{})

	_, err := s.Consume(ctx, "13800138000", "12ab")
	assert.ErrorIs(t, err, ErrInvalidCode)

	_, err = s.Consume(ctx, "2380013800", "1234")
	assert.ErrorIs(t, err, ErrInvalidPhone)

	codes := &mockCodeRepo{}
	codes.On("ConsumeLatest", mock.Anything, "13800138000", "1234").Return(nil, nil)
	s = newTestCodeService(codes, &mockUserRepo{}, &mockSender{})
	vc, err := s.Consume(ctx, "13800138000", "1234")
	require.NoError(t, err)
	assert.Nil(t, vc)
}

func TestCodeService_AdminUpsert(t *testing.T) {
	ctx := context.Background()

	t.Run("reissues latest row and keeps its user", func(t *testing.T) {
		codes, users := &mockCodeRepo{}, &mockUserRepo{}
		owner := int64(3)
		users.On("FindByPhone", mock.Anything, "13800138000").Return(nil, nil)
		codes.On("FindLatestByPhone", mock.Anything, "13800138000").
			Return(&model.VerificationCode{ID: 11, UserID: &owner, Phone: "13800138000"}, nil)
		codes.On("Reissue", mock.Anything, int64(11), "8888", PermanentExpiry, &owner).
			Return(&model.VerificationCode{ID: 11}, nil)

		s := newTestCodeService(codes, users, &mockSender{})
		res, err := s.AdminUpsert(ctx, "13800138000", "8888")
		require.NoError(t, err)
		assert.False(t, res.Created)
		assert.Equal(t, "8888", res.Code)
		assert.Equal(t, PermanentExpiry, res.ExpiresAt)
		codes.AssertExpectations(t)
	})

	t.Run("inserts when phone has no code and generates one", func(t *testing.T) {
		codes, users := &mockCodeRepo{}, &mockUserRepo{}
		users.On("FindByPhone", mock.Anything, "13800138000").Return(&model.User{ID: 5}, nil)
		codes.On("FindLatestByPhone", mock.Anything, "13800138000").Return(nil, nil)
		codes.On("Create", mock.Anything, mock.MatchedBy(func(vc *model.VerificationCode) bool {
			return vc.Code == "654321" && *vc.UserID == 5 && vc.ExpiresAt.Equal(PermanentExpiry)
		})).Return(nil)

		s := newTestCodeService(codes, users, &mockSender{})
		res, err := s.AdminUpsert(ctx, "13800138000", "")
		require.NoError(t, err)
		assert.True(t, res.Created)
		assert.Equal(t, "654321", res.Code)
	})

	t.Run("rejects malformed code", func(t *testing.T) {
		s := newTestCodeService(&mockCodeRepo{}, &mockUserRepo{}, &mockSender{})
		_, err := s.AdminUpsert(ctx, "13800138000", "12")
		assert.ErrorIs(t, err, ErrInvalidCode)
	})
}

func TestCodeService_IssuePermanentSkipsMissingPhone(t *testing.T) {
	s := newTestCodeService(&mockCodeRepo{}, &mockUserRepo{}, &mockSender{})
	vc, err := s.IssuePermanent(context.Background(), &model.User{ID: 1})
	require.NoError(t, err)
	assert.Nil(t, vc)
}

func TestCodeService_GenerateForUsersLacking(t *testing.T) {
	codes, users := &mockCodeRepo{}, &mockUserRepo{}
	users.On("ListWithPhone", mock.Anything).Return([]model.User{
		{ID: 1, Phone: "13800000001"},
		{ID: 2, Phone: "13800000002"},
		{ID: 3, Phone: "13800000003"},
		{ID: 4, Phone: "13800000003"},
	}, nil)
	codes.On("CoveredKeys", mock.Anything).Return(
		map[int64]struct{}{1: {}},
		map[string]struct{}{"13800000002": {}},
		nil,
	)
	codes.On("CreateBatch", mock.Anything, mock.MatchedBy(func(batch []model.VerificationCode) bool {
		return len(batch) == 1 && batch[0].Phone == "13800000003" && *batch[0].UserID == 3
	})).Return(int64(1), nil)

	s := newTestCodeService(codes, users, &mockSender{})
	n, err := s.GenerateForUsersLacking(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	codes.AssertExpectations(t)
}

func TestCodeService_List(t *testing.T) {
	codes := &mockCodeRepo{}
	codes.On("List", mock.Anything, model.CodeFilter{Phone: "138", Pagination: model.Pagination{Page: 1, Limit: 20}}).
		Return([]model.VerificationCode{{ID: 1}}, int64(41), nil)

	s := newTestCodeService(codes, &mockUserRepo{}, &mockSender{})
	page, err := s.List(context.Background(), model.CodeFilter{Phone: "138"})
	require.NoError(t, err)
	assert.Equal(t, int64(41), page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.List, 1)
}
