package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"tripdocs/internal/model"
)

type MockShareTokenRepository struct {
	mock.Mock
}

func (m *MockShareTokenRepository) Create(ctx context.Context, tok *model.ShareToken) error {
	args := m.Called(ctx, tok)
	return args.Error(0)
}

func (m *MockShareTokenRepository) FindByToken(ctx context.Context, token string) (*model.ShareToken, error) {
	args := m.Called(ctx, token)
	var out *model.ShareToken
	if args.Get(0) != nil {
		out = args.Get(0).(*model.ShareToken)
	}
	return out, args.Error(1)
}

func (m *MockShareTokenRepository) FindLatestActive(ctx context.Context, bookingID string, now time.Time) (*model.ShareToken, error) {
	args := m.Called(ctx, bookingID, now)
	var out *model.ShareToken
	if args.Get(0) != nil {
		out = args.Get(0).(*model.ShareToken)
	}
	return out, args.Error(1)
}

func (m *MockShareTokenRepository) IncrementUsage(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockShareTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}
