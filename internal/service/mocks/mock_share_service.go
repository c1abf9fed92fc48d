package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"tripdocs/internal/model"
	"tripdocs/internal/service"
)

type MockShareService struct {
	mock.Mock
}

func (m *MockShareService) Generate(ctx context.Context, bookingID string, caller model.Identity, categories []model.Category, ttl time.Duration) (*service.ShareLink, error) {
	args := m.Called(ctx, bookingID, caller, categories, ttl)
	var out *service.ShareLink
	if args.Get(0) != nil {
		out = args.Get(0).(*service.ShareLink)
	}
	return out, args.Error(1)
}

func (m *MockShareService) GetExisting(ctx context.Context, bookingID string, caller model.Identity) (*service.ShareLink, error) {
	args := m.Called(ctx, bookingID, caller)
	var out *service.ShareLink
	if args.Get(0) != nil {
		out = args.Get(0).(*service.ShareLink)
	}
	return out, args.Error(1)
}

func (m *MockShareService) Verify(ctx context.Context, token string) (*model.ShareToken, error) {
	args := m.Called(ctx, token)
	var out *model.ShareToken
	if args.Get(0) != nil {
		out = args.Get(0).(*model.ShareToken)
	}
	return out, args.Error(1)
}

func (m *MockShareService) RecordUse(ctx context.Context, token string) {
	m.Called(ctx, token)
}

func (m *MockShareService) AutoGenerate(ctx context.Context, bookingID, creatorID string) {
	m.Called(ctx, bookingID, creatorID)
}
