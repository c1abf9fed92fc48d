package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tripdocs/internal/model"
	"tripdocs/internal/service"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) List(ctx context.Context, bookingID string, caller model.Identity) (*service.DocumentList, error) {
	args := m.Called(ctx, bookingID, caller)
	var out *service.DocumentList
	if args.Get(0) != nil {
		out = args.Get(0).(*service.DocumentList)
	}
	return out, args.Error(1)
}

func (m *MockDocumentService) Upload(ctx context.Context, bookingID string, caller model.Identity, content []byte, contentType, filename, category string) (*model.BookingDocument, error) {
	args := m.Called(ctx, bookingID, caller, content, contentType, filename, category)
	var out *model.BookingDocument
	if args.Get(0) != nil {
		out = args.Get(0).(*model.BookingDocument)
	}
	return out, args.Error(1)
}

func (m *MockDocumentService) UpdateCategory(ctx context.Context, bookingID, documentID string, caller model.Identity, category string) error {
	args := m.Called(ctx, bookingID, documentID, caller, category)
	return args.Error(0)
}

func (m *MockDocumentService) Delete(ctx context.Context, bookingID, documentID string, caller model.Identity) error {
	args := m.Called(ctx, bookingID, documentID, caller)
	return args.Error(0)
}

func (m *MockDocumentService) UpdateItinerary(ctx context.Context, bookingID string, caller model.Identity, url string) error {
	args := m.Called(ctx, bookingID, caller, url)
	return args.Error(0)
}

func (m *MockDocumentService) SharedView(ctx context.Context, token string) (*service.SharedViewResult, error) {
	args := m.Called(ctx, token)
	var out *service.SharedViewResult
	if args.Get(0) != nil {
		out = args.Get(0).(*service.SharedViewResult)
	}
	return out, args.Error(1)
}

func (m *MockDocumentService) SharedDownload(ctx context.Context, token, documentID string) (*service.FileDownload, error) {
	args := m.Called(ctx, token, documentID)
	var out *service.FileDownload
	if args.Get(0) != nil {
		out = args.Get(0).(*service.FileDownload)
	}
	return out, args.Error(1)
}

func (m *MockDocumentService) SharedDownloadAll(ctx context.Context, token string) (*service.FileDownload, error) {
	args := m.Called(ctx, token)
	var out *service.FileDownload
	if args.Get(0) != nil {
		out = args.Get(0).(*service.FileDownload)
	}
	return out, args.Error(1)
}
