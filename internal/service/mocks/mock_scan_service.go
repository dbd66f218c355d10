package mocks

import (
	"context"
	"io"

	"hydraapi/internal/model"
	"hydraapi/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockScanService struct {
	mock.Mock
}

func (m *MockScanService) Run(ctx context.Context, req service.ScanRequest) (*model.Scan, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Scan), args.Error(1)
}

func (m *MockScanService) List(ctx context.Context, limit, offset int) (*service.ScanListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ScanListResult), args.Error(1)
}

func (m *MockScanService) Get(ctx context.Context, id string) (*model.Scan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Scan), args.Error(1)
}

func (m *MockScanService) Output(ctx context.Context, id string) (io.ReadCloser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockScanService) ExportURL(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockScanService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
