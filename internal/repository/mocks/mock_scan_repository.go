package mocks

import (
	"context"

	"hydraapi/internal/model"
	"hydraapi/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockScanRepository struct {
	mock.Mock
}

func (m *MockScanRepository) Create(ctx context.Context, scan *model.Scan) (*model.Scan, error) {
	args := m.Called(ctx, scan)
	if f, ok := args.Get(0).(func(context.Context, *model.Scan) *model.Scan); ok {
		return f(ctx, scan), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Scan), args.Error(1)
}

func (m *MockScanRepository) FindByID(ctx context.Context, id string) (*model.Scan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Scan), args.Error(1)
}

func (m *MockScanRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Scan], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Scan]), args.Error(1)
}

func (m *MockScanRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
