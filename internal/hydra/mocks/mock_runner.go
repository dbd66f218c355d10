package mocks

import (
	"context"

	"hydraapi/internal/hydra"

	"github.com/stretchr/testify/mock"
)

type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) Run(ctx context.Context, cmd hydra.Command) (*hydra.Execution, error) {
	args := m.Called(ctx, cmd)
	if f, ok := args.Get(0).(func(context.Context, hydra.Command) *hydra.Execution); ok {
		return f(ctx, cmd), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hydra.Execution), args.Error(1)
}
