// Package mocks provides testify mocks for the domain interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"lintgate.dev/pkg/lintgate/internal/domain"
	m "lintgate.dev/pkg/lintgate/internal/model"
)

// MockWorkflow is a mock of domain.Workflow.
type MockWorkflow struct {
	mock.Mock
}

// NewMockWorkflow creates a mock and registers expectation checks on cleanup.
func NewMockWorkflow(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockWorkflow {
	mockWorkflow := &MockWorkflow{}
	mockWorkflow.Mock.Test(t)

	t.Cleanup(func() { mockWorkflow.AssertExpectations(t) })

	return mockWorkflow
}

// Check provides a mock function.
func (_m *MockWorkflow) Check(ctx context.Context, args domain.CheckArgs) (m.RunResult, error) {
	ret := _m.Called(ctx, args)

	var result m.RunResult
	if v := ret.Get(0); v != nil {
		result = v.(m.RunResult)
	}

	return result, ret.Error(1)
}

// List provides a mock function.
func (_m *MockWorkflow) List(ctx context.Context, args domain.ScanArgs) error {
	ret := _m.Called(ctx, args)

	return ret.Error(0)
}

// Prune provides a mock function.
func (_m *MockWorkflow) Prune(ctx context.Context, args domain.PruneArgs) ([]m.Path, error) {
	ret := _m.Called(ctx, args)

	var removed []m.Path
	if v := ret.Get(0); v != nil {
		removed = v.([]m.Path)
	}

	return removed, ret.Error(1)
}
