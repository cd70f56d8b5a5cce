// Package mocks provides testify mocks for the controller interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"lintgate.dev/pkg/lintgate/internal/controller"
	m "lintgate.dev/pkg/lintgate/internal/model"
)

// MockUI is a mock of controller.UI.
type MockUI struct {
	mock.Mock
}

// NewMockUI creates a mock and registers expectation checks on cleanup.
func NewMockUI(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUI {
	mockUI := &MockUI{}
	mockUI.Mock.Test(t)

	t.Cleanup(func() { mockUI.AssertExpectations(t) })

	return mockUI
}

// Start provides a mock function.
func (_m *MockUI) Start(ctx context.Context, options ...controller.StartOption) error {
	ret := _m.Called(ctx, options)

	return ret.Error(0)
}

// Close provides a mock function.
func (_m *MockUI) Close(ctx context.Context) {
	_m.Called(ctx)
}

// DisplayRunInfo provides a mock function.
func (_m *MockUI) DisplayRunInfo(ctx context.Context, files int, threads int) {
	_m.Called(ctx, files, threads)
}

// DisplayCompletedCheck provides a mock function.
func (_m *MockUI) DisplayCompletedCheck(ctx context.Context, outcome m.CheckOutcome) {
	_m.Called(ctx, outcome)
}

// DisplaySummary provides a mock function.
func (_m *MockUI) DisplaySummary(ctx context.Context, result m.RunResult) {
	_m.Called(ctx, result)
}

// DisplayCandidates provides a mock function.
func (_m *MockUI) DisplayCandidates(ctx context.Context, candidates []m.Candidate) error {
	ret := _m.Called(ctx, candidates)

	return ret.Error(0)
}

// DisplayPruned provides a mock function.
func (_m *MockUI) DisplayPruned(ctx context.Context, removed []m.Path) {
	_m.Called(ctx, removed)
}
