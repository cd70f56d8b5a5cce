// Package mocks provides testify mocks for the adapter interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"lintgate.dev/pkg/lintgate/internal/adapter"
	m "lintgate.dev/pkg/lintgate/internal/model"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockSourceFSAdapter is a mock of adapter.SourceFSAdapter.
type MockSourceFSAdapter struct {
	mock.Mock
}

// NewMockSourceFSAdapter creates a mock and registers expectation checks on cleanup.
func NewMockSourceFSAdapter(t testingT) *MockSourceFSAdapter {
	mockAdapter := &MockSourceFSAdapter{}
	mockAdapter.Mock.Test(t)

	t.Cleanup(func() { mockAdapter.AssertExpectations(t) })

	return mockAdapter
}

// Walk provides a mock function.
func (_m *MockSourceFSAdapter) Walk(ctx context.Context, roots []m.Path, opts adapter.WalkOptions) ([]m.Path, error) {
	ret := _m.Called(ctx, roots, opts)

	var paths []m.Path
	if v := ret.Get(0); v != nil {
		paths = v.([]m.Path)
	}

	return paths, ret.Error(1)
}

// HashFile provides a mock function.
func (_m *MockSourceFSAdapter) HashFile(ctx context.Context, path m.Path, hasher adapter.Hasher) (m.Digest, error) {
	ret := _m.Called(ctx, path, hasher)

	return ret.Get(0).(m.Digest), ret.Error(1)
}

// Exists provides a mock function.
func (_m *MockSourceFSAdapter) Exists(ctx context.Context, path m.Path) (bool, error) {
	ret := _m.Called(ctx, path)

	return ret.Bool(0), ret.Error(1)
}

// MockRegistryStore is a mock of adapter.RegistryStore.
type MockRegistryStore struct {
	mock.Mock
}

// NewMockRegistryStore creates a mock and registers expectation checks on cleanup.
func NewMockRegistryStore(t testingT) *MockRegistryStore {
	mockStore := &MockRegistryStore{}
	mockStore.Mock.Test(t)

	t.Cleanup(func() { mockStore.AssertExpectations(t) })

	return mockStore
}

// Load provides a mock function.
func (_m *MockRegistryStore) Load(ctx context.Context, path m.Path) (*m.Registry, error) {
	ret := _m.Called(ctx, path)

	var registry *m.Registry
	if v := ret.Get(0); v != nil {
		registry = v.(*m.Registry)
	}

	return registry, ret.Error(1)
}

// Save provides a mock function.
func (_m *MockRegistryStore) Save(ctx context.Context, path m.Path, registry *m.Registry) error {
	ret := _m.Called(ctx, path, registry)

	return ret.Error(0)
}

// MockCheckerAdapter is a mock of adapter.CheckerAdapter.
type MockCheckerAdapter struct {
	mock.Mock
}

// NewMockCheckerAdapter creates a mock and registers expectation checks on cleanup.
func NewMockCheckerAdapter(t testingT) *MockCheckerAdapter {
	mockChecker := &MockCheckerAdapter{}
	mockChecker.Mock.Test(t)

	t.Cleanup(func() { mockChecker.AssertExpectations(t) })

	return mockChecker
}

// RunChecker provides a mock function.
func (_m *MockCheckerAdapter) RunChecker(ctx context.Context, command []string, args []string) (string, error) {
	ret := _m.Called(ctx, command, args)

	return ret.String(0), ret.Error(1)
}

// MockReportStore is a mock of adapter.ReportStore.
type MockReportStore struct {
	mock.Mock
}

// NewMockReportStore creates a mock and registers expectation checks on cleanup.
func NewMockReportStore(t testingT) *MockReportStore {
	mockStore := &MockReportStore{}
	mockStore.Mock.Test(t)

	t.Cleanup(func() { mockStore.AssertExpectations(t) })

	return mockStore
}

// SaveReport provides a mock function.
func (_m *MockReportStore) SaveReport(ctx context.Context, path m.Path, result m.RunResult) error {
	ret := _m.Called(ctx, path, result)

	return ret.Error(0)
}
