// Package repository holds testify mocks of the domain repositories.
package repository

import (
	"context"
	"testing"
	"time"

	"reviewdesk/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockTenantRepository is a mock of repository.TenantRepository.
type MockTenantRepository struct {
	mock.Mock
}

// NewMockTenantRepository creates a mock whose expectations are asserted when the test ends.
func NewMockTenantRepository(t testing.TB) *MockTenantRepository {
	m := &MockTenantRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// MockTenantRepositoryExpecter registers expectations by method name.
type MockTenantRepositoryExpecter struct {
	mock *mock.Mock
}

func (m *MockTenantRepository) EXPECT() *MockTenantRepositoryExpecter {
	return &MockTenantRepositoryExpecter{mock: &m.Mock}
}

func (m *MockTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Tenant, error) {
	args := m.Called(ctx, id)
	tenant, _ := args.Get(0).(*entity.Tenant)

	return tenant, args.Error(1)
}

func (e *MockTenantRepositoryExpecter) FindByID(ctx, id any) *mock.Call {
	return e.mock.On("FindByID", ctx, id)
}

func (m *MockTenantRepository) SaveConnection(ctx context.Context, id uuid.UUID, encryptedTokens string, connectedAt time.Time) error {
	return m.Called(ctx, id, encryptedTokens, connectedAt).Error(0)
}

func (e *MockTenantRepositoryExpecter) SaveConnection(ctx, id, encryptedTokens, connectedAt any) *mock.Call {
	return e.mock.On("SaveConnection", ctx, id, encryptedTokens, connectedAt)
}

func (m *MockTenantRepository) UpdateTokens(ctx context.Context, id uuid.UUID, encryptedTokens string) error {
	return m.Called(ctx, id, encryptedTokens).Error(0)
}

func (e *MockTenantRepositoryExpecter) UpdateTokens(ctx, id, encryptedTokens any) *mock.Call {
	return e.mock.On("UpdateTokens", ctx, id, encryptedTokens)
}

func (m *MockTenantRepository) MarkReauthRequired(ctx context.Context, id uuid.UUID, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func (e *MockTenantRepositoryExpecter) MarkReauthRequired(ctx, id, at any) *mock.Call {
	return e.mock.On("MarkReauthRequired", ctx, id, at)
}

func (m *MockTenantRepository) ClearConnection(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (e *MockTenantRepositoryExpecter) ClearConnection(ctx, id any) *mock.Call {
	return e.mock.On("ClearConnection", ctx, id)
}

func (m *MockTenantRepository) UpdateSelectedLocation(ctx context.Context, id uuid.UUID, location *entity.SelectedLocation) error {
	return m.Called(ctx, id, location).Error(0)
}

func (e *MockTenantRepositoryExpecter) UpdateSelectedLocation(ctx, id, location any) *mock.Call {
	return e.mock.On("UpdateSelectedLocation", ctx, id, location)
}

func (m *MockTenantRepository) UpdateLastSyncedAt(ctx context.Context, id uuid.UUID, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func (e *MockTenantRepositoryExpecter) UpdateLastSyncedAt(ctx, id, at any) *mock.Call {
	return e.mock.On("UpdateLastSyncedAt", ctx, id, at)
}
