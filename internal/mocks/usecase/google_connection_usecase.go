// Package usecase holds testify mocks of the application use cases.
package usecase

import (
	"context"
	"testing"

	"reviewdesk/internal/domain/entity"
	"reviewdesk/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockGoogleConnectionUsecase is a mock of usecase.GoogleConnectionUsecase.
type MockGoogleConnectionUsecase struct {
	mock.Mock
}

func NewMockGoogleConnectionUsecase(t testing.TB) *MockGoogleConnectionUsecase {
	m := &MockGoogleConnectionUsecase{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

type MockGoogleConnectionUsecaseExpecter struct {
	mock *mock.Mock
}

func (m *MockGoogleConnectionUsecase) EXPECT() *MockGoogleConnectionUsecaseExpecter {
	return &MockGoogleConnectionUsecaseExpecter{mock: &m.Mock}
}

func (m *MockGoogleConnectionUsecase) InitiateConnect(ctx context.Context, tenantID uuid.UUID) (*usecase.ConnectInitiation, error) {
	args := m.Called(ctx, tenantID)
	initiation, _ := args.Get(0).(*usecase.ConnectInitiation)

	return initiation, args.Error(1)
}

func (e *MockGoogleConnectionUsecaseExpecter) InitiateConnect(ctx, tenantID any) *mock.Call {
	return e.mock.On("InitiateConnect", ctx, tenantID)
}

func (m *MockGoogleConnectionUsecase) CompleteConnect(ctx context.Context, tenantID uuid.UUID, input *usecase.CompleteConnectInput) error {
	return m.Called(ctx, tenantID, input).Error(0)
}

func (e *MockGoogleConnectionUsecaseExpecter) CompleteConnect(ctx, tenantID, input any) *mock.Call {
	return e.mock.On("CompleteConnect", ctx, tenantID, input)
}

func (m *MockGoogleConnectionUsecase) Disconnect(ctx context.Context, tenantID uuid.UUID) error {
	return m.Called(ctx, tenantID).Error(0)
}

func (e *MockGoogleConnectionUsecaseExpecter) Disconnect(ctx, tenantID any) *mock.Call {
	return e.mock.On("Disconnect", ctx, tenantID)
}

func (m *MockGoogleConnectionUsecase) GetStatus(ctx context.Context, tenantID uuid.UUID) (*usecase.ConnectionStatus, error) {
	args := m.Called(ctx, tenantID)
	status, _ := args.Get(0).(*usecase.ConnectionStatus)

	return status, args.Error(1)
}

func (e *MockGoogleConnectionUsecaseExpecter) GetStatus(ctx, tenantID any) *mock.Call {
	return e.mock.On("GetStatus", ctx, tenantID)
}

func (m *MockGoogleConnectionUsecase) ListAvailableAccounts(ctx context.Context, tenantID uuid.UUID) ([]*entity.GBPAccount, error) {
	args := m.Called(ctx, tenantID)
	accounts, _ := args.Get(0).([]*entity.GBPAccount)

	return accounts, args.Error(1)
}

func (e *MockGoogleConnectionUsecaseExpecter) ListAvailableAccounts(ctx, tenantID any) *mock.Call {
	return e.mock.On("ListAvailableAccounts", ctx, tenantID)
}

func (m *MockGoogleConnectionUsecase) ListAvailableLocations(ctx context.Context, tenantID uuid.UUID, accountID string) ([]*entity.GBPLocation, error) {
	args := m.Called(ctx, tenantID, accountID)
	locations, _ := args.Get(0).([]*entity.GBPLocation)

	return locations, args.Error(1)
}

func (e *MockGoogleConnectionUsecaseExpecter) ListAvailableLocations(ctx, tenantID, accountID any) *mock.Call {
	return e.mock.On("ListAvailableLocations", ctx, tenantID, accountID)
}

func (m *MockGoogleConnectionUsecase) SelectLocation(ctx context.Context, tenantID uuid.UUID, input *usecase.SelectLocationInput) error {
	return m.Called(ctx, tenantID, input).Error(0)
}

func (e *MockGoogleConnectionUsecaseExpecter) SelectLocation(ctx, tenantID, input any) *mock.Call {
	return e.mock.On("SelectLocation", ctx, tenantID, input)
}
