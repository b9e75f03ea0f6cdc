// Package service holds testify mocks of the domain service ports.
package service

import (
	"context"
	"testing"

	"reviewdesk/internal/domain/entity"
	"reviewdesk/internal/domain/service"

	"github.com/stretchr/testify/mock"
)

// MockTokenCipher is a mock of service.TokenCipher.
type MockTokenCipher struct {
	mock.Mock
}

func NewMockTokenCipher(t testing.TB) *MockTokenCipher {
	m := &MockTokenCipher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

type MockTokenCipherExpecter struct {
	mock *mock.Mock
}

func (m *MockTokenCipher) EXPECT() *MockTokenCipherExpecter {
	return &MockTokenCipherExpecter{mock: &m.Mock}
}

func (m *MockTokenCipher) Seal(bundle *entity.OAuthTokenBundle) (string, error) {
	args := m.Called(bundle)

	return args.String(0), args.Error(1)
}

func (e *MockTokenCipherExpecter) Seal(bundle any) *mock.Call {
	return e.mock.On("Seal", bundle)
}

func (m *MockTokenCipher) Open(blob string) (*entity.OAuthTokenBundle, error) {
	args := m.Called(blob)
	bundle, _ := args.Get(0).(*entity.OAuthTokenBundle)

	return bundle, args.Error(1)
}

func (e *MockTokenCipherExpecter) Open(blob any) *mock.Call {
	return e.mock.On("Open", blob)
}

// MockOAuthFlow is a mock of service.OAuthFlow.
type MockOAuthFlow struct {
	mock.Mock
}

func NewMockOAuthFlow(t testing.TB) *MockOAuthFlow {
	m := &MockOAuthFlow{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

type MockOAuthFlowExpecter struct {
	mock *mock.Mock
}

func (m *MockOAuthFlow) EXPECT() *MockOAuthFlowExpecter {
	return &MockOAuthFlowExpecter{mock: &m.Mock}
}

func (m *MockOAuthFlow) BuildAuthorizationURL(state string) string {
	return m.Called(state).String(0)
}

func (e *MockOAuthFlowExpecter) BuildAuthorizationURL(state any) *mock.Call {
	return e.mock.On("BuildAuthorizationURL", state)
}

func (m *MockOAuthFlow) ExchangeCode(ctx context.Context, code string) (*entity.OAuthTokenBundle, error) {
	args := m.Called(ctx, code)
	bundle, _ := args.Get(0).(*entity.OAuthTokenBundle)

	return bundle, args.Error(1)
}

func (e *MockOAuthFlowExpecter) ExchangeCode(ctx, code any) *mock.Call {
	return e.mock.On("ExchangeCode", ctx, code)
}

func (m *MockOAuthFlow) Refresh(ctx context.Context, refreshToken string) (*entity.RefreshedToken, error) {
	args := m.Called(ctx, refreshToken)
	token, _ := args.Get(0).(*entity.RefreshedToken)

	return token, args.Error(1)
}

func (e *MockOAuthFlowExpecter) Refresh(ctx, refreshToken any) *mock.Call {
	return e.mock.On("Refresh", ctx, refreshToken)
}

// MockTokenAccessor is a mock of service.TokenAccessor.
type MockTokenAccessor struct {
	mock.Mock
}

func NewMockTokenAccessor(t testing.TB) *MockTokenAccessor {
	m := &MockTokenAccessor{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

type MockTokenAccessorExpecter struct {
	mock *mock.Mock
}

func (m *MockTokenAccessor) EXPECT() *MockTokenAccessorExpecter {
	return &MockTokenAccessorExpecter{mock: &m.Mock}
}

func (m *MockTokenAccessor) GetValidAccessToken(ctx context.Context, blob string) (*service.AccessToken, error) {
	args := m.Called(ctx, blob)
	token, _ := args.Get(0).(*service.AccessToken)

	return token, args.Error(1)
}

func (e *MockTokenAccessorExpecter) GetValidAccessToken(ctx, blob any) *mock.Call {
	return e.mock.On("GetValidAccessToken", ctx, blob)
}
