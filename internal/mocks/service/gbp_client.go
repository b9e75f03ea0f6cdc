package service

import (
	"context"
	"testing"

	"reviewdesk/internal/domain/entity"
	"reviewdesk/internal/domain/service"

	"github.com/stretchr/testify/mock"
)

// MockGBPClient is a mock of service.GBPClient.
type MockGBPClient struct {
	mock.Mock
}

func NewMockGBPClient(t testing.TB) *MockGBPClient {
	m := &MockGBPClient{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

type MockGBPClientExpecter struct {
	mock *mock.Mock
}

func (m *MockGBPClient) EXPECT() *MockGBPClientExpecter {
	return &MockGBPClientExpecter{mock: &m.Mock}
}

func (m *MockGBPClient) ListAccounts(ctx context.Context, accessToken string) ([]*entity.GBPAccount, error) {
	args := m.Called(ctx, accessToken)
	accounts, _ := args.Get(0).([]*entity.GBPAccount)

	return accounts, args.Error(1)
}

func (e *MockGBPClientExpecter) ListAccounts(ctx, accessToken any) *mock.Call {
	return e.mock.On("ListAccounts", ctx, accessToken)
}

func (m *MockGBPClient) ListLocations(ctx context.Context, accessToken, accountID string) ([]*entity.GBPLocation, error) {
	args := m.Called(ctx, accessToken, accountID)
	locations, _ := args.Get(0).([]*entity.GBPLocation)

	return locations, args.Error(1)
}

func (e *MockGBPClientExpecter) ListLocations(ctx, accessToken, accountID any) *mock.Call {
	return e.mock.On("ListLocations", ctx, accessToken, accountID)
}

func (m *MockGBPClient) ListReviews(ctx context.Context, accessToken, accountID, locationID, pageToken string) (*entity.GBPReviewPage, error) {
	args := m.Called(ctx, accessToken, accountID, locationID, pageToken)
	page, _ := args.Get(0).(*entity.GBPReviewPage)

	return page, args.Error(1)
}

func (e *MockGBPClientExpecter) ListReviews(ctx, accessToken, accountID, locationID, pageToken any) *mock.Call {
	return e.mock.On("ListReviews", ctx, accessToken, accountID, locationID, pageToken)
}

func (m *MockGBPClient) ReplyToReview(ctx context.Context, accessToken, reviewName, comment string) error {
	return m.Called(ctx, accessToken, reviewName, comment).Error(0)
}

func (e *MockGBPClientExpecter) ReplyToReview(ctx, accessToken, reviewName, comment any) *mock.Call {
	return e.mock.On("ReplyToReview", ctx, accessToken, reviewName, comment)
}

func (m *MockGBPClient) DeleteReviewReply(ctx context.Context, accessToken, reviewName string) error {
	return m.Called(ctx, accessToken, reviewName).Error(0)
}

func (e *MockGBPClientExpecter) DeleteReviewReply(ctx, accessToken, reviewName any) *mock.Call {
	return e.mock.On("DeleteReviewReply", ctx, accessToken, reviewName)
}

// MockEventPublisher is a mock of service.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

func NewMockEventPublisher(t testing.TB) *MockEventPublisher {
	m := &MockEventPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

type MockEventPublisherExpecter struct {
	mock *mock.Mock
}

func (m *MockEventPublisher) EXPECT() *MockEventPublisherExpecter {
	return &MockEventPublisherExpecter{mock: &m.Mock}
}

func (m *MockEventPublisher) PublishReviewsSynced(ctx context.Context, event *service.ReviewsSyncedEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (e *MockEventPublisherExpecter) PublishReviewsSynced(ctx, event any) *mock.Call {
	return e.mock.On("PublishReviewsSynced", ctx, event)
}

func (m *MockEventPublisher) Close() error {
	return m.Called().Error(0)
}

func (e *MockEventPublisherExpecter) Close() *mock.Call {
	return e.mock.On("Close")
}
