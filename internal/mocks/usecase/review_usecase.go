package usecase

import (
	"context"
	"testing"

	"reviewdesk/internal/domain/entity"
	"reviewdesk/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockReviewUsecase is a mock of usecase.ReviewUsecase.
type MockReviewUsecase struct {
	mock.Mock
}

func NewMockReviewUsecase(t testing.TB) *MockReviewUsecase {
	m := &MockReviewUsecase{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

type MockReviewUsecaseExpecter struct {
	mock *mock.Mock
}

func (m *MockReviewUsecase) EXPECT() *MockReviewUsecaseExpecter {
	return &MockReviewUsecaseExpecter{mock: &m.Mock}
}

func (m *MockReviewUsecase) SyncReviews(ctx context.Context, tenantID uuid.UUID) (*usecase.SyncResult, error) {
	args := m.Called(ctx, tenantID)
	result, _ := args.Get(0).(*usecase.SyncResult)

	return result, args.Error(1)
}

func (e *MockReviewUsecaseExpecter) SyncReviews(ctx, tenantID any) *mock.Call {
	return e.mock.On("SyncReviews", ctx, tenantID)
}

func (m *MockReviewUsecase) PublishReply(ctx context.Context, tenantID uuid.UUID, input *usecase.PublishReplyInput) (*entity.CachedReview, error) {
	args := m.Called(ctx, tenantID, input)
	review, _ := args.Get(0).(*entity.CachedReview)

	return review, args.Error(1)
}

func (e *MockReviewUsecaseExpecter) PublishReply(ctx, tenantID, input any) *mock.Call {
	return e.mock.On("PublishReply", ctx, tenantID, input)
}

func (m *MockReviewUsecase) DeleteReply(ctx context.Context, tenantID, reviewID uuid.UUID) error {
	return m.Called(ctx, tenantID, reviewID).Error(0)
}

func (e *MockReviewUsecaseExpecter) DeleteReply(ctx, tenantID, reviewID any) *mock.Call {
	return e.mock.On("DeleteReply", ctx, tenantID, reviewID)
}

func (m *MockReviewUsecase) ListCachedReviews(ctx context.Context, tenantID uuid.UUID, input *usecase.ListReviewsInput) (*usecase.ListReviewsOutput, error) {
	args := m.Called(ctx, tenantID, input)
	out, _ := args.Get(0).(*usecase.ListReviewsOutput)

	return out, args.Error(1)
}

func (e *MockReviewUsecaseExpecter) ListCachedReviews(ctx, tenantID, input any) *mock.Call {
	return e.mock.On("ListCachedReviews", ctx, tenantID, input)
}
