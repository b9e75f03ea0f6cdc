package repository

import (
	"context"
	"testing"

	"reviewdesk/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockReviewRepository is a mock of repository.ReviewRepository.
type MockReviewRepository struct {
	mock.Mock
}

func NewMockReviewRepository(t testing.TB) *MockReviewRepository {
	m := &MockReviewRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

type MockReviewRepositoryExpecter struct {
	mock *mock.Mock
}

func (m *MockReviewRepository) EXPECT() *MockReviewRepositoryExpecter {
	return &MockReviewRepositoryExpecter{mock: &m.Mock}
}

func (m *MockReviewRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*entity.CachedReview, error) {
	args := m.Called(ctx, tenantID, id)
	review, _ := args.Get(0).(*entity.CachedReview)

	return review, args.Error(1)
}

func (e *MockReviewRepositoryExpecter) FindByID(ctx, tenantID, id any) *mock.Call {
	return e.mock.On("FindByID", ctx, tenantID, id)
}

func (m *MockReviewRepository) FindByExternalIDs(ctx context.Context, tenantID uuid.UUID, externalIDs []string) (map[string]*entity.CachedReview, error) {
	args := m.Called(ctx, tenantID, externalIDs)
	found, _ := args.Get(0).(map[string]*entity.CachedReview)

	return found, args.Error(1)
}

func (e *MockReviewRepositoryExpecter) FindByExternalIDs(ctx, tenantID, externalIDs any) *mock.Call {
	return e.mock.On("FindByExternalIDs", ctx, tenantID, externalIDs)
}

func (m *MockReviewRepository) UpsertBatch(ctx context.Context, reviews []*entity.CachedReview) error {
	return m.Called(ctx, reviews).Error(0)
}

func (e *MockReviewRepositoryExpecter) UpsertBatch(ctx, reviews any) *mock.Call {
	return e.mock.On("UpsertBatch", ctx, reviews)
}

func (m *MockReviewRepository) UpdateReply(ctx context.Context, review *entity.CachedReview) error {
	return m.Called(ctx, review).Error(0)
}

func (e *MockReviewRepositoryExpecter) UpdateReply(ctx, review any) *mock.Call {
	return e.mock.On("UpdateReply", ctx, review)
}

func (m *MockReviewRepository) List(ctx context.Context, tenantID uuid.UUID, query entity.ReviewQuery) ([]*entity.CachedReview, int64, error) {
	args := m.Called(ctx, tenantID, query)
	reviews, _ := args.Get(0).([]*entity.CachedReview)

	return reviews, args.Get(1).(int64), args.Error(2)
}

func (e *MockReviewRepositoryExpecter) List(ctx, tenantID, query any) *mock.Call {
	return e.mock.On("List", ctx, tenantID, query)
}
