package usecase

import (
	"context"
	"time"

	"reviewdesk/internal/domain/entity"

	"github.com/google/uuid"
)

// SyncResult counts what one sync did.
type SyncResult struct {
	Pages         int `json:"pages"`
	Fetched       int `json:"fetched"`
	Inserted      int `json:"inserted"`
	Updated       int `json:"updated"`
	Unchanged     int `json:"unchanged"`
	FailedBatches int `json:"failedBatches"`
}

// PublishReplyInput is a reply to post on a cached review.
type PublishReplyInput struct {
	ReviewID     uuid.UUID
	Text         string
	GenerationID *string // Draft the text came from, if any.
}

// ListReviewsInput selects a page of cached reviews.
type ListReviewsInput struct {
	Filter  entity.ReplyFilter
	Rating  int
	Page    int
	PerPage int
}

// ListReviewsOutput is one page of cached reviews.
type ListReviewsOutput struct {
	Reviews      []*entity.CachedReview
	Total        int64
	Page         int
	PerPage      int
	LastSyncedAt *time.Time
}

// ReviewUsecase defines the review sync and reply use cases
type ReviewUsecase interface {
	// SyncReviews pulls every review page of the selected location into the cache
	SyncReviews(ctx context.Context, tenantID uuid.UUID) (*SyncResult, error)

	// PublishReply posts a reply to Google and records it locally
	PublishReply(ctx context.Context, tenantID uuid.UUID, input *PublishReplyInput) (*entity.CachedReview, error)

	// DeleteReply removes the reply on Google and clears it locally
	DeleteReply(ctx context.Context, tenantID, reviewID uuid.UUID) error

	// ListCachedReviews reads the cache only
	ListCachedReviews(ctx context.Context, tenantID uuid.UUID, input *ListReviewsInput) (*ListReviewsOutput, error)
}
