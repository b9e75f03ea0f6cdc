package repository

import (
	"context"

	"reviewdesk/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrReviewNotFound is returned when a review does not exist for the tenant.
var ErrReviewNotFound = errors.New("review not found")

// ReviewRepository persists cached reviews.
type ReviewRepository interface {
	// FindByID looks a review up within the tenant's scope only.
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*entity.CachedReview, error)

	// FindByExternalIDs returns the tenant's rows keyed by ExternalReviewID.
	FindByExternalIDs(ctx context.Context, tenantID uuid.UUID, externalIDs []string) (map[string]*entity.CachedReview, error)

	// UpsertBatch inserts or updates rows on (tenant_id, external_review_id)
	// in one statement. ID, AccountID and LocationID of existing rows are kept.
	UpsertBatch(ctx context.Context, reviews []*entity.CachedReview) error

	// UpdateReply writes only the reply columns of one row.
	UpdateReply(ctx context.Context, review *entity.CachedReview) error

	List(ctx context.Context, tenantID uuid.UUID, query entity.ReviewQuery) ([]*entity.CachedReview, int64, error)
}
