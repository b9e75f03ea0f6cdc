package postgres

import (
	"context"

	"reviewdesk/internal/domain/entity"
	domainerrors "reviewdesk/internal/domain/errors"
	"reviewdesk/internal/domain/repository"
	"reviewdesk/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Columns refreshed from Google on conflict. id, tenant_id, account_id,
// location_id and created_at keep their first values.
var reviewUpsertColumns = []string{
	"reviewer_name",
	"reviewer_photo_url",
	"star_rating",
	"comment",
	"review_created_at",
	"review_updated_at",
	"updated_at",
}

var reviewReplyColumns = []string{
	"reply_text",
	"reply_updated_at",
	"reply_source",
	"generation_id",
}

// replyPublishedSinceRead holds when a reply published through this service
// landed after the sync read the row: the stored reply is newer than anything
// the merged row could have been based on.
const replyPublishedSinceRead = "cached_reviews.reply_source = 'this-system' AND " +
	"cached_reviews.reply_updated_at > COALESCE(excluded.reply_updated_at, excluded.review_updated_at)"

// reviewUpsertConflict refreshes upstream fields unconditionally and the reply
// columns unless a concurrent publish would be overwritten by a stale merge.
func reviewUpsertConflict() clause.OnConflict {
	updates := clause.AssignmentColumns(reviewUpsertColumns)
	for _, column := range reviewReplyColumns {
		updates = append(updates, clause.Assignment{
			Column: clause.Column{Name: column},
			Value: clause.Expr{
				SQL: "CASE WHEN " + replyPublishedSinceRead +
					" THEN cached_reviews." + column + " ELSE excluded." + column + " END",
			},
		})
	}

	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "external_review_id"}},
		DoUpdates: updates,
	}
}

// reviewRepository implements repository.ReviewRepository.
type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

func (repo *reviewRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*entity.CachedReview, error) {
	var reviewM model.CachedReviewModel
	err := repo.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&reviewM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrReviewNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find review")
	}

	return toReviewDomain(&reviewM), nil
}

func (repo *reviewRepository) FindByExternalIDs(ctx context.Context, tenantID uuid.UUID, externalIDs []string) (map[string]*entity.CachedReview, error) {
	found := make(map[string]*entity.CachedReview, len(externalIDs))
	if len(externalIDs) == 0 {
		return found, nil
	}

	var reviewMs []*model.CachedReviewModel
	err := repo.db.WithContext(ctx).
		Where("tenant_id = ? AND external_review_id IN ?", tenantID, externalIDs).
		Find(&reviewMs).Error
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to load cached reviews")
	}

	for _, reviewM := range reviewMs {
		found[reviewM.ExternalReviewID] = toReviewDomain(reviewM)
	}

	return found, nil
}

func (repo *reviewRepository) UpsertBatch(ctx context.Context, reviews []*entity.CachedReview) error {
	if len(reviews) == 0 {
		return nil
	}

	reviewMs := make([]*model.CachedReviewModel, 0, len(reviews))
	for _, review := range reviews {
		reviewMs = append(reviewMs, fromReviewDomain(review))
	}

	err := repo.db.WithContext(ctx).
		Clauses(reviewUpsertConflict()).
		Create(&reviewMs).Error
	if err != nil {
		if isCheckConstraintViolation(err) || isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("cached review violates table constraints")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to upsert cached reviews")
	}

	return nil
}

func (repo *reviewRepository) UpdateReply(ctx context.Context, review *entity.CachedReview) error {
	result := repo.db.WithContext(ctx).
		Model(&model.CachedReviewModel{}).
		Where("id = ? AND tenant_id = ?", review.ID, review.TenantID).
		Updates(map[string]any{
			"reply_text":       review.ReplyText,
			"reply_updated_at": review.ReplyUpdatedAt,
			"reply_source":     string(review.ReplySource),
			"generation_id":    review.GenerationID,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update review reply")
	}
	if result.RowsAffected == 0 {
		return repository.ErrReviewNotFound
	}

	return nil
}

func (repo *reviewRepository) List(ctx context.Context, tenantID uuid.UUID, query entity.ReviewQuery) ([]*entity.CachedReview, int64, error) {
	scope := repo.db.WithContext(ctx).
		Model(&model.CachedReviewModel{}).
		Where("tenant_id = ?", tenantID)

	if query.LocationID != "" {
		scope = scope.Where("account_id = ? AND location_id = ?", query.AccountID, query.LocationID)
	}

	switch query.Reply {
	case entity.ReplyFilterUnreplied:
		scope = scope.Where("reply_text IS NULL")
	case entity.ReplyFilterReplied:
		scope = scope.Where("reply_text IS NOT NULL")
	}
	if query.Rating > 0 {
		scope = scope.Where("star_rating = ?", query.Rating)
	}

	var total int64
	if err := scope.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, domainerrors.NewDatabaseExecuteError(err, "failed to count cached reviews")
	}

	var reviewMs []*model.CachedReviewModel
	err := scope.
		Order("review_created_at DESC").
		Offset((query.Page - 1) * query.PerPage).
		Limit(query.PerPage).
		Find(&reviewMs).Error
	if err != nil {
		return nil, 0, domainerrors.NewDatabaseExecuteError(err, "failed to list cached reviews")
	}

	reviews := make([]*entity.CachedReview, 0, len(reviewMs))
	for _, reviewM := range reviewMs {
		reviews = append(reviews, toReviewDomain(reviewM))
	}

	return reviews, total, nil
}
