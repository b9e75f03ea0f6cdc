package postgres

import (
	"time"

	"reviewdesk/internal/domain/entity"
	"reviewdesk/internal/infra/persistence/model"
)

func toTenantDomain(m *model.TenantModel) *entity.Tenant {
	tenant := &entity.Tenant{
		ID:               m.ID,
		Name:             m.Name,
		EncryptedTokens:  deref(m.GoogleTokensEncrypted),
		ConnectedAt:      m.GoogleConnectedAt,
		ReauthRequiredAt: m.GoogleReauthAt,
		LastSyncedAt:     m.ReviewsLastSyncedAt,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}

	if m.GoogleAccountID != nil || m.GoogleLocationID != nil {
		tenant.Location = &entity.SelectedLocation{
			AccountID:    deref(m.GoogleAccountID),
			LocationID:   deref(m.GoogleLocationID),
			LocationName: deref(m.GoogleLocationName),
		}
	}

	return tenant
}

func toReviewDomain(m *model.CachedReviewModel) *entity.CachedReview {
	return &entity.CachedReview{
		ID:               m.ID,
		TenantID:         m.TenantID,
		AccountID:        m.AccountID,
		LocationID:       m.LocationID,
		ExternalReviewID: m.ExternalReviewID,
		ReviewerName:     m.ReviewerName,
		ReviewerPhotoURL: m.ReviewerPhotoURL,
		StarRating:       m.StarRating,
		Comment:          m.Comment,
		ReviewCreatedAt:  m.ReviewCreatedAt.UTC(),
		ReviewUpdatedAt:  m.ReviewUpdatedAt.UTC(),
		ReplyText:        m.ReplyText,
		ReplyUpdatedAt:   utcPtr(m.ReplyUpdatedAt),
		ReplySource:      entity.ReplySource(m.ReplySource),
		GenerationID:     m.GenerationID,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func fromReviewDomain(r *entity.CachedReview) *model.CachedReviewModel {
	return &model.CachedReviewModel{
		ID:               r.ID,
		TenantID:         r.TenantID,
		AccountID:        r.AccountID,
		LocationID:       r.LocationID,
		ExternalReviewID: r.ExternalReviewID,
		ReviewerName:     r.ReviewerName,
		ReviewerPhotoURL: r.ReviewerPhotoURL,
		StarRating:       r.StarRating,
		Comment:          r.Comment,
		ReviewCreatedAt:  r.ReviewCreatedAt,
		ReviewUpdatedAt:  r.ReviewUpdatedAt,
		ReplyText:        r.ReplyText,
		ReplyUpdatedAt:   r.ReplyUpdatedAt,
		ReplySource:      string(r.ReplySource),
		GenerationID:     r.GenerationID,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()

	return &utc
}
