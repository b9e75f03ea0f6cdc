package model

import (
	"time"

	"github.com/google/uuid"
)

// CachedReviewModel mirrors the 'cached_reviews' table.
type CachedReviewModel struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key"`
	TenantID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_cached_reviews_tenant_external;index:idx_cached_reviews_tenant_created,priority:1"`
	AccountID        string     `gorm:"type:varchar(255);not null"`
	LocationID       string     `gorm:"type:varchar(255);not null"`
	ExternalReviewID string     `gorm:"type:varchar(255);not null;uniqueIndex:idx_cached_reviews_tenant_external"`
	ReviewerName     string     `gorm:"type:varchar(255);not null"`
	ReviewerPhotoURL *string    `gorm:"column:reviewer_photo_url;type:text"`
	StarRating       int        `gorm:"type:smallint;not null"`
	Comment          *string    `gorm:"type:text"`
	ReviewCreatedAt  time.Time  `gorm:"not null;index:idx_cached_reviews_tenant_created,priority:2,sort:desc"`
	ReviewUpdatedAt  time.Time  `gorm:"not null"`
	ReplyText        *string    `gorm:"type:text"`
	ReplyUpdatedAt   *time.Time
	ReplySource      string  `gorm:"type:varchar(20);not null;default:none"`
	GenerationID     *string `gorm:"type:varchar(255)"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName explicitly sets the table name for GORM.
func (CachedReviewModel) TableName() string {
	return "cached_reviews"
}
