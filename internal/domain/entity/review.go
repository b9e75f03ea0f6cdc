package entity

import (
	"time"

	"github.com/google/uuid"
)

// ReplySource records who wrote the reply currently cached for a review.
type ReplySource string

const (
	ReplySourceNone       ReplySource = "none"
	ReplySourceExternal   ReplySource = "external"
	ReplySourceThisSystem ReplySource = "this-system"
)

// CachedReview is the local copy of a Google review. (TenantID,
// ExternalReviewID) is unique. AccountID and LocationID pin the listing the
// review came from, so replies still route there after the tenant switches
// location.
type CachedReview struct {
	ID               uuid.UUID
	TenantID         uuid.UUID
	AccountID        string
	LocationID       string
	ExternalReviewID string
	ReviewerName     string
	ReviewerPhotoURL *string
	StarRating       int // 0 when Google reports an unknown rating
	Comment          *string
	ReviewCreatedAt  time.Time
	ReviewUpdatedAt  time.Time
	ReplyText        *string
	ReplyUpdatedAt   *time.Time
	ReplySource      ReplySource
	GenerationID     *string // Draft that produced the reply, only for this-system replies.
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ReviewResourceName composes the Google resource name of a review.
func ReviewResourceName(accountID, locationID, externalReviewID string) string {
	return accountID + "/" + locationID + "/reviews/" + externalReviewID
}

func (r *CachedReview) ResourceName() string {
	return ReviewResourceName(r.AccountID, r.LocationID, r.ExternalReviewID)
}

func (r *CachedReview) HasReply() bool {
	return r.ReplyText != nil
}

// ReplyFilter narrows a cached review listing by reply presence.
type ReplyFilter string

const (
	ReplyFilterAll       ReplyFilter = "all"
	ReplyFilterUnreplied ReplyFilter = "unreplied"
	ReplyFilterReplied   ReplyFilter = "replied"
)

// ReviewQuery selects a page of cached reviews, newest first.
type ReviewQuery struct {
	AccountID  string // empty LocationID matches any listing
	LocationID string
	Reply      ReplyFilter
	Rating     int // 1..5, 0 for any
	Page       int // 1-based
	PerPage    int
}
