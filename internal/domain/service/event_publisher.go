package service

import (
	"context"
)

// ReviewsSyncedEvent is emitted after a sync so downstream consumers can draft
// replies for new reviews.
type ReviewsSyncedEvent struct {
	RequestID          string   `json:"request_id,omitempty"` // For distributed tracing
	TenantID           string   `json:"tenant_id"`
	AccountID          string   `json:"account_id"`
	LocationID         string   `json:"location_id"`
	Fetched            int      `json:"fetched"`
	Inserted           int      `json:"inserted"`
	Updated            int      `json:"updated"`
	UnrepliedReviewIDs []string `json:"unreplied_review_ids"`
	SyncedAt           string   `json:"synced_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishReviewsSynced publishes a sync summary for async processing
	PublishReviewsSynced(ctx context.Context, event *ReviewsSyncedEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
