package service

import (
	"context"

	"reviewdesk/internal/domain/entity"
)

// GBPClient talks to the Google Business Profile APIs with a caller-supplied
// access token.
type GBPClient interface {
	ListAccounts(ctx context.Context, accessToken string) ([]*entity.GBPAccount, error)
	ListLocations(ctx context.Context, accessToken, accountID string) ([]*entity.GBPLocation, error)
	ListReviews(ctx context.Context, accessToken, accountID, locationID, pageToken string) (*entity.GBPReviewPage, error)
	ReplyToReview(ctx context.Context, accessToken, reviewName, comment string) error
	DeleteReviewReply(ctx context.Context, accessToken, reviewName string) error
}
