package impl

import (
	"context"
	"testing"
	"time"

	"reviewdesk/internal/domain/entity"
	domainerrors "reviewdesk/internal/domain/errors"
	"reviewdesk/internal/domain/repository"
	"reviewdesk/internal/domain/service"
	mockRepo "reviewdesk/internal/mocks/repository"
	mockService "reviewdesk/internal/mocks/service"
	"reviewdesk/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// reviewServiceFixtures holds all test dependencies for review service tests.
type reviewServiceFixtures struct {
	service    *reviewService
	tenantRepo *mockRepo.MockTenantRepository
	reviewRepo *mockRepo.MockReviewRepository
	tokens     *mockService.MockTokenAccessor
	gbp        *mockService.MockGBPClient
	publisher  *mockService.MockEventPublisher
	metrics    *recordingMetrics
	tenant     *entity.Tenant
	now        time.Time
}

func createTestReviewService(t *testing.T) reviewServiceFixtures {
	tenantRepo := mockRepo.NewMockTenantRepository(t)
	reviewRepo := mockRepo.NewMockReviewRepository(t)
	tokens := mockService.NewMockTokenAccessor(t)
	gbp := mockService.NewMockGBPClient(t)
	publisher := mockService.NewMockEventPublisher(t)
	metrics := newRecordingMetrics()
	now := time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)

	svc := &reviewService{
		googleAccess: googleAccess{
			tenantRepo: tenantRepo,
			tokens:     tokens,
			now:        func() time.Time { return now },
		},
		reviewRepo: reviewRepo,
		gbp:        gbp,
		publisher:  publisher,
		metrics:    metrics,
		logger:     newDiscardLogger(),
	}

	connectedAt := now.Add(-24 * time.Hour)
	tenant := &entity.Tenant{
		ID:              uuid.New(),
		Name:            "Corner Cafe",
		EncryptedTokens: "sealed",
		ConnectedAt:     &connectedAt,
		Location: &entity.SelectedLocation{
			AccountID:    "accounts/1",
			LocationID:   "locations/2",
			LocationName: "Corner Cafe Downtown",
		},
	}

	return reviewServiceFixtures{
		service:    svc,
		tenantRepo: tenantRepo,
		reviewRepo: reviewRepo,
		tokens:     tokens,
		gbp:        gbp,
		publisher:  publisher,
		metrics:    metrics,
		tenant:     tenant,
		now:        now,
	}
}

func (fx reviewServiceFixtures) expectTenantAndToken() {
	fx.tenantRepo.EXPECT().FindByID(mock.Anything, fx.tenant.ID).Return(fx.tenant, nil)
	fx.tokens.EXPECT().GetValidAccessToken(mock.Anything, "sealed").Return(&service.AccessToken{Token: "live-token"}, nil)
}

func reviewPage(next string, ids ...string) *entity.GBPReviewPage {
	page := &entity.GBPReviewPage{NextPageToken: next}
	for _, id := range ids {
		page.Reviews = append(page.Reviews, upstreamReview(id, nil))
	}

	return page
}

func TestReviewService_SyncReviews_FollowsPagesInOrder(t *testing.T) {
	fx := createTestReviewService(t)
	ctx := context.Background()
	fx.expectTenantAndToken()

	var order []string
	record := func(args mock.Arguments) { order = append(order, args.String(4)) }

	fx.gbp.EXPECT().ListReviews(mock.Anything, "live-token", "accounts/1", "locations/2", "").Run(record).Return(reviewPage("B", "r1", "r2"), nil).Once()
	fx.gbp.EXPECT().ListReviews(mock.Anything, "live-token", "accounts/1", "locations/2", "B").Run(record).Return(reviewPage("C", "r3"), nil).Once()
	fx.gbp.EXPECT().ListReviews(mock.Anything, "live-token", "accounts/1", "locations/2", "C").Run(record).Return(reviewPage("", "r4"), nil).Once()

	fx.reviewRepo.EXPECT().FindByExternalIDs(mock.Anything, fx.tenant.ID, mock.Anything).Return(map[string]*entity.CachedReview{}, nil).Times(3)
	fx.reviewRepo.EXPECT().UpsertBatch(mock.Anything, mock.Anything).Return(nil).Times(3)
	fx.tenantRepo.EXPECT().UpdateLastSyncedAt(mock.Anything, fx.tenant.ID, fx.now).Return(nil)
	fx.publisher.EXPECT().
		PublishReviewsSynced(mock.Anything, mock.MatchedBy(func(e *service.ReviewsSyncedEvent) bool {
			return e.TenantID == fx.tenant.ID.String() && e.Inserted == 4 && len(e.UnrepliedReviewIDs) == 4
		})).
		Return(nil)

	result, err := fx.service.SyncReviews(ctx, fx.tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "B", "C"}, order)
	assert.Equal(t, &usecase.SyncResult{Pages: 3, Fetched: 4, Inserted: 4}, result)
	assert.Equal(t, []string{syncOutcomeSuccess}, fx.metrics.syncs)
}

func TestReviewService_SyncReviews_SecondRunIsIdempotent(t *testing.T) {
	fx := createTestReviewService(t)
	ctx := context.Background()
	fx.expectTenantAndToken()

	scope := reviewScope{TenantID: fx.tenant.ID, AccountID: "accounts/1", LocationID: "locations/2"}
	page := &entity.GBPReviewPage{Reviews: []*entity.GBPReview{
		upstreamReview("r1", nil),
		upstreamReview("r2", &entity.GBPReviewReply{Comment: "Thanks", UpdateTime: mergeT1}),
	}}
	stored := map[string]*entity.CachedReview{}
	for _, review := range page.Reviews {
		stored[review.ReviewID] = cachedFrom(t, scope, review)
	}

	fx.gbp.EXPECT().ListReviews(mock.Anything, "live-token", "accounts/1", "locations/2", "").Return(page, nil)
	fx.reviewRepo.EXPECT().FindByExternalIDs(mock.Anything, fx.tenant.ID, []string{"r1", "r2"}).Return(stored, nil)
	fx.tenantRepo.EXPECT().UpdateLastSyncedAt(mock.Anything, fx.tenant.ID, mock.Anything).Return(nil)
	fx.publisher.EXPECT().PublishReviewsSynced(mock.Anything, mock.Anything).Return(nil)

	result, err := fx.service.SyncReviews(ctx, fx.tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Unchanged)
	assert.Zero(t, result.Inserted)
	assert.Zero(t, result.Updated)
	fx.reviewRepo.AssertNotCalled(t, "UpsertBatch", mock.Anything, mock.Anything)
}

func TestReviewService_SyncReviews_FailedBatchDoesNotStopSync(t *testing.T) {
	fx := createTestReviewService(t)
	ctx := context.Background()
	fx.expectTenantAndToken()

	fx.gbp.EXPECT().ListReviews(mock.Anything, mock.Anything, mock.Anything, mock.Anything, "").Return(reviewPage("B", "r1", "r2"), nil)
	fx.gbp.EXPECT().ListReviews(mock.Anything, mock.Anything, mock.Anything, mock.Anything, "B").Return(reviewPage("", "r3"), nil)
	fx.reviewRepo.EXPECT().FindByExternalIDs(mock.Anything, fx.tenant.ID, mock.Anything).Return(map[string]*entity.CachedReview{}, nil)
	fx.reviewRepo.EXPECT().
		UpsertBatch(mock.Anything, mock.MatchedBy(func(rows []*entity.CachedReview) bool { return len(rows) == 2 })).
		Return(errors.New("connection reset")).Once()
	fx.reviewRepo.EXPECT().
		UpsertBatch(mock.Anything, mock.MatchedBy(func(rows []*entity.CachedReview) bool { return len(rows) == 1 })).
		Return(nil).Once()
	fx.tenantRepo.EXPECT().UpdateLastSyncedAt(mock.Anything, fx.tenant.ID, mock.Anything).Return(nil)
	fx.publisher.EXPECT().PublishReviewsSynced(mock.Anything, mock.Anything).Return(errors.New("topic unavailable"))

	result, err := fx.service.SyncReviews(ctx, fx.tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Pages)
	assert.Equal(t, 3, result.Fetched)
	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 1, result.FailedBatches)
	assert.Equal(t, []string{syncOutcomePartial}, fx.metrics.syncs)
}

func TestReviewService_SyncReviews_RevokedTokenAborts(t *testing.T) {
	fx := createTestReviewService(t)
	ctx := context.Background()

	fx.tenantRepo.EXPECT().FindByID(mock.Anything, fx.tenant.ID).Return(fx.tenant, nil)
	fx.tokens.EXPECT().GetValidAccessToken(mock.Anything, "sealed").Return(nil, domainerrors.ErrTokenExpiredOrRevoked)
	fx.tenantRepo.EXPECT().MarkReauthRequired(mock.Anything, fx.tenant.ID, fx.now).Return(nil)

	result, err := fx.service.SyncReviews(ctx, fx.tenant.ID)
	assert.Nil(t, result)
	require.Error(t, err)
	assert.Equal(t, domainerrors.KindReauthRequired, domainerrors.KindOf(err))
	assert.Equal(t, []string{syncOutcomeReauth}, fx.metrics.syncs)
	fx.gbp.AssertNotCalled(t, "ListReviews", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewService_SyncReviews_TokenRejectedMidPagination(t *testing.T) {
	fx := createTestReviewService(t)
	ctx := context.Background()
	fx.expectTenantAndToken()

	fx.gbp.EXPECT().ListReviews(mock.Anything, mock.Anything, mock.Anything, mock.Anything, "").Return(reviewPage("B", "r1"), nil)
	fx.gbp.EXPECT().ListReviews(mock.Anything, mock.Anything, mock.Anything, mock.Anything, "B").
		Return(nil, domainerrors.ErrTokenExpiredOrRevoked.WrapMessage("reviews rejected the access token"))
	fx.reviewRepo.EXPECT().FindByExternalIDs(mock.Anything, fx.tenant.ID, []string{"r1"}).Return(map[string]*entity.CachedReview{}, nil)
	fx.reviewRepo.EXPECT().UpsertBatch(mock.Anything, mock.Anything).Return(nil).Once()
	fx.tenantRepo.EXPECT().MarkReauthRequired(mock.Anything, fx.tenant.ID, fx.now).Return(nil).Once()

	_, err := fx.service.SyncReviews(ctx, fx.tenant.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrTokenExpiredOrRevoked))
	assert.Equal(t, entity.ConnectionReauthRequired, fx.tenant.ConnectionState())
	assert.Equal(t, []string{syncOutcomeReauth}, fx.metrics.syncs)
	fx.tenantRepo.AssertNotCalled(t, "UpdateLastSyncedAt", mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewService_SyncReviews_AlreadyReauthRequiredIsNotRemarked(t *testing.T) {
	fx := createTestReviewService(t)
	marked := fx.now.Add(-time.Hour)
	fx.tenant.ReauthRequiredAt = &marked
	fx.expectTenantAndToken()

	fx.gbp.EXPECT().ListReviews(mock.Anything, mock.Anything, mock.Anything, mock.Anything, "").
		Return(nil, domainerrors.ErrTokenExpiredOrRevoked)

	_, err := fx.service.SyncReviews(context.Background(), fx.tenant.ID)
	require.Error(t, err)
	assert.Equal(t, &marked, fx.tenant.ReauthRequiredAt)
	fx.tenantRepo.AssertNotCalled(t, "MarkReauthRequired", mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewService_SyncReviews_PersistsRefreshedBlob(t *testing.T) {
	fx := createTestReviewService(t)
	ctx := context.Background()

	fx.tenantRepo.EXPECT().FindByID(mock.Anything, fx.tenant.ID).Return(fx.tenant, nil)
	fx.tokens.EXPECT().GetValidAccessToken(mock.Anything, "sealed").Return(&service.AccessToken{Token: "fresh", UpdatedBlob: "resealed"}, nil)
	fx.tenantRepo.EXPECT().UpdateTokens(mock.Anything, fx.tenant.ID, "resealed").Return(errors.New("write failed"))
	fx.gbp.EXPECT().ListReviews(mock.Anything, "fresh", "accounts/1", "locations/2", "").Return(reviewPage(""), nil)
	fx.tenantRepo.EXPECT().UpdateLastSyncedAt(mock.Anything, fx.tenant.ID, mock.Anything).Return(nil)
	fx.publisher.EXPECT().PublishReviewsSynced(mock.Anything, mock.Anything).Return(nil)

	result, err := fx.service.SyncReviews(ctx, fx.tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Pages)
}

func TestReviewService_SyncReviews_Preconditions(t *testing.T) {
	t.Run("not connected", func(t *testing.T) {
		fx := createTestReviewService(t)
		fx.tenant.EncryptedTokens = ""
		fx.tenantRepo.EXPECT().FindByID(mock.Anything, fx.tenant.ID).Return(fx.tenant, nil)

		_, err := fx.service.SyncReviews(context.Background(), fx.tenant.ID)
		assert.True(t, errors.Is(err, domainerrors.ErrNotConnected))
		assert.Equal(t, domainerrors.KindPrecondition, domainerrors.KindOf(err))
	})

	t.Run("no location", func(t *testing.T) {
		fx := createTestReviewService(t)
		fx.tenant.Location = nil
		fx.tenantRepo.EXPECT().FindByID(mock.Anything, fx.tenant.ID).Return(fx.tenant, nil)

		_, err := fx.service.SyncReviews(context.Background(), fx.tenant.ID)
		assert.True(t, errors.Is(err, domainerrors.ErrNoLocationSelected))
	})

	t.Run("unknown tenant", func(t *testing.T) {
		fx := createTestReviewService(t)
		fx.tenantRepo.EXPECT().FindByID(mock.Anything, fx.tenant.ID).Return(nil, repository.ErrTenantNotFound)

		_, err := fx.service.SyncReviews(context.Background(), fx.tenant.ID)
		assert.Equal(t, domainerrors.KindNotFound, domainerrors.KindOf(err))
	})
}

func storedReview(fx reviewServiceFixtures) *entity.CachedReview {
	return &entity.CachedReview{
		ID:               uuid.New(),
		TenantID:         fx.tenant.ID,
		AccountID:        "accounts/1",
		LocationID:       "locations/2",
		ExternalReviewID: "r9",
		ReviewerName:     "Ana",
		StarRating:       4,
		ReplySource:      entity.ReplySourceNone,
	}
}

func TestReviewService_PublishReply(t *testing.T) {
	fx := createTestReviewService(t)
	ctx := context.Background()
	review := storedReview(fx)
	fx.expectTenantAndToken()

	fx.reviewRepo.EXPECT().FindByID(mock.Anything, fx.tenant.ID, review.ID).Return(review, nil)
	fx.gbp.EXPECT().ReplyToReview(mock.Anything, "live-token", "accounts/1/locations/2/reviews/r9", "Thank you!").Return(nil).Once()
	fx.reviewRepo.EXPECT().
		UpdateReply(mock.Anything, mock.MatchedBy(func(r *entity.CachedReview) bool {
			return r.ID == review.ID &&
				*r.ReplyText == "Thank you!" &&
				r.ReplySource == entity.ReplySourceThisSystem &&
				*r.GenerationID == "gen-7" &&
				r.ReplyUpdatedAt.Equal(fx.now)
		})).
		Return(nil).Once()

	updated, err := fx.service.PublishReply(ctx, fx.tenant.ID, &usecase.PublishReplyInput{
		ReviewID:     review.ID,
		Text:         "  Thank you!  ",
		GenerationID: strPtr("gen-7"),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ReplySourceThisSystem, updated.ReplySource)
	assert.Equal(t, []string{replyActionPublished}, fx.metrics.replies)
}

func TestReviewService_PublishReply_RejectsBlankText(t *testing.T) {
	fx := createTestReviewService(t)

	_, err := fx.service.PublishReply(context.Background(), fx.tenant.ID, &usecase.PublishReplyInput{ReviewID: uuid.New(), Text: " \n\t"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestReviewService_PublishReply_LocalWriteFailureStillSucceeds(t *testing.T) {
	fx := createTestReviewService(t)
	review := storedReview(fx)
	fx.expectTenantAndToken()

	fx.reviewRepo.EXPECT().FindByID(mock.Anything, fx.tenant.ID, review.ID).Return(review, nil)
	fx.gbp.EXPECT().ReplyToReview(mock.Anything, "live-token", review.ResourceName(), "Thanks").Return(nil)
	fx.reviewRepo.EXPECT().UpdateReply(mock.Anything, mock.Anything).Return(errors.New("db down"))

	updated, err := fx.service.PublishReply(context.Background(), fx.tenant.ID, &usecase.PublishReplyInput{ReviewID: review.ID, Text: "Thanks"})
	require.NoError(t, err)
	assert.Equal(t, "Thanks", *updated.ReplyText)
}

func TestReviewService_PublishReply_UpstreamFailureLeavesCache(t *testing.T) {
	fx := createTestReviewService(t)
	review := storedReview(fx)
	fx.expectTenantAndToken()

	fx.reviewRepo.EXPECT().FindByID(mock.Anything, fx.tenant.ID, review.ID).Return(review, nil)
	fx.gbp.EXPECT().ReplyToReview(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(domainerrors.NewUpstreamError("review_reply", 500, "{}", nil))

	_, err := fx.service.PublishReply(context.Background(), fx.tenant.ID, &usecase.PublishReplyInput{ReviewID: review.ID, Text: "Thanks"})
	require.Error(t, err)
	assert.Equal(t, domainerrors.KindRetryable, domainerrors.KindOf(err))
	assert.Equal(t, []string{"review_reply"}, fx.metrics.upstream)
	fx.reviewRepo.AssertNotCalled(t, "UpdateReply", mock.Anything, mock.Anything)
}

func TestReviewService_ReplyRejectedByGoogleMarksReauth(t *testing.T) {
	tests := []struct {
		name string
		call func(fx reviewServiceFixtures, review *entity.CachedReview) error
	}{
		{
			name: "publish",
			call: func(fx reviewServiceFixtures, review *entity.CachedReview) error {
				fx.gbp.EXPECT().ReplyToReview(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return(domainerrors.ErrTokenExpiredOrRevoked)
				_, err := fx.service.PublishReply(context.Background(), fx.tenant.ID, &usecase.PublishReplyInput{ReviewID: review.ID, Text: "Thanks"})

				return err
			},
		},
		{
			name: "delete",
			call: func(fx reviewServiceFixtures, review *entity.CachedReview) error {
				fx.gbp.EXPECT().DeleteReviewReply(mock.Anything, mock.Anything, mock.Anything).
					Return(domainerrors.ErrTokenExpiredOrRevoked)

				return fx.service.DeleteReply(context.Background(), fx.tenant.ID, review.ID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestReviewService(t)
			review := storedReview(fx)
			fx.expectTenantAndToken()
			fx.reviewRepo.EXPECT().FindByID(mock.Anything, fx.tenant.ID, review.ID).Return(review, nil)
			fx.tenantRepo.EXPECT().MarkReauthRequired(mock.Anything, fx.tenant.ID, fx.now).Return(nil).Once()

			err := tt.call(fx, review)

			assert.Equal(t, domainerrors.KindReauthRequired, domainerrors.KindOf(err))
			assert.Equal(t, entity.ConnectionReauthRequired, fx.tenant.ConnectionState())
			fx.reviewRepo.AssertNotCalled(t, "UpdateReply", mock.Anything, mock.Anything)
		})
	}
}

func TestReviewService_PublishReply_FallsBackToSelectedLocation(t *testing.T) {
	fx := createTestReviewService(t)
	review := storedReview(fx)
	review.AccountID = ""
	review.LocationID = ""
	fx.expectTenantAndToken()

	fx.reviewRepo.EXPECT().FindByID(mock.Anything, fx.tenant.ID, review.ID).Return(review, nil)
	fx.gbp.EXPECT().ReplyToReview(mock.Anything, "live-token", "accounts/1/locations/2/reviews/r9", "Thanks").Return(nil)
	fx.reviewRepo.EXPECT().UpdateReply(mock.Anything, mock.Anything).Return(nil)

	_, err := fx.service.PublishReply(context.Background(), fx.tenant.ID, &usecase.PublishReplyInput{ReviewID: review.ID, Text: "Thanks"})
	require.NoError(t, err)
}

func TestReviewService_PublishReply_UnknownReview(t *testing.T) {
	fx := createTestReviewService(t)
	reviewID := uuid.New()

	fx.tenantRepo.EXPECT().FindByID(mock.Anything, fx.tenant.ID).Return(fx.tenant, nil)
	fx.reviewRepo.EXPECT().FindByID(mock.Anything, fx.tenant.ID, reviewID).Return(nil, repository.ErrReviewNotFound)

	_, err := fx.service.PublishReply(context.Background(), fx.tenant.ID, &usecase.PublishReplyInput{ReviewID: reviewID, Text: "Thanks"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrReviewNotFound))
}

func TestReviewService_DeleteReply(t *testing.T) {
	fx := createTestReviewService(t)
	review := storedReview(fx)
	thisSystemReply(review, "Old reply", mergeT0)
	fx.expectTenantAndToken()

	fx.reviewRepo.EXPECT().FindByID(mock.Anything, fx.tenant.ID, review.ID).Return(review, nil)
	fx.gbp.EXPECT().DeleteReviewReply(mock.Anything, "live-token", "accounts/1/locations/2/reviews/r9").Return(nil)
	fx.reviewRepo.EXPECT().
		UpdateReply(mock.Anything, mock.MatchedBy(func(r *entity.CachedReview) bool {
			return r.ReplyText == nil && r.ReplyUpdatedAt == nil && r.GenerationID == nil && r.ReplySource == entity.ReplySourceNone
		})).
		Return(nil)

	require.NoError(t, fx.service.DeleteReply(context.Background(), fx.tenant.ID, review.ID))
	assert.Equal(t, []string{replyActionDeleted}, fx.metrics.replies)
}

func TestReviewService_ListCachedReviews(t *testing.T) {
	fx := createTestReviewService(t)
	syncedAt := fx.now.Add(-time.Hour)
	fx.tenant.LastSyncedAt = &syncedAt
	fx.tenantRepo.EXPECT().FindByID(mock.Anything, fx.tenant.ID).Return(fx.tenant, nil)

	want := entity.ReviewQuery{
		AccountID:  fx.tenant.Location.AccountID,
		LocationID: fx.tenant.Location.LocationID,
		Reply:      entity.ReplyFilterUnreplied,
		Page:       1,
		PerPage:    defaultReviewsPerPage,
	}
	fx.reviewRepo.EXPECT().List(mock.Anything, fx.tenant.ID, want).Return([]*entity.CachedReview{storedReview(fx)}, int64(41), nil)

	out, err := fx.service.ListCachedReviews(context.Background(), fx.tenant.ID, &usecase.ListReviewsInput{Filter: entity.ReplyFilterUnreplied})
	require.NoError(t, err)
	assert.Len(t, out.Reviews, 1)
	assert.Equal(t, int64(41), out.Total)
	assert.Equal(t, 1, out.Page)
	assert.Equal(t, &syncedAt, out.LastSyncedAt)
}

func TestNormalizeReviewQuery_Rejects(t *testing.T) {
	_, err := normalizeReviewQuery(&usecase.ListReviewsInput{Filter: "pending"})
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))

	_, err = normalizeReviewQuery(&usecase.ListReviewsInput{Rating: 6})
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))

	query, err := normalizeReviewQuery(&usecase.ListReviewsInput{Page: 3, PerPage: 500})
	require.NoError(t, err)
	assert.Equal(t, entity.ReplyFilterAll, query.Reply)
	assert.Equal(t, maxReviewsPerPage, query.PerPage)
}
