package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	deliverycontext "reviewdesk/internal/delivery/context"
	"reviewdesk/internal/domain/entity"
	domainerrors "reviewdesk/internal/domain/errors"
	"reviewdesk/internal/domain/repository"
	"reviewdesk/internal/domain/service"
	"reviewdesk/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	defaultReviewsPerPage = 20
	maxReviewsPerPage     = 100
)

const (
	syncOutcomeSuccess = "success"
	syncOutcomePartial = "partial"
	syncOutcomeReauth  = "reauth_required"
	syncOutcomeFailed  = "failed"

	replyActionPublished = "published"
	replyActionDeleted   = "deleted"
)

// reviewService implements the ReviewUsecase interface.
type reviewService struct {
	googleAccess

	reviewRepo repository.ReviewRepository
	gbp        service.GBPClient
	publisher  service.EventPublisher
	metrics    service.MetricsRecorder
	logger     *slog.Logger
}

// ReviewServiceParams holds dependencies for the review service, injected by Fx.
type ReviewServiceParams struct {
	fx.In

	TenantRepo     repository.TenantRepository
	ReviewRepo     repository.ReviewRepository
	TokenAccessor  service.TokenAccessor
	GBP            service.GBPClient
	EventPublisher service.EventPublisher
	Metrics        service.MetricsRecorder
	Logger         *slog.Logger
}

func NewReviewService(params ReviewServiceParams) usecase.ReviewUsecase {
	return &reviewService{
		googleAccess: googleAccess{
			tenantRepo: params.TenantRepo,
			tokens:     params.TokenAccessor,
			now:        time.Now,
		},
		reviewRepo: params.ReviewRepo,
		gbp:        params.GBP,
		publisher:  params.EventPublisher,
		metrics:    params.Metrics,
		logger:     params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *reviewService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// SyncReviews walks every page of the selected location in order. Each page is
// merged and written on its own, so pages written before a failure stay.
func (srv *reviewService) SyncReviews(ctx context.Context, tenantID uuid.UUID) (*usecase.SyncResult, error) {
	tenant, err := srv.connectedTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !tenant.HasLocation() {
		return nil, errors.Wrap(domainerrors.ErrNoLocationSelected, "sync reviews")
	}

	token, err := srv.accessToken(ctx, srv.log(ctx), tenant)
	if err != nil {
		srv.metrics.SyncFinished(syncFailureOutcome(err))

		return nil, err
	}

	scope := reviewScope{
		TenantID:   tenant.ID,
		AccountID:  tenant.Location.AccountID,
		LocationID: tenant.Location.LocationID,
	}
	result := &usecase.SyncResult{}
	var unreplied []string

	seenTokens := make(map[string]struct{})
	pageToken := ""
	for {
		page, err := srv.gbp.ListReviews(ctx, token, scope.AccountID, scope.LocationID, pageToken)
		if err != nil {
			recordUpstreamFailure(srv.metrics, err)
			srv.markIfRevoked(ctx, srv.log(ctx), tenant, err)
			srv.metrics.SyncFinished(syncFailureOutcome(err))
			srv.log(ctx).Error("Review sync aborted",
				slog.Any("tenantID", tenantID),
				slog.Int("pages", result.Pages),
				slog.Int("fetched", result.Fetched),
				slog.Any("error", err),
			)

			return nil, errors.Wrapf(err, "failed to fetch review page %d", result.Pages+1)
		}
		result.Pages++
		result.Fetched += len(page.Reviews)

		unreplied = append(unreplied, srv.mergePage(ctx, scope, page.Reviews, result)...)

		if page.NextPageToken == "" {
			break
		}
		if _, seen := seenTokens[page.NextPageToken]; seen {
			srv.log(ctx).Warn("Google repeated a review page token, stopping", slog.Any("tenantID", tenantID))

			break
		}
		seenTokens[page.NextPageToken] = struct{}{}
		pageToken = page.NextPageToken
	}

	syncedAt := srv.now().UTC()
	if err := srv.tenantRepo.UpdateLastSyncedAt(ctx, tenantID, syncedAt); err != nil {
		srv.log(ctx).Warn("Failed to record sync time", slog.Any("tenantID", tenantID), slog.Any("error", err))
	}

	if result.FailedBatches > 0 {
		srv.metrics.SyncFinished(syncOutcomePartial)
	} else {
		srv.metrics.SyncFinished(syncOutcomeSuccess)
	}

	srv.publishSynced(ctx, scope, result, unreplied, syncedAt)

	srv.log(ctx).Info("Review sync finished",
		slog.Any("tenantID", tenantID),
		slog.Int("pages", result.Pages),
		slog.Int("fetched", result.Fetched),
		slog.Int("inserted", result.Inserted),
		slog.Int("updated", result.Updated),
		slog.Int("unchanged", result.Unchanged),
		slog.Int("failedBatches", result.FailedBatches),
	)

	return result, nil
}

// mergePage merges and upserts one page. Failures are counted, not returned.
// It returns the IDs of inserted rows without a reply.
//
// Sync and publish take no lock. A publish landing between the read and the
// upsert is kept by the repository's conflict guard on the reply columns;
// any other interleaving is settled by the reply timestamps on the next sync.
func (srv *reviewService) mergePage(ctx context.Context, scope reviewScope, reviews []*entity.GBPReview, result *usecase.SyncResult) []string {
	unique := dedupeReviews(reviews)
	if len(unique) == 0 {
		return nil
	}

	externalIDs := make([]string, 0, len(unique))
	for _, review := range unique {
		externalIDs = append(externalIDs, review.ReviewID)
	}

	existing, err := srv.reviewRepo.FindByExternalIDs(ctx, scope.TenantID, externalIDs)
	if err != nil {
		result.FailedBatches++
		srv.log(ctx).Error("Failed to load cached reviews for page", slog.Any("tenantID", scope.TenantID), slog.Any("error", err))

		return nil
	}

	var (
		rows                        []*entity.CachedReview
		inserted, updated, unchanged int
		unreplied                   []string
	)
	for _, review := range unique {
		row, action := mergeReview(scope, existing[review.ReviewID], review)
		switch action {
		case mergeInserted:
			inserted++
			if !row.HasReply() {
				unreplied = append(unreplied, row.ID.String())
			}
		case mergeUpdated:
			updated++
		case mergeUnchanged:
			unchanged++

			continue
		}
		rows = append(rows, row)
	}

	result.Unchanged += unchanged
	srv.metrics.ReviewsMerged(string(mergeUnchanged), unchanged)
	if len(rows) == 0 {
		return nil
	}

	if err := srv.reviewRepo.UpsertBatch(ctx, rows); err != nil {
		result.FailedBatches++
		srv.log(ctx).Error("Failed to upsert review page",
			slog.Any("tenantID", scope.TenantID),
			slog.Int("rows", len(rows)),
			slog.Any("error", err),
		)

		return nil
	}

	result.Inserted += inserted
	result.Updated += updated
	srv.metrics.ReviewsMerged(string(mergeInserted), inserted)
	srv.metrics.ReviewsMerged(string(mergeUpdated), updated)

	return unreplied
}

// dedupeReviews keeps the last occurrence of each review ID on a page and
// drops entries without one.
func dedupeReviews(reviews []*entity.GBPReview) []*entity.GBPReview {
	index := make(map[string]int, len(reviews))
	unique := make([]*entity.GBPReview, 0, len(reviews))
	for _, review := range reviews {
		if review == nil || review.ReviewID == "" {
			continue
		}
		if i, ok := index[review.ReviewID]; ok {
			unique[i] = review

			continue
		}
		index[review.ReviewID] = len(unique)
		unique = append(unique, review)
	}

	return unique
}

func (srv *reviewService) publishSynced(ctx context.Context, scope reviewScope, result *usecase.SyncResult, unreplied []string, syncedAt time.Time) {
	event := &service.ReviewsSyncedEvent{
		RequestID:          deliverycontext.GetRequestIDFromContext(ctx),
		TenantID:           scope.TenantID.String(),
		AccountID:          scope.AccountID,
		LocationID:         scope.LocationID,
		Fetched:            result.Fetched,
		Inserted:           result.Inserted,
		Updated:            result.Updated,
		UnrepliedReviewIDs: unreplied,
		SyncedAt:           syncedAt.Format(time.RFC3339),
	}
	if event.UnrepliedReviewIDs == nil {
		event.UnrepliedReviewIDs = []string{}
	}

	if err := srv.publisher.PublishReviewsSynced(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish reviews synced event", slog.Any("tenantID", scope.TenantID), slog.Any("error", err))
	}
}

func syncFailureOutcome(err error) string {
	if errors.Is(err, domainerrors.ErrTokenExpiredOrRevoked) {
		return syncOutcomeReauth
	}

	return syncOutcomeFailed
}

// PublishReply posts the reply and records it as this system's. The local
// write happens once, after Google accepted the reply.
func (srv *reviewService) PublishReply(ctx context.Context, tenantID uuid.UUID, input *usecase.PublishReplyInput) (*entity.CachedReview, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("reply text is required")
	}

	tenant, review, err := srv.loadReviewForReply(ctx, tenantID, input.ReviewID)
	if err != nil {
		return nil, err
	}

	token, err := srv.accessToken(ctx, srv.log(ctx), tenant)
	if err != nil {
		return nil, err
	}

	if err := srv.gbp.ReplyToReview(ctx, token, review.ResourceName(), text); err != nil {
		recordUpstreamFailure(srv.metrics, err)
		srv.markIfRevoked(ctx, srv.log(ctx), tenant, err)

		return nil, errors.Wrap(err, "failed to publish reply")
	}

	at := srv.now().UTC().Truncate(time.Microsecond)
	review.ReplyText = &text
	review.ReplyUpdatedAt = &at
	review.ReplySource = entity.ReplySourceThisSystem
	review.GenerationID = input.GenerationID

	srv.metrics.ReplyChanged(replyActionPublished)
	if err := srv.reviewRepo.UpdateReply(ctx, review); err != nil {
		// Google already has the reply; the next sync brings it back.
		srv.log(ctx).Error("Reply published but not cached",
			slog.Any("tenantID", tenantID),
			slog.Any("reviewID", review.ID),
			slog.Any("error", err),
		)
	}

	srv.log(ctx).Info("Reply published", slog.Any("tenantID", tenantID), slog.Any("reviewID", review.ID))

	return review, nil
}

func (srv *reviewService) DeleteReply(ctx context.Context, tenantID, reviewID uuid.UUID) error {
	tenant, review, err := srv.loadReviewForReply(ctx, tenantID, reviewID)
	if err != nil {
		return err
	}

	token, err := srv.accessToken(ctx, srv.log(ctx), tenant)
	if err != nil {
		return err
	}

	if err := srv.gbp.DeleteReviewReply(ctx, token, review.ResourceName()); err != nil {
		recordUpstreamFailure(srv.metrics, err)
		srv.markIfRevoked(ctx, srv.log(ctx), tenant, err)

		return errors.Wrap(err, "failed to delete reply")
	}

	review.ReplyText = nil
	review.ReplyUpdatedAt = nil
	review.ReplySource = entity.ReplySourceNone
	review.GenerationID = nil

	srv.metrics.ReplyChanged(replyActionDeleted)
	if err := srv.reviewRepo.UpdateReply(ctx, review); err != nil {
		srv.log(ctx).Error("Reply deleted but cache not cleared",
			slog.Any("tenantID", tenantID),
			slog.Any("reviewID", review.ID),
			slog.Any("error", err),
		)
	}

	return nil
}

// loadReviewForReply resolves the tenant and the review, and makes sure the
// review can be routed to a listing. Rows carry their own listing; the
// tenant's selection only fills in when a row lacks one.
func (srv *reviewService) loadReviewForReply(ctx context.Context, tenantID, reviewID uuid.UUID) (*entity.Tenant, *entity.CachedReview, error) {
	tenant, err := srv.connectedTenant(ctx, tenantID)
	if err != nil {
		return nil, nil, err
	}

	review, err := srv.reviewRepo.FindByID(ctx, tenantID, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, nil, errors.Wrap(domainerrors.ErrReviewNotFound, "reply target")
		}

		return nil, nil, errors.Wrap(err, "failed to load review")
	}

	if review.AccountID == "" || review.LocationID == "" {
		if !tenant.HasLocation() {
			return nil, nil, errors.Wrap(domainerrors.ErrNoLocationSelected, "reply target has no listing")
		}
		review.AccountID = tenant.Location.AccountID
		review.LocationID = tenant.Location.LocationID
	}

	return tenant, review, nil
}

func (srv *reviewService) ListCachedReviews(ctx context.Context, tenantID uuid.UUID, input *usecase.ListReviewsInput) (*usecase.ListReviewsOutput, error) {
	query, err := normalizeReviewQuery(input)
	if err != nil {
		return nil, err
	}

	tenant, err := srv.connectedTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !tenant.HasLocation() {
		return nil, errors.Wrap(domainerrors.ErrNoLocationSelected, "list reviews")
	}
	query.AccountID = tenant.Location.AccountID
	query.LocationID = tenant.Location.LocationID

	reviews, total, err := srv.reviewRepo.List(ctx, tenantID, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list cached reviews")
	}

	return &usecase.ListReviewsOutput{
		Reviews:      reviews,
		Total:        total,
		Page:         query.Page,
		PerPage:      query.PerPage,
		LastSyncedAt: tenant.LastSyncedAt,
	}, nil
}

func normalizeReviewQuery(input *usecase.ListReviewsInput) (entity.ReviewQuery, error) {
	query := entity.ReviewQuery{
		Reply:   input.Filter,
		Rating:  input.Rating,
		Page:    input.Page,
		PerPage: input.PerPage,
	}

	switch query.Reply {
	case "":
		query.Reply = entity.ReplyFilterAll
	case entity.ReplyFilterAll, entity.ReplyFilterUnreplied, entity.ReplyFilterReplied:
	default:
		return query, domainerrors.ErrValidationFailed.WrapMessage("filter must be all, unreplied or replied")
	}
	if query.Rating < 0 || query.Rating > 5 {
		return query, domainerrors.ErrValidationFailed.WrapMessage("rating must be between 1 and 5")
	}
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PerPage < 1 {
		query.PerPage = defaultReviewsPerPage
	}
	if query.PerPage > maxReviewsPerPage {
		query.PerPage = maxReviewsPerPage
	}

	return query, nil
}
