package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"reviewdesk/internal/delivery/api/middleware"
	"reviewdesk/internal/delivery/api/response"
	"reviewdesk/internal/domain/entity"
	"reviewdesk/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// ReviewHandlerParams holds dependencies for ReviewHandler, injected by Fx.
type ReviewHandlerParams struct {
	fx.In

	ReviewUC usecase.ReviewUsecase
	Logger   *slog.Logger
}

// ReviewHandler serves review sync, listing and reply endpoints.
type ReviewHandler struct {
	reviewUC usecase.ReviewUsecase
	logger   *slog.Logger
}

func NewReviewHandler(params ReviewHandlerParams) *ReviewHandler {
	return &ReviewHandler{
		reviewUC: params.ReviewUC,
		logger:   params.Logger,
	}
}

// PublishReplyRequest represents the request body for replying to a review
type PublishReplyRequest struct {
	Text         string  `json:"text" validate:"required"`
	GenerationID *string `json:"generationId"`
}

// ReviewResponse is a cached review as the API exposes it.
type ReviewResponse struct {
	ID               uuid.UUID          `json:"id"`
	ExternalReviewID string             `json:"externalReviewId"`
	ReviewerName     string             `json:"reviewerName"`
	ReviewerPhotoURL *string            `json:"reviewerPhotoUrl,omitempty"`
	StarRating       int                `json:"starRating"`
	Comment          *string            `json:"comment,omitempty"`
	ReviewCreatedAt  time.Time          `json:"reviewCreatedAt"`
	ReviewUpdatedAt  time.Time          `json:"reviewUpdatedAt"`
	ReplyText        *string            `json:"replyText,omitempty"`
	ReplyUpdatedAt   *time.Time         `json:"replyUpdatedAt,omitempty"`
	ReplySource      entity.ReplySource `json:"replySource"`
	GenerationID     *string            `json:"generationId,omitempty"`
}

func toReviewResponse(r *entity.CachedReview) *ReviewResponse {
	return &ReviewResponse{
		ID:               r.ID,
		ExternalReviewID: r.ExternalReviewID,
		ReviewerName:     r.ReviewerName,
		ReviewerPhotoURL: r.ReviewerPhotoURL,
		StarRating:       r.StarRating,
		Comment:          r.Comment,
		ReviewCreatedAt:  r.ReviewCreatedAt,
		ReviewUpdatedAt:  r.ReviewUpdatedAt,
		ReplyText:        r.ReplyText,
		ReplyUpdatedAt:   r.ReplyUpdatedAt,
		ReplySource:      r.ReplySource,
		GenerationID:     r.GenerationID,
	}
}

// SyncReviews pulls the selected location's reviews from Google.
func (h *ReviewHandler) SyncReviews(c echo.Context) error {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid tenant in token")
	}

	result, err := h.reviewUC.SyncReviews(c.Request().Context(), tenantID)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, result)
}

// ListReviews reads the local review cache.
func (h *ReviewHandler) ListReviews(c echo.Context) error {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid tenant in token")
	}

	input := &usecase.ListReviewsInput{Filter: entity.ReplyFilter(c.QueryParam("filter"))}
	for name, target := range map[string]*int{"rating": &input.Rating, "page": &input.Page, "perPage": &input.PerPage} {
		raw := c.QueryParam(name)
		if raw == "" {
			continue
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			return response.BadRequest(c, "VALIDATION_ERROR", name+" must be a number")
		}
		*target = value
	}

	out, err := h.reviewUC.ListCachedReviews(c.Request().Context(), tenantID, input)
	if err != nil {
		return err
	}

	reviews := make([]*ReviewResponse, 0, len(out.Reviews))
	for _, review := range out.Reviews {
		reviews = append(reviews, toReviewResponse(review))
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"reviews":      reviews,
		"total":        out.Total,
		"page":         out.Page,
		"perPage":      out.PerPage,
		"lastSyncedAt": out.LastSyncedAt,
	})
}

// PublishReply posts a reply to a cached review.
func (h *ReviewHandler) PublishReply(c echo.Context) error {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid tenant in token")
	}

	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid review ID")
	}

	var req PublishReplyRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid reply input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	review, err := h.reviewUC.PublishReply(c.Request().Context(), tenantID, &usecase.PublishReplyInput{
		ReviewID:     reviewID,
		Text:         req.Text,
		GenerationID: req.GenerationID,
	})
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, toReviewResponse(review))
}

// DeleteReply removes the owner reply of a cached review.
func (h *ReviewHandler) DeleteReply(c echo.Context) error {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid tenant in token")
	}

	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid review ID")
	}

	if err := h.reviewUC.DeleteReply(c.Request().Context(), tenantID, reviewID); err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Reply deleted"})
}
