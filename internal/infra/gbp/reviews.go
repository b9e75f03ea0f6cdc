package gbp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"reviewdesk/internal/domain/entity"
	domainerrors "reviewdesk/internal/domain/errors"

	"github.com/pkg/errors"
)

const maxErrorBodyBytes = 8 << 10

type reviewsResponse struct {
	Reviews          []reviewPayload `json:"reviews"`
	AverageRating    float64         `json:"averageRating"`
	TotalReviewCount int             `json:"totalReviewCount"`
	NextPageToken    string          `json:"nextPageToken"`
}

type reviewPayload struct {
	Name     string `json:"name"`
	ReviewID string `json:"reviewId"`
	Reviewer struct {
		DisplayName     string `json:"displayName"`
		ProfilePhotoURL string `json:"profilePhotoUrl"`
	} `json:"reviewer"`
	StarRating  string `json:"starRating"`
	Comment     string `json:"comment"`
	CreateTime  string `json:"createTime"`
	UpdateTime  string `json:"updateTime"`
	ReviewReply *struct {
		Comment    string `json:"comment"`
		UpdateTime string `json:"updateTime"`
	} `json:"reviewReply"`
}

type replyRequest struct {
	Comment string `json:"comment"`
}

// ListReviews fetches one page of a location's reviews. Callers follow
// NextPageToken until it is empty.
func (c *Client) ListReviews(ctx context.Context, accessToken, accountID, locationID, pageToken string) (*entity.GBPReviewPage, error) {
	query := url.Values{}
	query.Set("pageSize", strconv.Itoa(c.cfg.ReviewPageSize))
	if pageToken != "" {
		query.Set("pageToken", pageToken)
	}
	endpoint := c.reviewsEndpoint + "/" + accountID + "/" + locationID + "/reviews?" + query.Encode()

	var resp reviewsResponse
	if err := c.do(ctx, accessToken, http.MethodGet, endpoint, nil, surfaceReviews, &resp); err != nil {
		return nil, err
	}

	page := &entity.GBPReviewPage{
		Reviews:          make([]*entity.GBPReview, 0, len(resp.Reviews)),
		AverageRating:    resp.AverageRating,
		TotalReviewCount: resp.TotalReviewCount,
		NextPageToken:    resp.NextPageToken,
	}
	for i := range resp.Reviews {
		page.Reviews = append(page.Reviews, toReview(&resp.Reviews[i]))
	}

	return page, nil
}

// ReplyToReview creates or replaces the owner reply. reviewName is the full
// resource name accounts/{a}/locations/{l}/reviews/{r}.
func (c *Client) ReplyToReview(ctx context.Context, accessToken, reviewName, comment string) error {
	return c.do(ctx, accessToken, http.MethodPut, c.reviewsEndpoint+"/"+reviewName+"/reply", replyRequest{Comment: comment}, surfaceReply, nil)
}

func (c *Client) DeleteReviewReply(ctx context.Context, accessToken, reviewName string) error {
	return c.do(ctx, accessToken, http.MethodDelete, c.reviewsEndpoint+"/"+reviewName+"/reply", nil, surfaceReply, nil)
}

func (c *Client) do(ctx context.Context, accessToken, method, endpoint string, body any, surface string, out any) error {
	if err := c.wait(ctx, surface); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "marshal request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.authorizedClient(accessToken).Do(req)
	if err != nil {
		return domainerrors.NewUpstreamError(surface, 0, "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return domainerrors.ErrTokenExpiredOrRevoked.WrapMessage(surface + " rejected the access token")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		c.logger.WarnContext(ctx, "Google Business Profile call failed",
			slog.String("surface", surface),
			slog.String("method", method),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(raw)),
		)

		return domainerrors.NewUpstreamError(surface, resp.StatusCode, string(raw), nil)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domainerrors.NewUpstreamError(surface, resp.StatusCode, "", errors.Wrap(err, "decode response"))
	}

	return nil
}

func toReview(p *reviewPayload) *entity.GBPReview {
	review := &entity.GBPReview{
		Name:             p.Name,
		ReviewID:         p.ReviewID,
		ReviewerName:     p.Reviewer.DisplayName,
		ReviewerPhotoURL: p.Reviewer.ProfilePhotoURL,
		StarRating:       StarRatingToNumber(p.StarRating),
		Comment:          p.Comment,
		CreateTime:       parseTimestamp(p.CreateTime),
		UpdateTime:       parseTimestamp(p.UpdateTime),
	}

	if p.ReviewReply != nil {
		review.Reply = &entity.GBPReviewReply{
			Comment:    p.ReviewReply.Comment,
			UpdateTime: parseTimestamp(p.ReviewReply.UpdateTime),
		}
	}

	return review
}

// parseTimestamp reads an RFC 3339 timestamp at the precision the cache
// stores, so unchanged upstream data compares equal to what was persisted.
func parseTimestamp(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}

	return t.UTC().Truncate(time.Microsecond)
}
