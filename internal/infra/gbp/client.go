// Package gbp is the Google Business Profile API client.
package gbp

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"reviewdesk/config"
	"reviewdesk/internal/domain/entity"
	domainerrors "reviewdesk/internal/domain/errors"
	"reviewdesk/internal/domain/service"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/mybusinessaccountmanagement/v1"
	"google.golang.org/api/mybusinessbusinessinformation/v1"
	"google.golang.org/api/option"
)

const (
	defaultReviewsEndpoint = "https://mybusiness.googleapis.com/v4"
	locationReadMask       = "name,title,storefrontAddress,websiteUri"

	surfaceAccounts  = "accounts"
	surfaceLocations = "locations"
	surfaceReviews   = "reviews"
	surfaceReply     = "review_reply"
)

// Client wraps the accounts, business information and v4 review surfaces.
// Every call is paced by a shared limiter and bounded by the configured timeout.
type Client struct {
	base                 http.RoundTripper
	cfg                  config.GBPConfig
	limiter              *rate.Limiter
	accountsEndpoint     string
	businessInfoEndpoint string
	reviewsEndpoint      string
	logger               *slog.Logger
}

// NewClient creates the GBP client from configuration.
func NewClient(cfg *config.Config, logger *slog.Logger) service.GBPClient {
	return newClient(cfg.GBP, http.DefaultTransport, logger)
}

func newClient(cfg *config.GBPConfig, base http.RoundTripper, logger *slog.Logger) *Client {
	return &Client{
		base:                 base,
		cfg:                  *cfg,
		limiter:              rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		accountsEndpoint:     cfg.AccountsEndpoint,
		businessInfoEndpoint: cfg.BusinessInfoEndpoint,
		reviewsEndpoint:      strings.TrimRight(firstNonEmpty(cfg.ReviewsEndpoint, defaultReviewsEndpoint), "/"),
		logger:               logger,
	}
}

// authorizedClient attaches the bearer token to every request it sends.
func (c *Client) authorizedClient(accessToken string) *http.Client {
	return &http.Client{
		Timeout: c.cfg.Timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}),
			Base:   c.base,
		},
	}
}

func (c *Client) wait(ctx context.Context, surface string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return domainerrors.NewUpstreamError(surface, 0, "", errors.Wrap(err, "rate limiter wait"))
	}

	return nil
}

// ListAccounts returns the first page of accounts visible to the grant.
func (c *Client) ListAccounts(ctx context.Context, accessToken string) ([]*entity.GBPAccount, error) {
	if err := c.wait(ctx, surfaceAccounts); err != nil {
		return nil, err
	}

	svc, err := mybusinessaccountmanagement.NewService(ctx, c.clientOptions(accessToken, c.accountsEndpoint)...)
	if err != nil {
		return nil, errors.Wrap(err, "create account management service")
	}

	resp, err := svc.Accounts.List().Context(ctx).Do()
	if err != nil {
		return nil, c.classify(ctx, surfaceAccounts, err)
	}

	accounts := make([]*entity.GBPAccount, 0, len(resp.Accounts))
	for _, a := range resp.Accounts {
		accounts = append(accounts, &entity.GBPAccount{
			Name:          a.Name,
			AccountName:   a.AccountName,
			Type:          a.Type,
			AccountNumber: a.AccountNumber,
		})
	}

	return accounts, nil
}

// ListLocations returns a single page of the account's locations.
func (c *Client) ListLocations(ctx context.Context, accessToken, accountID string) ([]*entity.GBPLocation, error) {
	if err := c.wait(ctx, surfaceLocations); err != nil {
		return nil, err
	}

	svc, err := mybusinessbusinessinformation.NewService(ctx, c.clientOptions(accessToken, c.businessInfoEndpoint)...)
	if err != nil {
		return nil, errors.Wrap(err, "create business information service")
	}

	resp, err := svc.Accounts.Locations.List(accountID).
		ReadMask(locationReadMask).
		PageSize(int64(c.cfg.LocationPageSize)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, c.classify(ctx, surfaceLocations, err)
	}

	locations := make([]*entity.GBPLocation, 0, len(resp.Locations))
	for _, l := range resp.Locations {
		locations = append(locations, &entity.GBPLocation{
			Name:       l.Name,
			Title:      l.Title,
			Address:    FormatAddress(l.StorefrontAddress),
			WebsiteURI: l.WebsiteUri,
		})
	}

	return locations, nil
}

func (c *Client) clientOptions(accessToken, endpoint string) []option.ClientOption {
	opts := []option.ClientOption{option.WithHTTPClient(c.authorizedClient(accessToken))}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}

	return opts
}

// classify maps generated-client errors onto the domain taxonomy.
func (c *Client) classify(ctx context.Context, surface string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusUnauthorized {
			return domainerrors.ErrTokenExpiredOrRevoked.WrapMessage(surface + " rejected the access token")
		}

		c.logger.WarnContext(ctx, "Google Business Profile call failed",
			slog.String("surface", surface),
			slog.Int("status", apiErr.Code),
			slog.String("body", apiErr.Body),
		)

		return domainerrors.NewUpstreamError(surface, apiErr.Code, apiErr.Body, err)
	}

	return domainerrors.NewUpstreamError(surface, 0, "", err)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}

	return ""
}
