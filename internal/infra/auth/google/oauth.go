package google

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"reviewdesk/config"
	"reviewdesk/internal/domain/entity"
	domainerrors "reviewdesk/internal/domain/errors"
	"reviewdesk/internal/domain/service"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

const (
	googleOAuthURL      = "https://accounts.google.com/o/oauth2/v2/auth"
	googleTokenURL      = "https://oauth2.googleapis.com/token"
	businessManageScope = "https://www.googleapis.com/auth/business.manage"

	tokenSurface = "oauth_token"
)

// OAuthService handles the Google authorization code grant for Business Profile access
type OAuthService struct {
	config     *oauth2.Config
	httpClient *http.Client
	now        func() time.Time
	logger     *slog.Logger
}

// NewOAuthService creates a new Google OAuth service
func NewOAuthService(cfg *config.Config, logger *slog.Logger) (service.OAuthFlow, error) {
	return newOAuthService(cfg, logger, time.Now)
}

func newOAuthService(cfg *config.Config, logger *slog.Logger, now func() time.Time) (*OAuthService, error) {
	googleCfg := cfg.Google
	if googleCfg == nil || googleCfg.ClientID == "" || googleCfg.ClientSecret == "" || googleCfg.RedirectURI == "" {
		return nil, domainerrors.NewConfigurationError("google", "clientId, clientSecret and redirectUri are required")
	}

	authURL := firstNonEmpty(googleCfg.AuthURL, googleOAuthURL)
	tokenURL := firstNonEmpty(googleCfg.TokenURL, googleTokenURL)

	scopes := googleCfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{businessManageScope}
	}

	return &OAuthService{
		config: &oauth2.Config{
			ClientID:     googleCfg.ClientID,
			ClientSecret: googleCfg.ClientSecret,
			RedirectURL:  googleCfg.RedirectURI,
			Scopes:       scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  authURL,
				TokenURL: tokenURL,
				// Fixed style: auto-detection would re-post a single-use code.
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient: &http.Client{Timeout: googleCfg.HTTPTimeout},
		now:        now,
		logger:     logger,
	}, nil
}

// BuildAuthorizationURL constructs the consent URL. Offline access with a
// forced consent prompt makes Google issue a refresh token every time.
func (s *OAuthService) BuildAuthorizationURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// ExchangeCode trades an authorization code for tokens in a single POST.
func (s *OAuthService) ExchangeCode(ctx context.Context, code string) (*entity.OAuthTokenBundle, error) {
	token, err := s.config.Exchange(s.withClient(ctx), code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			status := retrieveStatus(retrieveErr)
			s.logger.WarnContext(ctx, "Google code exchange rejected",
				slog.Int("status", status),
				slog.String("error_code", retrieveErr.ErrorCode),
				slog.String("body", string(retrieveErr.Body)),
			)

			return nil, domainerrors.NewExchangeFailedError(status, string(retrieveErr.Body))
		}

		return nil, domainerrors.NewUpstreamError(tokenSurface, 0, "", err)
	}

	return &entity.OAuthTokenBundle{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    s.expiry(token),
		TokenType:    firstNonEmpty(token.TokenType, "Bearer"),
	}, nil
}

// Refresh uses the refresh token grant. It never retries.
func (s *OAuthService) Refresh(ctx context.Context, refreshToken string) (*entity.RefreshedToken, error) {
	source := s.config.TokenSource(s.withClient(ctx), &oauth2.Token{RefreshToken: refreshToken})

	token, err := source.Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			status := retrieveStatus(retrieveErr)
			if status == http.StatusBadRequest || status == http.StatusUnauthorized {
				s.logger.InfoContext(ctx, "Google refresh grant rejected",
					slog.Int("status", status),
					slog.String("error_code", retrieveErr.ErrorCode),
				)

				return nil, domainerrors.ErrTokenExpiredOrRevoked.WrapMessage("refresh token rejected")
			}

			return nil, domainerrors.NewUpstreamError(tokenSurface, status, string(retrieveErr.Body), err)
		}

		return nil, domainerrors.NewUpstreamError(tokenSurface, 0, "", err)
	}

	return &entity.RefreshedToken{
		AccessToken: token.AccessToken,
		ExpiresAt:   s.expiry(token),
	}, nil
}

func (s *OAuthService) withClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
}

// expiry treats a response without expires_in as already expired so the
// next use refreshes instead of trusting an unbounded token.
func (s *OAuthService) expiry(token *oauth2.Token) time.Time {
	if token.Expiry.IsZero() {
		return s.now().UTC()
	}

	return token.Expiry.UTC()
}

func retrieveStatus(err *oauth2.RetrieveError) int {
	if err.Response == nil {
		return 0
	}

	return err.Response.StatusCode
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}

	return ""
}
