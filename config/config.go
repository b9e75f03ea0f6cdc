package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	domainerrors "reviewdesk/internal/domain/errors"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/slighter12/go-lib/database/postgres"
)

const (
	defaultPath               = "."
	defaultMaxRequestBodySize = "100KB"
	defaultGoogleHTTPTimeout  = 10 * time.Second
	defaultGBPTimeout         = 15 * time.Second
	defaultReviewPageSize     = 50
	defaultLocationPageSize   = 100
	defaultGBPRequestsPerSec  = 5
	defaultGBPBurst           = 5
	defaultStateCookieMaxAge  = 10 * time.Minute
	tokenEncryptionKeyBytes   = 32
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port               int    `json:"port" yaml:"port"`
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		Timeouts           struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	Google *GoogleConfig `json:"google" yaml:"google"`

	GBP *GBPConfig `json:"gbp" yaml:"gbp"`

	Auth *AuthConfig `json:"auth" yaml:"auth"`

	Session *SessionConfig `json:"session" yaml:"session"`

	// PubSub configuration for event publishing
	PubSub *PubSubConfig `json:"pubsub" yaml:"pubsub"`

	Metrics *MetricsConfig `json:"metrics" yaml:"metrics"`
}

// GoogleConfig holds the OAuth client used for the Business Profile connection.
type GoogleConfig struct {
	ClientID     string   `json:"clientId" yaml:"clientId"`
	ClientSecret string   `json:"clientSecret" yaml:"clientSecret"`
	RedirectURI  string   `json:"redirectUri" yaml:"redirectUri"`
	Scopes       []string `json:"scopes" yaml:"scopes"`
	AuthURL      string   `json:"authUrl" yaml:"authUrl"`
	TokenURL     string   `json:"tokenUrl" yaml:"tokenUrl"`

	// Base64 encoded 32-byte AES key for the stored token blob
	TokenEncryptionKey string        `json:"tokenEncryptionKey" yaml:"tokenEncryptionKey"`
	HTTPTimeout        time.Duration `json:"httpTimeout" yaml:"httpTimeout"`

	// Where the callback redirects the browser once the connection settles
	AppRedirectURL string `json:"appRedirectUrl" yaml:"appRedirectUrl"`
}

// GBPConfig configures the Business Profile API client.
type GBPConfig struct {
	AccountsEndpoint     string        `json:"accountsEndpoint" yaml:"accountsEndpoint"`
	BusinessInfoEndpoint string        `json:"businessInfoEndpoint" yaml:"businessInfoEndpoint"`
	ReviewsEndpoint      string        `json:"reviewsEndpoint" yaml:"reviewsEndpoint"`
	ReviewPageSize       int           `json:"reviewPageSize" yaml:"reviewPageSize"`
	LocationPageSize     int           `json:"locationPageSize" yaml:"locationPageSize"`
	RequestsPerSecond    float64       `json:"requestsPerSecond" yaml:"requestsPerSecond"`
	Burst                int           `json:"burst" yaml:"burst"`
	Timeout              time.Duration `json:"timeout" yaml:"timeout"`
}

// AuthConfig defines tenant authentication
type AuthConfig struct {
	JWTSecret string `json:"jwtSecret" yaml:"jwtSecret"`
	Issuer    string `json:"issuer" yaml:"issuer"`
}

// SessionConfig configures the cookie store holding the OAuth state.
type SessionConfig struct {
	Secret string        `json:"secret" yaml:"secret"`
	Secure bool          `json:"secure" yaml:"secure"`
	MaxAge time.Duration `json:"maxAge" yaml:"maxAge"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// PubSubConfig defines Pub/Sub configuration for event publishing
type PubSubConfig struct {
	// Provider type: "local" for local HTTP, "google" for Google Pub/Sub, "none" to disable
	Provider string `json:"provider" yaml:"provider"`

	// Google Cloud project ID (for google provider)
	ProjectID string `json:"projectId" yaml:"projectId"`

	// Pub/Sub topic ID (for google provider)
	TopicID string `json:"topicId" yaml:"topicId"`

	// Local HTTP endpoint for development (for local provider)
	LocalEndpoint string `json:"localEndpoint" yaml:"localEndpoint"`
}

type MetricsConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Path    string `json:"path" yaml:"path"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to path and align each segment with existing YAML keys.
			// Example: POSTGRES_SSLMODE -> postgres.sslMode (not postgres.sslmode)
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	// Unmarshal into the config struct (case-insensitive to match env vars)
	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	// A local .env is optional; real deployments inject the environment directly.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "load .env failed")
	}

	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	// Build replicas from environment variables (POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, etc.)
	if cfg.Postgres != nil {
		cfg.Postgres.Replicas = buildReplicasFromEnv()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) applyDefaults() {
	if strings.TrimSpace(cfg.HTTP.MaxRequestBodySize) == "" {
		cfg.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}

	if cfg.Google == nil {
		cfg.Google = &GoogleConfig{}
	}
	if cfg.Google.HTTPTimeout <= 0 {
		cfg.Google.HTTPTimeout = defaultGoogleHTTPTimeout
	}

	if cfg.GBP == nil {
		cfg.GBP = &GBPConfig{}
	}
	if cfg.GBP.ReviewPageSize <= 0 {
		cfg.GBP.ReviewPageSize = defaultReviewPageSize
	}
	if cfg.GBP.LocationPageSize <= 0 {
		cfg.GBP.LocationPageSize = defaultLocationPageSize
	}
	if cfg.GBP.RequestsPerSecond <= 0 {
		cfg.GBP.RequestsPerSecond = defaultGBPRequestsPerSec
	}
	if cfg.GBP.Burst <= 0 {
		cfg.GBP.Burst = defaultGBPBurst
	}
	if cfg.GBP.Timeout <= 0 {
		cfg.GBP.Timeout = defaultGBPTimeout
	}

	if cfg.Auth == nil {
		cfg.Auth = &AuthConfig{}
	}
	if cfg.Session == nil {
		cfg.Session = &SessionConfig{}
	}
	if cfg.Session.MaxAge <= 0 {
		cfg.Session.MaxAge = defaultStateCookieMaxAge
	}
	if cfg.PubSub == nil {
		cfg.PubSub = &PubSubConfig{Provider: "none"}
	}
	if cfg.Metrics == nil {
		cfg.Metrics = &MetricsConfig{}
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

// Validate rejects configurations the service cannot run with.
// Every failure is a ConfigurationError naming the offending key.
func (cfg *Config) Validate() error {
	if cfg.Google == nil {
		return domainerrors.NewConfigurationError("google", "section is missing")
	}

	required := []struct {
		key   string
		value string
	}{
		{"google.clientId", cfg.Google.ClientID},
		{"google.clientSecret", cfg.Google.ClientSecret},
		{"google.redirectUri", cfg.Google.RedirectURI},
		{"google.tokenEncryptionKey", cfg.Google.TokenEncryptionKey},
	}
	for _, item := range required {
		if strings.TrimSpace(item.value) == "" {
			return domainerrors.NewConfigurationError(item.key, "value is required")
		}
	}

	if _, err := cfg.Google.DecodeEncryptionKey(); err != nil {
		return err
	}

	if cfg.Auth == nil || strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return domainerrors.NewConfigurationError("auth.jwtSecret", "value is required")
	}
	if cfg.Session == nil || strings.TrimSpace(cfg.Session.Secret) == "" {
		return domainerrors.NewConfigurationError("session.secret", "value is required")
	}

	return nil
}

// DecodeEncryptionKey returns the raw AES-256 key.
func (g *GoogleConfig) DecodeEncryptionKey() ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(g.TokenEncryptionKey))
	if err != nil {
		return nil, domainerrors.NewConfigurationError("google.tokenEncryptionKey", "value is not valid base64")
	}
	if len(key) != tokenEncryptionKeyBytes {
		return nil, domainerrors.NewConfigurationError(
			"google.tokenEncryptionKey",
			fmt.Sprintf("key must decode to %d bytes, got %d", tokenEncryptionKeyBytes, len(key)),
		)
	}

	return key, nil
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}

// buildReplicasFromEnv builds the replicas slice from environment variables.
// Environment variable format: POSTGRES_REPLICAS_{index}_{field}
// Example: POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, POSTGRES_REPLICAS_0_USERNAME, POSTGRES_REPLICAS_0_PASSWORD
func buildReplicasFromEnv() []postgres.ConnectionConfig {
	var replicas []postgres.ConnectionConfig

	for i := 0; ; i++ {
		prefix := "POSTGRES_REPLICAS_" + strconv.Itoa(i) + "_"

		host := os.Getenv(prefix + "HOST")
		port := os.Getenv(prefix + "PORT")
		if host == "" || port == "" {
			// No more replicas or incomplete configuration.
			break
		}

		replica := postgres.ConnectionConfig{
			Host:     host,
			Port:     port,
			UserName: os.Getenv(prefix + "USERNAME"),
			Password: os.Getenv(prefix + "PASSWORD"),
		}

		replicas = append(replicas, replica)
	}

	return replicas
}
