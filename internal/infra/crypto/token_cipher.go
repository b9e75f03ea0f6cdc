// Package crypto seals OAuth token bundles for storage at rest.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"io"
	"time"

	"reviewdesk/config"
	"reviewdesk/internal/domain/entity"
	domainerrors "reviewdesk/internal/domain/errors"
	"reviewdesk/internal/domain/service"

	"github.com/pkg/errors"
)

const (
	keySize   = 32
	nonceSize = 12
	tagSize   = 16
)

// sealedBundle is the plaintext layout inside a blob. Expiry is kept in unix
// milliseconds so blobs stay readable by other services sharing the key.
type sealedBundle struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
	TokenType    string `json:"token_type"`
}

type aesGCMCipher struct {
	aead  cipher.AEAD
	nonce io.Reader
}

// NewTokenCipher builds the cipher from the configured base64 key.
func NewTokenCipher(cfg *config.Config) (service.TokenCipher, error) {
	if cfg.Google == nil {
		return nil, domainerrors.NewConfigurationError("google.tokenEncryptionKey", "value is required")
	}

	key, err := cfg.Google.DecodeEncryptionKey()
	if err != nil {
		return nil, err
	}

	return NewAESGCMCipher(key)
}

// NewAESGCMCipher builds an AES-256-GCM cipher from a raw 32-byte key.
func NewAESGCMCipher(key []byte) (service.TokenCipher, error) {
	if len(key) != keySize {
		return nil, domainerrors.NewConfigurationError("google.tokenEncryptionKey", "key must be 32 bytes")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "create AES block")
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Wrap(err, "create GCM")
	}

	return &aesGCMCipher{aead: aead, nonce: rand.Reader}, nil
}

// Seal encrypts bundle under a fresh random nonce. The blob is
// base64(nonce || ciphertext || tag).
func (c *aesGCMCipher) Seal(bundle *entity.OAuthTokenBundle) (string, error) {
	if bundle == nil {
		return "", errors.New("nil token bundle")
	}

	plaintext, err := json.Marshal(sealedBundle{
		AccessToken:  bundle.AccessToken,
		RefreshToken: bundle.RefreshToken,
		ExpiresAt:    bundle.ExpiresAt.UnixMilli(),
		TokenType:    bundle.TokenType,
	})
	if err != nil {
		return "", errors.Wrap(err, "marshal token bundle")
	}

	nonce := make([]byte, nonceSize, nonceSize+len(plaintext)+tagSize)
	if _, err := io.ReadFull(c.nonce, nonce); err != nil {
		return "", errors.Wrap(err, "generate nonce")
	}

	// GCM appends the tag to the ciphertext.
	sealed := c.aead.Seal(nonce, nonce, plaintext, nil)

	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (c *aesGCMCipher) Open(blob string) (*entity.OAuthTokenBundle, error) {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, domainerrors.ErrTokenMalformed.WrapMessage("blob is not base64")
	}
	if len(raw) < nonceSize+tagSize {
		return nil, domainerrors.ErrTokenMalformed.WrapMessage("blob is too short")
	}

	plaintext, err := c.aead.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return nil, domainerrors.ErrTokenTampered.WrapMessage("authentication tag mismatch")
	}

	var payload sealedBundle
	if err := json.Unmarshal(plaintext, &payload); err != nil {
		return nil, domainerrors.ErrTokenMalformed.WrapMessage("plaintext is not a token bundle")
	}

	return &entity.OAuthTokenBundle{
		AccessToken:  payload.AccessToken,
		RefreshToken: payload.RefreshToken,
		ExpiresAt:    time.UnixMilli(payload.ExpiresAt).UTC(),
		TokenType:    payload.TokenType,
	}, nil
}
