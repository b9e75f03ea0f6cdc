package service

import "reviewdesk/internal/domain/entity"

// TokenCipher seals token bundles for storage. Open fails closed: a blob that
// was altered in any way never yields a bundle.
type TokenCipher interface {
	Seal(bundle *entity.OAuthTokenBundle) (string, error)
	Open(blob string) (*entity.OAuthTokenBundle, error)
}
