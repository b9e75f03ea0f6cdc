package errors

import "github.com/pkg/errors"

// Kind is the closed set of reactions a caller can have to a failure.
type Kind int

const (
	// KindInternal is anything not recognised below.
	KindInternal Kind = iota
	// KindReauthRequired: the tenant has to go through the Google consent flow again.
	KindReauthRequired
	// KindRetryable: a transient provider failure, the same call may succeed later.
	KindRetryable
	// KindPrecondition: the tenant has to finish setup (connect, pick a location).
	KindPrecondition
	// KindRejected: the request itself is invalid and must not be retried as is.
	KindRejected
	// KindNotFound: the addressed tenant or review does not exist.
	KindNotFound
	// KindCorrupted: stored credentials cannot be trusted.
	KindCorrupted
	// KindConfiguration: the service is misconfigured.
	KindConfiguration
)

func (k Kind) String() string {
	switch k {
	case KindReauthRequired:
		return "reauth_required"
	case KindRetryable:
		return "retryable"
	case KindPrecondition:
		return "precondition"
	case KindRejected:
		return "rejected"
	case KindNotFound:
		return "not_found"
	case KindCorrupted:
		return "corrupted"
	case KindConfiguration:
		return "configuration"
	default:
		return "internal"
	}
}

// KindOf classifies err. A nil error is KindInternal; callers check err first.
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}

	switch {
	case errors.Is(err, ErrTokenExpiredOrRevoked):
		return KindReauthRequired
	case errors.Is(err, ErrNotConnected), errors.Is(err, ErrNoLocationSelected):
		return KindPrecondition
	case errors.Is(err, ErrCSRFMismatch), errors.Is(err, ErrValidationFailed):
		return KindRejected
	case errors.Is(err, ErrTenantNotFound), errors.Is(err, ErrReviewNotFound):
		return KindNotFound
	case errors.Is(err, ErrTokenTampered), errors.Is(err, ErrTokenMalformed):
		return KindCorrupted
	}

	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		return KindRetryable
	}

	var exchangeErr *ExchangeFailedError
	if errors.As(err, &exchangeErr) {
		return KindRejected
	}

	var cfgErr *ConfigurationError
	if errors.As(err, &cfgErr) {
		return KindConfiguration
	}

	return KindInternal
}
