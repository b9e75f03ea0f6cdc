package errors

import (
	"fmt"
	"net/http"
)

// UpstreamError is a transient failure talking to Google. Body holds the raw
// provider response for logs only; Message never exposes it.
type UpstreamError struct {
	Surface string
	Status  int
	Body    string
	err     error
}

func NewUpstreamError(surface string, status int, body string, cause error) *UpstreamError {
	return &UpstreamError{
		Surface: surface,
		Status:  status,
		Body:    body,
		err:     cause,
	}
}

func (e *UpstreamError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: upstream request failed (status %d): %v", e.Surface, e.Status, e.err)
	}

	return fmt.Sprintf("%s: upstream request failed (status %d)", e.Surface, e.Status)
}

func (e *UpstreamError) Unwrap() error {
	return e.err
}

func (e *UpstreamError) HTTPCode() int {
	return http.StatusBadGateway
}

func (e *UpstreamError) ErrorCode() string {
	return "UPSTREAM_FAILURE"
}

func (e *UpstreamError) Message() string {
	return "Google Business Profile is temporarily unavailable, please try again"
}

func (e *UpstreamError) Details() string {
	return ""
}

// ExchangeFailedError means the authorization code could not be traded for
// tokens. Codes are single use, so the user has to start the flow again.
type ExchangeFailedError struct {
	Status int
	Body   string
}

func NewExchangeFailedError(status int, body string) *ExchangeFailedError {
	return &ExchangeFailedError{Status: status, Body: body}
}

func (e *ExchangeFailedError) Error() string {
	return fmt.Sprintf("oauth code exchange failed with status %d", e.Status)
}

func (e *ExchangeFailedError) HTTPCode() int {
	return http.StatusBadRequest
}

func (e *ExchangeFailedError) ErrorCode() string {
	return "OAUTH_EXCHANGE_FAILED"
}

func (e *ExchangeFailedError) Message() string {
	return "Google authorization could not be completed, please try connecting again"
}

func (e *ExchangeFailedError) Details() string {
	return ""
}

// ConfigurationError reports a missing or invalid setting. It is fatal at startup.
type ConfigurationError struct {
	Key    string
	Reason string
}

func NewConfigurationError(key, reason string) *ConfigurationError {
	return &ConfigurationError{Key: key, Reason: reason}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %q: %s", e.Key, e.Reason)
}
