package llm

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// MissingCredentialError is returned before any network call when the
// selected provider has no API key.
type MissingCredentialError struct {
	Provider string
	Setting  string // config key that supplies the credential
}

func (e *MissingCredentialError) Error() string {
	if e.Setting == "" {
		return fmt.Sprintf("missing API key for the %s provider", e.Provider)
	}
	return fmt.Sprintf("missing API key for the %s provider (set %s)", e.Provider, e.Setting)
}

// APIError is a non-2xx reply from the provider.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s API error: %d %s", e.Provider, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s API error: %d - %s", e.Provider, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// RateLimitError indicates the provider returned 429.
type RateLimitError struct {
	RetryAfter time.Duration
	Err        error
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("rate limited: %v", e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// UnavailableError indicates the provider is down (5xx) or unreachable.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// InvalidResponseError indicates a successful reply whose content is
// missing or does not conform to the requested schema.
type InvalidResponseError struct {
	Content json.RawMessage
	Err     error
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *InvalidResponseError) Unwrap() error { return e.Err }

// classifyStatus wraps an APIError in the retry classification that matches
// its status code.
func classifyStatus(e *APIError) error {
	switch {
	case e.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{Err: e}
	case e.StatusCode >= 500:
		return &UnavailableError{Err: e}
	}
	return e
}
