package graph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Failure classes. Every terminal error surfaced by the client wraps
// exactly one of these, so callers can branch with errors.Is without
// inspecting status codes.
var (
	// ErrAuth marks a rejected credential exchange or a 401 that
	// survived a forced renewal.
	ErrAuth = errors.New("authentication failed")
	// ErrTransientAuth marks a network failure during the credential
	// exchange, surfaced after its retry is spent.
	ErrTransientAuth = errors.New("transient authentication failure")
	// ErrInvalidQuery marks a query shape rejected before dispatch.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrTransient marks a transport failure that outlived the retry budget.
	ErrTransient = errors.New("transient transport failure")
	// ErrRateLimited marks a 429 that outlived the retry budget.
	ErrRateLimited = errors.New("rate limited")
	// ErrServiceUnavailable marks a 503 that outlived the retry budget.
	ErrServiceUnavailable = errors.New("service unavailable")
	// ErrClientRequest marks a 4xx other than 401/429; never retried.
	ErrClientRequest = errors.New("request rejected")
	// ErrServer marks a 5xx other than 503 that outlived the retry budget.
	ErrServer = errors.New("server error")
	// ErrProtocol marks a 2xx whose body did not match the expected envelope.
	ErrProtocol = errors.New("malformed response")
)

// Common static errors that can be wrapped with context.
var (
	ErrNoMoreItems    = errors.New("no more items")
	ErrConfigRequired = errors.New("config is required")
	ErrTenantRequired = errors.New("tenant is required")
)

// Error represents a classified failure from the Graph service or the
// identity platform, carrying the service's own diagnostics alongside
// the failure class.
type Error struct {
	StatusCode int    `json:"statusCode"          yaml:"statusCode"`
	Code       string `json:"code"                yaml:"code"`
	Message    string `json:"message"             yaml:"message"`
	RequestID  string `json:"requestId,omitempty" yaml:"requestId,omitempty"`
	Err        error  `json:"-"                   yaml:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	kind := "graph error"
	if e.Err != nil {
		kind = e.Err.Error()
	}

	switch {
	case e.Code != "" && e.StatusCode != 0:
		return fmt.Sprintf("%s: %s: %s (status %d)", kind, e.Code, e.Message, e.StatusCode)
	case e.Code != "":
		return fmt.Sprintf("%s: %s: %s", kind, e.Code, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: %s (status %d)", kind, e.Message, e.StatusCode)
	default:
		return fmt.Sprintf("%s: %s", kind, e.Message)
	}
}

// Unwrap exposes the failure class for errors.Is.
func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure class is one the dispatcher
// retries. By the time an Error reaches the caller the budget is spent;
// the flag tells the caller whether trying again later could help.
func (e *Error) Retryable() bool {
	switch e.Err {
	case ErrTransient, ErrRateLimited, ErrServiceUnavailable, ErrServer, ErrTransientAuth:
		return true
	default:
		return false
	}
}

// odataErrorResponse is the error envelope Graph returns for non-2xx
// responses.
type odataErrorResponse struct {
	Error struct {
		Code       string `json:"code"`
		Message    string `json:"message"`
		InnerError struct {
			RequestID string `json:"request-id"`
			Date      string `json:"date"`
		} `json:"innerError"`
	} `json:"error"`
}

// KindForStatus maps an HTTP status to its failure class.
func KindForStatus(statusCode int) error {
	switch {
	case statusCode == http.StatusUnauthorized:
		return ErrAuth
	case statusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case statusCode == http.StatusServiceUnavailable:
		return ErrServiceUnavailable
	case statusCode >= 400 && statusCode < 500:
		return ErrClientRequest
	case statusCode >= 500:
		return ErrServer
	default:
		return ErrProtocol
	}
}

// ParseErrorResponse builds a classified Error from a non-2xx Graph
// response. A body that is not the OData error envelope still yields a
// usable Error keyed on the status code.
func ParseErrorResponse(statusCode int, body []byte, header http.Header) *Error {
	graphErr := &Error{
		StatusCode: statusCode,
		Message:    http.StatusText(statusCode),
		Err:        KindForStatus(statusCode),
	}

	if header != nil {
		graphErr.RequestID = header.Get("request-id")
	}

	var envelope odataErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Code != "" {
		graphErr.Code = envelope.Error.Code
		graphErr.Message = envelope.Error.Message

		if envelope.Error.InnerError.RequestID != "" {
			graphErr.RequestID = envelope.Error.InnerError.RequestID
		}
	}

	return graphErr
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	graphErr := &Error{}
	if errors.As(err, &graphErr) {
		return graphErr.StatusCode == http.StatusNotFound
	}

	return false
}

// IsUnauthorized checks if the error is an authentication error.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrAuth)
}

// IsForbidden checks if the error is a forbidden error.
func IsForbidden(err error) bool {
	graphErr := &Error{}
	if errors.As(err, &graphErr) {
		return graphErr.StatusCode == http.StatusForbidden
	}

	return false
}

// IsRateLimited checks if the error is a rate limit error.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsInvalidQuery checks if the error is a pre-dispatch query rejection.
func IsInvalidQuery(err error) bool {
	return errors.Is(err, ErrInvalidQuery)
}

// IsRetryable reports whether a later attempt of the same operation
// could succeed.
func IsRetryable(err error) bool {
	graphErr := &Error{}
	if errors.As(err, &graphErr) {
		return graphErr.Retryable()
	}

	return errors.Is(err, ErrTransient) || errors.Is(err, ErrTransientAuth)
}

// IsCancelled checks if the error stems from the caller's context being
// cancelled or timing out.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
