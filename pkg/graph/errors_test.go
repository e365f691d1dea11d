package graph

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name: "full diagnostics",
			err: &Error{
				StatusCode: 404,
				Code:       "Request_ResourceNotFound",
				Message:    "Resource 'x' does not exist.",
				Err:        ErrClientRequest,
			},
			expected: "request rejected: Request_ResourceNotFound: Resource 'x' does not exist. (status 404)",
		},
		{
			name: "code without status",
			err: &Error{
				Code:    "invalid_client",
				Message: "Client authentication failed",
				Err:     ErrAuth,
			},
			expected: "authentication failed: invalid_client: Client authentication failed",
		},
		{
			name: "status without code",
			err: &Error{
				StatusCode: 503,
				Message:    "Service Unavailable",
				Err:        ErrServiceUnavailable,
			},
			expected: "service unavailable: Service Unavailable (status 503)",
		},
		{
			name: "message only",
			err: &Error{
				Message: "token endpoint unreachable: connection refused",
				Err:     ErrTransientAuth,
			},
			expected: "transient authentication failure: token endpoint unreachable: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	err := &Error{
		StatusCode: 429,
		Message:    "Too Many Requests",
		Err:        ErrRateLimited,
	}

	assert.ErrorIs(t, err, ErrRateLimited)

	wrapped := fmt.Errorf("fetching page 2: %w", err)
	assert.ErrorIs(t, wrapped, ErrRateLimited)

	target := &Error{}
	require.ErrorAs(t, wrapped, &target)
	assert.Equal(t, 429, target.StatusCode)
}

func TestError_Retryable(t *testing.T) {
	tests := []struct {
		name     string
		kind     error
		expected bool
	}{
		{name: "transient transport", kind: ErrTransient, expected: true},
		{name: "rate limited", kind: ErrRateLimited, expected: true},
		{name: "service unavailable", kind: ErrServiceUnavailable, expected: true},
		{name: "server error", kind: ErrServer, expected: true},
		{name: "transient auth", kind: ErrTransientAuth, expected: true},
		{name: "auth rejection", kind: ErrAuth, expected: false},
		{name: "client request", kind: ErrClientRequest, expected: false},
		{name: "invalid query", kind: ErrInvalidQuery, expected: false},
		{name: "protocol", kind: ErrProtocol, expected: false},
		{name: "no kind", kind: nil, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &Error{Err: tt.kind}
			assert.Equal(t, tt.expected, err.Retryable())
		})
	}
}

func TestKindForStatus(t *testing.T) {
	tests := []struct {
		status   int
		expected error
	}{
		{status: 401, expected: ErrAuth},
		{status: 429, expected: ErrRateLimited},
		{status: 503, expected: ErrServiceUnavailable},
		{status: 400, expected: ErrClientRequest},
		{status: 403, expected: ErrClientRequest},
		{status: 404, expected: ErrClientRequest},
		{status: 500, expected: ErrServer},
		{status: 502, expected: ErrServer},
		{status: 200, expected: ErrProtocol},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.status), func(t *testing.T) {
			assert.Equal(t, tt.expected, KindForStatus(tt.status))
		})
	}
}

//nolint:funlen // Test functions can be longer for detailed testing
func TestParseErrorResponse(t *testing.T) {
	t.Run("parses the error envelope", func(t *testing.T) {
		body := []byte(`{
			"error": {
				"code": "Request_ResourceNotFound",
				"message": "Resource 'bad-id' does not exist or one of its queried reference-property objects are not present.",
				"innerError": {
					"request-id": "11111111-2222-3333-4444-555555555555",
					"date": "2024-01-01T00:00:00"
				}
			}
		}`)

		err := ParseErrorResponse(404, body, nil)
		assert.Equal(t, 404, err.StatusCode)
		assert.Equal(t, "Request_ResourceNotFound", err.Code)
		assert.Contains(t, err.Message, "does not exist")
		assert.Equal(t, "11111111-2222-3333-4444-555555555555", err.RequestID)
		assert.ErrorIs(t, err, ErrClientRequest)
	})

	t.Run("non-envelope body falls back to the status", func(t *testing.T) {
		err := ParseErrorResponse(502, []byte("<html>Bad Gateway</html>"), nil)
		assert.Equal(t, 502, err.StatusCode)
		assert.Empty(t, err.Code)
		assert.Equal(t, "Bad Gateway", err.Message)
		assert.ErrorIs(t, err, ErrServer)
	})

	t.Run("request id from the response header", func(t *testing.T) {
		header := http.Header{}
		header.Set("request-id", "header-request-id")

		err := ParseErrorResponse(429, nil, header)
		assert.Equal(t, "header-request-id", err.RequestID)
		assert.ErrorIs(t, err, ErrRateLimited)
	})

	t.Run("envelope request id wins over the header", func(t *testing.T) {
		header := http.Header{}
		header.Set("request-id", "header-request-id")

		body := []byte(`{"error":{"code":"TooManyRequests","message":"throttled","innerError":{"request-id":"inner-request-id"}}}`)

		err := ParseErrorResponse(429, body, header)
		assert.Equal(t, "inner-request-id", err.RequestID)
		assert.Equal(t, "TooManyRequests", err.Code)
	})
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "not found",
			err:      ParseErrorResponse(404, nil, nil),
			expected: true,
		},
		{
			name:     "other status",
			err:      ParseErrorResponse(400, nil, nil),
			expected: false,
		},
		{
			name:     "wrapped not found",
			err:      fmt.Errorf("getting user: %w", ParseErrorResponse(404, nil, nil)),
			expected: true,
		},
		{
			name:     "other error type",
			err:      errors.New("some error"),
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNotFound(tt.err))
		})
	}
}

func TestIsUnauthorized(t *testing.T) {
	assert.True(t, IsUnauthorized(ParseErrorResponse(401, nil, nil)))
	assert.True(t, IsUnauthorized(&Error{Err: ErrAuth}))
	assert.False(t, IsUnauthorized(ParseErrorResponse(403, nil, nil)))
	assert.False(t, IsUnauthorized(errors.New("some error")))
}

func TestIsForbidden(t *testing.T) {
	assert.True(t, IsForbidden(ParseErrorResponse(403, nil, nil)))
	assert.False(t, IsForbidden(ParseErrorResponse(401, nil, nil)))
	assert.False(t, IsForbidden(nil))
}

func TestIsRateLimited(t *testing.T) {
	assert.True(t, IsRateLimited(ParseErrorResponse(429, nil, nil)))
	assert.False(t, IsRateLimited(ParseErrorResponse(503, nil, nil)))
	assert.False(t, IsRateLimited(errors.New("some error")))
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "rate limited",
			err:      ParseErrorResponse(429, nil, nil),
			expected: true,
		},
		{
			name:     "service unavailable",
			err:      ParseErrorResponse(503, nil, nil),
			expected: true,
		},
		{
			name:     "server error",
			err:      ParseErrorResponse(500, nil, nil),
			expected: true,
		},
		{
			name:     "bare transient sentinel",
			err:      fmt.Errorf("dialing: %w", ErrTransient),
			expected: true,
		},
		{
			name:     "auth rejection",
			err:      ParseErrorResponse(401, nil, nil),
			expected: false,
		},
		{
			name:     "not found",
			err:      ParseErrorResponse(404, nil, nil),
			expected: false,
		},
		{
			name:     "plain error",
			err:      errors.New("some error"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsRetryable(tt.err))
		})
	}
}

func TestIsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.True(t, IsCancelled(ctx.Err()))
	assert.True(t, IsCancelled(fmt.Errorf("waiting: %w", ctx.Err())))
	assert.False(t, IsCancelled(ParseErrorResponse(500, nil, nil)))
	assert.False(t, IsCancelled(nil))
}
