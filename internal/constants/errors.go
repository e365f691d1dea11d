package constants

import "errors"

// Configuration errors.
var (
	ErrNoTenantID        = errors.New("no tenant ID configured")
	ErrNoClientID        = errors.New("no client ID configured")
	ErrNoClientSecret    = errors.New("no client secret configured")
	ErrNoCredentials     = errors.New("no valid credentials available")
	ErrPromptUnavailable = errors.New("interactive prompt requires a terminal")
)

// Token exchange errors.
var (
	ErrMissingAccessToken = errors.New("token response missing access_token")
	ErrMissingExpiresIn   = errors.New("token response missing expires_in")
)

// Query validation errors.
var (
	ErrSearchContainsQuotes     = errors.New("$search value must not embed double quotes")
	ErrTopOutOfRange            = errors.New("$top must be between 1 and 999")
	ErrMissingConsistencyHeader = errors.New("advanced query requires the eventual consistency header")
	ErrEmptyFilterExpression    = errors.New("empty filter expression")
)

// Batch errors.
var (
	ErrBatchTooLarge    = errors.New("batch exceeds the request limit")
	ErrBatchEmpty       = errors.New("batch contains no requests")
	ErrBatchDuplicateID = errors.New("batch request IDs must be unique")
	ErrBatchMissingID   = errors.New("batch request is missing an ID")
	ErrBatchUnmatchedID = errors.New("batch request depends on an unknown request ID")
)
