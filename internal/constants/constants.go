package constants

import "time"

// Service endpoints.
const (
	// DefaultGraphEndpoint is the Microsoft Graph v1.0 base URL.
	DefaultGraphEndpoint = "https://graph.microsoft.com/v1.0"

	// DefaultLoginEndpoint is the Microsoft identity platform base URL.
	DefaultLoginEndpoint = "https://login.microsoftonline.com"

	// TokenPathFormat is the per-tenant token endpoint path.
	TokenPathFormat = "/%s/oauth2/v2.0/token"

	// DefaultScope requests all statically consented Graph permissions.
	DefaultScope = "https://graph.microsoft.com/.default"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// TokenExchangeTimeout bounds a single token endpoint round trip.
	TokenExchangeTimeout = 20 * time.Second
)

// Retry limits and backoff bounds.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 3

	// TokenRetryMax is the number of retries for a failed token exchange.
	TokenRetryMax = 1

	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 30 * time.Second
)

// Token lifetime handling.
const (
	// DefaultTokenSafetyMargin is subtracted from a token's lifetime so
	// a request never departs with a token about to expire mid-flight.
	DefaultTokenSafetyMargin = 5 * time.Minute

	// TokenTypeBearer is the only token type the Graph service issues
	// for the client credentials grant.
	TokenTypeBearer = "Bearer"
)

// Pagination limits.
const (
	// MaxPageSize is the largest page size Graph accepts for $top.
	MaxPageSize = 999

	// DefaultMaxPages caps pagination runs to prevent infinite loops on
	// a misbehaving cursor chain.
	DefaultMaxPages = 1000

	// StreamBufferSize is the channel buffer for streamed page batches.
	StreamBufferSize = 10
)

// Batch limits.
const (
	// MaxBatchRequests is the most sub-requests Graph accepts per $batch call.
	MaxBatchRequests = 20
)

// API paths.
const (
	// APIPathUsers is the users collection.
	APIPathUsers = "/users"

	// APIPathGroups is the groups collection.
	APIPathGroups = "/groups"

	// APIPathDevices is the devices collection.
	APIPathDevices = "/devices"

	// APIPathDeviceLocalCredentials is the device local credentials collection.
	APIPathDeviceLocalCredentials = "/directory/deviceLocalCredentials"

	// APIPathBatch is the JSON batching endpoint.
	APIPathBatch = "/$batch"
)

// Header names.
const (
	// HeaderConsistencyLevel opts a request into the advanced query engine.
	HeaderConsistencyLevel = "ConsistencyLevel"

	// HeaderRetryAfter carries the server-requested backoff in seconds.
	HeaderRetryAfter = "Retry-After"

	// HeaderClientRequestID correlates a request in Graph service logs.
	HeaderClientRequestID = "client-request-id"

	// HeaderRequestID is the server-assigned id echoed on responses.
	HeaderRequestID = "request-id"
)

// Header values.
const (
	// ConsistencyLevelEventual is the only documented ConsistencyLevel value.
	ConsistencyLevelEventual = "eventual"
)

// Environment variable names recognized by the settings resolver.
const (
	// EnvTenantID carries the directory tenant id.
	EnvTenantID = "AAD_TENANT_ID"

	// EnvClientID carries the application (client) id.
	EnvClientID = "AAD_CLIENT_ID"

	// EnvClientSecret carries the client secret.
	EnvClientSecret = "AAD_CLIENT_SECRET"

	// EnvTimeout overrides the HTTP timeout (Go duration string).
	EnvTimeout = "MSGRAPH_TIMEOUT"

	// EnvMaxRetries overrides the retry bound.
	EnvMaxRetries = "MSGRAPH_MAX_RETRIES"

	// EnvTokenSafetyMargin overrides the token safety margin (Go duration string).
	EnvTokenSafetyMargin = "MSGRAPH_TOKEN_SAFETY_MARGIN"
)
