package graph

import (
	"context"
	"errors"
	"time"
)

// Static errors for err113 compliance.
var (
	ErrDeprecatedClientConstructor = errors.New("use github.com/fedamerd/msgraph-go/pkg/graphclient.New to create a client")
)

// DirectoryClients provides access to directory resource clients.
type DirectoryClients interface {
	Users() UsersClient
	Groups() GroupsClient
	Devices() DevicesClient
}

// BatchClient submits multiple operations in one round trip.
type BatchClient interface {
	Submit(ctx context.Context, batch *BatchRequest) (*BatchResponse, error)
}

// RawClient exposes the request execution engine directly for endpoints
// this module carries no typed wrapper for. Paths are relative to the
// Graph base URL; bodies are JSON-encoded.
type RawClient interface {
	Get(ctx context.Context, path string, params *QueryParams) ([]byte, error)
	Post(ctx context.Context, path string, body interface{}) ([]byte, error)
	Patch(ctx context.Context, path string, body interface{}) ([]byte, error)
	Delete(ctx context.Context, path string) error
}

// UsersClient operates on user objects.
type UsersClient interface {
	Get(ctx context.Context, id string, params *QueryParams) (*User, error)
	List(ctx context.Context, params *QueryParams) (*ListResponse[User], error)
	ListAll(ctx context.Context, params *QueryParams) ([]User, error)
	ListPage(ctx context.Context, pageURL string) (*ListResponse[User], error)
	Update(ctx context.Context, id string, update *UserUpdate) error
	ListMemberOf(ctx context.Context, id string, params *QueryParams) (*ListResponse[DirectoryObject], error)
}

// GroupsClient operates on group objects.
type GroupsClient interface {
	Get(ctx context.Context, id string, params *QueryParams) (*Group, error)
	List(ctx context.Context, params *QueryParams) (*ListResponse[Group], error)
	ListAll(ctx context.Context, params *QueryParams) ([]Group, error)
	ListPage(ctx context.Context, pageURL string) (*ListResponse[Group], error)
	ListMembers(ctx context.Context, id string, params *QueryParams) (*ListResponse[DirectoryObject], error)
	AddMember(ctx context.Context, groupID, memberID string) error
	RemoveMember(ctx context.Context, groupID, memberID string) error
}

// DevicesClient operates on device objects, including the owned-device
// relationship and device local credentials.
type DevicesClient interface {
	Get(ctx context.Context, id string, params *QueryParams) (*Device, error)
	List(ctx context.Context, params *QueryParams) (*ListResponse[Device], error)
	ListAll(ctx context.Context, params *QueryParams) ([]Device, error)
	ListPage(ctx context.Context, pageURL string) (*ListResponse[Device], error)
	Delete(ctx context.Context, id string) error
	ListOwned(ctx context.Context, userID string, params *QueryParams) (*ListResponse[Device], error)
	ListOwnedAll(ctx context.Context, userID string, params *QueryParams) ([]Device, error)
	GetLocalCredentials(ctx context.Context, deviceID string) (*DeviceLocalCredentials, error)
}

// TokenClient exposes the credential used for requests.
type TokenClient interface {
	// AccessToken returns a bearer token valid for at least the
	// configured safety margin, renewing it first if needed.
	AccessToken(ctx context.Context) (string, error)
	// InvalidateToken drops the cached token so the next call renews.
	InvalidateToken()
}

type Client interface {
	DirectoryClients
	TokenClient
	RawClient

	Batch() BatchClient
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a graph.Client.
//
// # Authentication precedence
//
// The following precedence is applied by the concrete client implementation
// (see pkg/graphclient and internal/client):
//  1. AccessToken: if set, it is used directly as a static Bearer token and
//     never renewed; requests fail once it expires.
//  2. Tenant + ClientID/ClientSecret: uses the OAuth2 client_credentials
//     grant against the Microsoft identity platform. The token is cached
//     in memory and renewed before expiry.
//
// # Timeouts, retries, and token lifetime
//
// Per-request deadlines should generally be controlled via the context
// passed to client methods; HTTPTimeout caps any single round trip.
// Retry behavior is tuned via RetryMax/RetryWaitMin/RetryWaitMax.
// TokenSafetyMargin is subtracted from each token's lifetime when
// deciding whether it is still usable, so a token is renewed before it
// can expire mid-request.
type Config struct {
	// Required fields
	// Tenant: directory tenant ID or domain (e.g. "contoso.onmicrosoft.com").
	Tenant string

	// Authentication options (provide one set)
	// ClientID: application (client) ID for the client_credentials grant.
	ClientID string
	// ClientSecret: client secret used with ClientID.
	ClientSecret string
	// AccessToken: if set, used directly as a static Bearer token.
	AccessToken string

	// Optional configurations
	// GraphEndpoint: base URL for Graph calls. Defaults to the v1.0 endpoint.
	GraphEndpoint string
	// LoginEndpoint: base URL for the identity platform. Defaults to
	// login.microsoftonline.com.
	LoginEndpoint string
	// Scopes: OAuth2 scopes requested on token exchange. Defaults to
	// the .default Graph scope.
	Scopes []string
	// HTTPTimeout: cap on a single HTTP round trip.
	HTTPTimeout time.Duration
	// RetryMax: maximum number of retries for transient failures (>=500,
	// 429, and connection errors). If 0, a sensible default is used.
	RetryMax int
	// RetryWaitMin: minimum backoff between retries.
	RetryWaitMin time.Duration
	// RetryWaitMax: maximum backoff between retries.
	RetryWaitMax time.Duration
	// TokenSafetyMargin: how long before expiry a token is treated as
	// stale. If 0, a 5 minute default is used.
	TokenSafetyMargin time.Duration
	// RequestsPerSecond: client-side throttle. 0 disables throttling.
	RequestsPerSecond float64
	// Debug: enables verbose HTTP request/response logging when a Logger
	// is provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer.
	Logger Logger
	// UserAgent: overrides the default User-Agent header.
	UserAgent string
	// Interceptors: optional request/response interceptor chain applied
	// around every dispatch.
	Interceptors *InterceptorChain
}

// NewClient creates a new Graph client
// Deprecated: Use github.com/fedamerd/msgraph-go/pkg/graphclient.New instead.
func NewClient(config *Config) (Client, error) {
	return nil, ErrDeprecatedClientConstructor
}
