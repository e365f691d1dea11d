package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fedamerd/msgraph-go/internal/auth"
	"github.com/fedamerd/msgraph-go/internal/constants"
	http_internal "github.com/fedamerd/msgraph-go/internal/http"
	"github.com/fedamerd/msgraph-go/pkg/graph"
)

// Static errors for err113 compliance.
var (
	ErrGraphEndpointRequired    = errors.New("graph endpoint is required")
	ErrNoTokenManagerConfigured = errors.New("no token manager configured")
	ErrStaticTokenCannotRefresh = errors.New("static token cannot be refreshed")
)

// Client implements the graph.Client interface.
type Client struct {
	httpClient   *http_internal.Client
	tokenManager auth.TokenManager
	baseURL      string
	logger       graph.Logger

	// Resource clients
	users   graph.UsersClient
	groups  graph.GroupsClient
	devices graph.DevicesClient
	batch   graph.BatchClient
}

// createTokenManager creates the appropriate token manager based on config.
func createTokenManager(config *graph.Config) auth.TokenManager {
	if config.AccessToken != "" {
		return &staticTokenManager{token: config.AccessToken}
	}

	if config.ClientID != "" && config.ClientSecret != "" {
		return auth.NewClientCredentialsTokenManager(&auth.ClientCredentialsConfig{
			Tenant:        config.Tenant,
			ClientID:      config.ClientID,
			ClientSecret:  config.ClientSecret,
			LoginEndpoint: config.LoginEndpoint,
			Scopes:        config.Scopes,
			SafetyMargin:  config.TokenSafetyMargin,
		})
	}

	return nil // No authentication
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *graph.Config) []http_internal.Option {
	var httpOpts []http_internal.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http_internal.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http_internal.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http_internal.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http_internal.WithHTTPTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http_internal.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	if config.RequestsPerSecond > 0 {
		httpOpts = append(httpOpts, http_internal.WithRateLimiter(http_internal.NewRateLimiter(config.RequestsPerSecond)))
	}

	if config.Interceptors != nil {
		httpOpts = append(httpOpts, http_internal.WithInterceptors(config.Interceptors))
	}

	return httpOpts
}

// New creates a new Graph API client.
func New(config *graph.Config) (*Client, error) {
	if config.GraphEndpoint == "" {
		return nil, ErrGraphEndpointRequired
	}

	// Create token manager based on available credentials
	tokenManager := createTokenManager(config)

	// Create HTTP client
	httpOpts := createHTTPClientOptions(config)
	httpClient := http_internal.NewClient(config.GraphEndpoint, tokenManager, httpOpts...)

	client := &Client{
		httpClient:   httpClient,
		tokenManager: tokenManager,
		baseURL:      config.GraphEndpoint,
		logger:       config.Logger,
	}

	// Initialize resource clients
	client.initializeResourceClients()

	return client, nil
}

// NewWithTokenManager creates a new Graph API client with a custom token
// manager.
func NewWithTokenManager(config *graph.Config, tokenManager auth.TokenManager) (*Client, error) {
	if config.GraphEndpoint == "" {
		return nil, ErrGraphEndpointRequired
	}

	httpOpts := createHTTPClientOptions(config)
	httpClient := http_internal.NewClient(config.GraphEndpoint, tokenManager, httpOpts...)

	client := &Client{
		httpClient:   httpClient,
		tokenManager: tokenManager,
		baseURL:      config.GraphEndpoint,
		logger:       config.Logger,
	}

	client.initializeResourceClients()

	return client, nil
}

// GetTokenManager returns the token manager for this client.
func (c *Client) GetTokenManager() auth.TokenManager {
	return c.tokenManager
}

// Resource client accessors

// Users implements graph.Client.Users.
func (c *Client) Users() graph.UsersClient {
	return c.users
}

// Groups implements graph.Client.Groups.
func (c *Client) Groups() graph.GroupsClient {
	return c.groups
}

// Devices implements graph.Client.Devices.
func (c *Client) Devices() graph.DevicesClient {
	return c.devices
}

// Batch implements graph.Client.Batch.
func (c *Client) Batch() graph.BatchClient {
	return c.batch
}

// AccessToken implements graph.Client.AccessToken.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	if c.tokenManager == nil {
		return "", ErrNoTokenManagerConfigured
	}

	token, err := c.tokenManager.GetToken(ctx)
	if err != nil {
		return "", fmt.Errorf("getting token: %w", err)
	}

	return token, nil
}

// InvalidateToken implements graph.Client.InvalidateToken.
func (c *Client) InvalidateToken() {
	if c.tokenManager == nil {
		return
	}

	c.tokenManager.SetToken("", time.Time{})
}

// Get implements graph.Client.Get.
func (c *Client) Get(ctx context.Context, path string, params *graph.QueryParams) ([]byte, error) {
	req := &http_internal.Request{
		Method: http.MethodGet,
		Path:   path,
	}

	if params != nil {
		err := params.Validate()
		if err != nil {
			return nil, err
		}

		req.Query = params.ToValues()
		req.Headers = params.Headers()
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	return resp.Body, nil
}

// Post implements graph.Client.Post.
func (c *Client) Post(ctx context.Context, path string, body interface{}) ([]byte, error) {
	resp, err := c.httpClient.Post(ctx, path, body)
	if err != nil {
		return nil, err
	}

	return resp.Body, nil
}

// Patch implements graph.Client.Patch.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) ([]byte, error) {
	resp, err := c.httpClient.Patch(ctx, path, body)
	if err != nil {
		return nil, err
	}

	return resp.Body, nil
}

// Delete implements graph.Client.Delete.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.httpClient.Delete(ctx, path)

	return err
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients() {
	c.users = NewUsersClient(c.httpClient)
	c.groups = NewGroupsClient(c.httpClient)
	c.devices = NewDevicesClient(c.httpClient)
	c.batch = NewBatchClient(c.httpClient)
}

// staticTokenManager provides a static token.
type staticTokenManager struct {
	token string
}

func (m *staticTokenManager) GetToken(ctx context.Context) (string, error) {
	return m.token, nil
}

func (m *staticTokenManager) RefreshToken(ctx context.Context) error {
	return ErrStaticTokenCannotRefresh
}

func (m *staticTokenManager) SetToken(token string, expiresAt time.Time) {
	m.token = token
}
