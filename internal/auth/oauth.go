package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/fedamerd/msgraph-go/internal/constants"
	"github.com/fedamerd/msgraph-go/pkg/graph"
)

// TokenManager handles token acquisition and renewal.
type TokenManager interface {
	// GetToken returns a token valid for at least the configured safety
	// margin, renewing the cached one first when needed.
	GetToken(ctx context.Context) (string, error)
	// RefreshToken discards the cached token and acquires a fresh one.
	RefreshToken(ctx context.Context) error
	// SetToken installs a token obtained out of band.
	SetToken(token string, expiresAt time.Time)
}

// ClientCredentialsConfig configures app-only authentication against the
// Microsoft identity platform.
type ClientCredentialsConfig struct {
	// Tenant is the directory tenant, as a GUID or a verified domain name.
	Tenant string
	// ClientID is the application (client) ID.
	ClientID string
	// ClientSecret is the application secret.
	ClientSecret string
	// LoginEndpoint overrides the default login.microsoftonline.com base.
	LoginEndpoint string
	// Scopes defaults to the Graph .default scope.
	Scopes []string
	// SafetyMargin is subtracted from the token lifetime when deciding
	// whether the cached token is still usable.
	SafetyMargin time.Duration
	// HTTPClient is the client used for the token exchange.
	HTTPClient *http.Client
}

// ClientCredentialsTokenManager acquires app-only tokens with the client
// credentials grant and caches them until they approach expiry.
type ClientCredentialsTokenManager struct {
	config     *ClientCredentialsConfig
	store      *TokenStore
	httpClient *http.Client
	tokenURL   string
	margin     time.Duration

	// renewMu serializes renewals only. Callers holding a still-valid
	// cached token never take it.
	renewMu sync.Mutex
}

// NewClientCredentialsTokenManager creates a token manager for the
// client credentials flow.
func NewClientCredentialsTokenManager(config *ClientCredentialsConfig) *ClientCredentialsTokenManager {
	loginEndpoint := strings.TrimSuffix(config.LoginEndpoint, "/")
	if loginEndpoint == "" {
		loginEndpoint = constants.DefaultLoginEndpoint
	}

	margin := config.SafetyMargin
	if margin <= 0 {
		margin = constants.DefaultTokenSafetyMargin
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: constants.TokenExchangeTimeout}
	}

	return &ClientCredentialsTokenManager{
		config:     config,
		store:      NewTokenStore(),
		httpClient: httpClient,
		tokenURL:   loginEndpoint + fmt.Sprintf(constants.TokenPathFormat, url.PathEscape(config.Tenant)),
		margin:     margin,
	}
}

// GetToken returns the cached token while it remains valid for at least
// the safety margin and renews it otherwise. Concurrent callers share a
// single renewal.
func (m *ClientCredentialsTokenManager) GetToken(ctx context.Context) (string, error) {
	if token := m.store.Get(); token.ValidWithin(m.margin) {
		return token.AccessToken, nil
	}

	m.renewMu.Lock()
	defer m.renewMu.Unlock()

	// Another caller may have renewed while this one waited for the lock.
	if token := m.store.Get(); token.ValidWithin(m.margin) {
		return token.AccessToken, nil
	}

	token, err := m.requestToken(ctx)
	if err != nil {
		return "", err
	}

	m.store.Set(token)

	return token.AccessToken, nil
}

// RefreshToken discards the cached token and performs a fresh exchange.
// The transport calls this when a request comes back 401 despite a token
// that looked valid locally.
func (m *ClientCredentialsTokenManager) RefreshToken(ctx context.Context) error {
	m.renewMu.Lock()
	defer m.renewMu.Unlock()

	token, err := m.requestToken(ctx)
	if err != nil {
		return err
	}

	m.store.Set(token)

	return nil
}

// SetToken installs a token obtained out of band.
func (m *ClientCredentialsTokenManager) SetToken(accessToken string, expiresAt time.Time) {
	m.store.Set(&Token{
		AccessToken: accessToken,
		TokenType:   constants.TokenTypeBearer,
		ExpiresAt:   expiresAt,
		Tenant:      m.config.Tenant,
	})
}

// requestToken performs the exchange, retrying once when the identity
// platform is unreachable or answers with a retryable status.
func (m *ClientCredentialsTokenManager) requestToken(ctx context.Context) (*Token, error) {
	if m.config.Tenant == "" || m.config.ClientID == "" || m.config.ClientSecret == "" {
		return nil, constants.ErrNoCredentials
	}

	var lastErr error

	for attempt := 0; attempt <= constants.TokenRetryMax; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(constants.DefaultRetryWaitMin):
			}
		}

		token, err := m.exchange(ctx)
		if err == nil {
			return token, nil
		}

		if !graph.IsRetryable(err) {
			return nil, err
		}

		lastErr = err
	}

	return nil, lastErr
}

// exchange sends one token request. The identity platform expects the
// client id and secret in the form body, not as basic auth.
func (m *ClientCredentialsTokenManager) exchange(ctx context.Context) (*Token, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", m.config.ClientID)
	form.Set("client_secret", m.config.ClientSecret)
	form.Set("scope", strings.Join(m.scopes(), " "))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		return nil, &graph.Error{
			Message: fmt.Sprintf("token endpoint unreachable: %v", err),
			Err:     graph.ErrTransientAuth,
		}
	}

	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &graph.Error{
			Message: fmt.Sprintf("reading token response: %v", err),
			Err:     graph.ErrTransientAuth,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, tokenError(resp.StatusCode, body)
	}

	var token Token
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, &graph.Error{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("decoding token response: %v", err),
			Err:        graph.ErrProtocol,
		}
	}

	if token.AccessToken == "" {
		return nil, fmt.Errorf("token response invalid: %w", constants.ErrMissingAccessToken)
	}

	if token.ExpiresIn <= 0 {
		return nil, fmt.Errorf("token response invalid: %w", constants.ErrMissingExpiresIn)
	}

	if token.TokenType == "" {
		token.TokenType = constants.TokenTypeBearer
	}

	token.ExpiresAt = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	token.Tenant = m.config.Tenant

	return &token, nil
}

func (m *ClientCredentialsTokenManager) scopes() []string {
	if len(m.config.Scopes) > 0 {
		return m.config.Scopes
	}

	return []string{constants.DefaultScope}
}

// tokenError classifies a non-2xx answer from the token endpoint. The
// identity platform reports failures as {error, error_description}.
// Rejections are final; throttling and server failures are worth one
// more attempt.
func tokenError(statusCode int, body []byte) *graph.Error {
	kind := graph.ErrAuth
	if statusCode == http.StatusTooManyRequests || statusCode >= 500 {
		kind = graph.ErrTransientAuth
	}

	graphErr := &graph.Error{
		StatusCode: statusCode,
		Message:    http.StatusText(statusCode),
		Err:        kind,
	}

	var payload struct {
		ErrorCode   string `json:"error"`
		Description string `json:"error_description"`
	}

	if err := json.Unmarshal(body, &payload); err == nil && payload.ErrorCode != "" {
		graphErr.Code = payload.ErrorCode
		graphErr.Message = payload.Description
	}

	return graphErr
}
