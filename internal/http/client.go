// Package http provides the HTTP transport for the Graph API client,
// with token handling, rate limiting, retries, and error classification.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	retryablehttp "github.com/hashicorp/go-retryablehttp"

	"github.com/fedamerd/msgraph-go/internal/auth"
	"github.com/fedamerd/msgraph-go/internal/constants"
	"github.com/fedamerd/msgraph-go/pkg/graph"
)

// Request is a single Graph API request.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
}

// Response is the raw result of a dispatched request.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client dispatches requests to the Graph API. It acquires a token per
// request, paces dispatches through an optional rate limiter, retries
// transient failures with exponential backoff, resolves a 401 with one
// forced token renewal, and classifies every terminal failure.
type Client struct {
	baseURL      string
	tokenManager auth.TokenManager
	retryClient  *retryablehttp.Client
	logger       graph.Logger
	debug        bool
	userAgent    string
	limiter      *RateLimiter
	interceptors *graph.InterceptorChain
}

// Option configures the client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger graph.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request and response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent sets the User-Agent header for all requests.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig overrides the retry budget and backoff window.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.retryClient.RetryMax = retryMax
		c.retryClient.RetryWaitMin = waitMin
		c.retryClient.RetryWaitMax = waitMax
	}
}

// WithHTTPTimeout sets the per-attempt timeout.
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.retryClient.HTTPClient.Timeout = timeout
	}
}

// WithRateLimiter paces dispatches through the given limiter.
func WithRateLimiter(limiter *RateLimiter) Option {
	return func(c *Client) {
		c.limiter = limiter
	}
}

// WithInterceptors installs a request/response interceptor chain.
func WithInterceptors(chain *graph.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// NewClient creates a new HTTP client for the Graph API. A nil token
// manager sends unauthenticated requests, which is useful in tests.
func NewClient(baseURL string, tokenManager auth.TokenManager, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.Logger = nil
	// Keep the final response so the caller sees the status and body the
	// service actually sent once the retry budget is spent.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		tokenManager: tokenManager,
		retryClient:  retryClient,
	}

	retryClient.CheckRetry = client.checkRetry
	retryClient.RequestLogHook = client.beforeAttempt
	retryClient.ResponseLogHook = client.afterAttempt

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do executes a request against the Graph API. Responses with an error
// status are returned together with the classified error so callers can
// inspect both.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if requiresConsistencyLevel(req.Query) && !hasConsistencyLevel(req.Headers) {
		return nil, &graph.Error{
			Code:    "BadRequest",
			Message: constants.ErrMissingConsistencyHeader.Error(),
			Err:     graph.ErrInvalidQuery,
		}
	}

	bodyBytes, err := marshalBody(req.Body)
	if err != nil {
		return nil, err
	}

	fullURL := c.buildURL(req)
	headers := c.buildHeaders(req, bodyBytes)

	intercepted := &graph.Request{
		Method:  req.Method,
		Path:    req.Path,
		Headers: headers,
		Body:    bodyBytes,
	}

	if c.interceptors != nil {
		err := c.interceptors.ExecuteRequestInterceptors(ctx, intercepted)
		if err != nil {
			return nil, err
		}

		headers = intercepted.Headers
	}

	if c.tokenManager != nil {
		token, err := c.tokenManager.GetToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("getting token: %w", err)
		}

		headers.Set("Authorization", constants.TokenTypeBearer+" "+token)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
		})
	}

	httpResp, err := c.roundTrip(ctx, req.Method, fullURL, headers, bodyBytes)
	if err != nil {
		drainAndClose(httpResp)

		return nil, c.classifyTransportError(req, err)
	}

	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &graph.Error{
			StatusCode: httpResp.StatusCode,
			Message:    fmt.Sprintf("reading response body: %v", err),
			Err:        graph.ErrTransient,
		}
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status_code": resp.StatusCode,
			"url":         fullURL,
		})
	}

	var resultErr error
	if resp.StatusCode >= 400 {
		resultErr = graph.ParseErrorResponse(resp.StatusCode, resp.Body, resp.Headers)
	}

	if c.interceptors != nil {
		interceptedResp := &graph.Response{
			StatusCode: resp.StatusCode,
			Headers:    resp.Headers,
			Body:       resp.Body,
			Error:      resultErr,
		}

		err := c.interceptors.ExecuteResponseInterceptors(ctx, intercepted, interceptedResp)
		if err != nil {
			return resp, err
		}
	}

	return resp, resultErr
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Patch performs a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

// roundTrip sends the request through the retrying transport. A 401
// despite a locally valid token means the token was revoked or issued
// for the wrong audience, so it is renewed once and the request resent
// before giving up.
func (c *Client) roundTrip(ctx context.Context, method, fullURL string, headers http.Header, body []byte) (*http.Response, error) {
	resp, err := c.dispatch(ctx, method, fullURL, headers, body)
	if err != nil || resp == nil {
		return resp, err
	}

	if resp.StatusCode != http.StatusUnauthorized || c.tokenManager == nil {
		return resp, nil
	}

	refreshErr := c.tokenManager.RefreshToken(ctx)
	if refreshErr != nil {
		graphErr := &graph.Error{}
		if errors.As(refreshErr, &graphErr) || graph.IsCancelled(refreshErr) {
			drainAndClose(resp)

			return nil, fmt.Errorf("renewing token after 401: %w", refreshErr)
		}

		// Renewal is unavailable for this credential; surface the 401 itself.
		return resp, nil
	}

	drainAndClose(resp)

	token, tokenErr := c.tokenManager.GetToken(ctx)
	if tokenErr != nil {
		return nil, fmt.Errorf("getting token: %w", tokenErr)
	}

	headers.Set("Authorization", constants.TokenTypeBearer+" "+token)

	return c.dispatch(ctx, method, fullURL, headers, body)
}

// dispatch performs one send through the retrying transport.
func (c *Client) dispatch(ctx context.Context, method, fullURL string, headers http.Header, body []byte) (*http.Response, error) {
	httpReq, err := retryablehttp.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	for key, values := range headers {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}

	return c.retryClient.Do(httpReq)
}

// checkRetry keeps retrying transport failures, throttling, and server
// errors. Other client errors are final, and a 401 is resolved by
// roundTrip with a forced token renewal instead of a blind retry.
func (c *Client) checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	if err != nil {
		return true, nil
	}

	if resp == nil {
		return true, nil
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return true, nil
	}

	return false, nil
}

// beforeAttempt paces every attempt, retries included, through the
// shared rate limiter.
func (c *Client) beforeAttempt(_ retryablehttp.Logger, req *http.Request, _ int) {
	if c.limiter == nil {
		return
	}

	_ = c.limiter.Wait(req.Context())
}

// afterAttempt feeds throttling responses back into the rate limiter so
// concurrent requests slow down too.
func (c *Client) afterAttempt(_ retryablehttp.Logger, resp *http.Response) {
	if c.limiter == nil || resp == nil {
		return
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable {
		c.limiter.RecordRetryAfter(parseRetryAfter(resp.Header.Get(constants.HeaderRetryAfter)))
	}
}

// classifyTransportError maps a failed exchange onto the error taxonomy.
// Errors already classified upstream pass through, as do the caller's
// own context errors.
func (c *Client) classifyTransportError(req *Request, err error) error {
	graphErr := &graph.Error{}
	if errors.As(err, &graphErr) {
		return err
	}

	if graph.IsCancelled(err) {
		return err
	}

	return &graph.Error{
		Message: fmt.Sprintf("%s %s: %v", req.Method, req.Path, err),
		Err:     graph.ErrTransient,
	}
}

// buildURL resolves the request path against the base URL. Paging links
// come back absolute and pass through untouched.
func (c *Client) buildURL(req *Request) string {
	fullURL := req.Path
	if !strings.HasPrefix(fullURL, "http://") && !strings.HasPrefix(fullURL, "https://") {
		fullURL = c.baseURL + req.Path
	}

	if len(req.Query) > 0 {
		separator := "?"
		if strings.Contains(fullURL, "?") {
			separator = "&"
		}

		fullURL += separator + req.Query.Encode()
	}

	return fullURL
}

func (c *Client) buildHeaders(req *Request, body []byte) http.Header {
	headers := make(http.Header)
	headers.Set("Accept", "application/json")

	if body != nil {
		headers.Set("Content-Type", "application/json")
	}

	if c.userAgent != "" {
		headers.Set("User-Agent", c.userAgent)
	}

	for key, value := range req.Headers {
		headers.Set(key, value)
	}

	return headers
}

// requiresConsistencyLevel reports whether the query uses parameters the
// directory endpoints only honor together with ConsistencyLevel:
// eventual.
func requiresConsistencyLevel(query url.Values) bool {
	if query == nil {
		return false
	}

	if query.Get("$filter") != "" || query.Get("$search") != "" || query.Get("$orderby") != "" {
		return true
	}

	return query.Get("$count") == "true"
}

func hasConsistencyLevel(headers map[string]string) bool {
	for key := range headers {
		if strings.EqualFold(key, constants.HeaderConsistencyLevel) {
			return true
		}
	}

	return false
}

func marshalBody(body interface{}) ([]byte, error) {
	if body == nil {
		return nil, nil
	}

	if raw, ok := body.([]byte); ok {
		return raw, nil
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request body: %w", err)
	}

	return data, nil
}

func drainAndClose(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
