package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	http_internal "github.com/fedamerd/msgraph-go/internal/http"
	"github.com/fedamerd/msgraph-go/pkg/graph"
)

// NewTestClient creates a client for testing, wired to the given base
// URL without a token manager.
func NewTestClient(baseURL string) *Client {
	httpClient := http_internal.NewClient(baseURL, nil)

	client := &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
	}

	client.initializeResourceClients()

	return client
}

// TestGetOperation represents a test case for get operations.
type TestGetOperation[TResponse any] struct {
	Name         string
	ObjectID     string
	ExpectedPath string
	StatusCode   int
	Response     *TResponse
	WantErr      bool
	ErrMessage   string
}

// RunGetTests runs a series of get operation tests.
func RunGetTests[TResponse any](
	t *testing.T,
	tests []TestGetOperation[TResponse],
	getFunc func(*Client) func(context.Context, string) (*TResponse, error),
) {
	t.Helper()

	for _, testCase := range tests {
		t.Run(testCase.Name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.ExpectedPath, request.URL.Path)
				assert.Equal(t, "GET", request.Method)
				writer.Header().Set("Content-Type", "application/json")
				writer.WriteHeader(testCase.StatusCode)

				if testCase.WantErr {
					errorResponse := map[string]interface{}{
						"error": map[string]interface{}{
							"code":    "Request_ResourceNotFound",
							"message": "Resource does not exist or one of its queried reference-property objects are not present.",
						},
					}
					_ = json.NewEncoder(writer).Encode(errorResponse)
				} else if testCase.Response != nil {
					_ = json.NewEncoder(writer).Encode(testCase.Response)
				}
			}))
			defer server.Close()

			client := NewTestClient(server.URL)

			getFn := getFunc(client)
			result, err := getFn(context.Background(), testCase.ObjectID)

			if testCase.WantErr {
				require.Error(t, err)

				if testCase.ErrMessage != "" {
					assert.Contains(t, err.Error(), testCase.ErrMessage)
				}

				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				require.NotNil(t, result)
			}
		})
	}
}

// TestDeleteOperation represents a test case for delete operations.
type TestDeleteOperation struct {
	Name         string
	ObjectID     string
	ExpectedPath string
	StatusCode   int
	WantErr      bool
	ErrMessage   string
}

// RunDeleteTests runs a series of delete operation tests.
func RunDeleteTests(
	t *testing.T,
	tests []TestDeleteOperation,
	deleteFunc func(*Client) func(context.Context, string) error,
) {
	t.Helper()

	for _, testCase := range tests {
		t.Run(testCase.Name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.ExpectedPath, request.URL.Path)
				assert.Equal(t, "DELETE", request.Method)

				if testCase.WantErr {
					writer.Header().Set("Content-Type", "application/json")
					writer.WriteHeader(testCase.StatusCode)

					errorResponse := map[string]interface{}{
						"error": map[string]interface{}{
							"code":    "Request_ResourceNotFound",
							"message": "Resource does not exist or one of its queried reference-property objects are not present.",
						},
					}
					_ = json.NewEncoder(writer).Encode(errorResponse)

					return
				}

				writer.WriteHeader(testCase.StatusCode)
			}))
			defer server.Close()

			client := NewTestClient(server.URL)

			deleteFn := deleteFunc(client)
			err := deleteFn(context.Background(), testCase.ObjectID)

			if testCase.WantErr {
				require.Error(t, err)

				if testCase.ErrMessage != "" {
					assert.Contains(t, err.Error(), testCase.ErrMessage)
				}
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// TestListOperation represents a test case for single page list
// operations.
type TestListOperation[TResource any] struct {
	Name          string
	Params        *graph.QueryParams
	ExpectedPath  string
	ExpectedQuery map[string]string
	Response      *graph.ListResponse[TResource]
	WantErr       bool
	ErrMessage    string
}

// RunListTests runs a series of list operation tests. Cases with a nil
// Response expect the request to be rejected locally, before anything
// reaches the server.
func RunListTests[TResource any](
	t *testing.T,
	tests []TestListOperation[TResource],
	listFunc func(*Client) func(context.Context, *graph.QueryParams) (*graph.ListResponse[TResource], error),
) {
	t.Helper()

	for _, testCase := range tests {
		t.Run(testCase.Name, func(t *testing.T) {
			var requests int

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				requests++

				assert.Equal(t, testCase.ExpectedPath, request.URL.Path)
				assert.Equal(t, "GET", request.Method)

				for key, value := range testCase.ExpectedQuery {
					assert.Equal(t, value, request.URL.Query().Get(key))
				}

				writer.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(writer).Encode(testCase.Response)
			}))
			defer server.Close()

			client := NewTestClient(server.URL)

			listFn := listFunc(client)
			result, err := listFn(context.Background(), testCase.Params)

			if testCase.WantErr {
				require.Error(t, err)

				if testCase.ErrMessage != "" {
					assert.Contains(t, err.Error(), testCase.ErrMessage)
				}

				assert.Nil(t, result)
				assert.Zero(t, requests)
			} else {
				require.NoError(t, err)
				require.NotNil(t, result)
			}
		})
	}
}
