package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	http_internal "github.com/fedamerd/msgraph-go/internal/http"
	"github.com/fedamerd/msgraph-go/pkg/graph"
)

// getResource fetches and decodes a single directory object. Query
// params are validated locally before anything is dispatched.
func getResource[T any](ctx context.Context, httpClient *http_internal.Client, path, what string, params *graph.QueryParams) (*T, error) {
	query, headers, err := listQuery(params)
	if err != nil {
		return nil, err
	}

	resp, err := httpClient.Do(ctx, &http_internal.Request{
		Method:  http.MethodGet,
		Path:    path,
		Query:   query,
		Headers: headers,
	})
	if err != nil {
		return nil, fmt.Errorf("getting %s: %w", what, err)
	}

	var resource T

	err = json.Unmarshal(resp.Body, &resource)
	if err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", what, err)
	}

	return &resource, nil
}

// listResource fetches and decodes one page of a collection.
func listResource[T any](ctx context.Context, httpClient *http_internal.Client, path, what string, params *graph.QueryParams) (*graph.ListResponse[T], error) {
	query, headers, err := listQuery(params)
	if err != nil {
		return nil, err
	}

	resp, err := httpClient.Do(ctx, &http_internal.Request{
		Method:  http.MethodGet,
		Path:    path,
		Query:   query,
		Headers: headers,
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", what, err)
	}

	var result graph.ListResponse[T]

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", what, err)
	}

	return &result, nil
}

// listResourcePage fetches a single page by URL, either an initial
// collection URL or a paging link from a previous response.
func listResourcePage[T any](ctx context.Context, httpClient *http_internal.Client, pageURL, what string) (*graph.ListResponse[T], error) {
	resp, err := httpClient.Do(ctx, &http_internal.Request{
		Method:  http.MethodGet,
		Path:    pageURL,
		Headers: pageHeaders(pageURL),
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s page: %w", what, err)
	}

	var result graph.ListResponse[T]

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", what, err)
	}

	return &result, nil
}
