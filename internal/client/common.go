package client

import (
	"net/url"

	"github.com/fedamerd/msgraph-go/internal/constants"
	"github.com/fedamerd/msgraph-go/pkg/graph"
)

// listQuery validates params and expands them into the query values and
// headers for a list request. Invalid params fail here, before any
// network traffic.
func listQuery(params *graph.QueryParams) (url.Values, map[string]string, error) {
	if params == nil {
		return nil, nil, nil
	}

	err := params.Validate()
	if err != nil {
		return nil, nil, err
	}

	return params.ToValues(), params.Headers(), nil
}

// pageHeaders restores the ConsistencyLevel header for page URLs that
// carry advanced query parameters. Paging links embed the query in the
// URL itself, but the header must still accompany every follow-up
// request.
func pageHeaders(pageURL string) map[string]string {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	query := parsed.Query()
	if query.Get("$filter") == "" && query.Get("$search") == "" &&
		query.Get("$orderby") == "" && query.Get("$count") != "true" {
		return nil
	}

	return map[string]string{constants.HeaderConsistencyLevel: constants.ConsistencyLevelEventual}
}
