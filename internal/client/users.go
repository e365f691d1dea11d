package client

import (
	"context"
	"fmt"

	"github.com/fedamerd/msgraph-go/internal/constants"
	http_internal "github.com/fedamerd/msgraph-go/internal/http"
	"github.com/fedamerd/msgraph-go/pkg/graph"
)

// UsersClient implements the graph.UsersClient interface.
type UsersClient struct {
	httpClient *http_internal.Client
}

// NewUsersClient creates a new UsersClient.
func NewUsersClient(httpClient *http_internal.Client) *UsersClient {
	return &UsersClient{
		httpClient: httpClient,
	}
}

// Get retrieves a specific user by object id or user principal name.
func (c *UsersClient) Get(ctx context.Context, id string, params *graph.QueryParams) (*graph.User, error) {
	return getResource[graph.User](ctx, c.httpClient, constants.APIPathUsers+"/"+id, "user", params)
}

// List lists one page of users.
func (c *UsersClient) List(ctx context.Context, params *graph.QueryParams) (*graph.ListResponse[graph.User], error) {
	return listResource[graph.User](ctx, c.httpClient, constants.APIPathUsers, "users", params)
}

// ListAll follows paging links and returns every user.
func (c *UsersClient) ListAll(ctx context.Context, params *graph.QueryParams) ([]graph.User, error) {
	return graph.FetchAllPages[graph.User](ctx, c, constants.APIPathUsers, params, graph.DefaultPaginationOptions())
}

// ListPage fetches a single page by URL, either an initial collection
// URL or a paging link from a previous response.
func (c *UsersClient) ListPage(ctx context.Context, pageURL string) (*graph.ListResponse[graph.User], error) {
	return listResourcePage[graph.User](ctx, c.httpClient, pageURL, "users")
}

// Update applies a partial update to a user. The service answers with
// no content on success.
func (c *UsersClient) Update(ctx context.Context, id string, update *graph.UserUpdate) error {
	_, err := c.httpClient.Patch(ctx, constants.APIPathUsers+"/"+id, update)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}

	return nil
}

// ListMemberOf lists one page of the groups and directory roles the user
// is a direct member of.
func (c *UsersClient) ListMemberOf(ctx context.Context, id string, params *graph.QueryParams) (*graph.ListResponse[graph.DirectoryObject], error) {
	return listResource[graph.DirectoryObject](ctx, c.httpClient, constants.APIPathUsers+"/"+id+"/memberOf", "user memberships", params)
}
