package client

import (
	"context"
	"fmt"

	"github.com/fedamerd/msgraph-go/internal/constants"
	http_internal "github.com/fedamerd/msgraph-go/internal/http"
	"github.com/fedamerd/msgraph-go/pkg/graph"
)

// GroupsClient implements the graph.GroupsClient interface.
type GroupsClient struct {
	httpClient *http_internal.Client
}

// NewGroupsClient creates a new GroupsClient.
func NewGroupsClient(httpClient *http_internal.Client) *GroupsClient {
	return &GroupsClient{
		httpClient: httpClient,
	}
}

// Get retrieves a specific group by object id.
func (c *GroupsClient) Get(ctx context.Context, id string, params *graph.QueryParams) (*graph.Group, error) {
	return getResource[graph.Group](ctx, c.httpClient, constants.APIPathGroups+"/"+id, "group", params)
}

// List lists one page of groups.
func (c *GroupsClient) List(ctx context.Context, params *graph.QueryParams) (*graph.ListResponse[graph.Group], error) {
	return listResource[graph.Group](ctx, c.httpClient, constants.APIPathGroups, "groups", params)
}

// ListAll follows paging links and returns every group.
func (c *GroupsClient) ListAll(ctx context.Context, params *graph.QueryParams) ([]graph.Group, error) {
	return graph.FetchAllPages[graph.Group](ctx, c, constants.APIPathGroups, params, graph.DefaultPaginationOptions())
}

// ListPage fetches a single page by URL, either an initial collection
// URL or a paging link from a previous response.
func (c *GroupsClient) ListPage(ctx context.Context, pageURL string) (*graph.ListResponse[graph.Group], error) {
	return listResourcePage[graph.Group](ctx, c.httpClient, pageURL, "groups")
}

// ListMembers lists one page of the group's direct members.
func (c *GroupsClient) ListMembers(ctx context.Context, id string, params *graph.QueryParams) (*graph.ListResponse[graph.DirectoryObject], error) {
	return listResource[graph.DirectoryObject](ctx, c.httpClient, constants.APIPathGroups+"/"+id+"/members", "group members", params)
}

// AddMember adds a directory object to the group. The service answers
// with no content on success.
func (c *GroupsClient) AddMember(ctx context.Context, groupID, memberID string) error {
	body := map[string]string{
		"@odata.id": c.httpClient.BaseURL() + "/directoryObjects/" + memberID,
	}

	_, err := c.httpClient.Post(ctx, constants.APIPathGroups+"/"+groupID+"/members/$ref", body)
	if err != nil {
		return fmt.Errorf("adding group member: %w", err)
	}

	return nil
}

// RemoveMember removes a directory object from the group. The service
// answers with no content on success.
func (c *GroupsClient) RemoveMember(ctx context.Context, groupID, memberID string) error {
	_, err := c.httpClient.Delete(ctx, constants.APIPathGroups+"/"+groupID+"/members/"+memberID+"/$ref")
	if err != nil {
		return fmt.Errorf("removing group member: %w", err)
	}

	return nil
}
