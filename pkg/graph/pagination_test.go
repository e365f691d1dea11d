package graph_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/fedamerd/msgraph-go/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockPageLister implements PageLister for testing, keyed by the exact
// page URL the helpers dispatch.
type MockPageLister struct {
	pages  map[string]*graph.ListResponse[TestResource]
	failOn string
	calls  []string
}

type TestResource struct {
	ID          string
	DisplayName string
}

var errPageUnavailable = errors.New("page unavailable")

func (m *MockPageLister) ListPage(ctx context.Context, pageURL string) (*graph.ListResponse[TestResource], error) {
	m.calls = append(m.calls, pageURL)

	if m.failOn != "" && pageURL == m.failOn {
		return nil, errPageUnavailable
	}

	response, ok := m.pages[pageURL]
	if !ok {
		return nil, fmt.Errorf("unexpected page URL %q", pageURL)
	}

	return response, nil
}

const (
	pageTwoLink   = "https://graph.example.com/v1.0/test?$skiptoken=page2"
	pageThreeLink = "https://graph.example.com/v1.0/test?$skiptoken=page3"
)

func threePageLister() *MockPageLister {
	return &MockPageLister{
		pages: map[string]*graph.ListResponse[TestResource]{
			"/test?%24top=2": {
				NextLink: pageTwoLink,
				Value: []TestResource{
					{ID: "1", DisplayName: "Resource 1"},
					{ID: "2", DisplayName: "Resource 2"},
				},
			},
			pageTwoLink: {
				NextLink: pageThreeLink,
				Value: []TestResource{
					{ID: "3", DisplayName: "Resource 3"},
					{ID: "4", DisplayName: "Resource 4"},
				},
			},
			pageThreeLink: {
				Value: []TestResource{
					{ID: "5", DisplayName: "Resource 5"},
				},
			},
		},
	}
}

func TestPaginationIterator_HasNext(t *testing.T) {
	client := &MockPageLister{
		pages: map[string]*graph.ListResponse[TestResource]{
			"/test": {
				NextLink: pageTwoLink,
				Value: []TestResource{
					{ID: "1", DisplayName: "Resource 1"},
					{ID: "2", DisplayName: "Resource 2"},
				},
			},
			pageTwoLink: {
				Value: []TestResource{
					{ID: "3", DisplayName: "Resource 3"},
				},
			},
		},
	}

	ctx := context.Background()
	iterator := graph.NewPaginationIterator[TestResource](ctx, client, "/test", nil)

	// Should have next before any fetch
	assert.True(t, iterator.HasNext())

	// Fetch first item
	item1, err := iterator.Next()
	require.NoError(t, err)
	assert.Equal(t, "1", item1.ID)

	// Should still have next
	assert.True(t, iterator.HasNext())

	// Fetch second item
	item2, err := iterator.Next()
	require.NoError(t, err)
	assert.Equal(t, "2", item2.ID)

	// Should still have next (page 2)
	assert.True(t, iterator.HasNext())

	// Fetch third item
	item3, err := iterator.Next()
	require.NoError(t, err)
	assert.Equal(t, "3", item3.ID)

	// Should not have next
	assert.False(t, iterator.HasNext())

	// Pages were fetched lazily, in cursor order
	assert.Equal(t, []string{"/test", pageTwoLink}, client.calls)
}

func TestPaginationIterator_NextAfterExhaustion(t *testing.T) {
	client := &MockPageLister{
		pages: map[string]*graph.ListResponse[TestResource]{
			"/test": {
				Value: []TestResource{{ID: "1", DisplayName: "Resource 1"}},
			},
		},
	}

	iterator := graph.NewPaginationIterator[TestResource](context.Background(), client, "/test", nil)

	_, err := iterator.Next()
	require.NoError(t, err)

	_, err = iterator.Next()
	assert.ErrorIs(t, err, graph.ErrNoMoreItems)
}

func TestPaginationIterator_All(t *testing.T) {
	client := &MockPageLister{
		pages: map[string]*graph.ListResponse[TestResource]{
			"/test": {
				NextLink: pageTwoLink,
				Value: []TestResource{
					{ID: "1", DisplayName: "Resource 1"},
					{ID: "2", DisplayName: "Resource 2"},
				},
			},
			pageTwoLink: {
				Value: []TestResource{
					{ID: "3", DisplayName: "Resource 3"},
				},
			},
		},
	}

	ctx := context.Background()
	iterator := graph.NewPaginationIterator[TestResource](ctx, client, "/test", nil)

	allResources, err := iterator.All()
	require.NoError(t, err)
	assert.Len(t, allResources, 3)
	assert.Equal(t, "1", allResources[0].ID)
	assert.Equal(t, "2", allResources[1].ID)
	assert.Equal(t, "3", allResources[2].ID)
}

func TestPaginationIterator_AllDiscardsOnFailure(t *testing.T) {
	client := &MockPageLister{
		pages: map[string]*graph.ListResponse[TestResource]{
			"/test": {
				NextLink: pageTwoLink,
				Value: []TestResource{
					{ID: "1", DisplayName: "Resource 1"},
					{ID: "2", DisplayName: "Resource 2"},
				},
			},
		},
		failOn: pageTwoLink,
	}

	iterator := graph.NewPaginationIterator[TestResource](context.Background(), client, "/test", nil)

	allResources, err := iterator.All()
	require.Error(t, err)
	assert.ErrorIs(t, err, errPageUnavailable)
	assert.Nil(t, allResources)
}

func TestPaginationIterator_ForEach(t *testing.T) {
	client := &MockPageLister{
		pages: map[string]*graph.ListResponse[TestResource]{
			"/test": {
				Value: []TestResource{
					{ID: "1", DisplayName: "Resource 1"},
					{ID: "2", DisplayName: "Resource 2"},
				},
			},
		},
	}

	ctx := context.Background()
	iterator := graph.NewPaginationIterator[TestResource](ctx, client, "/test", nil)

	var collected []string
	err := iterator.ForEach(func(resource TestResource) error {
		collected = append(collected, resource.ID)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, collected)
}

func TestPaginationIterator_ForEachKeepsDeliveredItems(t *testing.T) {
	client := &MockPageLister{
		pages: map[string]*graph.ListResponse[TestResource]{
			"/test": {
				NextLink: pageTwoLink,
				Value: []TestResource{
					{ID: "1", DisplayName: "Resource 1"},
					{ID: "2", DisplayName: "Resource 2"},
				},
			},
		},
		failOn: pageTwoLink,
	}

	iterator := graph.NewPaginationIterator[TestResource](context.Background(), client, "/test", nil)

	var collected []string
	err := iterator.ForEach(func(resource TestResource) error {
		collected = append(collected, resource.ID)
		return nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, errPageUnavailable)
	// The first page was already handed to the callback.
	assert.Equal(t, []string{"1", "2"}, collected)
}

func TestPaginationIterator_InvalidQuery(t *testing.T) {
	client := &MockPageLister{}

	params := graph.NewQueryParams().WithTop(-1)
	iterator := graph.NewPaginationIterator[TestResource](context.Background(), client, "/test", params)

	assert.False(t, iterator.HasNext())

	_, err := iterator.Next()
	require.Error(t, err)
	assert.True(t, graph.IsInvalidQuery(err))
	// Nothing was dispatched.
	assert.Empty(t, client.calls)
}

func TestFetchAllPages(t *testing.T) {
	client := threePageLister()
	ctx := context.Background()

	resources, err := graph.FetchAllPages(ctx, client, "/test", graph.NewQueryParams().WithTop(2), nil)
	require.NoError(t, err)
	assert.Len(t, resources, 5)

	for i, resource := range resources {
		assert.Equal(t, fmt.Sprintf("%d", i+1), resource.ID)
	}

	// One dispatch per page, following the cursor strictly in order.
	assert.Equal(t, []string{"/test?%24top=2", pageTwoLink, pageThreeLink}, client.calls)
}

func TestFetchAllPages_AllOrNothing(t *testing.T) {
	client := threePageLister()
	client.failOn = pageTwoLink

	resources, err := graph.FetchAllPages(context.Background(), client, "/test", graph.NewQueryParams().WithTop(2), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errPageUnavailable)
	assert.Contains(t, err.Error(), "fetching page 2")
	assert.Nil(t, resources)
}

func TestFetchAllPages_WithMaxPages(t *testing.T) {
	client := threePageLister()

	options := &graph.PaginationOptions{
		PageSize: 2,
		MaxPages: 2,
	}
	ctx := context.Background()

	resources, err := graph.FetchAllPages(ctx, client, "/test", nil, options)
	require.NoError(t, err)
	assert.Len(t, resources, 4) // Only first 2 pages
}

func TestFetchAllPages_InvalidQuery(t *testing.T) {
	client := &MockPageLister{}

	_, err := graph.FetchAllPages(context.Background(), client, "/test", graph.NewQueryParams().WithTop(10000), nil)
	require.Error(t, err)
	assert.True(t, graph.IsInvalidQuery(err))
	assert.Empty(t, client.calls)
}

func TestStreamPages(t *testing.T) {
	client := threePageLister()
	ctx := context.Background()

	resultChan := graph.StreamPages(ctx, client, "/test", graph.NewQueryParams().WithTop(2), nil)

	var allResources []TestResource
	pageCount := 0

	for result := range resultChan {
		require.NoError(t, result.Err)
		allResources = append(allResources, result.Items...)
		pageCount++
	}

	assert.Equal(t, 3, pageCount)
	assert.Len(t, allResources, 5)
}

func TestStreamPages_DeliversBatchesBeforeFailure(t *testing.T) {
	client := threePageLister()
	client.failOn = pageThreeLink

	resultChan := graph.StreamPages(context.Background(), client, "/test", graph.NewQueryParams().WithTop(2), nil)

	var delivered []TestResource

	var streamErr error

	for result := range resultChan {
		if result.Err != nil {
			streamErr = result.Err

			continue
		}

		delivered = append(delivered, result.Items...)
	}

	require.Error(t, streamErr)
	assert.ErrorIs(t, streamErr, errPageUnavailable)
	assert.Contains(t, streamErr.Error(), "fetching page 3")
	// The first two batches arrived intact.
	assert.Len(t, delivered, 4)
}

func TestBuildPageURL(t *testing.T) {
	assert.Equal(t, "/users", graph.BuildPageURL("/users", nil))

	params := graph.NewQueryParams().WithTop(5).WithSelect("id", "displayName")
	assert.Equal(t, "/users?%24select=id%2CdisplayName&%24top=5", graph.BuildPageURL("/users", params))
}
