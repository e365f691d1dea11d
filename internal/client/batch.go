package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fedamerd/msgraph-go/internal/constants"
	http_internal "github.com/fedamerd/msgraph-go/internal/http"
	"github.com/fedamerd/msgraph-go/pkg/graph"
)

// BatchClient implements the graph.BatchClient interface.
type BatchClient struct {
	httpClient *http_internal.Client
}

// NewBatchClient creates a new BatchClient.
func NewBatchClient(httpClient *http_internal.Client) *BatchClient {
	return &BatchClient{
		httpClient: httpClient,
	}
}

// Submit sends the batched requests in one round trip. The batch is
// validated locally first; responses come back per sub-request and may
// succeed or fail individually.
func (c *BatchClient) Submit(ctx context.Context, batch *graph.BatchRequest) (*graph.BatchResponse, error) {
	err := validateBatch(batch)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Post(ctx, constants.APIPathBatch, batch)
	if err != nil {
		return nil, fmt.Errorf("submitting batch: %w", err)
	}

	var result graph.BatchResponse

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing batch response: %w", err)
	}

	return &result, nil
}

func validateBatch(batch *graph.BatchRequest) error {
	if batch == nil || len(batch.Requests) == 0 {
		return constants.ErrBatchEmpty
	}

	if len(batch.Requests) > constants.MaxBatchRequests {
		return fmt.Errorf("%w: %d requests", constants.ErrBatchTooLarge, len(batch.Requests))
	}

	ids := make(map[string]struct{}, len(batch.Requests))

	for _, request := range batch.Requests {
		if request.ID == "" {
			return constants.ErrBatchMissingID
		}

		_, duplicate := ids[request.ID]
		if duplicate {
			return fmt.Errorf("%w: %q", constants.ErrBatchDuplicateID, request.ID)
		}

		ids[request.ID] = struct{}{}
	}

	for _, request := range batch.Requests {
		for _, dependency := range request.DependsOn {
			_, ok := ids[dependency]
			if !ok {
				return fmt.Errorf("%w: %q depends on %q", constants.ErrBatchUnmatchedID, request.ID, dependency)
			}
		}
	}

	return nil
}
