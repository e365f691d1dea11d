package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fedamerd/msgraph-go/internal/constants"
	http_internal "github.com/fedamerd/msgraph-go/internal/http"
	"github.com/fedamerd/msgraph-go/pkg/graph"
)

// DevicesClient implements the graph.DevicesClient interface.
type DevicesClient struct {
	httpClient *http_internal.Client
}

// NewDevicesClient creates a new DevicesClient.
func NewDevicesClient(httpClient *http_internal.Client) *DevicesClient {
	return &DevicesClient{
		httpClient: httpClient,
	}
}

// Get retrieves a specific device by object id.
func (c *DevicesClient) Get(ctx context.Context, id string, params *graph.QueryParams) (*graph.Device, error) {
	return getResource[graph.Device](ctx, c.httpClient, constants.APIPathDevices+"/"+id, "device", params)
}

// List lists one page of devices.
func (c *DevicesClient) List(ctx context.Context, params *graph.QueryParams) (*graph.ListResponse[graph.Device], error) {
	return listResource[graph.Device](ctx, c.httpClient, constants.APIPathDevices, "devices", params)
}

// ListAll follows paging links and returns every device.
func (c *DevicesClient) ListAll(ctx context.Context, params *graph.QueryParams) ([]graph.Device, error) {
	return graph.FetchAllPages[graph.Device](ctx, c, constants.APIPathDevices, params, graph.DefaultPaginationOptions())
}

// ListPage fetches a single page by URL, either an initial collection
// URL or a paging link from a previous response.
func (c *DevicesClient) ListPage(ctx context.Context, pageURL string) (*graph.ListResponse[graph.Device], error) {
	return listResourcePage[graph.Device](ctx, c.httpClient, pageURL, "devices")
}

// Delete removes a device from the directory.
func (c *DevicesClient) Delete(ctx context.Context, id string) error {
	_, err := c.httpClient.Delete(ctx, constants.APIPathDevices+"/"+id)
	if err != nil {
		return fmt.Errorf("deleting device: %w", err)
	}

	return nil
}

// ListOwned lists one page of the devices owned by a user.
func (c *DevicesClient) ListOwned(ctx context.Context, userID string, params *graph.QueryParams) (*graph.ListResponse[graph.Device], error) {
	return listResource[graph.Device](ctx, c.httpClient, ownedDevicesPath(userID), "owned devices", params)
}

// ListOwnedAll follows paging links and returns every device owned by a
// user.
func (c *DevicesClient) ListOwnedAll(ctx context.Context, userID string, params *graph.QueryParams) ([]graph.Device, error) {
	return graph.FetchAllPages[graph.Device](ctx, c, ownedDevicesPath(userID), params, graph.DefaultPaginationOptions())
}

// GetLocalCredentials retrieves the local administrator account password
// backed up for a device, already decoded. Devices without a stored
// credential yield nil.
func (c *DevicesClient) GetLocalCredentials(ctx context.Context, deviceID string) (*graph.DeviceLocalCredentials, error) {
	query := url.Values{}
	query.Set("$select", "credentials")

	resp, err := c.httpClient.Do(ctx, &http_internal.Request{
		Method: http.MethodGet,
		Path:   constants.APIPathDeviceLocalCredentials + "/" + deviceID,
		Query:  query,
	})
	if err != nil {
		return nil, fmt.Errorf("getting device local credentials: %w", err)
	}

	// Tenants without the credential backup feature answer with an
	// empty non-JSON body.
	if !strings.Contains(resp.Headers.Get("Content-Type"), "application/json") {
		return nil, nil
	}

	var envelope struct {
		ID                 string     `json:"id"`
		DeviceName         string     `json:"deviceName"`
		LastBackupDateTime *time.Time `json:"lastBackupDateTime"`
		Credentials        []struct {
			AccountName    string     `json:"accountName"`
			AccountSID     string     `json:"accountSid"`
			BackupDateTime *time.Time `json:"backupDateTime"`
			PasswordBase64 string     `json:"passwordBase64"`
		} `json:"credentials"`
	}

	err = json.Unmarshal(resp.Body, &envelope)
	if err != nil {
		return nil, fmt.Errorf("parsing device local credentials response: %w", err)
	}

	if len(envelope.Credentials) == 0 {
		return nil, nil
	}

	password, err := base64.StdEncoding.DecodeString(envelope.Credentials[0].PasswordBase64)
	if err != nil {
		return nil, fmt.Errorf("decoding local credential password: %w", err)
	}

	return &graph.DeviceLocalCredentials{
		ID:                 envelope.ID,
		DeviceName:         envelope.DeviceName,
		LastBackupDateTime: envelope.LastBackupDateTime,
		AccountName:        envelope.Credentials[0].AccountName,
		Password:           string(password),
	}, nil
}

func ownedDevicesPath(userID string) string {
	return constants.APIPathUsers + "/" + userID + "/ownedDevices"
}
