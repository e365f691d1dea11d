//go:build integration

package integration

import (
	"os"
	"testing"

	"github.com/fedamerd/msgraph-go/pkg/graph"
	"github.com/fedamerd/msgraph-go/pkg/graphclient"
)

// TestConfig holds configuration for integration tests.
type TestConfig struct {
	Tenant        string
	ClientID      string
	ClientSecret  string
	GraphEndpoint string
	Verbose       bool
}

// LoadTestConfig loads configuration from environment variables.
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		Tenant:        os.Getenv("AAD_TENANT_ID"),
		ClientID:      os.Getenv("AAD_CLIENT_ID"),
		ClientSecret:  os.Getenv("AAD_CLIENT_SECRET"),
		GraphEndpoint: os.Getenv("MSGRAPH_ENDPOINT"),
		Verbose:       os.Getenv("MSGRAPH_VERBOSE") == "true",
	}
}

// SkipIfMissingConfig skips the test unless tenant credentials are set.
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.Tenant == "" || config.ClientID == "" || config.ClientSecret == "" {
		t.Skip("AAD_TENANT_ID, AAD_CLIENT_ID and AAD_CLIENT_SECRET not set, skipping integration test")
	}
}

// NewClient builds a client against the configured tenant.
func (config *TestConfig) NewClient(t *testing.T) graph.Client {
	t.Helper()

	client, err := graphclient.New(&graph.Config{
		Tenant:        config.Tenant,
		ClientID:      config.ClientID,
		ClientSecret:  config.ClientSecret,
		GraphEndpoint: config.GraphEndpoint,
	})
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}

	return client
}
