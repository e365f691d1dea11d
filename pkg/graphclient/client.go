// Package graphclient provides the main entry point for creating Microsoft Graph API clients
package graphclient

import (
	"fmt"
	"strings"

	"github.com/fedamerd/msgraph-go/internal/client"
	"github.com/fedamerd/msgraph-go/internal/constants"
	"github.com/fedamerd/msgraph-go/internal/settings"
	"github.com/fedamerd/msgraph-go/pkg/graph"
)

// New creates a new Microsoft Graph API client.
func New(config *graph.Config) (graph.Client, error) {
	if config == nil {
		return nil, graph.ErrConfigRequired
	}

	if config.GraphEndpoint == "" {
		config.GraphEndpoint = constants.DefaultGraphEndpoint
	}

	// Normalize Graph endpoint
	graphEndpoint := strings.TrimSuffix(config.GraphEndpoint, "/")
	if !strings.HasPrefix(graphEndpoint, "http://") && !strings.HasPrefix(graphEndpoint, "https://") {
		graphEndpoint = "https://" + graphEndpoint
	}

	config.GraphEndpoint = graphEndpoint

	// Client credentials need a tenant to derive the token endpoint from
	if needsAuth(config) && config.Tenant == "" {
		return nil, graph.ErrTenantRequired
	}

	// Use the internal client implementation
	client, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return client, nil
}

// needsAuth checks if the config requires token acquisition.
func needsAuth(config *graph.Config) bool {
	return config.AccessToken == "" && config.ClientID != ""
}

// NewWithToken creates a new client using an existing access token.
func NewWithToken(token string) (graph.Client, error) {
	return New(&graph.Config{
		AccessToken: token,
	})
}

// NewWithClientCredentials creates a new client using OAuth2 client credentials.
func NewWithClientCredentials(tenant, clientID, clientSecret string) (graph.Client, error) {
	return New(&graph.Config{
		Tenant:       tenant,
		ClientID:     clientID,
		ClientSecret: clientSecret,
	})
}

// NewFromEnvironment creates a new client from AAD_* environment variables,
// falling back to ~/.msgraph/config.yml for anything the environment does
// not provide.
func NewFromEnvironment() (graph.Client, error) {
	resolved, err := settings.Load(nil)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	err = resolved.Validate()
	if err != nil {
		return nil, err
	}

	return New(&graph.Config{
		Tenant:            resolved.Tenant,
		ClientID:          resolved.ClientID,
		ClientSecret:      resolved.ClientSecret,
		HTTPTimeout:       resolved.HTTPTimeout,
		RetryMax:          resolved.RetryMax,
		TokenSafetyMargin: resolved.TokenSafetyMargin,
	})
}
