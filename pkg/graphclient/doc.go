// Package graphclient provides the primary entry point for constructing
// a Microsoft Graph client that implements the graph.Client interface.
//
// It layers configuration, HTTP transport, token acquisition, and retry
// behavior on top of the resource interfaces and types defined in the
// graph package. Most applications should import graphclient to build a
// client, then use the returned graph.Client to access resource-specific
// clients, for example Users(), Groups(), Devices().
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fedamerd/msgraph-go/pkg/graph"
//	  "github.com/fedamerd/msgraph-go/pkg/graphclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // With app-only client credentials. The token is acquired from
//	  // the Microsoft identity platform, cached, and renewed before it
//	  // expires.
//	  cli, err := graphclient.New(&graph.Config{
//	    Tenant:       "contoso.onmicrosoft.com",
//	    ClientID:     "client-id",
//	    ClientSecret: "client-secret",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  // Or with an access token you already have:
//	  cli, err = graphclient.New(&graph.Config{
//	    AccessToken: "eyJhbGciOi...", // bearer token
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  // Use resource clients via the graph.Client interface
//	  users, err := cli.Users().List(ctx, graph.NewQueryParams().WithTop(10))
//	  if err != nil { log.Fatal(err) }
//	  _ = users
//	}
//
// # Environment resolution
//
// NewFromEnvironment builds a client from the AAD_TENANT_ID,
// AAD_CLIENT_ID, and AAD_CLIENT_SECRET environment variables, falling
// back to ~/.msgraph/config.yml for anything the environment does not
// provide.
//
// # Helpers
//
// The package also provides convenience constructors NewWithToken and
// NewWithClientCredentials that wrap New with the appropriate
// configuration.
package graphclient
