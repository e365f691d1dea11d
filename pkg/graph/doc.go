// Package graph provides types, interfaces, and helpers for working with the
// Microsoft Graph directory API.
//
// # Overview
//
// The graph package defines the domain types (e.g., User, Group, Device,
// ListResponse) and the interfaces for resource-oriented clients (e.g.,
// UsersClient, DevicesClient). A concrete implementation of these clients is
// provided by the graphclient package, which wires configuration, transport,
// token acquisition, and retry behavior. Most consumers should import
// graphclient to construct a client and then interact with the resource
// client interfaces exposed here.
//
// Getting a client
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
//	  cli, err := graphclient.NewWithClientCredentials("contoso.onmicrosoft.com", "client-id", "client-secret")
//	  if err != nil { log.Fatal(err) }
//
//	  // List the first page of users
//	  users, err := cli.Users().List(ctx, graph.NewQueryParams().WithTop(50))
//	  if err != nil { log.Fatal(err) }
//	  _ = users
//	}
//
// # Queries and pagination
//
// Use QueryParams to express common list options ($select, $filter, $search,
// $orderby, $expand, $top, $count). Filtered, searched, ordered, or counted
// queries are advanced queries: they automatically carry the
// ConsistencyLevel: eventual header and $count=true, as the directory
// endpoints require. The package also provides helpers for iterating or
// collecting paginated results:
//
//	it := graph.NewPaginationIterator(ctx, cli.Devices(), "/devices", graph.NewQueryParams())
//	for it.HasNext() {
//	  device, err := it.Next()
//	  if err != nil { break }
//	  _ = device
//	}
//
// or fetch all results at once:
//
//	all, err := graph.FetchAllPages(ctx, cli.Devices(), "/devices", nil, graph.DefaultPaginationOptions())
//	if err != nil { /* handle error */ }
//	_ = all
//
// FetchAllPages is all-or-nothing: an error on any page discards the pages
// already collected. Use the iterator or StreamPages when partial results
// are acceptable.
//
// # Errors
//
// API errors are represented by Error, which wraps a sentinel describing the
// failure class (ErrAuth, ErrRateLimited, ErrTransient, and so on). Helpers
// such as IsNotFound, IsRateLimited, and IsRetryable make it easy to branch
// on common Graph error cases.
//
// # Interceptors
//
// The package includes generic request/response interceptor building blocks
// (for logging, custom headers, client-request-id stamping, metrics). The
// graphclient package composes these pieces for a sensible default client;
// applications with advanced needs can also use these primitives directly.
//
// # Resources
//
// Resource clients follow a consistent pattern across directory resources
// (Users, Groups, Devices). See the interfaces in client.go for the full
// surface area, including the RawClient escape hatch for endpoints without a
// typed wrapper.
package graph
