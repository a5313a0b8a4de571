// Package ghost provides types, interfaces, and helpers for working with the
// Ghost Admin API.
//
// # Overview
//
// The ghost package defines the domain types (e.g., Post, Tag, Member, Tier,
// Offer) and the interfaces for resource-oriented clients (e.g., PostsClient,
// MembersClient). A concrete implementation of these clients is provided by
// the ghostclient package, which wires configuration, transport, token
// generation and retries. Most consumers should import ghostclient to construct
// a client and then interact with the resource client interfaces exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/ghostctl/pkg/ghost"
//	  "github.com/fivetwenty-io/ghostctl/pkg/ghostclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := ghostclient.New(ctx, &ghost.Config{
//	    URL:      "https://blog.example.com",
//	    AdminKey: "<id>:<hex secret>",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  posts, err := cli.Posts().List(ctx, ghost.NewQueryParams().WithLimit(15))
//	  if err != nil { log.Fatal(err) }
//	  _ = posts
//	}
//
// # Queries and pagination
//
// Use QueryParams to express list options (page, limit, filter, include,
// order). ListAll returns a lazy Paginator that requests pages only as items
// are consumed and follows meta.pagination.next:
//
//	for post, err := range cli.Posts().ListAll(ctx, nil).Items() {
//	  if err != nil { break }
//	  _ = post
//	}
//
// A Paginator can be iterated once.
//
// # Errors
//
// Failed responses are classified into RateLimitedError, ServerError,
// AuthenticationError and ValidationError, each carrying the parsed
// ResponseError envelope. Transport failures are NetworkError. Retries that
// give up surface as CircuitOpenError or RetryExhaustedError wrapping the last
// failure. Helpers such as IsNotFound, IsRetryable and IsAuthentication make
// it easy to branch on common cases.
//
// # Updates
//
// Every update request carries UpdatedAt, which must echo the value last read
// from the server. A zero UpdatedAt is rejected locally before any request.
//
// # Interceptors and caching
//
// InterceptorChain lets callers observe or decorate requests. CacheManager
// stores GET responses in memory, Redis or a NATS key-value bucket and is
// invalidated per resource after successful writes.
package ghost
