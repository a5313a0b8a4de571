// Package ghostclient provides the primary entry point for constructing a
// Ghost Admin API client that implements the ghost.Client interface.
//
// It layers URL normalization and transport setup on top of the resource
// interfaces and types defined in the ghost package. Most applications should
// import ghostclient to build a client, then use the returned ghost.Client to
// reach the resource clients, for example Posts(), Tags() or Members().
//
// Quick start
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
//
//	  cli, err := ghostclient.New(ctx, &ghost.Config{
//	    URL:      "https://blog.example.com",
//	    AdminKey: "6489b1f8c9a0e5001a2b3c4d:8b2f...", // from Settings > Integrations
//	  })
//	  if err != nil { log.Fatal(err) }
//	  defer ghostclient.Close(cli)
//
//	  // Walk every published post, one page per request.
//	  posts := cli.Posts().ListAll(ctx, ghost.NewQueryParams().WithFilter("status:published"))
//	  for post, err := range posts.Items() {
//	    if err != nil { log.Fatal(err) }
//	    log.Println(post.Title)
//	  }
//	}
//
// # Security
//
// Admin tokens are only ever sent over https. A URL using plain http is
// rejected before any request is made. For a local site with a self-signed
// certificate, InsecureHTTPClient returns a client without certificate checks;
// it is gated by the GHOSTCTL_DEV_MODE environment variable to avoid accidental
// insecure usage in production.
//
// # Helpers
//
// NewWithKey builds a client from a URL and an admin key with default settings.
// Close releases cache connections held by the client.
package ghostclient
