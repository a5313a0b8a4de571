package client

import (
	"context"

	ghosthttp "github.com/fivetwenty-io/ghostctl/internal/http"
	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
)

// UsersClient implements ghost.UsersClient. Staff users are read-only here.
type UsersClient struct {
	resource[ghost.User]
}

// NewUsersClient creates a new users client.
func NewUsersClient(httpClient *ghosthttp.Client) *UsersClient {
	return &UsersClient{resource: newResource[ghost.User](httpClient, ghost.ResourceUsers, "user")}
}

// List implements ghost.UsersClient.List.
func (c *UsersClient) List(ctx context.Context, params *ghost.QueryParams) (*ghost.ListResponse[ghost.User], error) {
	return c.list(ctx, params)
}

// ListAll implements ghost.UsersClient.ListAll.
func (c *UsersClient) ListAll(ctx context.Context, params *ghost.QueryParams) *ghost.Paginator[ghost.User] {
	return c.listAll(ctx, params)
}

// Get implements ghost.UsersClient.Get.
func (c *UsersClient) Get(ctx context.Context, id string, params *ghost.QueryParams) (*ghost.User, error) {
	return c.get(ctx, id, params)
}

// GetBySlug implements ghost.UsersClient.GetBySlug.
func (c *UsersClient) GetBySlug(ctx context.Context, slug string, params *ghost.QueryParams) (*ghost.User, error) {
	return c.getBySlug(ctx, slug, params)
}

// Me returns the user owning the integration's staff token, "/users/me/".
func (c *UsersClient) Me(ctx context.Context) (*ghost.User, error) {
	return c.read(ctx, c.itemPath("me"), nil)
}
