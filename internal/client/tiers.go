package client

import (
	"context"

	ghosthttp "github.com/fivetwenty-io/ghostctl/internal/http"
	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
)

// TiersClient implements ghost.TiersClient.
type TiersClient struct {
	resource[ghost.Tier]
}

// NewTiersClient creates a new tiers client.
func NewTiersClient(httpClient *ghosthttp.Client) *TiersClient {
	return &TiersClient{resource: newResource[ghost.Tier](httpClient, ghost.ResourceTiers, "tier")}
}

// List implements ghost.TiersClient.List.
func (c *TiersClient) List(ctx context.Context, params *ghost.QueryParams) (*ghost.ListResponse[ghost.Tier], error) {
	return c.list(ctx, params)
}

// ListAll implements ghost.TiersClient.ListAll.
func (c *TiersClient) ListAll(ctx context.Context, params *ghost.QueryParams) *ghost.Paginator[ghost.Tier] {
	return c.listAll(ctx, params)
}

// Get implements ghost.TiersClient.Get.
func (c *TiersClient) Get(ctx context.Context, id string, params *ghost.QueryParams) (*ghost.Tier, error) {
	return c.get(ctx, id, params)
}

// Create implements ghost.TiersClient.Create.
func (c *TiersClient) Create(ctx context.Context, request *ghost.TierCreateRequest) (*ghost.Tier, error) {
	return c.create(ctx, request, nil)
}

// Update implements ghost.TiersClient.Update.
func (c *TiersClient) Update(ctx context.Context, id string, request *ghost.TierUpdateRequest) (*ghost.Tier, error) {
	if request == nil {
		return nil, ghost.NewValidationError("", "update request is required")
	}

	return c.update(ctx, id, request, request.UpdatedAt, nil)
}
