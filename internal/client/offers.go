package client

import (
	"context"

	ghosthttp "github.com/fivetwenty-io/ghostctl/internal/http"
	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
)

// OffersClient implements ghost.OffersClient.
type OffersClient struct {
	resource[ghost.Offer]
}

// NewOffersClient creates a new offers client.
func NewOffersClient(httpClient *ghosthttp.Client) *OffersClient {
	return &OffersClient{resource: newResource[ghost.Offer](httpClient, ghost.ResourceOffers, "offer")}
}

// List implements ghost.OffersClient.List.
func (c *OffersClient) List(ctx context.Context, params *ghost.QueryParams) (*ghost.ListResponse[ghost.Offer], error) {
	return c.list(ctx, params)
}

// ListAll implements ghost.OffersClient.ListAll.
func (c *OffersClient) ListAll(ctx context.Context, params *ghost.QueryParams) *ghost.Paginator[ghost.Offer] {
	return c.listAll(ctx, params)
}

// Get implements ghost.OffersClient.Get.
func (c *OffersClient) Get(ctx context.Context, id string, params *ghost.QueryParams) (*ghost.Offer, error) {
	return c.get(ctx, id, params)
}

// Create implements ghost.OffersClient.Create.
func (c *OffersClient) Create(ctx context.Context, request *ghost.OfferCreateRequest) (*ghost.Offer, error) {
	return c.create(ctx, request, nil)
}

// Update implements ghost.OffersClient.Update.
func (c *OffersClient) Update(ctx context.Context, id string, request *ghost.OfferUpdateRequest) (*ghost.Offer, error) {
	if request == nil {
		return nil, ghost.NewValidationError("", "update request is required")
	}

	return c.update(ctx, id, request, request.UpdatedAt, nil)
}
