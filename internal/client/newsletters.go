package client

import (
	"context"

	ghosthttp "github.com/fivetwenty-io/ghostctl/internal/http"
	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
)

// NewslettersClient implements ghost.NewslettersClient.
type NewslettersClient struct {
	resource[ghost.Newsletter]
}

// NewNewslettersClient creates a new newsletters client.
func NewNewslettersClient(httpClient *ghosthttp.Client) *NewslettersClient {
	return &NewslettersClient{resource: newResource[ghost.Newsletter](httpClient, ghost.ResourceNewsletters, "newsletter")}
}

// List implements ghost.NewslettersClient.List.
func (c *NewslettersClient) List(ctx context.Context, params *ghost.QueryParams) (*ghost.ListResponse[ghost.Newsletter], error) {
	return c.list(ctx, params)
}

// ListAll implements ghost.NewslettersClient.ListAll.
func (c *NewslettersClient) ListAll(ctx context.Context, params *ghost.QueryParams) *ghost.Paginator[ghost.Newsletter] {
	return c.listAll(ctx, params)
}

// Get implements ghost.NewslettersClient.Get.
func (c *NewslettersClient) Get(ctx context.Context, id string, params *ghost.QueryParams) (*ghost.Newsletter, error) {
	return c.get(ctx, id, params)
}

// Create implements ghost.NewslettersClient.Create.
func (c *NewslettersClient) Create(ctx context.Context, request *ghost.NewsletterCreateRequest) (*ghost.Newsletter, error) {
	return c.create(ctx, request, nil)
}

// Update implements ghost.NewslettersClient.Update.
func (c *NewslettersClient) Update(ctx context.Context, id string, request *ghost.NewsletterUpdateRequest) (*ghost.Newsletter, error) {
	if request == nil {
		return nil, ghost.NewValidationError("", "update request is required")
	}

	return c.update(ctx, id, request, request.UpdatedAt, nil)
}
