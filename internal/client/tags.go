package client

import (
	"context"

	ghosthttp "github.com/fivetwenty-io/ghostctl/internal/http"
	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
)

// TagsClient implements ghost.TagsClient.
type TagsClient struct {
	resource[ghost.Tag]
}

// NewTagsClient creates a new tags client.
func NewTagsClient(httpClient *ghosthttp.Client) *TagsClient {
	return &TagsClient{resource: newResource[ghost.Tag](httpClient, ghost.ResourceTags, "tag")}
}

// List implements ghost.TagsClient.List.
func (c *TagsClient) List(ctx context.Context, params *ghost.QueryParams) (*ghost.ListResponse[ghost.Tag], error) {
	return c.list(ctx, params)
}

// ListAll implements ghost.TagsClient.ListAll.
func (c *TagsClient) ListAll(ctx context.Context, params *ghost.QueryParams) *ghost.Paginator[ghost.Tag] {
	return c.listAll(ctx, params)
}

// Get implements ghost.TagsClient.Get.
func (c *TagsClient) Get(ctx context.Context, id string, params *ghost.QueryParams) (*ghost.Tag, error) {
	return c.get(ctx, id, params)
}

// GetBySlug implements ghost.TagsClient.GetBySlug.
func (c *TagsClient) GetBySlug(ctx context.Context, slug string, params *ghost.QueryParams) (*ghost.Tag, error) {
	return c.getBySlug(ctx, slug, params)
}

// Create implements ghost.TagsClient.Create.
func (c *TagsClient) Create(ctx context.Context, request *ghost.TagCreateRequest) (*ghost.Tag, error) {
	return c.create(ctx, request, nil)
}

// Update implements ghost.TagsClient.Update.
func (c *TagsClient) Update(ctx context.Context, id string, request *ghost.TagUpdateRequest) (*ghost.Tag, error) {
	if request == nil {
		return nil, ghost.NewValidationError("", "update request is required")
	}

	return c.update(ctx, id, request, request.UpdatedAt, nil)
}

// Delete implements ghost.TagsClient.Delete.
func (c *TagsClient) Delete(ctx context.Context, id string) error {
	return c.delete(ctx, id)
}
