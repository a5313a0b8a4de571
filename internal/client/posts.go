package client

import (
	"context"
	"fmt"
	"time"

	ghosthttp "github.com/fivetwenty-io/ghostctl/internal/http"
	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
)

// PostsClient implements ghost.PostsClient for posts and, with a different
// collection, for pages.
type PostsClient struct {
	resource[ghost.Post]
}

// NewPostsClient creates a new posts client.
func NewPostsClient(httpClient *ghosthttp.Client) *PostsClient {
	return &PostsClient{resource: newResource[ghost.Post](httpClient, ghost.ResourcePosts, "post")}
}

// NewPagesClient creates a pages client. Pages share the post representation.
func NewPagesClient(httpClient *ghosthttp.Client) *PostsClient {
	return &PostsClient{resource: newResource[ghost.Post](httpClient, ghost.ResourcePages, "page")}
}

// List implements ghost.PostsClient.List.
func (c *PostsClient) List(ctx context.Context, params *ghost.QueryParams) (*ghost.ListResponse[ghost.Post], error) {
	return c.list(ctx, params)
}

// ListAll implements ghost.PostsClient.ListAll.
func (c *PostsClient) ListAll(ctx context.Context, params *ghost.QueryParams) *ghost.Paginator[ghost.Post] {
	return c.listAll(ctx, params)
}

// Get implements ghost.PostsClient.Get.
func (c *PostsClient) Get(ctx context.Context, id string, params *ghost.QueryParams) (*ghost.Post, error) {
	return c.get(ctx, id, params)
}

// GetBySlug implements ghost.PostsClient.GetBySlug.
func (c *PostsClient) GetBySlug(ctx context.Context, slug string, params *ghost.QueryParams) (*ghost.Post, error) {
	return c.getBySlug(ctx, slug, params)
}

// Create implements ghost.PostsClient.Create.
func (c *PostsClient) Create(ctx context.Context, request *ghost.PostCreateRequest, opts *ghost.WriteOptions) (*ghost.Post, error) {
	return c.create(ctx, request, writeQuery(opts))
}

// Update implements ghost.PostsClient.Update.
func (c *PostsClient) Update(ctx context.Context, id string, request *ghost.PostUpdateRequest, opts *ghost.WriteOptions) (*ghost.Post, error) {
	if request == nil {
		return nil, ghost.NewValidationError("", "update request is required")
	}

	return c.update(ctx, id, request, request.UpdatedAt, writeQuery(opts))
}

// Delete implements ghost.PostsClient.Delete.
func (c *PostsClient) Delete(ctx context.Context, id string) error {
	return c.delete(ctx, id)
}

// Copy implements ghost.PostsClient.Copy.
func (c *PostsClient) Copy(ctx context.Context, id string) (*ghost.Post, error) {
	err := ghost.RequireID(id)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Post(ctx, c.itemPath(id)+"copy/", nil)
	if err != nil {
		return nil, fmt.Errorf("copying %s: %w", c.noun, err)
	}

	post, err := ghost.DecodeOne[ghost.Post](resp.Body, c.name)
	if err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", c.noun, err)
	}

	return post, nil
}

// Publish implements ghost.PostsClient.Publish.
func (c *PostsClient) Publish(ctx context.Context, id string, updatedAt time.Time) (*ghost.Post, error) {
	return c.transition(ctx, id, ghost.StatusPublished, nil, updatedAt)
}

// Unpublish implements ghost.PostsClient.Unpublish.
func (c *PostsClient) Unpublish(ctx context.Context, id string, updatedAt time.Time) (*ghost.Post, error) {
	return c.transition(ctx, id, ghost.StatusDraft, nil, updatedAt)
}

// Schedule implements ghost.PostsClient.Schedule. publishAt must lie in the future.
func (c *PostsClient) Schedule(ctx context.Context, id string, publishAt, updatedAt time.Time) (*ghost.Post, error) {
	if !publishAt.After(time.Now()) {
		return nil, ghost.NewValidationError("published_at", "must be in the future")
	}

	publishAt = publishAt.UTC()

	return c.transition(ctx, id, ghost.StatusScheduled, &publishAt, updatedAt)
}

func (c *PostsClient) transition(ctx context.Context, id, status string, publishedAt *time.Time, updatedAt time.Time) (*ghost.Post, error) {
	request := &ghost.PostUpdateRequest{UpdatedAt: updatedAt}
	request.Status = status
	request.PublishedAt = publishedAt

	return c.update(ctx, id, request, updatedAt, nil)
}
