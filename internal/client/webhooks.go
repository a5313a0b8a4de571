package client

import (
	"context"

	ghosthttp "github.com/fivetwenty-io/ghostctl/internal/http"
	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
)

// WebhooksClient implements ghost.WebhooksClient.
type WebhooksClient struct {
	resource[ghost.Webhook]
}

// NewWebhooksClient creates a new webhooks client.
func NewWebhooksClient(httpClient *ghosthttp.Client) *WebhooksClient {
	return &WebhooksClient{resource: newResource[ghost.Webhook](httpClient, ghost.ResourceWebhooks, "webhook")}
}

// Create implements ghost.WebhooksClient.Create.
func (c *WebhooksClient) Create(ctx context.Context, request *ghost.WebhookCreateRequest) (*ghost.Webhook, error) {
	return c.create(ctx, request, nil)
}

// Update implements ghost.WebhooksClient.Update.
func (c *WebhooksClient) Update(ctx context.Context, id string, request *ghost.WebhookUpdateRequest) (*ghost.Webhook, error) {
	if request == nil {
		return nil, ghost.NewValidationError("", "update request is required")
	}

	return c.update(ctx, id, request, request.UpdatedAt, nil)
}

// Delete implements ghost.WebhooksClient.Delete.
func (c *WebhooksClient) Delete(ctx context.Context, id string) error {
	return c.delete(ctx, id)
}
