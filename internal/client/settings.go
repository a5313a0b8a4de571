package client

import (
	"context"
	"fmt"

	ghosthttp "github.com/fivetwenty-io/ghostctl/internal/http"
	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
)

// SettingsClient implements ghost.SettingsClient.
type SettingsClient struct {
	httpClient *ghosthttp.Client
}

// NewSettingsClient creates a new settings client.
func NewSettingsClient(httpClient *ghosthttp.Client) *SettingsClient {
	return &SettingsClient{
		httpClient: httpClient,
	}
}

// Get implements ghost.SettingsClient.Get.
func (c *SettingsClient) Get(ctx context.Context) ([]ghost.Setting, error) {
	resp, err := c.httpClient.Get(ctx, "/settings/", nil)
	if err != nil {
		return nil, fmt.Errorf("getting settings: %w", err)
	}

	list, err := ghost.DecodeList[ghost.Setting](resp.Body, ghost.ResourceSettings)
	if err != nil {
		return nil, fmt.Errorf("parsing settings response: %w", err)
	}

	return list.Items, nil
}

// Update implements ghost.SettingsClient.Update. Settings carry no updated_at,
// so the last write wins.
func (c *SettingsClient) Update(ctx context.Context, settings []ghost.Setting) ([]ghost.Setting, error) {
	if len(settings) == 0 {
		return nil, ghost.NewValidationError(ghost.ResourceSettings, "at least one setting is required")
	}

	for i := range settings {
		err := ghost.Validate(&settings[i])
		if err != nil {
			return nil, err
		}
	}

	resp, err := c.httpClient.Put(ctx, "/settings/", map[string]interface{}{ghost.ResourceSettings: settings})
	if err != nil {
		return nil, fmt.Errorf("updating settings: %w", err)
	}

	list, err := ghost.DecodeList[ghost.Setting](resp.Body, ghost.ResourceSettings)
	if err != nil {
		return nil, fmt.Errorf("parsing settings response: %w", err)
	}

	return list.Items, nil
}
