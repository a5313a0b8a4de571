package client

import (
	"context"
	"encoding/json"
	"fmt"

	ghosthttp "github.com/fivetwenty-io/ghostctl/internal/http"
	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
)

// SiteClient implements ghost.SiteClient.
type SiteClient struct {
	httpClient *ghosthttp.Client
}

// NewSiteClient creates a new site client.
func NewSiteClient(httpClient *ghosthttp.Client) *SiteClient {
	return &SiteClient{
		httpClient: httpClient,
	}
}

// Get implements ghost.SiteClient.Get. Unlike collections, /site/ wraps a single object.
func (c *SiteClient) Get(ctx context.Context) (*ghost.Site, error) {
	resp, err := c.httpClient.Get(ctx, "/site/", nil)
	if err != nil {
		return nil, fmt.Errorf("getting site: %w", err)
	}

	var envelope struct {
		Site *ghost.Site `json:"site"`
	}

	err = json.Unmarshal(resp.Body, &envelope)
	if err != nil {
		return nil, fmt.Errorf("parsing site response: %w", err)
	}

	if envelope.Site == nil {
		return nil, fmt.Errorf("parsing site response: %w: %s", ghost.ErrEnvelopeKeyMissing, ghost.ResourceSite)
	}

	return envelope.Site, nil
}

// Config implements ghost.SiteClient.Config.
func (c *SiteClient) Config(ctx context.Context) (map[string]interface{}, error) {
	resp, err := c.httpClient.Get(ctx, "/config/", nil)
	if err != nil {
		return nil, fmt.Errorf("getting config: %w", err)
	}

	var envelope struct {
		Config map[string]interface{} `json:"config"`
	}

	err = json.Unmarshal(resp.Body, &envelope)
	if err != nil {
		return nil, fmt.Errorf("parsing config response: %w", err)
	}

	if envelope.Config == nil {
		return nil, fmt.Errorf("parsing config response: %w: %s", ghost.ErrEnvelopeKeyMissing, ghost.ResourceConfig)
	}

	return envelope.Config, nil
}
