package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	ghosthttp "github.com/fivetwenty-io/ghostctl/internal/http"
	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
)

// ErrNoActiveTheme is returned when no installed theme is marked active.
var ErrNoActiveTheme = errors.New("no active theme")

// ThemesClient implements ghost.ThemesClient.
type ThemesClient struct {
	httpClient *ghosthttp.Client
}

// NewThemesClient creates a new themes client.
func NewThemesClient(httpClient *ghosthttp.Client) *ThemesClient {
	return &ThemesClient{
		httpClient: httpClient,
	}
}

// List implements ghost.ThemesClient.List.
func (c *ThemesClient) List(ctx context.Context) ([]ghost.Theme, error) {
	resp, err := c.httpClient.Get(ctx, "/themes/", nil)
	if err != nil {
		return nil, fmt.Errorf("listing themes: %w", err)
	}

	list, err := ghost.DecodeList[ghost.Theme](resp.Body, ghost.ResourceThemes)
	if err != nil {
		return nil, fmt.Errorf("parsing themes list response: %w", err)
	}

	return list.Items, nil
}

// Active implements ghost.ThemesClient.Active.
func (c *ThemesClient) Active(ctx context.Context) (*ghost.Theme, error) {
	themes, err := c.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range themes {
		if themes[i].Active {
			return &themes[i], nil
		}
	}

	return nil, ErrNoActiveTheme
}

// Upload implements ghost.ThemesClient.Upload. The archive must be a zip file.
func (c *ThemesClient) Upload(ctx context.Context, fileName string, content io.Reader) (*ghost.Theme, error) {
	if !strings.HasSuffix(strings.ToLower(fileName), ".zip") {
		return nil, ghost.NewValidationError("file", "theme must be a .zip archive")
	}

	if content == nil {
		return nil, ghost.NewValidationError("file", "is required")
	}

	resp, err := upload(ctx, c.httpClient, "/themes/upload/", fileName, content, nil)
	if err != nil {
		return nil, fmt.Errorf("uploading theme: %w", err)
	}

	theme, err := ghost.DecodeOne[ghost.Theme](resp.Body, ghost.ResourceThemes)
	if err != nil {
		return nil, fmt.Errorf("parsing theme response: %w", err)
	}

	return theme, nil
}

// Activate implements ghost.ThemesClient.Activate.
func (c *ThemesClient) Activate(ctx context.Context, name string) (*ghost.Theme, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ghost.NewValidationError("name", "is required")
	}

	resp, err := c.httpClient.Do(ctx, &ghosthttp.Request{
		Method: http.MethodPut,
		Path:   "/themes/" + url.PathEscape(name) + "/activate/",
	})
	if err != nil {
		return nil, fmt.Errorf("activating theme: %w", err)
	}

	theme, err := ghost.DecodeOne[ghost.Theme](resp.Body, ghost.ResourceThemes)
	if err != nil {
		return nil, fmt.Errorf("parsing theme response: %w", err)
	}

	return theme, nil
}
