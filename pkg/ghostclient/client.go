package ghostclient

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/fivetwenty-io/ghostctl/internal/client"
	"github.com/fivetwenty-io/ghostctl/internal/constants"
	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
)

// ErrSkipTLSOnlyInDev is returned when certificate checks are disabled outside development mode.
var ErrSkipTLSOnlyInDev = errors.New("skipping TLS verification is only allowed in development mode")

// DevModeEnv enables development-only behaviour such as skipping certificate checks.
const DevModeEnv = "GHOSTCTL_DEV_MODE"

// New creates an admin API client. A URL without a scheme is treated as https.
func New(ctx context.Context, config *ghost.Config) (ghost.Client, error) {
	if config == nil {
		return nil, &ghost.ConfigError{Field: "config", Err: ghost.ErrConfigRequired}
	}

	if strings.TrimSpace(config.URL) == "" {
		return nil, &ghost.ConfigError{Field: "url", Err: ghost.ErrURLRequired}
	}

	normalized := *config
	normalized.URL = NormalizeURL(config.URL)

	c, err := client.New(ctx, &normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return c, nil
}

// NewWithKey creates a client from a site URL and an "<id>:<secret>" admin key.
func NewWithKey(ctx context.Context, siteURL, adminKey string) (ghost.Client, error) {
	return New(ctx, &ghost.Config{
		URL:      siteURL,
		AdminKey: adminKey,
	})
}

// NormalizeURL trims whitespace and a trailing slash and adds https:// when no scheme is given.
// An explicit http:// scheme is kept so that the client can refuse it.
func NormalizeURL(siteURL string) string {
	siteURL = strings.TrimSuffix(strings.TrimSpace(siteURL), "/")

	lower := strings.ToLower(siteURL)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		siteURL = "https://" + siteURL
	}

	return siteURL
}

// InsecureHTTPClient returns an HTTP client that skips certificate verification.
// It is only available when GHOSTCTL_DEV_MODE is set, e.g. for a local Ghost
// behind a self-signed certificate.
func InsecureHTTPClient() (*http.Client, error) {
	if !isDevelopmentEnvironment() {
		return nil, fmt.Errorf("%w (set %s=true)", ErrSkipTLSOnlyInDev, DevModeEnv)
	}

	return &http.Client{
		Timeout: constants.DefaultHTTPTimeout,
		Transport: &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, // #nosec G402 -- Protected by development environment check above
		},
	}, nil
}

// Close releases resources held by a client returned from New, such as a
// Redis or NATS cache connection.
func Close(c ghost.Client) error {
	if closer, ok := c.(io.Closer); ok {
		return closer.Close()
	}

	return nil
}

func isDevelopmentEnvironment() bool {
	devMode := os.Getenv(DevModeEnv)

	return devMode == "true" || devMode == "1"
}
