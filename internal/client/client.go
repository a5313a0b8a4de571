package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/ghostctl/internal/auth"
	ghosthttp "github.com/fivetwenty-io/ghostctl/internal/http"
	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
)

// TokenManager supplies the admin token for every attempt.
type TokenManager = ghosthttp.TokenManager

// tokenStatser is implemented by token managers that count cache hits.
type tokenStatser interface {
	Stats() ghost.TokenStats
}

// Client implements the ghost.Client interface.
type Client struct {
	httpClient   *ghosthttp.Client
	tokenManager TokenManager
	metrics      *ghost.MetricsCollector

	// Resource clients
	posts       *PostsClient
	pages       *PostsClient
	tags        *TagsClient
	images      *ImagesClient
	members     *MembersClient
	tiers       *TiersClient
	newsletters *NewslettersClient
	offers      *OffersClient
	users       *UsersClient
	webhooks    *WebhooksClient
	themes      *ThemesClient
	site        *SiteClient
	settings    *SettingsClient
}

// New creates an admin API client. The admin key is parsed up front, so a
// malformed key fails here with a *ghost.CredentialFormatError and no request is made.
func New(ctx context.Context, config *ghost.Config) (*Client, error) {
	err := ctx.Err()
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	if config == nil {
		return nil, &ghost.ConfigError{Field: "config", Err: ghost.ErrConfigRequired}
	}

	if config.AdminKey == "" {
		return nil, &ghost.ConfigError{Field: "admin_key", Err: ghost.ErrAdminKeyRequired}
	}

	tokenManager, err := auth.NewJWTTokenManagerFromKey(config.AdminKey, auth.WithScheme(config.AuthScheme))
	if err != nil {
		return nil, err
	}

	return NewWithTokenManager(config, tokenManager)
}

// NewWithTokenManager creates a client with a custom token manager.
func NewWithTokenManager(config *ghost.Config, tokenManager TokenManager) (*Client, error) {
	if config == nil {
		return nil, &ghost.ConfigError{Field: "config", Err: ghost.ErrConfigRequired}
	}

	metrics := ghost.NewMetricsCollector()

	httpOpts, err := createHTTPClientOptions(config, metrics)
	if err != nil {
		return nil, err
	}

	httpClient, err := ghosthttp.NewClient(config.URL, tokenManager, httpOpts...)
	if err != nil {
		return nil, err
	}

	client := &Client{
		httpClient:   httpClient,
		tokenManager: tokenManager,
		metrics:      metrics,
	}

	client.initializeResourceClients()

	return client, nil
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *ghost.Config, metrics *ghost.MetricsCollector) ([]ghosthttp.Option, error) {
	httpOpts := []ghosthttp.Option{
		ghosthttp.WithRetryConfig(config.Retry),
		ghosthttp.WithInterceptors(interceptorChain(config.Interceptors, metrics)),
	}

	if config.Logger != nil {
		httpOpts = append(httpOpts, ghosthttp.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, ghosthttp.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, ghosthttp.WithUserAgent(config.UserAgent))
	}

	if config.APIVersion != "" {
		httpOpts = append(httpOpts, ghosthttp.WithAPIVersion(config.APIVersion))
	}

	if config.AuthScheme != "" {
		httpOpts = append(httpOpts, ghosthttp.WithAuthScheme(config.AuthScheme))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, ghosthttp.WithTimeout(config.HTTPTimeout))
	}

	if config.HTTPClient != nil {
		httpOpts = append(httpOpts, ghosthttp.WithHTTPClient(config.HTTPClient))
	}

	if config.RateLimiter != nil {
		httpOpts = append(httpOpts, ghosthttp.WithRateLimiter(config.RateLimiter))
	}

	cacheOpt, err := createCacheOption(config)
	if err != nil {
		return nil, err
	}

	if cacheOpt != nil {
		httpOpts = append(httpOpts, cacheOpt)
	}

	return httpOpts, nil
}

// interceptorChain runs the metrics collector around the caller's interceptors
// without registering anything on the caller's chain.
func interceptorChain(user *ghost.InterceptorChain, metrics *ghost.MetricsCollector) *ghost.InterceptorChain {
	chain := ghost.NewInterceptorChain().WithMetrics(metrics)

	if !user.Empty() {
		chain.AddRequestInterceptor(user.ExecuteRequestInterceptors)
		chain.AddResponseInterceptor(user.ExecuteResponseInterceptors)
	}

	return chain
}

func createCacheOption(config *ghost.Config) (ghosthttp.Option, error) {
	if config.Cache == nil || config.Cache.Type == ghost.CacheTypeNone || config.Cache.Type == "" {
		return nil, nil //nolint:nilnil // caching is optional
	}

	backend, err := ghost.NewCacheFromConfig(config.Cache)
	if err != nil {
		return nil, &ghost.ConfigError{Field: "cache", Err: err}
	}

	if config.Logger != nil {
		config.Logger.Debug("Response cache enabled", map[string]interface{}{"type": string(config.Cache.Type)})
	}

	manager := ghost.NewCacheManager(backend, config.Cache.Options)

	return ghosthttp.WithCache(manager, config.Cache.Policy), nil
}

func (c *Client) initializeResourceClients() {
	c.posts = NewPostsClient(c.httpClient)
	c.pages = NewPagesClient(c.httpClient)
	c.tags = NewTagsClient(c.httpClient)
	c.images = NewImagesClient(c.httpClient)
	c.members = NewMembersClient(c.httpClient)
	c.tiers = NewTiersClient(c.httpClient)
	c.newsletters = NewNewslettersClient(c.httpClient)
	c.offers = NewOffersClient(c.httpClient)
	c.users = NewUsersClient(c.httpClient)
	c.webhooks = NewWebhooksClient(c.httpClient)
	c.themes = NewThemesClient(c.httpClient)
	c.site = NewSiteClient(c.httpClient)
	c.settings = NewSettingsClient(c.httpClient)
}

// GetTokenManager returns the token manager for this client.
func (c *Client) GetTokenManager() TokenManager {
	return c.tokenManager
}

// APIRoot returns the admin API root URL.
func (c *Client) APIRoot() string {
	return c.httpClient.APIRoot()
}

// Ping implements ghost.Client.Ping.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.site.Get(ctx)
	if err != nil {
		return fmt.Errorf("pinging %s: %w", c.httpClient.APIRoot(), err)
	}

	return nil
}

// Stats implements ghost.Client.Stats.
func (c *Client) Stats() ghost.Stats {
	stats := ghost.Stats{
		Retry:     c.httpClient.Policy().Stats(),
		RateLimit: c.httpClient.RateLimiter().State(),
		Endpoints: c.metrics.Snapshot(),
	}

	if statser, ok := c.tokenManager.(tokenStatser); ok {
		stats.Token = statser.Stats()
	}

	if cache := c.httpClient.Cache(); cache != nil {
		stats.Cache = cache.GetStats()
	}

	return stats
}

// RateLimiter returns the observer shared by every request of this client.
func (c *Client) RateLimiter() ghost.RateLimitObserver {
	return c.httpClient.RateLimiter()
}

// Close releases the cache backend connection, if any.
func (c *Client) Close() error {
	cache := c.httpClient.Cache()
	if cache == nil {
		return nil
	}

	return cache.Close()
}

// Resource client accessors

// Posts implements ghost.Client.Posts.
func (c *Client) Posts() ghost.PostsClient {
	return c.posts
}

// Pages implements ghost.Client.Pages.
func (c *Client) Pages() ghost.PagesClient {
	return c.pages
}

// Tags implements ghost.Client.Tags.
func (c *Client) Tags() ghost.TagsClient {
	return c.tags
}

// Images implements ghost.Client.Images.
func (c *Client) Images() ghost.ImagesClient {
	return c.images
}

// Members implements ghost.Client.Members.
func (c *Client) Members() ghost.MembersClient {
	return c.members
}

// Tiers implements ghost.Client.Tiers.
func (c *Client) Tiers() ghost.TiersClient {
	return c.tiers
}

// Newsletters implements ghost.Client.Newsletters.
func (c *Client) Newsletters() ghost.NewslettersClient {
	return c.newsletters
}

// Offers implements ghost.Client.Offers.
func (c *Client) Offers() ghost.OffersClient {
	return c.offers
}

// Users implements ghost.Client.Users.
func (c *Client) Users() ghost.UsersClient {
	return c.users
}

// Webhooks implements ghost.Client.Webhooks.
func (c *Client) Webhooks() ghost.WebhooksClient {
	return c.webhooks
}

// Themes implements ghost.Client.Themes.
func (c *Client) Themes() ghost.ThemesClient {
	return c.themes
}

// Site implements ghost.Client.Site.
func (c *Client) Site() ghost.SiteClient {
	return c.site
}

// Settings implements ghost.Client.Settings.
func (c *Client) Settings() ghost.SettingsClient {
	return c.settings
}

var _ ghost.Client = (*Client)(nil)
