package ghost

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/fivetwenty-io/ghostctl/internal/constants"
)

// ContentClients provides access to content resource clients.
type ContentClients interface {
	Posts() PostsClient
	Pages() PagesClient
	Tags() TagsClient
	Images() ImagesClient
}

// MembershipClients provides access to membership resource clients.
type MembershipClients interface {
	Members() MembersClient
	Tiers() TiersClient
	Newsletters() NewslettersClient
	Offers() OffersClient
}

// SiteClients provides access to site administration clients.
type SiteClients interface {
	Users() UsersClient
	Webhooks() WebhooksClient
	Themes() ThemesClient
	Site() SiteClient
	Settings() SettingsClient
}

// ResourceClients provides access to all resource-specific clients.
type ResourceClients interface {
	ContentClients
	MembershipClients
	SiteClients
}

// Client is the admin API client.
type Client interface {
	ResourceClients

	// Ping checks connectivity and credentials by reading the site summary.
	Ping(ctx context.Context) error
	// Stats returns a snapshot of token, retry, rate-limit and cache counters.
	Stats() Stats
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// RetryConfig configures the retry policy applied to every logical call.
type RetryConfig struct {
	// MaxRetries is the maximum number of retries after the initial attempt.
	MaxRetries int
	// BaseDelay is the delay before the first retry.
	BaseDelay time.Duration
	// Multiplier grows the delay for each further retry.
	Multiplier float64
	// MaxDelay caps a single delay, including server supplied Retry-After hints.
	MaxDelay time.Duration
	// CircuitBreakerThreshold stops a call after this many consecutive failures. Zero disables it.
	CircuitBreakerThreshold int
}

// DefaultRetryConfig returns default retry configuration.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:              constants.DefaultRetryMax,
		BaseDelay:               constants.DefaultRetryBaseDelay,
		Multiplier:              constants.ExponentialBackoffBase,
		MaxDelay:                constants.DefaultRetryWaitMax,
		CircuitBreakerThreshold: constants.CircuitBreakerThreshold,
	}
}

// Config represents client configuration for building a ghost.Client.
//
// URL must use https; the client refuses to send an admin token over plain http.
// AdminKey is the "<id>:<hex secret>" pair shown for a custom integration.
type Config struct {
	// URL is the site root, e.g. "https://blog.example.com".
	URL string
	// AdminKey is the admin API key in "<id>:<secret>" form.
	AdminKey string
	// APIVersion is sent as Accept-Version. Defaults to v5.0.
	APIVersion string
	// AuthScheme is the Authorization scheme, "Bearer" by default or "Ghost".
	AuthScheme string
	// HTTPTimeout bounds a single attempt.
	HTTPTimeout time.Duration
	// Retry tunes the retry policy. Nil means DefaultRetryConfig.
	Retry *RetryConfig
	// Debug enables request/response logging with redacted headers.
	Debug bool
	// Logger receives client logs. Nil disables logging.
	Logger Logger
	// UserAgent overrides the default User-Agent header.
	UserAgent string
	// Cache enables the response cache for GET requests. Nil disables it.
	Cache *CacheConfig
	// RateLimiter observes rate-limit headers. Nil uses a fresh RateLimitTracker.
	RateLimiter RateLimitObserver
	// Interceptors run before and after every attempt.
	Interceptors *InterceptorChain
	// HTTPClient overrides the underlying transport, e.g. for custom TLS roots.
	HTTPClient *http.Client
}

// WriteOptions are optional query parameters of create and update calls.
type WriteOptions struct {
	// Source set to "html" converts html content on the server.
	Source string
}

// PostsClient manages posts.
type PostsClient interface {
	List(ctx context.Context, params *QueryParams) (*ListResponse[Post], error)
	ListAll(ctx context.Context, params *QueryParams) *Paginator[Post]
	Get(ctx context.Context, id string, params *QueryParams) (*Post, error)
	GetBySlug(ctx context.Context, slug string, params *QueryParams) (*Post, error)
	Create(ctx context.Context, request *PostCreateRequest, opts *WriteOptions) (*Post, error)
	Update(ctx context.Context, id string, request *PostUpdateRequest, opts *WriteOptions) (*Post, error)
	Delete(ctx context.Context, id string) error
	Copy(ctx context.Context, id string) (*Post, error)
	Publish(ctx context.Context, id string, updatedAt time.Time) (*Post, error)
	Unpublish(ctx context.Context, id string, updatedAt time.Time) (*Post, error)
	Schedule(ctx context.Context, id string, publishAt, updatedAt time.Time) (*Post, error)
}

// PagesClient manages pages, which share the post contract.
type PagesClient = PostsClient

// TagsClient manages tags.
type TagsClient interface {
	List(ctx context.Context, params *QueryParams) (*ListResponse[Tag], error)
	ListAll(ctx context.Context, params *QueryParams) *Paginator[Tag]
	Get(ctx context.Context, id string, params *QueryParams) (*Tag, error)
	GetBySlug(ctx context.Context, slug string, params *QueryParams) (*Tag, error)
	Create(ctx context.Context, request *TagCreateRequest) (*Tag, error)
	Update(ctx context.Context, id string, request *TagUpdateRequest) (*Tag, error)
	Delete(ctx context.Context, id string) error
}

// MembersClient manages members.
type MembersClient interface {
	List(ctx context.Context, params *QueryParams) (*ListResponse[Member], error)
	ListAll(ctx context.Context, params *QueryParams) *Paginator[Member]
	Get(ctx context.Context, id string, params *QueryParams) (*Member, error)
	Create(ctx context.Context, request *MemberCreateRequest) (*Member, error)
	Update(ctx context.Context, id string, request *MemberUpdateRequest) (*Member, error)
	Delete(ctx context.Context, id string) error
}

// UsersClient reads staff users.
type UsersClient interface {
	List(ctx context.Context, params *QueryParams) (*ListResponse[User], error)
	ListAll(ctx context.Context, params *QueryParams) *Paginator[User]
	Get(ctx context.Context, id string, params *QueryParams) (*User, error)
	GetBySlug(ctx context.Context, slug string, params *QueryParams) (*User, error)
	Me(ctx context.Context) (*User, error)
}

// TiersClient manages tiers.
type TiersClient interface {
	List(ctx context.Context, params *QueryParams) (*ListResponse[Tier], error)
	ListAll(ctx context.Context, params *QueryParams) *Paginator[Tier]
	Get(ctx context.Context, id string, params *QueryParams) (*Tier, error)
	Create(ctx context.Context, request *TierCreateRequest) (*Tier, error)
	Update(ctx context.Context, id string, request *TierUpdateRequest) (*Tier, error)
}

// NewslettersClient manages newsletters.
type NewslettersClient interface {
	List(ctx context.Context, params *QueryParams) (*ListResponse[Newsletter], error)
	ListAll(ctx context.Context, params *QueryParams) *Paginator[Newsletter]
	Get(ctx context.Context, id string, params *QueryParams) (*Newsletter, error)
	Create(ctx context.Context, request *NewsletterCreateRequest) (*Newsletter, error)
	Update(ctx context.Context, id string, request *NewsletterUpdateRequest) (*Newsletter, error)
}

// OffersClient manages offers.
type OffersClient interface {
	List(ctx context.Context, params *QueryParams) (*ListResponse[Offer], error)
	ListAll(ctx context.Context, params *QueryParams) *Paginator[Offer]
	Get(ctx context.Context, id string, params *QueryParams) (*Offer, error)
	Create(ctx context.Context, request *OfferCreateRequest) (*Offer, error)
	Update(ctx context.Context, id string, request *OfferUpdateRequest) (*Offer, error)
}

// WebhooksClient manages webhooks. The admin API has no webhook read endpoint.
type WebhooksClient interface {
	Create(ctx context.Context, request *WebhookCreateRequest) (*Webhook, error)
	Update(ctx context.Context, id string, request *WebhookUpdateRequest) (*Webhook, error)
	Delete(ctx context.Context, id string) error
}

// ImagesClient uploads images.
type ImagesClient interface {
	Upload(ctx context.Context, request *ImageUploadRequest, content io.Reader) (*Image, error)
}

// ThemesClient manages themes.
type ThemesClient interface {
	List(ctx context.Context) ([]Theme, error)
	Active(ctx context.Context) (*Theme, error)
	Upload(ctx context.Context, fileName string, content io.Reader) (*Theme, error)
	Activate(ctx context.Context, name string) (*Theme, error)
}

// SiteClient reads site metadata.
type SiteClient interface {
	Get(ctx context.Context) (*Site, error)
	Config(ctx context.Context) (map[string]interface{}, error)
}

// SettingsClient reads and edits site settings.
type SettingsClient interface {
	Get(ctx context.Context) ([]Setting, error)
	Update(ctx context.Context, settings []Setting) ([]Setting, error)
}
