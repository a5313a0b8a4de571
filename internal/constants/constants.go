package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// Configuration locations.
const (
	// ConfigDirName is the directory under $HOME holding ghostctl state.
	ConfigDirName = ".ghostctl"

	// ConfigFileName is the profile file inside ConfigDirName.
	ConfigFileName = "config.toml"

	// EnvPrefix is the environment variable prefix bound through viper.
	EnvPrefix = "GHOST"

	// DefaultProfileName is used when no profile has been selected.
	DefaultProfileName = "default"
)

// Admin API.
const (
	// AdminAPIPath is the path prefix of every admin endpoint.
	AdminAPIPath = "/ghost/api/admin"

	// DefaultAPIVersion is sent in the Accept-Version header.
	DefaultAPIVersion = "v5.0"

	// TokenAudience is the audience claim expected by the admin API.
	TokenAudience = "/admin/"

	// TokenTTL is the lifetime of a signed admin token.
	TokenTTL = 5 * time.Minute

	// TokenExpirationBuffer is the remaining lifetime below which a cached token is regenerated.
	TokenExpirationBuffer = 30 * time.Second

	// AuthSchemeBearer is the default Authorization scheme.
	AuthSchemeBearer = "Bearer"

	// AuthSchemeGhost is the scheme used by stock Ghost installations.
	AuthSchemeGhost = "Ghost"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// UploadHTTPTimeout is used for image and theme uploads.
	UploadHTTPTimeout = 120 * time.Second
)

// Retry and circuit breaker defaults.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 5

	// DefaultRetryBaseDelay is the delay before the first retry.
	DefaultRetryBaseDelay = 1 * time.Second

	// DefaultRetryWaitMax caps a single backoff delay.
	DefaultRetryWaitMax = 60 * time.Second

	// ExponentialBackoffBase is the default backoff multiplier.
	ExponentialBackoffBase = 2

	// CircuitBreakerThreshold is the number of consecutive failures that opens the circuit.
	CircuitBreakerThreshold = 3
)

// Rate limiting.
const (
	// RateLimitWarnRemaining triggers a warning log when remaining quota drops below it.
	RateLimitWarnRemaining = 10

	// RateLimitPauseRemaining triggers a proactive delay when remaining quota drops below it.
	RateLimitPauseRemaining = 5

	// RateLimitMaxAdvice caps the proactive delay.
	RateLimitMaxAdvice = 1 * time.Second
)

// Pagination and display limits.
const (
	// DefaultPageSize is the default number of items per page.
	DefaultPageSize = 15

	// ExportPageSize is the page size used when exporting whole collections.
	ExportPageSize = 100

	// MaxPageSize is the largest page size accepted by the admin API.
	MaxPageSize = 100
)

// Concurrency and batching limits.
const (
	// DefaultConcurrencyLimit keeps one request in flight at a time.
	DefaultConcurrencyLimit = 1

	// BufferSize is the default buffer size for channels.
	BufferSize = 100
)

// Cache defaults.
const (
	// DefaultCacheTTL is the lifetime of a cached GET response.
	DefaultCacheTTL = 1 * time.Minute

	// DefaultCacheSize is the default number of entries kept by the memory cache.
	DefaultCacheSize = 1000

	// DefaultCacheCleanupInterval is how often the memory cache purges expired entries.
	DefaultCacheCleanupInterval = 5 * time.Minute

	// DefaultCacheBucket is the NATS KV bucket and Redis key prefix.
	DefaultCacheBucket = "ghostctl-cache"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Mathematical and calculation constants.
const (
	// PercentageMultiplier converts decimals to percentages.
	PercentageMultiplier = 100

	// MinorUnitExponent converts prices in minor units to major units.
	MinorUnitExponent = -2
)

// Redaction.
const (
	// RedactedValue replaces sensitive values in logs and rendered config.
	RedactedValue = "***REDACTED***"
)
