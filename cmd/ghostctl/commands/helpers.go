package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/ghostctl/internal/constants"
	"github.com/fivetwenty-io/ghostctl/internal/logging"
	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
	"github.com/fivetwenty-io/ghostctl/pkg/ghostclient"
)

// Common string constants used throughout the commands package.
const (
	NotAvailable = "N/A"
	NotSet       = "(not set)"
	Masked       = "***"
	Yes          = "yes"
	No           = "no"

	// JSON formatting.
	defaultJSONIndent = "  "
)

// Common static errors used throughout the commands package.
var (
	ErrTitleRequired     = errors.New("--title is required")
	ErrNameRequired      = errors.New("--name is required")
	ErrEmailRequired     = errors.New("--email is required")
	ErrFileRequired      = errors.New("a file path is required")
	ErrBulkNeedsSelector = errors.New("provide post ids or --filter")
	ErrFilterRequired    = errors.New("--filter is required")
	ErrBulkFailed        = errors.New("some operations failed")
)

// clientFactory builds the API client. Tests replace it to reach TLS test servers.
var clientFactory = ghostclient.New

// newClient builds a client from the active profile and the global flags.
func newClient(ctx context.Context) (ghost.Client, error) {
	settings, err := resolveSettings()
	if err != nil {
		return nil, err
	}

	config, err := clientConfig(settings)
	if err != nil {
		return nil, err
	}

	return clientFactory(ctx, config)
}

func clientConfig(settings *Profile) (*ghost.Config, error) {
	level := "warn"
	if viper.GetBool("verbose") {
		level = "debug"
	}

	logger, err := logging.New(logging.Options{Level: level})
	if err != nil {
		return nil, err
	}

	retry := ghost.DefaultRetryConfig()
	retry.MaxRetries = settings.MaxRetries

	config := &ghost.Config{
		URL:         settings.APIURL,
		AdminKey:    settings.AdminAPIKey,
		APIVersion:  settings.APIVersion,
		AuthScheme:  settings.AuthScheme,
		HTTPTimeout: time.Duration(settings.Timeout) * time.Second,
		Retry:       retry,
		Debug:       viper.GetBool("verbose"),
		Logger:      logger,
	}

	if len(settings.Headers) > 0 {
		headers, err := parseKeyValues(settings.Headers, ":")
		if err != nil {
			return nil, fmt.Errorf("invalid headers setting: %w", err)
		}

		config.Interceptors = ghost.NewInterceptorChain()
		config.Interceptors.AddRequestInterceptor(ghost.HeaderInterceptor(headers))
	}

	if settings.RequestsPerSecond > 0 {
		if config.Interceptors == nil {
			config.Interceptors = ghost.NewInterceptorChain()
		}

		config.Interceptors.AddRequestInterceptor(ghost.ThrottleInterceptor(settings.RequestsPerSecond))
	}

	cacheConfig, err := cacheConfigFor(settings)
	if err != nil {
		return nil, err
	}

	config.Cache = cacheConfig

	return config, nil
}

func cacheConfigFor(settings *Profile) (*ghost.CacheConfig, error) {
	cacheType, err := ghost.ParseCacheType(settings.Cache)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", constants.ErrInvalidCacheType, settings.Cache)
	}

	if cacheType == ghost.CacheTypeNone {
		return nil, nil //nolint:nilnil // no cache configured
	}

	config := ghost.DefaultCacheConfig()
	config.Type = cacheType

	if settings.CacheTTL > 0 {
		config.Options.TTL = settings.CacheTTL
	}

	switch cacheType {
	case ghost.CacheTypeRedis:
		config.Redis = &ghost.RedisCacheConfig{Addr: settings.RedisAddr, KeyPrefix: constants.DefaultCacheBucket}
	case ghost.CacheTypeNATS:
		config.NATS = &ghost.NATSKVConfig{URL: settings.NATSURL, Bucket: constants.DefaultCacheBucket, TTL: config.Options.TTL}
	}

	return config, nil
}

func closeClient(client ghost.Client) {
	_ = ghostclient.Close(client)
}

// commandContext derives a cancellable context from the command.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithCancel(ctx)
}

// withClient runs fn with a client built from the active profile.
func withClient(cmd *cobra.Command, fn func(ctx context.Context, client ghost.Client) error) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	client, err := newClient(ctx)
	if err != nil {
		return err
	}
	defer closeClient(client)

	return fn(ctx, client)
}

func isDryRun() bool {
	return viper.GetBool("dry_run")
}

func confirm(cmd *cobra.Command, question string) bool {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (y/N): ", question)

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(line))

	return answer == "y" || answer == Yes
}

// parseKeyValues splits "key<sep>value" pairs.
func parseKeyValues(pairs []string, sep string) (map[string]string, error) {
	values := make(map[string]string, len(pairs))

	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, sep)
		key = strings.TrimSpace(key)

		if !found || key == "" {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidKeyValue, pair)
		}

		values[key] = strings.TrimSpace(value)
	}

	return values, nil
}

// listOptions are the flags shared by list commands.
type listOptions struct {
	limit   int
	page    int
	all     bool
	filter  string
	order   string
	include []string
	fields  []string
}

func (o *listOptions) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&o.limit, "limit", 0, "items per page (default from profile)")
	cmd.Flags().IntVar(&o.page, "page", 1, "page to fetch")
	cmd.Flags().BoolVar(&o.all, "all", false, "follow pagination and fetch every page")
	cmd.Flags().StringVar(&o.filter, "filter", "", "NQL filter, e.g. status:published")
	cmd.Flags().StringVar(&o.order, "order", "", "sort order, e.g. \"published_at desc\"")
	cmd.Flags().StringSliceVar(&o.include, "include", nil, "related resources to include")
	cmd.Flags().StringSliceVar(&o.fields, "fields", nil, "fields to return")
}

func (o *listOptions) params() *ghost.QueryParams {
	params := ghost.NewQueryParams()

	limit := o.limit
	if limit <= 0 {
		limit = profilePageSize()
	}

	params.WithLimit(min(limit, constants.MaxPageSize))

	if o.page > 1 && !o.all {
		params.WithPage(o.page)
	}

	if o.filter != "" {
		params.WithFilter(o.filter)
	}

	if o.order != "" {
		params.WithOrder(o.order)
	}

	if len(o.include) > 0 {
		params.WithInclude(o.include...)
	}

	if len(o.fields) > 0 {
		params.WithFields(o.fields...)
	}

	return params
}

func profilePageSize() int {
	settings, err := resolveSettings()
	if err != nil || settings.PageSize <= 0 {
		return constants.DefaultPageSize
	}

	return settings.PageSize
}

// listItems fetches one page, or every page when --all is set.
func listItems[T any](
	ctx context.Context,
	opts *listOptions,
	list func(context.Context, *ghost.QueryParams) (*ghost.ListResponse[T], error),
	listAll func(context.Context, *ghost.QueryParams) *ghost.Paginator[T],
) ([]T, *ghost.Pagination, error) {
	params := opts.params()

	if opts.all {
		items, err := listAll(ctx, params).All()
		if err != nil {
			return nil, nil, err
		}

		return items, nil, nil
	}

	response, err := list(ctx, params)
	if err != nil {
		return nil, nil, err
	}

	return response.Items, &response.Meta.Pagination, nil
}

// DescribeError turns a client error into an actionable message.
func DescribeError(err error) string {
	var (
		credErr   *ghost.CredentialFormatError
		configErr *ghost.ConfigError
		rateErr   *ghost.RateLimitedError
		circuit   *ghost.CircuitOpenError
		network   *ghost.NetworkError
	)

	switch {
	case errors.As(err, &credErr):
		return "Error: " + err.Error() + "\nAdmin API keys have the form <id>:<hex secret>; copy one from a custom integration."
	case errors.Is(err, ghost.ErrHTTPSRequired):
		return "Error: " + err.Error() + "\nThe admin API must be reached over https."
	case errors.As(err, &configErr), errors.Is(err, constants.ErrNoAPIURL), errors.Is(err, constants.ErrNoAdminKey):
		return "Error: " + err.Error() + "\nRun 'ghostctl config init' or set GHOST_API_URL and GHOST_ADMIN_API_KEY."
	case ghost.IsAuthentication(err):
		return "Error: " + err.Error() + "\nCheck that the admin API key belongs to this site and has not been revoked."
	case errors.As(err, &rateErr):
		return "Error: " + err.Error() + "\nThe site is rate limiting requests; wait and try again."
	case errors.As(err, &circuit):
		return "Error: " + err.Error() + "\nThe site kept failing; check its health before retrying."
	case errors.As(err, &network):
		return "Error: " + err.Error() + "\nCheck the site URL and your network connection."
	default:
		return "Error: " + err.Error()
	}
}
