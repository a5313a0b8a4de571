package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/olekukonko/tablewriter"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/fivetwenty-io/ghostctl/internal/auth"
	"github.com/fivetwenty-io/ghostctl/internal/constants"
	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
)

// Config is the content of ~/.ghostctl/config.toml.
type Config struct {
	DefaultProfile string              `json:"default_profile,omitempty" mapstructure:"default_profile" toml:"default_profile,omitempty" yaml:"default_profile,omitempty"`
	Profiles       map[string]*Profile `json:"profiles"                  mapstructure:"profiles"        toml:"profiles"                  yaml:"profiles"`
}

// Profile holds the connection settings of one Ghost site.
type Profile struct {
	APIURL      string        `json:"api_url"                mapstructure:"api_url"       toml:"api_url"                 yaml:"api_url"`
	AdminAPIKey string        `json:"admin_api_key"          mapstructure:"admin_api_key" toml:"admin_api_key"           yaml:"admin_api_key"`
	APIVersion  string        `json:"api_version"            mapstructure:"api_version"   toml:"api_version"             yaml:"api_version"`
	AuthScheme  string        `json:"auth_scheme,omitempty"  mapstructure:"auth_scheme"   toml:"auth_scheme,omitempty"   yaml:"auth_scheme,omitempty"`
	Output      string        `json:"output"                 mapstructure:"output"        toml:"output"                  yaml:"output"`
	PageSize    int           `json:"page_size"              mapstructure:"page_size"     toml:"page_size"               yaml:"page_size"`
	MaxRetries  int           `json:"max_retries"            mapstructure:"max_retries"   toml:"max_retries"             yaml:"max_retries"`
	Timeout     int           `json:"timeout"                mapstructure:"timeout"       toml:"timeout"                 yaml:"timeout"`
	Cache       string        `json:"cache,omitempty"        mapstructure:"cache"         toml:"cache,omitempty"         yaml:"cache,omitempty"`
	CacheTTL    time.Duration `json:"cache_ttl,omitempty"    mapstructure:"cache_ttl"     toml:"cache_ttl,omitempty"     yaml:"cache_ttl,omitempty"`
	RedisAddr   string        `json:"redis_addr,omitempty"   mapstructure:"redis_addr"    toml:"redis_addr,omitempty"    yaml:"redis_addr,omitempty"`
	NATSURL     string        `json:"nats_url,omitempty"     mapstructure:"nats_url"      toml:"nats_url,omitempty"      yaml:"nats_url,omitempty"`
	Headers     []string      `json:"headers,omitempty"      mapstructure:"headers"       toml:"headers,omitempty"       yaml:"headers,omitempty"`

	RequestsPerSecond float64 `json:"requests_per_second,omitempty" mapstructure:"requests_per_second" toml:"requests_per_second,omitempty" yaml:"requests_per_second,omitempty"`
}

// NewProfile returns a profile with default settings.
func NewProfile() *Profile {
	return &Profile{
		APIVersion: constants.DefaultAPIVersion,
		Output:     constants.FormatTable,
		PageSize:   constants.DefaultPageSize,
		MaxRetries: constants.DefaultRetryMax,
		Timeout:    int(constants.DefaultHTTPTimeout / time.Second),
	}
}

// applyDefaults fills zero values left by a sparse profile table.
func (p *Profile) applyDefaults() {
	defaults := NewProfile()

	if p.APIVersion == "" {
		p.APIVersion = defaults.APIVersion
	}

	if p.Output == "" {
		p.Output = defaults.Output
	}

	if p.PageSize <= 0 {
		p.PageSize = defaults.PageSize
	}

	if p.Timeout <= 0 {
		p.Timeout = defaults.Timeout
	}
}

// MaskedAdminKey shows the key id and hides the secret.
func (p *Profile) MaskedAdminKey() string {
	if p.AdminAPIKey == "" {
		return ""
	}

	id, _, found := strings.Cut(p.AdminAPIKey, ":")
	if !found {
		return Masked
	}

	return id + ":" + Masked
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Aliases: []string{"cfg"},
		Short:   "Manage connection profiles",
		Long:    "Create, inspect, select and validate the profiles stored in ~/.ghostctl/config.toml",
	}

	cmd.AddCommand(newConfigInitCommand())
	cmd.AddCommand(newConfigListCommand())
	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigUseCommand())
	cmd.AddCommand(newConfigDeleteCommand())
	cmd.AddCommand(newConfigValidateCommand())

	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var (
		apiURL     string
		adminKey   string
		apiVersion string
		makeActive bool
		overwrite  bool
	)

	cmd := &cobra.Command{
		Use:   "init [PROFILE]",
		Short: "Create a profile",
		Long: `Create a connection profile.

Values missing from flags are prompted for. The admin API key is read without
echo when the terminal supports it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := constants.DefaultProfileName
			if len(args) > 0 {
				name = args[0]
			}

			config, err := loadConfig()
			if err != nil {
				return err
			}

			if _, exists := config.Profiles[name]; exists && !overwrite {
				return fmt.Errorf("%w: %s (use --overwrite to replace it)", constants.ErrProfileExists, name)
			}

			reader := bufio.NewReader(cmd.InOrStdin())

			if apiURL == "" {
				apiURL, err = prompt(cmd.OutOrStdout(), reader, "Ghost site URL: ")
				if err != nil {
					return err
				}
			}

			if adminKey == "" {
				adminKey, err = promptSecret(cmd.OutOrStdout(), reader, "Admin API key: ")
				if err != nil {
					return err
				}
			}

			_, err = auth.ParseCredential(adminKey)
			if err != nil {
				return err
			}

			profile := NewProfile()
			profile.APIURL = strings.TrimRight(strings.TrimSpace(apiURL), "/")
			profile.AdminAPIKey = adminKey

			if apiVersion != "" {
				profile.APIVersion = apiVersion
			}

			if !strings.HasPrefix(profile.APIURL, "https://") {
				return &ghost.ConfigError{Field: "api_url", Err: ghost.ErrHTTPSRequired}
			}

			config.Profiles[name] = profile
			if makeActive || config.DefaultProfile == "" {
				config.DefaultProfile = name
			}

			err = saveConfig(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Profile '%s' saved\n", name)

			return nil
		},
	}

	cmd.Flags().StringVar(&apiURL, "api-url", "", "Ghost site URL")
	cmd.Flags().StringVar(&adminKey, "key", "", "admin API key")
	cmd.Flags().StringVar(&apiVersion, "version", "", "admin API version")
	cmd.Flags().BoolVar(&makeActive, "use", false, "make the profile the default")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace an existing profile")

	return cmd
}

func newConfigListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig()
			if err != nil {
				return err
			}

			if len(config.Profiles) == 0 {
				return constants.ErrNoProfilesConfigured
			}

			names := profileNames(config)

			return render(cmd.OutOrStdout(), names, func(table *tablewriter.Table) error {
				table.Header("Name", "URL", "Version", "Default")

				for _, name := range names {
					profile := config.Profiles[name]

					err := table.Append([]string{name, profile.APIURL, profile.APIVersion, formatCurrentIndicator(name == config.DefaultProfile)})
					if err != nil {
						return fmt.Errorf("failed to append profile to table: %w", err)
					}
				}

				return nil
			})
		},
	}
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [PROFILE]",
		Short: "Show a profile",
		Long:  "Show the settings of a profile. The admin key secret is never printed.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig()
			if err != nil {
				return err
			}

			name := selectedProfileName(config)
			if len(args) > 0 {
				name = args[0]
			}

			profile, ok := config.Profiles[name]
			if !ok {
				return fmt.Errorf("%w: %s", constants.ErrProfileNotFound, name)
			}

			masked := *profile
			masked.AdminAPIKey = profile.MaskedAdminKey()

			return render(cmd.OutOrStdout(), &masked, func(table *tablewriter.Table) error {
				table.Header("Property", "Value")

				return appendRows(table, [][]string{
					{"Profile", name},
					{"API URL", masked.APIURL},
					{"Admin API Key", masked.AdminAPIKey},
					{"API Version", masked.APIVersion},
					{"Output", masked.Output},
					{"Page Size", strconv.Itoa(masked.PageSize)},
					{"Max Retries", strconv.Itoa(masked.MaxRetries)},
					{"Timeout", strconv.Itoa(masked.Timeout) + "s"},
					{"Cache", formatConfigValue(masked.Cache)},
					{"Requests/Second", formatRequestRate(masked.RequestsPerSecond)},
				})
			})
		},
	}
}

func newConfigUseCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "use PROFILE",
		Aliases: []string{"switch"},
		Short:   "Select the default profile",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig()
			if err != nil {
				return err
			}

			if _, ok := config.Profiles[args[0]]; !ok {
				return fmt.Errorf("%w: %s", constants.ErrProfileNotFound, args[0])
			}

			config.DefaultProfile = args[0]

			err = saveConfig(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Now using profile '%s'\n", args[0])

			return nil
		},
	}
}

func newConfigDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "delete PROFILE",
		Aliases: []string{"rm"},
		Short:   "Delete a profile",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig()
			if err != nil {
				return err
			}

			name := args[0]
			if _, ok := config.Profiles[name]; !ok {
				return fmt.Errorf("%w: %s", constants.ErrProfileNotFound, name)
			}

			if !force && !confirm(cmd, fmt.Sprintf("Really delete profile '%s'?", name)) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Deletion cancelled")

				return nil
			}

			delete(config.Profiles, name)

			if config.DefaultProfile == name {
				config.DefaultProfile = ""
				if names := profileNames(config); len(names) > 0 {
					config.DefaultProfile = names[0]
				}
			}

			err = saveConfig(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Profile '%s' deleted\n", name)

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "force deletion without confirmation")

	return cmd
}

func newConfigValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the active profile against the site",
		Long:  "Parse the admin key, sign a token and read /site/ with the active profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := resolveSettings()
			if err != nil {
				return err
			}

			_, err = auth.ParseCredential(settings.AdminAPIKey)
			if err != nil {
				return err
			}

			ctx, cancel := commandContext(cmd)
			defer cancel()

			client, err := newClient(ctx)
			if err != nil {
				return err
			}
			defer closeClient(client)

			site, err := client.Site().Get(ctx)
			if err != nil {
				return fmt.Errorf("failed to validate profile: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Connected to %s (%s), Ghost %s\n", site.Title, site.URL, site.Version)

			return nil
		},
	}
}

// ConfigFilePath returns the profile file in use: --config, $GHOST_CONFIG or ~/.ghostctl/config.toml.
func ConfigFilePath() (string, error) {
	if path := viper.GetString("config"); path != "" {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, constants.ConfigDirName, constants.ConfigFileName), nil
}

func loadConfig() (*Config, error) {
	path, err := ConfigFilePath()
	if err != nil {
		return nil, err
	}

	return readConfigFile(path)
}

// readConfigFile decodes a profile file. A missing file yields an empty config.
func readConfigFile(path string) (*Config, error) {
	config := &Config{Profiles: map[string]*Profile{}}

	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("toml")

	err = reader.ReadInConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	err = reader.Unmarshal(config, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	if config.Profiles == nil {
		config.Profiles = map[string]*Profile{}
	}

	for _, profile := range config.Profiles {
		profile.applyDefaults()
	}

	return config, nil
}

func saveConfig(config *Config) error {
	path, err := ConfigFilePath()
	if err != nil {
		return err
	}

	return writeConfigFile(path, config)
}

func writeConfigFile(path string, config *Config) error {
	err := os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to TOML: %w", err)
	}

	err = os.WriteFile(path, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// selectedProfileName resolves --profile, $GHOST_PROFILE, default_profile and finally "default".
func selectedProfileName(config *Config) string {
	if name := viper.GetString("profile"); name != "" {
		return name
	}

	if config.DefaultProfile != "" {
		return config.DefaultProfile
	}

	return constants.DefaultProfileName
}

// resolveSettings merges the selected profile with flag and environment overrides.
func resolveSettings() (*Profile, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, err
	}

	name := selectedProfileName(config)

	settings := NewProfile()
	if profile, ok := config.Profiles[name]; ok {
		copied := *profile
		settings = &copied
	} else if viper.GetString("profile") != "" {
		return nil, fmt.Errorf("%w: %s", constants.ErrProfileNotFound, name)
	}

	overrideString(&settings.APIURL, "api_url")
	overrideString(&settings.AdminAPIKey, "admin_api_key")
	overrideString(&settings.APIVersion, "api_version")
	overrideString(&settings.Output, "output")
	overrideString(&settings.Cache, "cache")

	if viper.IsSet("timeout") && viper.GetInt("timeout") > 0 {
		settings.Timeout = viper.GetInt("timeout")
	}

	if viper.IsSet("max_retries") && viper.GetInt("max_retries") >= 0 {
		settings.MaxRetries = viper.GetInt("max_retries")
	}

	if viper.IsSet("requests_per_second") && viper.GetFloat64("requests_per_second") > 0 {
		settings.RequestsPerSecond = viper.GetFloat64("requests_per_second")
	}

	if settings.APIURL == "" {
		return nil, constants.ErrNoAPIURL
	}

	if settings.AdminAPIKey == "" {
		return nil, constants.ErrNoAdminKey
	}

	return settings, nil
}

func overrideString(target *string, key string) {
	if viper.IsSet(key) {
		if value := viper.GetString(key); value != "" {
			*target = value
		}
	}
}

func profileNames(config *Config) []string {
	names := make([]string, 0, len(config.Profiles))
	for name := range config.Profiles {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func formatConfigValue(value string) string {
	if value == "" {
		return NotSet
	}

	return value
}

func formatRequestRate(perSecond float64) string {
	if perSecond <= 0 {
		return "unlimited"
	}

	return strconv.FormatFloat(perSecond, 'f', -1, 64)
}

func formatCurrentIndicator(isCurrent bool) string {
	if isCurrent {
		return "*"
	}

	return ""
}

func prompt(out io.Writer, reader *bufio.Reader, label string) (string, error) {
	_, _ = fmt.Fprint(out, label)

	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	return strings.TrimSpace(line), nil
}

// promptSecret reads without echo from a terminal and falls back to a plain read.
func promptSecret(out io.Writer, reader *bufio.Reader, label string) (string, error) {
	fd := int(os.Stdin.Fd()) // #nosec G115 -- file descriptors fit in int
	if !term.IsTerminal(fd) {
		return prompt(out, reader, label)
	}

	_, _ = fmt.Fprint(out, label)

	secret, err := term.ReadPassword(fd)

	_, _ = fmt.Fprintln(out)

	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}

	return strings.TrimSpace(string(secret)), nil
}
