package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/ghostctl/cmd/ghostctl/commands"
	"github.com/fivetwenty-io/ghostctl/internal/constants"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "ghostctl",
	Short: "Ghost CMS admin API CLI",
	Long: `A command-line interface for managing Ghost CMS sites through the admin API.

ghostctl signs short-lived admin tokens from an integration key and provides
access to posts, pages, tags, members, tiers, newsletters, offers, webhooks,
images, themes, site settings and full exports.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is $HOME/.ghostctl/config.toml)")
	flags.StringP("profile", "p", "", "configuration profile to use")
	flags.String("url", "", "Ghost site URL")
	flags.String("admin-key", "", "admin API key in <id>:<secret> form")
	flags.String("api-version", "", "admin API version sent as Accept-Version")
	flags.StringP("output", "o", constants.FormatTable, "output format (table, json, yaml)")
	flags.BoolP("verbose", "v", false, "verbose output")
	flags.Int("timeout", 0, "request timeout in seconds")
	flags.Int("max-retries", -1, "maximum number of retries per request")
	flags.Bool("dry-run", false, "show what would be done without making changes")
	flags.String("cache", "", "response cache (none, memory, redis, nats)")
	flags.Float64("requests-per-second", 0, "client-side request rate limit (0 disables)")

	// Bind flags to viper
	for key, flag := range map[string]string{
		"config":        "config",
		"profile":       "profile",
		"api_url":       "url",
		"admin_api_key": "admin-key",
		"api_version":   "api-version",
		"output":        "output",
		"verbose":       "verbose",
		"timeout":       "timeout",
		"max_retries":   "max-retries",
		"dry_run":       "dry-run",
		"cache":         "cache",

		"requests_per_second": "requests-per-second",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}

	// Add commands
	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(commands.NewPostsCommand())
	rootCmd.AddCommand(commands.NewPagesCommand())
	rootCmd.AddCommand(commands.NewTagsCommand())
	rootCmd.AddCommand(commands.NewMembersCommand())
	rootCmd.AddCommand(commands.NewUsersCommand())
	rootCmd.AddCommand(commands.NewTiersCommand())
	rootCmd.AddCommand(commands.NewNewslettersCommand())
	rootCmd.AddCommand(commands.NewOffersCommand())
	rootCmd.AddCommand(commands.NewWebhooksCommand())
	rootCmd.AddCommand(commands.NewImagesCommand())
	rootCmd.AddCommand(commands.NewThemesCommand())
	rootCmd.AddCommand(commands.NewSiteCommand())
	rootCmd.AddCommand(commands.NewSettingsCommand())
	rootCmd.AddCommand(commands.NewExportCommand(version))
	rootCmd.AddCommand(commands.NewStatusCommand())
	rootCmd.AddCommand(commands.NewTokenCommand())
}

func initConfig() {
	// GHOST_API_URL, GHOST_ADMIN_API_KEY and GHOST_API_VERSION override profile values
	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if viper.GetBool("verbose") {
		path, err := commands.ConfigFilePath()
		if err == nil {
			fmt.Fprintln(os.Stderr, "Using config file:", path)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, commands.DescribeError(err))
		os.Exit(1)
	}
}
