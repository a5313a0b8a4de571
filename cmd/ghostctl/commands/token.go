package commands

import (
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/ghostctl/internal/auth"
	"github.com/fivetwenty-io/ghostctl/internal/constants"
)

// NewTokenCommand creates the token command group.
func NewTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Inspect admin API tokens",
		Long:  "Sign and decode admin API tokens for troubleshooting. Signatures and key secrets are never printed.",
	}

	cmd.AddCommand(newTokenGenerateCommand())
	cmd.AddCommand(newTokenInspectCommand())

	return cmd
}

type tokenInfo struct {
	KeyID     string    `json:"kid"        yaml:"kid"`
	Issuer    string    `json:"iss"        yaml:"iss"`
	Audience  []string  `json:"aud"        yaml:"aud"`
	IssuedAt  time.Time `json:"iat"        yaml:"iat"`
	ExpiresAt time.Time `json:"exp"        yaml:"exp"`
	Verified  bool      `json:"verified"   yaml:"verified"`
	Signature string    `json:"signature"  yaml:"signature"`
}

func newTokenInfo(claims *auth.Claims, verified bool) *tokenInfo {
	return &tokenInfo{
		KeyID:     claims.KeyID,
		Issuer:    claims.Issuer,
		Audience:  claims.Audience,
		IssuedAt:  claims.IssuedAt,
		ExpiresAt: claims.ExpiresAt,
		Verified:  verified,
		Signature: constants.RedactedValue,
	}
}

func newTokenGenerateCommand() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Sign a token with the profile's admin key and show its claims",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := resolveSettings()
			if err != nil {
				return err
			}

			credential, err := auth.ParseCredential(settings.AdminAPIKey)
			if err != nil {
				return err
			}

			generator := auth.NewGenerator(credential, auth.WithTTL(ttl), auth.WithScheme(settings.AuthScheme))

			token, err := generator.Generate()
			if err != nil {
				return err
			}

			claims, err := auth.Verify(token.AccessToken, credential, generator.Now())
			if err != nil {
				return err
			}

			return renderTokenInfo(cmd.OutOrStdout(), newTokenInfo(claims, true))
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", constants.TokenTTL, "token lifetime")

	return cmd
}

func newTokenInspectCommand() *cobra.Command {
	var verify bool

	cmd := &cobra.Command{
		Use:   "inspect TOKEN",
		Short: "Decode a token",
		Long:  "Decode a token and show its claims. With --verify the signature is checked against the profile's admin key.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(args[0], constants.AuthSchemeBearer+" "), "Ghost "))

			if !verify {
				claims, err := auth.Inspect(raw)
				if err != nil {
					return err
				}

				return renderTokenInfo(cmd.OutOrStdout(), newTokenInfo(claims, false))
			}

			settings, err := resolveSettings()
			if err != nil {
				return err
			}

			credential, err := auth.ParseCredential(settings.AdminAPIKey)
			if err != nil {
				return err
			}

			claims, err := auth.Verify(raw, credential, time.Now())
			if err != nil {
				return err
			}

			return renderTokenInfo(cmd.OutOrStdout(), newTokenInfo(claims, true))
		},
	}

	cmd.Flags().BoolVar(&verify, "verify", false, "verify the signature with the profile's admin key")

	return cmd
}

func renderTokenInfo(w io.Writer, info *tokenInfo) error {
	remaining := time.Until(info.ExpiresAt).Round(time.Second)

	expiry := formatTime(info.ExpiresAt)
	if remaining <= 0 {
		expiry += " (expired)"
	} else {
		expiry += " (in " + remaining.String() + ")"
	}

	return renderProperties(w, info, [][]string{
		{"Key ID", info.KeyID},
		{"Issuer", info.Issuer},
		{"Audience", strings.Join(info.Audience, ", ")},
		{"Issued At", formatTime(info.IssuedAt)},
		{"Expires At", expiry},
		{"Verified", formatBool(info.Verified)},
		{"Signature", info.Signature},
	})
}
