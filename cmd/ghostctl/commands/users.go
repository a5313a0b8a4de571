package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/ghostctl/internal/constants"
	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
)

// NewUsersCommand creates the users command group.
func NewUsersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user", "staff"},
		Short:   "Read staff users",
	}

	cmd.AddCommand(newUsersListCommand())
	cmd.AddCommand(newUsersGetCommand())
	cmd.AddCommand(newUsersMeCommand())

	return cmd
}

func newUsersListCommand() *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List staff users",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.include = append(opts.include, "roles")

			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				items, pagination, err := listItems(ctx, opts, client.Users().List, client.Users().ListAll)
				if err != nil {
					return fmt.Errorf("failed to list users: %w", err)
				}

				err = render(cmd.OutOrStdout(), items, func(table *tablewriter.Table) error {
					table.Header("ID", "Name", "Email", "Roles", "Status")

					for _, user := range items {
						err := table.Append([]string{user.ID, user.Name, user.Email, roleNames(user.Roles), user.Status})
						if err != nil {
							return fmt.Errorf("failed to append user to table: %w", err)
						}
					}

					return nil
				})
				if err != nil {
					return err
				}

				paginationFooter(cmd.OutOrStdout(), pagination)

				return nil
			})
		},
	}

	opts.register(cmd)

	return cmd
}

func newUsersGetCommand() *cobra.Command {
	var slug string

	cmd := &cobra.Command{
		Use:   "get [ID]",
		Short: "Get a staff user",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && slug == "" {
				return constants.ErrIDOrSlugRequired
			}

			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				params := ghost.NewQueryParams().WithInclude("roles")

				var (
					user *ghost.User
					err  error
				)

				if len(args) > 0 {
					user, err = client.Users().Get(ctx, args[0], params)
				} else {
					user, err = client.Users().GetBySlug(ctx, slug, params)
				}

				if err != nil {
					return fmt.Errorf("failed to get user: %w", err)
				}

				return renderUser(cmd.OutOrStdout(), user)
			})
		},
	}

	cmd.Flags().StringVar(&slug, "slug", "", "look up by slug")

	return cmd
}

func newUsersMeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the user owning the admin key",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				user, err := client.Users().Me(ctx)
				if err != nil {
					return fmt.Errorf("failed to get current user: %w", err)
				}

				return renderUser(cmd.OutOrStdout(), user)
			})
		},
	}
}

func renderUser(w io.Writer, user *ghost.User) error {
	return renderProperties(w, user, [][]string{
		{"ID", user.ID},
		{"Name", user.Name},
		{"Slug", user.Slug},
		{"Email", user.Email},
		{"Status", user.Status},
		{"Roles", formatOptional(roleNames(user.Roles))},
		{"Last Seen", formatTimePtr(user.LastSeen)},
		{"URL", formatOptional(user.URL)},
	})
}

func roleNames(roles []ghost.Role) string {
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.Name)
	}

	return strings.Join(names, ", ")
}
