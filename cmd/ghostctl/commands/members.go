package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
)

// NewMembersCommand creates the members command group.
func NewMembersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "members",
		Aliases: []string{"member"},
		Short:   "Manage members",
		Long:    "List, create, edit and delete site members",
	}

	cmd.AddCommand(newMembersListCommand())
	cmd.AddCommand(newMembersGetCommand())
	cmd.AddCommand(newMembersCreateCommand())
	cmd.AddCommand(newMembersUpdateCommand())
	cmd.AddCommand(newMembersDeleteCommand())

	return cmd
}

func newMembersListCommand() *cobra.Command {
	opts := &listOptions{}

	var status string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List members",
		RunE: func(cmd *cobra.Command, args []string) error {
			if status != "" {
				opts.filter = joinFilter(opts.filter, "status:"+status)
			}

			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				items, pagination, err := listItems(ctx, opts, client.Members().List, client.Members().ListAll)
				if err != nil {
					return fmt.Errorf("failed to list members: %w", err)
				}

				err = render(cmd.OutOrStdout(), items, func(table *tablewriter.Table) error {
					table.Header("ID", "Email", "Name", "Status", "Labels", "Created")

					for _, member := range items {
						err := table.Append([]string{
							member.ID,
							member.Email,
							formatOptional(member.Name),
							member.Status,
							formatOptional(labelNames(member.Labels)),
							formatTime(member.CreatedAt),
						})
						if err != nil {
							return fmt.Errorf("failed to append member to table: %w", err)
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
	cmd.Flags().StringVar(&status, "status", "", "only show free, paid or comped members")

	return cmd
}

func newMembersGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Get a member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				member, err := client.Members().Get(ctx, args[0], ghost.NewQueryParams().WithInclude("newsletters", "labels"))
				if err != nil {
					return fmt.Errorf("failed to get member: %w", err)
				}

				return renderMember(cmd.OutOrStdout(), member)
			})
		},
	}
}

type memberFlags struct {
	email       string
	name        string
	note        string
	labels      []string
	newsletters []string
	comped      bool
}

func (f *memberFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.email, "email", "", "member email")
	cmd.Flags().StringVar(&f.name, "name", "", "member name")
	cmd.Flags().StringVar(&f.note, "note", "", "private note")
	cmd.Flags().StringSliceVar(&f.labels, "label", nil, "labels (repeatable)")
	cmd.Flags().StringSliceVar(&f.newsletters, "newsletter", nil, "newsletter ids to subscribe to (repeatable)")
	cmd.Flags().BoolVar(&f.comped, "comped", false, "give complimentary access")
}

func (f *memberFlags) fields(cmd *cobra.Command) ghost.MemberFields {
	fields := ghost.MemberFields{Name: f.name, Note: f.note}

	for _, label := range f.labels {
		fields.Labels = append(fields.Labels, ghost.Label{Name: label})
	}

	for _, id := range f.newsletters {
		fields.Newsletters = append(fields.Newsletters, ghost.NewsletterRef{ID: id})
	}

	if cmd.Flags().Changed("comped") {
		comped := f.comped
		fields.Comped = &comped
	}

	return fields
}

func newMembersCreateCommand() *cobra.Command {
	flags := &memberFlags{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a member",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.email == "" {
				return ErrEmailRequired
			}

			request := &ghost.MemberCreateRequest{MemberFields: flags.fields(cmd), Email: flags.email}

			if isDryRun() {
				return renderDryRun(cmd.OutOrStdout(), "create member", request)
			}

			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				member, err := client.Members().Create(ctx, request)
				if err != nil {
					return fmt.Errorf("failed to create member: %w", err)
				}

				return renderMember(cmd.OutOrStdout(), member)
			})
		},
	}

	flags.register(cmd)

	return cmd
}

func newMembersUpdateCommand() *cobra.Command {
	flags := &memberFlags{}

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request := &ghost.MemberUpdateRequest{MemberFields: flags.fields(cmd), Email: flags.email}

			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				current, err := client.Members().Get(ctx, args[0], nil)
				if err != nil {
					return fmt.Errorf("failed to get member: %w", err)
				}

				request.UpdatedAt = current.UpdatedAt

				if isDryRun() {
					return renderDryRun(cmd.OutOrStdout(), "update member "+args[0], request)
				}

				member, err := client.Members().Update(ctx, args[0], request)
				if err != nil {
					return fmt.Errorf("failed to update member: %w", err)
				}

				return renderMember(cmd.OutOrStdout(), member)
			})
		},
	}

	flags.register(cmd)

	return cmd
}

func newMembersDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a member",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if isDryRun() {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Would delete member %s\n", args[0])

				return nil
			}

			if !force && !confirm(cmd, fmt.Sprintf("Really delete member '%s'?", args[0])) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Deletion cancelled")

				return nil
			}

			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				err := client.Members().Delete(ctx, args[0])
				if err != nil {
					return fmt.Errorf("failed to delete member: %w", err)
				}

				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted member %s\n", args[0])

				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "force deletion without confirmation")

	return cmd
}

func renderMember(w io.Writer, member *ghost.Member) error {
	newsletters := make([]string, 0, len(member.Newsletters))
	for _, newsletter := range member.Newsletters {
		newsletters = append(newsletters, newsletter.Name)
	}

	return renderProperties(w, member, [][]string{
		{"ID", member.ID},
		{"Email", member.Email},
		{"Name", formatOptional(member.Name)},
		{"Status", member.Status},
		{"Labels", formatOptional(labelNames(member.Labels))},
		{"Newsletters", formatOptional(strings.Join(newsletters, ", "))},
		{"Emails Received", strconv.Itoa(member.EmailCount)},
		{"Emails Opened", strconv.Itoa(member.EmailOpenedCount)},
		{"Last Seen", formatTimePtr(member.LastSeenAt)},
		{"Created At", formatTime(member.CreatedAt)},
	})
}

func labelNames(labels []ghost.Label) string {
	names := make([]string, 0, len(labels))
	for _, label := range labels {
		names = append(names, label.Name)
	}

	return strings.Join(names, ", ")
}
