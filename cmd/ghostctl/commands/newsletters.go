package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
)

// NewNewslettersCommand creates the newsletters command group.
func NewNewslettersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "newsletters",
		Aliases: []string{"newsletter"},
		Short:   "Manage newsletters",
	}

	cmd.AddCommand(newNewslettersListCommand())
	cmd.AddCommand(newNewslettersGetCommand())
	cmd.AddCommand(newNewslettersCreateCommand())
	cmd.AddCommand(newNewslettersUpdateCommand())

	return cmd
}

func newNewslettersListCommand() *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List newsletters",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				items, pagination, err := listItems(ctx, opts, client.Newsletters().List, client.Newsletters().ListAll)
				if err != nil {
					return fmt.Errorf("failed to list newsletters: %w", err)
				}

				err = render(cmd.OutOrStdout(), items, func(table *tablewriter.Table) error {
					table.Header("ID", "Name", "Status", "Visibility", "Sender")

					for _, newsletter := range items {
						err := table.Append([]string{
							newsletter.ID,
							newsletter.Name,
							newsletter.Status,
							newsletter.Visibility,
							formatOptional(newsletter.SenderEmail),
						})
						if err != nil {
							return fmt.Errorf("failed to append newsletter to table: %w", err)
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

func newNewslettersGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Get a newsletter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				newsletter, err := client.Newsletters().Get(ctx, args[0], nil)
				if err != nil {
					return fmt.Errorf("failed to get newsletter: %w", err)
				}

				return renderNewsletter(cmd.OutOrStdout(), newsletter)
			})
		},
	}
}

type newsletterFlags struct {
	name              string
	description       string
	senderName        string
	senderEmail       string
	senderReplyTo     string
	status            string
	visibility        string
	subscribeOnSignup bool
}

func (f *newsletterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "newsletter name")
	cmd.Flags().StringVar(&f.description, "description", "", "newsletter description")
	cmd.Flags().StringVar(&f.senderName, "sender-name", "", "sender name")
	cmd.Flags().StringVar(&f.senderEmail, "sender-email", "", "sender email")
	cmd.Flags().StringVar(&f.senderReplyTo, "reply-to", "", "newsletter or support")
	cmd.Flags().StringVar(&f.status, "status", "", "active or archived")
	cmd.Flags().StringVar(&f.visibility, "visibility", "", "members or paid")
	cmd.Flags().BoolVar(&f.subscribeOnSignup, "subscribe-on-signup", true, "subscribe new members automatically")
}

func (f *newsletterFlags) fields(cmd *cobra.Command) ghost.NewsletterFields {
	fields := ghost.NewsletterFields{
		Description:   f.description,
		SenderName:    f.senderName,
		SenderEmail:   f.senderEmail,
		SenderReplyTo: f.senderReplyTo,
		Status:        f.status,
		Visibility:    f.visibility,
	}

	if cmd.Flags().Changed("subscribe-on-signup") {
		subscribe := f.subscribeOnSignup
		fields.SubscribeOnSignup = &subscribe
	}

	return fields
}

func newNewslettersCreateCommand() *cobra.Command {
	flags := &newsletterFlags{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a newsletter",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.name == "" {
				return ErrNameRequired
			}

			request := &ghost.NewsletterCreateRequest{NewsletterFields: flags.fields(cmd), Name: flags.name}

			if isDryRun() {
				return renderDryRun(cmd.OutOrStdout(), "create newsletter", request)
			}

			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				newsletter, err := client.Newsletters().Create(ctx, request)
				if err != nil {
					return fmt.Errorf("failed to create newsletter: %w", err)
				}

				return renderNewsletter(cmd.OutOrStdout(), newsletter)
			})
		},
	}

	flags.register(cmd)

	return cmd
}

func newNewslettersUpdateCommand() *cobra.Command {
	flags := &newsletterFlags{}

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a newsletter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request := &ghost.NewsletterUpdateRequest{NewsletterFields: flags.fields(cmd), Name: flags.name}

			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				current, err := client.Newsletters().Get(ctx, args[0], nil)
				if err != nil {
					return fmt.Errorf("failed to get newsletter: %w", err)
				}

				request.UpdatedAt = current.UpdatedAt

				if isDryRun() {
					return renderDryRun(cmd.OutOrStdout(), "update newsletter "+args[0], request)
				}

				newsletter, err := client.Newsletters().Update(ctx, args[0], request)
				if err != nil {
					return fmt.Errorf("failed to update newsletter: %w", err)
				}

				return renderNewsletter(cmd.OutOrStdout(), newsletter)
			})
		},
	}

	flags.register(cmd)

	return cmd
}

func renderNewsletter(w io.Writer, newsletter *ghost.Newsletter) error {
	return renderProperties(w, newsletter, [][]string{
		{"ID", newsletter.ID},
		{"Name", newsletter.Name},
		{"Slug", newsletter.Slug},
		{"Status", newsletter.Status},
		{"Visibility", newsletter.Visibility},
		{"Sender", formatOptional(newsletter.SenderName)},
		{"Sender Email", formatOptional(newsletter.SenderEmail)},
		{"Reply To", newsletter.SenderReplyTo},
		{"Subscribe On Signup", formatBool(newsletter.SubscribeOnSignup)},
		{"Sort Order", strconv.Itoa(newsletter.SortOrder)},
	})
}
