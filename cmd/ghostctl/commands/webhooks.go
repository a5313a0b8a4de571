package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
)

// NewWebhooksCommand creates the webhooks command group.
func NewWebhooksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "webhooks",
		Aliases: []string{"webhook", "hooks"},
		Short:   "Manage integration webhooks",
		Long: `Create, update and delete integration webhooks.

The admin API cannot read webhooks back, so updates need the updated_at value
returned when the webhook was created or last changed.`,
	}

	cmd.AddCommand(newWebhooksCreateCommand())
	cmd.AddCommand(newWebhooksUpdateCommand())
	cmd.AddCommand(newWebhooksDeleteCommand())

	return cmd
}

func newWebhooksCreateCommand() *cobra.Command {
	var request ghost.WebhookCreateRequest

	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a webhook",
		Example: `  ghostctl webhooks create --event post.published --target-url https://hooks.example.com/ghost`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if isDryRun() {
				plan := request
				if plan.Secret != "" {
					plan.Secret = Masked
				}

				return renderDryRun(cmd.OutOrStdout(), "create webhook", &plan)
			}

			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				webhook, err := client.Webhooks().Create(ctx, &request)
				if err != nil {
					return fmt.Errorf("failed to create webhook: %w", err)
				}

				return renderWebhook(cmd.OutOrStdout(), webhook)
			})
		},
	}

	cmd.Flags().StringVar(&request.Event, "event", "", "event name, e.g. post.published")
	cmd.Flags().StringVar(&request.TargetURL, "target-url", "", "https URL receiving the payload")
	cmd.Flags().StringVar(&request.Name, "name", "", "webhook name")
	cmd.Flags().StringVar(&request.Secret, "secret", "", "secret used to sign payloads")
	cmd.Flags().StringVar(&request.APIVersion, "webhook-api-version", "", "payload API version")
	cmd.Flags().StringVar(&request.IntegrationID, "integration", "", "integration id owning the webhook")

	_ = cmd.MarkFlagRequired("event")
	_ = cmd.MarkFlagRequired("target-url")

	return cmd
}

func newWebhooksUpdateCommand() *cobra.Command {
	var (
		request   ghost.WebhookUpdateRequest
		updatedAt string
	)

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a webhook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stamp, err := time.Parse(time.RFC3339, updatedAt)
			if err != nil {
				return ghost.NewValidationError("updated_at", "must be an RFC 3339 timestamp")
			}

			request.UpdatedAt = stamp

			if isDryRun() {
				return renderDryRun(cmd.OutOrStdout(), "update webhook "+args[0], &request)
			}

			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				webhook, err := client.Webhooks().Update(ctx, args[0], &request)
				if err != nil {
					return fmt.Errorf("failed to update webhook: %w", err)
				}

				return renderWebhook(cmd.OutOrStdout(), webhook)
			})
		},
	}

	cmd.Flags().StringVar(&request.Event, "event", "", "event name")
	cmd.Flags().StringVar(&request.TargetURL, "target-url", "", "https URL receiving the payload")
	cmd.Flags().StringVar(&request.Name, "name", "", "webhook name")
	cmd.Flags().StringVar(&request.APIVersion, "webhook-api-version", "", "payload API version")
	cmd.Flags().StringVar(&updatedAt, "updated-at", "", "updated_at of the webhook (RFC 3339)")

	_ = cmd.MarkFlagRequired("updated-at")

	return cmd
}

func newWebhooksDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a webhook",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if isDryRun() {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Would delete webhook %s\n", args[0])

				return nil
			}

			if !force && !confirm(cmd, fmt.Sprintf("Really delete webhook '%s'?", args[0])) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Deletion cancelled")

				return nil
			}

			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				err := client.Webhooks().Delete(ctx, args[0])
				if err != nil {
					return fmt.Errorf("failed to delete webhook: %w", err)
				}

				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted webhook %s\n", args[0])

				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "force deletion without confirmation")

	return cmd
}

func renderWebhook(w io.Writer, webhook *ghost.Webhook) error {
	return renderProperties(w, webhook, [][]string{
		{"ID", webhook.ID},
		{"Event", webhook.Event},
		{"Target URL", webhook.TargetURL},
		{"Name", formatOptional(webhook.Name)},
		{"Integration", formatOptional(webhook.IntegrationID)},
		{"Status", formatOptional(webhook.Status)},
		{"Last Triggered", formatTimePtr(webhook.LastTriggeredAt)},
		{"Updated At", formatTime(webhook.UpdatedAt)},
	})
}
