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

// NewOffersCommand creates the offers command group.
func NewOffersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "offers",
		Aliases: []string{"offer"},
		Short:   "Manage tier offers",
	}

	cmd.AddCommand(newOffersListCommand())
	cmd.AddCommand(newOffersGetCommand())
	cmd.AddCommand(newOffersCreateCommand())
	cmd.AddCommand(newOffersUpdateCommand())

	return cmd
}

func newOffersListCommand() *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List offers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				items, pagination, err := listItems(ctx, opts, client.Offers().List, client.Offers().ListAll)
				if err != nil {
					return fmt.Errorf("failed to list offers: %w", err)
				}

				err = render(cmd.OutOrStdout(), items, func(table *tablewriter.Table) error {
					table.Header("ID", "Name", "Code", "Discount", "Cadence", "Status", "Redeemed")

					for i := range items {
						offer := &items[i]

						err := table.Append([]string{
							offer.ID,
							offer.Name,
							offer.Code,
							ghost.FormatOfferAmount(offer),
							offer.Cadence,
							offer.Status,
							strconv.Itoa(offer.RedemptionCount),
						})
						if err != nil {
							return fmt.Errorf("failed to append offer to table: %w", err)
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

func newOffersGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Get an offer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				offer, err := client.Offers().Get(ctx, args[0], nil)
				if err != nil {
					return fmt.Errorf("failed to get offer: %w", err)
				}

				return renderOffer(cmd.OutOrStdout(), offer)
			})
		},
	}
}

func newOffersCreateCommand() *cobra.Command {
	var (
		request  ghost.OfferCreateRequest
		amount   string
		duration int
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an offer",
		Long: `Create an offer on a tier.

--amount is a percentage for percent offers, a price such as 2.50 for fixed
offers and a number of days for trial offers.`,
		Example: `  ghostctl offers create --name "Black Friday" --code bf --tier <id> --type percent --amount 30 --cadence year --duration once`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if request.Name == "" {
				return ErrNameRequired
			}

			value, err := offerAmount(request.Type, amount)
			if err != nil {
				return err
			}

			request.Amount = value
			request.Currency = strings.ToLower(request.Currency)

			if cmd.Flags().Changed("duration-months") {
				request.DurationInMonths = &duration
			}

			if isDryRun() {
				return renderDryRun(cmd.OutOrStdout(), "create offer", &request)
			}

			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				offer, err := client.Offers().Create(ctx, &request)
				if err != nil {
					return fmt.Errorf("failed to create offer: %w", err)
				}

				return renderOffer(cmd.OutOrStdout(), offer)
			})
		},
	}

	cmd.Flags().StringVar(&request.Name, "name", "", "offer name")
	cmd.Flags().StringVar(&request.Code, "code", "", "URL code of the offer")
	cmd.Flags().StringVar(&request.DisplayTitle, "title", "", "title shown to visitors")
	cmd.Flags().StringVar(&request.DisplayDescription, "description", "", "description shown to visitors")
	cmd.Flags().StringVar(&request.Type, "type", "percent", "percent, fixed or trial")
	cmd.Flags().StringVar(&request.Cadence, "cadence", "month", "month or year")
	cmd.Flags().StringVar(&amount, "amount", "0", "discount amount")
	cmd.Flags().StringVar(&request.Duration, "duration", "once", "once, forever or repeating")
	cmd.Flags().IntVar(&duration, "duration-months", 0, "months a repeating offer lasts")
	cmd.Flags().StringVar(&request.Currency, "currency", "", "currency of a fixed offer")
	cmd.Flags().StringVar(&request.Tier.ID, "tier", "", "tier id")

	return cmd
}

// offerAmount converts --amount to the API unit of the offer type.
func offerAmount(offerType, amount string) (int64, error) {
	if offerType == "fixed" {
		return ghost.ParsePrice(amount)
	}

	value, err := strconv.ParseInt(strings.TrimSpace(amount), 10, 64)
	if err != nil {
		return 0, ghost.NewValidationError("amount", "must be a whole number")
	}

	return value, nil
}

func newOffersUpdateCommand() *cobra.Command {
	var request ghost.OfferUpdateRequest

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update an offer",
		Long:  "Update the name, code, display texts or status of an offer. Pricing cannot change once created.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				current, err := client.Offers().Get(ctx, args[0], nil)
				if err != nil {
					return fmt.Errorf("failed to get offer: %w", err)
				}

				request.UpdatedAt = current.UpdatedAt

				if isDryRun() {
					return renderDryRun(cmd.OutOrStdout(), "update offer "+args[0], &request)
				}

				offer, err := client.Offers().Update(ctx, args[0], &request)
				if err != nil {
					return fmt.Errorf("failed to update offer: %w", err)
				}

				return renderOffer(cmd.OutOrStdout(), offer)
			})
		},
	}

	cmd.Flags().StringVar(&request.Name, "name", "", "offer name")
	cmd.Flags().StringVar(&request.Code, "code", "", "URL code of the offer")
	cmd.Flags().StringVar(&request.DisplayTitle, "title", "", "title shown to visitors")
	cmd.Flags().StringVar(&request.DisplayDescription, "description", "", "description shown to visitors")
	cmd.Flags().StringVar(&request.Status, "status", "", "active or archived")

	return cmd
}

func renderOffer(w io.Writer, offer *ghost.Offer) error {
	tier := NotAvailable
	if offer.Tier != nil {
		tier = offer.Tier.Name
	}

	return renderProperties(w, offer, [][]string{
		{"ID", offer.ID},
		{"Name", offer.Name},
		{"Code", offer.Code},
		{"Title", formatOptional(offer.DisplayTitle)},
		{"Type", offer.Type},
		{"Discount", ghost.FormatOfferAmount(offer)},
		{"Cadence", offer.Cadence},
		{"Duration", offer.Duration},
		{"Duration Months", formatIntPtr(offer.DurationInMonths)},
		{"Tier", tier},
		{"Status", offer.Status},
		{"Redemptions", strconv.Itoa(offer.RedemptionCount)},
	})
}
