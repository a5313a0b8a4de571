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

// NewTiersCommand creates the tiers command group.
func NewTiersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tiers",
		Aliases: []string{"tier"},
		Short:   "Manage membership tiers",
		Long:    "List, create and edit membership tiers. Prices are given in major units, e.g. 5.00.",
	}

	cmd.AddCommand(newTiersListCommand())
	cmd.AddCommand(newTiersGetCommand())
	cmd.AddCommand(newTiersCreateCommand())
	cmd.AddCommand(newTiersUpdateCommand())

	return cmd
}

func newTiersListCommand() *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tiers",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.include = append(opts.include, "monthly_price", "yearly_price", "benefits")

			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				items, pagination, err := listItems(ctx, opts, client.Tiers().List, client.Tiers().ListAll)
				if err != nil {
					return fmt.Errorf("failed to list tiers: %w", err)
				}

				err = render(cmd.OutOrStdout(), items, func(table *tablewriter.Table) error {
					table.Header("ID", "Name", "Type", "Active", "Monthly", "Yearly")

					for _, tier := range items {
						err := table.Append([]string{
							tier.ID,
							tier.Name,
							tier.Type,
							formatBool(tier.Active),
							formatPricePtr(tier.MonthlyPrice, tier.Currency),
							formatPricePtr(tier.YearlyPrice, tier.Currency),
						})
						if err != nil {
							return fmt.Errorf("failed to append tier to table: %w", err)
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

func newTiersGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Get a tier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				params := ghost.NewQueryParams().WithInclude("monthly_price", "yearly_price", "benefits")

				tier, err := client.Tiers().Get(ctx, args[0], params)
				if err != nil {
					return fmt.Errorf("failed to get tier: %w", err)
				}

				return renderTier(cmd.OutOrStdout(), tier)
			})
		},
	}
}

type tierFlags struct {
	name         string
	description  string
	visibility   string
	currency     string
	monthlyPrice string
	yearlyPrice  string
	trialDays    int
	benefits     []string
	active       bool
}

func (f *tierFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "tier name")
	cmd.Flags().StringVar(&f.description, "description", "", "tier description")
	cmd.Flags().StringVar(&f.visibility, "visibility", "", "public or none")
	cmd.Flags().StringVar(&f.currency, "currency", "", "three letter currency code")
	cmd.Flags().StringVar(&f.monthlyPrice, "monthly-price", "", "monthly price, e.g. 5.00")
	cmd.Flags().StringVar(&f.yearlyPrice, "yearly-price", "", "yearly price, e.g. 50.00")
	cmd.Flags().IntVar(&f.trialDays, "trial-days", 0, "free trial length in days")
	cmd.Flags().StringSliceVar(&f.benefits, "benefit", nil, "benefits (repeatable)")
	cmd.Flags().BoolVar(&f.active, "active", true, "whether the tier is offered")
}

func (f *tierFlags) fields(cmd *cobra.Command) (ghost.TierFields, error) {
	fields := ghost.TierFields{
		Description: f.description,
		Visibility:  f.visibility,
		Currency:    strings.ToLower(f.currency),
		Benefits:    f.benefits,
	}

	if f.monthlyPrice != "" {
		price, err := ghost.ParsePrice(f.monthlyPrice)
		if err != nil {
			return fields, fmt.Errorf("invalid --monthly-price: %w", err)
		}

		fields.MonthlyPrice = &price
	}

	if f.yearlyPrice != "" {
		price, err := ghost.ParsePrice(f.yearlyPrice)
		if err != nil {
			return fields, fmt.Errorf("invalid --yearly-price: %w", err)
		}

		fields.YearlyPrice = &price
	}

	if cmd.Flags().Changed("trial-days") {
		trialDays := f.trialDays
		fields.TrialDays = &trialDays
	}

	if cmd.Flags().Changed("active") {
		active := f.active
		fields.Active = &active
	}

	return fields, nil
}

func newTiersCreateCommand() *cobra.Command {
	flags := &tierFlags{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a tier",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.name == "" {
				return ErrNameRequired
			}

			fields, err := flags.fields(cmd)
			if err != nil {
				return err
			}

			request := &ghost.TierCreateRequest{TierFields: fields, Name: flags.name}

			if isDryRun() {
				return renderDryRun(cmd.OutOrStdout(), "create tier", request)
			}

			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				tier, err := client.Tiers().Create(ctx, request)
				if err != nil {
					return fmt.Errorf("failed to create tier: %w", err)
				}

				return renderTier(cmd.OutOrStdout(), tier)
			})
		},
	}

	flags.register(cmd)

	return cmd
}

func newTiersUpdateCommand() *cobra.Command {
	flags := &tierFlags{}

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a tier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := flags.fields(cmd)
			if err != nil {
				return err
			}

			request := &ghost.TierUpdateRequest{TierFields: fields, Name: flags.name}

			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				current, err := client.Tiers().Get(ctx, args[0], nil)
				if err != nil {
					return fmt.Errorf("failed to get tier: %w", err)
				}

				request.UpdatedAt = current.UpdatedAt

				if isDryRun() {
					return renderDryRun(cmd.OutOrStdout(), "update tier "+args[0], request)
				}

				tier, err := client.Tiers().Update(ctx, args[0], request)
				if err != nil {
					return fmt.Errorf("failed to update tier: %w", err)
				}

				return renderTier(cmd.OutOrStdout(), tier)
			})
		},
	}

	flags.register(cmd)

	return cmd
}

func renderTier(w io.Writer, tier *ghost.Tier) error {
	return renderProperties(w, tier, [][]string{
		{"ID", tier.ID},
		{"Name", tier.Name},
		{"Slug", tier.Slug},
		{"Type", tier.Type},
		{"Active", formatBool(tier.Active)},
		{"Visibility", tier.Visibility},
		{"Monthly Price", formatPricePtr(tier.MonthlyPrice, tier.Currency)},
		{"Yearly Price", formatPricePtr(tier.YearlyPrice, tier.Currency)},
		{"Trial Days", strconv.Itoa(tier.TrialDays)},
		{"Benefits", formatOptional(strings.Join(tier.Benefits, ", "))},
	})
}
