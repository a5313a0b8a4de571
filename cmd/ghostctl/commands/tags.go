package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/ghostctl/internal/constants"
	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
)

// NewTagsCommand creates the tags command group.
func NewTagsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tags",
		Aliases: []string{"tag"},
		Short:   "Manage tags",
		Long:    "List, create, edit and delete Ghost tags",
	}

	cmd.AddCommand(newTagsListCommand())
	cmd.AddCommand(newTagsGetCommand())
	cmd.AddCommand(newTagsCreateCommand())
	cmd.AddCommand(newTagsUpdateCommand())
	cmd.AddCommand(newTagsDeleteCommand())
	cmd.AddCommand(newTagsBulkUpdateCommand())

	return cmd
}

func newTagsListCommand() *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.include = append(opts.include, "count.posts")

			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				items, pagination, err := listItems(ctx, opts, client.Tags().List, client.Tags().ListAll)
				if err != nil {
					return fmt.Errorf("failed to list tags: %w", err)
				}

				err = render(cmd.OutOrStdout(), items, func(table *tablewriter.Table) error {
					table.Header("ID", "Name", "Slug", "Visibility", "Posts")

					for _, tag := range items {
						posts := NotAvailable
						if tag.Count != nil {
							posts = strconv.Itoa(tag.Count.Posts)
						}

						err := table.Append([]string{tag.ID, tag.Name, tag.Slug, formatOptional(tag.Visibility), posts})
						if err != nil {
							return fmt.Errorf("failed to append tag to table: %w", err)
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

func newTagsGetCommand() *cobra.Command {
	var slug string

	cmd := &cobra.Command{
		Use:   "get [ID]",
		Short: "Get a tag",
		Long:  "Get a tag by id, or by slug with --slug",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && slug == "" {
				return constants.ErrIDOrSlugRequired
			}

			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				var (
					tag *ghost.Tag
					err error
				)

				if len(args) > 0 {
					tag, err = client.Tags().Get(ctx, args[0], nil)
				} else {
					tag, err = client.Tags().GetBySlug(ctx, slug, nil)
				}

				if err != nil {
					return fmt.Errorf("failed to get tag: %w", err)
				}

				return renderTag(cmd.OutOrStdout(), tag)
			})
		},
	}

	cmd.Flags().StringVar(&slug, "slug", "", "look up by slug")

	return cmd
}

type tagFlags struct {
	name        string
	slug        string
	description string
	visibility  string
	accentColor string
	image       string
}

func (f *tagFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "tag name")
	cmd.Flags().StringVar(&f.slug, "slug", "", "tag slug")
	cmd.Flags().StringVar(&f.description, "description", "", "tag description")
	cmd.Flags().StringVar(&f.visibility, "visibility", "", "public or internal")
	cmd.Flags().StringVar(&f.accentColor, "accent-color", "", "accent color, e.g. #ff0000")
	cmd.Flags().StringVar(&f.image, "feature-image", "", "feature image URL")
}

func (f *tagFlags) fields() ghost.TagFields {
	return ghost.TagFields{
		Slug:         f.slug,
		Description:  f.description,
		Visibility:   f.visibility,
		AccentColor:  f.accentColor,
		FeatureImage: f.image,
	}
}

func newTagsCreateCommand() *cobra.Command {
	flags := &tagFlags{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a tag",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.name == "" {
				return ErrNameRequired
			}

			request := &ghost.TagCreateRequest{TagFields: flags.fields(), Name: flags.name}

			if isDryRun() {
				return renderDryRun(cmd.OutOrStdout(), "create tag", request)
			}

			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				tag, err := client.Tags().Create(ctx, request)
				if err != nil {
					return fmt.Errorf("failed to create tag: %w", err)
				}

				return renderTag(cmd.OutOrStdout(), tag)
			})
		},
	}

	flags.register(cmd)

	return cmd
}

func newTagsUpdateCommand() *cobra.Command {
	flags := &tagFlags{}

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request := &ghost.TagUpdateRequest{TagFields: flags.fields(), Name: flags.name}

			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				current, err := client.Tags().Get(ctx, args[0], nil)
				if err != nil {
					return fmt.Errorf("failed to get tag: %w", err)
				}

				request.UpdatedAt = current.UpdatedAt

				if isDryRun() {
					return renderDryRun(cmd.OutOrStdout(), "update tag "+args[0], request)
				}

				tag, err := client.Tags().Update(ctx, args[0], request)
				if err != nil {
					return fmt.Errorf("failed to update tag: %w", err)
				}

				return renderTag(cmd.OutOrStdout(), tag)
			})
		},
	}

	flags.register(cmd)

	return cmd
}

func newTagsDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a tag",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if isDryRun() {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Would delete tag %s\n", args[0])

				return nil
			}

			if !force && !confirm(cmd, fmt.Sprintf("Really delete tag '%s'?", args[0])) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Deletion cancelled")

				return nil
			}

			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				err := client.Tags().Delete(ctx, args[0])
				if err != nil {
					return fmt.Errorf("failed to delete tag: %w", err)
				}

				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted tag %s\n", args[0])

				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "force deletion without confirmation")

	return cmd
}

type tagBulkFlags struct {
	filter            string
	visibility        string
	accentColor       string
	metaTitleTemplate string
	metaDescTemplate  string
	concurrency       int
	rateLimit         float64
}

func (f *tagBulkFlags) empty() bool {
	return f.visibility == "" && f.accentColor == "" && f.metaTitleTemplate == "" && f.metaDescTemplate == ""
}

// request builds the update of one tag. {name} in a template is replaced by the tag name.
func (f *tagBulkFlags) request(tag ghost.Tag) *ghost.TagUpdateRequest {
	request := &ghost.TagUpdateRequest{UpdatedAt: tag.UpdatedAt}
	request.Visibility = f.visibility
	request.AccentColor = f.accentColor

	if f.metaTitleTemplate != "" {
		request.MetaTitle = strings.ReplaceAll(f.metaTitleTemplate, "{name}", tag.Name)
	}

	if f.metaDescTemplate != "" {
		request.MetaDescription = strings.ReplaceAll(f.metaDescTemplate, "{name}", tag.Name)
	}

	return request
}

func newTagsBulkUpdateCommand() *cobra.Command {
	flags := &tagBulkFlags{}

	cmd := &cobra.Command{
		Use:   "bulk-update",
		Short: "Update many tags",
		Long: `Update every tag matching --filter.

Meta templates may reference the tag name as {name}. With --dry-run the
plan is printed and nothing is changed.`,
		Example: `  ghostctl tags bulk-update --filter "visibility:internal" --visibility public
  ghostctl tags bulk-update --filter "meta_title:null" --meta-title-template "{name} - My Blog"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.filter == "" {
				return ErrFilterRequired
			}

			if flags.empty() {
				return constants.ErrNothingToUpdate
			}

			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				params := ghost.NewQueryParams().
					WithFilter(flags.filter).
					WithLimit(constants.MaxPageSize).
					WithFields("id", "name", "updated_at")

				tags, err := client.Tags().ListAll(ctx, params).All()
				if err != nil {
					return fmt.Errorf("failed to list tags matching %q: %w", flags.filter, err)
				}

				if len(tags) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No tags match the filter")

					return nil
				}

				builder := ghost.NewBatchBuilder()
				targets := make([]batchTarget, 0, len(tags))

				for _, tag := range tags {
					builder.AddUpdateTag("", tag.ID, flags.request(tag))
					targets = append(targets, batchTarget{ID: tag.ID, Label: tag.Name})
				}

				return runBatch(ctx, cmd, client, batchRun{
					action:      "update",
					noun:        "tags",
					targets:     targets,
					operations:  builder.Build(),
					concurrency: flags.concurrency,
					rateLimit:   flags.rateLimit,
				})
			})
		},
	}

	cmd.Flags().StringVar(&flags.filter, "filter", "", "NQL filter selecting tags")
	cmd.Flags().StringVar(&flags.visibility, "visibility", "", "public or internal")
	cmd.Flags().StringVar(&flags.accentColor, "accent-color", "", "accent color, e.g. #0066cc")
	cmd.Flags().StringVar(&flags.metaTitleTemplate, "meta-title-template", "", "meta title, {name} is the tag name")
	cmd.Flags().StringVar(&flags.metaDescTemplate, "meta-description-template", "", "meta description, {name} is the tag name")
	cmd.Flags().IntVar(&flags.concurrency, "concurrency", constants.DefaultConcurrencyLimit, "requests in flight")
	cmd.Flags().Float64Var(&flags.rateLimit, "rate", 0, "maximum operations per second (0 for no limit)")

	return cmd
}

func renderTag(w io.Writer, tag *ghost.Tag) error {
	return renderProperties(w, tag, [][]string{
		{"ID", tag.ID},
		{"Name", tag.Name},
		{"Slug", tag.Slug},
		{"Description", formatOptional(tag.Description)},
		{"Visibility", formatOptional(tag.Visibility)},
		{"Accent Color", formatOptional(tag.AccentColor)},
		{"Created At", formatTime(tag.CreatedAt)},
		{"Updated At", formatTime(tag.UpdatedAt)},
	})
}
