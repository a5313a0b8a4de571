package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/ghostctl/internal/constants"
	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
)

const titleWidth = 50

// contentKind describes the posts or pages command tree.
type contentKind struct {
	name     string
	singular string
	aliases  []string
	client   func(ghost.Client) ghost.PostsClient
}

var (
	postsKind = contentKind{
		name:     "posts",
		singular: "post",
		aliases:  []string{"post"},
		client:   func(client ghost.Client) ghost.PostsClient { return client.Posts() },
	}
	pagesKind = contentKind{
		name:     "pages",
		singular: "page",
		aliases:  []string{"page"},
		client:   func(client ghost.Client) ghost.PostsClient { return client.Pages() },
	}
)

// NewPostsCommand creates the posts command group.
func NewPostsCommand() *cobra.Command {
	cmd := newContentCommand(postsKind)

	cmd.AddCommand(newPostsBulkUpdateCommand())
	cmd.AddCommand(newPostsBulkDeleteCommand())

	return cmd
}

// NewPagesCommand creates the pages command group.
func NewPagesCommand() *cobra.Command {
	return newContentCommand(pagesKind)
}

func newContentCommand(kind contentKind) *cobra.Command {
	cmd := &cobra.Command{
		Use:     kind.name,
		Aliases: kind.aliases,
		Short:   "Manage " + kind.name,
		Long:    fmt.Sprintf("List, create, edit, publish and delete Ghost %s", kind.name),
	}

	cmd.AddCommand(newContentListCommand(kind))
	cmd.AddCommand(newContentGetCommand(kind))
	cmd.AddCommand(newContentCreateCommand(kind))
	cmd.AddCommand(newContentUpdateCommand(kind))
	cmd.AddCommand(newContentDeleteCommand(kind))
	cmd.AddCommand(newContentPublishCommand(kind))
	cmd.AddCommand(newContentUnpublishCommand(kind))
	cmd.AddCommand(newContentScheduleCommand(kind))
	cmd.AddCommand(newContentCopyCommand(kind))

	return cmd
}

func newContentListCommand(kind contentKind) *cobra.Command {
	opts := &listOptions{}

	var status string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List " + kind.name,
		RunE: func(cmd *cobra.Command, args []string) error {
			if status != "" {
				opts.filter = joinFilter(opts.filter, "status:"+status)
			}

			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				resources := kind.client(client)

				items, pagination, err := listItems(ctx, opts, resources.List, resources.ListAll)
				if err != nil {
					return fmt.Errorf("failed to list %s: %w", kind.name, err)
				}

				err = render(cmd.OutOrStdout(), items, func(table *tablewriter.Table) error {
					table.Header("ID", "Title", "Status", "Slug", "Published", "Updated")

					for _, post := range items {
						err := table.Append([]string{
							post.ID,
							truncate(post.Title, titleWidth),
							post.Status,
							post.Slug,
							formatTimePtr(post.PublishedAt),
							formatTime(post.UpdatedAt),
						})
						if err != nil {
							return fmt.Errorf("failed to append %s to table: %w", kind.singular, err)
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
	cmd.Flags().StringVar(&status, "status", "", "only show draft, published or scheduled "+kind.name)

	return cmd
}

func newContentGetCommand(kind contentKind) *cobra.Command {
	var (
		slug    string
		formats []string
	)

	cmd := &cobra.Command{
		Use:   "get [ID]",
		Short: "Get a " + kind.singular,
		Long:  fmt.Sprintf("Get a %s by id, or by slug with --slug", kind.singular),
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && slug == "" {
				return constants.ErrIDOrSlugRequired
			}

			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				params := ghost.NewQueryParams().WithInclude("tags", "authors")
				if len(formats) > 0 {
					params.WithFormats(formats...)
				}

				var (
					post *ghost.Post
					err  error
				)

				if len(args) > 0 {
					post, err = kind.client(client).Get(ctx, args[0], params)
				} else {
					post, err = kind.client(client).GetBySlug(ctx, slug, params)
				}

				if err != nil {
					return fmt.Errorf("failed to get %s: %w", kind.singular, err)
				}

				return renderPost(cmd.OutOrStdout(), post)
			})
		},
	}

	cmd.Flags().StringVar(&slug, "slug", "", "look up by slug")
	cmd.Flags().StringSliceVar(&formats, "formats", nil, "content formats to return (html, lexical)")

	return cmd
}

// contentFlags are the writable fields exposed by create and update.
type contentFlags struct {
	title        string
	slug         string
	html         string
	htmlFile     string
	lexical      string
	status       string
	visibility   string
	excerpt      string
	featureImage string
	featured     bool
	tags         []string
	authors      []string
	publishAt    string
	fromFile     string
	sourceHTML   bool
	metaTitle    string
	metaDesc     string
}

func (f *contentFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.title, "title", "", "title")
	flags.StringVar(&f.slug, "slug", "", "slug")
	flags.StringVar(&f.html, "html", "", "HTML content")
	flags.StringVar(&f.htmlFile, "html-file", "", "read HTML content from a file")
	flags.StringVar(&f.lexical, "lexical", "", "lexical JSON content")
	flags.StringVar(&f.status, "status", "", "draft, published or scheduled")
	flags.StringVar(&f.visibility, "visibility", "", "public, members, paid or tiers")
	flags.StringVar(&f.excerpt, "excerpt", "", "custom excerpt")
	flags.StringVar(&f.featureImage, "feature-image", "", "feature image URL")
	flags.BoolVar(&f.featured, "featured", false, "mark as featured")
	flags.StringSliceVar(&f.tags, "tag", nil, "tag names (repeatable)")
	flags.StringSliceVar(&f.authors, "author", nil, "author emails (repeatable)")
	flags.StringVar(&f.publishAt, "publish-at", "", "publication time in RFC 3339")
	flags.StringVar(&f.fromFile, "from-file", "", "read the request body from a JSON or YAML file")
	flags.BoolVar(&f.sourceHTML, "source-html", true, "let the server convert --html content")
	flags.StringVar(&f.metaTitle, "meta-title", "", "SEO title")
	flags.StringVar(&f.metaDesc, "meta-description", "", "SEO description")
}

// fields builds PostFields from the flags the user actually set.
func (f *contentFlags) fields(cmd *cobra.Command) (ghost.PostFields, error) {
	var fields ghost.PostFields

	changed := cmd.Flags().Changed

	fields.Slug = f.slug
	fields.Lexical = f.lexical
	fields.Status = f.status
	fields.Visibility = f.visibility
	fields.CustomExcerpt = f.excerpt
	fields.FeatureImage = f.featureImage
	fields.MetaTitle = f.metaTitle
	fields.MetaDescription = f.metaDesc
	fields.HTML = f.html

	if f.htmlFile != "" {
		// #nosec G304 -- the path is supplied by the operator
		data, err := os.ReadFile(f.htmlFile)
		if err != nil {
			return fields, fmt.Errorf("failed to read HTML file: %w", err)
		}

		fields.HTML = string(data)
	}

	if changed("featured") {
		featured := f.featured
		fields.Featured = &featured
	}

	for _, tag := range f.tags {
		fields.Tags = append(fields.Tags, ghost.TagRef{Name: tag})
	}

	for _, author := range f.authors {
		fields.Authors = append(fields.Authors, ghost.AuthorRef{Email: author})
	}

	if f.publishAt != "" {
		publishAt, err := time.Parse(time.RFC3339, f.publishAt)
		if err != nil {
			return fields, fmt.Errorf("%w: %s", constants.ErrInvalidPublishTime, f.publishAt)
		}

		fields.PublishedAt = &publishAt
	}

	return fields, nil
}

func (f *contentFlags) writeOptions(fields ghost.PostFields) *ghost.WriteOptions {
	if fields.HTML != "" && f.sourceHTML {
		return &ghost.WriteOptions{Source: "html"}
	}

	return nil
}

func newContentCreateCommand(kind contentKind) *cobra.Command {
	flags := &contentFlags{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a " + kind.singular,
		Long: fmt.Sprintf(`Create a %s from flags or from a JSON/YAML file.

HTML content is converted by the server unless --source-html=false is given.`, kind.singular),
		RunE: func(cmd *cobra.Command, args []string) error {
			request := &ghost.PostCreateRequest{}

			if flags.fromFile != "" {
				err := decodeFile(flags.fromFile, request)
				if err != nil {
					return err
				}
			} else {
				fields, err := flags.fields(cmd)
				if err != nil {
					return err
				}

				request.PostFields = fields
				request.Title = flags.title
			}

			if request.Title == "" {
				return ErrTitleRequired
			}

			opts := flags.writeOptions(request.PostFields)

			if isDryRun() {
				return renderDryRun(cmd.OutOrStdout(), "create "+kind.singular, request)
			}

			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				post, err := kind.client(client).Create(ctx, request, opts)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", kind.singular, err)
				}

				return renderPost(cmd.OutOrStdout(), post)
			})
		},
	}

	flags.register(cmd)

	return cmd
}

func newContentUpdateCommand(kind contentKind) *cobra.Command {
	flags := &contentFlags{}

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a " + kind.singular,
		Long: fmt.Sprintf(`Update a %s.

The current %s is read first so the update carries its updated_at value;
the server rejects the update if someone else changed it in between.`, kind.singular, kind.singular),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request := &ghost.PostUpdateRequest{}

			if flags.fromFile != "" {
				err := decodeFile(flags.fromFile, request)
				if err != nil {
					return err
				}
			} else {
				fields, err := flags.fields(cmd)
				if err != nil {
					return err
				}

				request.PostFields = fields
				request.Title = flags.title
			}

			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				resources := kind.client(client)

				current, err := resources.Get(ctx, args[0], nil)
				if err != nil {
					return fmt.Errorf("failed to get %s: %w", kind.singular, err)
				}

				request.UpdatedAt = current.UpdatedAt

				if isDryRun() {
					return renderDryRun(cmd.OutOrStdout(), "update "+kind.singular+" "+args[0], request)
				}

				post, err := resources.Update(ctx, args[0], request, flags.writeOptions(request.PostFields))
				if err != nil {
					return fmt.Errorf("failed to update %s: %w", kind.singular, err)
				}

				return renderPost(cmd.OutOrStdout(), post)
			})
		},
	}

	flags.register(cmd)

	return cmd
}

func newContentDeleteCommand(kind contentKind) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a " + kind.singular,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if isDryRun() {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Would delete %s %s\n", kind.singular, args[0])

				return nil
			}

			if !force && !confirm(cmd, fmt.Sprintf("Really delete %s '%s'?", kind.singular, args[0])) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Deletion cancelled")

				return nil
			}

			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				err := kind.client(client).Delete(ctx, args[0])
				if err != nil {
					return fmt.Errorf("failed to delete %s: %w", kind.singular, err)
				}

				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", kind.singular, args[0])

				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "force deletion without confirmation")

	return cmd
}

// transition runs a status change that needs the stored updated_at.
func transition(
	cmd *cobra.Command,
	kind contentKind,
	id, action string,
	apply func(ctx context.Context, posts ghost.PostsClient, current *ghost.Post) (*ghost.Post, error),
) error {
	if isDryRun() {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Would %s %s %s\n", action, kind.singular, id)

		return nil
	}

	return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
		posts := kind.client(client)

		current, err := posts.Get(ctx, id, nil)
		if err != nil {
			return fmt.Errorf("failed to get %s: %w", kind.singular, err)
		}

		post, err := apply(ctx, posts, current)
		if err != nil {
			return fmt.Errorf("failed to %s %s: %w", action, kind.singular, err)
		}

		return renderPost(cmd.OutOrStdout(), post)
	})
}

func newContentPublishCommand(kind contentKind) *cobra.Command {
	return &cobra.Command{
		Use:   "publish ID",
		Short: "Publish a " + kind.singular,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return transition(cmd, kind, args[0], "publish",
				func(ctx context.Context, posts ghost.PostsClient, current *ghost.Post) (*ghost.Post, error) {
					return posts.Publish(ctx, current.ID, current.UpdatedAt)
				})
		},
	}
}

func newContentUnpublishCommand(kind contentKind) *cobra.Command {
	return &cobra.Command{
		Use:   "unpublish ID",
		Short: "Revert a " + kind.singular + " to draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return transition(cmd, kind, args[0], "unpublish",
				func(ctx context.Context, posts ghost.PostsClient, current *ghost.Post) (*ghost.Post, error) {
					return posts.Unpublish(ctx, current.ID, current.UpdatedAt)
				})
		},
	}
}

func newContentScheduleCommand(kind contentKind) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "schedule ID",
		Short: "Schedule a " + kind.singular,
		Long:  fmt.Sprintf("Schedule a %s for publication at a future time given in RFC 3339", kind.singular),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			publishAt, err := time.Parse(time.RFC3339, at)
			if err != nil {
				return fmt.Errorf("%w: %q", constants.ErrInvalidPublishTime, at)
			}

			return transition(cmd, kind, args[0], "schedule",
				func(ctx context.Context, posts ghost.PostsClient, current *ghost.Post) (*ghost.Post, error) {
					return posts.Schedule(ctx, current.ID, publishAt, current.UpdatedAt)
				})
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "publication time, e.g. 2026-01-02T09:00:00Z")
	_ = cmd.MarkFlagRequired("at")

	return cmd
}

func newContentCopyCommand(kind contentKind) *cobra.Command {
	return &cobra.Command{
		Use:     "copy ID",
		Aliases: []string{"duplicate"},
		Short:   "Duplicate a " + kind.singular + " as a new draft",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if isDryRun() {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Would copy %s %s\n", kind.singular, args[0])

				return nil
			}

			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				post, err := kind.client(client).Copy(ctx, args[0])
				if err != nil {
					return fmt.Errorf("failed to copy %s: %w", kind.singular, err)
				}

				return renderPost(cmd.OutOrStdout(), post)
			})
		},
	}
}

func newPostsBulkUpdateCommand() *cobra.Command {
	var (
		filter      string
		sets        []string
		concurrency int
		rateLimit   float64
	)

	cmd := &cobra.Command{
		Use:   "bulk-update [ID...]",
		Short: "Update many posts",
		Long: `Update every post selected by id or by --filter.

Supported fields for --set are status, visibility, featured and title.
Each post is re-read so the update carries its current updated_at. With
--dry-run the plan is printed and nothing is changed.`,
		Example: `  ghostctl posts bulk-update --filter "tag:old" --set status=draft`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && filter == "" {
				return ErrBulkNeedsSelector
			}

			values, err := parseKeyValues(sets, "=")
			if err != nil {
				return err
			}

			if len(values) == 0 {
				return constants.ErrNothingToUpdate
			}

			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				targets, err := selectPosts(ctx, client, args, filter)
				if err != nil {
					return err
				}

				builder := ghost.NewBatchBuilder()

				for _, post := range targets {
					request, err := bulkUpdateRequest(values)
					if err != nil {
						return err
					}

					request.UpdatedAt = post.UpdatedAt
					builder.AddUpdatePost("", post.ID, request)
				}

				return runBatch(ctx, cmd, client, batchRun{
					action:      "update",
					noun:        "posts",
					targets:     postTargets(targets),
					operations:  builder.Build(),
					concurrency: concurrency,
					rateLimit:   rateLimit,
				})
			})
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "NQL filter selecting posts")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "field=value to apply (repeatable)")
	cmd.Flags().IntVar(&concurrency, "concurrency", constants.DefaultConcurrencyLimit, "requests in flight")
	cmd.Flags().Float64Var(&rateLimit, "rate", 0, "maximum operations per second (0 for no limit)")

	return cmd
}

func newPostsBulkDeleteCommand() *cobra.Command {
	var (
		filter      string
		force       bool
		concurrency int
		rateLimit   float64
	)

	cmd := &cobra.Command{
		Use:     "bulk-delete [ID...]",
		Short:   "Delete many posts",
		Long:    "Delete every post selected by id or by --filter. With --dry-run the plan is printed and nothing is deleted.",
		Example: `  ghostctl posts bulk-delete --filter "status:draft" --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && filter == "" {
				return ErrBulkNeedsSelector
			}

			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				targets, err := selectPosts(ctx, client, args, filter)
				if err != nil {
					return err
				}

				if !isDryRun() && !force && !confirm(cmd, fmt.Sprintf("Really delete %d posts?", len(targets))) {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Deletion cancelled")

					return nil
				}

				builder := ghost.NewBatchBuilder()
				for _, post := range targets {
					builder.AddDeletePost("", post.ID)
				}

				return runBatch(ctx, cmd, client, batchRun{
					action:      "delete",
					noun:        "posts",
					targets:     postTargets(targets),
					operations:  builder.Build(),
					concurrency: concurrency,
					rateLimit:   rateLimit,
				})
			})
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "NQL filter selecting posts")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "force deletion without confirmation")
	cmd.Flags().IntVar(&concurrency, "concurrency", constants.DefaultConcurrencyLimit, "requests in flight")
	cmd.Flags().Float64Var(&rateLimit, "rate", 0, "maximum operations per second (0 for no limit)")

	return cmd
}

// selectPosts resolves explicit ids, or walks every page matching filter.
func selectPosts(ctx context.Context, client ghost.Client, ids []string, filter string) ([]ghost.Post, error) {
	var posts []ghost.Post

	for _, id := range ids {
		post, err := client.Posts().Get(ctx, id, ghost.NewQueryParams().WithFields("id", "title", "status", "updated_at"))
		if err != nil {
			return nil, fmt.Errorf("failed to get post %s: %w", id, err)
		}

		posts = append(posts, *post)
	}

	if filter == "" {
		return posts, nil
	}

	params := ghost.NewQueryParams().
		WithFilter(filter).
		WithLimit(constants.MaxPageSize).
		WithFields("id", "title", "status", "updated_at")

	matched, err := client.Posts().ListAll(ctx, params).All()
	if err != nil {
		return nil, fmt.Errorf("failed to list posts matching %q: %w", filter, err)
	}

	return append(posts, matched...), nil
}

func bulkUpdateRequest(values map[string]string) (*ghost.PostUpdateRequest, error) {
	request := &ghost.PostUpdateRequest{}

	for field, value := range values {
		switch field {
		case "status":
			request.Status = value
		case "visibility":
			request.Visibility = value
		case "title":
			request.Title = value
		case "featured":
			featured, err := strconv.ParseBool(value)
			if err != nil {
				return nil, fmt.Errorf("invalid featured value %q: %w", value, err)
			}

			request.Featured = &featured
		default:
			return nil, fmt.Errorf("%w: %s", constants.ErrUnsupportedField, field)
		}
	}

	return request, nil
}

// batchTarget is one resource listed by a --dry-run plan.
type batchTarget struct {
	ID    string
	Label string
}

func postTargets(posts []ghost.Post) []batchTarget {
	targets := make([]batchTarget, 0, len(posts))
	for _, post := range posts {
		targets = append(targets, batchTarget{ID: post.ID, Label: post.Title})
	}

	return targets
}

// batchRun is one bulk command invocation.
type batchRun struct {
	action      string
	noun        string
	targets     []batchTarget
	operations  []ghost.BatchOperation
	concurrency int
	rateLimit   float64
}

// runBatch prints the plan on --dry-run, otherwise executes it and reports each failure.
// The executor waits out the rate-limit advice of the client's transport between operations.
func runBatch(ctx context.Context, cmd *cobra.Command, client ghost.Client, run batchRun) error {
	out := cmd.OutOrStdout()

	if isDryRun() {
		_, _ = fmt.Fprintf(out, "Would %s %d %s:\n", run.action, len(run.targets), run.noun)

		for _, target := range run.targets {
			_, _ = fmt.Fprintf(out, "  %s  %s\n", target.ID, target.Label)
		}

		return nil
	}

	executor := ghost.NewBatchExecutor(client, run.concurrency)
	executor.SetRateLimit(run.rateLimit)

	if source, ok := client.(ghost.RateLimitSource); ok {
		executor.SetObserver(source.RateLimiter())
	}

	results, err := executor.Execute(ctx, run.operations)
	summary := ghost.Summarize(results)

	_, _ = fmt.Fprintf(out, "%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)

	for _, failure := range summary.Failures {
		_, _ = fmt.Fprintf(out, "  %s %s: %v\n", failure.Type, failure.ID, failure.Error)
	}

	if err != nil {
		return fmt.Errorf("bulk %s interrupted: %w", run.action, err)
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrBulkFailed, summary.Failed, len(results))
	}

	return nil
}

func renderPost(w io.Writer, post *ghost.Post) error {
	tags := make([]string, 0, len(post.Tags))
	for _, tag := range post.Tags {
		tags = append(tags, tag.Name)
	}

	authors := make([]string, 0, len(post.Authors))
	for _, author := range post.Authors {
		authors = append(authors, author.Name)
	}

	return renderProperties(w, post, [][]string{
		{"ID", post.ID},
		{"Title", post.Title},
		{"Slug", post.Slug},
		{"Status", post.Status},
		{"Visibility", formatOptional(post.Visibility)},
		{"Featured", formatBool(post.Featured)},
		{"Published At", formatTimePtr(post.PublishedAt)},
		{"Created At", formatTime(post.CreatedAt)},
		{"Updated At", formatTime(post.UpdatedAt)},
		{"Tags", formatOptional(strings.Join(tags, ", "))},
		{"Authors", formatOptional(strings.Join(authors, ", "))},
		{"URL", formatOptional(post.URL)},
	})
}

func renderDryRun(w io.Writer, action string, request interface{}) error {
	_, _ = fmt.Fprintf(w, "Would %s with:\n", action)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", defaultJSONIndent)

	err := encoder.Encode(request)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	return nil
}

// decodeFile reads a JSON or YAML request body, chosen by extension.
func decodeFile(path string, target interface{}) error {
	// #nosec G304 -- the path is supplied by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, target)
	default:
		err = json.Unmarshal(data, target)
	}

	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return nil
}

func joinFilter(filters ...string) string {
	parts := make([]string, 0, len(filters))

	for _, filter := range filters {
		if filter != "" {
			parts = append(parts, filter)
		}
	}

	return strings.Join(parts, "+")
}
