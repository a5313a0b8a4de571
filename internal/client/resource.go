package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fivetwenty-io/ghostctl/internal/constants"
	ghosthttp "github.com/fivetwenty-io/ghostctl/internal/http"
	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
)

// resource provides the uniform CRUD calls shared by every admin collection.
// The collection name doubles as the envelope key and the path segment.
type resource[T any] struct {
	httpClient *ghosthttp.Client
	name       string
	noun       string
}

func newResource[T any](httpClient *ghosthttp.Client, name, noun string) resource[T] {
	return resource[T]{
		httpClient: httpClient,
		name:       name,
		noun:       noun,
	}
}

func (r resource[T]) collectionPath() string {
	return "/" + r.name + "/"
}

func (r resource[T]) itemPath(id string) string {
	return "/" + r.name + "/" + url.PathEscape(id) + "/"
}

func (r resource[T]) slugPath(slug string) string {
	return "/" + r.name + "/slug/" + url.PathEscape(slug) + "/"
}

func (r resource[T]) list(ctx context.Context, params *ghost.QueryParams) (*ghost.ListResponse[T], error) {
	resp, err := r.httpClient.Get(ctx, r.collectionPath(), params.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", r.name, err)
	}

	list, err := ghost.DecodeList[T](resp.Body, r.name)
	if err != nil {
		return nil, fmt.Errorf("parsing %s list response: %w", r.name, err)
	}

	return list, nil
}

// listAll walks every page lazily. Without an explicit limit the default page size is used.
func (r resource[T]) listAll(ctx context.Context, params *ghost.QueryParams) *ghost.Paginator[T] {
	base := params.Clone()
	base.Page = 0

	if base.Limit <= 0 && !base.All {
		base.Limit = constants.DefaultPageSize
	}

	return ghost.NewPaginator(ctx, func(ctx context.Context, page int) (*ghost.ListResponse[T], error) {
		return r.list(ctx, base.Clone().WithPage(page))
	})
}

func (r resource[T]) get(ctx context.Context, id string, params *ghost.QueryParams) (*T, error) {
	err := ghost.RequireID(id)
	if err != nil {
		return nil, err
	}

	return r.read(ctx, r.itemPath(id), params)
}

func (r resource[T]) getBySlug(ctx context.Context, slug string, params *ghost.QueryParams) (*T, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, ghost.NewValidationError("slug", "is required")
	}

	return r.read(ctx, r.slugPath(slug), params)
}

func (r resource[T]) read(ctx context.Context, path string, params *ghost.QueryParams) (*T, error) {
	resp, err := r.httpClient.Get(ctx, path, params.ToValues())
	if err != nil {
		return nil, fmt.Errorf("getting %s: %w", r.noun, err)
	}

	item, err := ghost.DecodeOne[T](resp.Body, r.name)
	if err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", r.noun, err)
	}

	return item, nil
}

func (r resource[T]) create(ctx context.Context, request interface{}, query url.Values) (*T, error) {
	err := ghost.Validate(request)
	if err != nil {
		return nil, err
	}

	return r.write(ctx, http.MethodPost, r.collectionPath(), request, query, "creating")
}

// update requires the caller's copy of updated_at; the server rejects stale writes.
func (r resource[T]) update(ctx context.Context, id string, request interface{}, updatedAt time.Time, query url.Values) (*T, error) {
	err := ghost.RequireID(id)
	if err != nil {
		return nil, err
	}

	err = ghost.RequireUpdatedAt(updatedAt)
	if err != nil {
		return nil, err
	}

	err = ghost.Validate(request)
	if err != nil {
		return nil, err
	}

	return r.write(ctx, http.MethodPut, r.itemPath(id), request, query, "updating")
}

func (r resource[T]) write(ctx context.Context, method, path string, request interface{}, query url.Values, verb string) (*T, error) {
	resp, err := r.httpClient.Do(ctx, &ghosthttp.Request{
		Method: method,
		Path:   path,
		Query:  query,
		Body:   ghost.EncodeOne(r.name, request),
	})
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", verb, r.noun, err)
	}

	item, err := ghost.DecodeOne[T](resp.Body, r.name)
	if err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", r.noun, err)
	}

	return item, nil
}

func (r resource[T]) delete(ctx context.Context, id string) error {
	err := ghost.RequireID(id)
	if err != nil {
		return err
	}

	_, err = r.httpClient.Delete(ctx, r.itemPath(id))
	if err != nil {
		return fmt.Errorf("deleting %s: %w", r.noun, err)
	}

	return nil
}

func writeQuery(opts *ghost.WriteOptions) url.Values {
	if opts == nil || opts.Source == "" {
		return nil
	}

	return url.Values{"source": {opts.Source}}
}
