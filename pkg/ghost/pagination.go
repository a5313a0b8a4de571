package ghost

import (
	"context"
	"errors"
	"iter"
)

// ErrNoMoreItems is returned by Paginator.Next once the collection is exhausted.
var ErrNoMoreItems = errors.New("no more items")

// PageFetcher fetches one page of a collection. Pages are numbered from 1.
type PageFetcher[T any] func(ctx context.Context, page int) (*ListResponse[T], error)

// PageCursor is the traversal state of a Paginator.
type PageCursor struct {
	Page     int  `json:"page"     yaml:"page"`
	Limit    int  `json:"limit"    yaml:"limit"`
	Pages    int  `json:"pages"    yaml:"pages"`
	Total    int  `json:"total"    yaml:"total"`
	Requests int  `json:"requests" yaml:"requests"`
	Fetched  int  `json:"fetched"  yaml:"fetched"`
	Done     bool `json:"done"     yaml:"done"`
}

// Paginator lazily walks a collection one page per request, following meta.pagination.next.
// A Paginator is single-pass and not safe for concurrent use; list methods return a fresh one per call.
type Paginator[T any] struct {
	ctx     context.Context //nolint:containedctx // iteration is bound to the caller's context
	fetch   PageFetcher[T]
	cursor  PageCursor
	next    int
	started bool

	buffer []T
	index  int
	err    error
}

// NewPaginator creates a paginator starting at page 1.
func NewPaginator[T any](ctx context.Context, fetch PageFetcher[T]) *Paginator[T] {
	return &Paginator[T]{
		ctx:   ctx,
		fetch: fetch,
		next:  1,
	}
}

// Cursor returns the current traversal state.
func (p *Paginator[T]) Cursor() PageCursor {
	return p.cursor
}

// Pages yields one batch per fetched page, in server order.
// Stopping the range loop stops fetching.
func (p *Paginator[T]) Pages() iter.Seq2[[]T, error] {
	return func(yield func([]T, error) bool) {
		if p.started {
			yield(nil, ErrPaginatorConsumed)

			return
		}

		for !p.cursor.Done {
			items, err := p.fetchNext()
			if err != nil {
				yield(nil, err)

				return
			}

			if !yield(items, nil) {
				return
			}
		}
	}
}

// Items yields the flattened items of every page, in server order.
func (p *Paginator[T]) Items() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for items, err := range p.Pages() {
			if err != nil {
				var zero T

				yield(zero, err)

				return
			}

			for _, item := range items {
				if !yield(item, nil) {
					return
				}
			}
		}
	}
}

// All collects every remaining item. On failure the items gathered so far are returned with the error.
func (p *Paginator[T]) All() ([]T, error) {
	var all []T

	for item, err := range p.Items() {
		if err != nil {
			return all, err
		}

		all = append(all, item)
	}

	return all, nil
}

// ForEach calls fn for each item until fn returns an error or the collection ends.
func (p *Paginator[T]) ForEach(fn func(T) error) error {
	for item, err := range p.Items() {
		if err != nil {
			return err
		}

		err = fn(item)
		if err != nil {
			return err
		}
	}

	return nil
}

// HasNext reports whether Next has an item or an error to return. It fetches at most one page per
// exhausted buffer.
func (p *Paginator[T]) HasNext() bool {
	for p.err == nil && p.index >= len(p.buffer) && !p.cursor.Done {
		items, err := p.fetchNext()
		if err != nil {
			p.err = err

			break
		}

		p.buffer, p.index = items, 0
	}

	return p.err != nil || p.index < len(p.buffer)
}

// Next returns the next item, the fetch error that ended the traversal, or ErrNoMoreItems.
func (p *Paginator[T]) Next() (T, error) {
	var zero T

	if !p.HasNext() {
		return zero, ErrNoMoreItems
	}

	if p.err != nil {
		err := p.err
		p.err = nil

		return zero, err
	}

	item := p.buffer[p.index]
	p.index++

	return item, nil
}

func (p *Paginator[T]) fetchNext() ([]T, error) {
	p.started = true
	page := p.next

	err := p.ctx.Err()
	if err != nil {
		p.cursor.Done = true

		return nil, &PaginationError{Page: page, Err: err}
	}

	list, err := p.fetch(p.ctx, page)
	p.cursor.Requests++

	if err != nil {
		p.cursor.Done = true

		return nil, &PaginationError{Page: page, Err: err}
	}

	if list == nil {
		p.cursor.Done = true

		return nil, nil
	}

	meta := list.Meta.Pagination
	p.cursor.Page = page
	p.cursor.Limit = int(meta.Limit)
	p.cursor.Pages = meta.Pages
	p.cursor.Total = meta.Total
	p.cursor.Fetched += len(list.Items)

	if meta.Next != nil && *meta.Next > page {
		p.next = *meta.Next
	} else {
		p.cursor.Done = true
	}

	return list.Items, nil
}
