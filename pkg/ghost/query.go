package ghost

import (
	"maps"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// QueryParams represents the query parameters accepted by admin collection and read endpoints.
type QueryParams struct {
	Page    int
	Limit   int
	All     bool
	Filter  string
	Include []string
	Fields  []string
	Formats []string
	Order   string
	Extra   map[string]string
}

// NewQueryParams creates a new QueryParams instance.
func NewQueryParams() *QueryParams {
	return &QueryParams{
		Extra: make(map[string]string),
	}
}

// WithPage sets the page number.
func (q *QueryParams) WithPage(page int) *QueryParams {
	q.Page = page

	return q
}

// WithLimit sets the page size.
func (q *QueryParams) WithLimit(limit int) *QueryParams {
	q.Limit = limit

	return q
}

// WithAll requests limit=all.
func (q *QueryParams) WithAll() *QueryParams {
	q.All = true

	return q
}

// WithFilter sets an NQL filter expression such as "status:published+featured:true".
func (q *QueryParams) WithFilter(filter string) *QueryParams {
	q.Filter = filter

	return q
}

// WithInclude adds related resources to include.
func (q *QueryParams) WithInclude(include ...string) *QueryParams {
	q.Include = append(q.Include, include...)

	return q
}

// WithFields restricts the returned fields.
func (q *QueryParams) WithFields(fields ...string) *QueryParams {
	q.Fields = append(q.Fields, fields...)

	return q
}

// WithFormats selects content formats such as html or lexical.
func (q *QueryParams) WithFormats(formats ...string) *QueryParams {
	q.Formats = append(q.Formats, formats...)

	return q
}

// WithOrder sets the ordering, e.g. "published_at desc".
func (q *QueryParams) WithOrder(order string) *QueryParams {
	q.Order = order

	return q
}

// With sets an arbitrary query parameter.
func (q *QueryParams) With(key, value string) *QueryParams {
	if q.Extra == nil {
		q.Extra = make(map[string]string)
	}

	q.Extra[key] = value

	return q
}

// Clone returns a deep copy, or an empty QueryParams for nil.
func (q *QueryParams) Clone() *QueryParams {
	if q == nil {
		return NewQueryParams()
	}

	clone := *q
	clone.Include = slices.Clone(q.Include)
	clone.Fields = slices.Clone(q.Fields)
	clone.Formats = slices.Clone(q.Formats)
	clone.Extra = maps.Clone(q.Extra)

	if clone.Extra == nil {
		clone.Extra = make(map[string]string)
	}

	return &clone
}

// ToValues converts QueryParams to url.Values.
func (q *QueryParams) ToValues() url.Values {
	values := url.Values{}

	if q == nil {
		return values
	}

	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}

	switch {
	case q.All:
		values.Set("limit", "all")
	case q.Limit > 0:
		values.Set("limit", strconv.Itoa(q.Limit))
	}

	if q.Filter != "" {
		values.Set("filter", q.Filter)
	}

	if len(q.Include) > 0 {
		values.Set("include", strings.Join(q.Include, ","))
	}

	if len(q.Fields) > 0 {
		values.Set("fields", strings.Join(q.Fields, ","))
	}

	if len(q.Formats) > 0 {
		values.Set("formats", strings.Join(q.Formats, ","))
	}

	if q.Order != "" {
		values.Set("order", q.Order)
	}

	for key, value := range q.Extra {
		values.Set(key, value)
	}

	return values
}
