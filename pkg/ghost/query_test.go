package ghost_test

import (
	"net/url"
	"testing"

	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
	"github.com/stretchr/testify/assert"
)

//nolint:funlen // Test functions can be longer for detailed testing
func TestQueryParams_ToValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		params   *ghost.QueryParams
		expected url.Values
	}{
		{
			name:     "nil params",
			params:   nil,
			expected: url.Values{},
		},
		{
			name:     "empty params",
			params:   ghost.NewQueryParams(),
			expected: url.Values{},
		},
		{
			name: "with pagination",
			params: &ghost.QueryParams{
				Page:  2,
				Limit: 50,
			},
			expected: url.Values{
				"page":  []string{"2"},
				"limit": []string{"50"},
			},
		},
		{
			name: "limit all wins over limit",
			params: &ghost.QueryParams{
				Limit: 50,
				All:   true,
			},
			expected: url.Values{
				"limit": []string{"all"},
			},
		},
		{
			name: "with filter and order",
			params: &ghost.QueryParams{
				Filter: "status:published+featured:true",
				Order:  "published_at desc",
			},
			expected: url.Values{
				"filter": []string{"status:published+featured:true"},
				"order":  []string{"published_at desc"},
			},
		},
		{
			name: "with lists",
			params: &ghost.QueryParams{
				Include: []string{"tags", "authors"},
				Fields:  []string{"id", "title"},
				Formats: []string{"html", "lexical"},
			},
			expected: url.Values{
				"include": []string{"tags,authors"},
				"fields":  []string{"id,title"},
				"formats": []string{"html,lexical"},
			},
		},
		{
			name: "with extra",
			params: &ghost.QueryParams{
				Extra: map[string]string{"source": "html"},
			},
			expected: url.Values{
				"source": []string{"html"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := tt.params.ToValues()
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestQueryParams_Builders(t *testing.T) {
	t.Parallel()

	t.Run("chaining methods", func(t *testing.T) {
		t.Parallel()

		params := ghost.NewQueryParams().
			WithPage(2).
			WithLimit(15).
			WithOrder("updated_at desc").
			WithFilter("tag:news").
			WithInclude("tags").
			WithInclude("authors").
			WithFields("id", "title").
			WithFormats("html").
			With("source", "html")

		values := params.ToValues()

		assert.Equal(t, "2", values.Get("page"))
		assert.Equal(t, "15", values.Get("limit"))
		assert.Equal(t, "updated_at desc", values.Get("order"))
		assert.Equal(t, "tag:news", values.Get("filter"))
		assert.Equal(t, "tags,authors", values.Get("include"))
		assert.Equal(t, "id,title", values.Get("fields"))
		assert.Equal(t, "html", values.Get("formats"))
		assert.Equal(t, "html", values.Get("source"))
	})

	t.Run("Clone is independent", func(t *testing.T) {
		t.Parallel()

		original := ghost.NewQueryParams().WithInclude("tags").With("a", "1")
		clone := original.Clone().WithInclude("authors").With("b", "2")

		assert.Equal(t, []string{"tags"}, original.Include)
		assert.Equal(t, map[string]string{"a": "1"}, original.Extra)
		assert.Equal(t, []string{"tags", "authors"}, clone.Include)
	})

	t.Run("Clone of nil", func(t *testing.T) {
		t.Parallel()

		var params *ghost.QueryParams

		clone := params.Clone()
		assert.NotNil(t, clone)
		assert.NotNil(t, clone.Extra)
	})
}
