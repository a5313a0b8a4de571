package ghost_test

import (
	"errors"
	"testing"
	"time"

	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:funlen // Test functions can be longer for detailed testing
func TestValidate(t *testing.T) {
	t.Parallel()

	publishAt := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		request  interface{}
		property string
	}{
		{
			name:    "valid post",
			request: &ghost.PostCreateRequest{Title: "Hello"},
		},
		{
			name:     "post without title",
			request:  &ghost.PostCreateRequest{},
			property: "title",
		},
		{
			name: "post with unknown status",
			request: &ghost.PostCreateRequest{
				Title:      "Hello",
				PostFields: ghost.PostFields{Status: "archived"},
			},
			property: "status",
		},
		{
			name: "scheduled post without publish time",
			request: &ghost.PostCreateRequest{
				Title:      "Hello",
				PostFields: ghost.PostFields{Status: ghost.StatusScheduled},
			},
			property: "published_at",
		},
		{
			name: "scheduled post with publish time",
			request: &ghost.PostCreateRequest{
				Title:      "Hello",
				PostFields: ghost.PostFields{Status: ghost.StatusScheduled, PublishedAt: &publishAt},
			},
		},
		{
			name:     "member with invalid email",
			request:  &ghost.MemberCreateRequest{Email: "not-an-email"},
			property: "email",
		},
		{
			name:    "member with email",
			request: &ghost.MemberCreateRequest{Email: "reader@example.com"},
		},
		{
			name: "tag with invalid accent color",
			request: &ghost.TagCreateRequest{
				Name:      "News",
				TagFields: ghost.TagFields{AccentColor: "blue"},
			},
			property: "accent_color",
		},
		{
			name:     "webhook over plain http",
			request:  &ghost.WebhookCreateRequest{Event: "post.published", TargetURL: "http://hooks.example.com"},
			property: "target_url",
		},
		{
			name: "offer without tier",
			request: &ghost.OfferCreateRequest{
				Name: "Spring", Code: "spring", Type: "percent", Cadence: "month", Amount: 10, Duration: "once",
			},
			property: "id",
		},
		{
			name: "tier with negative price",
			request: &ghost.TierCreateRequest{
				Name:       "Gold",
				TierFields: ghost.TierFields{MonthlyPrice: ptr(int64(-1))},
			},
			property: "monthly_price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ghost.Validate(tt.request)
			if tt.property == "" {
				require.NoError(t, err)

				return
			}

			var validationErr *ghost.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.property, validationErr.Property)
			assert.Zero(t, validationErr.StatusCode)
			assert.NotEmpty(t, validationErr.Message)
		})
	}
}

func TestRequireUpdatedAt(t *testing.T) {
	t.Parallel()

	err := ghost.RequireUpdatedAt(time.Time{})

	var validationErr *ghost.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "updated_at", validationErr.Property)
	assert.Contains(t, err.Error(), "updated_at")

	require.NoError(t, ghost.RequireUpdatedAt(time.Now()))
}

func TestRequireID(t *testing.T) {
	t.Parallel()

	require.Error(t, ghost.RequireID(" "))
	require.NoError(t, ghost.RequireID("5f1c"))
}

func ptr[T any](value T) *T {
	return &value
}
