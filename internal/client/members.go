package client

import (
	"context"

	ghosthttp "github.com/fivetwenty-io/ghostctl/internal/http"
	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
)

// MembersClient implements ghost.MembersClient.
type MembersClient struct {
	resource[ghost.Member]
}

// NewMembersClient creates a new members client.
func NewMembersClient(httpClient *ghosthttp.Client) *MembersClient {
	return &MembersClient{resource: newResource[ghost.Member](httpClient, ghost.ResourceMembers, "member")}
}

// List implements ghost.MembersClient.List.
func (c *MembersClient) List(ctx context.Context, params *ghost.QueryParams) (*ghost.ListResponse[ghost.Member], error) {
	return c.list(ctx, params)
}

// ListAll implements ghost.MembersClient.ListAll.
func (c *MembersClient) ListAll(ctx context.Context, params *ghost.QueryParams) *ghost.Paginator[ghost.Member] {
	return c.listAll(ctx, params)
}

// Get implements ghost.MembersClient.Get.
func (c *MembersClient) Get(ctx context.Context, id string, params *ghost.QueryParams) (*ghost.Member, error) {
	return c.get(ctx, id, params)
}

// Create implements ghost.MembersClient.Create.
func (c *MembersClient) Create(ctx context.Context, request *ghost.MemberCreateRequest) (*ghost.Member, error) {
	return c.create(ctx, request, nil)
}

// Update implements ghost.MembersClient.Update.
func (c *MembersClient) Update(ctx context.Context, id string, request *ghost.MemberUpdateRequest) (*ghost.Member, error) {
	if request == nil {
		return nil, ghost.NewValidationError("", "update request is required")
	}

	return c.update(ctx, id, request, request.UpdatedAt, nil)
}

// Delete implements ghost.MembersClient.Delete.
func (c *MembersClient) Delete(ctx context.Context, id string) error {
	return c.delete(ctx, id)
}
