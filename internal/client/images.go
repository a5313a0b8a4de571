package client

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/fivetwenty-io/ghostctl/internal/constants"
	ghosthttp "github.com/fivetwenty-io/ghostctl/internal/http"
	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
)

// ImagesClient implements ghost.ImagesClient.
type ImagesClient struct {
	httpClient *ghosthttp.Client
}

// NewImagesClient creates a new images client.
func NewImagesClient(httpClient *ghosthttp.Client) *ImagesClient {
	return &ImagesClient{
		httpClient: httpClient,
	}
}

// Upload implements ghost.ImagesClient.Upload.
func (c *ImagesClient) Upload(ctx context.Context, request *ghost.ImageUploadRequest, content io.Reader) (*ghost.Image, error) {
	if request == nil || content == nil {
		return nil, ghost.NewValidationError("file", "is required")
	}

	err := ghost.Validate(request)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{}
	if request.Purpose != "" {
		fields["purpose"] = request.Purpose
	}

	if request.Ref != "" {
		fields["ref"] = request.Ref
	}

	resp, err := upload(ctx, c.httpClient, "/images/upload/", request.FileName, content, fields)
	if err != nil {
		return nil, fmt.Errorf("uploading image: %w", err)
	}

	image, err := ghost.DecodeOne[ghost.Image](resp.Body, ghost.ResourceImages)
	if err != nil {
		return nil, fmt.Errorf("parsing image response: %w", err)
	}

	return image, nil
}

// upload posts a single file as multipart/form-data under the field "file".
func upload(ctx context.Context, httpClient *ghosthttp.Client, path, fileName string, content io.Reader, fields map[string]string) (*ghosthttp.Response, error) {
	body, contentType, err := ghosthttp.BuildMultipart(ghosthttp.MultipartFile{
		FieldName: "file",
		FileName:  fileName,
		Content:   content,
	}, fields)
	if err != nil {
		return nil, err
	}

	return httpClient.Do(ctx, &ghosthttp.Request{
		Method:      http.MethodPost,
		Path:        path,
		RawBody:     body,
		ContentType: contentType,
		Timeout:     constants.UploadHTTPTimeout,
	})
}
