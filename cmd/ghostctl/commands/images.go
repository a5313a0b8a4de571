package commands

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	ghosthttp "github.com/fivetwenty-io/ghostctl/internal/http"
	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
)

// NewImagesCommand creates the images command group.
func NewImagesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "images",
		Aliases: []string{"image"},
		Short:   "Upload images",
	}

	cmd.AddCommand(newImagesUploadCommand())

	return cmd
}

func newImagesUploadCommand() *cobra.Command {
	var purpose, ref string

	cmd := &cobra.Command{
		Use:     "upload FILE",
		Short:   "Upload an image",
		Long:    "Upload an image and print the URL it is served from.",
		Example: `  ghostctl images upload ./cover.jpg --ref cover`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read image: %w", err)
			}

			request := &ghost.ImageUploadRequest{
				FileName: filepath.Base(args[0]),
				Purpose:  purpose,
				Ref:      ref,
			}

			if isDryRun() {
				return renderProperties(cmd.OutOrStdout(), request, [][]string{
					{"File", request.FileName},
					{"Size", strconv.Itoa(len(content))},
					{"Content Type", ghosthttp.DetectContentType(request.FileName, content)},
					{"Purpose", formatOptional(purpose)},
				})
			}

			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				image, err := client.Images().Upload(ctx, request, bytes.NewReader(content))
				if err != nil {
					return fmt.Errorf("failed to upload image: %w", err)
				}

				return renderProperties(cmd.OutOrStdout(), image, [][]string{
					{"URL", image.URL},
					{"Ref", formatOptional(image.Ref)},
				})
			})
		},
	}

	cmd.Flags().StringVar(&purpose, "purpose", "", "image, profile_image or icon")
	cmd.Flags().StringVar(&ref, "ref", "", "reference returned with the upload")

	return cmd
}
