package s3_upload

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/toolpipe/internal/ctxlog"
	"github.com/specialistvlad/toolpipe/internal/registry"
	"github.com/specialistvlad/toolpipe/internal/tool"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// ID is the tool id this module registers.
const ID = "s3-upload"

// httpClient is shared across executions to reuse TCP connections.
var httpClient = &http.Client{}

func onRun(ctx context.Context, input map[string]any) (any, error) {
	args := tool.Args(input)

	sourcePath, ok := args.String("sourcePath")
	if !ok || sourcePath == "" {
		return nil, fmt.Errorf("input 'sourcePath' must be a non-empty string")
	}
	uploadURL, ok := args.String("uploadUrl")
	if !ok || uploadURL == "" {
		return nil, fmt.Errorf("input 'uploadUrl' must be a non-empty string")
	}

	logger := ctxlog.FromContext(ctx).With("tool", ID)

	file, err := os.Open(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file '%s': %w", sourcePath, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get file stats for '%s': %w", sourcePath, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, file)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload request: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(sourcePath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = stat.Size()

	logger.Info("Uploading file.", "source", sourcePath, "size", stat.Size(), "contentType", contentType)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upload failed with status: %s", resp.Status)
	}

	logger.Info("Successfully uploaded file.", "status", resp.Status)

	return map[string]any{
		"success": true,
		"status":  resp.Status,
	}, nil
}

// Register registers the tool definition with the registry.
func (m *Module) Register(r *registry.Registry) error {
	return r.Register(&tool.Definition{
		ID:          ID,
		Name:        "S3 Upload",
		Description: "Uploads a local file to a presigned S3 URL.",
		Category:    "storage",
		Inputs: tool.Shape{
			{Key: "sourcePath", Type: cty.String, Required: true, Description: "Path of the local file to upload."},
			{Key: "uploadUrl", Type: cty.String, Required: true, Description: "Presigned PUT URL."},
		},
		Outputs: tool.Shape{
			{Key: "success", Type: cty.Bool},
			{Key: "status", Type: cty.String},
		},
		Run: onRun,
	})
}
