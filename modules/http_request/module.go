package http_request

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"resty.dev/v3"

	"github.com/specialistvlad/toolpipe/internal/ctxlog"
	"github.com/specialistvlad/toolpipe/internal/registry"
	"github.com/specialistvlad/toolpipe/internal/tool"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// ID is the tool id this module registers.
const ID = "http-request"

// client is shared across executions to reuse TCP connections.
var client = resty.New()

func onRun(ctx context.Context, input map[string]any) (any, error) {
	args := tool.Args(input)

	url, ok := args.String("url")
	if !ok || url == "" {
		return nil, fmt.Errorf("input 'url' must be a non-empty string")
	}

	method := http.MethodGet
	if m, ok := args.String("method"); ok && m != "" {
		method = strings.ToUpper(m)
	}

	ctxlog.FromContext(ctx).Info("Making HTTP request.", "method", method, "url", url)

	req := client.R().SetContext(ctx)
	if headers, ok := args.StringMap("headers"); ok {
		req.SetHeaders(headers)
	}
	if body, ok := args.String("body"); ok && body != "" {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, url)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	ctxlog.FromContext(ctx).Info("Received HTTP response.", "status", resp.Status())

	return map[string]any{
		"status": resp.StatusCode(),
		"body":   resp.String(),
	}, nil
}

// Register registers the tool definition with the registry.
func (m *Module) Register(r *registry.Registry) error {
	return r.Register(&tool.Definition{
		ID:          ID,
		Name:        "HTTP Request",
		Description: "Performs an HTTP request and captures the response.",
		Category:    "network",
		Inputs: tool.Shape{
			{Key: "url", Type: cty.String, Required: true, Description: "Request URL."},
			{Key: "method", Type: cty.String, Description: "HTTP method. Defaults to GET."},
			{Key: "body", Type: cty.String, Description: "Request body."},
			{Key: "headers", Type: cty.Map(cty.String), Description: "Additional request headers."},
		},
		Outputs: tool.Shape{
			{Key: "status", Type: cty.Number},
			{Key: "body", Type: cty.String},
		},
		Run: onRun,
	})
}
