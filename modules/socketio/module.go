package socketio

import (
	"context"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/zclconf/go-cty/cty"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/specialistvlad/toolpipe/internal/ctxlog"
	"github.com/specialistvlad/toolpipe/internal/registry"
	"github.com/specialistvlad/toolpipe/internal/tool"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// ID is the tool id this module registers.
const ID = "socket-io"

const defaultTimeout = 5 * time.Second

// opResult passes results through the done channel.
type opResult struct {
	response any
	err      error
}

func onRun(ctx context.Context, input map[string]any) (any, error) {
	args := tool.Args(input)

	rawURL, ok := args.String("url")
	if !ok || rawURL == "" {
		return nil, fmt.Errorf("input 'url' must be a non-empty string")
	}
	event, ok := args.String("event")
	if !ok || event == "" {
		return nil, fmt.Errorf("input 'event' must be a non-empty string")
	}
	responseEvent, _ := args.String("responseEvent")
	data := input["data"]

	logger := ctxlog.FromContext(ctx).With("tool", ID, "url", rawURL, "event", event)
	logger.Debug("Handler started")
	defer logger.Debug("Handler finished")

	timeout := defaultTimeout
	if ms, ok := args.Number("timeoutMs"); ok && ms > 0 {
		timeout = time.Duration(ms) * time.Millisecond
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		opts.SetPath(parsedURL.Path)
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	var isConnected atomic.Bool
	done := make(chan opResult, 1)
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket("/", opts)
	defer func() {
		logger.Debug("Disconnecting socket client")
		io.Disconnect()
	}()

	io.On(types.EventName("connect"), func(...any) {
		isConnected.Store(true)
		logger.Info("Connected, emitting event.", "sid", io.Id())
		io.Emit(event, data)
		if responseEvent == "" {
			done <- opResult{}
		}
	})

	io.On(types.EventName("connect_error"), func(errs ...any) {
		if len(errs) > 0 {
			if err, ok := errs[0].(error); ok {
				done <- opResult{err: err}
				return
			}
		}
		done <- opResult{err: fmt.Errorf("connection failed")}
	})

	if responseEvent != "" {
		io.On(types.EventName(responseEvent), func(data ...any) {
			var response any
			if len(data) > 0 {
				response = data[0]
			}
			done <- opResult{response: response}
		})
	}

	io.Connect()

	select {
	case <-opCtx.Done():
		if isConnected.Load() {
			return nil, fmt.Errorf("timed out after connecting while waiting for event '%s'", responseEvent)
		}
		return nil, fmt.Errorf("timed out while waiting for initial connection")
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		return map[string]any{"response": res.response}, nil
	}
}

// Register registers the tool definition with the registry.
func (m *Module) Register(r *registry.Registry) error {
	return r.Register(&tool.Definition{
		ID:          ID,
		Name:        "Socket.IO Notify",
		Description: "Emits a Socket.IO event and optionally waits for a response event.",
		Category:    "network",
		Inputs: tool.Shape{
			{Key: "url", Type: cty.String, Required: true, Description: "Socket.IO server URL."},
			{Key: "event", Type: cty.String, Required: true, Description: "Event name to emit."},
			{Key: "data", Type: cty.DynamicPseudoType, Description: "Event payload."},
			{Key: "responseEvent", Type: cty.String, Description: "Event to wait for after emitting. Skipped when empty."},
			{Key: "timeoutMs", Type: cty.Number, Description: "How long to wait for the connection and response. Defaults to 5000."},
		},
		Outputs: tool.Shape{
			{Key: "response", Type: cty.DynamicPseudoType},
		},
		Run: onRun,
	})
}
