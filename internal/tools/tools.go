// Package tools maps the callable operations exposed to the assistant onto
// the service client.
//
// Each tool has a name, a JSON schema for its arguments, and a handler that
// validates, delegates, and formats. Tools hold no cross-call state.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/amp/internal/services"
	"github.com/desertthunder/amp/internal/shared"
)

// Tool is one callable operation.
type Tool struct {
	Name        string
	Description string
	InputSchema json.RawMessage
	Handler     func(ctx context.Context, args json.RawMessage) (string, error)
}

// Registry holds the fixed tool set in registration order.
type Registry struct {
	order []string
	tools map[string]Tool
}

// NewRegistry builds the registry for the given service with the default
// page size used by listing tools.
func NewRegistry(svc services.Service, pageSize int) *Registry {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	r := &Registry{tools: map[string]Tool{}}
	for _, tool := range buildTools(svc, pageSize) {
		r.register(tool)
	}
	return r
}

func (r *Registry) register(t Tool) {
	if _, exists := r.tools[t.Name]; exists {
		panic(fmt.Sprintf("duplicate tool %s", t.Name))
	}
	r.order = append(r.order, t.Name)
	r.tools[t.Name] = t
}

// List returns all tools in registration order.
func (r *Registry) List() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Get looks up a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Call dispatches to the named tool. Unknown names fail with ErrUnknownTool;
// handler errors pass through untouched so callers can inspect the taxonomy.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) (string, error) {
	tool, ok := r.tools[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", shared.ErrUnknownTool, name)
	}
	return tool.Handler(ctx, args)
}

// decodeArgs parses tool arguments, treating absent arguments as an empty
// object.
func decodeArgs(args json.RawMessage, v any) error {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	return nil
}

// clamp bounds a caller-supplied limit, substituting def when unset.
func clamp(v, def, max int) int {
	if v <= 0 {
		return def
	}
	if v > max {
		return max
	}
	return v
}
