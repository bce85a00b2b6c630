package tool

import (
	"context"
	"encoding/json"
	"sort"

	// Packages
	otel "go.opentelemetry.io/otel"
	attribute "go.opentelemetry.io/otel/attribute"
	codes "go.opentelemetry.io/otel/codes"
	trace "go.opentelemetry.io/otel/trace"
	errgroup "golang.org/x/sync/errgroup"

	agent "github.com/mutablelogic/go-agent"
	schema "github.com/mutablelogic/go-agent/pkg/schema"
	types "github.com/mutablelogic/go-agent/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

// Tool runs are traced through the global tracer provider, which is a
// no-op unless the embedding application installs one
var tracer = otel.Tracer("github.com/mutablelogic/go-agent/pkg/tool")

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Toolkit is a collection of tools with unique names
type Toolkit struct {
	tools map[string]agent.Tool
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewToolkit creates a new toolkit with the given tools.
// Returns an error if any tool has an invalid or duplicate name.
func NewToolkit(tools ...agent.Tool) (*Toolkit, error) {
	tk := &Toolkit{
		tools: make(map[string]agent.Tool),
	}
	if err := tk.Register(tools...); err != nil {
		return nil, err
	}
	return tk, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Tools returns all tools in the toolkit, sorted by name for stable ordering
func (tk *Toolkit) Tools() []agent.Tool {
	result := make([]agent.Tool, 0, len(tk.tools))
	for _, t := range tk.tools {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name() < result[j].Name() })
	return result
}

// Register adds one or more tools to the toolkit.
// Returns an error if any tool is nil, or has an invalid or duplicate name.
func (tk *Toolkit) Register(tools ...agent.Tool) error {
	for _, t := range tools {
		if t == nil {
			return agent.ErrBadParameter.With("tool cannot be nil")
		}
		name := t.Name()
		if !types.IsIdentifier(name) {
			return agent.ErrBadParameter.Withf("invalid tool name: %q", name)
		}
		if _, exists := tk.tools[name]; exists {
			return agent.ErrConflict.Withf("duplicate tool name: %q", name)
		}
		tk.tools[name] = t
	}
	return nil
}

// Lookup returns a tool by name, or nil if not found
func (tk *Toolkit) Lookup(name string) agent.Tool {
	return tk.tools[name]
}

// Remove deletes a tool by name, returning false if no such tool exists
func (tk *Toolkit) Remove(name string) bool {
	if _, exists := tk.tools[name]; !exists {
		return false
	}
	delete(tk.tools, name)
	return true
}

// Definitions returns provider-agnostic definitions for all tools in the
// toolkit, which can be reshaped into vendor payloads
func (tk *Toolkit) Definitions() ([]schema.ToolDefinition, error) {
	tools := tk.Tools()
	result := make([]schema.ToolDefinition, 0, len(tools))
	for _, t := range tools {
		definition := schema.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
		}
		s, err := t.Schema()
		if err != nil {
			return nil, agent.ErrBadParameter.Withf("schema generation failed for %q: %v", t.Name(), err)
		}
		if s != nil {
			data, err := json.Marshal(s)
			if err != nil {
				return nil, err
			}
			var decoded map[string]any
			if err := json.Unmarshal(data, &decoded); err != nil {
				return nil, err
			}
			definition.InputSchema = decoded
		}
		result = append(result, definition)
	}
	return result, nil
}

// Run executes a tool by name with the given input.
// The input should be json.RawMessage or nil.
// Returns an error if the tool is not found, the input does not match the schema,
// or the tool execution fails.
func (tk *Toolkit) Run(ctx context.Context, name string, input any) (result any, err error) {
	ctx, span := tracer.Start(ctx, "Toolkit.Run",
		trace.WithAttributes(attribute.String("tool", name)),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	// Lookup the tool
	tool := tk.Lookup(name)
	if tool == nil {
		return nil, agent.ErrNotFound.Withf("tool not found: %q", name)
	}

	// Convert input to json.RawMessage
	var rawInput json.RawMessage
	if input != nil {
		switch v := input.(type) {
		case json.RawMessage:
			rawInput = v
		case []byte:
			rawInput = json.RawMessage(v)
		default:
			// If not JSON, marshal it
			data, err := json.Marshal(input)
			if err != nil {
				return nil, agent.ErrBadParameter.Withf("failed to marshal input: %v", err)
			}
			rawInput = json.RawMessage(data)
		}
	}

	// Validate input against schema if provided
	if len(rawInput) > 0 {
		schema, err := tool.Schema()
		if err != nil {
			return nil, agent.ErrBadParameter.Withf("schema generation failed: %v", err)
		}

		if schema != nil {
			// Unmarshal into a map for validation
			var mapInput map[string]any
			if err := json.Unmarshal(rawInput, &mapInput); err != nil {
				return nil, agent.ErrBadParameter.Withf("failed to unmarshal JSON input: %v", err)
			}

			// Validate against schema
			resolved, err := schema.Resolve(nil)
			if err != nil {
				return nil, agent.ErrBadParameter.Withf("schema resolution failed: %v", err)
			}
			if err := resolved.Validate(mapInput); err != nil {
				return nil, agent.ErrBadParameter.Withf("input validation failed: %v", err)
			}
		}
	}

	// Run the tool with raw JSON
	return tool.Run(ctx, rawInput)
}

// RunAll executes the tool calls in parallel, pairing each call with its
// result. A failing tool becomes an error-flagged result rather than
// failing the batch; the returned error is reserved for cancellation.
func (tk *Toolkit) RunAll(ctx context.Context, calls ...schema.ToolCall) ([]schema.ToolResult, error) {
	results := make([]schema.ToolResult, len(calls))

	wg, ctx := errgroup.WithContext(ctx)
	for i, call := range calls {
		wg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			value, err := tk.Run(ctx, call.Name, call.Input)
			if err != nil {
				results[i] = schema.NewToolError(call.ID, call.Name, err)
			} else {
				results[i] = schema.NewToolResult(call.ID, call.Name, value)
			}
			return nil
		})
	}
	if err := wg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (tk *Toolkit) String() string {
	return types.Stringify(tk.Tools())
}
