package schema

import (
	// Packages
	types "github.com/mutablelogic/go-agent/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// ToolDefinition represents a provider-agnostic tool definition. The input
// schema is a decoded JSON schema; the vendor methods reshape the
// definition into the payload each provider API expects.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"input_schema,omitempty"`
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// OpenAI reshapes the definition into the OpenAI Responses and Chat
// Completions tool payload
func (t ToolDefinition) OpenAI() map[string]any {
	return map[string]any{
		"type": "function",
		"function": map[string]any{
			"name":        t.Name,
			"description": t.Description,
			"parameters":  t.parameters(),
		},
	}
}

// Anthropic reshapes the definition into the Anthropic Messages API tool
// payload
func (t ToolDefinition) Anthropic() map[string]any {
	return map[string]any{
		"name":         t.Name,
		"description":  t.Description,
		"input_schema": t.parameters(),
	}
}

// Google reshapes the definition into the Gemini function calling payload
func (t ToolDefinition) Google() map[string]any {
	return map[string]any{
		"name":        t.Name,
		"description": t.Description,
		"parameters":  t.parameters(),
	}
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (t ToolDefinition) String() string {
	return types.Stringify(t)
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// parameters normalizes the input schema into an object schema with
// properties and required fields, stripping title annotations which add
// prompt noise without helping the model
func (t ToolDefinition) parameters() map[string]any {
	result := map[string]any{
		"type":       "object",
		"properties": map[string]any{},
		"required":   []any{},
	}
	if t.InputSchema == nil {
		return result
	}

	schema := StripTitles(copyValue(t.InputSchema)).(map[string]any)
	if properties, exists := schema["properties"]; exists {
		result["properties"] = properties
	}
	if required, exists := schema["required"]; exists {
		result["required"] = required
	}
	if defs, exists := schema["$defs"]; exists {
		result["$defs"] = defs
	}
	return result
}

// StripTitles recursively removes "title" fields from a decoded JSON
// schema, in place
func StripTitles(v any) any {
	switch v := v.(type) {
	case map[string]any:
		delete(v, "title")
		for _, value := range v {
			StripTitles(value)
		}
	case []any:
		for _, item := range v {
			StripTitles(item)
		}
	}
	return v
}

// copyValue recursively clones maps and slices, returning scalars unchanged
func copyValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		copied := make(map[string]any, len(v))
		for key, value := range v {
			copied[key] = copyValue(value)
		}
		return copied
	case []any:
		copied := make([]any, len(v))
		for i, value := range v {
			copied[i] = copyValue(value)
		}
		return copied
	}
	return v
}
