package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	// Packages
	uuid "github.com/google/uuid"

	agent "github.com/mutablelogic/go-agent"
	types "github.com/mutablelogic/go-agent/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Message represents a message in a conversation with an LLM. It uses a
// universal content block representation that can be reshaped into any
// provider's format.
type Message struct {
	ID      string         `json:"id,omitempty"`   // Unique message identifier
	Role    string         `json:"role"`           // "user", "assistant", "tool_result"
	Content []ContentBlock `json:"content"`        // Array of content blocks
	Meta    map[string]any `json:"meta,omitempty"` // Provider-specific metadata
}

// ContentBlock represents a single piece of content within a message.
// Exactly one of the fields should be non-nil.
type ContentBlock struct {
	Text       *string     `json:"text,omitempty"`        // Text content
	Reasoning  *string     `json:"reasoning,omitempty"`   // Model reasoning content
	Refusal    *string     `json:"refusal,omitempty"`     // Model refusal message
	Attachment *Attachment `json:"attachment,omitempty"`  // Image or document media
	ToolCall   *ToolCall   `json:"tool_call,omitempty"`   // Tool invocation (assistant -> user)
	ToolResult *ToolResult `json:"tool_result,omitempty"` // Tool response (user -> assistant)
}

// Attachment represents binary or URI-referenced media. At least one of
// Data, URL or FileURL must be set, and a MIME type is required alongside
// raw data.
type Attachment struct {
	Type    string `json:"type,omitempty"`     // MIME type: "image/png", "application/pdf", etc.
	Data    []byte `json:"data,omitempty"`     // Raw binary data (base64 on the wire)
	URL     string `json:"url,omitempty"`      // Network URL reference
	FileURL string `json:"file_url,omitempty"` // Cloud file reference
	Detail  string `json:"detail,omitempty"`   // Rendering detail: "auto", "low", "high"
}

// ToolCall represents a tool invocation requested by the model
type ToolCall struct {
	ID    string          `json:"id,omitempty"`    // Call identifier, generated when absent
	Name  string          `json:"name"`            // Tool function name
	Input json.RawMessage `json:"input,omitempty"` // JSON-encoded arguments
}

// ToolResult represents the result of running a tool
type ToolResult struct {
	ID      string          `json:"id,omitempty"`      // Matches the ToolCall ID
	Name    string          `json:"name,omitempty"`    // Tool function name
	Content json.RawMessage `json:"content,omitempty"` // JSON-encoded result
	IsError bool            `json:"is_error,omitempty"`
}

////////////////////////////////////////////////////////////////////////////////
// CONSTANTS

// Message role constants
const (
	RoleUser       = "user"
	RoleAssistant  = "assistant"
	RoleSystem     = "system"
	RoleToolResult = "tool_result"
)

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewID returns a unique identifier with the given prefix, for example
// NewID("call") returns "call_<hex>"
func NewID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
}

// NewUserMessage creates a user message with text content and optional
// attachments. Each attachment is validated.
func NewUserMessage(text string, attachments ...Attachment) (*Message, error) {
	blocks := []ContentBlock{
		{Text: types.Ptr(text)},
	}
	for _, attachment := range attachments {
		if err := attachment.Validate(); err != nil {
			return nil, err
		}
		blocks = append(blocks, ContentBlock{Attachment: types.Ptr(attachment)})
	}
	return types.Ptr(Message{
		ID:      NewID("msg"),
		Role:    RoleUser,
		Content: blocks,
	}), nil
}

// NewAssistantMessage creates an assistant message from content blocks.
// At least one block is required, so that an empty message can never be
// appended to a conversation.
func NewAssistantMessage(blocks ...ContentBlock) (*Message, error) {
	if len(blocks) == 0 {
		return nil, agent.ErrBadParameter.With("assistant message requires reasoning, content, tool calls or a refusal")
	}
	// Tool calls without an identifier get one generated
	for i, block := range blocks {
		if block.ToolCall != nil && block.ToolCall.ID == "" {
			call := *block.ToolCall
			call.ID = NewID("call")
			blocks[i].ToolCall = &call
		}
	}
	return types.Ptr(Message{
		ID:      NewID("msg"),
		Role:    RoleAssistant,
		Content: blocks,
	}), nil
}

// NewToolResultMessage creates a tool result message for a successful call
func NewToolResultMessage(id, name string, v any) *Message {
	return types.Ptr(Message{
		ID:      NewID("msg"),
		Role:    RoleToolResult,
		Content: []ContentBlock{{ToolResult: types.Ptr(NewToolResult(id, name, v))}},
	})
}

// NewToolErrorMessage creates a tool result message for a failed call
func NewToolErrorMessage(id, name string, err error) *Message {
	return types.Ptr(Message{
		ID:      NewID("msg"),
		Role:    RoleToolResult,
		Content: []ContentBlock{{ToolResult: types.Ptr(NewToolError(id, name, err))}},
	})
}

// NewToolResult creates a successful tool result
func NewToolResult(id, name string, v any) ToolResult {
	data, err := json.Marshal(v)
	if err != nil {
		return NewToolError(id, name, err)
	}
	return ToolResult{
		ID:      id,
		Name:    name,
		Content: json.RawMessage(data),
	}
}

// NewToolError creates an error tool result
func NewToolError(id, name string, err error) ToolResult {
	return ToolResult{
		ID:      id,
		Name:    name,
		Content: json.RawMessage(fmt.Sprintf("%q", err.Error())),
		IsError: true,
	}
}

////////////////////////////////////////////////////////////////////////////////
// BLOCK HELPERS

// TextBlock returns a content block holding text
func TextBlock(text string) ContentBlock {
	return ContentBlock{Text: types.Ptr(text)}
}

// ReasoningBlock returns a content block holding model reasoning
func ReasoningBlock(text string) ContentBlock {
	return ContentBlock{Reasoning: types.Ptr(text)}
}

// RefusalBlock returns a content block holding a model refusal
func RefusalBlock(text string) ContentBlock {
	return ContentBlock{Refusal: types.Ptr(text)}
}

// ToolCallBlock returns a content block holding a tool invocation
func ToolCallBlock(call ToolCall) ContentBlock {
	return ContentBlock{ToolCall: types.Ptr(call)}
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Validate checks that the attachment has at least one data source, and a
// MIME type when raw data is present
func (a Attachment) Validate() error {
	if len(a.Data) == 0 && a.URL == "" && a.FileURL == "" {
		return agent.ErrBadParameter.With("attachment requires data, a URL or a file URL")
	}
	if len(a.Data) > 0 && a.Type == "" {
		return agent.ErrBadParameter.With("attachment with raw data requires a MIME type")
	}
	switch a.Detail {
	case "", "auto", "low", "high":
		return nil
	}
	return agent.ErrBadParameter.Withf("invalid attachment detail %q", a.Detail)
}

// Text returns the concatenated text content from all text blocks in the message
func (m Message) Text() string {
	var result []string
	for _, block := range m.Content {
		if block.Text != nil {
			result = append(result, *block.Text)
		}
	}
	return strings.Join(result, "\n")
}

// ToolCalls returns all tool call blocks in the message
func (m Message) ToolCalls() []ToolCall {
	var result []ToolCall
	for _, block := range m.Content {
		if block.ToolCall != nil {
			result = append(result, *block.ToolCall)
		}
	}
	return result
}

// Copy returns a deep copy of the message
func (m *Message) Copy() *Message {
	copied := *m
	copied.Content = make([]ContentBlock, len(m.Content))
	for i, block := range m.Content {
		copied.Content[i] = block.copy()
	}
	if m.Meta != nil {
		copied.Meta = make(map[string]any, len(m.Meta))
		for key, value := range m.Meta {
			copied.Meta[key] = value
		}
	}
	return &copied
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (m Message) String() string {
	return types.Stringify(m)
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (b ContentBlock) copy() ContentBlock {
	copied := ContentBlock{}
	if b.Text != nil {
		copied.Text = types.Ptr(*b.Text)
	}
	if b.Reasoning != nil {
		copied.Reasoning = types.Ptr(*b.Reasoning)
	}
	if b.Refusal != nil {
		copied.Refusal = types.Ptr(*b.Refusal)
	}
	if b.Attachment != nil {
		attachment := *b.Attachment
		attachment.Data = append([]byte(nil), b.Attachment.Data...)
		copied.Attachment = &attachment
	}
	if b.ToolCall != nil {
		call := *b.ToolCall
		call.Input = append(json.RawMessage(nil), b.ToolCall.Input...)
		copied.ToolCall = &call
	}
	if b.ToolResult != nil {
		result := *b.ToolResult
		result.Content = append(json.RawMessage(nil), b.ToolResult.Content...)
		copied.ToolResult = &result
	}
	return copied
}
