package llm

import (
	"encoding/json"

	// Packages
	agent "github.com/mutablelogic/go-agent"
	prompt "github.com/mutablelogic/go-agent/pkg/prompt"
	schema "github.com/mutablelogic/go-agent/pkg/schema"
	session "github.com/mutablelogic/go-agent/pkg/session"
	tool "github.com/mutablelogic/go-agent/pkg/tool"
	types "github.com/mutablelogic/go-agent/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Context bundles everything a completion request needs: the system
// prompt, the working conversation, the available tools and the sampling
// configuration. The raw session keeps a snapshot of the messages the
// context was constructed with, so the working session can be reset.
type Context struct {
	prompt  *prompt.SystemPrompt
	session *session.Session
	raw     *session.Session
	toolkit *tool.Toolkit
	config  *Config
}

// A generic option type, which can set options on a context
type Opt func(*Context) error

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewContext creates a context from system prompt content, which may be a
// plain string, a structured description or an existing system prompt.
func NewContext(content any, opts ...Opt) (*Context, error) {
	ctx := new(Context)
	if systemPrompt, ok := content.(*prompt.SystemPrompt); ok {
		if systemPrompt == nil {
			return nil, agent.ErrBadParameter.With("system prompt cannot be nil")
		}
		ctx.prompt = systemPrompt
	} else if systemPrompt, err := prompt.New(content); err != nil {
		return nil, err
	} else {
		ctx.prompt = systemPrompt
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(ctx); err != nil {
			return nil, err
		}
	}

	// Defaults
	if ctx.session == nil {
		ctx.session = session.NewSession()
	}
	if ctx.toolkit == nil {
		toolkit, err := tool.NewToolkit()
		if err != nil {
			return nil, err
		}
		ctx.toolkit = toolkit
	}
	if ctx.config == nil {
		ctx.config = new(Config)
	}

	// Snapshot the initial messages
	ctx.raw = ctx.session.Copy()

	return ctx, nil
}

///////////////////////////////////////////////////////////////////////////////
// OPTIONS

// WithMessages seeds the working session with initial messages
func WithMessages(messages ...*schema.Message) Opt {
	return func(ctx *Context) error {
		ctx.session = session.NewSession(messages...)
		return nil
	}
}

// WithSession sets the working session
func WithSession(s *session.Session) Opt {
	return func(ctx *Context) error {
		if s == nil {
			return agent.ErrBadParameter.With("session cannot be nil")
		}
		ctx.session = s
		return nil
	}
}

// WithToolkit sets the toolkit available to the model
func WithToolkit(toolkit *tool.Toolkit) Opt {
	return func(ctx *Context) error {
		if toolkit == nil {
			return agent.ErrBadParameter.With("toolkit cannot be nil")
		}
		ctx.toolkit = toolkit
		return nil
	}
}

// WithTools registers tools into a new toolkit
func WithTools(tools ...agent.Tool) Opt {
	return func(ctx *Context) error {
		toolkit, err := tool.NewToolkit(tools...)
		if err != nil {
			return err
		}
		ctx.toolkit = toolkit
		return nil
	}
}

// WithConfig sets the sampling configuration
func WithConfig(config *Config) Opt {
	return func(ctx *Context) error {
		if config == nil {
			return agent.ErrBadParameter.With("config cannot be nil")
		}
		if err := config.Validate(); err != nil {
			return err
		}
		ctx.config = config
		return nil
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Prompt returns the system prompt
func (ctx *Context) Prompt() *prompt.SystemPrompt {
	return ctx.prompt
}

// Session returns the working session
func (ctx *Context) Session() *session.Session {
	return ctx.session
}

// Toolkit returns the toolkit
func (ctx *Context) Toolkit() *tool.Toolkit {
	return ctx.toolkit
}

// Config returns the sampling configuration
func (ctx *Context) Config() *Config {
	return ctx.config
}

// Reset discards the working session and restores the messages the
// context was constructed with
func (ctx *Context) Reset() {
	ctx.session = ctx.raw.Copy()
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (ctx *Context) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Prompt   *prompt.SystemPrompt `json:"prompt"`
		Messages []*schema.Message    `json:"messages"`
		Tools    []agent.Tool         `json:"tools,omitempty"`
		Config   *Config              `json:"config,omitempty"`
	}{
		Prompt:   ctx.prompt,
		Messages: ctx.session.Messages(),
		Tools:    ctx.toolkit.Tools(),
		Config:   ctx.config,
	})
}

func (ctx *Context) String() string {
	return types.Stringify(ctx)
}
