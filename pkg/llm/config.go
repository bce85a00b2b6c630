package llm

import (
	// Packages
	agent "github.com/mutablelogic/go-agent"
	types "github.com/mutablelogic/go-agent/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Config holds the sampling and routing parameters for completion
// requests. Zero-value fields fall back to provider defaults.
type Config struct {
	Model             string   `json:"model,omitempty" yaml:"model,omitempty"`
	APIKey            string   `json:"-" yaml:"api_key,omitempty"`
	BaseURL           string   `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Temperature       *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	TopP              *float64 `json:"top_p,omitempty" yaml:"top_p,omitempty"`
	MaxTokens         *uint64  `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
	FrequencyPenalty  *float64 `json:"frequency_penalty,omitempty" yaml:"frequency_penalty,omitempty"`
	PresencePenalty   *float64 `json:"presence_penalty,omitempty" yaml:"presence_penalty,omitempty"`
	StopSequences     []string `json:"stop_sequences,omitempty" yaml:"stop_sequences,omitempty"`
	ToolChoice        string   `json:"tool_choice,omitempty" yaml:"tool_choice,omitempty"`
	ParallelToolCalls *bool    `json:"parallel_tool_calls,omitempty" yaml:"parallel_tool_calls,omitempty"`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	DefaultTemperature = 0.7
	DefaultTopP        = 0.9
	DefaultMaxTokens   = 1024
	DefaultToolChoice  = "auto"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewConfig returns a configuration for the given model, populated with
// default sampling parameters
func NewConfig(model string) *Config {
	return &Config{
		Model:             model,
		Temperature:       types.Ptr(DefaultTemperature),
		TopP:              types.Ptr(DefaultTopP),
		MaxTokens:         types.Ptr(uint64(DefaultMaxTokens)),
		ToolChoice:        DefaultToolChoice,
		ParallelToolCalls: types.Ptr(true),
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Validate checks sampling parameters are within range
func (c *Config) Validate() error {
	if c.Model == "" {
		return agent.ErrBadParameter.With("missing model")
	}
	if c.Temperature != nil && (*c.Temperature < 0 || *c.Temperature > 2) {
		return agent.ErrBadParameter.Withf("temperature %v, expected [0, 2]", *c.Temperature)
	}
	if c.TopP != nil && (*c.TopP < 0 || *c.TopP > 1) {
		return agent.ErrBadParameter.Withf("top_p %v, expected [0, 1]", *c.TopP)
	}
	if c.FrequencyPenalty != nil && (*c.FrequencyPenalty < -2 || *c.FrequencyPenalty > 2) {
		return agent.ErrBadParameter.Withf("frequency_penalty %v, expected [-2, 2]", *c.FrequencyPenalty)
	}
	if c.PresencePenalty != nil && (*c.PresencePenalty < -2 || *c.PresencePenalty > 2) {
		return agent.ErrBadParameter.Withf("presence_penalty %v, expected [-2, 2]", *c.PresencePenalty)
	}
	switch c.ToolChoice {
	case "", "auto", "none", "required":
		// Valid choices, or a specific tool name below
	default:
		if !types.IsIdentifier(c.ToolChoice) {
			return agent.ErrBadParameter.Withf("invalid tool_choice %q", c.ToolChoice)
		}
	}
	return nil
}

// Copy returns a copy of the configuration
func (c *Config) Copy() *Config {
	copied := *c
	if c.Temperature != nil {
		copied.Temperature = types.Ptr(*c.Temperature)
	}
	if c.TopP != nil {
		copied.TopP = types.Ptr(*c.TopP)
	}
	if c.MaxTokens != nil {
		copied.MaxTokens = types.Ptr(*c.MaxTokens)
	}
	if c.FrequencyPenalty != nil {
		copied.FrequencyPenalty = types.Ptr(*c.FrequencyPenalty)
	}
	if c.PresencePenalty != nil {
		copied.PresencePenalty = types.Ptr(*c.PresencePenalty)
	}
	if c.ParallelToolCalls != nil {
		copied.ParallelToolCalls = types.Ptr(*c.ParallelToolCalls)
	}
	copied.StopSequences = append([]string(nil), c.StopSequences...)
	return &copied
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (c *Config) String() string {
	return types.Stringify(c)
}
