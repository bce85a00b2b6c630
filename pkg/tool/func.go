package tool

import (
	"context"
	"encoding/json"

	// Packages
	jsonschema "github.com/google/jsonschema-go/jsonschema"

	agent "github.com/mutablelogic/go-agent"
	schema "github.com/mutablelogic/go-agent/pkg/schema"
	types "github.com/mutablelogic/go-agent/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Func wraps an ordinary function as a tool, deriving the argument schema
// from the function's argument type. Argument fields are described with
// json and jsonschema struct tags.
type Func[A any] struct {
	id          string
	name        string
	description string
	labels      []string
	fn          func(context.Context, A) (any, error)
}

// A generic option type, which can set options on a function tool
type FuncOpt func(*funcOpts) error

type funcOpts struct {
	labels []string
}

var _ agent.Tool = (*Func[struct{}])(nil)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewFunc wraps a function as a tool with the given name and description.
// Returns an error if the name is not a valid identifier or the function
// is nil.
func NewFunc[A any](name, description string, fn func(context.Context, A) (any, error), opts ...FuncOpt) (*Func[A], error) {
	if fn == nil {
		return nil, agent.ErrBadParameter.With("function cannot be nil")
	}
	if !types.IsIdentifier(name) {
		return nil, agent.ErrBadParameter.Withf("invalid tool name: %q", name)
	}

	var o funcOpts
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}

	return &Func[A]{
		id:          schema.NewID("tool"),
		name:        name,
		description: description,
		labels:      o.labels,
		fn:          fn,
	}, nil
}

///////////////////////////////////////////////////////////////////////////////
// OPTIONS

// WithLabels attaches labels to the tool, for grouping and filtering
func WithLabels(labels ...string) FuncOpt {
	return func(o *funcOpts) error {
		o.labels = append(o.labels, labels...)
		return nil
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// The unique identifier of the tool
func (f *Func[A]) Id() string {
	return f.id
}

// The name of the tool
func (f *Func[A]) Name() string {
	return f.name
}

// The description of the tool
func (f *Func[A]) Description() string {
	return f.description
}

// Labels returns the labels attached to the tool
func (f *Func[A]) Labels() []string {
	return append([]string(nil), f.labels...)
}

// Schema returns the JSON schema derived from the argument type
func (f *Func[A]) Schema() (*jsonschema.Schema, error) {
	return jsonschema.For[A](nil)
}

// Run decodes the input into the argument type and calls the function
func (f *Func[A]) Run(ctx context.Context, input json.RawMessage) (any, error) {
	var args A
	if len(input) > 0 {
		if err := json.Unmarshal(input, &args); err != nil {
			return nil, agent.ErrBadParameter.Withf("failed to unmarshal input: %v", err)
		}
	}
	return f.fn(ctx, args)
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (f *Func[A]) MarshalJSON() ([]byte, error) {
	var j struct {
		Id          string   `json:"id"`
		Name        string   `json:"name"`
		Description string   `json:"description,omitempty"`
		Labels      []string `json:"labels,omitempty"`
	}
	j.Id = f.id
	j.Name = f.name
	j.Description = f.description
	j.Labels = f.labels
	return json.Marshal(j)
}

func (f *Func[A]) String() string {
	return types.Stringify(f)
}
