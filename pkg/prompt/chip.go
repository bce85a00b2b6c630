package prompt

import (
	"encoding/json"

	// Packages
	yaml "gopkg.in/yaml.v3"

	agent "github.com/mutablelogic/go-agent"
	types "github.com/mutablelogic/go-agent/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Metadata carries per-chip flags. The Ignore flag excludes a chip from
// rendering without removing it. Any additional fields found when
// unmarshalling are preserved verbatim in Extra and written back inline
// when marshalling.
type Metadata struct {
	Ignore bool
	Extra  map[string]any
}

// Chip is a named fragment of system prompt text. The name always matches
// the key under which the chip is stored in its owning ChipSet.
type Chip struct {
	Name     string   `json:"name"`
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
}

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewChip creates a chip with the given name and content
func NewChip(name, content string) *Chip {
	return &Chip{
		Name:    name,
		Content: content,
	}
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Copy returns a deep copy of the chip
func (c *Chip) Copy() *Chip {
	copied := *c
	copied.Metadata = c.Metadata.Copy()
	return &copied
}

// Copy returns a deep copy of the metadata, including any extra fields
func (m Metadata) Copy() Metadata {
	copied := Metadata{Ignore: m.Ignore}
	if m.Extra != nil {
		copied.Extra = copyValue(m.Extra).(map[string]any)
	}
	return copied
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (c Chip) String() string {
	return types.Stringify(c)
}

////////////////////////////////////////////////////////////////////////////////
// JSON MARSHALLING

func (m Metadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.toMap())
}

func (m *Metadata) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return m.fromMap(raw)
}

////////////////////////////////////////////////////////////////////////////////
// YAML MARSHALLING

func (m Metadata) MarshalYAML() (any, error) {
	return m.toMap(), nil
}

func (m *Metadata) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	return m.fromMap(raw)
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (m Metadata) toMap() map[string]any {
	result := make(map[string]any, len(m.Extra)+1)
	for field, value := range m.Extra {
		result[field] = value
	}
	result["ignore"] = m.Ignore
	return result
}

func (m *Metadata) fromMap(raw map[string]any) error {
	m.Ignore = false
	m.Extra = nil
	if value, exists := raw["ignore"]; exists {
		ignore, ok := value.(bool)
		if !ok {
			return agent.ErrBadSchema.Withf("expected boolean for %q, got %T", "ignore", value)
		}
		m.Ignore = ignore
	}
	extra := make(map[string]any, len(raw))
	for field, value := range raw {
		if field == "ignore" {
			continue
		}
		extra[field] = value
	}
	if len(extra) > 0 {
		m.Extra = extra
	}
	return nil
}

// reconcile returns a chip whose name matches the storage key. When the name
// disagrees, the chip is copied before renaming so that a shared instance is
// never mutated in place.
func reconcile(key string, chip *Chip) *Chip {
	if chip.Name == key {
		return chip
	}
	corrected := chip.Copy()
	corrected.Name = key
	return corrected
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
