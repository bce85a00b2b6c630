package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	// Packages
	yaml "gopkg.in/yaml.v3"

	agent "github.com/mutablelogic/go-agent"
	types "github.com/mutablelogic/go-agent/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	// DefaultChipKey is the key used when a chipset is built from a plain
	// string, and the key targeted by Update when no other key is given
	DefaultChipKey = "default"

	// DefaultSplitter joins chip contents when rendering to plain text
	DefaultSplitter = "\n\n"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// ChipSet is an ordered collection of chips plus rendering configuration.
// Order lists the keys in rendering sequence, Chips maps each key to its
// chip, and Splitter joins chip contents in plain-text rendering. A key in
// Order without a matching chip is tolerated by rendering and skipped.
type ChipSet struct {
	Order    []string         `json:"order"`
	Splitter string           `json:"splitter"`
	Chips    map[string]*Chip `json:"chips"`
}

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewChipSet creates a chipset containing a single chip with the default
// key, holding the given content
func NewChipSet(content string) *ChipSet {
	return &ChipSet{
		Order:    []string{DefaultChipKey},
		Splitter: DefaultSplitter,
		Chips: map[string]*Chip{
			DefaultChipKey: NewChip(DefaultChipKey, content),
		},
	}
}

// NewChipSetFromMap creates a chipset from a structured description with
// optional "order" and "splitter" fields and a required "chips" mapping.
// Each chip entry may be a chip value or a structured record, whose name
// is filled in from its key when absent and corrected when it disagrees.
func NewChipSetFromMap(data map[string]any) (*ChipSet, error) {
	chipset := &ChipSet{
		Order:    []string{},
		Splitter: DefaultSplitter,
	}

	// Order and splitter are optional
	if value, exists := data["order"]; exists {
		order, err := stringSlice(value)
		if err != nil {
			return nil, agent.ErrBadSchema.Withf("order: %v", err)
		}
		chipset.Order = order
	}
	if value, exists := data["splitter"]; exists {
		splitter, ok := value.(string)
		if !ok {
			return nil, agent.ErrBadSchema.Withf("expected string for %q, got %T", "splitter", value)
		}
		chipset.Splitter = splitter
	}

	// The chips mapping is required
	payload, exists := data["chips"]
	if !exists {
		return nil, agent.ErrBadSchema.With("missing chips mapping")
	}
	switch mapping := payload.(type) {
	case map[string]any:
		chipset.Chips = make(map[string]*Chip, len(mapping))
		for key, value := range mapping {
			chip, err := normalizeChip(key, value)
			if err != nil {
				return nil, err
			}
			chipset.Chips[key] = chip
		}
	case map[string]*Chip:
		chipset.Chips = make(map[string]*Chip, len(mapping))
		for key, chip := range mapping {
			if chip == nil {
				return nil, agent.ErrBadSchema.Withf("nil chip for key %q", key)
			}
			chipset.Chips[key] = reconcile(key, chip)
		}
	default:
		return nil, agent.ErrBadSchema.Withf("expected mapping for %q, got %T", "chips", payload)
	}

	return chipset, nil
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Copy returns a deep copy of the chipset. Mutating the copy does not
// affect the original.
func (c *ChipSet) Copy() *ChipSet {
	copied := &ChipSet{
		Order:    append([]string(nil), c.Order...),
		Splitter: c.Splitter,
		Chips:    make(map[string]*Chip, len(c.Chips)),
	}
	for key, chip := range c.Chips {
		copied.Chips[key] = chip.Copy()
	}
	return copied
}

// Text renders the chipset to plain text. Chips are visited in order,
// skipping keys without a chip and chips marked as ignored, and the
// surviving contents are joined with the splitter.
func (c *ChipSet) Text() string {
	parts := make([]string, 0, len(c.Order))
	for _, key := range c.Order {
		if chip, exists := c.Chips[key]; exists && chip != nil && !chip.Metadata.Ignore {
			parts = append(parts, chip.Content)
		}
	}
	return strings.Join(parts, c.Splitter)
}

// XML renders the chipset to tagged markup, wrapping each surviving chip
// content in an element named after its key. Keys and contents are not
// escaped; keys are assumed to be safe identifiers.
func (c *ChipSet) XML() string {
	parts := make([]string, 0, len(c.Order))
	for _, key := range c.Order {
		if chip, exists := c.Chips[key]; exists && chip != nil && !chip.Metadata.Ignore {
			parts = append(parts, fmt.Sprintf("<%s>\n%s\n</%s>", key, chip.Content, key))
		}
	}
	return strings.Join(parts, "\n")
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (c ChipSet) String() string {
	return types.Stringify(c)
}

////////////////////////////////////////////////////////////////////////////////
// JSON MARSHALLING

func (c *ChipSet) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	chipset, err := NewChipSetFromMap(raw)
	if err != nil {
		return err
	}
	*c = *chipset
	return nil
}

////////////////////////////////////////////////////////////////////////////////
// YAML MARSHALLING

func (c *ChipSet) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	chipset, err := NewChipSetFromMap(raw)
	if err != nil {
		return err
	}
	*c = *chipset
	return nil
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// normalizeChip translates a chip value or structured record into a chip
// whose name matches the storage key
func normalizeChip(key string, value any) (*Chip, error) {
	var chip *Chip
	switch v := value.(type) {
	case *Chip:
		if v == nil {
			return nil, agent.ErrBadSchema.Withf("nil chip for key %q", key)
		}
		chip = v
	case Chip:
		chip = &v
	case map[string]any:
		c, err := chipFromMap(key, v)
		if err != nil {
			return nil, err
		}
		chip = c
	default:
		return nil, agent.ErrBadSchema.Withf("unsupported chip type %T for key %q", value, key)
	}
	return reconcile(key, chip), nil
}

// chipFromMap constructs a chip from a structured record, filling in the
// name from the key when absent. Unknown fields are rejected.
func chipFromMap(key string, data map[string]any) (*Chip, error) {
	chip := &Chip{Name: key}
	var content bool
	for field, value := range data {
		switch field {
		case "name":
			name, ok := value.(string)
			if !ok {
				return nil, agent.ErrBadSchema.Withf("expected string for %q, got %T", field, value)
			}
			chip.Name = name
		case "content":
			text, ok := value.(string)
			if !ok {
				return nil, agent.ErrBadSchema.Withf("expected string for %q, got %T", field, value)
			}
			chip.Content = text
			content = true
		case "metadata":
			meta, ok := value.(map[string]any)
			if !ok {
				return nil, agent.ErrBadSchema.Withf("expected mapping for %q, got %T", field, value)
			}
			if err := chip.Metadata.fromMap(meta); err != nil {
				return nil, err
			}
		default:
			return nil, agent.ErrBadSchema.Withf("unknown field %q for chip %q", field, key)
		}
	}
	if !content {
		return nil, agent.ErrBadSchema.Withf("missing content for chip %q", key)
	}
	return chip, nil
}

// stringSlice accepts a []string or a []any of strings
func stringSlice(value any) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return append([]string(nil), v...), nil
	case []any:
		result := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected string, got %T", item)
			}
			result = append(result, s)
		}
		return result, nil
	}
	return nil, fmt.Errorf("expected sequence of strings, got %T", value)
}
