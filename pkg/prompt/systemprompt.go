package prompt

import (
	"encoding/json"

	// Packages
	agent "github.com/mutablelogic/go-agent"
	types "github.com/mutablelogic/go-agent/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Mode selects the rendering of a system prompt. The empty mode renders
// as plain text.
type Mode string

// RenderFunc renders a chipset to a string. A renderer supplied at
// construction time takes precedence over the default rendering.
type RenderFunc func(*ChipSet) string

// SystemPrompt composes a system prompt from an owned chipset. It is not
// safe for concurrent mutation; the caller is assumed to be the single
// writer at any time.
type SystemPrompt struct {
	chips *ChipSet
	text  RenderFunc
	xml   RenderFunc
}

// A generic option type, which can set options on a system prompt
type Opt func(*SystemPrompt) error

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	ModeText Mode = "text"
	ModeXML  Mode = "xml"
)

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a system prompt from a plain string, a structured description
// (map) or an existing chipset, which the prompt takes ownership of.
func New(content any, opts ...Opt) (*SystemPrompt, error) {
	chips, err := chipSetFrom(content)
	if err != nil {
		return nil, err
	}
	prompt := &SystemPrompt{chips: chips}
	for _, opt := range opts {
		if err := opt(prompt); err != nil {
			return nil, err
		}
	}
	return prompt, nil
}

////////////////////////////////////////////////////////////////////////////////
// OPTIONS

// WithTextRenderer overrides the default plain-text rendering
func WithTextRenderer(fn RenderFunc) Opt {
	return func(s *SystemPrompt) error {
		s.text = fn
		return nil
	}
}

// WithXMLRenderer overrides the default tagged-markup rendering
func WithXMLRenderer(fn RenderFunc) Opt {
	return func(s *SystemPrompt) error {
		s.xml = fn
		return nil
	}
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS - RENDERING

// Prompt renders the system prompt in the given mode. The empty mode
// defaults to plain text. An unrecognized mode returns ErrBadMode.
func (s *SystemPrompt) Prompt(mode Mode) (string, error) {
	switch mode {
	case "", ModeText:
		if s.text != nil {
			return s.text(s.chips), nil
		}
		return s.chips.Text(), nil
	case ModeXML:
		if s.xml != nil {
			return s.xml(s.chips), nil
		}
		return s.chips.XML(), nil
	}
	return "", agent.ErrBadMode.Withf("%q", mode)
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS - MUTATION

// Add creates a new chip under the given key and appends the key to the
// order. The content may be a plain string, a structured record or a chip
// value. Returns ErrConflict if the key already exists.
func (s *SystemPrompt) Add(key string, content any) (*Chip, error) {
	if _, exists := s.chips.Chips[key]; exists {
		return nil, agent.ErrConflict.Withf("chip %q already exists", key)
	}

	chip, err := chipFrom(key, content)
	if err != nil {
		return nil, err
	}

	s.chips.Chips[key] = chip
	if !s.inOrder(key) {
		s.chips.Order = append(s.chips.Order, key)
	}
	return chip, nil
}

// Insert creates a new chip under the given key and inserts the key into
// the order at the given index, shifting later entries right. The index
// must be within [0, len(order)]. Returns ErrConflict if the key already
// exists, or ErrOutOfRange for an invalid index.
func (s *SystemPrompt) Insert(key string, content any, index int) (*Chip, error) {
	if _, exists := s.chips.Chips[key]; exists {
		return nil, agent.ErrConflict.Withf("chip %q already exists", key)
	}
	if index < 0 || index > len(s.chips.Order) {
		return nil, agent.ErrOutOfRange.Withf("index %d, expected [0, %d]", index, len(s.chips.Order))
	}

	chip, err := chipFrom(key, content)
	if err != nil {
		return nil, err
	}

	s.chips.Chips[key] = chip
	s.chips.Order = append(s.chips.Order, "")
	copy(s.chips.Order[index+1:], s.chips.Order[index:])
	s.chips.Order[index] = key
	return chip, nil
}

// Move removes the key from its current position in the order and
// reinserts it at the given index. The key must exist in both the chips
// mapping and the order, and the index must be within [0, len(order)-1].
func (s *SystemPrompt) Move(key string, index int) error {
	if _, exists := s.chips.Chips[key]; !exists {
		return agent.ErrNotFound.Withf("chip %q", key)
	}
	if !s.inOrder(key) {
		return agent.ErrNotFound.Withf("chip %q is not in the order list", key)
	}
	if index < 0 || index >= len(s.chips.Order) {
		return agent.ErrOutOfRange.Withf("index %d, expected [0, %d]", index, len(s.chips.Order)-1)
	}

	order := make([]string, 0, len(s.chips.Order))
	for _, k := range s.chips.Order {
		if k != key {
			order = append(order, k)
		}
	}
	order = append(order, "")
	copy(order[index+1:], order[index:])
	order[index] = key
	s.chips.Order = order
	return nil
}

// Remove deletes the chip under the given key and removes all occurrences
// of the key from the order. Returns false if the key does not exist.
func (s *SystemPrompt) Remove(key string) bool {
	if _, exists := s.chips.Chips[key]; !exists {
		return false
	}
	delete(s.chips.Chips, key)

	order := make([]string, 0, len(s.chips.Order))
	for _, k := range s.chips.Order {
		if k != key {
			order = append(order, k)
		}
	}
	s.chips.Order = order
	return true
}

// Ignore soft-deletes a chip by marking it as ignored, excluding it from
// rendering. Returns the key, or ErrNotFound if the chip does not exist.
func (s *SystemPrompt) Ignore(key string) (string, error) {
	chip := s.Get(key)
	if chip == nil {
		return "", agent.ErrNotFound.Withf("chip %q", key)
	}
	chip.Metadata.Ignore = true
	return key, nil
}

// Wakeup clears the ignore flag on a chip. Waking an already-awake chip is
// a no-op. Returns the key, or ErrNotFound if the chip does not exist.
func (s *SystemPrompt) Wakeup(key string) (string, error) {
	chip := s.Get(key)
	if chip == nil {
		return "", agent.ErrNotFound.Withf("chip %q", key)
	}
	chip.Metadata.Ignore = false
	return key, nil
}

// WakeupAll clears the ignore flag on every ignored chip, returning the
// keys that were flipped in order traversal sequence
func (s *SystemPrompt) WakeupAll() []string {
	waked := make([]string, 0, len(s.chips.Order))
	for _, key := range s.chips.Order {
		if chip, exists := s.chips.Chips[key]; exists && chip != nil && chip.Metadata.Ignore {
			chip.Metadata.Ignore = false
			waked = append(waked, key)
		}
	}
	return waked
}

// Toggle flips the ignore flag on a chip. Returns the key, or ErrNotFound
// if the chip does not exist.
func (s *SystemPrompt) Toggle(key string) (string, error) {
	chip := s.Get(key)
	if chip == nil {
		return "", agent.ErrNotFound.Withf("chip %q", key)
	}
	chip.Metadata.Ignore = !chip.Metadata.Ignore
	return key, nil
}

// Replace discards the owned chipset and replaces it wholesale. The
// content is normalized the same way as at construction time.
func (s *SystemPrompt) Replace(content any) error {
	chips, err := chipSetFrom(content)
	if err != nil {
		return err
	}
	s.chips = chips
	return nil
}

// Update overwrites the chip under the given key with a newly constructed
// one, creating it and appending the key to the order when absent. Use
// UpdateDefault to refresh the default chip.
func (s *SystemPrompt) Update(key string, content any) (*Chip, error) {
	chip, err := chipFrom(key, content)
	if err != nil {
		return nil, err
	}

	s.chips.Chips[key] = chip
	if !s.inOrder(key) {
		s.chips.Order = append(s.chips.Order, key)
	}
	return chip, nil
}

// UpdateDefault updates the chip under the default key
func (s *SystemPrompt) UpdateDefault(content any) (*Chip, error) {
	return s.Update(DefaultChipKey, content)
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS - INSPECTION

// Get returns the chip under the given key, or nil if it does not exist
func (s *SystemPrompt) Get(key string) *Chip {
	return s.chips.Chips[key]
}

// Chips returns a deep copy of the owned chipset, safe for external
// retention and mutation
func (s *SystemPrompt) Chips() *ChipSet {
	return s.chips.Copy()
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (s *SystemPrompt) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.chips)
}

func (s *SystemPrompt) String() string {
	return types.Stringify(s)
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// chipSetFrom translates a plain string, structured description or
// existing chipset into the canonical owned form
func chipSetFrom(content any) (*ChipSet, error) {
	switch v := content.(type) {
	case string:
		return NewChipSet(v), nil
	case map[string]any:
		return NewChipSetFromMap(v)
	case *ChipSet:
		if v == nil {
			return nil, agent.ErrBadParameter.With("chipset cannot be nil")
		}
		return v, nil
	case ChipSet:
		return &v, nil
	}
	return nil, agent.ErrBadSchema.Withf("unsupported content type %T", content)
}

// chipFrom translates mutation content into a chip: a plain string becomes
// the chip content, anything else goes through chip normalization
func chipFrom(key string, content any) (*Chip, error) {
	if text, ok := content.(string); ok {
		return NewChip(key, text), nil
	}
	return normalizeChip(key, content)
}

// inOrder returns true if the key appears in the order list
func (s *SystemPrompt) inOrder(key string) bool {
	for _, k := range s.chips.Order {
		if k == key {
			return true
		}
	}
	return false
}
