package prompt_test

import (
	"encoding/json"
	"testing"

	// Packages
	"github.com/stretchr/testify/assert"
	yaml "gopkg.in/yaml.v3"

	agent "github.com/mutablelogic/go-agent"
	"github.com/mutablelogic/go-agent/pkg/prompt"
)

func TestNewChipSet(t *testing.T) {
	assert := assert.New(t)

	chipset := prompt.NewChipSet("You are a helpful assistant")

	assert.Equal([]string{prompt.DefaultChipKey}, chipset.Order)
	assert.Equal("\n\n", chipset.Splitter)
	assert.Len(chipset.Chips, 1)
	assert.Equal(prompt.DefaultChipKey, chipset.Chips[prompt.DefaultChipKey].Name)

	// Rendering a freshly-constructed single chip returns the original string
	assert.Equal("You are a helpful assistant", chipset.Text())
}

func TestNewChipSetFromMap(t *testing.T) {
	assert := assert.New(t)

	chipset, err := prompt.NewChipSetFromMap(map[string]any{
		"order":    []string{"a", "b"},
		"splitter": "\n\n",
		"chips": map[string]any{
			"a": map[string]any{"name": "a", "content": "A"},
			"b": map[string]any{"name": "b", "content": "B"},
		},
	})
	assert.NoError(err)
	assert.Equal([]string{"a", "b"}, chipset.Order)
	assert.Equal("A\n\nB", chipset.Text())
}

func TestNewChipSetFromMapDefaults(t *testing.T) {
	assert := assert.New(t)

	// Order and splitter are optional
	chipset, err := prompt.NewChipSetFromMap(map[string]any{
		"chips": map[string]any{
			"a": map[string]any{"content": "A"},
		},
	})
	assert.NoError(err)
	assert.Empty(chipset.Order)
	assert.Equal(prompt.DefaultSplitter, chipset.Splitter)

	// Name is filled in from the key when absent
	assert.Equal("a", chipset.Chips["a"].Name)

	// A chip not in the order is never rendered
	assert.Equal("", chipset.Text())
}

func TestNewChipSetFromMapErrors(t *testing.T) {
	assert := assert.New(t)

	// Missing chips mapping
	_, err := prompt.NewChipSetFromMap(map[string]any{"order": []string{"a"}})
	assert.ErrorIs(err, agent.ErrBadSchema)

	// Chips is not a mapping
	_, err = prompt.NewChipSetFromMap(map[string]any{"chips": "nope"})
	assert.ErrorIs(err, agent.ErrBadSchema)

	// A chip entry that is neither a record nor a chip value
	_, err = prompt.NewChipSetFromMap(map[string]any{
		"chips": map[string]any{"a": 42},
	})
	assert.ErrorIs(err, agent.ErrBadSchema)

	// A chip record with an unknown field
	_, err = prompt.NewChipSetFromMap(map[string]any{
		"chips": map[string]any{"a": map[string]any{"content": "A", "weight": 1}},
	})
	assert.ErrorIs(err, agent.ErrBadSchema)

	// A chip record without content
	_, err = prompt.NewChipSetFromMap(map[string]any{
		"chips": map[string]any{"a": map[string]any{"name": "a"}},
	})
	assert.ErrorIs(err, agent.ErrBadSchema)

	// A non-string order entry
	_, err = prompt.NewChipSetFromMap(map[string]any{
		"order": []any{"a", 1},
		"chips": map[string]any{"a": map[string]any{"content": "A"}},
	})
	assert.ErrorIs(err, agent.ErrBadSchema)
}

func TestNormalizeCorrectsName(t *testing.T) {
	assert := assert.New(t)

	// A chip stored under a different key is copied with the name corrected,
	// leaving the shared instance untouched
	shared := prompt.NewChip("other", "content")
	chipset, err := prompt.NewChipSetFromMap(map[string]any{
		"chips": map[string]any{"a": shared},
	})
	assert.NoError(err)
	assert.Equal("a", chipset.Chips["a"].Name)
	assert.Equal("other", shared.Name)

	// A record whose name disagrees with the key is also corrected
	chipset, err = prompt.NewChipSetFromMap(map[string]any{
		"chips": map[string]any{"a": map[string]any{"name": "b", "content": "A"}},
	})
	assert.NoError(err)
	assert.Equal("a", chipset.Chips["a"].Name)
}

func TestChipSetCopy(t *testing.T) {
	assert := assert.New(t)

	chipset, err := prompt.NewChipSetFromMap(map[string]any{
		"order": []string{"a"},
		"chips": map[string]any{
			"a": map[string]any{
				"content":  "A",
				"metadata": map[string]any{"ignore": false, "source": "unit-test", "tags": []any{"x"}},
			},
		},
	})
	assert.NoError(err)

	copied := chipset.Copy()
	copied.Order[0] = "mutated"
	copied.Chips["a"].Content = "mutated"
	copied.Chips["a"].Metadata.Ignore = true
	copied.Chips["a"].Metadata.Extra["source"] = "mutated"
	copied.Chips["a"].Metadata.Extra["tags"].([]any)[0] = "mutated"

	assert.Equal([]string{"a"}, chipset.Order)
	assert.Equal("A", chipset.Chips["a"].Content)
	assert.False(chipset.Chips["a"].Metadata.Ignore)
	assert.Equal("unit-test", chipset.Chips["a"].Metadata.Extra["source"])
	assert.Equal("x", chipset.Chips["a"].Metadata.Extra["tags"].([]any)[0])
}

func TestChipSetRenderFiltersIgnored(t *testing.T) {
	assert := assert.New(t)

	chipset, err := prompt.NewChipSetFromMap(map[string]any{
		"order": []string{"a", "b"},
		"chips": map[string]any{
			"a": map[string]any{"content": "A", "metadata": map[string]any{"ignore": true}},
			"b": map[string]any{"content": "B"},
		},
	})
	assert.NoError(err)

	// No leading splitter from the ignored chip
	assert.Equal("B", chipset.Text())
	assert.Equal("<b>\nB\n</b>", chipset.XML())
}

func TestChipSetRenderDanglingOrder(t *testing.T) {
	assert := assert.New(t)

	// A key in the order without a chip is skipped silently
	chipset, err := prompt.NewChipSetFromMap(map[string]any{
		"order": []string{"missing", "a"},
		"chips": map[string]any{
			"a": map[string]any{"content": "A"},
		},
	})
	assert.NoError(err)
	assert.Equal("A", chipset.Text())
	assert.Equal("<a>\nA\n</a>", chipset.XML())
}

func TestChipSetXML(t *testing.T) {
	assert := assert.New(t)

	chipset, err := prompt.NewChipSetFromMap(map[string]any{
		"order":    []string{"a", "b"},
		"splitter": "\n\n",
		"chips": map[string]any{
			"a": map[string]any{"content": "A"},
			"b": map[string]any{"content": "B"},
		},
	})
	assert.NoError(err)

	// Blocks are joined with a single newline, independent of the splitter
	assert.Equal("<a>\nA\n</a>\n<b>\nB\n</b>", chipset.XML())
}

func TestChipSetUnmarshalJSON(t *testing.T) {
	assert := assert.New(t)

	data := `{
		"order": ["a", "b"],
		"splitter": "\n",
		"chips": {
			"a": {"content": "A", "metadata": {"ignore": false, "priority": 3}},
			"b": {"name": "wrong", "content": "B"}
		}
	}`

	var chipset prompt.ChipSet
	assert.NoError(json.Unmarshal([]byte(data), &chipset))
	assert.Equal([]string{"a", "b"}, chipset.Order)
	assert.Equal("A\nB", chipset.Text())

	// Name corrected from the key, extra metadata preserved
	assert.Equal("b", chipset.Chips["b"].Name)
	assert.Equal(float64(3), chipset.Chips["a"].Metadata.Extra["priority"])
}

func TestChipSetUnmarshalYAML(t *testing.T) {
	assert := assert.New(t)

	data := `
order:
  - greeting
  - rules
splitter: "\n\n"
chips:
  greeting:
    content: Hello
  rules:
    content: Be nice
    metadata:
      ignore: true
      author: ops
`
	var chipset prompt.ChipSet
	assert.NoError(yaml.Unmarshal([]byte(data), &chipset))
	assert.Equal([]string{"greeting", "rules"}, chipset.Order)
	assert.Equal("Hello", chipset.Text())
	assert.True(chipset.Chips["rules"].Metadata.Ignore)
	assert.Equal("ops", chipset.Chips["rules"].Metadata.Extra["author"])
}

func TestMetadataRoundTrip(t *testing.T) {
	assert := assert.New(t)

	// Extra metadata fields appear inline alongside the ignore flag
	chip := prompt.NewChip("a", "A")
	chip.Metadata.Extra = map[string]any{"source": "unit-test"}

	data, err := json.Marshal(chip)
	assert.NoError(err)
	assert.JSONEq(`{"name": "a", "content": "A", "metadata": {"ignore": false, "source": "unit-test"}}`, string(data))

	var decoded prompt.Chip
	assert.NoError(json.Unmarshal(data, &decoded))
	assert.Equal("unit-test", decoded.Metadata.Extra["source"])
	assert.False(decoded.Metadata.Ignore)
}
