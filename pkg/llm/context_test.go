package llm_test

import (
	"context"
	"testing"

	// Packages
	llm "github.com/mutablelogic/go-agent/pkg/llm"
	prompt "github.com/mutablelogic/go-agent/pkg/prompt"
	schema "github.com/mutablelogic/go-agent/pkg/schema"
	tool "github.com/mutablelogic/go-agent/pkg/tool"
	assert "github.com/stretchr/testify/assert"
)

func Test_context_001(t *testing.T) {
	assert := assert.New(t)

	// From a plain string
	ctx, err := llm.NewContext("You are a helpful assistant")
	if !assert.NoError(err) {
		t.FailNow()
	}
	text, err := ctx.Prompt().Prompt(prompt.ModeText)
	assert.NoError(err)
	assert.Equal("You are a helpful assistant", text)
	assert.Equal(0, ctx.Session().Count())
	assert.Empty(ctx.Toolkit().Tools())
	assert.NotNil(ctx.Config())
}

func Test_context_002(t *testing.T) {
	assert := assert.New(t)

	// From an existing system prompt
	systemPrompt, err := prompt.New("base")
	if !assert.NoError(err) {
		t.FailNow()
	}
	ctx, err := llm.NewContext(systemPrompt)
	assert.NoError(err)
	assert.Same(systemPrompt, ctx.Prompt())

	// Invalid content
	_, err = llm.NewContext(42)
	assert.Error(err)
	_, err = llm.NewContext((*prompt.SystemPrompt)(nil))
	assert.Error(err)
}

func Test_context_003(t *testing.T) {
	assert := assert.New(t)

	message, err := schema.NewUserMessage("hello")
	if !assert.NoError(err) {
		t.FailNow()
	}

	// Seeded messages survive a reset, later ones do not
	ctx, err := llm.NewContext("base", llm.WithMessages(message))
	if !assert.NoError(err) {
		t.FailNow()
	}
	assert.Equal(1, ctx.Session().Count())

	later, err := schema.NewUserMessage("more")
	assert.NoError(err)
	ctx.Session().Append(later)
	assert.Equal(2, ctx.Session().Count())

	ctx.Reset()
	assert.Equal(1, ctx.Session().Count())
	assert.Equal("hello", ctx.Session().Last().Text())
}

func Test_context_004(t *testing.T) {
	assert := assert.New(t)

	echo, err := tool.NewFunc("echo", "Echo the input back", func(_ context.Context, args struct {
		Text string `json:"text"`
	}) (any, error) {
		return args.Text, nil
	})
	if !assert.NoError(err) {
		t.FailNow()
	}

	// Tools and config options
	config := llm.NewConfig("gpt-4o")
	ctx, err := llm.NewContext("base", llm.WithTools(echo), llm.WithConfig(config))
	if !assert.NoError(err) {
		t.FailNow()
	}
	assert.NotNil(ctx.Toolkit().Lookup("echo"))
	assert.Same(config, ctx.Config())

	// Invalid config rejected at construction
	_, err = llm.NewContext("base", llm.WithConfig(&llm.Config{}))
	assert.Error(err)
	_, err = llm.NewContext("base", llm.WithConfig(nil))
	assert.Error(err)
}
