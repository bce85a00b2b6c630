package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	// Packages
	kong "github.com/alecthomas/kong"
	prompt "github.com/mutablelogic/go-agent/pkg/prompt"
	yaml "gopkg.in/yaml.v3"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type Globals struct {
	// Debugging
	Debug bool `name:"debug" help:"Enable debug output"`

	// Prompt source
	File string `name:"file" short:"f" type:"existingfile" help:"Chipset file (YAML or JSON)"`

	// Context
	ctx    context.Context
	prompt *prompt.SystemPrompt
}

type CLI struct {
	Globals

	// Commands
	Render  RenderCmd  `cmd:"" help:"Render the system prompt"`
	Chips   ChipsCmd   `cmd:"" help:"List the chips in the system prompt"`
	Get     GetCmd     `cmd:"" help:"Print a single chip"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

////////////////////////////////////////////////////////////////////////////////
// MAIN

func main() {
	// Create a cli parser
	cli := CLI{}
	cmd := kong.Parse(&cli,
		kong.Name(execName()),
		kong.Description("System prompt command line interface"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{},
	)

	// Create a context
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	cli.Globals.ctx = ctx

	// Load the system prompt, except for commands which do not need one
	if cmd.Command() != "version" {
		systemPrompt, err := loadPrompt(cli.File)
		cmd.FatalIfErrorf(err)
		cli.Globals.prompt = systemPrompt
	}

	// Run the command
	if err := cmd.Run(&cli.Globals); err != nil {
		cmd.FatalIfErrorf(err)
		return
	}
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func execName() string {
	// The name of the executable
	name, err := os.Executable()
	if err != nil {
		panic(err)
	} else {
		return filepath.Base(name)
	}
}

// loadPrompt reads a chipset from a YAML or JSON file, or from stdin when
// no file is given. Any other file extension is treated as plain text.
func loadPrompt(path string) (*prompt.SystemPrompt, error) {
	var data []byte
	var err error
	if path == "" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	var chips prompt.ChipSet
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, &chips); err != nil {
			return nil, err
		}
	case ".json":
		if err := json.Unmarshal(data, &chips); err != nil {
			return nil, err
		}
	default:
		return prompt.New(string(data))
	}
	return prompt.New(&chips)
}
