package main

import (
	"fmt"

	// Packages
	prompt "github.com/mutablelogic/go-agent/pkg/prompt"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type RenderCmd struct {
	Mode   string   `name:"mode" enum:"text,xml" default:"text" help:"Rendering mode"`
	Ignore []string `name:"ignore" help:"Chips to exclude from rendering"`
	Wake   bool     `name:"wake" help:"Clear all ignore flags before rendering"`
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (cmd *RenderCmd) Run(globals *Globals) error {
	if cmd.Wake {
		globals.prompt.WakeupAll()
	}
	for _, key := range cmd.Ignore {
		if _, err := globals.prompt.Ignore(key); err != nil {
			return err
		}
	}

	text, err := globals.prompt.Prompt(prompt.Mode(cmd.Mode))
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}
