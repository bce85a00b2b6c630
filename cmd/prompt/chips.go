package main

import (
	"fmt"

	// Packages
	agent "github.com/mutablelogic/go-agent"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type ChipsCmd struct {
}

type GetCmd struct {
	Key string `arg:"" help:"Chip key"`
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (*ChipsCmd) Run(globals *Globals) error {
	chips := globals.prompt.Chips()
	for _, key := range chips.Order {
		chip, exists := chips.Chips[key]
		if !exists {
			continue
		}
		state := ""
		if chip.Metadata.Ignore {
			state = " (ignored)"
		}
		fmt.Printf("%s%s\n", key, state)
	}
	return nil
}

func (cmd *GetCmd) Run(globals *Globals) error {
	chip := globals.prompt.Get(cmd.Key)
	if chip == nil {
		return agent.ErrNotFound.Withf("chip %q", cmd.Key)
	}
	fmt.Println(chip)
	return nil
}
