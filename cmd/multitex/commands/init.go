package commands

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/multitex/internal/config"
	ferrors "git.home.luguber.info/inful/multitex/internal/foundation/errors"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool   `help:"Overwrite existing configuration file"`
	Output string `short:"o" name:"output" help:"Output directory for generated config file"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	path := root.Config
	switch {
	case i.Output != "":
		path = filepath.Join(i.Output, config.DefaultPath)
	case path == "":
		path = config.DefaultPath
	}

	fmt.Fprintf(g.Out, "Writing configuration to %s\n", path)
	if err := ensureParent(path); err != nil {
		return ferrors.FileSystemError("failed to create config directory").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	if err := config.Init(path, i.Force); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "initialization failed").
			WithContext("path", path).
			Build()
	}
	fmt.Fprintln(g.Out, "Initialized successfully")
	return nil
}
