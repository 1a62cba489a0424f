package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/multitex/internal/logfields"
)

// GenerateCmd implements the default command.
type GenerateCmd struct {
	RunFlags `embed:""`
}

func (c *GenerateCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	s, err := c.newSession(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			slog.Warn("Failed to close history store", logfields.Error(cerr))
		}
	}()

	report, err := s.run(context.Background())
	if err != nil {
		return err
	}

	fmt.Fprintf(g.Out, "Generated %d file(s) in %s\n", len(report.Files), c.Dir)
	for _, f := range report.Files {
		fmt.Fprintf(g.Out, "  %s\n", filepath.Base(f))
	}
	if n := len(report.Cleanup.Removed); n > 0 {
		fmt.Fprintf(g.Out, "Removed %d byproduct(s)\n", n)
	}
	return nil
}

func ensureParent(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o750)
}
