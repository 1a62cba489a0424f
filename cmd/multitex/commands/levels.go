package commands

import (
	"fmt"
	"text/tabwriter"

	"git.home.luguber.info/inful/multitex/internal/levels"
	"git.home.luguber.info/inful/multitex/internal/pipeline"
)

// LevelsCmd previews the level mapping without touching the output directory.
type LevelsCmd struct {
	Tex     string `arg:"" name:"tex" help:"Path to the annotated .tex source"`
	Suffix  string `default:"1" help:"Suffix for the base case file name (empty for none)"`
	Order   string `help:"Flag assignment order: sorted or discovery (overrides scan.assignment_order)"`
	Pattern string `help:"Marker regex with one capture group (overrides scan.pattern)"`
}

func (c *LevelsCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	order, err := levels.ParseOrder(firstNonEmpty(c.Order, string(cfg.Scan.AssignmentOrder)))
	if err != nil {
		return invalidFlag("--order", err)
	}
	pattern, err := levels.CompilePattern(firstNonEmpty(c.Pattern, cfg.Scan.Pattern))
	if err != nil {
		return invalidFlag("--pattern", err)
	}

	preview, err := pipeline.Inspect(c.Tex, pattern, order, c.Suffix)
	if err != nil {
		return err
	}

	fmt.Fprintf(g.Out, "Base case: %s\n", preview.BaseFile)
	if len(preview.Bindings) == 0 {
		fmt.Fprintln(g.Out, "No level markers found")
		return nil
	}
	tw := tabwriter.NewWriter(g.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LEVEL\tFLAG\tFILE")
	for _, b := range preview.Bindings {
		fmt.Fprintf(tw, "%s\t\\%s\t%s\n", b.Level, b.Flag, b.File)
	}
	return tw.Flush()
}
