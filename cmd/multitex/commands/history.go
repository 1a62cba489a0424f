package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	ferrors "git.home.luguber.info/inful/multitex/internal/foundation/errors"
)

// HistoryCmd lists recorded runs, newest first.
type HistoryCmd struct {
	Limit int    `short:"n" default:"20" help:"Maximum number of runs to show (0 for all)"`
	Path  string `name:"history" help:"History database path (overrides history.path)" type:"path"`
}

func (c *HistoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	path := firstNonEmpty(c.Path, cfg.History.Path)
	if path == "" {
		return ferrors.ConfigError("history is not enabled").
			WithContext("hint", "set history.path or pass --history").
			Build()
	}
	if _, err := os.Stat(path); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryHistory, "history database not found").
			WithContext("path", path).
			Build()
	}

	store, err := openHistory(path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	runs, err := store.List(context.Background(), c.Limit)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryHistory, "failed to list runs").Build()
	}
	if len(runs) == 0 {
		fmt.Fprintln(g.Out, "No runs recorded")
		return nil
	}

	tw := tabwriter.NewWriter(g.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tSTATUS\tLEVELS\tFILES\tDURATION\tSOURCE")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\n",
			r.StartedAt.Local().Format(time.DateTime),
			r.Status,
			len(r.Levels),
			len(r.Files),
			r.Duration().Round(time.Millisecond),
			r.Source,
		)
		if r.Error != "" {
			fmt.Fprintf(tw, "\t\t\t\t\terror: %s\n", r.Error)
		}
	}
	return tw.Flush()
}
