package commands

import (
	"context"
	"time"

	"git.home.luguber.info/inful/multitex/internal/compiler"
	"git.home.luguber.info/inful/multitex/internal/config"
	ferrors "git.home.luguber.info/inful/multitex/internal/foundation/errors"
	"git.home.luguber.info/inful/multitex/internal/history"
	"git.home.luguber.info/inful/multitex/internal/levels"
	"git.home.luguber.info/inful/multitex/internal/outdir"
	"git.home.luguber.info/inful/multitex/internal/pipeline"
)

// RunFlags are shared by generate and watch.
type RunFlags struct {
	Tex string `arg:"" name:"tex" help:"Path to the annotated .tex source" type:"path"`
	Dir string `arg:"" name:"dir" help:"Output directory for the generated .tex and compiled files" type:"path"`

	Compile bool          `default:"true" negatable:"" help:"Compile each generated file with the LaTeX engine"`
	Suffix  string        `default:"1" help:"Suffix for the base case file name (empty for none)"`
	Engine  string        `help:"LaTeX engine binary (overrides compile.engine)"`
	Timeout time.Duration `help:"Per-invocation compiler timeout, 0 keeps compile.timeout"`
	Prepare string        `help:"Output directory policy: clean or keep (overrides output.prepare)"`
	Order   string        `help:"Flag assignment order: sorted or discovery (overrides scan.assignment_order)"`
	Pattern string        `help:"Marker regex with one capture group (overrides scan.pattern)"`
	Record  string        `name:"history" help:"History database path (overrides history.path)" type:"path"`
}

// session bundles everything one or more runs need.
type session struct {
	runner  *pipeline.Runner
	request pipeline.Request
	store   history.Store
}

func (s *session) run(ctx context.Context) (*pipeline.Report, error) {
	return s.runner.Run(ctx, s.request)
}

func (s *session) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}

// newSession merges flags over cfg and builds the runner.
func (f *RunFlags) newSession(cfg *config.Config) (*session, error) {
	req, err := f.request(cfg)
	if err != nil {
		return nil, err
	}

	var comp compiler.Compiler = compiler.NoopCompiler{}
	if req.Compile {
		bc := compiler.NewBinaryCompiler(firstNonEmpty(f.Engine, cfg.Compile.Engine))
		bc.Args = cfg.Compile.Args
		bc.Passes = cfg.Compile.Passes
		bc.Timeout = cfg.Compile.Timeout
		if f.Timeout > 0 {
			bc.Timeout = f.Timeout
		}
		comp = bc
	}

	s := &session{runner: pipeline.NewRunner(comp), request: req}
	if path := firstNonEmpty(f.Record, cfg.History.Path); path != "" {
		store, err := openHistory(path)
		if err != nil {
			return nil, err
		}
		s.store = store
		s.runner.WithHistory(store)
	}
	return s, nil
}

func (f *RunFlags) request(cfg *config.Config) (pipeline.Request, error) {
	policy, err := outdir.ParsePolicy(firstNonEmpty(f.Prepare, string(cfg.Output.Prepare)))
	if err != nil {
		return pipeline.Request{}, invalidFlag("--prepare", err)
	}
	order, err := levels.ParseOrder(firstNonEmpty(f.Order, string(cfg.Scan.AssignmentOrder)))
	if err != nil {
		return pipeline.Request{}, invalidFlag("--order", err)
	}
	pattern, err := levels.CompilePattern(firstNonEmpty(f.Pattern, cfg.Scan.Pattern))
	if err != nil {
		return pipeline.Request{}, invalidFlag("--pattern", err)
	}
	if f.Timeout < 0 {
		return pipeline.Request{}, ferrors.ValidationError("--timeout must not be negative").Build()
	}

	return pipeline.Request{
		Source:     f.Tex,
		OutputDir:  f.Dir,
		BaseSuffix: f.Suffix,
		Compile:    f.Compile && cfg.Compile.IsEnabled(),
		Prepare:    policy,
		Order:      order,
		Pattern:    pattern,
		Extensions: cfg.Cleanup.Extensions,
	}, nil
}

func openHistory(path string) (*history.SQLiteStore, error) {
	if err := ensureParent(path); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryHistory, "failed to create history directory").
			WithContext("path", path).
			Build()
	}
	store, err := history.NewSQLiteStore(path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryHistory, "failed to open history database").
			WithContext("path", path).
			Build()
	}
	return store, nil
}

func invalidFlag(name string, err error) error {
	return ferrors.WrapError(err, ferrors.CategoryValidation, "invalid "+name).Build()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
