// Package pipeline runs one generation: read the source, prepare the output
// directory, bind levels to flags, write and compile every variant, then
// remove compiler byproducts.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/multitex/internal/cleanup"
	"git.home.luguber.info/inful/multitex/internal/compiler"
	ferrors "git.home.luguber.info/inful/multitex/internal/foundation/errors"
	"git.home.luguber.info/inful/multitex/internal/history"
	"git.home.luguber.info/inful/multitex/internal/levels"
	"git.home.luguber.info/inful/multitex/internal/logfields"
	"git.home.luguber.info/inful/multitex/internal/metrics"
	"git.home.luguber.info/inful/multitex/internal/outdir"
	"git.home.luguber.info/inful/multitex/internal/variant"
)

// Stage names used for logging and metrics.
const (
	StageRead    = "read"
	StagePrepare = "prepare"
	StageScan    = "scan"
	StageVariant = "variant"
	StageCleanup = "cleanup"
)

// Request describes one run.
type Request struct {
	Source    string
	OutputDir string
	// BaseSuffix names the base-case file; empty yields <base>.tex.
	BaseSuffix string
	Compile    bool
	Prepare    outdir.Policy
	Order      levels.Order
	// Pattern overrides levels.DefaultPattern when set.
	Pattern    *regexp.Regexp
	Extensions []string
}

// Report summarizes a run. On failure it holds whatever completed.
type Report struct {
	RunID    string
	Mapping  levels.Mapping
	Files    []string
	Cleanup  cleanup.Result
	Duration time.Duration
}

// Runner executes requests. It holds no per-run state and may be reused.
type Runner struct {
	compiler compiler.Compiler
	recorder metrics.Recorder
	history  history.Store
	newID    func() string
}

// NewRunner returns a Runner compiling with c. A nil c never compiles.
func NewRunner(c compiler.Compiler) *Runner {
	if c == nil {
		c = compiler.NoopCompiler{}
	}
	return &Runner{
		compiler: c,
		recorder: metrics.NoopRecorder{},
		newID:    uuid.NewString,
	}
}

// WithRecorder sets the metrics recorder.
func (r *Runner) WithRecorder(rec metrics.Recorder) *Runner {
	if rec != nil {
		r.recorder = rec
	}
	return r
}

// WithHistory records every run in store.
func (r *Runner) WithHistory(store history.Store) *Runner {
	r.history = store
	return r
}

// Run executes req. It stops at the first failure; variants after a failed
// write or compile are never written.
func (r *Runner) Run(ctx context.Context, req Request) (*Report, error) {
	start := time.Now()
	report := &Report{RunID: r.newID()}
	log := slog.With(logfields.RunID(report.RunID))

	log.Info("Starting generation",
		logfields.Source(req.Source),
		logfields.OutputDir(req.OutputDir),
		slog.Bool("compile", req.Compile))

	err := r.run(ctx, log, req, report)
	report.Duration = time.Since(start)
	r.recorder.ObserveRunDuration(report.Duration)

	if err != nil {
		r.recorder.IncRunOutcome(metrics.ResultFailed)
		log.Error("Generation failed", logfields.Error(err))
	} else {
		r.recorder.IncRunOutcome(metrics.ResultSuccess)
		log.Info("Generation completed",
			logfields.Count(len(report.Files)),
			logfields.DurationMS(float64(report.Duration.Milliseconds())))
	}
	r.record(ctx, log, req, report, start, err)
	return report, err
}

func (r *Runner) run(ctx context.Context, log *slog.Logger, req Request, report *Report) error {
	var source string
	if err := r.stage(StageRead, func() error {
		data, err := os.ReadFile(req.Source)
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryInput, "failed to read source").
				Fatal().
				WithContext("source", req.Source).
				Build()
		}
		source = string(data)
		return nil
	}); err != nil {
		return err
	}

	if err := r.stage(StagePrepare, func() error {
		return prepare(req)
	}); err != nil {
		return err
	}

	var sanitized string
	if err := r.stage(StageScan, func() error {
		keys := levels.Scan(source, req.Pattern)
		report.Mapping = levels.Assign(keys, req.Order, nil)
		sanitized = levels.Sanitize(source, req.Pattern, report.Mapping)
		for _, key := range report.Mapping.Keys() {
			flag, _ := report.Mapping.Flag(key)
			log.Debug("Bound level", logfields.Level(key), logfields.Flag(flag))
		}
		log.Info("Discovered levels", logfields.Count(report.Mapping.Len()))
		return nil
	}); err != nil {
		return err
	}
	r.recorder.SetLevels(report.Mapping.Len())

	writer := variant.NewWriter(req.Source, req.OutputDir)
	for _, v := range variant.Plan(sanitized, report.Mapping, req.BaseSuffix) {
		if err := ctx.Err(); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryInternal, "run canceled").Build()
		}
		if err := r.stage(StageVariant, func() error {
			return r.emit(ctx, log, writer, v, req, report)
		}); err != nil {
			return err
		}
	}

	return r.stage(StageCleanup, func() error {
		res, err := cleanup.Byproducts(req.OutputDir, req.Extensions)
		report.Cleanup = res
		r.recorder.IncByproductsRemoved(len(res.Removed))
		if len(res.Removed) > 0 {
			log.Info("Removed byproducts", logfields.Count(len(res.Removed)))
		}
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryCleanup, "failed to remove byproducts").
				WithContext("output_dir", req.OutputDir).
				Build()
		}
		return nil
	})
}

func prepare(req Request) error {
	err := outdir.NewManager(req.OutputDir, req.Prepare, req.Source).Prepare()
	switch {
	case err == nil:
		return nil
	case errors.Is(err, outdir.ErrUnsafeDirectory):
		return ferrors.WrapError(err, ferrors.CategoryValidation, "unsafe output directory").
			Fatal().
			WithContext("output_dir", req.OutputDir).
			Build()
	default:
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to prepare output directory").
			Fatal().
			WithContext("output_dir", req.OutputDir).
			Build()
	}
}

// emit writes one variant and compiles it when requested.
func (r *Runner) emit(ctx context.Context, log *slog.Logger, w *variant.Writer, v variant.Variant, req Request, report *Report) error {
	path, err := w.Write(v)
	if errors.Is(err, variant.ErrOverwritesSource) {
		return ferrors.WrapError(err, ferrors.CategoryValidation, "output would overwrite the source").
			Fatal().
			WithContext("file", w.Path(v)).
			Build()
	}
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write variant").
			Fatal().
			WithContext("file", w.Path(v)).
			Build()
	}
	report.Files = append(report.Files, path)
	r.recorder.IncVariantsWritten(1)
	log.Info("Wrote variant",
		logfields.File(filepath.Base(path)),
		logfields.Level(v.Level),
		logfields.Flag(v.Flag))

	if !req.Compile {
		return nil
	}
	start := time.Now()
	err = r.compiler.Compile(ctx, path, req.OutputDir)
	r.recorder.ObserveCompileDuration(time.Since(start), err == nil)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryCompile, "compilation failed").
			Fatal().
			WithContext("file", filepath.Base(path)).
			Build()
	}
	return nil
}

// stage times fn and reports its outcome.
func (r *Runner) stage(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	r.recorder.ObserveStageDuration(name, time.Since(start))
	if err != nil {
		r.recorder.IncStageResult(name, metrics.ResultFailed)
		return err
	}
	r.recorder.IncStageResult(name, metrics.ResultSuccess)
	return nil
}

func (r *Runner) record(ctx context.Context, log *slog.Logger, req Request, report *Report, start time.Time, runErr error) {
	if r.history == nil {
		return
	}
	run := history.Run{
		ID:         report.RunID,
		Source:     absPath(req.Source),
		OutputDir:  absPath(req.OutputDir),
		StartedAt:  start,
		FinishedAt: start.Add(report.Duration),
		Status:     history.StatusSucceeded,
		Levels:     report.Mapping.Sorted(),
		Files:      report.Files,
	}
	if runErr != nil {
		run.Status = history.StatusFailed
		run.Error = runErr.Error()
	}
	// A cancelled run is still worth recording.
	if err := r.history.Record(context.WithoutCancel(ctx), run); err != nil {
		log.Warn("Failed to record run history", logfields.Error(err))
	}
}

// absPath resolves p against the working directory, falling back to p.
func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
