package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
	ResultSkipped ResultLabel = "skipped"
)

// Recorder defines observability hooks for runs, stages and compiler calls.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveRunDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncRunOutcome(result ResultLabel)
	ObserveCompileDuration(d time.Duration, success bool)
	IncVariantsWritten(n int)
	IncByproductsRemoved(n int)
	SetLevels(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveRunDuration(time.Duration)           {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncRunOutcome(ResultLabel)                  {}
func (NoopRecorder) ObserveCompileDuration(time.Duration, bool) {}
func (NoopRecorder) IncVariantsWritten(int)                     {}
func (NoopRecorder) IncByproductsRemoved(int)                   {}
func (NoopRecorder) SetLevels(int)                              {}
