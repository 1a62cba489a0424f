// Package history persists a record of every generation run.
package history

import (
	"context"
	"time"
)

// Status is the final state of a run.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Run is one recorded invocation.
type Run struct {
	ID         string
	Source     string
	OutputDir  string
	StartedAt  time.Time
	FinishedAt time.Time
	Status     Status
	Levels     []string
	Files      []string
	Error      string
}

// Duration returns how long the run took.
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Store records runs and lists them newest first.
type Store interface {
	Record(ctx context.Context, run Run) error
	List(ctx context.Context, limit int) ([]Run, error)
	Get(ctx context.Context, id string) (Run, error)
	Close() error
}
