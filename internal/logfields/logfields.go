package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeySource     = "source"
	KeyOutputDir  = "output_dir"
	KeyLevel      = "level_key"
	KeyFlag       = "flag"
	KeyFile       = "file"
	KeyPath       = "path"
	KeyStage      = "stage"
	KeyEngine     = "engine"
	KeyDurationMS = "duration_ms"
	KeyCount      = "count"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Source(p string) slog.Attr       { return slog.String(KeySource, p) }
func OutputDir(p string) slog.Attr    { return slog.String(KeyOutputDir, p) }
func Level(l string) slog.Attr        { return slog.String(KeyLevel, l) }
func Flag(f string) slog.Attr         { return slog.String(KeyFlag, f) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Engine(name string) slog.Attr    { return slog.String(KeyEngine, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
