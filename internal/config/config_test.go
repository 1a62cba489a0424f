package config

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/multitex/internal/cleanup"
	"git.home.luguber.info/inful/multitex/internal/levels"
	"git.home.luguber.info/inful/multitex/internal/outdir"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvEngine, EnvLogLevel, EnvHistory, EnvTimeout, EnvCompile} {
		t.Setenv(k, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.True(t, cfg.Compile.IsEnabled())
	assert.Equal(t, "pdflatex", cfg.Compile.Engine)
	assert.Equal(t, 1, cfg.Compile.Passes)
	assert.Equal(t, outdir.PolicyClean, cfg.Output.Prepare)
	assert.Equal(t, levels.OrderSorted, cfg.Scan.AssignmentOrder)
	assert.Equal(t, cleanup.DefaultExtensions, cfg.Cleanup.Extensions)
	require.NoError(t, cfg.Validate())
}

func TestParse(t *testing.T) {
	clearEnv(t)

	cfg, err := Parse([]byte(`
compile:
  enabled: false
  engine: xelatex
  timeout: 90s
  passes: 2
output:
  prepare: KEEP
scan:
  assignment_order: discovery
cleanup:
  extensions: [".aux", "synctex.gz"]
logging:
  level: debug
  format: json
`))
	require.NoError(t, err)

	assert.False(t, cfg.Compile.IsEnabled())
	assert.Equal(t, "xelatex", cfg.Compile.Engine)
	assert.Equal(t, 90*time.Second, cfg.Compile.Timeout)
	assert.Equal(t, 2, cfg.Compile.Passes)
	assert.Equal(t, outdir.PolicyKeep, cfg.Output.Prepare)
	assert.Equal(t, levels.OrderDiscovery, cfg.Scan.AssignmentOrder)
	assert.Equal(t, []string{"aux", "synctex.gz"}, cfg.Cleanup.Extensions)
	assert.Equal(t, slog.LevelDebug, cfg.Logging.SlogLevel(false))
}

func TestParse_Empty(t *testing.T) {
	clearEnv(t)
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, "pdflatex", cfg.Compile.Engine)
}

func TestParse_Invalid(t *testing.T) {
	clearEnv(t)
	tests := map[string]string{
		"unknown field":   "compile:\n  engin: pdflatex\n",
		"bad policy":      "output:\n  prepare: wipe\n",
		"bad order":       "scan:\n  assignment_order: random\n",
		"bad pattern":     "scan:\n  pattern: '\\d+'\n",
		"negative passes": "compile:\n  passes: -1\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvEngine, "lualatex")
	t.Setenv(EnvTimeout, "5s")
	t.Setenv(EnvCompile, "false")
	t.Setenv(EnvHistory, "/tmp/h.db")

	cfg, err := Parse([]byte("compile:\n  engine: pdflatex\n"))
	require.NoError(t, err)
	assert.Equal(t, "lualatex", cfg.Compile.Engine)
	assert.Equal(t, 5*time.Second, cfg.Compile.Timeout)
	assert.False(t, cfg.Compile.IsEnabled())
	assert.Equal(t, "/tmp/h.db", cfg.History.Path)
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("MY_ENGINE", "xelatex")
	path := filepath.Join(t.TempDir(), "multitex.yaml")
	require.NoError(t, os.WriteFile(path, []byte("compile:\n  engine: ${MY_ENGINE}\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "xelatex", cfg.Compile.Engine)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLoadOrDefault_FallsBack(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, "pdflatex", cfg.Compile.Engine)
}

func TestLoadOrDefault_ReadsDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MULTITEX_ENGINE=xelatex\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultPath), []byte("logging:\n  level: warn\n"), 0o600))
	// godotenv never overrides variables that exist, even when empty.
	require.NoError(t, os.Unsetenv(EnvEngine))

	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, "xelatex", cfg.Compile.Engine)
	assert.Equal(t, LogLevelWarn, cfg.Logging.Level)
}

func TestInit(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "multitex.yaml")
	require.NoError(t, Init(path, false))
	assert.Error(t, Init(path, false))
	require.NoError(t, Init(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "pdflatex", cfg.Compile.Engine)
	assert.Equal(t, 1, cfg.Compile.Passes)
}

func TestLoggingConfig_NewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LoggingConfig{Level: LogLevelInfo, Format: LogFormatJSON}.NewLogger(&buf, false)
	logger.Info("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Equal(t, slog.LevelDebug, LoggingConfig{Level: LogLevelError}.SlogLevel(true))
}
