package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/natefinch/atomic"
)

const exampleConfig = `# multitex configuration
compile:
  enabled: true
  engine: pdflatex
  args: ["-interaction=nonstopmode", "-halt-on-error"]
  # Bound each compiler run; 0 disables the limit.
  timeout: 0s
  passes: 1

output:
  # clean: wipe the output directory first; keep: reuse it as is.
  prepare: clean

scan:
  pattern: '\{\{(\d+)\}\}'
  # sorted or discovery
  assignment_order: sorted

cleanup:
  extensions: [aux, log, out, toc, lof, lot, fls, fdb_latexmk]

logging:
  level: info
  format: text

history:
  # path: .multitex/history.db
`

// Init writes an example configuration file to path.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
	}
	if err := atomic.WriteFile(path, strings.NewReader(exampleConfig)); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
