package config

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/multitex/internal/levels"
	"git.home.luguber.info/inful/multitex/internal/outdir"
)

// Validate normalizes enum fields in place and reports invalid settings.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Compile.Engine) == "" {
		problems = append(problems, "compile.engine must not be empty")
	}
	if c.Compile.Timeout < 0 {
		problems = append(problems, "compile.timeout must not be negative")
	}
	if c.Compile.Passes < 1 {
		problems = append(problems, "compile.passes must be at least 1")
	}

	if p, err := outdir.ParsePolicy(string(c.Output.Prepare)); err != nil {
		problems = append(problems, "output.prepare: "+err.Error())
	} else {
		c.Output.Prepare = p
	}

	if o, err := levels.ParseOrder(string(c.Scan.AssignmentOrder)); err != nil {
		problems = append(problems, "scan.assignment_order: "+err.Error())
	} else {
		c.Scan.AssignmentOrder = o
	}
	if _, err := levels.CompilePattern(c.Scan.Pattern); err != nil {
		problems = append(problems, "scan.pattern: "+err.Error())
	}

	if len(c.Cleanup.Extensions) == 0 {
		problems = append(problems, "cleanup.extensions must not be empty")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
