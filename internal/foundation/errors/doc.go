// Package errors provides the classified error primitives used across multitex.
//
// Every failure that can end a run is reported as a ClassifiedError so the CLI
// can pick an exit code and log it consistently.
//
// Key features:
//   - ErrorCategory: broad error classification (input, compile, filesystem, ...)
//   - ErrorSeverity: impact level (fatal, error, warning, info)
//   - ClassifiedError: structured error with category, severity and context
//   - ErrorBuilder: fluent API for creating classified errors
//   - CLIErrorAdapter: exit code mapping and presentation
//
// Example usage:
//
//	err := errors.CompileError("pdflatex failed").
//		WithContext("file", texPath).
//		WithCause(runErr).
//		Build()
package errors
