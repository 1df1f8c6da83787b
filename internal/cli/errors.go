package cli

import (
	"errors"
	"fmt"
)

// Process exit codes. Per-file detection failures never change the exit code.
const (
	ExitCodeOK      = 0
	ExitCodeError   = 1
	ExitCodeConfig  = 2
	ExitCodeResolve = 3
)

// ExitError carries the process exit code for a failed invocation.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%v (exit code %d)", e.Err, e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

func configError(err error) error {
	return &ExitError{Code: ExitCodeConfig, Err: err}
}

func resolveError(err error) error {
	return &ExitError{Code: ExitCodeResolve, Err: err}
}

// ExitCode maps err to a process exit code: 0 for nil, the carried code for
// an ExitError anywhere in the chain, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return ExitCodeOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCodeError
}
