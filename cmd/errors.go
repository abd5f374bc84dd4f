package cmd

import (
	"errors"
	"fmt"
)

var errNotTerminal = errors.New("standard output is not a terminal")

// StartupError is a failure before the browser is shown: configuration,
// logging, tracing, opening the repository, or the terminal.
type StartupError struct {
	Stage string
	Err   error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StartupError) Unwrap() error {
	return e.Err
}

// RenderError is a failure of the running program. The terminal has been
// restored by the time it is returned.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("running program: %v", e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
