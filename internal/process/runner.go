// Package process runs the external desktop tools the pipeline depends on.
//
// Every stage talks to its tool through the Runner interface, which returns a
// structured Result instead of a raw *exec.Cmd. Parsers for each tool's output
// live next to the stage that consumes them, so they can be tested without any
// real process.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

const waitDelay = 2 * time.Second

// Command describes one invocation of an external tool.
type Command struct {
	// Name is the binary to execute, resolved through PATH.
	Name string

	// Args are passed verbatim. They are never interpreted by a shell.
	Args []string

	// Stdin is optional input piped to the process.
	Stdin io.Reader
}

// String renders the command for logs.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result is the outcome of a process that started and ran to completion.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Success reports whether the process exited with status 0.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Runner executes commands.
//
// Run returns an error only when the process could not be executed at all
// (binary missing, start failure, context cancelled). A process that ran and
// exited non-zero is reported through Result.ExitCode with a nil error.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, cmd Command) (Result, error)

// Run calls f(ctx, cmd).
func (f RunnerFunc) Run(ctx context.Context, cmd Command) (Result, error) {
	return f(ctx, cmd)
}

// ExecRunner is the os/exec backed Runner.
type ExecRunner struct{}

// NewExecRunner creates a Runner that spawns real processes.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes cmd and captures its output.
func (*ExecRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	if cmd.Stdin != nil {
		c.Stdin = cmd.Stdin
	}
	// Children that inherit the output pipes must not hold Run open after
	// the context kills the parent.
	c.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	result := Result{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}
	if err == nil {
		return result, nil
	}

	// A cancelled context kills the process; report that as an execution error
	// rather than as whatever signal status the kill produced.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, fmt.Errorf("%s: %w", cmd.Name, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	return result, fmt.Errorf("failed to execute %s: %w", cmd.Name, err)
}

// Prober reports whether a binary can be found.
type Prober interface {
	Available(name string) bool
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(name string) bool

// Available calls f(name).
func (f ProberFunc) Available(name string) bool {
	return f(name)
}

// PathProber resolves binaries through exec.LookPath.
var PathProber = ProberFunc(func(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
})
