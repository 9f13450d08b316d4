// Package exec provides abstractions for command execution.
// This package enables testable code by allowing native OS utilities to be mocked.
package exec

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os/exec"
	"time"
)

// CommandExecutor defines an interface for executing shell commands.
// This abstraction allows for mocking CLI tool behavior in tests.
type CommandExecutor interface {
	// Execute runs a command with the given context and arguments.
	// Returns stdout, stderr, and any error that occurred.
	Execute(ctx context.Context, name string, args ...string) (stdout []byte, stderr []byte, err error)
}

// WaitDelay bounds how long a cancelled command may keep its output pipes
// open, e.g. when sudo is killed but the child it spawned is not.
const WaitDelay = time.Second

// RealCommandExecutor executes actual shell commands using os/exec.
// This is the production implementation.
type RealCommandExecutor struct{}

// Execute runs an actual shell command.
func (r *RealCommandExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = WaitDelay
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// DefaultExecutor returns the standard production executor.
// This is used as the default when no executor is injected.
func DefaultExecutor() CommandExecutor {
	return &RealCommandExecutor{}
}

// TimeoutExecutor bounds every invocation of the wrapped executor.
// A zero Timeout disables the bound.
type TimeoutExecutor struct {
	Next    CommandExecutor
	Timeout time.Duration
}

// WithTimeout wraps next so each command gets at most timeout to finish.
func WithTimeout(next CommandExecutor, timeout time.Duration) CommandExecutor {
	if timeout <= 0 {
		return next
	}
	return &TimeoutExecutor{Next: next, Timeout: timeout}
}

// Execute runs the command under a per-invocation deadline.
func (t *TimeoutExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	if t.Timeout <= 0 {
		return t.Next.Execute(ctx, name, args...)
	}
	ctx, cancel := context.WithTimeout(ctx, t.Timeout)
	defer cancel()

	stdout, stderr, err := t.Next.Execute(ctx, name, args...)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = &TimeoutError{Command: name, Timeout: t.Timeout, Err: err}
	}
	return stdout, stderr, err
}

// TimeoutError reports a command killed by TimeoutExecutor.
type TimeoutError struct {
	Command string
	Timeout time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	return "command '" + e.Command + "' timed out after " + e.Timeout.String()
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, context.DeadlineExceeded) match a timeout.
func (e *TimeoutError) Is(target error) bool {
	return target == context.DeadlineExceeded
}

// Invocation is the outcome of a single external command call.
type Invocation struct {
	Command  string
	Args     []string
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	Err      error
}

// Failed reports whether the command did not complete successfully.
func (i Invocation) Failed() bool {
	return i.Err != nil
}

// Combined returns stdout followed by stderr.
func (i Invocation) Combined() string {
	if len(i.Stderr) == 0 {
		return string(i.Stdout)
	}
	if len(i.Stdout) == 0 {
		return string(i.Stderr)
	}
	return string(i.Stdout) + "\n" + string(i.Stderr)
}

// Run executes one command and captures it as an Invocation.
func Run(ctx context.Context, executor CommandExecutor, name string, args ...string) Invocation {
	stdout, stderr, err := executor.Execute(ctx, name, args...)
	inv := Invocation{
		Command: name,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		inv.ExitCode = exitErr.ExitCode()
	default:
		inv.ExitCode = -1
	}
	return inv
}

// IsNotFound reports whether err means the binary could not be located.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}
