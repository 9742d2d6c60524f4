// Package run executes external commands for pkgsmith.
//
// Package managers are interactive-ish, long-running processes, so the
// default mode inherits the parent's stdio and streams output straight to
// the terminal. Capture mode buffers stdout/stderr for callers that need to
// inspect output. Both modes kill the child when the context is cancelled.
package run

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pkgsmith/pkg/errors"
)

// Result holds the outcome of a captured command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes external commands.
//
// The zero value runs commands in the current directory with the inherited
// environment and the default logger. A Runner is safe for concurrent use;
// its fields must not be mutated after first use.
type Runner struct {
	// Dir is the working directory for commands. Empty inherits the
	// current directory.
	Dir string
	// Env holds extra KEY=VALUE pairs appended to the inherited
	// environment.
	Env []string
	// Logger echoes commands at debug level before running them.
	Logger *log.Logger
}

// New creates a Runner with the given logger.
func New(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Run executes a command with stdio inherited from the parent process.
// A non-zero exit is reported as PROCESS_FAILED; a binary that cannot be
// found as COMMAND_NOT_FOUND. Context cancellation kills the child and
// returns the context error.
func (r *Runner) Run(ctx context.Context, name string, args ...string) error {
	cmd := r.command(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	return r.wait(ctx, cmd, name)
}

// Capture executes a command buffering its output. The Result is returned
// even when the command exits non-zero, alongside the PROCESS_FAILED error,
// so callers can inspect stderr.
func (r *Runner) Capture(ctx context.Context, name string, args ...string) (*Result, error) {
	cmd := r.command(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := r.wait(ctx, cmd, name)

	result := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}
	return result, err
}

// CommandExists reports whether a binary is available on PATH.
func CommandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func (r *Runner) command(ctx context.Context, name string, args ...string) *exec.Cmd {
	logger := r.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Debug("+ " + strings.Join(append([]string{name}, args...), " "))

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}
	return cmd
}

func (r *Runner) wait(ctx context.Context, cmd *exec.Cmd, name string) error {
	err := cmd.Run()
	if err == nil {
		return nil
	}

	// A cancelled context kills the child; surface the cancellation
	// rather than the resulting signal exit.
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		return errors.New(errors.ErrCodeProcessFailed, "%s exited with status %d", name, exitErr.ExitCode())
	}
	if stderrors.Is(err, exec.ErrNotFound) {
		return errors.Wrap(errors.ErrCodeCommandNotFound, err, "command not found: %s", name)
	}
	return errors.Wrap(errors.ErrCodeProcessFailed, err, "running %s", name)
}
