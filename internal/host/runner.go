package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

// waitDelayAfterKill bounds how long Run waits for output pipes to drain after
// the context kills the child.
const waitDelayAfterKill = 500 * time.Millisecond

// DefaultMaxOutputBytes caps captured output per command (64 KiB).
const DefaultMaxOutputBytes = 64 << 10

const truncationSuffix = "\n...[truncated]"

// Runner executes external programs. Run blocks until the program exits or
// ctx is done; callers bound it with context.WithTimeout.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
	LookPath(file string) (string, error)
}

// CommandError reports a program that could not be started, exited non-zero,
// or was killed by its context.
type CommandError struct {
	Command  string
	ExitCode int
	Output   string
	Err      error
}

// Error returns the formatted error string.
func (e *CommandError) Error() string {
	msg := fmt.Sprintf("host: command %q failed (exit %d)", e.Command, e.ExitCode)
	if e.Output != "" {
		msg += ": " + e.Output
	}
	return msg + ": " + e.Err.Error()
}

// Unwrap returns the underlying exec or context error.
func (e *CommandError) Unwrap() error { return e.Err }

// ExecRunner implements Runner with os/exec.
type ExecRunner struct {
	// MaxOutputBytes limits captured combined output. Default: 64 KiB.
	MaxOutputBytes int64

	// Echo, when set, also receives the program's output as it is produced.
	Echo io.Writer
}

// NewExecRunner returns an ExecRunner with defaults applied.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{MaxOutputBytes: DefaultMaxOutputBytes}
}

// Run executes name with args and returns its trimmed combined output.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	limit := r.MaxOutputBytes
	if limit <= 0 {
		limit = DefaultMaxOutputBytes
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = waitDelayAfterKill

	out := newLimitedWriter(limit)
	var w io.Writer = out
	if r.Echo != nil {
		w = io.MultiWriter(out, r.Echo)
	}
	cmd.Stdout = w
	cmd.Stderr = w

	runErr := cmd.Run()
	output := strings.TrimSpace(collectOutput(out))
	if runErr == nil {
		return output, nil
	}

	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		runErr = fmt.Errorf("%w: %w", ctxErr, runErr)
	}
	return output, &CommandError{
		Command:  strings.TrimSpace(name + " " + strings.Join(args, " ")),
		ExitCode: exitCode,
		Output:   output,
		Err:      runErr,
	}
}

// LookPath resolves file against PATH.
func (r *ExecRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// limitedWriter is an io.Writer that discards bytes beyond a maximum limit.
type limitedWriter struct {
	buf []byte
	max int64
}

func newLimitedWriter(max int64) *limitedWriter {
	return &limitedWriter{max: max}
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	remaining := w.max - int64(len(w.buf))
	if remaining > 0 {
		n := min(int64(len(p)), remaining)
		w.buf = append(w.buf, p[:n]...)
	}
	// Report everything as written so the child never blocks on a full pipe.
	return len(p), nil
}

func (w *limitedWriter) truncated() bool {
	return int64(len(w.buf)) >= w.max
}

func collectOutput(w *limitedWriter) string {
	if w.truncated() {
		return string(w.buf) + truncationSuffix
	}
	return string(w.buf)
}
