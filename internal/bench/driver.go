package bench

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
)

// Driver runs benchmark binaries for one build directory and returns their
// raw output. It is the measurement endpoint of the comparison loop.
type Driver interface {
	// Run executes the benchmark binary for opt with the given sample count.
	// An empty tests slice means "run everything".
	Run(ctx context.Context, buildDir string, opt OptLevel, numSamples int, tests []string) (string, error)
	// Check delegates the added-benchmark doctor check to the driver binary.
	Check(ctx context.Context, buildDir string, opt OptLevel, tests []string) (string, error)
}

// execCommandContext allows mocking the binary invocation in tests.
var execCommandContext = exec.CommandContext

// ExecDriver implements Driver by invoking <buildDir>/bin/Benchmark_<opt>.
type ExecDriver struct {
	Logger *slog.Logger
}

func NewExecDriver(logger *slog.Logger) *ExecDriver {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExecDriver{Logger: logger}
}

// RunError reports a non-zero benchmark invocation. The exit code is
// propagated all the way to the process exit status.
type RunError struct {
	Binary   string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("benchmark invocation %s failed (exit %d): %v", e.Binary, e.ExitCode, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

func (d *ExecDriver) Run(ctx context.Context, buildDir string, opt OptLevel, numSamples int, tests []string) (string, error) {
	args := []string{fmt.Sprintf("--num-samples=%d", numSamples)}
	args = append(args, tests...)
	return d.invoke(ctx, buildDir, opt, args)
}

func (d *ExecDriver) Check(ctx context.Context, buildDir string, opt OptLevel, tests []string) (string, error) {
	args := []string{"--check"}
	args = append(args, tests...)
	return d.invoke(ctx, buildDir, opt, args)
}

func (d *ExecDriver) invoke(ctx context.Context, buildDir string, opt OptLevel, args []string) (string, error) {
	binary := filepath.Join(buildDir, "bin", opt.BinaryName())
	d.Logger.Debug("invoking benchmark binary", "binary", binary, "args", strings.Join(args, " "))

	cmd := execCommandContext(ctx, binary, args...)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		code := 1
		if exitErr, ok := err.(*exec.ExitError); ok {
			code = exitErr.ExitCode()
		}
		return "", &RunError{
			Binary:   binary,
			ExitCode: code,
			Stderr:   errBuf.String(),
			Err:      err,
		}
	}

	return outBuf.String(), nil
}
