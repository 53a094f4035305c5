package process

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/kbukum/fmtool/errors"
)

const stderrTailLines = 5

// Run executes a subprocess and waits for it to complete.
// If the context is canceled, SIGTERM is sent to the process group first,
// then SIGKILL after GracePeriod.
//
// A non-zero exit yields an EXTERNAL_SERVICE_ERROR carrying the exit code
// and the tail of stderr; cancellation yields CANCELED. The Result is
// returned in both cases.
func Run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.Binary == "" {
		return nil, errors.MissingField("binary")
	}

	gracePeriod := cmd.GracePeriod
	if gracePeriod == 0 {
		gracePeriod = 5 * time.Second
	}

	c := exec.CommandContext(ctx, cmd.Binary, cmd.Args...) //nolint:gosec // running configured handler commands is the purpose of this package
	c.Dir = cmd.Dir
	c.Env = mergeEnv(cmd.Env)

	var stdout, stderr bytes.Buffer
	c.Stdout, c.Stderr = &stdout, &stderr
	if cmd.Stream != nil {
		c.Stdout = io.MultiWriter(&stdout, cmd.Stream)
		c.Stderr = io.MultiWriter(&stderr, cmd.Stream)
	}
	if cmd.Stdin != nil {
		c.Stdin = cmd.Stdin
	}

	// Process group so the whole tree receives the signal.
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	c.Cancel = func() error {
		if c.Process == nil {
			return nil
		}
		return syscall.Kill(-c.Process.Pid, syscall.SIGTERM)
	}
	c.WaitDelay = gracePeriod

	start := time.Now()
	err := c.Run()

	result := &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: -1,
		Duration: time.Since(start),
	}
	if c.ProcessState != nil {
		result.ExitCode = c.ProcessState.ExitCode()
	}

	if err != nil {
		if ctx.Err() != nil {
			return result, errors.Canceled(ctx.Err()).WithDetail("binary", cmd.Binary)
		}
		return result, exitError(cmd, result, err)
	}

	return result, nil
}

func exitError(cmd Command, result *Result, err error) *errors.AppError {
	cause := fmt.Errorf("%s exited with code %d: %w", cmd.Binary, result.ExitCode, err)
	if tail := result.StderrTail(stderrTailLines); tail != "" {
		cause = fmt.Errorf("%s exited with code %d: %s: %w", cmd.Binary, result.ExitCode, tail, err)
	}
	return errors.ExternalServiceError(cmd.Binary, cause).WithDetails(map[string]any{
		"exit_code": result.ExitCode,
		"args":      cmd.Args,
	})
}

// mergeEnv appends additional env vars to the current environment.
func mergeEnv(extra []string) []string {
	if len(extra) == 0 {
		return nil // inherit parent env
	}
	env := os.Environ()
	return append(env, extra...)
}
