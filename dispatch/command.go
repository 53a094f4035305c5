package dispatch

import (
	"context"
	"io"
	"time"

	"github.com/kbukum/fmtool/errors"
	"github.com/kbukum/fmtool/execution"
	"github.com/kbukum/fmtool/logger"
	"github.com/kbukum/fmtool/process"
	"github.com/kbukum/fmtool/resilience"
)

// CommandHandler runs an external program for an FM. The program sees
// FM=<name> in its environment; a non-zero exit fails the handler.
type CommandHandler struct {
	fm    string
	cmd   process.Command
	retry resilience.RetryConfig
}

// NewCommandHandler builds a handler from a registry file entry.
func NewCommandHandler(fm string, spec CommandSpec) (*CommandHandler, error) {
	cmd, ok := process.FromArgv(spec.Command)
	if !ok {
		return nil, errors.MissingField("command").WithDetail(logger.FieldFM, fm)
	}
	cmd.Dir = spec.Dir
	cmd.Env = append(append([]string(nil), spec.Env...), "FM="+Key(fm))
	retry := resilience.DefaultRetryConfig()
	retry.MaxAttempts = spec.Retries + 1
	if spec.Backoff > 0 {
		retry.InitialBackoff = spec.Backoff
	}
	return &CommandHandler{fm: Key(fm), cmd: cmd, retry: retry}, nil
}

// Command returns the process description the handler runs.
func (h *CommandHandler) Command() process.Command { return h.cmd }

// StreamTo mirrors the subprocess output to w while it runs.
func (h *CommandHandler) StreamTo(w io.Writer) *CommandHandler {
	h.cmd.Stream = w
	return h
}

// Attempts is the most times Handle starts the command.
func (h *CommandHandler) Attempts() int { return h.retry.MaxAttempts }

// Handle runs the command, repeating a failed exit up to the configured
// retries, and logs its exit status through ec's logger.
func (h *CommandHandler) Handle(ctx context.Context, ec execution.Context) error {
	retry := h.retry
	retry.OnRetry = func(attempt int, err error, backoff time.Duration) {
		ec.Logger().Warn("command handler failed, retrying", logger.Fields(
			logger.FieldFM, h.fm,
			"attempt", attempt,
			"backoff_ms", backoff.Milliseconds(),
			logger.FieldError, err.Error(),
		))
	}

	res, err := resilience.Retry(ctx, retry, func() (*process.Result, error) {
		return process.Run(ctx, h.cmd)
	})
	if err != nil {
		return err
	}
	ec.Logger().Debug("command handler finished", logger.Fields(
		logger.FieldFM, h.fm,
		"binary", h.cmd.Binary,
		"exit_code", res.ExitCode,
		logger.FieldDuration, res.Duration.Milliseconds(),
	))
	return nil
}
