package process_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/fmtool/errors"
	"github.com/kbukum/fmtool/process"
)

func TestRunEcho(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{
		Binary: "echo",
		Args:   []string{"hello", "world"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ExitCode != 0 {
		t.Fatalf("expected exit code 0, got %d", result.ExitCode)
	}
	if out := strings.TrimSpace(string(result.Stdout)); out != "hello world" {
		t.Fatalf("expected 'hello world', got %q", out)
	}
}

func TestRunStdin(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{
		Binary: "cat",
		Stdin:  strings.NewReader("from stdin"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out := string(result.Stdout); out != "from stdin" {
		t.Fatalf("expected 'from stdin', got %q", out)
	}
}

func TestRunExitCodeIsExternalServiceError(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{
		Binary: "sh",
		Args:   []string{"-c", "echo first >&2; echo table missing >&2; exit 42"},
	})
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if result.ExitCode != 42 {
		t.Fatalf("expected exit code 42, got %d", result.ExitCode)
	}

	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeExternalService {
		t.Fatalf("expected EXTERNAL_SERVICE_ERROR, got %v", err)
	}
	if appErr.Details["exit_code"] != 42 {
		t.Errorf("expected exit_code detail, got %v", appErr.Details["exit_code"])
	}
	if !strings.Contains(err.Error(), "table missing") {
		t.Errorf("expected stderr tail in error, got %q", err.Error())
	}
}

func TestRunStream(t *testing.T) {
	var live bytes.Buffer
	result, err := process.Run(context.Background(), process.Command{
		Binary: "sh",
		Args:   []string{"-c", "echo out; echo oops >&2"},
		Stream: &live,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(string(result.Stderr)) != "oops" {
		t.Fatalf("expected captured stderr, got %q", result.Stderr)
	}
	if !strings.Contains(live.String(), "out") || !strings.Contains(live.String(), "oops") {
		t.Fatalf("expected both streams forwarded, got %q", live.String())
	}
}

func TestRunContextCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	result, err := process.Run(ctx, process.Command{
		Binary:      "sleep",
		Args:        []string{"10"},
		GracePeriod: 500 * time.Millisecond,
	})
	if !errors.Is(err, errors.ErrCodeCanceled) {
		t.Fatalf("expected CANCELED, got %v", err)
	}
	if result.Duration > 5*time.Second {
		t.Fatalf("process took too long to kill: %v", result.Duration)
	}
}

func TestRunEmptyBinary(t *testing.T) {
	_, err := process.Run(context.Background(), process.Command{})
	if !errors.Is(err, errors.ErrCodeMissingField) {
		t.Fatalf("expected MISSING_FIELD, got %v", err)
	}
}

func TestRunMissingBinary(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{Binary: "fmtool-no-such-binary"})
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	if result.ExitCode != -1 {
		t.Errorf("expected exit code -1 when the process never started, got %d", result.ExitCode)
	}
}

func TestRunEnv(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{
		Binary: "sh",
		Args:   []string{"-c", "echo $FM"},
		Env:    []string{"FM=CONVERSION_EXIT_ALPHA_INPUT"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out := strings.TrimSpace(string(result.Stdout)); out != "CONVERSION_EXIT_ALPHA_INPUT" {
		t.Fatalf("expected FM name, got %q", out)
	}
}

func TestFromArgv(t *testing.T) {
	cmd, ok := process.FromArgv([]string{"python3", "jobs/alpha.py", "--mode", "batch"})
	if !ok || cmd.Binary != "python3" || len(cmd.Args) != 3 {
		t.Errorf("unexpected command %+v", cmd)
	}
	if _, ok := process.FromArgv(nil); ok {
		t.Error("expected empty argv to be rejected")
	}
}

func TestStderrTail(t *testing.T) {
	r := &process.Result{Stderr: []byte("a\nb\nc\n")}
	if got := r.StderrTail(2); got != "b\nc" {
		t.Errorf("expected last two lines, got %q", got)
	}
	if got := (&process.Result{}).StderrTail(3); got != "" {
		t.Errorf("expected empty tail, got %q", got)
	}
}
