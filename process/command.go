package process

import (
	"io"
	"time"
)

// Command configures a subprocess to execute.
type Command struct {
	// Binary is the executable path or name (resolved via PATH).
	Binary string
	// Args are the command-line arguments.
	Args []string
	// Dir is the working directory. If empty, uses the current directory.
	Dir string
	// Env is additional environment variables (key=value), appended to os.Environ.
	Env []string
	// Stdin provides input to the process. May be nil.
	Stdin io.Reader
	// Stream, if set, receives stdout and stderr as they are produced in
	// addition to the captured copies in Result.
	Stream io.Writer
	// GracePeriod is how long to wait after SIGTERM before SIGKILL.
	// Defaults to 5 seconds if zero.
	GracePeriod time.Duration
}

// FromArgv builds a Command from an argv slice such as a registry file's
// "command" list. It returns false for an empty slice.
func FromArgv(argv []string) (Command, bool) {
	if len(argv) == 0 || argv[0] == "" {
		return Command{}, false
	}
	return Command{Binary: argv[0], Args: append([]string(nil), argv[1:]...)}, true
}
