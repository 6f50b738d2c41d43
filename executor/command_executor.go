package executor

import (
	"bytes"
	"os"
	"os/exec"
	"syscall"

	"github.com/pkg/errors"
)

// Command is one external tool invocation. Arguments are passed as a list,
// never through a shell.
type Command struct {
	Name string
	Args []string
	// Stdout, when set, is the file that receives the tool's standard output.
	Stdout string
}

// Result is the outcome of a Command that could be started.
type Result struct {
	Code   int
	Output []byte
}

// Success reports whether the tool exited with status 0.
func (r Result) Success() bool {
	return r.Code == 0
}

// CommandExecutor interface for dependency injection and improved testability
type CommandExecutor interface {
	Execute(cmd Command) (Result, error)
}

// RealCommandExecutor implements CommandExecutor interface using actual OS calls.
// Calls block until the tool exits; there is no timeout.
type RealCommandExecutor struct{}

func (RealCommandExecutor) Execute(c Command) (Result, error) {
	cmd := exec.Command(c.Name, c.Args...)
	cmd.Stderr = os.Stderr

	var stdout bytes.Buffer
	if c.Stdout != "" {
		f, err := os.Create(c.Stdout)
		if err != nil {
			return Result{}, errors.Wrapf(err, "failed to open %s for %s output", c.Stdout, c.Name)
		}
		defer f.Close()
		cmd.Stdout = f
	} else {
		cmd.Stdout = &stdout
	}

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{Code: exitStatus(exitErr), Output: stdout.Bytes()}, nil
		}
		if errors.Is(err, exec.ErrNotFound) {
			// same status a shell reports for an unknown command
			return Result{Code: 127}, nil
		}
		return Result{}, errors.Wrapf(err, "failed to run %s", c.Name)
	}

	return Result{Output: stdout.Bytes()}, nil
}

// exitStatus is the status a shell would report: the exit code, or 128 plus
// the signal number for a tool killed by a signal.
func exitStatus(exitErr *exec.ExitError) int {
	if code := exitErr.ExitCode(); code >= 0 {
		return code
	}
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return 1
}
