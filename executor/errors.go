package executor

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrUnknownGoal is returned for a goal name the compressor does not know.
var ErrUnknownGoal = errors.New("unknown build goal")

// ExitError aborts the whole build after an external tool failed. Code is
// the tool's exit status and becomes the process exit status.
type ExitError struct {
	Tool string
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Tool, e.Code)
}

// ExitCode returns the process exit status for err: the tool status for an
// ExitError, 1 for anything else, 0 for nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}
