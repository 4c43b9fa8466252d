package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/host-uk/coolifyctl/faults"
	"github.com/host-uk/coolifyctl/internal/cli/common"
)

// Execute runs the command tree and prints the failure, if any, on stderr.
func Execute(deps common.Dependencies) error {
	root := NewRootCommand(deps)
	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintln(root.ErrOrStderr(), strings.TrimSpace(err.Error()))
		return err
	}
	return nil
}

// ExitCodeForError maps error categories to process exit codes.
func ExitCodeForError(err error) int {
	if err == nil {
		return 0
	}

	var typedErr *faults.TypedError
	if !errors.As(err, &typedErr) {
		return 1
	}

	switch typedErr.Category {
	case faults.ValidationError:
		return 2
	case faults.UnknownOperationError:
		return 3
	case faults.HTTPError, faults.APIError:
		return 4
	case faults.SpecLoadError:
		return 5
	case faults.TimeoutError, faults.ConnectionError, faults.TLSError:
		return 6
	default:
		return 1
	}
}
