package commands

import (
	"errors"
	"fmt"
	"io"

	"tasker/internal/exitcode"
	"tasker/internal/kv"
	"tasker/internal/service"
)

// reportError prints err to errOut and returns the matching exit code.
func reportError(errOut io.Writer, err error) int {
	switch {
	case errors.Is(err, service.ErrIndexOutOfRange),
		errors.Is(err, service.ErrValidationFailed),
		errors.Is(err, ErrTaskNotFound),
		errors.Is(err, ErrAmbiguousTaskRef):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case errors.Is(err, kv.ErrUnauthenticated):
		fmt.Fprintf(errOut, "error: auth error: %v\n", err)
		return exitcode.AuthError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}
