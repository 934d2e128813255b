package cli

import "errors"

const (
	successExitCodeConstant        = 0
	genericFailureExitCodeConstant = 1
)

type exitCodeCarrier interface {
	ExitCode() int
}

// ExitCode maps an execution error to the process exit status.
// Errors exposing ExitCode keep their own status; anything else exits with 1.
func ExitCode(executionError error) int {
	if executionError == nil {
		return successExitCodeConstant
	}
	var carrier exitCodeCarrier
	if errors.As(executionError, &carrier) {
		return carrier.ExitCode()
	}
	return genericFailureExitCodeConstant
}
