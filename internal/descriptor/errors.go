package descriptor

import (
	"errors"
	"fmt"
)

const (
	invalidRemoteMessageConstant     = "invalid remote"
	invalidBranchMessageConstant     = "invalid branch"
	sameReferenceMessageConstant     = "source and destination are the same reference"
	detachedHeadMessageConstant      = "cannot determine source branch from a detached HEAD"
	referenceErrorTemplateConstant   = "%s: %s"
	referenceErrorExitCodeConstant   = 1
	referenceDisplayTemplateConstant = "%s@%s"
)

var (
	// ErrInvalidRemote indicates a referenced remote is not configured.
	ErrInvalidRemote = errors.New(invalidRemoteMessageConstant)
	// ErrInvalidBranch indicates a referenced branch is not a local branch.
	ErrInvalidBranch = errors.New(invalidBranchMessageConstant)
	// ErrSameRef indicates source and destination name the same branch on the same remote.
	ErrSameRef = errors.New(sameReferenceMessageConstant)
	// ErrDetachedHead indicates no source branch was configured and HEAD is detached.
	ErrDetachedHead = errors.New(detachedHeadMessageConstant)
)

// ReferenceError reports a descriptor resolution or validation failure together with the offending value.
type ReferenceError struct {
	Kind  error
	Value string
}

// Error describes the failure.
func (referenceError ReferenceError) Error() string {
	if len(referenceError.Value) == 0 {
		return referenceError.Kind.Error()
	}
	return fmt.Sprintf(referenceErrorTemplateConstant, referenceError.Kind.Error(), referenceError.Value)
}

// Is matches the error kind.
func (referenceError ReferenceError) Is(target error) bool {
	return target == referenceError.Kind
}

// ExitCode returns the process exit code for descriptor failures.
func (referenceError ReferenceError) ExitCode() int {
	return referenceErrorExitCodeConstant
}
