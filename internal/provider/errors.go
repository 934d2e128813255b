package provider

import (
	"errors"
	"fmt"
)

const (
	noRemotesMessageConstant        = "no remotes are configured"
	invalidPinMessageConstant       = "pinned host is not in remotes"
	divergingRemotesMessageConstant = "all remotes do not have the same host"
	noDriverFoundMessageConstant    = "failed to find driver"
	unknownDriverMessageConstant    = "unknown driver"
	malformedHostMessageConstant    = "malformed host"
	detectionErrorTemplateConstant  = "%s: %s"
	detectionErrorExitCodeConstant  = 5
)

var (
	// ErrNoRemotes indicates the repository has no configured remotes.
	ErrNoRemotes = errors.New(noRemotesMessageConstant)
	// ErrInvalidPin indicates the pinned host matches no remote.
	ErrInvalidPin = errors.New(invalidPinMessageConstant)
	// ErrDivergingRemotes indicates remotes do not share exactly one host.
	ErrDivergingRemotes = errors.New(divergingRemotesMessageConstant)
	// ErrNoDriverFound indicates neither configuration nor the well-known table names a provider for the host.
	ErrNoDriverFound = errors.New(noDriverFoundMessageConstant)
	// ErrUnknownDriver indicates the configured driver name is not a supported provider kind.
	ErrUnknownDriver = errors.New(unknownDriverMessageConstant)
	// ErrMalformedHost indicates the configured host override is not valid UTF-8.
	ErrMalformedHost = errors.New(malformedHostMessageConstant)
)

// DetectionError reports a provider detection failure with the offending value.
type DetectionError struct {
	Kind  error
	Value string
}

// Error describes the failure.
func (detectionError DetectionError) Error() string {
	if len(detectionError.Value) == 0 {
		return detectionError.Kind.Error()
	}
	return fmt.Sprintf(detectionErrorTemplateConstant, detectionError.Kind.Error(), detectionError.Value)
}

// Is matches the error kind.
func (detectionError DetectionError) Is(target error) bool {
	return target == detectionError.Kind
}

// ExitCode returns the process exit code for detection failures.
func (detectionError DetectionError) ExitCode() int {
	return detectionErrorExitCodeConstant
}
