package credentials

import (
	"errors"
	"fmt"
)

const (
	credentialNotFoundMessageConstant   = "credential not found"
	credentialUnreadableMessageConstant = "credential file unreadable"
	decryptionFailedMessageConstant     = "credential decryption failed"
	emptyCredentialMessageConstant      = "credential is empty"
	credentialErrorTemplateConstant     = "%s for %s"
	credentialCauseTemplateConstant     = "%s for %s: %v"
)

var (
	// ErrCredentialNotFound indicates no credential exists for the host.
	ErrCredentialNotFound = errors.New(credentialNotFoundMessageConstant)
	// ErrCredentialUnreadable indicates the credential file exists but could not be read.
	ErrCredentialUnreadable = errors.New(credentialUnreadableMessageConstant)
	// ErrDecryptionFailed indicates gpg could not decrypt the credential file.
	ErrDecryptionFailed = errors.New(decryptionFailedMessageConstant)
	// ErrEmptyCredential indicates the credential decrypted to an empty token.
	ErrEmptyCredential = errors.New(emptyCredentialMessageConstant)
)

// CredentialError reports a failure to obtain the token for a host.
type CredentialError struct {
	Host  string
	Kind  error
	Cause error
}

// Error describes the failure without exposing credential content.
func (credentialError CredentialError) Error() string {
	if credentialError.Cause == nil {
		return fmt.Sprintf(credentialErrorTemplateConstant, credentialError.Kind.Error(), credentialError.Host)
	}
	return fmt.Sprintf(credentialCauseTemplateConstant, credentialError.Kind.Error(), credentialError.Host, credentialError.Cause)
}

// Is matches the error kind.
func (credentialError CredentialError) Is(target error) bool {
	return target == credentialError.Kind
}

// Unwrap exposes the underlying cause.
func (credentialError CredentialError) Unwrap() error {
	return credentialError.Cause
}
