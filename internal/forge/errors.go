package forge

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	noTokenMessageConstant             = "no token found"
	failedDescriptionMessageConstant   = "failed to read description"
	forbiddenMessageConstant           = "not permitted to create pull request"
	validationMessageConstant          = "pull request failed validation"
	httpMessageConstant                = "http error"
	failedToOpenMessageConstant        = "failed to open pull request in browser"
	repositoryPathMessageConstant      = "remote url does not name an owner and repository"
	requestErrorValueTemplateConstant  = "%s: %s"
	requestErrorCauseTemplateConstant  = "%s: %v"
	requestErrorStatusTemplateConstant = "%s: status %d"
	requestErrorStatusBodyTemplate     = "%s: status %d: %s"
	requestErrorExitCodeConstant       = 2
)

var (
	// ErrNoToken indicates no credential is available for the provider base host.
	ErrNoToken = errors.New(noTokenMessageConstant)
	// ErrFailedDescription indicates the description could not be read from its source.
	ErrFailedDescription = errors.New(failedDescriptionMessageConstant)
	// ErrForbidden indicates the provider rejected the request with 403.
	ErrForbidden = errors.New(forbiddenMessageConstant)
	// ErrValidation indicates the provider rejected the request with 422.
	ErrValidation = errors.New(validationMessageConstant)
	// ErrHTTP indicates any other non-2xx response or a transport failure.
	ErrHTTP = errors.New(httpMessageConstant)
	// ErrFailedToOpen indicates the request was created but the browser could not be launched.
	ErrFailedToOpen = errors.New(failedToOpenMessageConstant)
	// ErrRepositoryPath indicates a remote URL path lacks owner and repository segments.
	ErrRepositoryPath = errors.New(repositoryPathMessageConstant)
)

// RequestError reports a provider adapter failure.
type RequestError struct {
	Kind       error
	Value      string
	StatusCode int
	Body       string
	Cause      error
}

// Error describes the failure.
func (requestError RequestError) Error() string {
	switch {
	case requestError.StatusCode != 0 && len(requestError.Body) > 0:
		return fmt.Sprintf(requestErrorStatusBodyTemplate, requestError.Kind.Error(), requestError.StatusCode, requestError.Body)
	case requestError.StatusCode != 0:
		return fmt.Sprintf(requestErrorStatusTemplateConstant, requestError.Kind.Error(), requestError.StatusCode)
	case len(requestError.Value) > 0:
		return fmt.Sprintf(requestErrorValueTemplateConstant, requestError.Kind.Error(), requestError.Value)
	case requestError.Cause != nil:
		return fmt.Sprintf(requestErrorCauseTemplateConstant, requestError.Kind.Error(), requestError.Cause)
	default:
		return requestError.Kind.Error()
	}
}

// Is matches the error kind.
func (requestError RequestError) Is(target error) bool {
	return target == requestError.Kind
}

// Unwrap exposes the underlying cause.
func (requestError RequestError) Unwrap() error {
	return requestError.Cause
}

// ExitCode returns the process exit code for adapter failures.
func (requestError RequestError) ExitCode() int {
	return requestErrorExitCodeConstant
}

// ErrorForStatus maps a non-2xx provider response to a RequestError.
func ErrorForStatus(statusCode int, body string, cause error) error {
	trimmedBody := strings.TrimSpace(body)
	switch statusCode {
	case http.StatusForbidden:
		return RequestError{Kind: ErrForbidden, StatusCode: statusCode, Body: trimmedBody, Cause: cause}
	case http.StatusUnprocessableEntity:
		return RequestError{Kind: ErrValidation, StatusCode: statusCode, Body: trimmedBody, Cause: cause}
	default:
		return RequestError{Kind: ErrHTTP, StatusCode: statusCode, Body: trimmedBody, Cause: cause}
	}
}

// TransportError wraps a failure that produced no HTTP response.
func TransportError(cause error) error {
	return RequestError{Kind: ErrHTTP, Cause: cause}
}
