package forge

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/temirov/tidal/internal/credentials"
)

const (
	adapterLoggerNotConfiguredMessage       = "adapter requires a logger"
	adapterCredentialsNotConfiguredMessage  = "adapter requires a credential source"
	adapterDescriptionsNotConfiguredMessage = "adapter requires a description reader"
	adapterBaseHostNotConfiguredMessage     = "adapter requires a base host"
)

var (
	// ErrAdapterLoggerNotConfigured indicates missing adapter logger.
	ErrAdapterLoggerNotConfigured = errors.New(adapterLoggerNotConfiguredMessage)
	// ErrAdapterCredentialsNotConfigured indicates missing credential source.
	ErrAdapterCredentialsNotConfigured = errors.New(adapterCredentialsNotConfiguredMessage)
	// ErrAdapterDescriptionsNotConfigured indicates missing description reader.
	ErrAdapterDescriptionsNotConfigured = errors.New(adapterDescriptionsNotConfiguredMessage)
	// ErrAdapterBaseHostNotConfigured indicates an empty API base host.
	ErrAdapterBaseHostNotConfigured = errors.New(adapterBaseHostNotConfiguredMessage)
)

// DescriptionSourceReader reads request bodies.
type DescriptionSourceReader interface {
	Read(source DescriptionSource) (string, error)
}

// AdapterDependencies are the collaborators shared by provider adapters.
// A nil HTTPClient selects a pooled client without shared global state.
type AdapterDependencies struct {
	Logger       *zap.Logger
	BaseHost     string
	Credentials  credentials.Source
	Descriptions DescriptionSourceReader
	HTTPClient   *http.Client
}

// Validate reports the first missing dependency.
func (dependencies AdapterDependencies) Validate() error {
	switch {
	case dependencies.Logger == nil:
		return ErrAdapterLoggerNotConfigured
	case dependencies.Credentials == nil:
		return ErrAdapterCredentialsNotConfigured
	case dependencies.Descriptions == nil:
		return ErrAdapterDescriptionsNotConfigured
	case len(dependencies.BaseHost) == 0:
		return ErrAdapterBaseHostNotConfigured
	default:
		return nil
	}
}
