package pullrequest

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/temirov/tidal/internal/credentials"
	"github.com/temirov/tidal/internal/forge"
	"github.com/temirov/tidal/internal/githubapi"
	"github.com/temirov/tidal/internal/githubauth"
	"github.com/temirov/tidal/internal/gitlabapi"
	"github.com/temirov/tidal/internal/provider"
	"github.com/temirov/tidal/internal/settings"
)

const (
	unsupportedProviderMessageConstant       = "unsupported provider kind"
	credentialDirectoryUnavailableMessage    = "credential directory unavailable, using environment tokens only"
	credentialStoreErrorTemplateConstant     = "unable to prepare credential store: %w"
	unsupportedProviderErrorTemplateConstant = "%w: %s"
	logFieldCredentialDirectoryErrorConstant = "error"
)

// ErrUnsupportedProvider indicates a provider kind without an adapter.
var ErrUnsupportedProvider = errors.New(unsupportedProviderMessageConstant)

// AdapterFactoryDependencies enumerates collaborators shared by every provider adapter.
type AdapterFactoryDependencies struct {
	Logger              *zap.Logger
	GPGExecutor         credentials.GPGExecutor
	FileSystem          afero.Fs
	StandardInput       io.Reader
	EnvironmentLookup   settings.EnvironmentLookup
	CredentialDirectory string
	HTTPClient          *http.Client
}

// NewAdapterFactory returns an AdapterFactory producing credentialed adapters.
// Tokens come from <credential-directory>/<host>.gpg and fall back to the provider's environment variables.
func NewAdapterFactory(dependencies AdapterFactoryDependencies) AdapterFactory {
	return func(selection provider.Selection) (forge.Adapter, error) {
		logger := dependencies.Logger
		if logger == nil {
			logger = zap.NewNop()
		}
		fileSystem := dependencies.FileSystem
		if fileSystem == nil {
			fileSystem = afero.NewOsFs()
		}
		standardInput := dependencies.StandardInput
		if standardInput == nil {
			standardInput = os.Stdin
		}

		primarySource, storeError := newCredentialStore(logger, fileSystem, dependencies.GPGExecutor, dependencies.CredentialDirectory)
		if storeError != nil {
			return nil, storeError
		}

		adapterDependencies := forge.AdapterDependencies{
			Logger:       logger,
			BaseHost:     selection.BaseHost,
			Descriptions: forge.NewDescriptionReader(fileSystem, standardInput),
			HTTPClient:   dependencies.HTTPClient,
		}

		switch selection.Kind {
		case provider.KindGitHub:
			adapterDependencies.Credentials = credentials.NewEnvironmentFallback(primarySource, githubTokenResolverForHost, dependencies.EnvironmentLookup)
			adapter, adapterError := githubapi.NewAdapter(adapterDependencies)
			if adapterError != nil {
				return nil, adapterError
			}
			return adapter, nil
		case provider.KindGitLab:
			adapterDependencies.Credentials = credentials.NewEnvironmentFallback(primarySource, gitlabapi.ResolverForHost, dependencies.EnvironmentLookup)
			adapter, adapterError := gitlabapi.NewAdapter(adapterDependencies)
			if adapterError != nil {
				return nil, adapterError
			}
			return adapter, nil
		default:
			return nil, fmt.Errorf(unsupportedProviderErrorTemplateConstant, ErrUnsupportedProvider, selection.Kind)
		}
	}
}

func githubTokenResolverForHost(apiHost string) credentials.EnvironmentTokenResolver {
	return githubauth.ResolverForHost(apiHost)
}

// newCredentialStore returns nil without error when no credential directory can be determined.
func newCredentialStore(logger *zap.Logger, fileSystem afero.Fs, executor credentials.GPGExecutor, directory string) (credentials.Source, error) {
	if len(directory) == 0 {
		defaultDirectory, directoryError := credentials.DefaultDirectory()
		if directoryError != nil {
			logger.Debug(credentialDirectoryUnavailableMessage, zap.String(logFieldCredentialDirectoryErrorConstant, directoryError.Error()))
			return nil, nil
		}
		directory = defaultDirectory
	}

	decrypter, decrypterError := credentials.NewGPGDecrypter(executor)
	if decrypterError != nil {
		return nil, fmt.Errorf(credentialStoreErrorTemplateConstant, decrypterError)
	}
	store, storeError := credentials.NewFileStore(fileSystem, directory, decrypter)
	if storeError != nil {
		return nil, fmt.Errorf(credentialStoreErrorTemplateConstant, storeError)
	}
	return store, nil
}
