package credentials

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/temirov/tidal/internal/execshell"
)

const (
	credentialsDirectoryNameConstant        = "creds"
	credentialFileExtensionConstant         = ".gpg"
	gpgQuietFlagConstant                    = "--quiet"
	gpgBatchFlagConstant                    = "--batch"
	gpgDecryptFlagConstant                  = "--decrypt"
	fileSystemNotConfiguredMessageConstant  = "credential store requires a filesystem"
	decrypterNotConfiguredMessageConstant   = "credential store requires a decrypter"
	gpgExecutorNotConfiguredMessageConstant = "gpg decrypter requires an executor"
)

var (
	// ErrFileSystemNotConfigured indicates the store was constructed without a filesystem.
	ErrFileSystemNotConfigured = errors.New(fileSystemNotConfiguredMessageConstant)
	// ErrDecrypterNotConfigured indicates the store was constructed without a decrypter.
	ErrDecrypterNotConfigured = errors.New(decrypterNotConfiguredMessageConstant)
	// ErrGPGExecutorNotConfigured indicates the decrypter was constructed without an executor.
	ErrGPGExecutorNotConfigured = errors.New(gpgExecutorNotConfiguredMessageConstant)
)

// Source yields the bearer token for a provider base host.
type Source interface {
	Token(executionContext context.Context, host string) (string, error)
}

// Decrypter turns encrypted credential bytes into plaintext.
type Decrypter interface {
	Decrypt(executionContext context.Context, ciphertext []byte) ([]byte, error)
}

// GPGExecutor runs gpg.
type GPGExecutor interface {
	ExecuteGPG(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// GPGDecrypter decrypts credentials with the local gpg agent.
type GPGDecrypter struct {
	executor GPGExecutor
}

// NewGPGDecrypter constructs a decrypter backed by the provided executor.
func NewGPGDecrypter(executor GPGExecutor) (*GPGDecrypter, error) {
	if executor == nil {
		return nil, ErrGPGExecutorNotConfigured
	}
	return &GPGDecrypter{executor: executor}, nil
}

// Decrypt pipes ciphertext through gpg --decrypt.
func (decrypter *GPGDecrypter) Decrypt(executionContext context.Context, ciphertext []byte) ([]byte, error) {
	executionResult, executionError := decrypter.executor.ExecuteGPG(executionContext, execshell.CommandDetails{
		Arguments:     []string{gpgQuietFlagConstant, gpgBatchFlagConstant, gpgDecryptFlagConstant},
		StandardInput: ciphertext,
	})
	if executionError != nil {
		return nil, executionError
	}
	return []byte(executionResult.StandardOutput), nil
}

// DefaultDirectory returns <user-config-dir>/creds.
func DefaultDirectory() (string, error) {
	configurationDirectory, directoryError := os.UserConfigDir()
	if directoryError != nil {
		return "", directoryError
	}
	return filepath.Join(configurationDirectory, credentialsDirectoryNameConstant), nil
}

// FileStore reads per-host encrypted token files.
type FileStore struct {
	fileSystem afero.Fs
	directory  string
	decrypter  Decrypter
}

// NewFileStore constructs a store reading <directory>/<host>.gpg.
func NewFileStore(fileSystem afero.Fs, directory string, decrypter Decrypter) (*FileStore, error) {
	if fileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	if decrypter == nil {
		return nil, ErrDecrypterNotConfigured
	}
	return &FileStore{fileSystem: fileSystem, directory: directory, decrypter: decrypter}, nil
}

// Path returns the credential file path for host.
func (store *FileStore) Path(host string) string {
	return filepath.Join(store.directory, host+credentialFileExtensionConstant)
}

// Token decrypts the credential file for host and returns the trimmed token.
func (store *FileStore) Token(executionContext context.Context, host string) (string, error) {
	ciphertext, readError := afero.ReadFile(store.fileSystem, store.Path(host))
	if readError != nil {
		if errors.Is(readError, os.ErrNotExist) {
			return "", CredentialError{Host: host, Kind: ErrCredentialNotFound}
		}
		return "", CredentialError{Host: host, Kind: ErrCredentialUnreadable, Cause: readError}
	}

	plaintext, decryptError := store.decrypter.Decrypt(executionContext, ciphertext)
	if decryptError != nil {
		return "", CredentialError{Host: host, Kind: ErrDecryptionFailed, Cause: decryptError}
	}

	token := strings.TrimSpace(string(plaintext))
	if len(token) == 0 {
		return "", CredentialError{Host: host, Kind: ErrEmptyCredential}
	}
	return token, nil
}
