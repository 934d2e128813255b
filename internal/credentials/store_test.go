package credentials_test

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/temirov/tidal/internal/credentials"
	"github.com/temirov/tidal/internal/execshell"
)

const (
	testCredentialDirectoryConstant = "/config/creds"
	testHostConstant                = "api.github.com"
	testCiphertextConstant          = "ciphertext"
)

type stubDecrypter struct {
	plaintext       string
	decryptError    error
	receivedPayload []byte
}

func (decrypter *stubDecrypter) Decrypt(executionContext context.Context, ciphertext []byte) ([]byte, error) {
	decrypter.receivedPayload = ciphertext
	if decrypter.decryptError != nil {
		return nil, decrypter.decryptError
	}
	return []byte(decrypter.plaintext), nil
}

type recordingGPGExecutor struct {
	executionResult execshell.ExecutionResult
	executionError  error
	recordedDetails []execshell.CommandDetails
}

func (executor *recordingGPGExecutor) ExecuteGPG(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedDetails = append(executor.recordedDetails, details)
	return executor.executionResult, executor.executionError
}

func TestFileStoreToken(testInstance *testing.T) {
	testCases := []struct {
		name          string
		writeFile     bool
		decrypter     *stubDecrypter
		expectedToken string
		expectedError error
	}{
		{
			name:          "decrypts_and_trims",
			writeFile:     true,
			decrypter:     &stubDecrypter{plaintext: "secret-token\n"},
			expectedToken: "secret-token",
		},
		{
			name:          "missing_file",
			decrypter:     &stubDecrypter{},
			expectedError: credentials.ErrCredentialNotFound,
		},
		{
			name:          "decrypt_failure",
			writeFile:     true,
			decrypter:     &stubDecrypter{decryptError: errors.New("no secret key")},
			expectedError: credentials.ErrDecryptionFailed,
		},
		{
			name:          "empty_token",
			writeFile:     true,
			decrypter:     &stubDecrypter{plaintext: " \n"},
			expectedError: credentials.ErrEmptyCredential,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			fileSystem := afero.NewMemMapFs()
			store, creationError := credentials.NewFileStore(fileSystem, testCredentialDirectoryConstant, testCase.decrypter)
			require.NoError(testInstance, creationError)
			if testCase.writeFile {
				require.NoError(testInstance, afero.WriteFile(fileSystem, store.Path(testHostConstant), []byte(testCiphertextConstant), 0o600))
			}

			token, tokenError := store.Token(context.Background(), testHostConstant)
			if testCase.expectedError != nil {
				require.ErrorIs(testInstance, tokenError, testCase.expectedError)
				require.NotContains(testInstance, tokenError.Error(), testCiphertextConstant)
				return
			}
			require.NoError(testInstance, tokenError)
			require.Equal(testInstance, testCase.expectedToken, token)
			require.Equal(testInstance, []byte(testCiphertextConstant), testCase.decrypter.receivedPayload)
		})
	}
}

func TestFileStorePath(testInstance *testing.T) {
	store, creationError := credentials.NewFileStore(afero.NewMemMapFs(), testCredentialDirectoryConstant, &stubDecrypter{})
	require.NoError(testInstance, creationError)
	require.Equal(testInstance, "/config/creds/api.github.com.gpg", store.Path(testHostConstant))
}

func TestNewFileStoreValidation(testInstance *testing.T) {
	_, creationError := credentials.NewFileStore(nil, testCredentialDirectoryConstant, &stubDecrypter{})
	require.ErrorIs(testInstance, creationError, credentials.ErrFileSystemNotConfigured)

	_, creationError = credentials.NewFileStore(afero.NewMemMapFs(), testCredentialDirectoryConstant, nil)
	require.ErrorIs(testInstance, creationError, credentials.ErrDecrypterNotConfigured)
}

func TestGPGDecrypterPipesCiphertext(testInstance *testing.T) {
	executor := &recordingGPGExecutor{executionResult: execshell.ExecutionResult{StandardOutput: "token\n"}}
	decrypter, creationError := credentials.NewGPGDecrypter(executor)
	require.NoError(testInstance, creationError)

	plaintext, decryptError := decrypter.Decrypt(context.Background(), []byte(testCiphertextConstant))
	require.NoError(testInstance, decryptError)
	require.Equal(testInstance, "token\n", string(plaintext))
	require.Len(testInstance, executor.recordedDetails, 1)
	require.Equal(testInstance, []string{"--quiet", "--batch", "--decrypt"}, executor.recordedDetails[0].Arguments)
	require.Equal(testInstance, []byte(testCiphertextConstant), executor.recordedDetails[0].StandardInput)
}

func TestGPGDecrypterPropagatesFailures(testInstance *testing.T) {
	executor := &recordingGPGExecutor{executionError: errors.New("gpg exited with code 2")}
	decrypter, creationError := credentials.NewGPGDecrypter(executor)
	require.NoError(testInstance, creationError)

	_, decryptError := decrypter.Decrypt(context.Background(), []byte(testCiphertextConstant))
	require.Error(testInstance, decryptError)
}
