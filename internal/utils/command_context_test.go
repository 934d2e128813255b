package utils_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/tidal/internal/utils"
)

func TestCommandContextAccessorRoundTrip(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	executionContext := accessor.WithConfigurationFilePath(context.Background(), "/etc/tidal/config.yaml")
	executionContext = accessor.WithWorkingDirectory(executionContext, "/src/widgets")

	configurationFilePath, configurationFilePathAvailable := accessor.ConfigurationFilePath(executionContext)
	require.True(testInstance, configurationFilePathAvailable)
	require.Equal(testInstance, "/etc/tidal/config.yaml", configurationFilePath)

	workingDirectory, workingDirectoryAvailable := accessor.WorkingDirectory(executionContext)
	require.True(testInstance, workingDirectoryAvailable)
	require.Equal(testInstance, "/src/widgets", workingDirectory)
}

func TestCommandContextAccessorMissingValues(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	_, configurationFilePathAvailable := accessor.ConfigurationFilePath(context.Background())
	require.False(testInstance, configurationFilePathAvailable)

	_, workingDirectoryAvailable := accessor.WorkingDirectory(accessor.WithWorkingDirectory(context.Background(), ""))
	require.False(testInstance, workingDirectoryAvailable)
}
