package pullrequest

import (
	"context"
	"io"
	"os"
	"runtime"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/tidal/internal/execshell"
	"github.com/temirov/tidal/internal/forge"
	"github.com/temirov/tidal/internal/gitrepo"
	"github.com/temirov/tidal/internal/settings"
	"github.com/temirov/tidal/internal/ui"
	"github.com/temirov/tidal/internal/utils"
)

// LoggerProvider yields a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandExecutor runs git, gpg and the browser opener.
type CommandExecutor interface {
	Execute(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error)
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteGPG(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// CommandDependencies carries the collaborators shared by the pull request commands.
// Unset fields fall back to the process environment, the operating system file system and real executables.
type CommandDependencies struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
	Executor                     CommandExecutor
	EnvironmentLookup            settings.EnvironmentLookup
	FileSystem                   afero.Fs
	StandardInput                io.Reader
	AdapterFactory               AdapterFactory
	Opener                       URLOpener
	WorkingDirectory             string
	OperatingSystem              string
}

func (dependencies CommandDependencies) resolveConfiguration() CommandConfiguration {
	if dependencies.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return dependencies.ConfigurationProvider().Sanitize()
}

func (dependencies CommandDependencies) resolveLogger() *zap.Logger {
	if dependencies.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := dependencies.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (dependencies CommandDependencies) resolveExecutor(logger *zap.Logger) (CommandExecutor, error) {
	if dependencies.Executor != nil {
		return dependencies.Executor, nil
	}

	shellExecutor, creationError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner())
	if creationError != nil {
		return nil, creationError
	}
	if dependencies.HumanReadableLoggingProvider != nil && dependencies.HumanReadableLoggingProvider() {
		shellExecutor = shellExecutor.WithEventObserver(ui.NewConsoleCommandEventLogger(logger))
	}
	return shellExecutor, nil
}

func (dependencies CommandDependencies) resolveFileSystem() afero.Fs {
	if dependencies.FileSystem == nil {
		return afero.NewOsFs()
	}
	return dependencies.FileSystem
}

func (dependencies CommandDependencies) resolveStandardInput(command *cobra.Command) io.Reader {
	if dependencies.StandardInput != nil {
		return dependencies.StandardInput
	}
	if command != nil {
		return command.InOrStdin()
	}
	return os.Stdin
}

func (dependencies CommandDependencies) resolveWorkingDirectory(command *cobra.Command) string {
	if len(dependencies.WorkingDirectory) > 0 {
		return dependencies.WorkingDirectory
	}
	if command != nil {
		if workingDirectory, available := utils.NewCommandContextAccessor().WorkingDirectory(command.Context()); available {
			return workingDirectory
		}
	}
	if workingDirectory, workingDirectoryError := os.Getwd(); workingDirectoryError == nil {
		return workingDirectory
	}
	return ""
}

func (dependencies CommandDependencies) resolveAdapterFactory(command *cobra.Command, logger *zap.Logger, executor CommandExecutor) AdapterFactory {
	if dependencies.AdapterFactory != nil {
		return dependencies.AdapterFactory
	}
	return NewAdapterFactory(AdapterFactoryDependencies{
		Logger:            logger,
		GPGExecutor:       executor,
		FileSystem:        dependencies.resolveFileSystem(),
		StandardInput:     dependencies.resolveStandardInput(command),
		EnvironmentLookup: dependencies.EnvironmentLookup,
	})
}

func (dependencies CommandDependencies) resolveOpener(executor CommandExecutor) (URLOpener, error) {
	if dependencies.Opener != nil {
		return dependencies.Opener, nil
	}
	operatingSystem := dependencies.OperatingSystem
	if len(operatingSystem) == 0 {
		operatingSystem = runtime.GOOS
	}
	opener, openerError := forge.NewBrowserOpener(executor, operatingSystem)
	if openerError != nil {
		return nil, openerError
	}
	return opener, nil
}

func (dependencies CommandDependencies) newService(command *cobra.Command, logger *zap.Logger) (*Service, error) {
	executor, executorError := dependencies.resolveExecutor(logger)
	if executorError != nil {
		return nil, executorError
	}

	inspector, inspectorError := gitrepo.NewRepositoryInspector(executor)
	if inspectorError != nil {
		return nil, inspectorError
	}

	opener, openerError := dependencies.resolveOpener(executor)
	if openerError != nil {
		return nil, openerError
	}

	return NewService(ServiceDependencies{
		Logger:            logger,
		Inspector:         inspector,
		EnvironmentLookup: dependencies.EnvironmentLookup,
		AdapterFactory:    dependencies.resolveAdapterFactory(command, logger, executor),
		Opener:            opener,
		Output:            command.OutOrStdout(),
	})
}
