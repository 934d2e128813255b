package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	loggerNotConfiguredMessageConstant          = "shell executor requires a logger"
	commandRunnerNotConfiguredMessageConstant   = "shell executor requires a command runner"
	commandFailedTemplateConstant               = "%s exited with code %d"
	commandFailedWithStandardErrorTemplate      = "%s exited with code %d: %s"
	commandExecutionFailedTemplateConstant      = "%s could not be executed: %v"
	commandNameGitConstant                      = "git"
	commandNameGPGConstant                      = "gpg"
	standardErrorSummaryLineSeparatorConstant   = "\n"
	standardErrorSummaryLineReplacementConstant = "; "
)

// CommandName identifies an executable run through the shell executor.
type CommandName string

// Known executables.
const (
	CommandGit CommandName = CommandName(commandNameGitConstant)
	CommandGPG CommandName = CommandName(commandNameGPGConstant)
)

// CommandDetails describes arguments and process settings for a command.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand pairs an executable with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable results of executing a command.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner runs a shell command and reports its result.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

var (
	// ErrLoggerNotConfigured indicates the executor was constructed without a logger.
	ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)
	// ErrCommandRunnerNotConfigured indicates the executor was constructed without a runner.
	ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)
)

// CommandFailedError reports a command that ran and exited with a non-zero code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failed command.
func (failedError CommandFailedError) Error() string {
	standardError := summarizeStandardError(failedError.Result.StandardError)
	if len(standardError) == 0 {
		return fmt.Sprintf(commandFailedTemplateConstant, failedError.Command.Name, failedError.Result.ExitCode)
	}
	return fmt.Sprintf(commandFailedWithStandardErrorTemplate, failedError.Command.Name, failedError.Result.ExitCode, standardError)
}

// CommandExecutionError reports a command that could not be started or awaited.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure.
func (executionError CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionFailedTemplateConstant, executionError.Command.Name, executionError.Cause)
}

// Unwrap exposes the underlying cause.
func (executionError CommandExecutionError) Unwrap() error {
	return executionError.Cause
}

// ShellExecutor runs commands through a CommandRunner and reports lifecycle events.
type ShellExecutor struct {
	runner   CommandRunner
	observer CommandEventObserver
}

// NewShellExecutor constructs an executor that logs structured command events.
func NewShellExecutor(logger *zap.Logger, runner CommandRunner) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if runner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}
	return &ShellExecutor{runner: runner, observer: newStructuredCommandEventObserver(logger)}, nil
}

// WithEventObserver returns a copy of the executor that reports events to the provided observer.
func (executor *ShellExecutor) WithEventObserver(observer CommandEventObserver) *ShellExecutor {
	if observer == nil {
		return executor
	}
	duplicated := *executor
	duplicated.observer = observer
	return &duplicated
}

// Execute runs the command and converts non-zero exit codes into CommandFailedError.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executor.observer.CommandStarted(command)

	executionResult, runError := executor.runner.Run(executionContext, command)
	if runError != nil {
		executor.observer.CommandExecutionFailed(command, runError)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	executor.observer.CommandCompleted(command, executionResult)
	if executionResult.ExitCode != 0 {
		return ExecutionResult{}, CommandFailedError{Command: command, Result: executionResult}
	}

	return executionResult, nil
}

// ExecuteGit runs git with the provided details.
func (executor *ShellExecutor) ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandGit, Details: details})
}

// ExecuteGPG runs gpg with the provided details.
func (executor *ShellExecutor) ExecuteGPG(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandGPG, Details: details})
}

// ExitCode reports the exit code carried by a CommandFailedError.
func ExitCode(err error) (int, bool) {
	var failedError CommandFailedError
	if !errors.As(err, &failedError) {
		return 0, false
	}
	return failedError.Result.ExitCode, true
}

func summarizeStandardError(standardError string) string {
	trimmed := strings.TrimSpace(standardError)
	return strings.ReplaceAll(trimmed, standardErrorSummaryLineSeparatorConstant, standardErrorSummaryLineReplacementConstant)
}
