package execshell

import "go.uber.org/zap"

const (
	commandStartedLogMessageConstant   = "command started"
	commandCompletedLogMessageConstant = "command completed"
	commandFailedLogMessageConstant    = "command failed to execute"
	logFieldCommandNameConstant        = "command"
	logFieldArgumentsConstant          = "arguments"
	logFieldWorkingDirectoryConstant   = "working_directory"
	logFieldExitCodeConstant           = "exit_code"
	logFieldDescriptionConstant        = "description"
)

// CommandEventObserver receives lifecycle notifications for shell command execution.
type CommandEventObserver interface {
	// CommandStarted notifies observers that command execution is beginning.
	CommandStarted(command ShellCommand)
	// CommandCompleted notifies observers that command execution finished and supplies the result.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed reports unexpected failures prior to receiving an execution result.
	CommandExecutionFailed(command ShellCommand, failure error)
}

// structuredCommandEventObserver records command events as structured zap entries.
// Command output is never logged because gpg output carries credentials.
type structuredCommandEventObserver struct {
	logger *zap.Logger
}

func newStructuredCommandEventObserver(logger *zap.Logger) structuredCommandEventObserver {
	return structuredCommandEventObserver{logger: logger}
}

func (observer structuredCommandEventObserver) CommandStarted(command ShellCommand) {
	observer.logger.Debug(
		commandStartedLogMessageConstant,
		zap.String(logFieldCommandNameConstant, string(command.Name)),
		zap.Strings(logFieldArgumentsConstant, command.Details.Arguments),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
		zap.String(logFieldDescriptionConstant, DescribeCommand(command)),
	)
}

func (observer structuredCommandEventObserver) CommandCompleted(command ShellCommand, result ExecutionResult) {
	observer.logger.Debug(
		commandCompletedLogMessageConstant,
		zap.String(logFieldCommandNameConstant, string(command.Name)),
		zap.Int(logFieldExitCodeConstant, result.ExitCode),
	)
}

func (observer structuredCommandEventObserver) CommandExecutionFailed(command ShellCommand, failure error) {
	observer.logger.Warn(
		commandFailedLogMessageConstant,
		zap.String(logFieldCommandNameConstant, string(command.Name)),
		zap.Error(failure),
	)
}
