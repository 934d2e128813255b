package ui

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/tidal/internal/execshell"
)

const (
	runningMessageTemplateConstant         = "%s"
	finishedMessageTemplateConstant        = "%s: ok"
	exitStatusMessageTemplateConstant      = "%s exited with status %d"
	notStartedMessageTemplateConstant      = "%s could not start: %s"
	workingDirectorySuffixTemplateConstant = " [%s]"
	standardErrorSuffixTemplateConstant    = " (%s)"
	unknownFailureMessageConstant          = "unknown error"
)

// ConsoleCommandEventLogger implements execshell.CommandEventObserver for human-readable output.
type ConsoleCommandEventLogger struct {
	logger *zap.Logger
}

// NewConsoleCommandEventLogger constructs a console observer. A nil logger discards every event.
func NewConsoleCommandEventLogger(logger *zap.Logger) *ConsoleCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleCommandEventLogger{logger: logger}
}

// CommandStarted implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandStarted(command execshell.ShellCommand) {
	eventLogger.emit(zapcore.DebugLevel, fmt.Sprintf(runningMessageTemplateConstant, commandLabel(command)))
}

// CommandCompleted implements execshell.CommandEventObserver.
// A non-zero status is logged at info: git probes such as symbolic-ref fail on purpose.
func (eventLogger *ConsoleCommandEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if result.ExitCode == 0 {
		eventLogger.emit(zapcore.DebugLevel, fmt.Sprintf(finishedMessageTemplateConstant, commandLabel(command)))
		return
	}

	message := fmt.Sprintf(exitStatusMessageTemplateConstant, commandLabel(command), result.ExitCode)
	if standardError := firstLine(result.StandardError); len(standardError) > 0 {
		message += fmt.Sprintf(standardErrorSuffixTemplateConstant, standardError)
	}
	eventLogger.emit(zapcore.InfoLevel, message)
}

// CommandExecutionFailed implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	reason := unknownFailureMessageConstant
	if failure != nil {
		reason = failure.Error()
	}
	eventLogger.emit(zapcore.InfoLevel, fmt.Sprintf(notStartedMessageTemplateConstant, commandLabel(command), reason))
}

func (eventLogger *ConsoleCommandEventLogger) emit(level zapcore.Level, message string) {
	if eventLogger == nil {
		return
	}
	if checkedEntry := eventLogger.logger.Check(level, message); checkedEntry != nil {
		checkedEntry.Write()
	}
}

func commandLabel(command execshell.ShellCommand) string {
	label := execshell.DescribeCommand(command)
	if workingDirectory := strings.TrimSpace(command.Details.WorkingDirectory); len(workingDirectory) > 0 {
		label += fmt.Sprintf(workingDirectorySuffixTemplateConstant, workingDirectory)
	}
	return label
}

func firstLine(text string) string {
	trimmed := strings.TrimSpace(text)
	if newlineIndex := strings.IndexByte(trimmed, '\n'); newlineIndex >= 0 {
		return strings.TrimSpace(trimmed[:newlineIndex])
	}
	return trimmed
}
