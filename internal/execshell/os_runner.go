package execshell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"sort"
)

const environmentAssignmentSeparatorConstant = "="

// OSCommandRunner starts real processes with os/exec.
type OSCommandRunner struct{}

// NewOSCommandRunner constructs an OSCommandRunner.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{}
}

// Run starts the command and waits for it. A process that exits with a
// non-zero status yields a result, not an error; errors mean the process
// could not be started or was interrupted by the context.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	var standardOutput bytes.Buffer
	var standardError bytes.Buffer

	process := exec.CommandContext(executionContext, string(command.Name), command.Details.Arguments...)
	process.Dir = command.Details.WorkingDirectory
	process.Env = mergedEnvironment(command.Details.EnvironmentVariables)
	process.Stdout = &standardOutput
	process.Stderr = &standardError
	if len(command.Details.StandardInput) > 0 {
		process.Stdin = bytes.NewReader(command.Details.StandardInput)
	}

	exitCode, runError := exitStatus(process.Run())
	if runError != nil {
		return ExecutionResult{}, runError
	}
	return ExecutionResult{
		StandardOutput: standardOutput.String(),
		StandardError:  standardError.String(),
		ExitCode:       exitCode,
	}, nil
}

// mergedEnvironment returns nil when there is nothing to add so the child inherits the parent environment.
func mergedEnvironment(additions map[string]string) []string {
	if len(additions) == 0 {
		return nil
	}
	keys := make([]string, 0, len(additions))
	for key := range additions {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	environment := os.Environ()
	for _, key := range keys {
		environment = append(environment, key+environmentAssignmentSeparatorConstant+additions[key])
	}
	return environment
}

func exitStatus(runError error) (int, error) {
	if runError == nil {
		return 0, nil
	}
	var exitError *exec.ExitError
	if errors.As(runError, &exitError) {
		return exitError.ExitCode(), nil
	}
	return 0, runError
}
