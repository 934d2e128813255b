package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/tidal/internal/execshell"
)

const (
	gitRevParseSubcommandConstant        = "rev-parse"
	gitShowToplevelFlagConstant          = "--show-toplevel"
	gitRemoteSubcommandConstant          = "remote"
	gitGetURLSubcommandConstant          = "get-url"
	gitPushFlagConstant                  = "--push"
	gitForEachRefSubcommandConstant      = "for-each-ref"
	gitShortRefnameFormatConstant        = "--format=%(refname:short)"
	gitLocalBranchNamespaceConstant      = "refs/heads/"
	gitSymbolicRefSubcommandConstant     = "symbolic-ref"
	gitQuietFlagConstant                 = "--quiet"
	gitShortFlagConstant                 = "--short"
	gitHeadReferenceConstant             = "HEAD"
	gitConfigSubcommandConstant          = "config"
	gitListFlagConstant                  = "--list"
	gitNullTerminatedFlagConstant        = "-z"
	remoteSectionConstant                = "remote"
	pushKeyConstant                      = "push"
	detachedHeadExitCodeConstant         = 1
	notRepositoryExitCodeConstant        = 32
	executorNotConfiguredMessageConstant = "git executor not configured"
	notRepositoryMessageConstant         = "not a git repository"
	repositoryErrorTemplateConstant      = "%s: %s"
	inspectionErrorTemplateConstant      = "%s: %w"
	rootInspectionDescriptionConstant    = "locate repository root"
	remoteInspectionDescriptionConstant  = "list remotes"
	pushURLInspectionTemplateConstant    = "read push url of remote %s"
	branchInspectionDescriptionConstant  = "list local branches"
	headInspectionDescriptionConstant    = "identify current branch"
	configInspectionDescriptionConstant  = "read git configuration"
	lineSeparatorConstant                = "\n"
)

var (
	// ErrNotRepository indicates the working directory is not inside a git repository.
	ErrNotRepository = errors.New(notRepositoryMessageConstant)
	// ErrGitExecutorNotConfigured indicates the inspector was constructed without an executor.
	ErrGitExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
)

// RepositoryError reports that a directory could not be used as a repository.
type RepositoryError struct {
	Path  string
	Cause error
}

// Error describes the failure.
func (repositoryError RepositoryError) Error() string {
	return fmt.Sprintf(repositoryErrorTemplateConstant, notRepositoryMessageConstant, repositoryError.Path)
}

// Is matches ErrNotRepository.
func (repositoryError RepositoryError) Is(target error) bool {
	return target == ErrNotRepository
}

// Unwrap exposes the git failure.
func (repositoryError RepositoryError) Unwrap() error {
	return repositoryError.Cause
}

// ExitCode returns the process exit code for repository errors.
func (repositoryError RepositoryError) ExitCode() int {
	return notRepositoryExitCodeConstant
}

// GitExecutor exposes git command execution.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryInspector reads repository state through git.
type RepositoryInspector struct {
	executor GitExecutor
}

// NewRepositoryInspector constructs an inspector backed by the provided executor.
func NewRepositoryInspector(executor GitExecutor) (*RepositoryInspector, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &RepositoryInspector{executor: executor}, nil
}

// Inspect captures a Snapshot of the repository containing workingDirectory.
func (inspector *RepositoryInspector) Inspect(executionContext context.Context, workingDirectory string) (Snapshot, error) {
	rootPath, rootError := inspector.runGit(executionContext, workingDirectory, gitRevParseSubcommandConstant, gitShowToplevelFlagConstant)
	if rootError != nil {
		var failedError execshell.CommandFailedError
		if errors.As(rootError, &failedError) {
			return Snapshot{}, RepositoryError{Path: workingDirectory, Cause: rootError}
		}
		return Snapshot{}, fmt.Errorf(inspectionErrorTemplateConstant, rootInspectionDescriptionConstant, rootError)
	}
	rootPath = strings.TrimSpace(rootPath)

	remoteOutput, remoteError := inspector.runGit(executionContext, rootPath, gitRemoteSubcommandConstant)
	if remoteError != nil {
		return Snapshot{}, fmt.Errorf(inspectionErrorTemplateConstant, remoteInspectionDescriptionConstant, remoteError)
	}

	configurationOutput, configurationError := inspector.runGit(executionContext, rootPath, gitConfigSubcommandConstant, gitListFlagConstant, gitNullTerminatedFlagConstant)
	if configurationError != nil {
		return Snapshot{}, fmt.Errorf(inspectionErrorTemplateConstant, configInspectionDescriptionConstant, configurationError)
	}
	configuration := ParseConfigurationList(configurationOutput)

	remoteNames := splitLines(remoteOutput)
	remotes := make([]Remote, 0, len(remoteNames))
	for _, remoteName := range remoteNames {
		pushURL, pushURLError := inspector.runGit(executionContext, rootPath, gitRemoteSubcommandConstant, gitGetURLSubcommandConstant, gitPushFlagConstant, remoteName)
		if pushURLError != nil {
			return Snapshot{}, fmt.Errorf(inspectionErrorTemplateConstant, fmt.Sprintf(pushURLInspectionTemplateConstant, remoteName), pushURLError)
		}
		remotes = append(remotes, Remote{
			Name:         remoteName,
			PushURL:      strings.TrimSpace(pushURL),
			PushRefspecs: configuration.Values(remoteSectionConstant, remoteName, pushKeyConstant),
		})
	}

	branchOutput, branchError := inspector.runGit(executionContext, rootPath, gitForEachRefSubcommandConstant, gitShortRefnameFormatConstant, gitLocalBranchNamespaceConstant)
	if branchError != nil {
		return Snapshot{}, fmt.Errorf(inspectionErrorTemplateConstant, branchInspectionDescriptionConstant, branchError)
	}

	currentBranch, headError := inspector.runGit(executionContext, rootPath, gitSymbolicRefSubcommandConstant, gitQuietFlagConstant, gitShortFlagConstant, gitHeadReferenceConstant)
	if headError != nil {
		exitCode, exited := execshell.ExitCode(headError)
		if !exited || exitCode != detachedHeadExitCodeConstant {
			return Snapshot{}, fmt.Errorf(inspectionErrorTemplateConstant, headInspectionDescriptionConstant, headError)
		}
		currentBranch = ""
	}

	return Snapshot{
		RootPath:      rootPath,
		Remotes:       remotes,
		LocalBranches: splitLines(branchOutput),
		CurrentBranch: strings.TrimSpace(currentBranch),
		Configuration: configuration,
	}, nil
}

func (inspector *RepositoryInspector) runGit(executionContext context.Context, workingDirectory string, arguments ...string) (string, error) {
	executionResult, executionError := inspector.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: workingDirectory,
	})
	if executionError != nil {
		return "", executionError
	}
	return executionResult.StandardOutput, nil
}

func splitLines(output string) []string {
	lines := make([]string, 0)
	for _, line := range strings.Split(output, lineSeparatorConstant) {
		trimmedLine := strings.TrimSpace(line)
		if len(trimmedLine) > 0 {
			lines = append(lines, trimmedLine)
		}
	}
	return lines
}
