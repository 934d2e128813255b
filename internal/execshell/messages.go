package execshell

import (
	"fmt"
	"strings"
)

const (
	gitRevParseSubcommandConstant     = "rev-parse"
	gitRemoteSubcommandConstant       = "remote"
	gitRemoteGetURLSubcommandConstant = "get-url"
	gitForEachRefSubcommandConstant   = "for-each-ref"
	gitSymbolicRefSubcommandConstant  = "symbolic-ref"
	gitConfigSubcommandConstant       = "config"
	gpgDecryptFlagConstant            = "--decrypt"
	commandArgumentsSeparatorConstant = " "
)

const (
	gitRepositoryRootDescriptionConstant      = "Locating repository root"
	gitRemoteListDescriptionConstant          = "Listing remotes"
	gitRemoteURLDescriptionTemplateConstant   = "Reading push URL of remote %s"
	gitLocalBranchesDescriptionConstant       = "Listing local branches"
	gitCurrentBranchDescriptionConstant       = "Identifying current branch"
	gitConfigurationDescriptionConstant       = "Reading git configuration"
	gpgDecryptDescriptionConstant             = "Decrypting credential"
	genericCommandDescriptionTemplateConstant = "Running %s"
	genericCommandLabelTemplateConstant       = "%s %s"
)

// DescribeCommand returns a short human-readable description of the command.
func DescribeCommand(command ShellCommand) string {
	arguments := command.Details.Arguments
	switch command.Name {
	case CommandGit:
		if description, known := describeGitCommand(arguments); known {
			return description
		}
	case CommandGPG:
		for _, argument := range arguments {
			if argument == gpgDecryptFlagConstant {
				return gpgDecryptDescriptionConstant
			}
		}
	}
	return fmt.Sprintf(genericCommandDescriptionTemplateConstant, CommandLabel(command))
}

// CommandLabel renders the executable and its arguments on a single line.
func CommandLabel(command ShellCommand) string {
	if len(command.Details.Arguments) == 0 {
		return string(command.Name)
	}
	return fmt.Sprintf(genericCommandLabelTemplateConstant, command.Name, strings.Join(command.Details.Arguments, commandArgumentsSeparatorConstant))
}

func describeGitCommand(arguments []string) (string, bool) {
	if len(arguments) == 0 {
		return "", false
	}
	switch arguments[0] {
	case gitRevParseSubcommandConstant:
		return gitRepositoryRootDescriptionConstant, true
	case gitRemoteSubcommandConstant:
		if len(arguments) > 1 && arguments[1] == gitRemoteGetURLSubcommandConstant {
			return fmt.Sprintf(gitRemoteURLDescriptionTemplateConstant, arguments[len(arguments)-1]), true
		}
		return gitRemoteListDescriptionConstant, true
	case gitForEachRefSubcommandConstant:
		return gitLocalBranchesDescriptionConstant, true
	case gitSymbolicRefSubcommandConstant:
		return gitCurrentBranchDescriptionConstant, true
	case gitConfigSubcommandConstant:
		return gitConfigurationDescriptionConstant, true
	default:
		return "", false
	}
}
