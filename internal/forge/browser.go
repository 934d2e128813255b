package forge

import (
	"context"
	"errors"

	"github.com/temirov/tidal/internal/execshell"
)

const (
	darwinOperatingSystemConstant      = "darwin"
	windowsOperatingSystemConstant     = "windows"
	darwinOpenerConstant               = "open"
	windowsOpenerConstant              = "rundll32"
	windowsOpenerHandlerConstant       = "url.dll,FileProtocolHandler"
	linuxOpenerConstant                = "xdg-open"
	openerExecutorNotConfiguredMessage = "browser opener requires an executor"
)

// ErrOpenerExecutorNotConfigured indicates the opener was constructed without an executor.
var ErrOpenerExecutorNotConfigured = errors.New(openerExecutorNotConfiguredMessage)

// CommandExecutor runs arbitrary commands.
type CommandExecutor interface {
	Execute(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error)
}

// BrowserOpener launches the platform URL handler.
type BrowserOpener struct {
	executor        CommandExecutor
	operatingSystem string
}

// NewBrowserOpener constructs an opener for the operating system named as in runtime.GOOS.
func NewBrowserOpener(executor CommandExecutor, operatingSystem string) (*BrowserOpener, error) {
	if executor == nil {
		return nil, ErrOpenerExecutorNotConfigured
	}
	return &BrowserOpener{executor: executor, operatingSystem: operatingSystem}, nil
}

// Command returns the command that opens url on the configured platform.
func (opener *BrowserOpener) Command(url string) execshell.ShellCommand {
	switch opener.operatingSystem {
	case darwinOperatingSystemConstant:
		return execshell.ShellCommand{Name: execshell.CommandName(darwinOpenerConstant), Details: execshell.CommandDetails{Arguments: []string{url}}}
	case windowsOperatingSystemConstant:
		return execshell.ShellCommand{Name: execshell.CommandName(windowsOpenerConstant), Details: execshell.CommandDetails{Arguments: []string{windowsOpenerHandlerConstant, url}}}
	default:
		return execshell.ShellCommand{Name: execshell.CommandName(linuxOpenerConstant), Details: execshell.CommandDetails{Arguments: []string{url}}}
	}
}

// Open launches the browser on url.
func (opener *BrowserOpener) Open(executionContext context.Context, url string) error {
	if _, executionError := opener.executor.Execute(executionContext, opener.Command(url)); executionError != nil {
		return RequestError{Kind: ErrFailedToOpen, Value: url, Cause: executionError}
	}
	return nil
}
