// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with logging via ShellExecutor, exposes OSCommandRunner for
// default process execution, and defines the abstractions tidal uses to run
// git, gpg, and the platform browser opener in a testable manner.
package execshell
