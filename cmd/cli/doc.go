// Package cli constructs the tidal command-line interface, wiring the
// Cobra command hierarchy, configuration loader, and structured logging
// around the pull request commands. It also maps execution errors to the
// process exit status.
package cli
