package main

import (
	"fmt"
	"os"

	"github.com/temirov/tidal/cmd/cli"
)

const (
	exitErrorTemplateConstant = "tidal: %v\n"
)

// main executes the tidal command-line application.
func main() {
	if executionError := cli.Execute(); executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		os.Exit(cli.ExitCode(executionError))
	}
}
