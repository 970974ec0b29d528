package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// OptionalProjectPath accepts zero or one project_path argument.
// The message for extra arguments starts with "accepts " so it maps to the
// usage exit code.
func OptionalProjectPath(cmd *cobra.Command, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf(`accepts at most 1 arg(s), received %d

Usage: %s

Example:
  %s ./my-app --transaction`, len(args), cmd.UseLine(), cmd.CommandPath())
	}
	return nil
}

// projectPathArg returns the project path argument, defaulting to the
// current directory.
func projectPathArg(args []string) string {
	if len(args) == 0 || args[0] == "" {
		return "."
	}
	return args[0]
}
