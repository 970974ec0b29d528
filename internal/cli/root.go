package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const rootLong = `taxseed turns published TAXRATES_ZIP5 rate tables into a PostgreSQL seed
script: one idempotent INSERT ... ON CONFLICT upsert of every zip code with a
positive combined rate, followed by two verification queries.

Exit Codes:
  0  - Success (including "no input files found")
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Input error (missing column, malformed row, invalid rate)
  12 - Output file could not be written`

var rootCmd = newRootCmd()

// newRootCmd assembles the command tree. Tests build a fresh tree per case
// so flag state never leaks between runs.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "taxseed",
		Short:        "Generate a tax jurisdiction seed script from rate tables",
		Long:         rootLong,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().Bool("help", false, "Help for taxseed")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")

	cmd.AddCommand(newGenerateCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo(os.Stdout, os.Stderr)
		return nil
	}
	return rootCmd.Execute()
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
