package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/taxseed/internal/config"
	"github.com/vvka-141/taxseed/internal/files/filesystem"
	"github.com/vvka-141/taxseed/internal/files/scanner"
	"github.com/vvka-141/taxseed/internal/logging"
	"github.com/vvka-141/taxseed/internal/services"
	"github.com/vvka-141/taxseed/internal/tui"
	"github.com/vvka-141/taxseed/pkg/taxseed"
)

const generateLong = `Generate reads every rate table in the input directory and writes a seed
script that upserts one row per zip code into the jurisdictions table.

Rows with a combined rate of zero or less are left out. Files are processed in
file name order, so the same inputs always produce the same script. Inputs may
be compressed with gzip (.gz), bzip2 (.bz2), xz (.xz) or zstd (.zst).

Arguments:
  project_path    Project root (default: current directory)
                  Relative input and output paths resolve against it

Configuration:
  Values are resolved in this order, first match wins:
    1. Command line flags
    2. TAXSEED_* environment variables (a .env file is loaded first)
    3. taxseed.yaml in project_path
    4. Built-in defaults

Examples:
  # Regenerate supabase/seed_all_zip_codes.sql from docs/state_tax_rates
  taxseed generate

  # Wrap the upsert in a transaction and show per-state counts
  taxseed generate ./my-app --transaction --by-state

  # Tolerate bad rates in a hand-edited table
  taxseed generate --invalid-rate warn -v`

type generateFlagValues struct {
	inputDir, output, pattern, table, invalidRate string
	transaction, strictZip, byState               bool
}

func newGenerateCmd() *cobra.Command {
	cmd, _ := newGenerateCmdWithFlags()
	return cmd
}

// newGenerateCmdWithFlags also returns the struct the flags are bound to.
func newGenerateCmdWithFlags() (*cobra.Command, *generateFlagValues) {
	flags := &generateFlagValues{}

	cmd := &cobra.Command{
		Use:   "generate [project_path]",
		Short: "Generate the seed script from rate tables",
		Long:  generateLong,
		Args:  OptionalProjectPath,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.inputDir, "input-dir", "",
		"Directory containing the rate tables\n"+
			"Precedence: --input-dir > $TAXSEED_INPUT_DIR > taxseed.yaml > "+taxseed.DefaultInputDir)
	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"Seed script to write (overwritten if present)\n"+
			"Precedence: --output > $TAXSEED_OUTPUT > taxseed.yaml > "+taxseed.DefaultOutputPath)
	cmd.Flags().StringVar(&flags.pattern, "pattern", "",
		"Glob selecting input files, matched without the compression suffix\n"+
			"(default "+taxseed.DefaultInputPattern+")")
	cmd.Flags().StringVar(&flags.table, "table", "",
		"Target table as [schema.]table (default "+taxseed.DefaultTable+")")
	cmd.Flags().StringVar(&flags.invalidRate, "invalid-rate", "",
		"What to do with rows whose rate is not a number: fail|warn|skip (default fail)")
	cmd.Flags().BoolVar(&flags.transaction, "transaction", false,
		"Wrap the upsert in BEGIN/COMMIT")
	cmd.Flags().BoolVar(&flags.strictZip, "strict-zip", false,
		"Drop rows whose zip code is not exactly five digits")
	cmd.Flags().BoolVar(&flags.byState, "by-state", false,
		"Print a per-state record table after the summary")

	_ = cmd.MarkFlagDirname("input-dir")
	_ = cmd.RegisterFlagCompletionFunc("invalid-rate", completeInvalidRatePolicies)

	return cmd, flags
}

// buildGenerateConfig resolves a GenerateConfig from flags, environment,
// taxseed.yaml and defaults. lookupEnv is os.LookupEnv outside of tests.
func buildGenerateConfig(cmd *cobra.Command, flags *generateFlagValues, projectPath string, lookupEnv func(string) (string, bool)) (taxseed.GenerateConfig, error) {
	projectCfg, err := config.Load(projectPath)
	if errors.Is(err, config.ErrConfigNotFound) {
		projectCfg = &config.ProjectConfig{}
	} else if err != nil {
		return taxseed.GenerateConfig{}, fmt.Errorf("failed to load %s: %w", config.ConfigFileName, err)
	}

	if err := projectCfg.ApplyEnv(lookupEnv); err != nil {
		return taxseed.GenerateConfig{}, err
	}

	pick := func(flag, flagValue, value, fallback string) string {
		if cmd.Flags().Changed(flag) {
			return flagValue
		}
		if value != "" {
			return value
		}
		return fallback
	}
	pickBool := func(flag string, flagValue, value bool) bool {
		if cmd.Flags().Changed(flag) {
			return flagValue
		}
		return value
	}

	policy, err := taxseed.ParseInvalidRatePolicy(pick("invalid-rate", flags.invalidRate, projectCfg.InvalidRate, string(taxseed.InvalidRateFail)))
	if err != nil {
		return taxseed.GenerateConfig{}, err
	}

	columns := taxseed.DefaultColumns()
	if c := projectCfg.Columns.ZipCode; c != "" {
		columns.ZipCode = c
	}
	if c := projectCfg.Columns.State; c != "" {
		columns.State = c
	}
	if c := projectCfg.Columns.City; c != "" {
		columns.City = c
	}
	if c := projectCfg.Columns.Rate; c != "" {
		columns.Rate = c
	}

	cfg := taxseed.GenerateConfig{
		InputDir:    resolveProjectPath(projectPath, pick("input-dir", flags.inputDir, projectCfg.InputDir, taxseed.DefaultInputDir)),
		Pattern:     pick("pattern", flags.pattern, projectCfg.Pattern, taxseed.DefaultInputPattern),
		OutputPath:  resolveProjectPath(projectPath, pick("output", flags.output, projectCfg.Output, taxseed.DefaultOutputPath)),
		Table:       pick("table", flags.table, projectCfg.Table, taxseed.DefaultTable),
		Columns:     columns,
		InvalidRate: policy,
		StrictZip:   pickBool("strict-zip", flags.strictZip, projectCfg.StrictZip),
		Transaction: pickBool("transaction", flags.transaction, projectCfg.Transaction),
	}
	return cfg, nil
}

// resolveProjectPath joins relative paths onto the project root.
func resolveProjectPath(projectPath, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(projectPath, p)
}

func runGenerate(cmd *cobra.Command, args []string, flags *generateFlagValues) error {
	projectPath := projectPathArg(args)
	verbose := getVerboseFlag(cmd)

	_ = godotenv.Load()

	cfg, err := buildGenerateConfig(cmd, flags, projectPath, os.LookupEnv)
	if err != nil {
		return err
	}

	logger := logging.NewConsoleLoggerWithWriters(verbose, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger.Verbose("Input: %s (%s)", cfg.InputDir, cfg.Pattern)
	logger.Verbose("Output: %s (table %s, invalid rates: %s)", cfg.OutputPath, cfg.Table, cfg.InvalidRate)

	fsProvider := filesystem.NewOSFileSystem()
	generator := services.NewGenerator(fsProvider, scanner.NewScannerWithFS(fsProvider), logger)

	result, err := generator.Generate(cfg)
	if err != nil {
		return err
	}
	if !result.Written {
		return nil
	}

	tui.RenderSummary(cmd.OutOrStdout(), result, tui.SummaryOptions{
		Styled:  tui.IsInteractive(),
		Verbose: verbose,
		ByState: flags.byState,
	})
	return nil
}
