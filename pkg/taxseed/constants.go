package taxseed

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess      = 0  // Script generated, or nothing to generate
	ExitGeneralError = 1  // Unknown or unclassified error
	ExitUsageError   = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic        = 3  // Internal panic (unexpected crash)
	ExitConfigError  = 10 // Invalid configuration or flags
	ExitInputError   = 11 // Unreadable or malformed input file
	ExitOutputError  = 12 // Output script could not be written
)

const (
	// DefaultInputDir is where the per-state rate tables live, relative to the project root.
	DefaultInputDir = "docs/state_tax_rates"

	// DefaultOutputPath is where the seed script is written, relative to the project root.
	DefaultOutputPath = "supabase/seed_all_zip_codes.sql"

	// DefaultInputPattern selects the per-state zip code rate tables.
	// The pattern is matched against the file name with any compression suffix removed.
	DefaultInputPattern = "TAXRATES_ZIP5_*.csv"

	// DefaultTable is the table the seed script inserts into.
	DefaultTable = "public.tax_jurisdictions"

	// RateDecimals is the number of digits emitted after the decimal point for every rate.
	RateDecimals = 6
)

// Default CSV header names of the rate tables.
const (
	DefaultZipColumn   = "ZipCode"
	DefaultStateColumn = "State"
	DefaultCityColumn  = "TaxRegionName"
	DefaultRateColumn  = "EstimatedCombinedRate"
)
