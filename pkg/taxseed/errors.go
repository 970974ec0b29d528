package taxseed

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	_, err := generator.Generate(cfg)
//	if errors.Is(err, taxseed.ErrMissingColumn) {
//	    // The input file does not look like a rate table
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrMissingColumn indicates an input file lacks a required header column.
	ErrMissingColumn = errors.New("missing required column")

	// ErrMalformedRow indicates a row could not be read as CSV or has the wrong number of fields.
	ErrMalformedRow = errors.New("malformed row")

	// ErrInvalidRate indicates a rate field is empty, non-numeric or not finite.
	ErrInvalidRate = errors.New("invalid rate")

	// ErrOutputFailed indicates the seed script could not be created or written.
	ErrOutputFailed = errors.New("output failed")
)

// usagePatterns are message prefixes cobra and pflag produce for command line misuse.
var usagePatterns = []string{
	"unknown flag",
	"unknown shorthand flag",
	"unknown command",
	"accepts ",
	"requires at least",
	"required flag",
	"invalid argument",
	"flag needs an argument",
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrMissingColumn),
		errors.Is(err, ErrMalformedRow),
		errors.Is(err, ErrInvalidRate):
		return ExitInputError
	case errors.Is(err, ErrOutputFailed):
		return ExitOutputError
	}

	errStr := err.Error()
	for _, p := range usagePatterns {
		if strings.HasPrefix(errStr, p) {
			return ExitUsageError
		}
	}

	return ExitGeneralError
}
