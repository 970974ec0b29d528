package taxseed

import (
	"errors"
	"fmt"
	"strings"
)

// TaxRecord is one validated row of a rate table.
type TaxRecord struct {
	ZipCode   string
	StateCode string
	City      string
	Rate      float64

	// Line is the 1-based line of the row in its source file.
	Line int
}

// Compression identifies how an input file is compressed.
type Compression string

const (
	CompressionNone Compression = ""
	CompressionGZ   Compression = "gz"
	CompressionBZ2  Compression = "bz2"
	CompressionXZ   Compression = "xz"
	CompressionZSTD Compression = "zst"
)

// Extension returns the file suffix for the compression, including the dot.
func (c Compression) Extension() string {
	if c == CompressionNone {
		return ""
	}
	return "." + string(c)
}

// InputFile describes a discovered rate table.
type InputFile struct {
	// Path is the location of the file as given to the filesystem provider.
	Path string

	// Name is the base name of the file.
	Name string

	// StateCode is the two-letter state parsed from the file name, or empty
	// when the name does not follow the TAXRATES_ZIP5_<ST> convention.
	StateCode string

	Compression Compression
}

// InvalidRatePolicy decides what happens to rows whose rate cannot be parsed.
type InvalidRatePolicy string

const (
	// InvalidRateFail aborts the run on the first unparseable rate.
	InvalidRateFail InvalidRatePolicy = "fail"

	// InvalidRateWarn drops the row and reports it as an error message.
	InvalidRateWarn InvalidRatePolicy = "warn"

	// InvalidRateSkip drops the row, reporting it only in verbose mode.
	InvalidRateSkip InvalidRatePolicy = "skip"
)

// ParseInvalidRatePolicy parses a policy name. An empty string yields InvalidRateFail.
func ParseInvalidRatePolicy(s string) (InvalidRatePolicy, error) {
	switch p := InvalidRatePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return InvalidRateFail, nil
	case InvalidRateFail, InvalidRateWarn, InvalidRateSkip:
		return p, nil
	default:
		return "", fmt.Errorf("unknown invalid-rate policy %q (expected fail, warn or skip): %w", s, ErrInvalidConfig)
	}
}

// Columns names the CSV header columns holding each record field.
type Columns struct {
	ZipCode string
	State   string
	City    string
	Rate    string
}

// DefaultColumns returns the header names used by the published rate tables.
func DefaultColumns() Columns {
	return Columns{
		ZipCode: DefaultZipColumn,
		State:   DefaultStateColumn,
		City:    DefaultCityColumn,
		Rate:    DefaultRateColumn,
	}
}

// GenerateConfig contains all parameters needed for a seed generation run.
type GenerateConfig struct {
	// InputDir is the directory searched for rate tables (not recursive).
	InputDir string

	// Pattern is the glob matched against input file names.
	Pattern string

	// OutputPath is the seed script to create or overwrite.
	OutputPath string

	// Table is the target table, optionally schema-qualified.
	Table string

	Columns Columns

	InvalidRate InvalidRatePolicy

	// StrictZip drops rows whose zip code is not exactly five digits.
	StrictZip bool

	// Transaction wraps the INSERT in BEGIN/COMMIT.
	Transaction bool
}

// Validate checks if the GenerateConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *GenerateConfig) Validate() error {
	var errs []error

	if c.InputDir == "" {
		errs = append(errs, fmt.Errorf("InputDir is required: %w", ErrInvalidConfig))
	}
	if c.Pattern == "" {
		errs = append(errs, fmt.Errorf("Pattern is required: %w", ErrInvalidConfig))
	}
	if c.OutputPath == "" {
		errs = append(errs, fmt.Errorf("OutputPath is required: %w", ErrInvalidConfig))
	}
	if c.Table == "" {
		errs = append(errs, fmt.Errorf("Table is required: %w", ErrInvalidConfig))
	}
	if c.Columns.ZipCode == "" || c.Columns.State == "" || c.Columns.City == "" || c.Columns.Rate == "" {
		errs = append(errs, fmt.Errorf("all column names are required: %w", ErrInvalidConfig))
	}
	if _, err := ParseInvalidRatePolicy(string(c.InvalidRate)); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// GenerateResult summarizes a generation run.
type GenerateResult struct {
	// Files lists the processed inputs in processing order.
	Files []InputFile

	// Records is the number of value tuples written.
	Records int

	// Skipped counts rows dropped because their rate was zero or negative.
	Skipped int

	// Invalid counts rows dropped by the invalid-rate policy or the strict zip rule.
	Invalid int

	// ByState counts written tuples per state code.
	ByState map[string]int

	OutputPath string

	// Checksum is the hex SHA-256 of the script bytes.
	Checksum string

	// Written reports whether an output file was produced.
	Written bool
}
