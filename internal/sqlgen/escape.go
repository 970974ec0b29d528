package sqlgen

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/vvka-141/taxseed/pkg/taxseed"
)

var validIdentifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ValidateTableName validates that table is a PostgreSQL table name in
// "table" or "schema.table" form made of plain identifiers.
func ValidateTableName(table string) error {
	if table == "" {
		return fmt.Errorf("table name is empty: %w", taxseed.ErrInvalidConfig)
	}

	parts := strings.Split(table, ".")
	if len(parts) > 2 {
		return fmt.Errorf("invalid table %q: expected [schema.]table format: %w", table, taxseed.ErrInvalidConfig)
	}

	for _, part := range parts {
		if part == "" {
			return fmt.Errorf("invalid table %q: empty identifier: %w", table, taxseed.ErrInvalidConfig)
		}
		if len(part) > 63 {
			return fmt.Errorf("invalid table %q: identifier %q exceeds 63 character limit: %w", table, part, taxseed.ErrInvalidConfig)
		}
		if !validIdentifierPattern.MatchString(part) {
			return fmt.Errorf("invalid table %q: %q is not a valid identifier: %w", table, part, taxseed.ErrInvalidConfig)
		}
	}

	return nil
}

// QuoteLiteral returns s as a single-quoted SQL string literal, doubling
// every embedded single quote.
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// FormatRate renders a rate with exactly six digits after the decimal point.
func FormatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', taxseed.RateDecimals, 64)
}

// ValueClause renders one VALUES tuple, indented by two spaces:
//
//	('90001', 'CA', 'Los Angeles', 0.095000)
func ValueClause(rec taxseed.TaxRecord) string {
	return "  (" + QuoteLiteral(rec.ZipCode) +
		", " + QuoteLiteral(rec.StateCode) +
		", " + QuoteLiteral(rec.City) +
		", " + FormatRate(rec.Rate) + ")"
}
