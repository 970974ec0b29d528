package sqlgen

import (
	"bufio"
	"fmt"
	"io"

	"github.com/vvka-141/taxseed/pkg/taxseed"
)

const banner = `-- ============================================
-- COMPREHENSIVE US ZIP CODE TAX RATES
-- Auto-generated from state tax rate CSV files
-- Run this in Supabase SQL Editor
-- ============================================

`

const insertOpener = `-- Insert all zip codes with tax rates
INSERT INTO %s (zip_code, state_code, city, total_rate)
VALUES
`

const conflictClause = `
ON CONFLICT (zip_code) DO UPDATE SET
  state_code = EXCLUDED.state_code,
  city = EXCLUDED.city,
  total_rate = EXCLUDED.total_rate,
  updated_at = NOW();
`

// The trailing spaces after zip_count and the table name are part of the format.
const verifyQueries = `
-- Verify the data
SELECT COUNT(*) as total_jurisdictions FROM %[1]s;
SELECT state_code, COUNT(*) as zip_count 
FROM %[1]s 
GROUP BY state_code 
ORDER BY state_code;
`

const noRecordsComment = "-- No tax records with a positive rate were found\n"

// ScriptOptions configures a ScriptWriter.
type ScriptOptions struct {
	// Table is the target table, defaulting to taxseed.DefaultTable.
	Table string

	// Transaction wraps the upsert in BEGIN/COMMIT.
	Transaction bool
}

// ScriptWriter streams a seed script: banner, one multi-row upsert and the
// verification queries.
//
// The INSERT opener is written before the first record and the ON CONFLICT
// clause only when at least one record was written, so a script without
// records is still valid SQL.
//
// Write errors are sticky and wrap taxseed.ErrOutputFailed.
// ScriptWriter is not safe for concurrent use.
type ScriptWriter struct {
	w       *bufio.Writer
	opts    ScriptOptions
	records int
	started bool
	err     error
}

// NewScriptWriter validates opts and returns a writer over w.
func NewScriptWriter(w io.Writer, opts ScriptOptions) (*ScriptWriter, error) {
	if opts.Table == "" {
		opts.Table = taxseed.DefaultTable
	}
	if err := ValidateTableName(opts.Table); err != nil {
		return nil, err
	}
	return &ScriptWriter{w: bufio.NewWriter(w), opts: opts}, nil
}

// Records returns the number of value tuples written.
func (s *ScriptWriter) Records() int {
	return s.records
}

func (s *ScriptWriter) put(str string) {
	if s.err != nil {
		return
	}
	if _, err := s.w.WriteString(str); err != nil {
		s.err = fmt.Errorf("failed to write script: %v: %w", err, taxseed.ErrOutputFailed)
	}
}

func (s *ScriptWriter) start() {
	if s.started {
		return
	}
	s.started = true
	s.put(banner)
	if s.opts.Transaction {
		s.put("BEGIN;\n\n")
	}
}

// WriteHeader writes the banner. Calling it is optional; Write and Close
// emit the banner on demand.
func (s *ScriptWriter) WriteHeader() error {
	s.start()
	return s.err
}

// Write appends one record as a VALUES tuple.
func (s *ScriptWriter) Write(rec taxseed.TaxRecord) error {
	s.start()
	if s.records == 0 {
		s.put(fmt.Sprintf(insertOpener, s.opts.Table))
	} else {
		s.put(",\n")
	}
	s.put(ValueClause(rec))
	if s.err == nil {
		s.records++
	}
	return s.err
}

// Close writes the footer and flushes buffered output. It does not close
// the underlying writer.
func (s *ScriptWriter) Close() error {
	s.start()
	if s.records > 0 {
		s.put(conflictClause)
	} else {
		s.put(noRecordsComment)
	}
	if s.opts.Transaction {
		s.put("\nCOMMIT;\n")
	}
	s.put(fmt.Sprintf(verifyQueries, s.opts.Table))

	if s.err == nil {
		if err := s.w.Flush(); err != nil {
			s.err = fmt.Errorf("failed to flush script: %v: %w", err, taxseed.ErrOutputFailed)
		}
	}
	return s.err
}
