package taxrates

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"math"
	"strconv"
	"strings"

	"github.com/vvka-141/taxseed/pkg/taxseed"
)

const utf8BOM = "\uFEFF"

// Options configures a Reader.
type Options struct {
	// Source names the input in error and log messages, usually the file name.
	Source string

	Columns     taxseed.Columns
	InvalidRate taxseed.InvalidRatePolicy
	StrictZip   bool
}

// Stats counts the rows a Reader dropped.
type Stats struct {
	// Skipped counts rows with a rate of zero or less.
	Skipped int

	// Invalid counts rows dropped for an unparseable rate or a malformed zip code.
	Invalid int
}

// Reader turns one rate table into a sequence of records.
// A Reader is not safe for concurrent use.
type Reader struct {
	opts   Options
	logger taxseed.Logger
	stats  Stats
}

// NewReader creates a Reader. Panics if logger is nil.
func NewReader(opts Options, logger taxseed.Logger) *Reader {
	if logger == nil {
		panic("logger cannot be nil")
	}
	if opts.InvalidRate == "" {
		opts.InvalidRate = taxseed.InvalidRateFail
	}
	return &Reader{opts: opts, logger: logger}
}

// Stats returns the drop counters accumulated so far.
func (r *Reader) Stats() Stats {
	return r.stats
}

type columnIndex struct {
	zip, state, city, rate int
}

// last returns the highest position a row must reach to hold every required field.
func (c columnIndex) last() int {
	return max(c.zip, c.state, c.city, c.rate)
}

// Records returns a single-use sequence over the rows of src that survive
// filtering. The sequence ends after yielding the first non-nil error.
// A source with no header at all yields nothing.
func (r *Reader) Records(src io.Reader) iter.Seq2[taxseed.TaxRecord, error] {
	return func(yield func(taxseed.TaxRecord, error) bool) {
		cr := csv.NewReader(src)
		cr.LazyQuotes = true
		cr.FieldsPerRecord = -1

		header, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			yield(taxseed.TaxRecord{}, fmt.Errorf("%s: failed to read header: %v: %w", r.opts.Source, err, taxseed.ErrMalformedRow))
			return
		}

		idx, err := r.locateColumns(header)
		if err != nil {
			yield(taxseed.TaxRecord{}, err)
			return
		}

		for {
			row, err := cr.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(taxseed.TaxRecord{}, fmt.Errorf("%s: %v: %w", r.opts.Source, err, taxseed.ErrMalformedRow))
				return
			}
			line, _ := cr.FieldPos(0)
			if len(row) <= idx.last() {
				yield(taxseed.TaxRecord{}, fmt.Errorf("%s line %d: %d fields, required columns need %d: %w",
					r.opts.Source, line, len(row), idx.last()+1, taxseed.ErrMalformedRow))
				return
			}

			rec, keep, err := r.convert(row, idx, line)
			if err != nil {
				yield(taxseed.TaxRecord{}, err)
				return
			}
			if !keep {
				continue
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

func (r *Reader) locateColumns(header []string) (columnIndex, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		positions[strings.TrimSpace(name)] = i
	}

	var missing []string
	find := func(name string) int {
		i, ok := positions[name]
		if !ok {
			missing = append(missing, name)
			return -1
		}
		return i
	}

	idx := columnIndex{
		zip:   find(r.opts.Columns.ZipCode),
		state: find(r.opts.Columns.State),
		city:  find(r.opts.Columns.City),
		rate:  find(r.opts.Columns.Rate),
	}
	if len(missing) > 0 {
		return columnIndex{}, fmt.Errorf("%s: %s: %w", r.opts.Source, strings.Join(missing, ", "), taxseed.ErrMissingColumn)
	}
	return idx, nil
}

// convert builds a record from one row. keep is false for rows that are filtered out.
func (r *Reader) convert(row []string, idx columnIndex, line int) (taxseed.TaxRecord, bool, error) {
	rec := taxseed.TaxRecord{
		ZipCode:   strings.TrimSpace(row[idx.zip]),
		StateCode: strings.TrimSpace(row[idx.state]),
		City:      strings.TrimSpace(row[idx.city]),
		Line:      line,
	}

	raw := row[idx.rate]
	rate, ok := parseRate(raw)
	if !ok {
		switch r.opts.InvalidRate {
		case taxseed.InvalidRateWarn:
			r.stats.Invalid++
			r.logger.Error("%s line %d: dropping zip %s, rate %q is not a number", r.opts.Source, line, rec.ZipCode, raw)
			return rec, false, nil
		case taxseed.InvalidRateSkip:
			r.stats.Invalid++
			r.logger.Verbose("%s line %d: skipping zip %s, rate %q is not a number", r.opts.Source, line, rec.ZipCode, raw)
			return rec, false, nil
		default:
			return rec, false, fmt.Errorf("%s line %d: rate %q: %w", r.opts.Source, line, raw, taxseed.ErrInvalidRate)
		}
	}
	rec.Rate = rate

	if rate <= 0 {
		r.stats.Skipped++
		return rec, false, nil
	}

	if r.opts.StrictZip && !IsZip5(rec.ZipCode) {
		r.stats.Invalid++
		r.logger.Verbose("%s line %d: skipping malformed zip code %q", r.opts.Source, line, rec.ZipCode)
		return rec, false, nil
	}

	return rec, true, nil
}

// parseRate parses a decimal rate. Empty, non-numeric and non-finite values are rejected.
func parseRate(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// IsZip5 reports whether s is exactly five ASCII digits.
func IsZip5(s string) bool {
	if len(s) != 5 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
