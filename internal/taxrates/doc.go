// Package taxrates parses per-state zip code rate tables into taxseed.TaxRecord
// values.
//
// A Reader yields records lazily through an iter.Seq2 and applies the row
// filters of a generation run:
//   - rows with a rate of zero or less are dropped and counted as skipped
//   - rows with an unparseable rate follow the configured InvalidRatePolicy
//   - with StrictZip, rows whose zip code is not five digits are dropped
//
// The sequence is single-use: it consumes the underlying reader.
package taxrates
