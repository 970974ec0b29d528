// Package sqlgen renders tax records as a PostgreSQL seed script.
//
// The script inserts every record into the jurisdictions table with a single
// multi-row INSERT ... ON CONFLICT (zip_code) DO UPDATE statement and ends
// with two read-only verification queries. Output is deterministic: the same
// records in the same order always produce the same bytes.
package sqlgen
