// Package checksum fingerprints generated seed scripts with SHA-256.
//
// The digest is reported in the run summary so operators can confirm that
// re-running the generator on unchanged inputs produced identical bytes.
package checksum
