// Package logging provides concrete implementations of the taxseed.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: Writes progress to one writer and diagnostics to another
//   - NullLogger: Discards all messages (useful for testing)
//
// All logger implementations are safe for concurrent use by multiple goroutines.
package logging
