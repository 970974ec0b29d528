// Package services contains the orchestration layer of taxseed.
//
// Generator ties the pieces together: it discovers rate tables with a
// taxseed.FileScanner, streams each one through a taxrates.Reader and
// writes the surviving records with a sqlgen.ScriptWriter. All file access
// goes through a filesystem.FileSystemProvider so the whole pipeline can be
// exercised against an in-memory filesystem.
package services
