package services

import (
	"fmt"
	"path/filepath"

	"github.com/vvka-141/taxseed/internal/checksum"
	"github.com/vvka-141/taxseed/internal/files/compression"
	"github.com/vvka-141/taxseed/internal/files/filesystem"
	"github.com/vvka-141/taxseed/internal/sqlgen"
	"github.com/vvka-141/taxseed/internal/taxrates"
	"github.com/vvka-141/taxseed/pkg/taxseed"
)

// Generator builds a seed script from a directory of rate tables.
// Thread-Safety: a Generator holds no per-run state, but concurrent runs
// writing the same output path will clobber each other.
type Generator struct {
	fs      filesystem.FileSystemProvider
	scanner taxseed.FileScanner
	logger  taxseed.Logger
}

// NewGenerator creates a Generator. Panics if any dependency is nil.
func NewGenerator(fs filesystem.FileSystemProvider, scanner taxseed.FileScanner, logger taxseed.Logger) *Generator {
	if fs == nil {
		panic("fs cannot be nil")
	}
	if scanner == nil {
		panic("scanner cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Generator{fs: fs, scanner: scanner, logger: logger}
}

// Generate discovers the inputs named by cfg and writes the seed script.
//
// When no input matches, nothing is written and the result has Written set
// to false. Otherwise the output file is created (or truncated) before the
// first input is read; a failure part-way leaves a partial file behind.
func (g *Generator) Generate(cfg taxseed.GenerateConfig) (taxseed.GenerateResult, error) {
	result := taxseed.GenerateResult{
		OutputPath: cfg.OutputPath,
		ByState:    make(map[string]int),
	}

	if err := cfg.Validate(); err != nil {
		return result, err
	}
	if err := sqlgen.ValidateTableName(cfg.Table); err != nil {
		return result, err
	}
	cfg.InvalidRate, _ = taxseed.ParseInvalidRatePolicy(string(cfg.InvalidRate))

	files, err := g.scanner.Discover(cfg.InputDir, cfg.Pattern)
	if err != nil {
		return result, fmt.Errorf("failed to discover input files: %w", err)
	}
	if len(files) == 0 {
		g.logger.Info("No CSV files found in %s", cfg.InputDir)
		return result, nil
	}
	result.Files = files

	g.logger.Info("Found %d CSV files to process", len(files))

	if dir := filepath.Dir(cfg.OutputPath); dir != "." && dir != "" {
		if err := g.fs.MkdirAll(dir); err != nil {
			return result, fmt.Errorf("failed to create output directory %s: %v: %w", dir, err, taxseed.ErrOutputFailed)
		}
	}

	out, err := g.fs.Create(cfg.OutputPath)
	if err != nil {
		return result, fmt.Errorf("failed to create output file %s: %v: %w", cfg.OutputPath, err, taxseed.ErrOutputFailed)
	}
	result.Written = true

	sum := checksum.NewWriter(out)
	script, err := sqlgen.NewScriptWriter(sum, sqlgen.ScriptOptions{
		Table:       cfg.Table,
		Transaction: cfg.Transaction,
	})
	if err != nil {
		out.Close()
		return result, err
	}

	if err := g.writeAll(cfg, files, script, &result); err != nil {
		out.Close()
		return result, err
	}

	if err := script.Close(); err != nil {
		out.Close()
		return result, err
	}
	if err := out.Close(); err != nil {
		return result, fmt.Errorf("failed to close output file %s: %v: %w", cfg.OutputPath, err, taxseed.ErrOutputFailed)
	}

	result.Records = script.Records()
	result.Checksum = sum.Sum()
	g.logger.Verbose("Wrote %d bytes to %s (sha256 %s)", sum.Size(), cfg.OutputPath, result.Checksum)

	return result, nil
}

func (g *Generator) writeAll(cfg taxseed.GenerateConfig, files []taxseed.InputFile, script *sqlgen.ScriptWriter, result *taxseed.GenerateResult) error {
	if err := script.WriteHeader(); err != nil {
		return err
	}
	for _, file := range files {
		g.logger.Info("Processing %s...", file.Name)
		if err := g.processFile(cfg, file, script, result); err != nil {
			return fmt.Errorf("failed to process %s: %w", file.Name, err)
		}
	}
	return nil
}

func (g *Generator) processFile(cfg taxseed.GenerateConfig, file taxseed.InputFile, script *sqlgen.ScriptWriter, result *taxseed.GenerateResult) error {
	f, err := g.fs.Open(file.Path)
	if err != nil {
		return fmt.Errorf("failed to open: %w", err)
	}
	defer f.Close()

	src, closeDecoder, err := compression.NewReader(f, file.Compression)
	if err != nil {
		return fmt.Errorf("%v: %w", err, taxseed.ErrMalformedRow)
	}
	defer closeDecoder()

	reader := taxrates.NewReader(taxrates.Options{
		Source:      file.Name,
		Columns:     cfg.Columns,
		InvalidRate: cfg.InvalidRate,
		StrictZip:   cfg.StrictZip,
	}, g.logger)

	written := 0
	for rec, err := range reader.Records(src) {
		if err != nil {
			return err
		}
		if err := script.Write(rec); err != nil {
			return err
		}
		result.ByState[rec.StateCode]++
		written++
	}

	stats := reader.Stats()
	result.Skipped += stats.Skipped
	result.Invalid += stats.Invalid

	if file.StateCode != "" {
		g.logger.Verbose("%s: %d records for %s, %d skipped, %d invalid", file.Name, written, file.StateCode, stats.Skipped, stats.Invalid)
	} else {
		g.logger.Verbose("%s: %d records, %d skipped, %d invalid", file.Name, written, stats.Skipped, stats.Invalid)
	}
	return nil
}
