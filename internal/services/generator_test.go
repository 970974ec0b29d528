package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/taxseed/internal/checksum"
	"github.com/vvka-141/taxseed/internal/files/filesystem"
	"github.com/vvka-141/taxseed/internal/files/scanner"
	"github.com/vvka-141/taxseed/internal/logging"
	"github.com/vvka-141/taxseed/internal/testing/fixtures"
	"github.com/vvka-141/taxseed/pkg/taxseed"
)

const (
	inputDir   = "/proj/docs/state_tax_rates"
	outputPath = "/proj/supabase/seed_all_zip_codes.sql"
)

func testConfig() taxseed.GenerateConfig {
	return taxseed.GenerateConfig{
		InputDir:    inputDir,
		Pattern:     taxseed.DefaultInputPattern,
		OutputPath:  outputPath,
		Table:       taxseed.DefaultTable,
		Columns:     taxseed.DefaultColumns(),
		InvalidRate: taxseed.InvalidRateFail,
	}
}

func newTestGenerator(fs *filesystem.MemoryFileSystem) (*Generator, *recordingLogger) {
	logger := &recordingLogger{}
	return NewGenerator(fs, scanner.NewScannerWithFS(fs), logger), logger
}

func output(t *testing.T, fs *filesystem.MemoryFileSystem) string {
	t.Helper()
	content, ok := fs.Content(outputPath)
	require.True(t, ok, "output file should exist")
	return string(content)
}

func TestNewGenerator_PanicsOnNilDependencies(t *testing.T) {
	fs := filesystem.NewMemoryFileSystem("/proj")
	sc := scanner.NewScannerWithFS(fs)
	logger := logging.NewNullLogger()

	assert.PanicsWithValue(t, "fs cannot be nil", func() { NewGenerator(nil, sc, logger) })
	assert.PanicsWithValue(t, "scanner cannot be nil", func() { NewGenerator(fs, nil, logger) })
	assert.PanicsWithValue(t, "logger cannot be nil", func() { NewGenerator(fs, sc, nil) })
}

func TestGenerate_CaliforniaScenario(t *testing.T) {
	fs := filesystem.NewMemoryFileSystem("/proj")
	fs.AddFile(inputDir+"/TAXRATES_ZIP5_CA.csv", fixtures.California())
	gen, logger := newTestGenerator(fs)

	result, err := gen.Generate(testConfig())
	require.NoError(t, err)

	out := output(t, fs)
	assert.Equal(t, 1, strings.Count(out, "  ('90001', 'CA', 'Los Angeles', 0.095000)"))
	assert.NotContains(t, out, "90002")
	assert.NotContains(t, out, "Fallon")

	assert.True(t, result.Written)
	assert.Equal(t, 1, result.Records)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 0, result.Invalid)
	assert.Equal(t, map[string]int{"CA": 1}, result.ByState)
	assert.Equal(t, outputPath, result.OutputPath)
	assert.Equal(t, checksum.Sum([]byte(out)), result.Checksum)
	require.Len(t, result.Files, 1)
	assert.Equal(t, "CA", result.Files[0].StateCode)

	assert.Equal(t, []string{
		"Found 1 CSV files to process",
		"Processing TAXRATES_ZIP5_CA.csv...",
	}, logger.info)
}

func TestGenerate_FilesProcessedInNameOrder(t *testing.T) {
	fs := filesystem.NewMemoryFileSystem("/proj")
	fs.AddFile(inputDir+"/TAXRATES_ZIP5_NY.csv", fixtures.RateTable(
		fixtures.Row{State: "NY", Zip: "10001", City: "New York", Rate: "0.08875"},
	))
	fs.AddFile(inputDir+"/TAXRATES_ZIP5_CA.csv", fixtures.California())
	fs.AddFile(inputDir+"/TAXRATES_ZIP5_IL.csv", fixtures.RateTable(
		fixtures.Row{State: "IL", Zip: "62269", City: "O'Fallon", Rate: "0.0835"},
		fixtures.Row{State: "IL", Zip: "60601", City: "Chicago", Rate: "0.1025"},
	))
	gen, logger := newTestGenerator(fs)

	result, err := gen.Generate(testConfig())
	require.NoError(t, err)

	out := output(t, fs)
	assert.Contains(t, out, "VALUES\n"+
		"  ('90001', 'CA', 'Los Angeles', 0.095000),\n"+
		"  ('62269', 'IL', 'O''Fallon', 0.083500),\n"+
		"  ('60601', 'IL', 'Chicago', 0.102500),\n"+
		"  ('10001', 'NY', 'New York', 0.088750)\n"+
		"ON CONFLICT (zip_code) DO UPDATE SET\n")

	assert.Equal(t, 4, result.Records)
	assert.Equal(t, map[string]int{"CA": 1, "IL": 2, "NY": 1}, result.ByState)
	assert.Contains(t, logger.infoText(), "Found 3 CSV files to process")
}

func TestGenerate_IgnoresNonMatchingEntries(t *testing.T) {
	fs := filesystem.NewMemoryFileSystem("/proj")
	fs.AddFile(inputDir+"/TAXRATES_ZIP5_CA.csv", fixtures.California())
	fs.AddFile(inputDir+"/README.md", "not a table")
	fs.AddFile(inputDir+"/TAXRATES_ZIP5_TX.txt", "State,ZipCode\n")
	fs.AddFile(inputDir+"/archive/TAXRATES_ZIP5_WA.csv", fixtures.California())
	gen, _ := newTestGenerator(fs)

	result, err := gen.Generate(testConfig())
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	assert.Equal(t, "TAXRATES_ZIP5_CA.csv", result.Files[0].Name)
}

func TestGenerate_NoInputFiles(t *testing.T) {
	tests := []struct {
		name  string
		setup func(fs *filesystem.MemoryFileSystem)
	}{
		{
			name:  "missing input directory",
			setup: func(fs *filesystem.MemoryFileSystem) {},
		},
		{
			name: "no matching files",
			setup: func(fs *filesystem.MemoryFileSystem) {
				fs.AddFile(inputDir+"/notes.txt", "hello")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := filesystem.NewMemoryFileSystem("/proj")
			tt.setup(fs)
			gen, logger := newTestGenerator(fs)

			result, err := gen.Generate(testConfig())
			require.NoError(t, err)
			assert.False(t, result.Written)
			assert.Zero(t, result.Records)
			assert.Empty(t, result.Checksum)

			_, ok := fs.Content(outputPath)
			assert.False(t, ok, "no output file should be created")
			_, err = fs.Stat("/proj/supabase")
			assert.Error(t, err, "output directory should not be created")

			assert.Equal(t, []string{"No CSV files found in " + inputDir}, logger.info)
		})
	}
}

func TestGenerate_IsDeterministic(t *testing.T) {
	fs := filesystem.NewMemoryFileSystem("/proj")
	fs.AddFile(inputDir+"/TAXRATES_ZIP5_CA.csv", fixtures.California())
	fs.AddFile(inputDir+"/TAXRATES_ZIP5_IL.csv", fixtures.RateTable(
		fixtures.Row{State: "IL", Zip: "62269", City: "O'Fallon", Rate: "0.0835"},
	))
	gen, _ := newTestGenerator(fs)

	first, err := gen.Generate(testConfig())
	require.NoError(t, err)
	firstOut := output(t, fs)

	second, err := gen.Generate(testConfig())
	require.NoError(t, err)

	assert.Equal(t, firstOut, output(t, fs))
	assert.Equal(t, first.Checksum, second.Checksum)
}

func TestGenerate_CompressedInputsMatchPlain(t *testing.T) {
	illinois := fixtures.RateTable(
		fixtures.Row{State: "IL", Zip: "62269", City: "O'Fallon", Rate: "0.0835"},
	)

	plain := filesystem.NewMemoryFileSystem("/proj")
	plain.AddFile(inputDir+"/TAXRATES_ZIP5_CA.csv", fixtures.California())
	plain.AddFile(inputDir+"/TAXRATES_ZIP5_IL.csv", illinois)

	packed := filesystem.NewMemoryFileSystem("/proj")
	packed.AddBytes(inputDir+"/TAXRATES_ZIP5_CA.csv.gz", fixtures.Gzip(fixtures.California()))
	packed.AddBytes(inputDir+"/TAXRATES_ZIP5_IL.csv.zst", fixtures.Zstd(illinois))

	plainGen, _ := newTestGenerator(plain)
	plainResult, err := plainGen.Generate(testConfig())
	require.NoError(t, err)

	packedGen, _ := newTestGenerator(packed)
	packedResult, err := packedGen.Generate(testConfig())
	require.NoError(t, err)

	assert.Equal(t, output(t, plain), output(t, packed))
	assert.Equal(t, plainResult.Checksum, packedResult.Checksum)
	assert.Equal(t, 2, packedResult.Records)
}

func TestGenerate_CorruptCompressedInput(t *testing.T) {
	fs := filesystem.NewMemoryFileSystem("/proj")
	fs.AddFile(inputDir+"/TAXRATES_ZIP5_CA.csv.gz", "definitely not gzip")
	gen, _ := newTestGenerator(fs)

	_, err := gen.Generate(testConfig())
	require.Error(t, err)
	assert.ErrorIs(t, err, taxseed.ErrMalformedRow)
	assert.Contains(t, err.Error(), "failed to process TAXRATES_ZIP5_CA.csv.gz")
}

func TestGenerate_AllRowsFilteredStillWritesValidScript(t *testing.T) {
	fs := filesystem.NewMemoryFileSystem("/proj")
	fs.AddFile(inputDir+"/TAXRATES_ZIP5_CA.csv", fixtures.RateTable(
		fixtures.Row{State: "CA", Zip: "90002", City: "Nowhere", Rate: "0"},
		fixtures.Row{State: "CA", Zip: "90003", City: "Refund", Rate: "-0.01"},
	))
	gen, _ := newTestGenerator(fs)

	result, err := gen.Generate(testConfig())
	require.NoError(t, err)

	out := output(t, fs)
	assert.True(t, result.Written)
	assert.Zero(t, result.Records)
	assert.Equal(t, 2, result.Skipped)
	assert.NotContains(t, out, "VALUES")
	assert.NotContains(t, out, "ON CONFLICT")
	assert.Contains(t, out, "SELECT COUNT(*) as total_jurisdictions FROM public.tax_jurisdictions;")
}

func TestGenerate_HeaderOnlyFile(t *testing.T) {
	fs := filesystem.NewMemoryFileSystem("/proj")
	fs.AddFile(inputDir+"/TAXRATES_ZIP5_CA.csv", fixtures.Header+"\n")
	gen, _ := newTestGenerator(fs)

	result, err := gen.Generate(testConfig())
	require.NoError(t, err)
	assert.Zero(t, result.Records)
	assert.True(t, result.Written)
}

func TestGenerate_MissingColumn(t *testing.T) {
	fs := filesystem.NewMemoryFileSystem("/proj")
	fs.AddFile(inputDir+"/TAXRATES_ZIP5_CA.csv", fixtures.California())
	fs.AddFile(inputDir+"/TAXRATES_ZIP5_NV.csv", "State,ZipCode,TaxRegionName\nNV,89501,Reno\n")
	gen, _ := newTestGenerator(fs)

	_, err := gen.Generate(testConfig())
	require.Error(t, err)
	assert.ErrorIs(t, err, taxseed.ErrMissingColumn)
	assert.Contains(t, err.Error(), "failed to process TAXRATES_ZIP5_NV.csv")
	assert.Contains(t, err.Error(), "EstimatedCombinedRate")
	assert.Equal(t, taxseed.ExitInputError, taxseed.ExitCodeForError(err))

	partial := output(t, fs)
	assert.NotContains(t, partial, "ON CONFLICT", "a failed run leaves an incomplete script")
}

func TestGenerate_InvalidRatePolicies(t *testing.T) {
	table := fixtures.RateTable(
		fixtures.Row{State: "CA", Zip: "90001", City: "Los Angeles", Rate: "0.095"},
		fixtures.Row{State: "CA", Zip: "90004", City: "Typo", Rate: "abc"},
		fixtures.Row{State: "CA", Zip: "90005", City: "Blank", Rate: ""},
		fixtures.Row{State: "CA", Zip: "90006", City: "Pasadena", Rate: "0.1025"},
	)

	tests := []struct {
		policy      taxseed.InvalidRatePolicy
		wantErr     bool
		wantRecords int
		wantErrLogs int
	}{
		{policy: taxseed.InvalidRateFail, wantErr: true},
		{policy: taxseed.InvalidRateWarn, wantRecords: 2, wantErrLogs: 2},
		{policy: taxseed.InvalidRateSkip, wantRecords: 2, wantErrLogs: 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			fs := filesystem.NewMemoryFileSystem("/proj")
			fs.AddFile(inputDir+"/TAXRATES_ZIP5_CA.csv", table)
			gen, logger := newTestGenerator(fs)

			cfg := testConfig()
			cfg.InvalidRate = tt.policy
			result, err := gen.Generate(cfg)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, taxseed.ErrInvalidRate)
				assert.Contains(t, err.Error(), `"abc"`)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRecords, result.Records)
			assert.Equal(t, 2, result.Invalid)
			assert.Len(t, logger.errors, tt.wantErrLogs)
			assert.NotContains(t, output(t, fs), "Typo")
		})
	}
}

func TestGenerate_StrictZip(t *testing.T) {
	table := fixtures.RateTable(
		fixtures.Row{State: "MA", Zip: "02108", City: "Boston", Rate: "0.0625"},
		fixtures.Row{State: "MA", Zip: "2109", City: "Boston", Rate: "0.0625"},
		fixtures.Row{State: "MA", Zip: "02110-1234", City: "Boston", Rate: "0.0625"},
	)

	for _, strict := range []bool{false, true} {
		fs := filesystem.NewMemoryFileSystem("/proj")
		fs.AddFile(inputDir+"/TAXRATES_ZIP5_MA.csv", table)
		gen, _ := newTestGenerator(fs)

		cfg := testConfig()
		cfg.StrictZip = strict
		result, err := gen.Generate(cfg)
		require.NoError(t, err)

		if strict {
			assert.Equal(t, 1, result.Records)
			assert.Equal(t, 2, result.Invalid)
			assert.NotContains(t, output(t, fs), "'2109'")
		} else {
			assert.Equal(t, 3, result.Records)
			assert.Contains(t, output(t, fs), "'2109'")
		}
	}
}

func TestGenerate_TransactionAndCustomTable(t *testing.T) {
	fs := filesystem.NewMemoryFileSystem("/proj")
	fs.AddFile(inputDir+"/TAXRATES_ZIP5_CA.csv", fixtures.California())
	gen, _ := newTestGenerator(fs)

	cfg := testConfig()
	cfg.Transaction = true
	cfg.Table = "billing.zip_rates"
	_, err := gen.Generate(cfg)
	require.NoError(t, err)

	out := output(t, fs)
	assert.Contains(t, out, "BEGIN;\n\n-- Insert all zip codes with tax rates\nINSERT INTO billing.zip_rates ")
	assert.Contains(t, out, "updated_at = NOW();\n\nCOMMIT;\n")
}

func TestGenerate_CustomColumns(t *testing.T) {
	fs := filesystem.NewMemoryFileSystem("/proj")
	fs.AddFile(inputDir+"/TAXRATES_ZIP5_OR.csv", "zip,st,place,rate\n97201,OR,Portland,0.0001\n")
	gen, _ := newTestGenerator(fs)

	cfg := testConfig()
	cfg.Columns = taxseed.Columns{ZipCode: "zip", State: "st", City: "place", Rate: "rate"}
	result, err := gen.Generate(cfg)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Records)
	assert.Contains(t, output(t, fs), "  ('97201', 'OR', 'Portland', 0.000100)")
}

func TestGenerate_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *taxseed.GenerateConfig)
	}{
		{"empty input dir", func(cfg *taxseed.GenerateConfig) { cfg.InputDir = "" }},
		{"unsafe table", func(cfg *taxseed.GenerateConfig) { cfg.Table = "rates; DROP TABLE users" }},
		{"bad pattern", func(cfg *taxseed.GenerateConfig) { cfg.Pattern = "TAXRATES_[" }},
		{"unknown policy", func(cfg *taxseed.GenerateConfig) { cfg.InvalidRate = "ignore" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := filesystem.NewMemoryFileSystem("/proj")
			fs.AddFile(inputDir+"/TAXRATES_ZIP5_CA.csv", fixtures.California())
			gen, _ := newTestGenerator(fs)

			cfg := testConfig()
			tt.mutate(&cfg)
			_, err := gen.Generate(cfg)

			require.Error(t, err)
			assert.ErrorIs(t, err, taxseed.ErrInvalidConfig)
			assert.Equal(t, taxseed.ExitConfigError, taxseed.ExitCodeForError(err))
			_, ok := fs.Content(outputPath)
			assert.False(t, ok)
		})
	}
}

func TestGenerate_OutputDirectoryIsAFile(t *testing.T) {
	fs := filesystem.NewMemoryFileSystem("/proj")
	fs.AddFile(inputDir+"/TAXRATES_ZIP5_CA.csv", fixtures.California())
	fs.AddFile("/proj/supabase", "i am a file")
	gen, _ := newTestGenerator(fs)

	result, err := gen.Generate(testConfig())
	require.Error(t, err)
	assert.ErrorIs(t, err, taxseed.ErrOutputFailed)
	assert.Equal(t, taxseed.ExitOutputError, taxseed.ExitCodeForError(err))
	assert.False(t, result.Written)
}

func TestGenerate_OverwritesExistingOutput(t *testing.T) {
	fs := filesystem.NewMemoryFileSystem("/proj")
	fs.AddFile(inputDir+"/TAXRATES_ZIP5_CA.csv", fixtures.California())
	fs.AddFile(outputPath, "stale content that is much longer than nothing at all")
	gen, _ := newTestGenerator(fs)

	_, err := gen.Generate(testConfig())
	require.NoError(t, err)

	out := output(t, fs)
	assert.NotContains(t, out, "stale")
	assert.True(t, strings.HasPrefix(out, "-- ============================================\n"))
}
