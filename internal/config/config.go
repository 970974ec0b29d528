package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/taxseed/pkg/taxseed"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

type ColumnsConfig struct {
	ZipCode string `yaml:"zip_code,omitempty"`
	State   string `yaml:"state,omitempty"`
	City    string `yaml:"city,omitempty"`
	Rate    string `yaml:"rate,omitempty"`
}

type ProjectConfig struct {
	InputDir    string        `yaml:"input_dir,omitempty"`
	Output      string        `yaml:"output,omitempty"`
	Pattern     string        `yaml:"pattern,omitempty"`
	Table       string        `yaml:"table,omitempty"`
	InvalidRate string        `yaml:"invalid_rate,omitempty"`
	Transaction bool          `yaml:"transaction,omitempty"`
	StrictZip   bool          `yaml:"strict_zip,omitempty"`
	Columns     ColumnsConfig `yaml:"columns,omitempty"`
}

const ConfigFileName = "taxseed.yaml"

// Environment variables overriding taxseed.yaml values.
const (
	EnvInputDir    = "TAXSEED_INPUT_DIR"
	EnvOutput      = "TAXSEED_OUTPUT"
	EnvPattern     = "TAXSEED_PATTERN"
	EnvTable       = "TAXSEED_TABLE"
	EnvInvalidRate = "TAXSEED_INVALID_RATE"
	EnvTransaction = "TAXSEED_TRANSACTION"
	EnvStrictZip   = "TAXSEED_STRICT_ZIP"
)

func Load(sourcePath string) (*ProjectConfig, error) {
	configPath := filepath.Join(sourcePath, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", ConfigFileName, err, taxseed.ErrInvalidConfig)
	}
	return &cfg, nil
}

// ApplyEnv overrides fields with any TAXSEED_* variables reported by lookup.
// Pass os.LookupEnv in production.
func (c *ProjectConfig) ApplyEnv(lookup func(string) (string, bool)) error {
	strs := []struct {
		key string
		dst *string
	}{
		{EnvInputDir, &c.InputDir},
		{EnvOutput, &c.Output},
		{EnvPattern, &c.Pattern},
		{EnvTable, &c.Table},
		{EnvInvalidRate, &c.InvalidRate},
	}
	for _, s := range strs {
		if v, ok := lookup(s.key); ok && v != "" {
			*s.dst = v
		}
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{EnvTransaction, &c.Transaction},
		{EnvStrictZip, &c.StrictZip},
	}
	for _, b := range bools {
		v, ok := lookup(b.key)
		if !ok || v == "" {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s=%q is not a boolean: %w", b.key, v, taxseed.ErrInvalidConfig)
		}
		*b.dst = parsed
	}

	return nil
}
