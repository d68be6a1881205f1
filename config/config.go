// Package config loads runtime settings from defaults, an optional YAML
// file and ANALYZER_* environment variables.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Da050/Data-Analyzer-Pro/pkg/errors"
)

// EnvPrefix prefixes every environment override, e.g. ANALYZER_TEST_FRACTION.
const EnvPrefix = "ANALYZER"

// Config holds the tunable settings of the analyzer.
type Config struct {
	TestFraction        float64 `mapstructure:"test_fraction" yaml:"test_fraction"`
	RandomState         uint64  `mapstructure:"random_state" yaml:"random_state"`
	NEstimators         int     `mapstructure:"n_estimators" yaml:"n_estimators"`
	MaxClassCardinality int     `mapstructure:"max_class_cardinality" yaml:"max_class_cardinality"`
	StrongCorrelation   float64 `mapstructure:"strong_correlation" yaml:"strong_correlation"`
	CVFolds             int     `mapstructure:"cv_folds" yaml:"cv_folds"`
	LogLevel            string  `mapstructure:"log_level" yaml:"log_level"`
	// MaxRows caps the rows read from an input file; 0 reads everything.
	MaxRows    int `mapstructure:"max_rows" yaml:"max_rows"`
	SampleRows int `mapstructure:"sample_rows" yaml:"sample_rows"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("test_fraction", 0.2)
	v.SetDefault("random_state", 42)
	v.SetDefault("n_estimators", 100)
	v.SetDefault("max_class_cardinality", 10)
	v.SetDefault("strong_correlation", 0.7)
	v.SetDefault("cv_folds", 5)
	v.SetDefault("log_level", "info")
	v.SetDefault("max_rows", 0)
	v.SetDefault("sample_rows", 1000)
}

// Default returns the built-in settings.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	// Defaults always decode.
	_ = v.Unmarshal(&c)
	return &c
}

// Load reads configuration with precedence env > config file > defaults.
// With an empty cfgFile, analyzer.yaml is looked up in the working directory
// and then in ~/.analyzer; a missing file is not an error. An explicit
// cfgFile must exist.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", cfgFile)
		}
	} else {
		v.SetConfigName("analyzer")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".analyzer"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Wrap(err, "read config")
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that every setting is in range.
func (c *Config) Validate() error {
	switch {
	case !(c.TestFraction > 0 && c.TestFraction < 1):
		return errors.NewValidationError("test_fraction", "must be in (0, 1)", c.TestFraction)
	case c.NEstimators < 1:
		return errors.NewValidationError("n_estimators", "must be positive", c.NEstimators)
	case c.MaxClassCardinality < 1:
		return errors.NewValidationError("max_class_cardinality", "must be positive", c.MaxClassCardinality)
	case c.StrongCorrelation <= 0 || c.StrongCorrelation > 1:
		return errors.NewValidationError("strong_correlation", "must be in (0, 1]", c.StrongCorrelation)
	case c.CVFolds < 2:
		return errors.NewValidationError("cv_folds", "must be at least 2", c.CVFolds)
	case c.MaxRows < 0:
		return errors.NewValidationError("max_rows", "must not be negative", c.MaxRows)
	case c.SampleRows < 1:
		return errors.NewValidationError("sample_rows", "must be positive", c.SampleRows)
	}
	return nil
}

// Save writes c as YAML to path, creating parent directories.
func Save(c *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "mkdir config dir")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal yaml")
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return errors.Wrap(err, "write config")
	}
	return nil
}
