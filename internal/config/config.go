// Package config provides configuration management for clawstrap using Viper.
package config

import (
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	cserrors "github.com/mhoffman/clawstrap/internal/errors"
	"github.com/mhoffman/clawstrap/internal/paths"
)

// AppName is the application name used for config file naming.
const AppName = "clawstrap"

// Config represents the top-level configuration structure.
// Everything has a default; the config file is optional.
type Config struct {
	// TargetDir overrides the assistant config directory (default: ~/.claude).
	TargetDir string `mapstructure:"target_dir" yaml:"target_dir"`

	// RCFile pre-seeds the persistence suggestion instead of scanning the
	// well-known candidates.
	RCFile string `mapstructure:"rc_file" yaml:"rc_file"`

	// SkipOptionalChecks suppresses the optional runtime dependency warnings.
	SkipOptionalChecks bool `mapstructure:"skip_optional_checks" yaml:"skip_optional_checks"`
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(filepath.Join(paths.ConfigHome(), AppName))

	// Environment variable support (CLAWSTRAP_TARGET_DIR, ...)
	viper.SetEnvPrefix("CLAWSTRAP")
	viper.AutomaticEnv()

	viper.SetDefault("target_dir", "")
	viper.SetDefault("rc_file", "")
	viper.SetDefault("skip_optional_checks", false)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations.
// Returns the loaded configuration or default values if no file is found (when path is empty).
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// If user specified a path, this is an error
			if path != "" {
				return nil, errors.Mark(
					errors.Wrapf(err, "config file not found at %s", path),
					cserrors.ErrInvalidConfig)
			}
			// Otherwise (implicit load), it's fine to use defaults
		} else {
			// Real read error (parsing, permissions, etc)
			return nil, errors.Mark(
				errors.Wrap(err, "reading config file"), cserrors.ErrInvalidConfig)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Mark(
			errors.Wrap(err, "unmarshaling config"), cserrors.ErrInvalidConfig)
	}

	return &cfg, nil
}
