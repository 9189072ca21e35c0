package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load loads the configuration from file. When no explicit path is given
// and no config file exists in the search locations, the defaults are
// returned so that the connection details can come from flags or the
// environment instead.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".bugzilla-query"))
		}

		// Check /etc
		v.AddConfigPath("/etc/bugzilla-query/")
	}

	// Environment variables such as BUGZILLA_QUERY_BUGZILLA_API_KEY
	// override file values, so the API key can stay out of the file.
	v.SetEnvPrefix("bugzilla_query")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only reaches keys viper already knows about; the
	// connection keys have no defaults and need explicit bindings.
	for _, key := range []string{"bugzilla.host", "bugzilla.api_key"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding environment: %w", err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configPath != "" {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Request defaults
	v.SetDefault("request.include_fields", []string{"_default"})
	v.SetDefault("request.limit", 0)
	v.SetDefault("request.unlimited", false)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid. The host is not required
// here: it may still arrive via a command-line flag and is checked by the
// caller once all sources are merged.
func validate(cfg *Config) error {
	if cfg.Request.Limit < 0 {
		return fmt.Errorf("request.limit must not be negative: %d", cfg.Request.Limit)
	}

	if cfg.Request.Unlimited && cfg.Request.Limit > 0 {
		return fmt.Errorf("request.limit and request.unlimited are mutually exclusive")
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
