// Package config loads decoder configuration from a file or environment
// variables for the cbordump CLI. The decoder package itself stays
// config-free and pure; this is ambient tooling around its entry point.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	cbor "github.com/venbrinoDev/blockchain-utils"
)

// Config holds the decoder knobs exposed to cbordump, plus the ambient
// logging level.
type Config struct {
	MaxDepth           int    `mapstructure:"max_depth"`
	TrailingBytes      bool   `mapstructure:"trailing_bytes"`
	FailOnDuplicateKey bool   `mapstructure:"fail_on_duplicate_key"`
	LogLevel           string `mapstructure:"log_level"`
}

// Load reads configuration from configPath (if non-empty) and from
// environment variables prefixed CBORDUMP_, falling back to defaults
// matching the decoder's own pinned behavior.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetDefault("max_depth", 1000)
	v.SetDefault("trailing_bytes", false)
	v.SetDefault("fail_on_duplicate_key", false)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("CBORDUMP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", configPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &cfg, nil
}

// DecodeOptions translates the loaded configuration into the decoder's
// own functional options.
func (c *Config) DecodeOptions() []cbor.DecodeOption {
	return []cbor.DecodeOption{
		cbor.WithMaxDepth(c.MaxDepth),
		cbor.WithTrailingBytesCheck(c.TrailingBytes),
		cbor.WithDuplicateKeyMode(c.FailOnDuplicateKey),
	}
}
