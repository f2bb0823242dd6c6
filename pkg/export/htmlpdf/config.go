package htmlpdf

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	URL            string `mapstructure:"url" validate:"required"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// LoadConfig loads the conversion service settings from the specified
// config file.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse converter config: %w", err)
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("converter config %s has no url", path)
	}
	return &cfg, nil
}

// Timeout converts the configured seconds into a duration, falling back
// to the renderer default when unset.
func (c *Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultConvertTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
