package dialogmanager

import (
	"fmt"
	"time"
)

type Config struct {
	Timeout          time.Duration `mapstructure:"timeout"`
	PreferencesTable string        `mapstructure:"preferences_table"`
	QueueURL         string        `mapstructure:"queue_url"`
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:          10 * time.Second,
		PreferencesTable: "UserSearchState",
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.PreferencesTable == "" {
		return fmt.Errorf("preferences_table is required")
	}
	if c.QueueURL == "" {
		return fmt.Errorf("queue_url is required")
	}
	return nil
}
