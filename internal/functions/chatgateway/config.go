package chatgateway

import (
	"fmt"
	"time"
)

type Config struct {
	Timeout    time.Duration `mapstructure:"timeout"`
	BotID      string        `mapstructure:"bot_id"`
	BotAliasID string        `mapstructure:"bot_alias_id"`
	LocaleID   string        `mapstructure:"locale_id"`
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:  10 * time.Second,
		LocaleID: "en_US",
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.BotID == "" {
		return fmt.Errorf("bot_id is required")
	}
	if c.BotAliasID == "" {
		return fmt.Errorf("bot_alias_id is required")
	}
	if c.LocaleID == "" {
		return fmt.Errorf("locale_id is required")
	}
	return nil
}
