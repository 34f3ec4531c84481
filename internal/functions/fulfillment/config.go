package fulfillment

import (
	"fmt"
	"time"
)

type Config struct {
	Timeout          time.Duration `mapstructure:"timeout"`
	RestaurantsTable string        `mapstructure:"restaurants_table"`
	Index            string        `mapstructure:"index"`
	SenderEmail      string        `mapstructure:"sender_email"`
	AlertTopicARN    string        `mapstructure:"alert_topic_arn"`
	MarkerTTL        time.Duration `mapstructure:"marker_ttl"`
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:          30 * time.Second,
		RestaurantsTable: "yelp-restaurants",
		Index:            "restaurants",
		MarkerTTL:        24 * time.Hour,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.RestaurantsTable == "" {
		return fmt.Errorf("restaurants_table is required")
	}
	if c.Index == "" {
		return fmt.Errorf("index is required")
	}
	if c.SenderEmail == "" {
		return fmt.Errorf("sender_email is required")
	}
	if c.MarkerTTL <= 0 {
		return fmt.Errorf("marker_ttl must be positive")
	}
	return nil
}
