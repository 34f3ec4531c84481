// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	// Load .env from multiple possible locations
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like BOT_ALIAS_ID
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	// 1. LOAD BASE CONFIG
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// 2. LOAD ENV CONFIG
	envConfigFile := fmt.Sprintf("config.%s", env)
	viper.SetConfigName(envConfigFile)
	_ = viper.MergeInConfig() // ignore error if not found

	// 3. EXPAND ENV PLACEHOLDERS
	expandEnvVars(viper.GetViper())

	// 4. Unmarshal final config
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	// 5. DIRECT OVERRIDE IF STILL EMPTY
	overrideEmptyConfig(&cfg)

	if cfg.Database.Elasticsearch.URL == "" && len(cfg.Database.Elasticsearch.Addresses) > 0 {
		cfg.Database.Elasticsearch.URL = cfg.Database.Elasticsearch.Addresses[0]
	}

	return &cfg, nil
}

// Load .env from multiple possible locations. In the hosted runtime
// there is no .env at all and configuration arrives entirely through
// process environment variables.
func loadEnvFile() {
	// Try multiple paths (for running tools from different directories)
	possiblePaths := []string{
		".env",       // Current directory
		"../.env",    // Parent directory
		"../../.env", // Two levels up
	}

	// Also try to find project root by looking for go.mod
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Walk up directories looking for go.mod
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			break
		}
		dir = parent
	}

	return ""
}

// Improved environment variable expansion
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		// Only process string values
		if strVal, ok := val.(string); ok {
			// Check if it contains environment variable pattern
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

// Direct override if config values are still empty after expansion.
// These are the flat names the deployed functions are provisioned with;
// AutomaticEnv only resolves keys viper already knows about.
func overrideEmptyConfig(cfg *Config) {
	setIfEmpty(&cfg.AWS.Region, "AWS_REGION")

	// Bot identity
	setIfEmpty(&cfg.Lex.BotID, "BOT_ID")
	setIfEmpty(&cfg.Lex.BotAliasID, "BOT_ALIAS_ID")
	setIfEmpty(&cfg.Lex.LocaleID, "LOCALE_ID")

	// Queue
	setIfEmpty(&cfg.Queue.URL, "SQS_QUEUE_URL")

	// Search cluster
	setIfEmpty(&cfg.Database.Elasticsearch.URL, "OPENSEARCH_ENDPOINT")
	setIfEmpty(&cfg.Database.Elasticsearch.Username, "OS_USERNAME")
	setIfEmpty(&cfg.Database.Elasticsearch.Password, "OS_PASSWORD")

	// Redis (optional)
	setIfEmpty(&cfg.Database.Redis.Address, "REDIS_ADDRESS")

	// Email
	setIfEmpty(&cfg.Email.Sender, "SENDER_EMAIL")
	setIfEmpty(&cfg.Email.AlertTopicARN, "ALERT_TOPIC_ARN")

	// Scraper
	setIfEmpty(&cfg.Yelp.APIKey, "YELP_API_KEY")
}

func setIfEmpty(target *string, envKey string) {
	if *target == "" {
		if val := os.Getenv(envKey); val != "" {
			*target = val
		}
	}
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile() // Load env file first

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	// Expand environment variables before unmarshal
	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	return &cfg, nil
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "dining-concierge"
	}

	if cfg.AWS.Region == "" {
		cfg.AWS.Region = "us-east-1"
	}

	if cfg.Lex.LocaleID == "" {
		cfg.Lex.LocaleID = "en_US"
	}

	// Table defaults match the provisioned stack
	if cfg.Database.DynamoDB.RestaurantsTable == "" {
		cfg.Database.DynamoDB.RestaurantsTable = "yelp-restaurants"
	}
	if cfg.Database.DynamoDB.PreferencesTable == "" {
		cfg.Database.DynamoDB.PreferencesTable = "UserSearchState"
	}

	if cfg.Database.Elasticsearch.Index == "" {
		cfg.Database.Elasticsearch.Index = "restaurants"
	}

	// Elasticsearch URL fallback
	if cfg.Database.Elasticsearch.URL == "" && len(cfg.Database.Elasticsearch.Addresses) > 0 {
		cfg.Database.Elasticsearch.URL = cfg.Database.Elasticsearch.Addresses[0]
	}

	if cfg.Yelp.BaseURL == "" {
		cfg.Yelp.BaseURL = "https://api.yelp.com/v3"
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}
