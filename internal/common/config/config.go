// internal/common/config/config.go
package config

// Config is the main application configuration struct, shared by the
// function entrypoints and the offline loading tools.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	AWS      AWSConfig      `mapstructure:"aws"`
	Lex      LexConfig      `mapstructure:"lex"`
	Queue    QueueConfig    `mapstructure:"queue"`
	Database DatabaseConfig `mapstructure:"database"`
	Email    EmailConfig    `mapstructure:"email"`
	Yelp     YelpConfig     `mapstructure:"yelp"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type AWSConfig struct {
	Region string `mapstructure:"region"`
}

// LexConfig identifies the bot behind the chat gateway.
type LexConfig struct {
	BotID      string `mapstructure:"bot_id"`
	BotAliasID string `mapstructure:"bot_alias_id"`
	LocaleID   string `mapstructure:"locale_id"`
}

// QueueConfig addresses the durable fulfillment request queue.
type QueueConfig struct {
	URL string `mapstructure:"url"`
}

type DatabaseConfig struct {
	DynamoDB      DynamoDBConfig      `mapstructure:"dynamodb"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type DynamoDBConfig struct {
	RestaurantsTable string `mapstructure:"restaurants_table"`
	PreferencesTable string `mapstructure:"preferences_table"`
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Index     string   `mapstructure:"index"`
	URL       string   `mapstructure:"url"` // Single URL for backwards compatibility
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

// RedisConfig addresses the processed-marker store. An empty address
// disables duplicate-delivery protection in the fulfillment worker.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// EmailConfig holds the verified sender address and the optional ops
// alert topic published to when a send fails.
type EmailConfig struct {
	Sender        string `mapstructure:"sender"`
	AlertTopicARN string `mapstructure:"alert_topic_arn"`
}

// YelpConfig holds the business-directory API settings used by the
// restaurant scraper tool.
type YelpConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
