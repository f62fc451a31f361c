package config

import "fmt"

// Config represents the complete application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Queue    QueueConfig    `mapstructure:"queue"`
	Forecast ForecastConfig `mapstructure:"forecast"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig represents HTTP server configuration.
type ServerConfig struct {
	Host     string `mapstructure:"host"`      // Bind address (e.g., 0.0.0.0 for all interfaces)
	HTTPPort int    `mapstructure:"http_port"` // HTTP server port
}

// AuthConfig represents authentication configuration.
type AuthConfig struct {
	Enabled bool     `mapstructure:"enabled"`  // Enable/disable API key authentication
	APIKeys []string `mapstructure:"api_keys"` // List of valid API keys
}

// QueueConfig represents the forecast event queue configuration.
type QueueConfig struct {
	Type     string `mapstructure:"type"`     // Queue type: memory (default), nats, redis, kafka
	URL      string `mapstructure:"url"`      // Queue server URL (e.g., nats://localhost:4222)
	Username string `mapstructure:"username"` // Optional authentication
	Password string `mapstructure:"password"` // Optional authentication

	// Redis-specific options
	RedisDB       int    `mapstructure:"redis_db"`       // Redis database number (default: 0)
	RedisStream   string `mapstructure:"redis_stream"`   // Redis stream prefix (default: "demandcast")
	RedisGroup    string `mapstructure:"redis_group"`    // Redis consumer group (default: "demandcast-group")
	RedisConsumer string `mapstructure:"redis_consumer"` // Redis consumer name (default: hostname)

	// Kafka-specific options
	KafkaBrokers []string `mapstructure:"kafka_brokers"`  // Kafka broker addresses
	KafkaGroupID string   `mapstructure:"kafka_group_id"` // Kafka consumer group ID
}

// ForecastConfig carries the engine defaults applied when a request omits
// tuning fields. These were process-wide globals in earlier incarnations;
// they are explicit configuration here.
type ForecastConfig struct {
	Alpha          float64 `mapstructure:"alpha"`           // Level smoothing constant (0-1)
	Beta           float64 `mapstructure:"beta"`            // Trend smoothing constant (0-1)
	Gamma          float64 `mapstructure:"gamma"`           // Seasonal smoothing constant (0-1)
	SeasonalPeriod int     `mapstructure:"seasonal_period"` // Weekly seasonal cycle length (2-12)
	WeeklyHorizon  int     `mapstructure:"weekly_horizon"`  // Default weekly projection length
	MonthlyHorizon int     `mapstructure:"monthly_horizon"` // Default monthly projection length
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, file path
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Forecast.Validate(); err != nil {
		return fmt.Errorf("forecast config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates server configuration.
func (c *ServerConfig) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d", c.HTTPPort)
	}
	return nil
}

// Validate validates forecast defaults.
func (c *ForecastConfig) Validate() error {
	for name, v := range map[string]float64{"alpha": c.Alpha, "beta": c.Beta, "gamma": c.Gamma} {
		if v < 0 || v > 1 {
			return fmt.Errorf("forecast.%s must be within [0, 1], got %v", name, v)
		}
	}

	if c.SeasonalPeriod < 2 || c.SeasonalPeriod > 12 {
		return fmt.Errorf("forecast.seasonal_period must be within [2, 12], got %d", c.SeasonalPeriod)
	}

	if c.WeeklyHorizon < 1 {
		return fmt.Errorf("forecast.weekly_horizon must be at least 1, got %d", c.WeeklyHorizon)
	}

	if c.MonthlyHorizon < 1 {
		return fmt.Errorf("forecast.monthly_horizon must be at least 1, got %d", c.MonthlyHorizon)
	}

	return nil
}

// Validate validates logging configuration.
func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}

	if !validFormats[c.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console'")
	}

	return nil
}
