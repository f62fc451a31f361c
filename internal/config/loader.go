package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default config locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")               // Current directory
		v.AddConfigPath("./configs")       // Project configs directory
		v.AddConfigPath("./config")        // Alternative config directory
		v.AddConfigPath("/etc/demandcast") // System-wide config
	}

	// Set defaults
	setDefaults(v)

	// Enable environment variable overrides
	v.SetEnvPrefix("DEMANDCAST")
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; use defaults
			return parseConfig(v)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parseConfig(v)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 6060)

	// Auth defaults
	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.api_keys", []string{})

	// Queue defaults
	v.SetDefault("queue.type", "memory")
	v.SetDefault("queue.url", "nats://localhost:4222")
	v.SetDefault("queue.redis_db", 0)
	v.SetDefault("queue.redis_stream", "demandcast")
	v.SetDefault("queue.redis_group", "demandcast-group")
	v.SetDefault("queue.kafka_brokers", []string{"localhost:9092"})
	v.SetDefault("queue.kafka_group_id", "demandcast-group")

	// Forecast defaults
	v.SetDefault("forecast.alpha", 0.3)
	v.SetDefault("forecast.beta", 0.1)
	v.SetDefault("forecast.gamma", 0.1)
	v.SetDefault("forecast.seasonal_period", 4)
	v.SetDefault("forecast.weekly_horizon", 8)
	v.SetDefault("forecast.monthly_horizon", 6)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output_path", "stdout")
}

// parseConfig parses viper config into Config struct
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault loads configuration from file or returns default config
func LoadOrDefault(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		// Return default configuration
		return DefaultConfig()
	}
	return cfg
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:     "0.0.0.0",
			HTTPPort: 6060,
		},
		Auth: AuthConfig{
			Enabled: false,
			APIKeys: []string{},
		},
		Queue: QueueConfig{
			Type:        "memory",
			URL:         "nats://localhost:4222",
			RedisDB:     0,
			RedisStream: "demandcast",
			RedisGroup:  "demandcast-group",
		},
		Forecast: ForecastConfig{
			Alpha:          0.3,
			Beta:           0.1,
			Gamma:          0.1,
			SeasonalPeriod: 4,
			WeeklyHorizon:  8,
			MonthlyHorizon: 6,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
		},
	}
}
