package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Weather  WeatherConfig  `mapstructure:"weather"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type AppConfig struct {
	DefaultCity        string        `mapstructure:"default_city"`
	PreferenceKey      string        `mapstructure:"preference_key"`
	Debounce           time.Duration `mapstructure:"debounce"`
	MinQueryLength     int           `mapstructure:"min_query_length"`
	DropStaleResponses bool          `mapstructure:"drop_stale_responses"`
}

type WeatherConfig struct {
	APIKey            string  `mapstructure:"api_key"`
	BaseURL           string  `mapstructure:"base_url"`
	ForecastDays      int     `mapstructure:"forecast_days"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type ServerConfig struct {
	Enabled   bool    `mapstructure:"enabled"`
	Port      int     `mapstructure:"port"`
	RateLimit float64 `mapstructure:"rate_limit"`
	Burst     int     `mapstructure:"burst"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Storage drivers
const (
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

func Load() (*Config, error) {
	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	viper.SetConfigName("nebo")
	viper.SetConfigType("yaml")

	// First found wins
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME")
	viper.AddConfigPath("$HOME/.config")
	viper.AddConfigPath("/etc")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.BindEnv("app.default_city", "NEBO_DEFAULT_CITY")
	viper.BindEnv("app.preference_key", "NEBO_PREFERENCE_KEY")
	viper.BindEnv("app.debounce", "NEBO_DEBOUNCE")
	viper.BindEnv("app.min_query_length", "NEBO_MIN_QUERY_LENGTH")
	viper.BindEnv("app.drop_stale_responses", "NEBO_DROP_STALE_RESPONSES")

	viper.BindEnv("weather.api_key", "WEATHERAPI_KEY")
	viper.BindEnv("weather.base_url", "WEATHERAPI_BASE_URL")
	viper.BindEnv("weather.forecast_days", "WEATHER_FORECAST_DAYS")
	viper.BindEnv("weather.requests_per_second", "WEATHER_REQUESTS_PER_SECOND")
	viper.BindEnv("weather.burst", "WEATHER_BURST")

	viper.BindEnv("storage.driver", "NEBO_STORAGE_DRIVER")
	viper.BindEnv("storage.path", "NEBO_STORAGE_PATH")

	viper.BindEnv("database.host", "DB_HOST")
	viper.BindEnv("database.port", "DB_PORT")
	viper.BindEnv("database.user", "DB_USER")
	viper.BindEnv("database.password", "DB_PASSWORD")
	viper.BindEnv("database.name", "DB_NAME")
	viper.BindEnv("database.ssl_mode", "DB_SSL_MODE")

	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("redis.db", "REDIS_DB")

	viper.BindEnv("server.enabled", "NEBO_SERVER_ENABLED")
	viper.BindEnv("server.port", "NEBO_SERVER_PORT")
	viper.BindEnv("server.rate_limit", "NEBO_SERVER_RATE_LIMIT")
	viper.BindEnv("server.burst", "NEBO_SERVER_BURST")

	viper.BindEnv("logging.level", "LOG_LEVEL")
	viper.BindEnv("logging.format", "LOG_FORMAT")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	return &config, nil
}

// Validate reports the first configuration problem that would prevent startup.
func (c *Config) Validate() error {
	if c.Weather.APIKey == "" {
		return fmt.Errorf("WEATHERAPI_KEY is required")
	}

	switch c.Storage.Driver {
	case DriverFile:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the file driver")
		}
	case DriverRedis, DriverPostgres:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.App.Debounce <= 0 {
		return fmt.Errorf("app.debounce must be positive, got %s", c.App.Debounce)
	}

	return nil
}

func setDefaults() {
	viper.SetDefault("app.default_city", "Tucuman, Argentina")
	viper.SetDefault("app.preference_key", "city")
	viper.SetDefault("app.debounce", 700*time.Millisecond)
	viper.SetDefault("app.min_query_length", 3)
	viper.SetDefault("app.drop_stale_responses", false)

	viper.SetDefault("weather.base_url", "https://api.weatherapi.com/v1")
	viper.SetDefault("weather.forecast_days", 7)
	viper.SetDefault("weather.requests_per_second", 0)
	viper.SetDefault("weather.burst", 1)

	viper.SetDefault("storage.driver", DriverFile)
	viper.SetDefault("storage.path", defaultStoragePath())

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "nebo")
	viper.SetDefault("database.ssl_mode", "disable")

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("server.enabled", false)
	viper.SetDefault("server.port", 8088)
	viper.SetDefault("server.rate_limit", 10)
	viper.SetDefault("server.burst", 20)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "console")
}

func defaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "preferences.json"
	}
	return filepath.Join(dir, "nebo", "preferences.json")
}
