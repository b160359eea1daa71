package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Temporal  TemporalConfig  `mapstructure:"temporal"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Routing   RoutingConfig   `mapstructure:"routing"`
	Weather   WeatherConfig   `mapstructure:"weather"`
}

type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	AllowOrigins string `mapstructure:"allow_origins"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

type TemporalConfig struct {
	HostPort  string `mapstructure:"host_port"`
	Namespace string `mapstructure:"namespace"`
	TaskQueue string `mapstructure:"task_queue"`
}

// ProvidersConfig carries upstream credentials. A provider with no key is
// skipped by its fallback chain.
type ProvidersConfig struct {
	MapboxToken        string `mapstructure:"mapbox_token"`
	OpenRouteAPIKey    string `mapstructure:"openroute_api_key"`
	OpenWeatherAPIKey  string `mapstructure:"openweather_api_key"`
	NominatimUserAgent string `mapstructure:"nominatim_user_agent"`
	OSRMURL            string `mapstructure:"osrm_url"`
	HTTPTimeout        int    `mapstructure:"http_timeout"` // seconds
}

// Timeout returns the upstream HTTP timeout.
func (p ProvidersConfig) Timeout() time.Duration {
	return time.Duration(p.HTTPTimeout) * time.Second
}

type RoutingConfig struct {
	StraightLinePoints int  `mapstructure:"straight_line_points"`
	UseOSRM            bool `mapstructure:"use_osrm"`
}

type WeatherConfig struct {
	MaxConcurrency int `mapstructure:"max_concurrency"`
}

// Load reads configuration from .env, file and environment variables.
func Load(service string) (*Config, error) {
	// .env is optional; real environment variables win over it
	_ = godotenv.Load()

	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.allow_origins", "http://localhost:3000, http://localhost:5173")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("database.enabled", true)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "weathernav")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "weathernav")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", true)
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.task_queue", "trip-planning")
	v.SetDefault("providers.mapbox_token", "")
	v.SetDefault("providers.openroute_api_key", "")
	v.SetDefault("providers.openweather_api_key", "")
	v.SetDefault("providers.nominatim_user_agent", "WeatherNavApp/1.0")
	v.SetDefault("providers.osrm_url", "https://router.project-osrm.org")
	v.SetDefault("providers.http_timeout", 10)
	v.SetDefault("routing.straight_line_points", 10)
	v.SetDefault("routing.use_osrm", true)
	v.SetDefault("weather.max_concurrency", 8)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: WEATHERNAV_PROVIDERS_MAPBOX_TOKEN → providers.mapbox_token
	v.SetEnvPrefix("WEATHERNAV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Database.Enabled {
		if c.Database.Host == "" {
			errs = append(errs, "database.host is required")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
		}
		if c.Database.User == "" {
			errs = append(errs, "database.user is required")
		}
		if c.Database.DBName == "" {
			errs = append(errs, "database.dbname is required")
		}
	}
	if c.NATS.URL == "" {
		errs = append(errs, "nats.url is required")
	}
	if c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required")
	}
	if c.Temporal.TaskQueue == "" {
		errs = append(errs, "temporal.task_queue is required")
	}
	if c.Providers.HTTPTimeout <= 0 {
		errs = append(errs, "providers.http_timeout must be positive")
	}
	if c.Providers.NominatimUserAgent == "" {
		errs = append(errs, "providers.nominatim_user_agent is required")
	}
	if c.Routing.StraightLinePoints < 1 {
		errs = append(errs, fmt.Sprintf("routing.straight_line_points must be at least 1, got %d", c.Routing.StraightLinePoints))
	}
	if c.Weather.MaxConcurrency < 1 {
		errs = append(errs, fmt.Sprintf("weather.max_concurrency must be at least 1, got %d", c.Weather.MaxConcurrency))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
