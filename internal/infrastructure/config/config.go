// Package config provides centralized configuration management
// using Viper for configuration loading and validation
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment override
const EnvPrefix = "PANTRY"

// Config holds all application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Video      VideoConfig      `mapstructure:"video"`
	AWS        AWSConfig        `mapstructure:"aws"`
	Events     EventsConfig     `mapstructure:"events"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
	SecretsDir  string `mapstructure:"secrets_dir"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// CatalogConfig selects where recipes are read from
type CatalogConfig struct {
	// Driver is "memory" or "database"
	Driver string `mapstructure:"driver"`
	// Seed loads the built-in recipes into an empty database catalog
	Seed bool `mapstructure:"seed"`
}

// DatabaseConfig contains database configuration
type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres"
	Driver             string        `mapstructure:"driver"`
	Path               string        `mapstructure:"path"`
	Host               string        `mapstructure:"host"`
	Port               int           `mapstructure:"port"`
	Database           string        `mapstructure:"database"`
	Username           string        `mapstructure:"username"`
	Password           string        `mapstructure:"password"`
	SSLMode            string        `mapstructure:"ssl_mode"`
	ReadReplicas       []string      `mapstructure:"read_replicas"`
	MaxOpenConns       int           `mapstructure:"max_open_conns"`
	MaxIdleConns       int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime    time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime    time.Duration `mapstructure:"conn_max_idle_time"`
	SlowQueryThreshold time.Duration `mapstructure:"slow_query_threshold"`
	AutoMigrate        bool          `mapstructure:"auto_migrate"`
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	Database     int           `mapstructure:"database"`
	MaxRetries   int           `mapstructure:"max_retries"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	ClusterNodes []string      `mapstructure:"cluster_nodes"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// VideoConfig configures the video orchestrator and its generators
type VideoConfig struct {
	// Generator is "auto", "keyword" or "remote". Auto picks remote when
	// an API key is configured.
	Generator string `mapstructure:"generator"`
	// CacheDriver is "memory", "redis" or "database"
	CacheDriver       string        `mapstructure:"cache_driver"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
	CacheTimeout      time.Duration `mapstructure:"cache_timeout"`
	GenerationTimeout time.Duration `mapstructure:"generation_timeout"`
	FallbackEnabled   bool          `mapstructure:"fallback_enabled"`
	FallbackURL       string        `mapstructure:"fallback_url"`

	RateLimit VideoRateLimitConfig `mapstructure:"rate_limit"`
	Remote    RemoteVideoConfig    `mapstructure:"remote"`
	Mirror    MirrorConfig         `mapstructure:"mirror"`
}

// VideoRateLimitConfig throttles calls to the generation provider
type VideoRateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
	Burst             int `mapstructure:"burst"`
}

// RemoteVideoConfig configures the remote generation provider
type RemoteVideoConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	APIKey         string        `mapstructure:"api_key"`
	Model          string        `mapstructure:"model"`
	AuthTimeout    time.Duration `mapstructure:"auth_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// MirrorConfig copies generated videos into object storage
type MirrorConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Bucket        string `mapstructure:"bucket"`
	Prefix        string `mapstructure:"prefix"`
	PublicBaseURL string `mapstructure:"public_base_url"`
	MaxBytes      int64  `mapstructure:"max_bytes"`
}

// AWSConfig contains AWS service configuration
type AWSConfig struct {
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	Endpoint        string `mapstructure:"endpoint"`
	UsePathStyle    bool   `mapstructure:"use_path_style"`
}

// EventsConfig selects where domain events are published
type EventsConfig struct {
	// Driver is "log" or "kafka"
	Driver       string   `mapstructure:"driver"`
	Brokers      []string `mapstructure:"brokers"`
	Topic        string   `mapstructure:"topic"`
	ClientID     string   `mapstructure:"client_id"`
	RetryMax     int      `mapstructure:"retry_max"`
	RequiredAcks int      `mapstructure:"required_acks"`
}

// MonitoringConfig contains monitoring configuration
type MonitoringConfig struct {
	EnableMetrics bool    `mapstructure:"enable_metrics"`
	EnableTracing bool    `mapstructure:"enable_tracing"`
	OTLPEndpoint  string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure  bool    `mapstructure:"otlp_insecure"`
	SamplingRate  float64 `mapstructure:"sampling_rate"`
}

// Load loads configuration from file, .env files, environment variables
// and secret files, in increasing order of precedence up to the
// environment.
func Load(configPath string) (*Config, error) {
	loadDotEnv()

	v, err := newViper(configPath)
	if err != nil {
		return nil, err
	}

	// Secret files fill in credentials that the environment did not set
	applySecrets(v, v.GetString("app.secrets_dir"))

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// newViper builds a viper instance with defaults, file and environment
func newViper(configPath string) (*viper.Viper, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/pantry")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist, we have defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return v, nil
}

// setDefaults sets default configuration values. Unmarshal only reads
// environment overrides for keys viper already knows, so every
// configurable key needs a default here, even an empty one.
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "Pantry")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "json")
	v.SetDefault("app.secrets_dir", "/run/secrets")

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "90s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.request_timeout", "75s")
	v.SetDefault("server.shutdown_timeout", "30s")

	// Catalog defaults
	v.SetDefault("catalog.driver", "memory")
	v.SetDefault("catalog.seed", true)

	// Database defaults
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", ":memory:")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.database", "pantry")
	v.SetDefault("database.username", "pantry")
	v.SetDefault("database.password", "")
	v.SetDefault("database.read_replicas", []string{})
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.conn_max_idle_time", "10m")
	v.SetDefault("database.slow_query_threshold", "200ms")
	v.SetDefault("database.auto_migrate", true)

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.cluster_nodes", []string{})
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.dial_timeout", "5s")
	v.SetDefault("redis.read_timeout", "3s")
	v.SetDefault("redis.write_timeout", "3s")
	v.SetDefault("redis.key_prefix", "pantry:")

	// Video defaults
	v.SetDefault("video.generator", "auto")
	v.SetDefault("video.cache_driver", "memory")
	v.SetDefault("video.cache_ttl", "0s")
	v.SetDefault("video.cache_timeout", "2s")
	v.SetDefault("video.generation_timeout", "60s")
	v.SetDefault("video.fallback_enabled", true)
	v.SetDefault("video.fallback_url", "https://storage.googleapis.com/gtv-videos-bucket/sample/BigBuckBunny.mp4")
	v.SetDefault("video.rate_limit.requests_per_minute", 0)
	v.SetDefault("video.rate_limit.burst", 1)
	v.SetDefault("video.remote.base_url", "https://api.video-provider.example.com/v1")
	v.SetDefault("video.remote.api_key", "")
	v.SetDefault("video.remote.model", "recipe-narrator-1")
	v.SetDefault("video.remote.auth_timeout", "10s")
	v.SetDefault("video.remote.request_timeout", "55s")
	v.SetDefault("video.mirror.enabled", false)
	v.SetDefault("video.mirror.bucket", "")
	v.SetDefault("video.mirror.prefix", "recipe-videos")
	v.SetDefault("video.mirror.public_base_url", "")
	v.SetDefault("video.mirror.max_bytes", 200<<20) // 200MB

	// AWS defaults
	v.SetDefault("aws.region", "us-east-1")
	v.SetDefault("aws.access_key_id", "")
	v.SetDefault("aws.secret_access_key", "")
	v.SetDefault("aws.endpoint", "")
	v.SetDefault("aws.use_path_style", false)

	// Events defaults
	v.SetDefault("events.driver", "log")
	v.SetDefault("events.brokers", []string{"localhost:9092"})
	v.SetDefault("events.topic", "pantry.recipe-events")
	v.SetDefault("events.client_id", "pantry")
	v.SetDefault("events.retry_max", 5)
	v.SetDefault("events.required_acks", -1)

	// Monitoring defaults
	v.SetDefault("monitoring.enable_metrics", true)
	v.SetDefault("monitoring.enable_tracing", false)
	v.SetDefault("monitoring.otlp_endpoint", "localhost:4318")
	v.SetDefault("monitoring.otlp_insecure", true)
	v.SetDefault("monitoring.sampling_rate", 0.1)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	if err := oneOf("catalog.driver", c.Catalog.Driver, "memory", "database"); err != nil {
		return err
	}
	if err := oneOf("database.driver", c.Database.Driver, "sqlite", "postgres"); err != nil {
		return err
	}
	if err := oneOf("video.generator", c.Video.Generator, "auto", "keyword", "remote"); err != nil {
		return err
	}
	if err := oneOf("video.cache_driver", c.Video.CacheDriver, "memory", "redis", "database"); err != nil {
		return err
	}
	if err := oneOf("events.driver", c.Events.Driver, "log", "kafka"); err != nil {
		return err
	}

	if c.Video.FallbackEnabled && c.Video.FallbackURL == "" {
		return fmt.Errorf("video.fallback_url is required when video.fallback_enabled is set")
	}

	if c.Video.Generator == "remote" && c.Video.Remote.APIKey == "" {
		return fmt.Errorf("video.remote.api_key is required for the remote generator")
	}

	if c.Video.Mirror.Enabled && c.Video.Mirror.Bucket == "" {
		return fmt.Errorf("video.mirror.bucket is required when mirroring is enabled")
	}

	if c.Events.Driver == "kafka" && len(c.Events.Brokers) == 0 {
		return fmt.Errorf("events.brokers is required for the kafka driver")
	}

	if c.Monitoring.SamplingRate < 0 || c.Monitoring.SamplingRate > 1 {
		return fmt.Errorf("monitoring.sampling_rate must be between 0 and 1")
	}

	return nil
}

func oneOf(key, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %s, got %q", key, strings.Join(allowed, ", "), value)
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// UseRemoteGenerator reports whether the remote provider should serve
// video generation
func (c *Config) UseRemoteGenerator() bool {
	switch c.Video.Generator {
	case "remote":
		return true
	case "keyword":
		return false
	default:
		return c.Video.Remote.APIKey != ""
	}
}

// GetDSN returns the PostgreSQL connection string
func (c *Config) GetDSN() string {
	return c.Database.DSN(c.Database.Host)
}

// DSN returns the PostgreSQL connection string for the given host
func (d DatabaseConfig) DSN(host string) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		host,
		d.Port,
		d.Username,
		d.Password,
		d.Database,
		d.SSLMode,
	)
}

// URL returns the PostgreSQL connection URL used by migrations
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.Username, d.Password, d.Host, d.Port, d.Database, d.SSLMode)
}

// RedisAddrs returns the Redis addresses to connect to
func (r RedisConfig) RedisAddrs() []string {
	if len(r.ClusterNodes) > 0 {
		return r.ClusterNodes
	}
	return []string{fmt.Sprintf("%s:%d", r.Host, r.Port)}
}
