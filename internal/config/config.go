// Package config loads parkmap settings from config.yaml, the environment
// and defaults, and sets up the global logger.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("config: invalid")

// Config is the top-level configuration.
type Config struct {
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Overpass  OverpassConfig  `yaml:"overpass" mapstructure:"overpass"`
	Nominatim NominatimConfig `yaml:"nominatim" mapstructure:"nominatim"`
	Estimate  EstimateConfig  `yaml:"estimate" mapstructure:"estimate"`
	Render    RenderConfig    `yaml:"render" mapstructure:"render"`
	Storage   StorageConfig   `yaml:"storage" mapstructure:"storage"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port               int     `yaml:"port" mapstructure:"port"`
	ReadTimeoutSecs    int     `yaml:"read_timeout_secs" mapstructure:"read_timeout_secs"`
	WriteTimeoutSecs   int     `yaml:"write_timeout_secs" mapstructure:"write_timeout_secs"`
	RequestTimeoutSecs int     `yaml:"request_timeout_secs" mapstructure:"request_timeout_secs"`
	MaxConcurrent      int     `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	CORSOrigin         string  `yaml:"cors_origin" mapstructure:"cors_origin"`
	MaxDelta           float64 `yaml:"max_delta" mapstructure:"max_delta"`
}

// OverpassConfig configures the Overpass API client.
type OverpassConfig struct {
	URL         string `yaml:"url" mapstructure:"url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
}

// Timeout returns the query timeout as a duration.
func (o OverpassConfig) Timeout() time.Duration {
	return time.Duration(o.TimeoutSecs) * time.Second
}

// NominatimConfig configures region name lookups.
type NominatimConfig struct {
	URL string `yaml:"url" mapstructure:"url"`
}

// EstimateConfig configures the capacity estimator.
type EstimateConfig struct {
	SpacingMeters float64 `yaml:"spacing_meters" mapstructure:"spacing_meters"`
}

// RenderConfig configures map output.
type RenderConfig struct {
	Zoom            int  `yaml:"zoom" mapstructure:"zoom"`
	Satellite       bool `yaml:"satellite" mapstructure:"satellite"`
	ColorByCapacity bool `yaml:"color_by_capacity" mapstructure:"color_by_capacity"`
}

// StorageConfig selects where generated maps are published.
type StorageConfig struct {
	Driver    string      `yaml:"driver" mapstructure:"driver"`
	Dir       string      `yaml:"dir" mapstructure:"dir"`
	URLPrefix string      `yaml:"url_prefix" mapstructure:"url_prefix"`
	Minio     MinioConfig `yaml:"minio" mapstructure:"minio"`
}

// MinioConfig holds S3 settings for the minio storage driver.
type MinioConfig struct {
	Endpoint       string `yaml:"endpoint" mapstructure:"endpoint"`
	AccessKey      string `yaml:"access_key" mapstructure:"access_key"`
	SecretKey      string `yaml:"secret_key" mapstructure:"secret_key"`
	Bucket         string `yaml:"bucket" mapstructure:"bucket"`
	UseSSL         bool   `yaml:"use_ssl" mapstructure:"use_ssl"`
	URLExpiryHours int    `yaml:"url_expiry_hours" mapstructure:"url_expiry_hours"`
}

// Storage drivers.
const (
	DriverDir   = "dir"
	DriverMinio = "minio"
)

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file path. An empty path searches
// the working directory for config.yaml.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("PARKMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Hosting platforms hand the listen port over as plain PORT.
	if err := v.BindEnv("server.port", "PARKMAP_SERVER_PORT", "PORT"); err != nil {
		return nil, eris.Wrap(err, "config: bind env")
	}

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 5001)
	v.SetDefault("server.read_timeout_secs", 10)
	v.SetDefault("server.write_timeout_secs", 120)
	v.SetDefault("server.request_timeout_secs", 90)
	v.SetDefault("server.max_concurrent", 4)
	v.SetDefault("server.cors_origin", "")
	v.SetDefault("server.max_delta", 0.05)
	v.SetDefault("overpass.url", "https://overpass-api.de/api/interpreter")
	v.SetDefault("overpass.timeout_secs", 60)
	v.SetDefault("overpass.user_agent", "parkmap/1.0")
	v.SetDefault("nominatim.url", "https://nominatim.openstreetmap.org")
	v.SetDefault("estimate.spacing_meters", 6.0)
	v.SetDefault("render.zoom", 15)
	v.SetDefault("render.satellite", true)
	v.SetDefault("render.color_by_capacity", true)
	v.SetDefault("storage.driver", DriverDir)
	v.SetDefault("storage.dir", "previous_maps")
	v.SetDefault("storage.url_prefix", "/maps")
	v.SetDefault("storage.minio.endpoint", "")
	v.SetDefault("storage.minio.access_key", "")
	v.SetDefault("storage.minio.secret_key", "")
	v.SetDefault("storage.minio.bucket", "parking-maps")
	v.SetDefault("storage.minio.use_ssl", false)
	v.SetDefault("storage.minio.url_expiry_hours", 24)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks settings that would otherwise fail deep inside a request.
func (c *Config) Validate() error {
	if c.Estimate.SpacingMeters <= 0 {
		return fmt.Errorf("%w: estimate.spacing_meters must be positive (got %v)", ErrInvalidConfig, c.Estimate.SpacingMeters)
	}
	if c.Server.MaxDelta <= 0 {
		return fmt.Errorf("%w: server.max_delta must be positive (got %v)", ErrInvalidConfig, c.Server.MaxDelta)
	}
	switch c.Storage.Driver {
	case DriverDir, DriverMinio:
	default:
		return fmt.Errorf("%w: unknown storage.driver %q", ErrInvalidConfig, c.Storage.Driver)
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
