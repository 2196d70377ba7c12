// internal/config/config.go
package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string

	// Backend the client talks to.
	BaseURL        string
	RequestTimeout time.Duration
	RateLimit      float64
	RateBurst      int

	CacheTTL         time.Duration
	CacheDatabaseURL string

	AllowedOrigins []string

	// Credentials used by the CLI; the gateway takes tokens per request.
	TokenType   string
	AccessToken string

	S3 S3Settings
}

// SetDefaults registers every key with its default so environment variables
// are picked up by Unmarshal-free lookups.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("config", "")
	v.SetDefault("port", "8080")
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("base_url", "http://localhost:8090")
	v.SetDefault("request_timeout", time.Duration(0))
	v.SetDefault("rate_limit", 0.0)
	v.SetDefault("rate_burst", 1)
	v.SetDefault("cache_ttl", 5*time.Minute)
	v.SetDefault("cache_database_url", "")
	v.SetDefault("allowed_origins", []string{"*"})
	v.SetDefault("token_type", "Bearer")
	v.SetDefault("access_token", "")
	v.SetDefault("s3.region", "")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.prefix", "snapshots")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.endpoint", "")
}

// New returns a viper instance reading ADS_* environment variables, with
// nested keys joined by underscores (s3.bucket is ADS_S3_BUCKET).
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("ads")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load reads the environment and, when ADS_CONFIG names one, a config
// file underneath it.
func Load() (*Config, error) {
	v := New()
	if err := ReadConfigFile(v); err != nil {
		return nil, err
	}
	return FromViper(v), nil
}

// ReadConfigFile reads the file named by the "config" key, if any.
// Environment variables and bound flags still take precedence over it.
func ReadConfigFile(v *viper.Viper) error {
	path := v.GetString("config")
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "read config %s", path)
	}
	return nil
}

func FromViper(v *viper.Viper) *Config {
	return &Config{
		Port:             v.GetString("port"),
		Environment:      v.GetString("environment"),
		LogLevel:         v.GetString("log_level"),
		BaseURL:          v.GetString("base_url"),
		RequestTimeout:   v.GetDuration("request_timeout"),
		RateLimit:        v.GetFloat64("rate_limit"),
		RateBurst:        v.GetInt("rate_burst"),
		CacheTTL:         v.GetDuration("cache_ttl"),
		CacheDatabaseURL: v.GetString("cache_database_url"),
		AllowedOrigins:   v.GetStringSlice("allowed_origins"),
		TokenType:        v.GetString("token_type"),
		AccessToken:      v.GetString("access_token"),
		S3: S3Settings{
			Region:          v.GetString("s3.region"),
			Bucket:          v.GetString("s3.bucket"),
			Prefix:          v.GetString("s3.prefix"),
			AccessKeyID:     v.GetString("s3.access_key_id"),
			SecretAccessKey: v.GetString("s3.secret_access_key"),
			Endpoint:        v.GetString("s3.endpoint"),
		},
	}
}
