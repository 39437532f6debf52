package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	DB      DBConfig      `mapstructure:"db"`
	Session SessionConfig `mapstructure:"session"`
	OIDC    OIDCConfig    `mapstructure:"oidc"`
	Log     LogConfig     `mapstructure:"log"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Storage StorageConfig `mapstructure:"storage"`
	Jobs    JobsConfig    `mapstructure:"jobs"`
}

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Port    string    `mapstructure:"port"`
	BaseURL string    `mapstructure:"base_url"`
	TLS     TLSConfig `mapstructure:"tls"`
}

// TLSConfig holds TLS-specific configuration.
type TLSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	CertFile string `mapstructure:"certFile"`
	KeyFile  string `mapstructure:"keyFile"`
}

// DBConfig holds database-specific configuration.
type DBConfig struct {
	Driver     string `mapstructure:"driver"` // "mysql" or "sqlite3"
	DSN        string `mapstructure:"dsn"`
	Migrations string `mapstructure:"migrations"` // source URL overriding the embedded migrations
}

// SessionConfig holds session cookie configuration.
type SessionConfig struct {
	SecretKey     string `mapstructure:"secret_key"`
	LifetimeHours int    `mapstructure:"lifetime_hours"`
	Secure        bool   `mapstructure:"secure"`
}

// OIDCConfig holds OIDC client configuration. Single sign-on is disabled
// when IssuerURL is empty.
type OIDCConfig struct {
	IssuerURL    string `mapstructure:"issuer_url"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // e.g., "debug", "info", "warn", "error"
	Format string `mapstructure:"format"` // e.g., "json", "console"
}

// CacheConfig holds configuration for the download URL cache.
type CacheConfig struct {
	FilePath string        `mapstructure:"file_path"`
	URLTTL   time.Duration `mapstructure:"url_ttl"`
}

// StorageConfig selects and configures the object store.
type StorageConfig struct {
	Driver        string        `mapstructure:"driver"` // "minio", "s3", "filesystem" or "memory"
	Bucket        string        `mapstructure:"bucket"`
	Endpoint      string        `mapstructure:"endpoint"`
	Region        string        `mapstructure:"region"`
	AccessKey     string        `mapstructure:"access_key"`
	SecretKey     string        `mapstructure:"secret_key"`
	UseSSL        bool          `mapstructure:"use_ssl"`
	RootDir       string        `mapstructure:"root_dir"`
	PublicBaseURL string        `mapstructure:"public_base_url"`
	URLExpiry     time.Duration `mapstructure:"url_expiry"`
}

// JobsConfig holds cron schedules for maintenance jobs.
type JobsConfig struct {
	CachePurge string `mapstructure:"cache_purge"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("db.driver", "sqlite3")
	v.SetDefault("db.dsn", "cms.db")
	v.SetDefault("session.lifetime_hours", 24)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("cache.file_path", "cache.db")
	v.SetDefault("cache.url_ttl", 50*time.Minute)
	v.SetDefault("storage.driver", "filesystem")
	v.SetDefault("storage.root_dir", "media")
	v.SetDefault("storage.public_base_url", "/media")
	v.SetDefault("storage.url_expiry", time.Hour)
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("jobs.cache_purge", "@every 30m")

	// Keys without a meaningful default still need registering so that
	// AutomaticEnv picks them up on Unmarshal.
	for _, key := range []string{
		"db.migrations", "session.secret_key", "session.secure",
		"server.tls.enabled", "server.tls.certFile", "server.tls.keyFile",
		"oidc.issuer_url", "oidc.client_id", "oidc.client_secret", "oidc.redirect_url",
		"storage.bucket", "storage.endpoint", "storage.access_key", "storage.secret_key", "storage.use_ssl",
	} {
		v.SetDefault(key, "")
	}
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	// Set up viper to read from config file
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/cms-dashboard/")
	v.AddConfigPath("$HOME/.cms-dashboard")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return nil, err
		}
	}

	v.SetEnvPrefix("CMS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
