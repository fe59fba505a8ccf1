package config

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EmbeddedFS can be set to use embedded configuration files
// This should be set from the configs package if embedding is desired
var EmbeddedFS embed.FS

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	GitHub   GitHubConfig   `mapstructure:"github"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Mail     MailConfig     `mapstructure:"mail"`
	Digest   DigestConfig   `mapstructure:"digest"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

// DatabaseConfig holds PostgreSQL database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`

	// Connect retry settings
	ConnectAttempts int           `mapstructure:"connect_attempts"`
	ConnectBackoff  time.Duration `mapstructure:"connect_backoff"`
}

// DSN returns the database connection string
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// GitHubConfig holds GitHub API and OAuth configuration
type GitHubConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
	APIBaseURL   string `mapstructure:"api_base_url"`
	// Token is an optional app-level token used for unauthenticated sync work
	Token string `mapstructure:"token"`

	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// AuthConfig holds session token configuration
type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	CookieDomain  string        `mapstructure:"cookie_domain"`
	SecureCookies bool          `mapstructure:"secure_cookies"`
	FrontendURL   string        `mapstructure:"frontend_url"`
}

// MailConfig holds SMTP configuration for notification delivery
type MailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// IsConfigured returns true if an SMTP host has been set
func (m *MailConfig) IsConfigured() bool {
	return m.Host != ""
}

// DigestConfig holds digest scheduler configuration
type DigestConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Interval is how often due subscriptions are checked
	Interval time.Duration `mapstructure:"interval"`
	// Schedule is an optional cron expression gating digest runs
	Schedule string `mapstructure:"schedule"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"` // debug, info, warn, error
	Output     string `mapstructure:"output"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"` // json, console
}

// Load reads configuration from file and environment variables
// It supports loading from:
// 1. Explicit file path (if provided and exists on filesystem)
// 2. Embedded filesystem (if EmbeddedFS is set)
// 3. Common filesystem locations
// 4. Environment variables (always applied as overrides)
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigType("yaml")

	v.SetEnvPrefix("CODETRIAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configLoaded := false

	// 1. Try explicit config path on filesystem first
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			configLoaded = true
		}
	}

	// 2. Try embedded filesystem if config not loaded and EmbeddedFS is set
	if !configLoaded {
		embeddedConfig, err := tryLoadEmbeddedConfig(configPath)
		if err == nil && embeddedConfig != nil {
			if err := v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
				return nil, fmt.Errorf("failed to read embedded config: %w", err)
			}
			configLoaded = true
		}
	}

	// 3. Try common filesystem locations if still not loaded
	if !configLoaded {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/codetriage")

		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			// Config file not found; rely on defaults and env vars
		}
	}

	overrideFromEnv(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadWithEmbedded loads configuration with an embedded filesystem
func LoadWithEmbedded(configPath string, embeddedFS embed.FS) (*Config, error) {
	EmbeddedFS = embeddedFS
	return Load(configPath)
}

// tryLoadEmbeddedConfig attempts to load config from the embedded filesystem
func tryLoadEmbeddedConfig(configPath string) ([]byte, error) {
	entries, err := fs.ReadDir(EmbeddedFS, ".")
	if err != nil || len(entries) == 0 {
		return nil, fmt.Errorf("no embedded config available")
	}

	if configPath != "" {
		pathsToTry := []string{
			configPath,
			strings.TrimPrefix(configPath, "configs/"),
			strings.TrimPrefix(configPath, "./configs/"),
			strings.TrimPrefix(configPath, "./"),
		}

		for _, path := range pathsToTry {
			if data, err := fs.ReadFile(EmbeddedFS, path); err == nil {
				return data, nil
			}
		}
	}

	defaultNames := []string{"config.yaml", "config.yml"}
	for _, name := range defaultNames {
		if data, err := fs.ReadFile(EmbeddedFS, name); err == nil {
			return data, nil
		}
	}

	return nil, fmt.Errorf("config file not found in embedded filesystem")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "codetriage")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.dbname", "codetriage")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.connect_attempts", 5)
	v.SetDefault("database.connect_backoff", time.Second)

	// GitHub defaults
	v.SetDefault("github.api_base_url", "https://api.github.com")
	v.SetDefault("github.redirect_url", "http://localhost:8080/auth/github/callback")
	v.SetDefault("github.request_timeout", 10*time.Second)

	// Auth defaults
	v.SetDefault("auth.session_ttl", 24*time.Hour)
	v.SetDefault("auth.secure_cookies", false)

	// Mail defaults
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.from", "noreply@codetriage.local")

	// Digest defaults
	v.SetDefault("digest.enabled", true)
	v.SetDefault("digest.interval", time.Hour)
	v.SetDefault("digest.schedule", "")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.output", "console")
	v.SetDefault("logging.output_path", "./logs/app.log")
	v.SetDefault("logging.format", "json")
}

// overrideFromEnv handles special environment variable overrides
func overrideFromEnv(v *viper.Viper) {
	if dbPass := os.Getenv("CODETRIAGE_DB_PASSWORD"); dbPass != "" {
		v.Set("database.password", dbPass)
	}

	// OAuth credentials from env (more secure than config file)
	if clientID := os.Getenv("GITHUB_CLIENT_ID"); clientID != "" {
		v.Set("github.client_id", clientID)
	}
	if clientSecret := os.Getenv("GITHUB_CLIENT_SECRET"); clientSecret != "" {
		v.Set("github.client_secret", clientSecret)
	}
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		v.Set("github.token", token)
	}
	if smtpPass := os.Getenv("CODETRIAGE_SMTP_PASSWORD"); smtpPass != "" {
		v.Set("mail.password", smtpPass)
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Database.ConnectAttempts <= 0 {
		return fmt.Errorf("database connect_attempts must be positive")
	}

	if c.Auth.JWTSecret == "" && c.IsProduction() {
		return fmt.Errorf("auth jwt_secret is required in production")
	}

	if c.Digest.Enabled && c.Digest.Interval <= 0 {
		return fmt.Errorf("digest interval must be positive")
	}

	return nil
}

// ServerAddress returns the HTTP server address
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Mode == "debug" || c.Server.Mode == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Mode == "release" || c.Server.Mode == "production"
}
