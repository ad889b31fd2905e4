package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the entire application configuration
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Downloads     DownloadsConfig     `mapstructure:"downloads"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Links         LinksConfig         `mapstructure:"links"`

	v *viper.Viper
}

// ServerConfig contains the local control server configuration
type ServerConfig struct {
	BindAddr       string   `mapstructure:"bind_addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	ReadTimeout    string   `mapstructure:"read_timeout"`
	WriteTimeout   string   `mapstructure:"write_timeout"`
	IdleTimeout    string   `mapstructure:"idle_timeout"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path             string `mapstructure:"path"`
	BusyTimeoutMs    int    `mapstructure:"busy_timeout_ms"`
	HistoryRetention string `mapstructure:"history_retention"`
}

// DownloadsConfig contains intercepted download settings.
// Path, Silent and PromptDownload are re-read at every interception.
type DownloadsConfig struct {
	Path           string `mapstructure:"path"`
	Silent         bool   `mapstructure:"silent"`
	PromptDownload bool   `mapstructure:"prompt_download"`
	Timeout        string `mapstructure:"timeout"`
	UserAgent      string `mapstructure:"user_agent"`
	CookieHeader   string `mapstructure:"cookie_header"`
}

// NotificationsConfig contains desktop notification settings
type NotificationsConfig struct {
	CueSound string `mapstructure:"cue_sound"`
}

// LinksConfig contains link classification settings
type LinksConfig struct {
	UploadsPath     string   `mapstructure:"uploads_path"`
	ImageExtensions []string `mapstructure:"image_extensions"`
}

// setDefaults registers every default on v
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.bind_addr", "127.0.0.1:9876")
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("database.path", "")
	v.SetDefault("database.busy_timeout_ms", 5000)
	v.SetDefault("database.history_retention", "720h")
	v.SetDefault("downloads.path", "")
	v.SetDefault("downloads.silent", false)
	v.SetDefault("downloads.prompt_download", false)
	v.SetDefault("downloads.timeout", "30m")
	v.SetDefault("downloads.user_agent", "linkguard")
	v.SetDefault("downloads.cookie_header", "")
	v.SetDefault("notifications.cue_sound", "")
	v.SetDefault("links.uploads_path", "/user_uploads/")
	v.SetDefault("links.image_extensions", []string{"bmp", "gif", "jpg", "jpeg", "png", "webp"})
}

// Load loads configuration from the specified file path.
// An empty path loads defaults only.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("LINKGUARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		// Read config file
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.v = v

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.BindAddr == "" {
		return fmt.Errorf("server.bind_addr is required")
	}

	if c.Database.BusyTimeoutMs < 0 {
		return fmt.Errorf("database.busy_timeout_ms must not be negative")
	}
	if _, err := time.ParseDuration(c.Database.HistoryRetention); err != nil {
		return fmt.Errorf("invalid database.history_retention: %w", err)
	}

	if _, err := time.ParseDuration(c.Downloads.Timeout); err != nil {
		return fmt.Errorf("invalid downloads.timeout: %w", err)
	}

	for _, d := range []string{c.Server.ReadTimeout, c.Server.WriteTimeout, c.Server.IdleTimeout} {
		if _, err := time.ParseDuration(d); err != nil {
			return fmt.Errorf("invalid server timeout %q: %w", d, err)
		}
	}

	// Validate logging config
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		// Valid levels
	default:
		return fmt.Errorf("invalid logging.level: %s", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "text":
		// Valid formats
	default:
		return fmt.Errorf("invalid logging.format: %s", c.Logging.Format)
	}

	return nil
}

// Settings returns a live reader over this configuration's download settings
func (c *Config) Settings(defaultDownloadsDir string) *Settings {
	return newSettings(c.v, defaultDownloadsDir)
}

// GetDownloadTimeout returns the per-transfer timeout as time.Duration
func (c *DownloadsConfig) GetDownloadTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	if d == 0 {
		return 30 * time.Minute
	}
	return d
}

// GetHistoryRetention returns how long resolved downloads are kept
func (c *DatabaseConfig) GetHistoryRetention() time.Duration {
	d, _ := time.ParseDuration(c.HistoryRetention)
	if d == 0 {
		return 30 * 24 * time.Hour
	}
	return d
}

// GetReadTimeout returns the read timeout as time.Duration
func (c *ServerConfig) GetReadTimeout() time.Duration {
	d, _ := time.ParseDuration(c.ReadTimeout)
	if d == 0 {
		return 30 * time.Second
	}
	return d
}

// GetWriteTimeout returns the write timeout as time.Duration
func (c *ServerConfig) GetWriteTimeout() time.Duration {
	d, _ := time.ParseDuration(c.WriteTimeout)
	if d == 0 {
		return 30 * time.Second
	}
	return d
}

// GetIdleTimeout returns the idle timeout as time.Duration
func (c *ServerConfig) GetIdleTimeout() time.Duration {
	d, _ := time.ParseDuration(c.IdleTimeout)
	if d == 0 {
		return 120 * time.Second
	}
	return d
}
