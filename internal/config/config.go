package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Veraticus/habit-tasks/internal/common"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverFile   = "file"
)

// Config holds the resolved application settings.
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Widget  WidgetConfig
	Rules   RulesConfig
	Logging LoggingConfig
	Suggest SuggestConfig
}

// ServerConfig configures the suggestion service.
type ServerConfig struct {
	Addr        string
	CORSOrigins []string
}

// StorageConfig selects where learned associations live.
type StorageConfig struct {
	Driver string
	Path   string
}

// RulesConfig points at the seed rule file.
type RulesConfig struct {
	Path string
}

// SuggestConfig tunes the suggestion engine.
type SuggestConfig struct {
	K int
}

// WidgetConfig configures the terminal widget and its HTTP client.
type WidgetConfig struct {
	Endpoint           string
	Theme              string
	Timeout            time.Duration
	ToastDelay         time.Duration
	ShowSuggestErrors  bool
	ShowFeedbackErrors bool
}

// LoggingConfig configures slog.
type LoggingConfig struct {
	Level  string
	Format string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "127.0.0.1:5000")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.path", "~/.local/share/habits/habits.db")
	v.SetDefault("rules.path", "")
	v.SetDefault("suggest.k", 5)
	v.SetDefault("widget.endpoint", "http://127.0.0.1:5000")
	v.SetDefault("widget.theme", "default")
	v.SetDefault("widget.timeout", time.Duration(0))
	v.SetDefault("widget.toast_delay", 1800*time.Millisecond)
	v.SetDefault("widget.errors.suggest", true)
	v.SetDefault("widget.errors.feedback", false)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load reads and validates configuration from v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Addr:        v.GetString("server.addr"),
			CORSOrigins: v.GetStringSlice("server.cors_origins"),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(v.GetString("storage.driver")),
			Path:   ExpandPath(v.GetString("storage.path")),
		},
		Rules: RulesConfig{
			Path: ExpandPath(v.GetString("rules.path")),
		},
		Suggest: SuggestConfig{
			K: v.GetInt("suggest.k"),
		},
		Widget: WidgetConfig{
			Endpoint:           strings.TrimRight(v.GetString("widget.endpoint"), "/"),
			Theme:              v.GetString("widget.theme"),
			Timeout:            v.GetDuration("widget.timeout"),
			ToastDelay:         v.GetDuration("widget.toast_delay"),
			ShowSuggestErrors:  v.GetBool("widget.errors.suggest"),
			ShowFeedbackErrors: v.GetBool("widget.errors.feedback"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for obviously unusable values.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite, DriverFile:
	default:
		return fmt.Errorf("%w: unknown storage driver %q", common.ErrInvalidConfig, c.Storage.Driver)
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("%w: storage.path", common.ErrMissingConfig)
	}
	if c.Suggest.K <= 0 {
		return fmt.Errorf("%w: suggest.k must be positive, got %d", common.ErrInvalidConfig, c.Suggest.K)
	}
	if c.Widget.Timeout < 0 {
		return fmt.Errorf("%w: widget.timeout cannot be negative", common.ErrInvalidConfig)
	}
	if c.Widget.ToastDelay <= 0 {
		return fmt.Errorf("%w: widget.toast_delay must be positive", common.ErrInvalidConfig)
	}
	u, err := url.Parse(c.Widget.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: widget.endpoint %q is not an http(s) URL", common.ErrInvalidConfig, c.Widget.Endpoint)
	}
	return nil
}
