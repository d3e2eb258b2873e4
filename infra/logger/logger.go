package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	corelogger "github.com/kilianp07/charterbid/core/logger"
)

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// NopLogger implements Logger with no-op methods.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any)         {}
func (NopLogger) Debugw(string, map[string]any) {}
func (NopLogger) Infof(string, ...any)          {}
func (NopLogger) Warnf(string, ...any)          {}
func (NopLogger) Errorf(string, ...any)         {}

// Config controls log level and destination.
type Config struct {
	Level string `json:"level"`
	// Format is "json" or "console". Empty selects console when APP_ENV=dev.
	Format     string `json:"format"`
	File       string `json:"file"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

// SetDefaults fills zero values.
func (c *Config) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.MaxSizeMB == 0 {
		c.MaxSizeMB = 10
	}
	if c.MaxBackups == 0 {
		c.MaxBackups = 3
	}
}

// Validate checks level and format names.
func (c Config) Validate() error {
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Level)); err != nil {
		return fmt.Errorf("logging: invalid level %q", c.Level)
	}
	switch strings.ToLower(c.Format) {
	case "", "json", "console":
	default:
		return fmt.Errorf("logging: invalid format %q", c.Format)
	}
	if c.MaxSizeMB < 0 || c.MaxBackups < 0 || c.MaxAgeDays < 0 {
		return fmt.Errorf("logging: rotation settings must not be negative")
	}
	return nil
}

var (
	mu     sync.RWMutex
	out    io.Writer = os.Stdout
	level            = zerolog.InfoLevel
	format           = ""
	closer io.Closer
)

// Setup applies cfg to every logger created afterwards. When cfg.File is set
// logs are written to a size-rotated file.
func Setup(cfg Config) error {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	lvl, _ := zerolog.ParseLevel(strings.ToLower(cfg.Level))

	mu.Lock()
	defer mu.Unlock()
	if closer != nil {
		_ = closer.Close()
		closer = nil
	}
	out = os.Stdout
	if cfg.File != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}
		out = lj
		closer = lj
	}
	level = lvl
	format = strings.ToLower(cfg.Format)
	return nil
}

// Close releases the rotated log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if closer == nil {
		return nil
	}
	err := closer.Close()
	closer = nil
	out = os.Stdout
	return err
}

// New returns a Logger for the given component.
func New(component string) Logger {
	return NewZerologLogger(component)
}

func writer() (io.Writer, zerolog.Level) {
	mu.RLock()
	defer mu.RUnlock()
	f := format
	if f == "" && strings.EqualFold(os.Getenv("APP_ENV"), "dev") {
		f = "console"
	}
	if f == "console" {
		return zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: out != io.Writer(os.Stdout)}, level
	}
	return out, level
}
