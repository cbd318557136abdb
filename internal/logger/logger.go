// Package logger configures the application's zerolog loggers. Each
// subsystem gets a named logger so log lines can be filtered by
// component.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls log output. Mode "debug" enables a human-readable
// console writer alongside the rotated file.
type Config struct {
	Level string `toml:"level"`
	Mode  string `toml:"mode"`
	Dir   string `toml:"dir"`
}

var (
	// Log is the root logger.
	Log zerolog.Logger

	// Component loggers.
	Window zerolog.Logger
	Daemon zerolog.Logger
	Bridge zerolog.Logger
	Tray   zerolog.Logger
)

func init() {
	// Usable before Init for early failures; Init replaces these.
	configure(zerolog.New(os.Stderr).With().Timestamp().Logger())
}

// Init sets up the loggers from config. Log files rotate via lumberjack.
func Init(cfg Config) {
	zerolog.TimeFieldFormat = time.RFC3339

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var writers []io.Writer
	if cfg.Dir != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   filepath.Join(cfg.Dir, "ipfs-desktop.log"),
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		})
	}
	if cfg.Mode == "debug" || cfg.Dir == "" {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	}

	base := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().Timestamp().Logger()
	configure(base)
}

func configure(base zerolog.Logger) {
	Log = base
	Window = base.With().Str("component", "window").Logger()
	Daemon = base.With().Str("component", "daemon").Logger()
	Bridge = base.With().Str("component", "bridge").Logger()
	Tray = base.With().Str("component", "tray").Logger()
}
