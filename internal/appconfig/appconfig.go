// Package appconfig loads and saves the application-level configuration
// file. Runtime user preferences live in the settings store instead; this
// file only carries what must be known before the database is open.
package appconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/stivas/ipfs-desktop/internal/logger"
)

// Config is the on-disk application configuration.
type Config struct {
	// Bridge is the local HTTP bridge the webview talks to. Port 0
	// picks an ephemeral port on every launch.
	Bridge BridgeConfig `toml:"bridge"`

	Daemon DaemonConfig  `toml:"daemon"`
	Log    logger.Config `toml:"log"`
}

type BridgeConfig struct {
	Port int `toml:"port"`
}

type DaemonConfig struct {
	// BinPath is the ipfs binary. Empty means look it up on PATH.
	BinPath string `toml:"bin_path"`
	// RepoPath is the IPFS repository directory. Empty means the
	// daemon's own default (~/.ipfs or $IPFS_PATH).
	RepoPath string `toml:"repo_path"`
	// PollIntervalSec is how often daemon reachability is probed.
	PollIntervalSec int `toml:"poll_interval_sec"`
}

// Default returns the configuration used when no file exists yet.
func Default() Config {
	return Config{
		Bridge: BridgeConfig{Port: 0},
		Daemon: DaemonConfig{PollIntervalSec: 5},
		Log: logger.Config{
			Level: "info",
			Mode:  "file",
			Dir:   filepath.Join(DataDir(), "logs"),
		},
	}
}

// DataDir is where the settings database, logs and config live.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ipfs-desktop"
	}
	return filepath.Join(home, ".ipfs-desktop")
}

// ConfigPath returns the default config file location.
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.toml")
}

// Load reads the config file at path, applying defaults for anything the
// file does not define. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw Config
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("bridge", "port") {
		cfg.Bridge.Port = raw.Bridge.Port
	}
	if meta.IsDefined("daemon", "bin_path") {
		cfg.Daemon.BinPath = strings.TrimSpace(raw.Daemon.BinPath)
	}
	if meta.IsDefined("daemon", "repo_path") {
		cfg.Daemon.RepoPath = strings.TrimSpace(raw.Daemon.RepoPath)
	}
	if meta.IsDefined("daemon", "poll_interval_sec") && raw.Daemon.PollIntervalSec > 0 {
		cfg.Daemon.PollIntervalSec = raw.Daemon.PollIntervalSec
	}
	if meta.IsDefined("log", "level") {
		cfg.Log.Level = raw.Log.Level
	}
	if meta.IsDefined("log", "mode") {
		cfg.Log.Mode = raw.Log.Mode
	}
	if meta.IsDefined("log", "dir") {
		cfg.Log.Dir = raw.Log.Dir
	}

	return cfg, nil
}

// Save writes the config file, creating the data directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
