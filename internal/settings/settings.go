// Package settings is the typed facade over the persisted key-value
// store. Callers read with a default and never see storage errors for
// missing keys.
package settings

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/stivas/ipfs-desktop/internal/database"
	"github.com/stivas/ipfs-desktop/internal/logger"
)

// Setting keys.
const (
	KeyWindowWidth     = "window.width"
	KeyWindowHeight    = "window.height"
	KeyLaunchAtStartup = "launch.at.startup"
	KeyDeviceID        = "device.id"
	KeyLang            = "ui.lang"
	KeyRoute           = "ui.route"
)

// Geometry defaults.
const (
	DefaultWindowWidth  = 1000
	DefaultWindowHeight = 800
	MinWindowWidth      = 900
	MinWindowHeight     = 500
)

type Store struct {
	repo *database.SettingRepo
}

func NewStore() *Store {
	return &Store{repo: database.NewSettingRepo()}
}

// Get returns the stored value for key, or def when the key is absent.
func (s *Store) Get(key, def string) string {
	v, err := s.repo.Get(key)
	if err != nil {
		return def
	}
	return v
}

// Set stores value under key. Failures are logged, not surfaced: callers
// persist preferences opportunistically.
func (s *Store) Set(key, value string) {
	if err := s.repo.Set(key, value); err != nil {
		logger.Log.Warn().Err(err).Str("key", key).Msg("persist setting failed")
	}
}

func (s *Store) GetInt(key string, def int) int {
	v, err := s.repo.Get(key)
	if err != nil {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func (s *Store) SetInt(key string, value int) {
	s.Set(key, strconv.Itoa(value))
}

func (s *Store) GetBool(key string, def bool) bool {
	v, err := s.repo.Get(key)
	if err != nil {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func (s *Store) SetBool(key string, value bool) {
	s.Set(key, strconv.FormatBool(value))
}

// Snapshot returns all stored settings, for the UI's settings view.
func (s *Store) Snapshot() map[string]string {
	all, err := s.repo.GetAll()
	if err != nil {
		logger.Log.Warn().Err(err).Msg("settings snapshot failed")
		return map[string]string{}
	}
	return all
}

// WindowSize returns the persisted window geometry clamped to the
// minimum size.
func (s *Store) WindowSize() (width, height int) {
	width = s.GetInt(KeyWindowWidth, DefaultWindowWidth)
	height = s.GetInt(KeyWindowHeight, DefaultWindowHeight)
	if width < MinWindowWidth {
		width = MinWindowWidth
	}
	if height < MinWindowHeight {
		height = MinWindowHeight
	}
	return width, height
}

// SaveWindowSize persists the window geometry.
func (s *Store) SaveWindowSize(width, height int) {
	s.SetInt(KeyWindowWidth, width)
	s.SetInt(KeyWindowHeight, height)
}

// DeviceID returns the stable device identifier, minting one on first
// use.
func (s *Store) DeviceID() string {
	if id := s.Get(KeyDeviceID, ""); id != "" {
		return id
	}
	id := uuid.NewString()
	s.Set(KeyDeviceID, id)
	return id
}
