// Package autostart applies the persisted launch-at-startup flag to the
// operating system's autostart mechanism.
package autostart

import (
	"fmt"
	"os"
)

// Apply enables or disables starting the app at login.
func Apply(enabled bool) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	if enabled {
		return install(exe)
	}
	return remove()
}
