// Package tray wires the system tray / dock menu: window show/hide, a
// daemon status line, opening the web UI in an external browser, quit.
package tray

import (
	"os/exec"
	"runtime"

	"github.com/wailsapp/wails/v3/pkg/application"

	"github.com/stivas/ipfs-desktop/internal/daemon"
	"github.com/stivas/ipfs-desktop/internal/i18n"
	"github.com/stivas/ipfs-desktop/internal/logger"
	"github.com/stivas/ipfs-desktop/internal/window"
)

type Tray struct {
	statusItem *application.MenuItem
}

// New installs the tray icon and menu on the running application.
func New(app *application.App, mgr *window.Manager, externalURL string, onQuit func()) *Tray {
	t := &Tray{}

	systray := app.SystemTray.New()
	systray.SetLabel("IPFS")

	menu := app.NewMenu()

	menu.Add(i18n.T(i18n.MsgTrayShowWindow)).OnClick(func(ctx *application.Context) {
		mgr.Launch("")
	})
	menu.Add(i18n.T(i18n.MsgTrayHideWindow)).OnClick(func(ctx *application.Context) {
		if win := mgr.Window(); win != nil {
			win.Hide()
		}
	})
	menu.AddSeparator()

	t.statusItem = menu.Add(i18n.T(i18n.MsgTrayStatus, map[string]interface{}{
		"Status": i18n.T(i18n.MsgStatusStopped),
	}))
	t.statusItem.SetEnabled(false)

	menu.Add(i18n.T(i18n.MsgTrayOpenBrowser)).OnClick(func(ctx *application.Context) {
		OpenExternal(externalURL)
	})
	menu.AddSeparator()

	menu.Add(i18n.T(i18n.MsgTrayQuit)).OnClick(func(ctx *application.Context) {
		if onQuit != nil {
			onQuit()
		}
		app.Quit()
	})

	systray.SetMenu(menu)
	return t
}

// UpdateStatus refreshes the tray's daemon status line.
func (t *Tray) UpdateStatus(st daemon.Status) {
	var key string
	switch st.State {
	case daemon.StateRunning:
		key = i18n.MsgStatusRunning
	case daemon.StateUnreachable:
		key = i18n.MsgStatusUnreachable
	default:
		key = i18n.MsgStatusStopped
	}
	t.statusItem.SetLabel(i18n.T(i18n.MsgTrayStatus, map[string]interface{}{
		"Status": i18n.T(key),
	}))
}

// OpenExternal opens a URL in the system's default browser.
func OpenExternal(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		logger.Tray.Warn().Err(err).Str("url", url).Msg("open external browser failed")
	}
}
