// Package window owns the application's single webview window: lazy
// creation, geometry persistence, URL construction and reloading when
// the daemon's API address changes.
package window

import (
	"sync"

	ma "github.com/multiformats/go-multiaddr"
	"github.com/wailsapp/wails/v3/pkg/application"
	"github.com/wailsapp/wails/v3/pkg/events"

	"github.com/stivas/ipfs-desktop/internal/logger"
	"github.com/stivas/ipfs-desktop/internal/settings"
)

const windowTitle = "IPFS Desktop"

// Manager enforces the "at most one window" invariant. All methods are
// safe to call from the daemon monitor goroutine; window mutations are
// dispatched by the runtime itself.
type Manager struct {
	app    *application.App
	store  *settings.Store
	params Params

	mu          sync.Mutex
	win         *application.WebviewWindow
	lastAPIAddr string
	route       string

	// navigate points at the live window's SetURL, and newWindow creates
	// the real webview window. Both split out so the URL, reload and
	// singleton behavior stay testable without a running webview.
	navigate  func(string)
	newWindow func() *application.WebviewWindow
}

func NewManager(app *application.App, store *settings.Store, params Params) *Manager {
	m := &Manager{
		app:    app,
		store:  store,
		params: params,
		route:  store.Get(settings.KeyRoute, "/"),
	}
	m.newWindow = m.createWindow
	return m
}

// GetWindow returns the window, lazily creating it. Requesting a window
// while one exists returns the same instance.
func (m *Manager) GetWindow() *application.WebviewWindow {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getWindowLocked()
}

// Launch shows the window, creating it when absent, and navigates to
// route.
func (m *Manager) Launch(route string) {
	m.mu.Lock()
	if route != "" {
		m.route = normalizeRoute(route)
		m.store.Set(settings.KeyRoute, m.route)
	}
	existed := m.win != nil
	win := m.getWindowLocked()
	nav := m.navigate
	pageURL := m.pageURLLocked()
	m.mu.Unlock()

	// A fresh window loads the right URL from its options and shows
	// itself once the runtime reports ready.
	if existed && nav != nil {
		nav(pageURL)
		win.Show()
		win.Focus()
	}
}

// UpdateAPIAddr records the daemon's API address. When it differs from
// the last known address the page URL is rewritten and reloaded; an
// unchanged address is a no-op.
func (m *Manager) UpdateAPIAddr(addr ma.Multiaddr) {
	addrStr := ""
	if addr != nil {
		addrStr = addr.String()
	}

	m.mu.Lock()
	if addrStr == m.lastAPIAddr {
		m.mu.Unlock()
		return
	}
	m.lastAPIAddr = addrStr
	nav := m.navigate
	pageURL := m.pageURLLocked()
	m.mu.Unlock()

	logger.Window.Info().Str("api", addrStr).Msg("daemon api address changed, reloading page")
	if nav != nil {
		nav(pageURL)
	}
}

// APIAddr returns the last known daemon API address, empty when none.
func (m *Manager) APIAddr() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastAPIAddr
}

// Window returns the current window without creating one; nil when no
// window is open.
func (m *Manager) Window() *application.WebviewWindow {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.win
}

// getWindowLocked creates the window on first use. Caller holds m.mu.
func (m *Manager) getWindowLocked() *application.WebviewWindow {
	if m.win != nil {
		return m.win
	}
	m.win = m.newWindow()
	return m.win
}

// createWindow builds and wires the real webview window. Caller holds
// m.mu.
func (m *Manager) createWindow() *application.WebviewWindow {
	width, height := m.store.WindowSize()
	pageURL := m.pageURLLocked()

	win := m.app.Window.NewWithOptions(application.WebviewWindowOptions{
		Name:      "main",
		Title:     windowTitle,
		Width:     width,
		Height:    height,
		MinWidth:  settings.MinWindowWidth,
		MinHeight: settings.MinWindowHeight,
		Hidden:    true,
		URL:       pageURL,
		Mac: application.MacWindow{
			Backdrop: application.MacBackdropTranslucent,
		},
	})

	// Keep the window hidden until the webview runtime is ready, then
	// show it exactly once.
	var ready sync.Once
	win.OnWindowEvent(events.Common.WindowRuntimeReady, func(e *application.WindowEvent) {
		ready.Do(func() {
			logger.Window.Debug().Msg("window ready to show")
			win.Show()
		})
	})

	win.OnWindowEvent(events.Common.WindowDidResize, func(e *application.WindowEvent) {
		w, h := win.Size()
		m.store.SaveWindowSize(w, h)
	})

	// Closing drops the singleton; the next Launch recreates it.
	win.OnWindowEvent(events.Common.WindowClosing, func(e *application.WindowEvent) {
		w, h := win.Size()
		m.windowClosed(w, h)
	})

	m.navigate = func(u string) { win.SetURL(u) }
	logger.Window.Info().
		Int("width", width).
		Int("height", height).
		Str("url", pageURL).
		Msg("window created")
	return win
}

// windowClosed persists the final geometry and drops the singleton so
// the next Launch recreates the window.
func (m *Manager) windowClosed(w, h int) {
	m.store.SaveWindowSize(w, h)
	m.mu.Lock()
	m.win = nil
	m.navigate = nil
	m.mu.Unlock()
	logger.Window.Info().Msg("window closed")
}

// pageURLLocked builds the current page URL. Caller holds m.mu.
func (m *Manager) pageURLLocked() string {
	u, err := BuildPageURL(m.params, m.lastAPIAddr, m.route)
	if err != nil {
		// The bridge URL is produced by our own listener; a parse
		// failure here is a programming error.
		logger.Window.Error().Err(err).Msg("page url construction failed")
		return m.params.BridgeURL
	}
	return u
}
