// Package notify sends daemon health notifications to user-configured
// channels. Channel credentials live in the settings store; an empty
// configuration disables the manager.
package notify

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"

	nfy "github.com/nikoksr/notify"
	nfyhttp "github.com/nikoksr/notify/service/http"
	nfytg "github.com/nikoksr/notify/service/telegram"

	"github.com/stivas/ipfs-desktop/internal/logger"
	"github.com/stivas/ipfs-desktop/internal/settings"
)

// Settings keys read by Reload.
const (
	KeyTelegramToken  = "notify.telegram.token"
	KeyTelegramChatID = "notify.telegram.chat_id"
	KeyWebhookURL     = "notify.webhook.url"
)

// Manager wraps nikoksr/notify.Notify and manages channel lifecycle.
type Manager struct {
	mu       sync.RWMutex
	notifier *nfy.Notify
	channels []string
}

// NewManager creates an empty notification manager.
func NewManager() *Manager {
	return &Manager{notifier: nfy.New()}
}

// Reload reads notification settings from the store and rebuilds
// channels.
func (m *Manager) Reload(store *settings.Store) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := nfy.New()
	var names []string

	// ── Telegram (via nikoksr/notify/service/telegram) ──
	tgToken := store.Get(KeyTelegramToken, "")
	tgChatID := store.Get(KeyTelegramChatID, "")
	if tgToken != "" && tgChatID != "" {
		if id, err := strconv.ParseInt(strings.TrimSpace(tgChatID), 10, 64); err != nil {
			logger.Log.Warn().Str("chat_id", tgChatID).Msg("telegram chat id is not numeric")
		} else if tgSvc, err := nfytg.New(tgToken); err != nil {
			logger.Log.Warn().Err(err).Msg("telegram notifier init failed")
		} else {
			tgSvc.AddReceivers(id)
			n.UseServices(tgSvc)
			names = append(names, "telegram")
		}
	}

	// ── Generic webhook (via nikoksr/notify/service/http) ──
	if whURL := store.Get(KeyWebhookURL, ""); whURL != "" {
		httpSvc := nfyhttp.New()
		httpSvc.AddReceivers(&nfyhttp.Webhook{
			URL:         whURL,
			Method:      http.MethodPost,
			ContentType: "application/json; charset=utf-8",
			BuildPayload: func(subject, message string) (payload any) {
				return map[string]string{"subject": subject, "message": message}
			},
		})
		n.UseServices(httpSvc)
		names = append(names, "webhook")
	}

	m.notifier = n
	m.channels = names
	logger.Log.Info().Strs("channels", names).Msg("notification channels configured")
}

// HasChannels reports whether any channel is configured.
func (m *Manager) HasChannels() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.channels) > 0
}

// Send dispatches a message to all configured channels.
func (m *Manager) Send(ctx context.Context, text string) {
	m.mu.RLock()
	n := m.notifier
	configured := len(m.channels) > 0
	m.mu.RUnlock()

	if !configured {
		return
	}
	if err := n.Send(ctx, "IPFS Desktop", text); err != nil {
		logger.Log.Warn().Err(err).Msg("notification send failed")
	}
}
