package daemon

import (
	"context"
	"time"

	"github.com/stivas/ipfs-desktop/internal/logger"
)

// Monitor polls the daemon and reports status transitions. The window,
// tray and bridge all subscribe through the onChange callback.
type Monitor struct {
	d        *Ipfsd
	interval time.Duration
	onChange func(Status)
	last     Status
}

func NewMonitor(d *Ipfsd, interval time.Duration, onChange func(Status)) *Monitor {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Monitor{d: d, interval: interval, onChange: onChange}
}

// Run polls until ctx is cancelled. The first probe fires immediately so
// subscribers see an initial status without waiting a full interval.
func (m *Monitor) Run(ctx context.Context) {
	logger.Daemon.Info().Dur("interval", m.interval).Msg("daemon monitor started")

	m.scan()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.scan()
		case <-ctx.Done():
			logger.Daemon.Info().Msg("daemon monitor stopped")
			return
		}
	}
}

func (m *Monitor) scan() {
	st := m.d.Status()
	if st == m.last {
		return
	}
	logger.Daemon.Info().
		Str("state", string(st.State)).
		Str("api", st.APIAddr).
		Msg("daemon status changed")
	m.last = st
	if m.onChange != nil {
		m.onChange(st)
	}
}
