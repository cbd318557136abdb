// Package daemon supervises the local IPFS daemon: locating or spawning
// the process, resolving its API multiaddress and probing reachability.
// The rest of the application only sees the narrow Ipfsd facade.
package daemon

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	ma "github.com/multiformats/go-multiaddr"
	manet "github.com/multiformats/go-multiaddr/net"

	"github.com/stivas/ipfs-desktop/internal/logger"
)

const (
	defaultBin  = "ipfs"
	dialTimeout = 3 * time.Second
	startWait   = 60 * time.Second
)

type Config struct {
	BinPath  string
	RepoPath string
}

type State string

const (
	StateStopped     State = "stopped"
	StateRunning     State = "running"
	StateUnreachable State = "unreachable"
)

// Status is a point-in-time view of the daemon.
type Status struct {
	State   State  `json:"state"`
	APIAddr string `json:"apiAddr"`
	Detail  string `json:"detail,omitempty"`
}

// Ipfsd manages one local daemon. When the daemon was already running
// (started outside this app) it is left alone on Stop.
type Ipfsd struct {
	mu       sync.Mutex
	binPath  string
	repoPath string
	cmd      *exec.Cmd
	exited   chan struct{}
	apiAddr  ma.Multiaddr
	managed  bool
}

func New(cfg Config) *Ipfsd {
	bin := strings.TrimSpace(cfg.BinPath)
	if bin == "" {
		bin = defaultBin
	}
	repo := strings.TrimSpace(cfg.RepoPath)
	if repo == "" {
		repo = defaultRepoPath()
	}
	return &Ipfsd{binPath: bin, repoPath: repo}
}

func defaultRepoPath() string {
	if p := os.Getenv("IPFS_PATH"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ipfs"
	}
	return filepath.Join(home, ".ipfs")
}

// APIAddr returns the last resolved API multiaddress, resolving it from
// the repository when none is cached yet. Returns nil when unknown.
func (d *Ipfsd) APIAddr() ma.Multiaddr {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.apiAddr != nil {
		return d.apiAddr
	}
	addr, err := d.resolveAPIAddr()
	if err != nil {
		logger.Daemon.Debug().Err(err).Msg("api address not resolvable yet")
		return nil
	}
	d.apiAddr = addr
	return addr
}

// resolveAPIAddr reads the repository's api file, written by the daemon
// on startup. Caller holds d.mu.
func (d *Ipfsd) resolveAPIAddr() (ma.Multiaddr, error) {
	data, err := os.ReadFile(filepath.Join(d.repoPath, "api"))
	if err != nil {
		return nil, fmt.Errorf("read api file: %w", err)
	}
	addr, err := ma.NewMultiaddr(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("parse api multiaddr: %w", err)
	}
	return addr, nil
}

// Status probes the daemon API over TCP. A cached address that stops
// answering is re-resolved from the repository, so a daemon restarted
// on a different port is picked up on the next probe.
func (d *Ipfsd) Status() Status {
	addr := d.APIAddr()
	if addr == nil {
		return Status{State: StateStopped, Detail: "api address unknown"}
	}
	if apiReachable(addr) {
		return Status{State: StateRunning, APIAddr: addr.String()}
	}

	d.mu.Lock()
	d.apiAddr = nil
	fresh, err := d.resolveAPIAddr()
	if err == nil {
		d.apiAddr = fresh
	}
	d.mu.Unlock()
	if err != nil {
		return Status{State: StateUnreachable, APIAddr: addr.String()}
	}
	if !fresh.Equal(addr) && apiReachable(fresh) {
		return Status{State: StateRunning, APIAddr: fresh.String()}
	}
	return Status{State: StateUnreachable, APIAddr: fresh.String()}
}

// Start makes sure a daemon is running. A daemon already reachable is
// adopted as-is; otherwise the binary is spawned and Start blocks until
// the API answers or the startup window elapses.
func (d *Ipfsd) Start(ctx context.Context) error {
	if st := d.Status(); st.State == StateRunning {
		logger.Daemon.Info().Str("api", st.APIAddr).Msg("adopting already-running daemon")
		return nil
	}

	d.mu.Lock()
	if d.cmd != nil && d.cmd.Process != nil {
		d.mu.Unlock()
		return nil
	}
	bin, err := exec.LookPath(d.binPath)
	if err != nil {
		d.mu.Unlock()
		return fmt.Errorf("ipfs binary not found: %w", err)
	}

	cmd := exec.CommandContext(ctx, bin, "daemon", "--migrate")
	cmd.Env = append(os.Environ(), "IPFS_PATH="+d.repoPath)
	if err := cmd.Start(); err != nil {
		d.mu.Unlock()
		return fmt.Errorf("start daemon: %w", err)
	}
	exited := make(chan struct{})
	d.cmd = cmd
	d.exited = exited
	d.managed = true
	d.apiAddr = nil // daemon may pick a new port
	d.mu.Unlock()

	logger.Daemon.Info().Str("bin", bin).Int("pid", cmd.Process.Pid).Msg("daemon spawned")

	go d.reap(ctx, cmd, exited)

	return d.waitReachable(ctx)
}

// reap is the sole owner of cmd.Wait. Stop waits on exited instead of
// calling Wait a second time.
func (d *Ipfsd) reap(ctx context.Context, cmd *exec.Cmd, exited chan struct{}) {
	err := cmd.Wait()
	d.mu.Lock()
	d.cmd = nil
	d.managed = false
	d.mu.Unlock()
	close(exited)
	if err != nil && ctx.Err() == nil {
		logger.Daemon.Error().Err(err).Msg("daemon exited unexpectedly")
	}
}

func (d *Ipfsd) waitReachable(ctx context.Context) error {
	deadline := time.Now().Add(startWait)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			d.mu.Lock()
			d.apiAddr = nil
			d.mu.Unlock()
			if st := d.Status(); st.State == StateRunning {
				logger.Daemon.Info().Str("api", st.APIAddr).Msg("daemon api reachable")
				return nil
			}
			if time.Now().After(deadline) {
				return fmt.Errorf("daemon api not reachable after %s", startWait)
			}
		}
	}
}

// Stop terminates a daemon this process spawned. Externally started
// daemons are left running.
func (d *Ipfsd) Stop() error {
	d.mu.Lock()
	cmd := d.cmd
	exited := d.exited
	managed := d.managed
	d.mu.Unlock()

	if !managed || cmd == nil || cmd.Process == nil {
		return nil
	}

	logger.Daemon.Info().Int("pid", cmd.Process.Pid).Msg("stopping daemon")
	if err := cmd.Process.Signal(os.Interrupt); err != nil {
		return cmd.Process.Kill()
	}

	select {
	case <-exited:
		return nil
	case <-time.After(10 * time.Second):
		return cmd.Process.Kill()
	}
}

// apiReachable dials the API's TCP endpoint.
func apiReachable(addr ma.Multiaddr) bool {
	netAddr, err := manet.ToNetAddr(addr)
	if err != nil {
		return false
	}
	conn, err := net.DialTimeout(netAddr.Network(), netAddr.String(), dialTimeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
