package daemon

import (
	"context"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	ma "github.com/multiformats/go-multiaddr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAPIAddrFromRepo(t *testing.T) {
	repo := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(repo, "api"), []byte("/ip4/127.0.0.1/tcp/5001\n"), 0o644))

	d := New(Config{RepoPath: repo})
	addr := d.APIAddr()
	require.NotNil(t, addr)
	assert.Equal(t, "/ip4/127.0.0.1/tcp/5001", addr.String())
}

func TestAPIAddrUnknownWithoutRepoFile(t *testing.T) {
	d := New(Config{RepoPath: t.TempDir()})
	assert.Nil(t, d.APIAddr())

	st := d.Status()
	assert.Equal(t, StateStopped, st.State)
}

func TestStatusUnreachable(t *testing.T) {
	// Grab a port that nothing listens on.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	repo := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(repo, "api"),
		[]byte("/ip4/127.0.0.1/tcp/"+strconv.Itoa(port)), 0o644))

	d := New(Config{RepoPath: repo})
	st := d.Status()
	assert.Equal(t, StateUnreachable, st.State)
	assert.NotEmpty(t, st.APIAddr)
}

func TestStatusRunning(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()
	port := ln.Addr().(*net.TCPAddr).Port

	repo := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(repo, "api"),
		[]byte("/ip4/127.0.0.1/tcp/"+strconv.Itoa(port)), 0o644))

	d := New(Config{RepoPath: repo})
	st := d.Status()
	assert.Equal(t, StateRunning, st.State)
}

func TestStatusPicksUpRestartedDaemonAddress(t *testing.T) {
	// Dead port first.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	deadPort := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	repo := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(repo, "api"),
		[]byte("/ip4/127.0.0.1/tcp/"+strconv.Itoa(deadPort)), 0o644))

	d := New(Config{RepoPath: repo})
	st := d.Status()
	require.Equal(t, StateUnreachable, st.State)

	// The daemon "restarts" on a new port, rewriting the api file.
	live, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer live.Close()
	go func() {
		for {
			conn, err := live.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()
	livePort := live.Addr().(*net.TCPAddr).Port
	require.NoError(t, os.WriteFile(filepath.Join(repo, "api"),
		[]byte("/ip4/127.0.0.1/tcp/"+strconv.Itoa(livePort)), 0o644))

	st = d.Status()
	assert.Equal(t, StateRunning, st.State)
	assert.Equal(t, "/ip4/127.0.0.1/tcp/"+strconv.Itoa(livePort), st.APIAddr)
	require.NotNil(t, d.APIAddr())
	assert.Equal(t, st.APIAddr, d.APIAddr().String())
}

func TestStopWaitsForManagedDaemonExit(t *testing.T) {
	cmd := exec.Command("sleep", "60")
	require.NoError(t, cmd.Start())

	d := New(Config{RepoPath: t.TempDir()})
	exited := make(chan struct{})
	d.cmd = cmd
	d.exited = exited
	d.managed = true

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	go d.reap(ctx, cmd, exited)

	require.NoError(t, d.Stop())
	select {
	case <-exited:
	case <-time.After(5 * time.Second):
		t.Fatal("managed process was not reaped")
	}
	assert.NoError(t, d.Stop()) // already gone, nothing to do
}

func TestAPIReachableBadAddr(t *testing.T) {
	addr, err := ma.NewMultiaddr("/dns4/example.com")
	require.NoError(t, err)
	assert.False(t, apiReachable(addr))
}

