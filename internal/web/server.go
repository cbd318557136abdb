package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/stivas/ipfs-desktop/internal/auth"
	"github.com/stivas/ipfs-desktop/internal/daemon"
	"github.com/stivas/ipfs-desktop/internal/logger"
	"github.com/stivas/ipfs-desktop/internal/settings"
)

//go:embed assets
var assetFS embed.FS

// Server is the local bridge the webview talks to. It serves the UI
// shell, proxies /api/* to the daemon with header rewriting, and feeds
// status/settings frames over /events. It only ever listens on
// loopback; routes below require the per-launch session token.
type Server struct {
	proxy  *Proxy
	hub    *Hub
	secret []byte
	ln     net.Listener
	srv    *http.Server
}

// NewServer binds the loopback listener. Port 0 picks an ephemeral port.
func NewServer(port int, secret []byte, store *settings.Store, statusFn func() daemon.Status) (*Server, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return nil, fmt.Errorf("bridge listen: %w", err)
	}

	s := &Server{secret: secret, ln: ln}
	s.proxy = NewProxy(s.Origin())
	s.hub = NewHub(store, statusFn, s.Origin())

	static, err := fs.Sub(assetFS, "assets")
	if err != nil {
		return nil, fmt.Errorf("bridge assets: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.FS(static)))
	mux.Handle("/api/", s.requireToken(s.proxy))
	mux.Handle("/events", s.requireToken(s.hub))

	s.srv = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s, nil
}

// Origin is the page's own scheme-based origin, forced into every
// proxied Access-Control-Allow-Origin response header.
func (s *Server) Origin() string {
	return "http://" + s.ln.Addr().String()
}

// URL is the address the window loads.
func (s *Server) URL() string {
	return s.Origin() + "/"
}

func (s *Server) Proxy() *Proxy { return s.proxy }
func (s *Server) Hub() *Hub     { return s.hub }

// Start serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) {
	go s.hub.Run(ctx)

	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(shutCtx)
	}()

	go func() {
		logger.Bridge.Info().Str("addr", s.Origin()).Msg("bridge listening")
		if err := s.srv.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Bridge.Error().Err(err).Msg("bridge server failed")
		}
	}()
}

// requireToken rejects requests without a valid session token. The page
// carries the token in its URL and attaches it to API and event calls.
func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
				token = strings.TrimPrefix(h, "Bearer ")
			}
		}
		if token == "" {
			http.Error(w, "missing session token", http.StatusUnauthorized)
			return
		}
		if _, err := auth.VerifySessionToken(s.secret, token); err != nil {
			logger.Bridge.Warn().Err(err).Str("path", r.URL.Path).Msg("session token rejected")
			http.Error(w, "invalid session token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
