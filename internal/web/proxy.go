package web

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"sync"

	ma "github.com/multiformats/go-multiaddr"
	manet "github.com/multiformats/go-multiaddr/net"

	"github.com/stivas/ipfs-desktop/internal/logger"
	"github.com/stivas/ipfs-desktop/internal/version"
)

// Proxy forwards the embedded page's API calls to the daemon, rewriting
// headers on both directions:
//
//   - outgoing requests get Origin set to the daemon-derived origin and
//     a client identifier, so the daemon's own origin check accepts
//     them;
//   - incoming responses get Access-Control-Allow-Origin overwritten to
//     the page's origin, never left at the upstream value, so the
//     webview accepts them.
type Proxy struct {
	pageOrigin string
	rp         *httputil.ReverseProxy

	mu      sync.RWMutex
	apiAddr ma.Multiaddr
	target  *url.URL
}

func NewProxy(pageOrigin string) *Proxy {
	p := &Proxy{pageOrigin: pageOrigin}
	p.rp = &httputil.ReverseProxy{
		Director: p.direct,
		ModifyResponse: func(resp *http.Response) error {
			resp.Header.Set("Access-Control-Allow-Origin", p.pageOrigin)
			return nil
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Bridge.Warn().Err(err).Str("path", r.URL.Path).Msg("daemon proxy error")
			http.Error(w, "daemon unreachable", http.StatusBadGateway)
		},
	}
	return p
}

// SetAPIAddr updates the proxy target. A nil address detaches the proxy;
// requests then fail with 502 until an address is known again.
func (p *Proxy) SetAPIAddr(addr ma.Multiaddr) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.apiAddr = addr
	p.target = nil
	if addr == nil {
		return
	}
	netAddr, err := manet.ToNetAddr(addr)
	if err != nil {
		logger.Bridge.Warn().Err(err).Str("addr", addr.String()).Msg("api multiaddr not dialable")
		return
	}
	p.target = &url.URL{Scheme: "http", Host: netAddr.String()}
}

func (p *Proxy) direct(req *http.Request) {
	p.mu.RLock()
	apiAddr := p.apiAddr
	target := p.target
	p.mu.RUnlock()

	if target == nil {
		// Address lost between the ServeHTTP guard and here; leave the
		// request undialable so the error handler answers 502.
		return
	}
	req.URL.Scheme = target.Scheme
	req.URL.Host = target.Host
	req.Host = target.Host
	req.Header.Set("Origin", APIOrigin(apiAddr))
	req.Header.Set("User-Agent", version.ClientID())
}

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.mu.RLock()
	detached := p.target == nil
	p.mu.RUnlock()

	if detached {
		http.Error(w, "daemon api address unknown", http.StatusBadGateway)
		return
	}
	p.rp.ServeHTTP(w, r)
}
