package web

import (
	ma "github.com/multiformats/go-multiaddr"
	manet "github.com/multiformats/go-multiaddr/net"
)

// NullOrigin is the literal Origin value browsers use for "no origin".
// Sent toward the daemon while its API address is still unknown.
const NullOrigin = "null"

// APIOrigin derives the HTTP Origin for the daemon's API multiaddress.
// The daemon only accepts requests carrying an origin it trusts, so the
// proxy stamps this on every outgoing request.
func APIOrigin(addr ma.Multiaddr) string {
	if addr == nil {
		return NullOrigin
	}
	netAddr, err := manet.ToNetAddr(addr)
	if err != nil {
		return NullOrigin
	}
	return "http://" + netAddr.String()
}
