package window

import (
	"fmt"
	"net/url"
	"strings"
)

// Params is everything the loaded page needs to reach its collaborators,
// injected through the URL.
type Params struct {
	// BridgeURL is the local bridge base, e.g. "http://127.0.0.1:38421/".
	BridgeURL string
	// Token is the per-launch session token for bridge routes.
	Token string
	// Lang is the UI locale.
	Lang string
	// DeviceID is the stable device identifier.
	DeviceID string
}

// BuildPageURL constructs the window URL. The daemon API multiaddress,
// locale, device id and token travel as query parameters; the in-app
// navigation path is the hash fragment. An unknown API address simply
// leaves the query parameter out.
func BuildPageURL(p Params, apiAddr, route string) (string, error) {
	u, err := url.Parse(p.BridgeURL)
	if err != nil {
		return "", fmt.Errorf("parse bridge url: %w", err)
	}

	q := u.Query()
	if apiAddr != "" {
		q.Set("api", apiAddr)
	}
	q.Set("lang", p.Lang)
	q.Set("deviceId", p.DeviceID)
	q.Set("token", p.Token)
	u.RawQuery = q.Encode()

	u.Fragment = normalizeRoute(route)
	return u.String(), nil
}

func normalizeRoute(route string) string {
	route = strings.TrimSpace(route)
	if route == "" {
		route = "/"
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	return route
}
