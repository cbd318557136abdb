package version

// Version is the application version. Override via ldflags:
//
//	go build -ldflags "-X github.com/stivas/ipfs-desktop/internal/version.Version=1.2.3 -X github.com/stivas/ipfs-desktop/internal/version.Build=153"
var Version = "0.0.1"

// Build is the build number, injected at compile time.
var Build = "dev"

// ClientID identifies this application in HTTP requests toward the
// daemon API.
func ClientID() string {
	return "ipfs-desktop/" + Version
}
