// Package version holds the application version, overridden at build time with
// -ldflags "-X github.com/ndewijer/Brokerage-Snapshot-Backend/internal/version.Version=v1.2.3".
package version

// Version is the running application version.
var Version = "dev"
