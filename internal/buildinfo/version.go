// Package buildinfo contains build-time information embedded via ldflags
package buildinfo

// Set at build time, for example:
//
//	go build -ldflags "-X github.com/stintd/stint/internal/buildinfo.Version=v1.0.0"
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// GetVersion returns the application version, "dev" for development builds
func GetVersion() string {
	if Version == "" {
		return "dev"
	}
	return Version
}

// GetCommit returns the VCS revision the binary was built from
func GetCommit() string {
	if Commit == "" {
		return "unknown"
	}
	return Commit
}

// GetDate returns the build timestamp
func GetDate() string {
	if Date == "" {
		return "unknown"
	}
	return Date
}
