package api

import "net/http"

// Version information - these will be set at build time via ldflags
var (
	HubVersion = "dev"
	GitCommit  = "unknown"
	BuildTime  = "unknown"
)

// GetVersionInfo returns the current version information
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		HubVersion: HubVersion,
		GitCommit:  GitCommit,
		BuildTime:  BuildTime,
	}
}

// handleVersion reports the running build.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, GetVersionInfo())
}
