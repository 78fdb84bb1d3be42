package api

import (
	"net/http"
	"time"

	"github.com/maksimkurb/tracegate/src/internal/log"
	"github.com/maksimkurb/tracegate/src/internal/trace"
)

var (
	// Version information set via ldflags at build time
	Version = "dev"
	Date    = "n/a"
	Commit  = "n/a"
)

// CheckHealth reports liveness and registry statistics.
// GET /api/v1/health
func (h *Handler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Healthy: true,
		Version: VersionInfo{
			Version: Version,
			Date:    Date,
			Commit:  Commit,
		},
		Uptime:       time.Since(h.startedAt).Round(time.Second).String(),
		TraceEnabled: trace.Enabled,
		Generation:   h.registry.Generation(),
		CacheEntries: h.registry.CacheLen(),
	}

	if h.configHasher != nil {
		currentHash, err := h.configHasher.GetCurrentConfigHash()
		if err != nil {
			log.Warnf("Failed to get current config hash: %v", err)
			currentHash = "error"
			response.Healthy = false
		}
		response.CurrentConfigHash = currentHash
		response.AppliedConfigHash = h.configHasher.GetActiveConfigHash()

		response.ConfigurationOutdated = currentHash != "error" &&
			response.AppliedConfigHash != "" &&
			currentHash != response.AppliedConfigHash
	}

	writeJSONData(w, response)
}
