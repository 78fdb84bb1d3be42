package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/maksimkurb/tracegate/src/internal/config"
	"github.com/maksimkurb/tracegate/src/internal/trace"
	"github.com/maksimkurb/tracegate/src/internal/verbosity"
)

// SelfComponent is the component the API traces itself under.
const SelfComponent = "tracegate.api"

var errNoConfigFile = errors.New("persist requested but no configuration file is in use")

// Handler manages all API endpoints and dependencies.
type Handler struct {
	registry     *verbosity.Registry
	tracer       *trace.Tracer
	self         *trace.Component
	configPath   string
	configHasher *config.ConfigHasher
	startedAt    time.Time

	persistMu sync.Mutex
}

// NewHandler creates a handler over reg. configPath and configHasher may be
// empty/nil when the process runs without a configuration file; persisting
// is then refused.
func NewHandler(reg *verbosity.Registry, tracer *trace.Tracer, configPath string, configHasher *config.ConfigHasher) *Handler {
	return &Handler{
		registry:     reg,
		tracer:       tracer,
		self:         tracer.Component(SelfComponent),
		configPath:   configPath,
		configHasher: configHasher,
		startedAt:    time.Now(),
	}
}

// wantsPersist reports whether the request asked for ?persist=true and
// whether that can be honoured.
func (h *Handler) wantsPersist(r *http.Request) (bool, error) {
	if r.URL.Query().Get("persist") != "true" {
		return false, nil
	}
	if h.configPath == "" {
		return true, errNoConfigFile
	}
	return true, nil
}

// persist loads the configuration file, applies modify and writes it back.
// The new file hash becomes the applied hash so the reload loop does not
// treat the write as an external change, and the file's default becomes the
// one Reset restores.
func (h *Handler) persist(modify func(cfg *config.Config)) error {
	h.persistMu.Lock()
	defer h.persistMu.Unlock()

	cfg, err := config.LoadConfig(h.configPath)
	if err != nil {
		return err
	}
	modify(cfg)
	if err := cfg.ValidateConfig(); err != nil {
		return err
	}
	if err := cfg.WriteConfig(); err != nil {
		return err
	}

	if h.configHasher != nil {
		hash, err := h.configHasher.UpdateCurrentConfigHash()
		if err != nil {
			return err
		}
		h.configHasher.SetActiveConfigHash(hash)
	}
	h.registry.SetInitialVerbosity(cfg.Trace.DefaultVerbosity)
	h.self.Printf(2, "persisted configuration to %s", h.configPath)
	return nil
}

// writeJSON writes a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(DataResponse{Data: data})
}

// writeJSONData writes a successful JSON response with data.
func writeJSONData(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, data)
}

// decodeVerbosity decodes a VerbosityRequest and requires the field.
func decodeVerbosity(r *http.Request) (int, error) {
	var req VerbosityRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&req); err != nil {
		return 0, err
	}
	if req.Verbosity == nil {
		return 0, errors.New("field \"verbosity\" is required")
	}
	return *req.Verbosity, nil
}
