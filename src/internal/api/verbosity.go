package api

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/maksimkurb/tracegate/src/internal/config"
)

// componentName extracts and validates the {name} URL parameter.
func componentName(r *http.Request) (string, error) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", errors.New("component name is empty, use /api/v1/default for the global default")
	}
	if !config.IsValidComponentName(name) {
		return "", errors.New("component name must consist of printable ASCII characters without whitespace and must not be \"*\"")
	}
	return name, nil
}

// applyChange persists the change when asked to, then runs apply against
// the live registry. It writes the error response itself and reports whether
// the change went through.
func (h *Handler) applyChange(w http.ResponseWriter, r *http.Request, modify func(cfg *config.Config), apply func()) bool {
	persist, err := h.wantsPersist(r)
	if err != nil {
		WriteInvalidRequest(w, err.Error())
		return false
	}

	if persist {
		if err := h.persist(modify); err != nil {
			var verrs config.ValidationErrors
			if errors.As(err, &verrs) {
				WriteValidationError(w, "Configuration validation failed", map[string]interface{}{"errors": verrs})
				return false
			}
			WritePersistError(w, "Failed to persist configuration: "+err.Error())
			return false
		}
	}

	apply()
	return true
}

// GetVerbosity returns the global default and all overrides.
// GET /api/v1/verbosity
func (h *Handler) GetVerbosity(w http.ResponseWriter, r *http.Request) {
	writeJSONData(w, RegistryResponse{
		DefaultVerbosity: h.registry.DefaultVerbosity(),
		Generation:       h.registry.Generation(),
		Overrides:        h.registry.Overrides(),
	})
}

// PrintVerbosity returns the registry listing as plain text.
// GET /api/v1/verbosity/print
func (h *Handler) PrintVerbosity(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := h.registry.Print(w); err != nil {
		h.self.Printf(0, "print failed: %v", err)
	}
}

// ResetVerbosity drops every override and restores the initial default.
// POST /api/v1/verbosity/reset
func (h *Handler) ResetVerbosity(w http.ResponseWriter, r *http.Request) {
	ok := h.applyChange(w, r, func(cfg *config.Config) {
		cfg.Components = nil
		cfg.Trace.DefaultVerbosity = h.registry.InitialVerbosity()
	}, h.registry.Reset)
	if !ok {
		return
	}

	h.self.Printf(1, "registry reset")
	writeJSONData(w, DefaultResponse{Verbosity: h.registry.DefaultVerbosity()})
}

// GetDefault returns the global default.
// GET /api/v1/default
func (h *Handler) GetDefault(w http.ResponseWriter, r *http.Request) {
	writeJSONData(w, DefaultResponse{Verbosity: h.registry.DefaultVerbosity()})
}

// SetDefault changes the global default.
// PUT /api/v1/default
func (h *Handler) SetDefault(w http.ResponseWriter, r *http.Request) {
	v, err := decodeVerbosity(r)
	if err != nil {
		WriteInvalidRequest(w, "Invalid request body: "+err.Error())
		return
	}

	ok := h.applyChange(w, r, func(cfg *config.Config) {
		cfg.Trace.DefaultVerbosity = v
	}, func() {
		h.registry.Set("", v)
	})
	if !ok {
		return
	}

	h.self.Printf(1, "default verbosity set to %d", v)
	writeJSONData(w, DefaultResponse{Verbosity: v})
}

// ClearDefault restores the initial global default.
// DELETE /api/v1/default
func (h *Handler) ClearDefault(w http.ResponseWriter, r *http.Request) {
	ok := h.applyChange(w, r, func(cfg *config.Config) {
		cfg.Trace.DefaultVerbosity = h.registry.InitialVerbosity()
	}, func() {
		h.registry.Clear("")
	})
	if !ok {
		return
	}

	h.self.Printf(1, "default verbosity cleared")
	writeJSONData(w, DefaultResponse{Verbosity: h.registry.DefaultVerbosity()})
}

func (h *Handler) describe(name string) ComponentResponse {
	v, explicit := h.registry.Lookup(name)
	resp := ComponentResponse{
		Name:      name,
		Effective: v,
		Explicit:  explicit,
	}
	if explicit {
		resp.Verbosity = &v
	}
	return resp
}

// GetComponent returns the explicit and effective verbosity of a component.
// GET /api/v1/components/{name}
func (h *Handler) GetComponent(w http.ResponseWriter, r *http.Request) {
	name, err := componentName(r)
	if err != nil {
		WriteInvalidRequest(w, err.Error())
		return
	}
	writeJSONData(w, h.describe(name))
}

// SetComponent sets the verbosity of a component and its subtree.
// PUT /api/v1/components/{name}
func (h *Handler) SetComponent(w http.ResponseWriter, r *http.Request) {
	name, err := componentName(r)
	if err != nil {
		WriteInvalidRequest(w, err.Error())
		return
	}
	v, err := decodeVerbosity(r)
	if err != nil {
		WriteInvalidRequest(w, "Invalid request body: "+err.Error())
		return
	}

	ok := h.applyChange(w, r, func(cfg *config.Config) {
		cfg.SetComponent(name, v)
	}, func() {
		h.registry.Set(name, v)
	})
	if !ok {
		return
	}

	h.self.Printf(1, "set %s=%d", name, v)
	writeJSONData(w, h.describe(name))
}

// ClearComponent removes the explicit verbosity of a component.
// DELETE /api/v1/components/{name}
func (h *Handler) ClearComponent(w http.ResponseWriter, r *http.Request) {
	name, err := componentName(r)
	if err != nil {
		WriteInvalidRequest(w, err.Error())
		return
	}

	ok := h.applyChange(w, r, func(cfg *config.Config) {
		cfg.RemoveComponent(name)
	}, func() {
		h.registry.Clear(name)
	})
	if !ok {
		return
	}

	h.self.Printf(1, "cleared %s", name)
	writeJSONData(w, h.describe(name))
}

// Check reports whether an event for a component and level would be emitted.
// GET /api/v1/check?name=db.pool&level=3
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := q.Get("name")
	if !config.IsValidComponentName(name) {
		WriteInvalidRequest(w, "invalid component name")
		return
	}

	level := 0
	if raw := q.Get("level"); raw != "" {
		var err error
		if level, err = strconv.Atoi(raw); err != nil {
			WriteInvalidRequest(w, "level must be an integer")
			return
		}
	}

	writeJSONData(w, CheckResponse{
		Name:      name,
		Level:     level,
		Effective: h.registry.Get(name),
		Enabled:   h.tracer.Enabled(name, level),
	})
}
