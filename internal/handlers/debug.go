package handlers

import (
	"net/http"

	"portfolio-backend/internal/llm"
)

type providerStatus struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Model     string `json:"model"`
	BaseURL   string `json:"base_url,omitempty"`
	HasKey    bool   `json:"has_key"`
	KeyLength int    `json:"key_length"`
}

// DebugHandler reports which providers are configured. Key material is never
// included.
type DebugHandler struct {
	registry *llm.Registry
	env      string
}

func NewDebugHandler(registry *llm.Registry, env string) *DebugHandler {
	return &DebugHandler{registry: registry, env: env}
}

func (h *DebugHandler) Providers(w http.ResponseWriter, r *http.Request) {
	out := make([]providerStatus, 0, h.registry.Len())
	for _, p := range h.registry.Providers() {
		out = append(out, providerStatus{
			Name:      p.Name,
			Kind:      string(p.Kind),
			Model:     p.Model,
			BaseURL:   p.BaseURL,
			HasKey:    p.APIKey != "",
			KeyLength: len(p.APIKey),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"env":       h.env,
		"providers": out,
	})
}
