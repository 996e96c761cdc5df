package health

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/m04kA/salon-booking/internal/api/handlers"
)

const checkTimeout = 2 * time.Second

// Response HTTP response model
type Response struct {
	Status string            `json:"status"` // ok | degraded | unavailable
	Checks map[string]string `json:"checks,omitempty"`
}

type Handler struct {
	required map[string]Check
	optional map[string]Check
	logger   Logger
}

// NewHandler required - без них сервис не работает (503), optional - только деградация
func NewHandler(required, optional map[string]Check, logger Logger) *Handler {
	return &Handler{
		required: required,
		optional: optional,
		logger:   logger,
	}
}

// Handle GET /healthz
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	resp := Response{Status: "ok", Checks: make(map[string]string)}
	status := http.StatusOK

	for _, name := range sortedNames(h.required) {
		if err := h.required[name](ctx); err != nil {
			h.logger.Error("GET /healthz - %s is unavailable: %v", name, err)
			resp.Checks[name] = "unavailable"
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	for _, name := range sortedNames(h.optional) {
		if err := h.optional[name](ctx); err != nil {
			h.logger.Warn("GET /healthz - %s is unavailable: %v", name, err)
			resp.Checks[name] = "unavailable"
			if resp.Status == "ok" {
				resp.Status = "degraded"
			}
			continue
		}
		resp.Checks[name] = "ok"
	}

	handlers.RespondJSON(w, status, resp)
}

func sortedNames(checks map[string]Check) []string {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
