package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/scamshield-ai/scamshield/pkg/logging"
)

// HealthHandler serves the public liveness endpoint.
type HealthHandler struct {
	service string
	version string
	logger  *logging.Logger
}

func NewHealthHandler(service, version string, logger *logging.Logger) *HealthHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &HealthHandler{service: service, version: version, logger: logger}
}

type healthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// Check handles GET /.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	err := json.NewEncoder(w).Encode(healthResponse{
		Status:    "online",
		Service:   h.service,
		Version:   h.version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		h.logger.Error("failed to write health response", "error", err)
	}
}
