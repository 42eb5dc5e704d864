package honeypot

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/scamshield-ai/scamshield/internal/similarity"
	"github.com/scamshield-ai/scamshield/pkg/logging"
)

// Handler wires HTTP requests to the honeypot orchestrator.
type Handler struct {
	orchestrator *Orchestrator
	transcripts  similarity.Store // optional
	logger       *logging.Logger
}

// NewHandler creates a honeypot handler. transcripts may be nil; the
// similar-scams endpoint then returns empty results.
func NewHandler(orchestrator *Orchestrator, transcripts similarity.Store, logger *logging.Logger) *Handler {
	if orchestrator == nil {
		panic("honeypot: handler orchestrator cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		orchestrator: orchestrator,
		transcripts:  transcripts,
		logger:       logger,
	}
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// DetectScam handles POST /api/scam-detection.
func (h *Handler) DetectScam(w http.ResponseWriter, r *http.Request) {
	var req DetectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode detection request", "error", err)
		h.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Status:  "error",
			Message: "Invalid request format",
		})
		return
	}
	if err := validate(req); err != "" {
		h.logger.Warn("rejected malformed detection request", "reason", err)
		h.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Status:  "error",
			Message: "Invalid request format",
		})
		return
	}

	// Dependency failures degrade to canned replies inside the orchestrator;
	// a panic here must not turn into a 5xx either.
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("detection pipeline panicked", "panic", rec)
			h.writeJSON(w, http.StatusOK, DetectionResponse{
				Status:        "success",
				ScamDetected:  false,
				AgentResponse: replyGenericTrouble,
			})
		}
	}()

	resp := h.orchestrator.Process(r.Context(), req)
	h.writeJSON(w, http.StatusOK, resp)
}

// validate reports why the request is malformed, or "" when it is usable.
func validate(req DetectionRequest) string {
	if strings.TrimSpace(req.Message.Text) == "" {
		return "message.text is required"
	}
	if strings.TrimSpace(req.Message.Sender) == "" {
		return "message.sender is required"
	}
	return ""
}

type similarScamsResponse struct {
	Status  string              `json:"status"`
	Results []similarity.Result `json:"results"`
}

// SimilarScams handles GET /api/similar-scams.
func (h *Handler) SimilarScams(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		h.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Status:  "error",
			Message: "Invalid request format",
		})
		return
	}

	topK := 3
	if raw := r.URL.Query().Get("top_k"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			topK = n
		}
	}

	results := []similarity.Result{}
	if h.transcripts != nil {
		found, err := h.transcripts.Search(r.Context(), query, topK)
		if err != nil {
			h.logger.Warn("similarity search failed", "error", err)
		} else if found != nil {
			results = found
		}
	}

	h.writeJSON(w, http.StatusOK, similarScamsResponse{
		Status:  "success",
		Results: results,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
