package webhook

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/wolfman30/restaurant-webhook/pkg/logging"
)

// maxBodyBytes caps a fulfillment request body.
const maxBodyBytes = 1 << 20

// Handler exposes a Service over HTTP.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates the HTTP handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Webhook handles POST /webhook. It always answers 200 with a JSON
// fulfillment body, including when the request cannot be decoded.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	var req Request
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil && err != io.EOF {
		h.logger.Warn("webhook: decode request failed", "error", err)
		writeJSON(w, h.service.Apology(""))
		return
	}
	writeJSON(w, h.service.Handle(r.Context(), req))
}

func writeJSON(w http.ResponseWriter, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

// Throttled answers a rate-limited request with the apology reply so the
// dialog platform still gets a well-formed 200.
func (h *Handler) Throttled(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, h.service.Apology(""))
}
