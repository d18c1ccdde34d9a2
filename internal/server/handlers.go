package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-json-experiment/json"

	"listings-web/internal/contextkeys"
	"listings-web/internal/page"
	"listings-web/internal/port"
	"listings-web/models"
	"listings-web/service"
)

// PageBuilder is what the handlers need from the page service.
type PageBuilder interface {
	Build(ctx context.Context) (*service.Page, error)
	Payload(ctx context.Context) ([]byte, error)
}

type PageHandler struct {
	pages PageBuilder
}

func NewPageHandler(pages PageBuilder) *PageHandler {
	return &PageHandler{pages: pages}
}

// Index handles GET /. The page is built fresh for every request; a failed
// load still renders the page, with the error notice shown.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	p, err := h.pages.Build(r.Context())
	if err != nil {
		logger.Error("failed to build page", err, nil)
		http.Error(w, "internal error, trace "+contextkeys.TraceIDFromContext(r.Context()), http.StatusInternalServerError)
		return
	}

	status := http.StatusOK
	if p.State != page.StateReady {
		logger.Warn("serving page with error notice", port.Fields{"state": p.State.String(), "error": errString(p.Err)})
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(p.HTML))
}

// Properties handles GET /properties.json.
func (h *PageHandler) Properties(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	data, err := h.pages.Payload(r.Context())
	if err != nil {
		logger.Error("failed to load payload", err, nil)
		status := http.StatusServiceUnavailable
		if errors.Is(err, models.ErrInvalidPayload) {
			status = http.StatusBadGateway
		}
		RespondWithJSON(w, status, map[string]string{
			"error":    err.Error(),
			"trace_id": contextkeys.TraceIDFromContext(r.Context()),
		})
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Health handles GET /healthz.
func Health(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// RespondWithJSON sends payload as JSON.
func RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
