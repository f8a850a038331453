// Package server exposes a playback session over a JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/roach88/pdscatter/internal/animation"
	"github.com/roach88/pdscatter/internal/projection"
)

// DefaultSubmitTimeout bounds how long a request waits for the session loop.
const DefaultSubmitTimeout = 5 * time.Second

// Session is the part of animation.Session the handlers use.
type Session interface {
	Controls() projection.Controls
	Snapshot() (animation.Snapshot, bool)
	Submit(ctx context.Context, ev animation.Event) error
}

// Handler serves the controls, the current frame and the user inputs.
type Handler struct {
	session Session
	logger  *slog.Logger
	timeout time.Duration
}

// New constructs a handler for session.
func New(session Session, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{session: session, logger: logger, timeout: DefaultSubmitTimeout}
}

// Register mounts the API endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/controls", h.HandleControls)
	r.Get("/api/frame", h.HandleFrame)
	r.Post("/api/selection", h.HandleSelection)
	r.Post("/api/toggle", h.HandleToggle)
}

// SelectionRequest changes any subset of the selection. Absent fields are
// left unchanged. The fields are validated together and applied as one
// event, so a request either takes effect whole or not at all.
type SelectionRequest struct {
	Year     *int    `json:"year,omitempty"`
	Country  *string `json:"country,omitempty"`
	Category *string `json:"category,omitempty"`
}

func (req SelectionRequest) patch() animation.Patch {
	return animation.Patch{Year: req.Year, Country: req.Country, Category: req.Category}
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
	Field            string `json:"field,omitempty"`
}

// HandleControls handles GET /api/controls.
func (h *Handler) HandleControls(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.session.Controls())
}

// HandleFrame handles GET /api/frame.
func (h *Handler) HandleFrame(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.session.Snapshot()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{
			Error:            "not_ready",
			ErrorDescription: "no frame rendered yet",
		})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleSelection handles POST /api/selection.
func (h *Handler) HandleSelection(w http.ResponseWriter, r *http.Request) {
	var req SelectionRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:            "bad_request",
			ErrorDescription: err.Error(),
		})
		return
	}

	p := req.patch()
	if p.Empty() {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:            "bad_request",
			ErrorDescription: "selection request changes nothing",
		})
		return
	}

	ev := animation.SetSelection(p)
	if err := h.submit(r.Context(), ev); err != nil {
		h.writeError(w, r, ev, err)
		return
	}
	h.HandleFrame(w, r)
}

// HandleToggle handles POST /api/toggle.
func (h *Handler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	ev := animation.Toggle()
	if err := h.submit(r.Context(), ev); err != nil {
		h.writeError(w, r, ev, err)
		return
	}
	h.HandleFrame(w, r)
}

func (h *Handler) submit(ctx context.Context, ev animation.Event) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	return h.session.Submit(ctx, ev)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, ev animation.Event, err error) {
	var se *projection.SelectionError
	switch {
	case errors.As(err, &se):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:            "invalid_selection",
			ErrorDescription: se.Message,
			Field:            se.Field,
		})
	case errors.Is(err, projection.ErrUnknownCategory):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:            "invalid_selection",
			ErrorDescription: err.Error(),
			Field:            "category",
		})
	case errors.Is(err, animation.ErrSessionClosed):
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "session_closed"})
	case errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusGatewayTimeout, ErrorResponse{Error: "timeout"})
	default:
		h.logger.ErrorContext(r.Context(), "event failed",
			"event", ev.String(),
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal_error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
