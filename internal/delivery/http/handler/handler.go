package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/user/manifest-service/internal/delivery/http/request"
	"github.com/user/manifest-service/internal/delivery/http/response"
	"github.com/user/manifest-service/internal/usecase"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	sessions usecase.SessionManager
	checks   map[string]Pinger
	logger   *zap.Logger
}

// NewHandler creates the HTTP handlers. checks names the stores reported by the health endpoint.
func NewHandler(sessions usecase.SessionManager, checks map[string]Pinger, logger *zap.Logger) *Handler {
	return &Handler{
		sessions: sessions,
		checks:   checks,
		logger:   logger,
	}
}

func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.Create(r.Context())
	if err != nil {
		h.logger.Error("Failed to create session", zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusCreated, response.NewSessionResponse(session))
}

func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	session, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		h.writeSessionError(w, id, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response.NewSessionResponse(session))
}

// HandleUpdateLink answers 200 even for a rejected URL; the rejection is in state.error.
func (h *Handler) HandleUpdateLink(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req request.UpdateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session, err := h.sessions.UpdateLink(r.Context(), id, req.URL)
	if err != nil {
		h.writeSessionError(w, id, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response.NewSessionResponse(session))
}

// HandleFetchManifest answers 200 even when the manifest service failed; the failure is in state.error.
func (h *Handler) HandleFetchManifest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	session, err := h.sessions.FetchManifest(r.Context(), id)
	if err != nil {
		h.writeSessionError(w, id, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response.NewSessionResponse(session))
}

func (h *Handler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.sessions.Delete(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete session", zap.String("session_id", id), zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	siteURL := r.URL.Query().Get("url")
	if siteURL == "" {
		h.writeJSONError(w, "URL query parameter is required", http.StatusBadRequest)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.writeJSONError(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	entries, err := h.sessions.History(r.Context(), siteURL, limit)
	if err != nil {
		if errors.Is(err, usecase.ErrHistoryUnavailable) {
			h.writeJSONError(w, err.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to load request history", zap.String("url", siteURL), zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, response.HistoryResponse{URL: siteURL, Requests: entries})
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	healthStatus := map[string]string{"status": "ok"}
	healthy := true
	for name, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			healthStatus[name] = "unhealthy"
			healthy = false
			h.logger.Error("health check failed", zap.String("store", name), zap.Error(err))
			continue
		}
		healthStatus[name] = "healthy"
	}

	if !healthy {
		healthStatus["status"] = "degraded"
		h.writeJSON(w, http.StatusServiceUnavailable, healthStatus)
		return
	}
	h.writeJSON(w, http.StatusOK, healthStatus)
}

func (h *Handler) writeSessionError(w http.ResponseWriter, id string, err error) {
	if errors.Is(err, usecase.ErrSessionNotFound) {
		h.writeJSONError(w, "Session not found", http.StatusNotFound)
		return
	}
	h.logger.Error("Session operation failed", zap.String("session_id", id), zap.Error(err))
	h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
