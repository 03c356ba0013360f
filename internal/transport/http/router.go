package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/strogmv/chatnotify/internal/domain"
	"github.com/strogmv/chatnotify/internal/pkg/logger"
	"github.com/strogmv/chatnotify/internal/service"
)

const maxBodyBytes = 64 << 10

var validate = validator.New()

// EventDispatcher runs the notification pipeline for one event.
type EventDispatcher interface {
	Dispatch(ctx context.Context, evt domain.MessageCreated) service.Outcome
}

// ViewingStore records which conversation a user has open.
type ViewingStore interface {
	SetViewing(ctx context.Context, userID, conversationID string) error
	ClearViewing(ctx context.Context, userID, conversationID string) error
}

type MessageCreatedRequest struct {
	ConversationID string                  `json:"conversationId" validate:"required"`
	MessageID      string                  `json:"messageId"`
	Message        *MessageSnapshotRequest `json:"message"`
}

type MessageSnapshotRequest struct {
	SenderID string `json:"senderId"`
	Text     string `json:"text"`
}

type MessageCreatedResponse struct {
	Outcome string `json:"outcome"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler serves the HTTP surface of the service.
type Handler struct {
	Dispatcher EventDispatcher
	Viewing    ViewingStore
}

// NewRouter builds the chi router. viewing may be nil, which disables the presence routes.
func NewRouter(dispatcher EventDispatcher, viewing ViewingStore) http.Handler {
	h := &Handler{Dispatcher: dispatcher, Viewing: viewing}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.healthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/events/message-created", h.messageCreated)
		if viewing != nil {
			r.Put("/users/{userID}/viewing/{conversationID}", h.setViewing)
			r.Delete("/users/{userID}/viewing/{conversationID}", h.clearViewing)
		}
	})

	return otelhttp.NewHandler(r, "chatnotify.http")
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) messageCreated(w http.ResponseWriter, r *http.Request) {
	var req MessageCreatedRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: verrs[0].Field() + " is " + verrs[0].Tag()})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	evt := domain.MessageCreated{ConversationID: req.ConversationID, MessageID: req.MessageID}
	if req.Message != nil {
		evt.Message = &domain.MessageSnapshot{SenderID: req.Message.SenderID, Text: req.Message.Text}
	}

	out := h.Dispatcher.Dispatch(r.Context(), evt)
	writeJSON(w, http.StatusOK, MessageCreatedResponse{Outcome: string(out)})
}

func (h *Handler) setViewing(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	conversationID := chi.URLParam(r, "conversationID")
	if err := h.Viewing.SetViewing(r.Context(), userID, conversationID); err != nil {
		logger.From(r.Context()).Error("set viewing failed", slog.String("user_id", userID), slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "presence unavailable"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) clearViewing(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	conversationID := chi.URLParam(r, "conversationID")
	if err := h.Viewing.ClearViewing(r.Context(), userID, conversationID); err != nil {
		logger.From(r.Context()).Error("clear viewing failed", slog.String("user_id", userID), slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "presence unavailable"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
