// Package http exposes a bot over HTTP. Each POST to /api/messages carries
// one activity; the response body carries the activities the bot sent during
// that turn, in order.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/adamhockemeyer/BotPlayground-v4/internal/logging"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/domain"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/turn"
)

// Bot is the part of the engine facade the HTTP adapter needs.
type Bot interface {
	ProcessActivity(ctx context.Context, activity *domain.Activity, respond turn.Responder) (domain.TurnResult, error)
}

// TurnResponse is the body returned for one processed activity.
type TurnResponse struct {
	Status     domain.TurnStatus  `json:"status"`
	Activities []*domain.Activity `json:"activities"`
}

// Server handles the message endpoint.
type Server struct {
	bot     Bot
	logger  *slog.Logger
	metrics http.Handler
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetricsHandler mounts a metrics endpoint at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewHandler builds the HTTP handler for a bot.
func NewHandler(bot Bot, opts ...Option) http.Handler {
	s := &Server{bot: bot, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/health", s.handleHealth)
	r.Post("/api/messages", s.handleMessages)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	var activity domain.Activity
	if err := json.NewDecoder(r.Body).Decode(&activity); err != nil {
		s.logger.Warn("invalid request body", "err", err)
		http.Error(w, "invalid activity payload", http.StatusBadRequest)
		return
	}
	if activity.Type == "" || activity.ChannelID == "" || activity.Conversation.ID == "" {
		http.Error(w, "activity requires type, channelId and conversation.id", http.StatusBadRequest)
		return
	}

	// Replies are buffered and returned in the response body; this adapter
	// has no separate delivery channel back to the caller.
	var sent []*domain.Activity
	respond := func(ctx context.Context, a *domain.Activity) error {
		sent = append(sent, a)
		return nil
	}

	result, err := s.bot.ProcessActivity(r.Context(), &activity, respond)
	if err != nil {
		s.logger.Error("turn failed", "conversation", activity.Conversation.ID, "err", err)
		http.Error(w, "failed to process activity", http.StatusInternalServerError)
		return
	}

	if sent == nil {
		sent = []*domain.Activity{}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(TurnResponse{Status: result.Status, Activities: sent}); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
