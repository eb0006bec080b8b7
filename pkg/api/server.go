// Package api exposes the question-answering service over HTTP. Every
// endpoint except the health check requires a bearer token, and admitted
// requests are counted against a per-token rate limit.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/unikit/regent/pkg/assistant"
	"github.com/unikit/regent/pkg/auth"
	"github.com/unikit/regent/pkg/history"
	"github.com/unikit/regent/pkg/knowledge"
	"github.com/unikit/regent/pkg/ratelimit"
)

// Answerer is the part of the assistant the API needs.
type Answerer interface {
	Answer(ctx context.Context, token, question, level string) (*assistant.Response, error)
	History(ctx context.Context, token string) ([]history.Exchange, error)
}

type contextKey int

const tokenKey contextKey = 0

// Server handles the HTTP surface of the service.
type Server struct {
	answerer      Answerer
	authenticator *auth.Authenticator
	admission     ratelimit.Admission
	logger        *slog.Logger
}

// NewServer creates a Server. A nil logger discards output.
func NewServer(answerer Answerer, authenticator *auth.Authenticator, admission ratelimit.Admission, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{
		answerer:      answerer,
		authenticator: authenticator,
		admission:     admission,
		logger:        logger,
	}
}

// Handler returns the routed handler with logging and panic recovery
// applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("POST /ask", s.protect(http.HandlerFunc(s.handleAsk)))
	mux.Handle("GET /history", s.protect(http.HandlerFunc(s.handleHistory)))
	return chain(mux, loggingMiddleware(s.logger), recoveryMiddleware(s.logger))
}

// protect authenticates the caller and charges the request against its rate
// limit before the handler runs. Rejected requests never reach the handler
// and are never counted.
func (s *Server) protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := s.authenticator.Authenticate(r.Header.Get("Authorization"))
		if err != nil {
			w.Header().Set("WWW-Authenticate", `Bearer realm="regent"`)
			writeError(w, http.StatusUnauthorized, "unauthorized", err.Error())
			return
		}

		if err := s.admission.Allow(r.Context(), token); err != nil {
			if errors.Is(err, ratelimit.ErrLimited) {
				w.Header().Set("Retry-After", strconv.Itoa(60))
				writeError(w, http.StatusTooManyRequests, "rate_limited", "rate limit exceeded, try again later")
				return
			}
			s.logger.Error("admission check failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), tokenKey, token)))
	})
}

func callerToken(r *http.Request) string {
	token, _ := r.Context().Value(tokenKey).(string)
	return token
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type askRequest struct {
	Question string `json:"question"`
	Level    string `json:"level"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "question must not be empty")
		return
	}

	resp, err := s.answerer.Answer(r.Context(), callerToken(r), req.Question, req.Level)
	if err != nil {
		switch {
		case errors.Is(err, knowledge.ErrLevelRequired), errors.Is(err, knowledge.ErrLevelEmpty):
			writeError(w, http.StatusBadRequest, "invalid_level", err.Error())
		default:
			s.logger.Error("failed to answer question", "error", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

type historyResponse struct {
	Exchanges []history.Exchange `json:"exchanges"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	exchanges, err := s.answerer.History(r.Context(), callerToken(r))
	if err != nil {
		s.logger.Error("failed to load history", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	if exchanges == nil {
		exchanges = []history.Exchange{}
	}
	writeJSON(w, http.StatusOK, historyResponse{Exchanges: exchanges})
}
