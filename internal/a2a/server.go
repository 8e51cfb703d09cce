package a2a

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/norasys/nora/internal/httpapi"
)

// Executor is the behavior behind a delegate endpoint: it turns the text of
// an incoming message into reply text and describes itself with a card.
type Executor interface {
	Execute(ctx context.Context, input string) (string, error)
	Card() AgentCard
}

// Server hosts one delegate agent behind the wire protocol endpoints.
type Server struct {
	executor Executor
	logger   *zap.Logger
}

// ServerConfig contains configuration for creating a Server.
type ServerConfig struct {
	Executor Executor
	Logger   *zap.Logger
}

// NewServer creates a delegate HTTP server around an executor.
func NewServer(cfg ServerConfig) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Server{
		executor: cfg.Executor,
		logger:   logger,
	}
}

// Routes returns the handler tree for the delegate service.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(MessagesPath, httpapi.JSONErrors(s.handleMessages))
	mux.Handle(HealthPath, httpapi.JSONErrors(s.handleHealth))
	mux.Handle(WellKnownCardPath, httpapi.JSONErrors(s.handleCard))
	return httpapi.RequestLogging(s.logger, mux)
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) *httpapi.Error {
	if r.Method != http.MethodPost {
		return httpapi.MethodNotAllowed(w, "POST")
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return &httpapi.Error{Status: http.StatusBadRequest, Message: "invalid JSON body"}
	}

	input, _ := req.Params.Message.FirstText()
	card := s.executor.Card()

	output, err := s.executor.Execute(r.Context(), input)
	if err != nil {
		s.logger.Error("execute failed",
			zap.String("agent", card.Name),
			zap.String("request_id", req.ID),
			zap.Error(err))
		return &httpapi.Error{Status: http.StatusInternalServerError, Message: "Internal Server Error"}
	}

	reply := NewAgentText(card.Name, output)
	httpapi.WriteJSON(w, http.StatusOK, SendMessageResponse{Message: &reply})
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) *httpapi.Error {
	if r.Method != http.MethodGet {
		return httpapi.MethodNotAllowed(w, "GET")
	}

	httpapi.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"agent":  s.executor.Card().Name,
	})
	return nil
}

func (s *Server) handleCard(w http.ResponseWriter, r *http.Request) *httpapi.Error {
	if r.Method != http.MethodGet {
		return httpapi.MethodNotAllowed(w, "GET")
	}

	httpapi.WriteJSON(w, http.StatusOK, s.executor.Card())
	return nil
}
