package supervisor

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/norasys/nora/internal/httpapi"
)

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// Server exposes the orchestration loop over HTTP.
type Server struct {
	loop   *Loop
	logger *zap.Logger
}

// ServerConfig contains configuration for creating a Server.
type ServerConfig struct {
	Loop   *Loop
	Logger *zap.Logger
}

// NewServer creates the supervisor HTTP server.
func NewServer(cfg ServerConfig) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Server{
		loop:   cfg.Loop,
		logger: logger,
	}
}

// Routes returns the handler tree for the supervisor service.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/agent/chat", httpapi.JSONErrors(s.handleChat))
	mux.Handle("/docs", httpapi.JSONErrors(s.handleDocs))
	return httpapi.CORS(httpapi.RequestLogging(s.logger, mux))
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) *httpapi.Error {
	if r.Method != http.MethodPost {
		return httpapi.MethodNotAllowed(w, "POST")
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return &httpapi.Error{Status: http.StatusBadRequest, Message: "invalid JSON body"}
	}
	if strings.TrimSpace(req.Message) == "" {
		return &httpapi.Error{Status: http.StatusBadRequest, Message: "message is required"}
	}

	result, err := s.loop.Run(r.Context(), req.Message)
	if err != nil {
		return &httpapi.Error{Status: http.StatusInternalServerError, Message: "Internal Server Error"}
	}

	httpapi.WriteJSON(w, http.StatusOK, chatResponse{Response: result.Output})
	return nil
}

// handleDocs serves a minimal API description. Status tooling probes this
// route to tell whether the supervisor is up.
func (s *Server) handleDocs(w http.ResponseWriter, r *http.Request) *httpapi.Error {
	if r.Method != http.MethodGet {
		return httpapi.MethodNotAllowed(w, "GET")
	}

	httpapi.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"service": "supervisor",
		"endpoints": []map[string]string{
			{"method": "POST", "path": "/agent/chat", "description": "Route a user message through the delegate agents"},
			{"method": "GET", "path": "/docs", "description": "This document"},
		},
	})
	return nil
}
