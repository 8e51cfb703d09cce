// Package httpapi carries the JSON plumbing shared by the HTTP services in
// this module: typed handler errors, response encoding, and the middleware
// every service wraps its mux in.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Error is a handler failure destined for the client as a JSON body.
type Error struct {
	Status  int
	Message string
}

// Handler is an http handler that reports failures as *Error instead of
// writing them itself.
type Handler func(http.ResponseWriter, *http.Request) *Error

type errorResponse struct {
	Error string `json:"error"`
}

// JSONErrors adapts a Handler into an http.HandlerFunc that renders any
// returned *Error as a JSON error body.
func JSONErrors(next Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := next(w, r); err != nil {
			WriteJSON(w, err.Status, errorResponse{Error: err.Message})
		}
	}
}

// WriteJSON encodes payload as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// MethodNotAllowed sets the Allow header and returns the matching *Error.
func MethodNotAllowed(w http.ResponseWriter, allow string) *Error {
	w.Header().Set("Allow", allow)
	return &Error{Status: http.StatusMethodNotAllowed, Message: "method not allowed"}
}

// CORS applies a permissive cross-origin policy: any origin, any method,
// any headers.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "*")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequestLogging logs one line per request with method, path and elapsed
// time. A nil logger disables logging.
func RequestLogging(logger *zap.Logger, next http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Info("api request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)))
	})
}
