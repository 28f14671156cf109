package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/pulsovital/financials/finance"
	"github.com/pulsovital/financials/internal/logger"
	"github.com/pulsovital/financials/payload"
)

type Server struct {
	apiKey string // optional shared secret for /compute; empty disables auth
	router *chi.Mux
}

func NewServer(apiKey string) *Server {
	s := &Server{apiKey: apiKey}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(s.requestLogger)

	// Health check
	r.Get("/health", s.handleHealth)

	// Computation
	r.With(s.requireAPIKey).Post("/compute", s.handleCompute)

	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type ctxKey int

const requestIDKey ctxKey = 0

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// requestLogger assigns a request id, logs one line per request, and keeps
// the 4xx/5xx counters current.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		switch {
		case status >= 500:
			logger.ErrorHTTP5xx()
		case status >= 400:
			logger.WarnHTTP4xx()
		}

		logger.Info("request completed",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// requireAPIKey rejects requests whose X-API-Key header does not match the
// configured secret. No secret configured means open access.
func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey != "" && r.Header.Get("X-API-Key") != s.apiKey {
			respondError(w, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Health check handler
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{OK: true})
}

// Computation handler: decode the raw body, derive metrics, format, respond.
func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r.Context())

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read request body", err)
		return
	}

	logger.Debug("compute request",
		"request_id", requestID,
		"preview", payload.Preview(string(body)),
	)

	profile, flags, err := payload.Decode(string(body))
	if err != nil {
		status := http.StatusInternalServerError
		if isDecodeFailure(err) {
			status = http.StatusBadRequest
		}
		respondError(w, status, "invalid request body", err)
		return
	}

	raw, formatted, notes := finance.ComputeFinancials(profile, flags)

	resp := ComputeResponse{
		Raw:       raw,
		Formatted: formatted,
		Notes:     notes,
	}

	b, err := json.Marshal(resp)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to encode response", err)
		return
	}

	logger.Debug("compute response",
		"request_id", requestID,
		"preview", payload.Preview(string(b)),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// isDecodeFailure reports whether err is one of the decoder's terminal
// client errors.
func isDecodeFailure(err error) bool {
	var decodeErr *payload.DecodeError
	var invalidErr *payload.InvalidPayloadError
	var missingErr *payload.MissingProfileError
	return errors.As(err, &decodeErr) || errors.As(err, &invalidErr) || errors.As(err, &missingErr)
}

// Helper functions
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	respondJSON(w, status, resp)
}

func main() {
	server := NewServer(os.Getenv("APP_API_KEY"))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      server,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		logger.Info("server starting", "port", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed to start", "error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("server stopped")
}
