package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzhttp"

	gosolve "github.com/njchilds90/gosolve"
)

const requestIDHeader = "X-Request-Id"

type ctxKey int

const requestIDKey ctxKey = 0

type server struct {
	cfg Config
	log *slog.Logger
}

// newHandler wires the routes, request IDs and optional gzip compression.
func newHandler(cfg Config, logger *slog.Logger) http.Handler {
	s := &server{cfg: cfg, log: logger}

	mux := http.NewServeMux()
	// POST /tool — handle a tool call
	mux.HandleFunc("/tool", s.handleTool)
	// GET /schema — return tool schema for agent registration
	mux.HandleFunc("/schema", s.handleSchema)
	// GET /health — liveness check
	mux.HandleFunc("/health", s.handleHealth)

	var h http.Handler = s.withRequestID(mux)
	if cfg.Gzip {
		h = gzhttp.GzipHandler(h)
	}
	return h
}

func (s *server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func (s *server) requestLogger(r *http.Request) *slog.Logger {
	id, _ := r.Context().Value(requestIDKey).(string)
	return s.log.With(slog.String("request_id", id))
}

func (s *server) handleTool(w http.ResponseWriter, r *http.Request) {
	log := s.requestLogger(r)
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("panic in /tool", slog.Any("panic", rec), slog.String("stack", string(debug.Stack())))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req gosolve.ToolRequest
	if err := dec.Decode(&req); err != nil {
		log.Warn("bad tool request", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	// Ensure there's no trailing junk.
	if dec.More() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: trailing data"})
		return
	}

	start := time.Now()
	resp := gosolve.HandleToolCall(req)
	attrs := []any{slog.String("tool", req.Tool), slog.Duration("duration", time.Since(start))}
	if resp.Error != "" {
		attrs = append(attrs, slog.String("error", resp.Error), slog.String("kind", resp.Kind))
	}
	log.Info("tool call", attrs...)
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleSchema(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, gosolve.ToolSpec())
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
