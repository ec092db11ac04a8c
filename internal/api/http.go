package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"membox/pkg/kv"
)

// Server wraps a kv.Store and exposes HTTP endpoints for cache operations.
// It is a thin adapter: request parsing and status mapping only, all
// semantics live in the store.
type Server struct {
	Store  kv.Store
	Logger *zap.Logger
}

// NewServer creates a new HTTP server with the given store.
func NewServer(store kv.Store, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		Store:  store,
		Logger: logger,
	}
}

// RegisterRoutes registers all HTTP handlers on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/get", s.handleGet)
	mux.HandleFunc("/set", s.handleSet)
	mux.HandleFunc("/delete", s.handleDelete)
	mux.HandleFunc("/healthz", s.handleHealth)
}

// handleGet handles GET /get?key=foo requests.
// Returns the value as plain text, or 404 if the key is absent.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !r.URL.Query().Has("key") {
		http.Error(w, "Missing key parameter", http.StatusBadRequest)
		return
	}
	key := r.URL.Query().Get("key")

	value, ok := s.Store.Get([]byte(key))
	if !ok {
		http.Error(w, "Key not found", http.StatusNotFound)
		return
	}

	s.Logger.Debug("get", zap.String("key", key), zap.Int("bytes", len(value)))

	w.Header().Set("Content-Type", "text/plain")
	w.Write(value)
}

// handleSet handles POST /set requests with JSON body.
// Expects: {"key": "foo", "value": "bar"}
func (s *Server) handleSet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Key   *string `json:"key"`
		Value string  `json:"value"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.Key == nil {
		http.Error(w, "Missing key field", http.StatusBadRequest)
		return
	}

	if err := s.Store.Set([]byte(*req.Key), []byte(req.Value)); err != nil {
		if errors.Is(err, kv.ErrNoSpace) {
			http.Error(w, "Byte budget exhausted", http.StatusInsufficientStorage)
			return
		}
		s.Logger.Error("set failed", zap.String("key", *req.Key), zap.Error(err))
		http.Error(w, "Failed to set key", http.StatusInternalServerError)
		return
	}

	s.Logger.Debug("set", zap.String("key", *req.Key), zap.Int("bytes", len(req.Value)))

	w.WriteHeader(http.StatusNoContent)
}

// handleDelete handles POST /delete requests with JSON body.
// Expects: {"key": "foo"}
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Key *string `json:"key"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.Key == nil {
		http.Error(w, "Missing key field", http.StatusBadRequest)
		return
	}

	if !s.Store.Delete([]byte(*req.Key)) {
		http.Error(w, "Key not found", http.StatusNotFound)
		return
	}

	s.Logger.Debug("delete", zap.String("key", *req.Key))

	w.WriteHeader(http.StatusNoContent)
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("ok"))
}
