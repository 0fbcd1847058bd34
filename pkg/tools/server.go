package tools

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sguter90/anomalymaestro/pkg/metrics"
	"go.uber.org/zap"
)

// maxArgsBytes bounds a tool invocation request body
const maxArgsBytes = 64 << 10

// InvokeResponse is returned by POST /api/v1/tools/{name}
type InvokeResponse struct {
	Tool   string `json:"tool"`
	Result string `json:"result"`
}

// ErrorResponse is returned for transport-level failures
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server exposes a tool registry over HTTP
type Server struct {
	registry  *Registry
	metrics   *metrics.Metrics
	jwtSecret string
	logger    *zap.Logger
	Router    *mux.Router

	// AllowedOrigins lists origins granted CORS access. Set before Setup.
	AllowedOrigins []string
}

// NewServer creates a tool server. An empty jwtSecret disables authentication.
func NewServer(registry *Registry, m *metrics.Metrics, jwtSecret string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		registry:  registry,
		metrics:   m,
		jwtSecret: jwtSecret,
		logger:    logger.Named("http"),
		Router:    mux.NewRouter(),
	}
}

// Setup configures all routes
func (s *Server) Setup() {
	r := s.Router
	r.Use(s.corsMiddleware)

	// Global OPTIONS handler - catches all preflight requests
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.HandleFunc("/health", s.healthHandler).Methods("GET")
	r.Handle("/metrics", s.metrics.Handler()).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	if s.jwtSecret != "" {
		api.Use(JWTAuthMiddleware(s.jwtSecret))
	} else {
		s.logger.Warn("⚠ JWT_SECRET not set, tool API is unauthenticated")
	}

	api.HandleFunc("/tools", s.listToolsHandler).Methods("GET")
	api.HandleFunc("/tools/{name}", s.invokeToolHandler).Methods("POST")

	for _, t := range s.registry.All() {
		s.logger.Info("✓ Registering tool", zap.String("tool", t.Name))
	}
}

// ServeHTTP makes Server usable as an http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

// corsMiddleware handles CORS headers
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			isAllowed := false
			for _, allowed := range s.AllowedOrigins {
				if origin == allowed {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					isAllowed = true
					break
				}
			}
			if !isAllowed {
				s.logger.Debug("origin not allowed",
					zap.String("origin", origin),
					zap.String("allowed", strings.Join(s.AllowedOrigins, ", ")),
				)
			}
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "3600")

		// Handle preflight requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listToolsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.All())
}

func (s *Server) invokeToolHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	if _, ok := s.registry.Get(name); !ok {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "unknown tool " + name})
		return
	}

	args := map[string]string{}
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxArgsBytes))
	if err := decoder.Decode(&args); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: arguments must be a JSON object of strings"})
		return
	}

	result, err := s.registry.Invoke(r.Context(), name, args)
	if err != nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	s.logger.Debug("invoked tool",
		zap.String("tool", name),
		zap.String("operator", OperatorFromContext(r.Context())),
	)
	writeJSON(w, http.StatusOK, InvokeResponse{Tool: name, Result: result})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
