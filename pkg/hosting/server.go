package hosting

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// MaxImageBytes bounds uploaded image size
const MaxImageBytes = 16 << 20

// Server stores and serves images by exact filename
type Server struct {
	store  *DirHost
	logger *zap.Logger
	Router *mux.Router
}

// NewServer creates a server backed by dir
func NewServer(dir string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		store:  NewDirHost(dir, ""),
		logger: logger.Named("hosting"),
		Router: mux.NewRouter(),
	}
	s.Setup(s.Router)
	return s
}

// Setup registers the hosting routes on r
func (s *Server) Setup(r *mux.Router) {
	r.HandleFunc("/health", s.healthHandler).Methods("GET")
	r.HandleFunc(PathPrefix+"{filename}", s.getImageHandler).Methods("GET", "HEAD")
	r.HandleFunc(PathPrefix+"{filename}", s.putImageHandler).Methods("PUT", "POST")
}

// ServeHTTP makes Server an http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

// healthHandler returns server health status
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) getImageHandler(w http.ResponseWriter, r *http.Request) {
	filename := mux.Vars(r)["filename"]
	if !ValidFilename(filename) {
		http.Error(w, "Invalid filename", http.StatusBadRequest)
		return
	}

	f, err := os.Open(filepath.Join(s.store.Dir, filename))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		s.logger.Error("failed to open image", zap.String("filename", filename), zap.Error(err))
		http.Error(w, "Failed to read image", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	http.ServeContent(w, r, filename, info.ModTime(), f)
}

func (s *Server) putImageHandler(w http.ResponseWriter, r *http.Request) {
	filename := mux.Vars(r)["filename"]
	if !ValidFilename(filename) {
		http.Error(w, "Invalid filename", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, MaxImageBytes+1))
	if err != nil {
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return
	}
	if len(data) > MaxImageBytes {
		http.Error(w, "Image too large", http.StatusRequestEntityTooLarge)
		return
	}
	if len(data) == 0 {
		http.Error(w, "Empty image", http.StatusBadRequest)
		return
	}

	if _, err := s.store.Save(filename, data); err != nil {
		s.logger.Error("failed to store image", zap.String("filename", filename), zap.Error(err))
		http.Error(w, "Failed to store image", http.StatusInternalServerError)
		return
	}

	s.logger.Info("✓ stored image", zap.String("filename", filename), zap.Int("bytes", len(data)))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"path": PathPrefix + filename})
}
