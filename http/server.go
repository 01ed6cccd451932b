package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/fwojciec/distill"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxRequestBytes caps the size of an API request body.
const maxRequestBytes = 16 << 20

// FilterFactory builds a content filter from a configuration.
type FilterFactory func(cfg distill.FilterConfig) (distill.ContentFilter, error)

// ExtractorFactory builds an extractor from schema JSON and a backend name.
type ExtractorFactory func(schema []byte, backend string) (distill.Extractor, error)

// ServerConfig holds the collaborators of a Server.
type ServerConfig struct {
	NewFilter    FilterFactory
	NewExtractor ExtractorFactory
	Converter    distill.Converter
	Logger       *slog.Logger

	// APIKey, when set, is required as a bearer token on /v1 routes.
	APIKey string
}

// Server is the JSON API of the distillation engine.
type Server struct {
	router chi.Router
	cfg    ServerConfig
	logger *slog.Logger
}

// NewServer creates a Server with its routes registered.
func NewServer(cfg ServerConfig) *Server {
	s := &Server{cfg: cfg, logger: cfg.Logger}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.logger))

	r.Get("/health", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey))
		}
		r.Post("/filter", s.handleFilter)
		r.Post("/extract", s.handleExtract)
		r.Post("/entities", s.handleEntities)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decode reads a JSON request body into v.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return distill.Errorf(distill.EINVALID, "invalid request body: %v", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps EINVALID to 400 and everything else to 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if distill.ErrorCode(err) == distill.EINVALID {
		status = http.StatusBadRequest
	} else {
		s.logger.Error("request failed",
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"err", err,
		)
	}
	writeJSON(w, status, map[string]string{"error": distill.ErrorMessage(err)})
}
