package server

import (
	"context"
	"embed"
	"encoding/json"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"ocena/internal/db"
	"ocena/internal/grading"
	"ocena/internal/logging"
	"ocena/internal/workspace"
)

//go:embed static
var staticFiles embed.FS

// Store is the persistence the handlers need.
type Store interface {
	SaveSubmission(ctx context.Context, sub db.Submission) (int64, error)
	ListSubmissions(ctx context.Context, limit int) ([]db.Submission, error)
	GetSubmission(ctx context.Context, id int64) (db.Submission, error)
}

// Grader grades extracted texts and keeps their order.
type Grader interface {
	GradeBatch(ctx context.Context, texts []string) []grading.Result
}

// Limits are the upload checks applied to every file.
type Limits struct {
	MaxFileSize       int64
	AllowedExtensions []string
}

type Server struct {
	grader  Grader
	store   Store
	archive workspace.Archive
	limits  Limits
	logger  *slog.Logger
	now     func() time.Time
}

type Option func(*Server)

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithArchive keeps a copy of every accepted upload.
func WithArchive(a workspace.Archive) Option {
	return func(s *Server) { s.archive = a }
}

func New(grader Grader, store Store, limits Limits, opts ...Option) *Server {
	s := &Server{
		grader: grader,
		store:  store,
		limits: limits,
		logger: logging.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "server")
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/health", s.health).Methods(http.MethodGet)
	router.HandleFunc("/api/grade", s.grade).Methods(http.MethodPost)
	router.HandleFunc("/api/submissions", s.listSubmissions).Methods(http.MethodGet)
	router.HandleFunc("/api/submissions/{id:[0-9]+}", s.getSubmission).Methods(http.MethodGet)

	assets, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	router.PathPrefix("/").Handler(http.FileServer(http.FS(assets))).Methods(http.MethodGet)
	router.Use(s.logRequests)
	return router
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "elapsed", time.Since(start))
	})
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
