package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ravisuresh229/bidbook/internal/common"
	"github.com/ravisuresh229/bidbook/internal/entity"
	"github.com/ravisuresh229/bidbook/internal/export"
	"github.com/ravisuresh229/bidbook/internal/pipeline"
)

// DocumentProcessor turns uploaded PDFs into records, one per document.
type DocumentProcessor interface {
	ProcessBatch(ctx context.Context, docs []pipeline.Document) entity.RecordSet
}

type Deps struct {
	Config          common.ServerConfig
	NotificationTTL time.Duration
	Processor       DocumentProcessor
	Exporter        *export.Service
	Logger          *slog.Logger
	Now             func() time.Time // defaults to time.Now
}

// Server is the stateless HTTP transport. Review state travels with each
// request; nothing is kept between calls.
type Server struct {
	cfg       common.ServerConfig
	ttl       time.Duration
	processor DocumentProcessor
	exporter  *export.Service
	logger    *slog.Logger
	now       func() time.Time
}

func New(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Exporter == nil {
		deps.Exporter = export.NewService(deps.Logger)
	}
	if deps.Config.MaxUploadBytes <= 0 {
		deps.Config.MaxUploadBytes = 50 << 20
	}
	return &Server{
		cfg:       deps.Config,
		ttl:       deps.NotificationTTL,
		processor: deps.Processor,
		exporter:  deps.Exporter,
		logger:    deps.Logger,
		now:       deps.Now,
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestID)
	r.Use(s.accessLog)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   AllowedOrigins(s.cfg),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{headerRequestID, "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", s.handleHealth)
	r.Get("/health", s.handleHealth)
	r.Post("/upload", s.handleUpload)

	r.Group(func(r chi.Router) {
		r.Use(s.limitBody(jsonBodyLimit))
		r.Post("/confirm", s.handleConfirm)
		r.Post("/review", s.handleReview)
		r.Post("/invite", s.handleInvite)
		r.Post("/export/xlsx", s.handleExportXLSX)
	})
	return r
}

// AllowedOrigins lists the browser origins permitted by CORS: the local dev
// servers, FRONTEND_URL, ALLOWED_ORIGINS and any Vercel deployment.
func AllowedOrigins(cfg common.ServerConfig) []string {
	origins := []string{"http://localhost:5173", "http://localhost:3000"}
	add := func(o string) {
		for _, have := range origins {
			if have == o {
				return
			}
		}
		origins = append(origins, o)
	}
	if cfg.FrontendURL != "" {
		add(cfg.FrontendURL)
	}
	for _, o := range cfg.AllowedOrigins {
		add(o)
	}
	add("https://*.vercel.app")
	return origins
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "BidBook API"})
}
