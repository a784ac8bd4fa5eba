package httpserver

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appanalysis "github.com/ecomlabs/research-agent/internal/application/analysis"
	domain "github.com/ecomlabs/research-agent/internal/domain/analysis"
	"github.com/ecomlabs/research-agent/internal/middleware"
	"github.com/ecomlabs/research-agent/pkg/errors"
)

// Metadata describes the running service on the root endpoint.
type Metadata struct {
	Service  string
	Version  string
	Database string
	Agent    string
}

type Router struct {
	svc  *appanalysis.Service
	meta Metadata
}

func NewRouter(svc *appanalysis.Service, meta Metadata, checkers map[string]middleware.HealthChecker) http.Handler {
	r := &Router{svc: svc, meta: meta}
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)

	mux.Get("/health", middleware.HealthHandler(meta.Service, meta.Version, checkers))
	mux.Get("/metrics", middleware.MetricsHandler)
	mux.Get("/", r.wrap(r.handleRoot))
	mux.Get("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mux.Route("/api/v1", func(rt chi.Router) {
		rt.With(middleware.RateLimitMiddleware(30, 1)).Post("/analyze", r.wrap(r.handleAnalyze))
		rt.Get("/analyze", r.wrap(r.handleList))
		rt.Get("/analyze/{id}", r.wrap(r.handleGet))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			if errors.Is(err, errors.ErrNotFound) {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			if errors.Is(err, errors.ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// GET /
func (r *Router) handleRoot(w http.ResponseWriter, _ *http.Request) error {
	resp := map[string]any{
		"service":  r.meta.Service,
		"version":  r.meta.Version,
		"database": r.meta.Database,
		"agent":    r.meta.Agent,
		"endpoints": map[string]string{
			"analyze": "POST /api/v1/analyze",
			"status":  "GET /api/v1/analyze/{id}",
			"history": "GET /api/v1/analyze",
			"health":  "GET /health",
		},
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(resp)
}

// POST /api/v1/analyze
// Body: {"query": "<free-text product question>"}
// Responds immediately with the running record; the research workflow
// continues in the background.
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, "invalid request body")
	}
	if err := middleware.ValidateQuery(body.Query); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}

	rec, err := r.svc.Start(req.Context(), middleware.SanitizeString(body.Query))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(rec)
}

// GET /api/v1/analyze
func (r *Router) handleList(w http.ResponseWriter, req *http.Request) error {
	list, err := r.svc.List(req.Context())
	if err != nil {
		return err
	}
	if list == nil {
		list = []*domain.Analysis{}
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}

// GET /api/v1/analyze/{id}
// Serves the rendered HTML report once the analysis completed; before
// that a placeholder page that tells the client to poll again.
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	// A malformed id can never name a record, so it reads as not found
	// rather than a bad request.
	if err := middleware.ValidateAnalysisID(id); err != nil {
		return errors.Wrap(errors.ErrNotFound, err.Error())
	}

	rec, err := r.svc.Get(req.Context(), domain.AnalysisID(id))
	if err != nil {
		return err
	}

	switch {
	case rec.Status == domain.StatusCompleted && rec.Report != nil:
		return r.serveReport(w, req, *rec.Report)
	case rec.Status == domain.StatusFailed:
		return servePage(w, "Analysis Failed",
			fmt.Sprintf("<p>The analysis could not be completed.</p><p>%s</p>", html.EscapeString(deref(rec.Error))))
	case rec.Status == domain.StatusCompleted:
		return servePage(w, "Report Unavailable",
			"<p>The analysis completed but no report was produced.</p>")
	default:
		return servePage(w, "Analysis In Progress",
			fmt.Sprintf("<p>Your analysis is still running.</p><p>Check back shortly: GET /api/v1/analyze/%s</p>", html.EscapeString(id)))
	}
}

func (r *Router) serveReport(w http.ResponseWriter, req *http.Request, location string) error {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		http.Redirect(w, req, location, http.StatusFound)
		return nil
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeFile(w, req, location)
	return nil
}

func servePage(w http.ResponseWriter, title, body string) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := fmt.Fprintf(w,
		"<!DOCTYPE html><html><head><title>%s</title></head><body><h1>%s</h1>%s</body></html>",
		title, title, body)
	return err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
