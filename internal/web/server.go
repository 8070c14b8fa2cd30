package web

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"summify/internal/domain"
	"summify/internal/metrics"
	"summify/internal/ratelimiter"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	maxFormBytes = 64 << 10

	contentSecurityPolicy = "default-src 'self'; style-src 'self' 'unsafe-inline'; form-action 'self'; frame-ancestors 'none'"
)

//go:embed templates/*.html
var templatesFS embed.FS

type Runner interface {
	Run(ctx context.Context, session domain.Session) domain.Session
}

type Server struct {
	runner  Runner
	limiter *ratelimiter.RateLimiter
	tmpl    *template.Template
	log     *slog.Logger
}

func New(runner Runner, limiter *ratelimiter.RateLimiter, log *slog.Logger) (*Server, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	return &Server{
		runner:  runner,
		limiter: limiter,
		tmpl:    tmpl,
		log:     log,
	}, nil
}

// Handler returns the routed handler wrapped in the common middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /summarize", s.handleSummarize)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s.withLogging(withSecurityHeaders(mux))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(r.Context(), w, http.StatusOK, domain.Session{})
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		s.log.WarnContext(ctx, "Failed to parse form",
			"error", err,
			"remoteAddr", r.RemoteAddr)

		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	session := domain.Session{
		URL:        r.PostFormValue("url"),
		Credential: r.PostFormValue("credential"),
	}

	if s.limiter != nil && !s.limiter.Allow(clientKey(r)) {
		metrics.RateLimitedTotal.Inc()
		s.log.WarnContext(ctx, "Summarize request is rate limited",
			"client", clientKey(r))

		session.Result = &domain.Result{
			Err: domain.NewError(domain.KindRateLimited, rateLimitedMessage, nil),
		}
		s.render(ctx, w, statusFor(session), session)
		return
	}

	session = s.runner.Run(ctx, session)
	s.render(ctx, w, statusFor(session), session)
}

func (s *Server) render(ctx context.Context, w http.ResponseWriter, status int, session domain.Session) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "index.html", newPageView(session)); err != nil {
		s.log.ErrorContext(ctx, "Failed to render page",
			"error", err,
			"status", status)

		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)

	if _, err := buf.WriteTo(w); err != nil {
		s.log.ErrorContext(ctx, "Failed to write page",
			"error", err,
			"status", status)
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
