// Package web serves the four panel interface and its JSON api.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"voicedesk/session"
)

//go:embed static
var static embed.FS

// Assets keeps track of temporary audio files by name.
type Assets interface {
	Track(path string)
	Lookup(name string) (string, bool)
}

type Options struct {
	// max request body for uploads
	MaxUpload int64
	// requests per second, 0 disables limiting
	RateLimit float64
	RateBurst int
}

type Server struct {
	session *session.Session
	assets  Assets
	opts    Options
	router  chi.Router
}

func New(sess *session.Session, assets Assets, opts Options) *Server {
	s := &Server{
		session: sess,
		assets:  assets,
		opts:    opts,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(requestLogger{logger: logrus.StandardLogger()}))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	ui, _ := fs.Sub(static, "static")
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, ui, "index.html")
	})
	r.Get("/healthz", s.health)

	r.Route("/api", func(api chi.Router) {
		if s.opts.RateLimit > 0 {
			api.Use(limit(rate.NewLimiter(rate.Limit(s.opts.RateLimit), max(s.opts.RateBurst, 1))))
		}
		api.Get("/languages", s.languages)
		api.Get("/voice", s.activeVoice)
		api.Post("/speak", s.speak)
		api.Post("/transcribe", s.transcribe)
		api.Post("/roundtrip", s.roundTrip)
		api.Post("/clone", s.clone)
		api.Post("/reset", s.reset)
	})

	r.Get("/assets/{kind}/{name}", s.asset)
	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			logrus.WithError(err).Warnln("failed to shut down interface server")
		}
	}()

	logrus.WithField("addr", addr).Infoln("interface server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve interface; %w", err)
	}
	return nil
}

func limit(l *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow() {
				writeJSON(w, http.StatusTooManyRequests, response{
					Status: "⚠️ Too many requests, please wait a moment.",
					Kind:   "rate_limited",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
