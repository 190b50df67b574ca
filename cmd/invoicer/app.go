package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/diewo77/invoicer/i18n"
	"github.com/diewo77/invoicer/internal/handlers"
	"github.com/diewo77/invoicer/internal/logger"
	"github.com/diewo77/invoicer/internal/services"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux         *http.ServeMux
	svc         *services.InvoiceService
	log         zerolog.Logger
	defaultLang string
}

// NewApp creates a new application with all routes configured.
func NewApp(svc *services.InvoiceService, log zerolog.Logger, defaultLang string) *App {
	app := &App{
		mux:         http.NewServeMux(),
		svc:         svc,
		log:         log,
		defaultLang: defaultLang,
	}
	app.setupRoutes()
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	withLogging(a.log, a.withPreferences(a.mux)).ServeHTTP(w, r)
}

func (a *App) setupRoutes() {
	ih := handlers.NewInvoiceHandler(a.svc, a.log)

	a.mux.HandleFunc("GET /invoices", ih.List)
	a.mux.HandleFunc("POST /invoices", ih.Create)
	a.mux.HandleFunc("POST /invoices/preview", ih.Preview)
	a.mux.HandleFunc("GET /invoices/{number}", ih.View)
	a.mux.HandleFunc("GET /invoices/{number}/pdf", ih.PDF)
	a.mux.HandleFunc("POST /invoices/{number}/delete", ih.Delete)
	a.mux.HandleFunc("GET /export.xlsx", ih.Export)

	a.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

// withPreferences picks the response language from the lang query parameter,
// the lang cookie or Accept-Language, in that order.
func (a *App) withPreferences(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := a.defaultLang
		if accept := r.Header.Get("Accept-Language"); accept != "" {
			lang = i18n.DetectLanguage(accept)
		}
		if c, err := r.Cookie("lang"); err == nil && c.Value != "" {
			lang = c.Value
		}
		if q := r.URL.Query().Get("lang"); q != "" {
			lang = q
			http.SetCookie(w, &http.Cookie{
				Name:     "lang",
				Value:    lang,
				Path:     "/",
				MaxAge:   86400 * 365,
				HttpOnly: true,
			})
		}
		next.ServeHTTP(w, r.WithContext(i18n.WithLang(r.Context(), lang)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// withLogging adds request logging middleware.
func withLogging(log zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the invoice JSON API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return c.serve(ctx)
		},
	}
}

// serve runs the HTTP server until ctx is cancelled, then shuts down gracefully.
func (c *cli) serve(ctx context.Context) error {
	log := logger.WithComponent("http")
	cfg := c.cfg.Server

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      NewApp(c.svc, log, c.lang),
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Bool("dev", c.cfg.App.Dev).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info().Msg("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("Server stopped gracefully")
	return nil
}
