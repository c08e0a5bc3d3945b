// Package httpapi exposes the auth and data services over a small JSON
// HTTP API. It owns request parsing, the session cookie, and mapping
// service errors to status codes; all business rules live in services.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/avetrov/securenote/internal/logging"
	"github.com/avetrov/securenote/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	addr    string
	logger  logging.Logger
	srv     *http.Server
	handler *Handler
}

func NewServer(addr string, logger logging.Logger, auth *services.AuthService, data *services.DataService) *Server {
	h := NewHandler(logger, auth, data)

	s := &Server{addr: addr, logger: logger, handler: h}
	s.srv = &http.Server{
		Addr:         addr,
		Handler:      s.router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) router() http.Handler {
	mux := chi.NewRouter()
	mux.Use(middleware.RealIP)
	mux.Use(middleware.Recoverer)

	mux.Get("/healthz", s.handler.handleHealth)
	mux.Post("/api/register", s.handler.handleRegister)
	mux.Post("/api/login", s.handler.handleLogin)
	mux.Post("/api/logout", s.handler.handleLogout)

	mux.Group(func(r chi.Router) {
		r.Use(s.handler.requireSession)
		r.Get("/api/data", s.handler.handleLoadData)
		r.Post("/api/data", s.handler.handleSaveData)
	})

	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info(ctx, "http server listening", "addr", s.addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.logger.Info(shutdownCtx, "shutting down http server")
	return s.srv.Shutdown(shutdownCtx)
}
