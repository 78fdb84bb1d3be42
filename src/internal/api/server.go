package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/maksimkurb/tracegate/src/internal/log"
)

// Server runs the admin API.
type Server struct {
	httpServer *http.Server
}

// NewServer creates a server listening on bindAddr.
func NewServer(bindAddr string, h *Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         bindAddr,
			Handler:      NewRouter(h),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Serve accepts connections on l until Shutdown. A clean shutdown returns nil.
func (s *Server) Serve(l net.Listener) error {
	log.Infof("[API] Listening on %s", l.Addr())
	log.Infof("[API] Example: curl http://%s/api/v1/verbosity", l.Addr())

	if err := s.httpServer.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Start listens on the configured address and serves until Shutdown.
func (s *Server) Start() error {
	l, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(l)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Infof("[API] Shutting down server...")
	return s.httpServer.Shutdown(ctx)
}
