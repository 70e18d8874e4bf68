// Package server runs the TaskFlow HTTP API over one session and flushes
// that session when the listener goes away.
package server

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/taskflow/taskflow/internal/api"
	"github.com/taskflow/taskflow/internal/service"
)

const (
	// DefaultAddress is used when New is given an empty address.
	DefaultAddress = "localhost:7433"
	// DefaultShutdownTimeout bounds how long in-flight requests may run
	// after a signal.
	DefaultShutdownTimeout = 30 * time.Second
)

// Server serves a session's task store over HTTP.
type Server struct {
	http    *http.Server
	session *service.Session
	logger  *log.Logger

	mu sync.Mutex
	ln net.Listener
}

// New builds a server for session on addr. A nil logger writes to stdout.
func New(addr string, session *service.Session, logger *log.Logger) *Server {
	if addr == "" {
		addr = DefaultAddress
	}
	if logger == nil {
		logger = log.New(os.Stdout, "[taskflow] ", log.LstdFlags)
	}

	return &Server{
		http: &http.Server{
			Addr:         addr,
			Handler:      api.NewRouter(session.Store(), logger),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		session: session,
		logger:  logger,
	}
}

// Start binds the address and serves until Shutdown, returning
// http.ErrServerClosed in that case. Calling Start on a running server
// does nothing.
func (s *Server) Start() error {
	ln, err := s.bind()
	if ln == nil {
		return err
	}

	s.logger.Printf("API listening on %s", ln.Addr())
	return s.http.Serve(ln)
}

// bind returns the new listener, or nil if the server was already bound.
func (s *Server) bind() (net.Listener, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ln != nil {
		return nil, nil
	}
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return nil, err
	}
	s.ln = ln
	return ln, nil
}

// Shutdown drains requests, then closes the session, which writes any
// debounced save still pending. A server that never started is left alone.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.Addr() == "" {
		return nil
	}

	s.logger.Println("Draining requests")
	if err := s.http.Shutdown(ctx); err != nil {
		return err
	}

	if err := s.session.Close(); err != nil {
		s.logger.Printf("Tasks may not be saved: %v", err)
	}
	s.logger.Println("Stopped")
	return nil
}

// Addr is the bound address, with the real port when listening on :0.
// It is empty until Start has bound.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// ListenAndServe runs Start until SIGINT or SIGTERM, then shuts down.
func (s *Server) ListenAndServe() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	served := make(chan error, 1)
	go func() { served <- s.Start() }()

	select {
	case err := <-served:
		return err
	case <-ctx.Done():
		stop()
		s.logger.Println("Signal received, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-served; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return http.ErrServerClosed
}
