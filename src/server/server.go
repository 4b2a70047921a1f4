// Package server serves the built-in start page on a loopback port.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"
)

//go:embed assets
var assets embed.FS

type Server struct {
	server   *http.Server
	listener net.Listener
	logger   *slog.Logger
}

// Start listens on an ephemeral 127.0.0.1 port and serves in the background.
func Start(logger *slog.Logger) (*Server, error) {
	root, err := fs.Sub(assets, "assets")
	if err != nil {
		return nil, err
	}
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("start page listener: %w", err)
	}

	fileServer := http.FileServer(http.FS(root))
	s := &Server{
		listener: listener,
		logger:   logger,
		server: &http.Server{
			ReadHeaderTimeout: 5 * time.Second,
			Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				logger.Debug("start page request", "method", r.Method, "path", r.URL.Path)
				if r.Method != http.MethodGet && r.Method != http.MethodHead {
					w.WriteHeader(http.StatusMethodNotAllowed)
					return
				}
				w.Header().Set("Cache-Control", "no-store")
				fileServer.ServeHTTP(w, r)
			}),
		},
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("start page server stopped", "error", err)
		}
	}()
	return s, nil
}

// URL is the address of the start page, e.g. http://127.0.0.1:49152/.
func (s *Server) URL() string {
	return fmt.Sprintf("http://%s/", s.listener.Addr().String())
}

func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}
