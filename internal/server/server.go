// Package server serves a web build directory with cross-origin isolation enabled.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/f4ah6o/webserve-go/internal/config"
)

// Headers browsers require before exposing SharedArrayBuffer to the page.
const (
	OpenerPolicy   = "Cross-Origin-Opener-Policy"
	EmbedderPolicy = "Cross-Origin-Embedder-Policy"
)

// Isolate wraps h so that every response carries the cross-origin isolation
// headers, plus any extra headers, whatever its status.
func Isolate(h http.Handler, extra map[string]string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hdr := w.Header()
		for k, v := range extra {
			hdr.Set(k, v)
		}
		hdr.Set(OpenerPolicy, "same-origin")
		hdr.Set(EmbedderPolicy, "require-corp")
		h.ServeHTTP(w, r)
	})
}

// Server serves one build directory.
type Server struct {
	cfg  config.Config
	http *http.Server
}

// New returns a server for cfg. Paths are resolved against cfg.Root.
func New(cfg config.Config) *Server {
	fs := http.FileServer(http.Dir(cfg.Root))
	return &Server{
		cfg: cfg,
		http: &http.Server{
			Addr:     cfg.Addr(),
			Handler:  Isolate(fs, cfg.Headers),
			ErrorLog: log.New(io.Discard, "", 0),
		},
	}
}

// Handler returns the request handler used by the server.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Listen binds the configured port on all interfaces.
func (s *Server) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return nil, fmt.Errorf("cannot listen on %s: %w", s.http.Addr, err)
	}
	return ln, nil
}

// Serve accepts connections on ln until ctx is done. Connections still in
// flight at that point are closed rather than drained. The listener is
// closed when Serve returns.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer ln.Close()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := s.http.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		return s.http.Close()
	})
	return g.Wait()
}
