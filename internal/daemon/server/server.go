// Package server implements the daemon's command surface: a gRPC service
// reachable natively, through gRPC-Web from the UI, and a Prometheus
// /metrics endpoint, all on one local port.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/improbable-eng/grpc-web/go/grpcweb"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"google.golang.org/grpc"
)

// Host is the interface the daemon binds to.
const Host = "localhost"

// Server is the daemon's command server.
type Server struct {
	grpcServer *grpc.Server
	httpServer *http.Server
	listener   net.Listener
	port       int
}

// New creates a new server listening on the specified port.
// Pass port 0 for dynamic allocation.
func New(port int, deps Deps) (*Server, error) {
	listener, err := (&net.ListenConfig{}).Listen(context.TODO(), "tcp", net.JoinHostPort(Host, fmt.Sprint(port)))
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}

	// Get actual port if dynamically allocated
	actualPort := listener.Addr().(*net.TCPAddr).Port

	grpcServer := grpc.NewServer()
	srv := &Server{
		grpcServer: grpcServer,
		listener:   listener,
		port:       actualPort,
	}

	RegisterCommandsServer(grpcServer, &commandsService{
		deps:      deps,
		port:      srv.Port,
		startedAt: time.Now(),
	})

	srv.httpServer = &http.Server{
		Handler:           h2c.NewHandler(newHandler(grpcServer), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
	return srv, nil
}

// newHandler routes native gRPC, gRPC-Web and /metrics requests.
func newHandler(grpcServer *grpc.Server) http.Handler {
	web := grpcweb.WrapServer(grpcServer,
		grpcweb.WithOriginFunc(allowOrigin),
		grpcweb.WithCorsForRegisteredEndpointsOnly(true),
	)
	metrics := promhttp.Handler()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/metrics":
			metrics.ServeHTTP(w, r)
		case web.IsGrpcWebRequest(r) || web.IsAcceptableGrpcCorsRequest(r):
			web.ServeHTTP(w, r)
		case r.ProtoMajor == 2 && strings.HasPrefix(r.Header.Get("Content-Type"), "application/grpc"):
			grpcServer.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// allowOrigin accepts the UI's loopback and app-scheme origins only.
func allowOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	switch u.Scheme {
	case "tauri", "app":
		return true
	case "http", "https":
		host := u.Hostname()
		return host == "localhost" || host == "127.0.0.1" || host == "::1"
	}
	return false
}

// Port returns the port the server is listening on.
func (s *Server) Port() int {
	return s.port
}

// Serve starts serving requests. This blocks until Stop is called.
func (s *Server) Serve() error {
	log.Printf("[server] Serving on %s:%d", Host, s.port)
	if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop stops the server, waiting briefly for in-flight requests.
func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	// Streams like WatchWindows never finish on their own.
	s.grpcServer.Stop()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		_ = s.httpServer.Close()
	}
}
