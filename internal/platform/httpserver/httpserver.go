// Package httpserver owns the HTTP server lifecycle: construction with
// project timeouts and graceful drain on shutdown.
package httpserver

import (
	"context"
	"net/http"
	"time"
)

// DrainTimeout bounds how long in-flight score reads and recalculations may
// run after a shutdown signal before the listener is torn down.
const DrainTimeout = 10 * time.Second

// New builds an HTTP server for the trust API. Read and write timeouts are
// generous enough for a synchronous recalculation, which fans out signal
// reads before answering.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// Drain gracefully shuts the server down, waiting up to DrainTimeout for
// in-flight requests to finish.
func Drain(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), DrainTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
