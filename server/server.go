package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/SaiNageswarS/go-ajax-boot/ajax"
	"github.com/gorilla/mux"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ShutdownTimeout bounds graceful shutdown once Serve's context is done.
var ShutdownTimeout = 15 * time.Second

type BootServer struct {
	http   *http.Server
	lnHTTP net.Listener
	router *mux.Router
	log    *zap.Logger

	temporalWorker worker.Worker
	temporalClient client.Client
}

// Addr is the address the HTTP listener is bound to.
func (s *BootServer) Addr() net.Addr { return s.lnHTTP.Addr() }

// Handler returns the fully wired HTTP handler, CORS included.
func (s *BootServer) Handler() http.Handler { return s.http.Handler }

// URLResolver resolves the named routes of the built router.
func (s *BootServer) URLResolver() ajax.URLResolver { return NewURLResolver(s.router) }

// Serve runs the HTTP server and the temporal worker, if any, until ctx is
// done or one of them fails, then shuts both down.
func (s *BootServer) Serve(ctx context.Context) error {
	if s.temporalWorker != nil {
		if err := s.temporalWorker.Start(); err != nil {
			return err
		}
		s.log.Info("Started temporal worker")
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("Starting web server at", zap.String("addr", s.Addr().String()))
		if err := s.http.Serve(s.lnHTTP); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (s *BootServer) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down")
	err := s.http.Shutdown(ctx)

	if s.temporalWorker != nil {
		s.temporalWorker.Stop()
	}
	if s.temporalClient != nil {
		s.temporalClient.Close()
	}
	return err
}

// Close stops the server immediately, for callers that never called Serve.
func (s *BootServer) Close() error {
	err := s.http.Close()
	if lnErr := s.lnHTTP.Close(); err == nil && !errors.Is(lnErr, net.ErrClosed) {
		err = lnErr
	}
	if s.temporalClient != nil {
		s.temporalClient.Close()
	}
	return err
}
