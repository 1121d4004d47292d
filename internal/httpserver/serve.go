package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/andrebq/abacus/internal/logutil"
)

// Serve listens on bind until ctx is cancelled, then shuts the server down
// giving in-flight requests up to ShutdownTimeout to complete.
func Serve(ctx context.Context, bind string, handler http.Handler) error {
	lst, err := net.Listen("tcp", bind)
	if err != nil {
		return err
	}
	return ServeListener(ctx, lst, handler)
}

const (
	ShutdownTimeout = time.Second * 30
)

// ServeListener is like Serve but takes ownership of an already open listener.
func ServeListener(ctx context.Context, lst net.Listener, handler http.Handler) error {
	server := http.Server{
		Handler:           handler,
		Addr:              lst.Addr().String(),
		ReadTimeout:       time.Second * 30,
		WriteTimeout:      time.Second * 30,
		ReadHeaderTimeout: time.Second * 10,
		IdleTimeout:       time.Minute * 2,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}
	err := make(chan error, 1)
	done := make(chan struct{})
	go serveInBackground(ctx, &server, lst, err, done)
	<-done
	return <-err
}

func serveInBackground(ctx context.Context, server *http.Server, lst net.Listener, firstErr chan<- error, done chan<- struct{}) {
	log := logutil.GetOrDefault(ctx).With().Str("server.addr", server.Addr).Logger()
	defer close(done)
	serverCtx, cancel := context.WithCancel(ctx)
	go func() {
		defer cancel()
		defer close(firstErr)
		log.Info().Msg("Starting HTTP server")
		err := server.Serve(lst)
		if errors.Is(err, http.ErrServerClosed) {
			log.Info().Msg("Server closed")
			return
		} else if err != nil {
			select {
			case firstErr <- err:
			default:
			}
			return
		}
	}()
	select {
	case <-serverCtx.Done():
	case <-ctx.Done():
		log.Info().Msg("Initiating shutdown process")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancelShutdown()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Shutdown did not complete cleanly")
			return
		}
		log.Info().Msg("Shutdown completed")
	}
}
