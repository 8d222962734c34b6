package app

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/jrsteele09/reposcribe/internal/errors"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

// Serve runs the web shell on the configured listen address until ctx is done.
func (a *App) Serve(ctx context.Context) error {
	listener, err := net.Listen("tcp", a.Config.GetListenAddr())
	if err != nil {
		return errors.Wrapf(err, "[app Serve] listen")
	}
	return a.ServeListener(ctx, listener)
}

// ServeListener settles the stored session, then serves the web shell on l
// until ctx is done and shuts down gracefully. The session check is the
// startup gate: no page is served before it finishes.
func (a *App) ServeListener(ctx context.Context, l net.Listener) error {
	checkCtx, cancel := context.WithTimeout(ctx, a.Config.GetHTTPTimeout())
	if err := a.Sessions.CheckSession(checkCtx); err != nil {
		log.Warn().Err(err).Msg("stored session is no longer valid")
	}
	cancel()

	handler, err := a.Handler()
	if err != nil {
		_ = l.Close()
		return err
	}
	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		log.Info().Msgf("Server listening on %s", l.Addr())
		if err := server.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- errors.Wrapf(err, "server.Serve")
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return errors.Wrapf(err, "server.Shutdown")
	}
	return nil
}
