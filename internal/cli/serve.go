package cli

import (
	"context"
	"errors"
	"net/http"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/damon-houk/nbk-rate-viewer/internal/infrastructure/handler"
)

const shutdownTimeout = 5 * time.Second

func serveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	router := handler.NewRouter(
		handler.NewRatesHandler(a.rates, a.cfg.Feed.MaxPeriod, a.log),
		handler.NewConversionHandler(a.conversion, a.rates.OverviewCurrencies(), a.log),
		a.log,
	)

	srv := &http.Server{
		Addr:         ":" + a.cfg.HTTPServer.Port,
		Handler:      router,
		ReadTimeout:  a.cfg.HTTPServer.Timeout,
		WriteTimeout: a.cfg.HTTPServer.Timeout,
		IdleTimeout:  a.cfg.HTTPServer.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	a.log.Info("Server started", map[string]interface{}{
		"addr":       srv.Addr,
		"go_version": runtime.Version(),
	})

	select {
	case err := <-errCh:
		a.log.Error("Server failed", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	case <-ctx.Done():
	}

	a.log.Info("Stopping server", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("Failed to stop server", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}

	a.log.Info("Server stopped", nil)
	return nil
}
