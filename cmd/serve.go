package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/gemdo/gemdo/internal/config"
	"github.com/gemdo/gemdo/internal/server"
)

// serveCommand runs the HTTP API consumed by the browser UI.
func serveCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("gemdo serve", flag.ContinueOnError)
	listen := fs.String("listen", cfg.Listen, "HTTP API listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if rest := fs.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected arguments: %v", rest)
	}

	a, err := buildApp(cfg)
	if err != nil {
		return err
	}

	srv := server.New(a.store, a.files,
		server.WithOrigins(cfg.AllowedOrigins),
		server.WithLoadWarning(a.warning),
		server.WithLogger(a.logger),
	)

	httpSrv := &http.Server{
		Addr:    *listen,
		Handler: srv.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.ListenAndServe()
	}()

	a.logger.Info("API server running", "addr", *listen, "tasks", cfg.TasksFile)
	if !a.client.Available() {
		a.logger.Warn("No Gemini API key found, AI suggestions are disabled")
	}

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	// Drain in-flight requests and pending categorizations before exit.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	a.store.Wait()
	return nil
}
