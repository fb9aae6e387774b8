package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rozadaar/internal/adapters/httpapi"
	"rozadaar/internal/adapters/sqlite"
	"rozadaar/internal/config"
	"rozadaar/internal/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	portFlag := flag.String("port", config.Port(), "listen port")
	dbFlag := flag.String("db", config.ServerDBPath(), "path to the collections database")
	secretFlag := flag.String("secret", config.Secret(), "admin secret required for writes")
	flag.Parse()

	log := logger.NewStderrLogger("rozadaar-server")
	if err := run(log, *portFlag, *dbFlag, *secretFlag); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
}

func run(log logger.Logger, port, dbPath, secret string) error {
	store, err := sqlite.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if secret == "" {
		log.Warning("no admin secret configured, all writes will be rejected")
	}

	api := httpapi.New(store, secret, log).WithAnalytics(store)
	srv := &http.Server{
		Addr:              net.JoinHostPort("", port),
		Handler:           api.Handler(os.Stdout),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening on %s, data in %s", srv.Addr, store.Path())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
