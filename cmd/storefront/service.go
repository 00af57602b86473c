package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"storefront/pkg/infrastructure/transport"
)

func serviceCommand() *cli.Command {
	return &cli.Command{
		Name:   "service",
		Usage:  "run the HTTP API",
		Action: executeService,
	}
}

func executeService(c *cli.Context) error {
	log.SetFormatter(&log.JSONFormatter{})

	cfg, err := parseEnv()
	if err != nil {
		return err
	}
	if cfg.SessionSecret == "" {
		return errors.New("STOREFRONT_SESSION_SECRET is required")
	}

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()
	go func() {
		waitForKillSignal(getKillSignalChan())
		cancel()
	}()

	deps, err := newDependencies(ctx, cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	router := transport.Router(deps.services(), transport.Options{
		Sessions:       transport.NewCookieStore(cfg.SessionSecret, cfg.SecureCookies),
		SessionName:    cfg.SessionName,
		AllowedOrigins: cfg.CORSOrigins,
		Metrics:        transport.NewMetrics(),
	})
	srv := &http.Server{
		Addr:              cfg.ServeRESTAddress,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithFields(log.Fields{"url": cfg.ServeRESTAddress}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "serve http")
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return errors.Wrap(srv.Shutdown(shutdownCtx), "shutdown http server")
	})

	return g.Wait()
}

func getKillSignalChan() chan os.Signal {
	osKillSignalChan := make(chan os.Signal, 1)
	signal.Notify(osKillSignalChan, os.Interrupt, syscall.SIGTERM)
	return osKillSignalChan
}

func waitForKillSignal(killSignalChan <-chan os.Signal) {
	killSignal := <-killSignalChan
	switch killSignal {
	case os.Interrupt:
		log.Info("Got SIGINT...")
	case syscall.SIGTERM:
		log.Info("Got SIGTERM...")
	}
}
