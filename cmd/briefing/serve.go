package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/YunseobShin/wall-street/internal/api"
	"github.com/YunseobShin/wall-street/internal/kafka"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local HTTP API (and the Kafka briefing consumer when enabled)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func runServer() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if a.cfg.Kafka.Enabled {
		consumer := kafka.NewConsumer(a.cfg.Kafka.Brokers, a.cfg.Kafka.BriefingTopic, a.cfg.Kafka.GroupID, a.store)
		go func() {
			if err := consumer.Start(ctx); err != nil {
				log.Printf("Kafka consumer stopped: %v", err)
			}
		}()
	}

	handler := api.NewHandler(a.feed, a.manager, a.store, a.tracker, a.subscriptions, a.cfg.Trending.Limit)
	addr := a.cfg.Server.Addr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.SetupRoutes(handler),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	// Start server in a goroutine.
	errCh := make(chan error, 1)
	go func() {
		printStep("listening on %s (storage: %s, key %s)", addr, a.cfg.Storage.Backend, a.store.Key())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for signal or server error.
	select {
	case <-ctx.Done():
		fmt.Fprintln(os.Stderr, "shutting down...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	// Graceful shutdown with timeout.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
