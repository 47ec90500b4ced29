package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	pagemarkhttp "github.com/pagemark/pagemark/http"
)

const shutdownGrace = 10 * time.Second

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	metrics := deps.Metrics
	if metrics == nil {
		metrics = pagemarkhttp.NewMetrics(prometheus.DefaultRegisterer)
	}

	srv := pagemarkhttp.NewServer(deps.Pipe, deps.Chat, deps.Items, deps.Logger, metrics)

	ctx, stop := signal.NotifyContext(deps.Ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Start(c.Addr)
	}()

	deps.Logger.Info("listening", "addr", c.Addr)
	fmt.Fprintf(deps.Stdout, "pagemark listening on %s\n", c.Addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	deps.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errc
}
