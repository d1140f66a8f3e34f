package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ha1tch/fsm-canvas/internal/server"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the automata backend",
		Long:  `Starts the reference backend, keeping automata in memory and exposing Prometheus metrics on /metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listen == "" {
				listen = a.cfg.Listen
			}
			srv := &http.Server{
				Addr:              listen,
				Handler:           server.New(server.WithLogger(a.log)),
				ReadHeaderTimeout: 10 * time.Second,
			}

			serverErrors := make(chan error, 1)
			go func() {
				a.log.Info("backend listening", "addr", srv.Addr)
				serverErrors <- srv.ListenAndServe()
			}()

			shutdown := make(chan os.Signal, 1)
			signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(shutdown)

			select {
			case err := <-serverErrors:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case sig := <-shutdown:
				a.log.Info("shutting down", "signal", sig.String())
				ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := srv.Shutdown(ctx); err != nil {
					a.log.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
					return srv.Close()
				}
				a.log.Info("backend stopped")
				return nil
			}
		},
	}
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "Address to listen on (default from config)")
	return cmd
}
