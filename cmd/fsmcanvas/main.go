// Command fsmcanvas is a terminal canvas editor for finite automata.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/ha1tch/fsm-canvas/internal/config"
	"github.com/ha1tch/fsm-canvas/internal/logging"
	"github.com/ha1tch/fsm-canvas/pkg/client"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath, backendURL, logFile string
	cmd := &cobra.Command{
		Use:           "fsmcanvas [id]",
		Short:         "Draw finite automata in the terminal",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if backendURL != "" {
				cfg.BackendURL = backendURL
			}

			log := logging.NewNop()
			if logFile != "" {
				level, err := logging.ParseLevel(cfg.LogLevel)
				if err != nil {
					return err
				}
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
				if err != nil {
					return fmt.Errorf("failed to open log file: %w", err)
				}
				defer f.Close()
				log = logging.NewWriter(f, level)
			}

			st, err := cfg.Store.OpenStore()
			if err != nil {
				return err
			}
			if c, ok := st.(io.Closer); ok {
				defer c.Close()
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("failed to create screen: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("failed to initialize screen: %w", err)
			}
			defer screen.Fini()
			screen.EnableMouse()
			screen.Clear()

			backend := client.New(cfg.BackendURL, client.WithLogger(log))
			ui := newUI(screen, backend, st, cfg, log)
			ui.configPath = configPath
			if len(args) == 1 {
				ui.withID(ui.open)(args[0])
			}
			log.Info("editor started", "backend", cfg.BackendURL, "store", cfg.Store.Type)
			ui.run()
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", config.ConfigPath(), "Config file")
	cmd.Flags().StringVar(&backendURL, "backend", "", "Backend base URL (overrides the config file)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file")
	return cmd
}
