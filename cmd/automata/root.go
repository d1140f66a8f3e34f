package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ha1tch/fsm-canvas/internal/config"
	"github.com/ha1tch/fsm-canvas/internal/logging"
	"github.com/ha1tch/fsm-canvas/pkg/client"
)

// app carries the state resolved before any subcommand runs.
type app struct {
	configPath string
	backendURL string
	logLevel   string

	cfg config.Config
	log *slog.Logger
}

func (a *app) client() *client.Client {
	return client.New(a.cfg.BackendURL, client.WithLogger(a.log))
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "automata",
		Short:         "Finite automata backend and toolbox",
		Long:          `automata serves the automata backend, renders automaton documents to SVG, PNG or DOT, and calls the backend operations.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			if a.backendURL != "" {
				cfg.BackendURL = a.backendURL
			}
			if a.logLevel != "" {
				cfg.LogLevel = a.logLevel
			}
			level, err := logging.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = logging.NewWriter(cmd.ErrOrStderr(), level)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", config.ConfigPath(), "Config file")
	root.PersistentFlags().StringVar(&a.backendURL, "backend", "", "Backend base URL (overrides the config file)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	root.AddCommand(
		newServeCmd(a),
		newRenderCmd(a),
		newInfoCmd(a),
		newRunCmd(a),
	)
	root.AddCommand(newRemoteCmds(a)...)
	return root
}
