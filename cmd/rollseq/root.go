package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rollseq/rollseq/config"
)

type app struct {
	configPath string
	logLevel   string
	cfg        *config.Config
	logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "rollseq",
		Short: "Inspect and convert rollseq songs",
		Long: `rollseq works with the song files of the rollseq piano roll editor.

Songs are YAML or JSON files; the format of an output file is chosen by its
extension (.json for JSON, anything else for YAML).

Configuration is read from config.yaml in the OS config directory:
  Linux:   ~/.config/rollseq/
  macOS:   ~/Library/Application Support/rollseq/
  Windows: %AppData%/rollseq/`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}
	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default is config.yaml in the config directory)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error (overrides the config)")
	cmd.AddCommand(
		a.newCmd(),
		a.infoCmd(),
		a.convertCmd(),
		a.projectCmd(),
		a.recordCmd(),
		a.versionCmd(),
	)
	return cmd
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	level, err := cfg.Level()
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.logger)
	return nil
}
