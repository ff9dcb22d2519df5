package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/modfsm"
	"github.com/aretw0/modfsm/internal/cli"
	"github.com/aretw0/modfsm/internal/config"
	"github.com/aretw0/modfsm/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "modfsm",
	Short:         "modfsm computes remainders of binary numbers with a finite automaton",
	Long:          `modfsm builds the residue automaton for a modulus and feeds it binary digits, so inputs of any length can be reduced without big-integer arithmetic.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); overrides the config file")
}

// loadConfig reads --config and applies --log-level on top.
func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logging.New(level), nil
}

// newEngine builds the engine for a command. reg may be nil.
func newEngine(cmd *cobra.Command, reg prometheus.Registerer) (*modfsm.Engine, config.Config, *slog.Logger, cli.CloseFunc, error) {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return nil, cfg, nil, nil, err
	}
	eng, closeFn, err := cli.NewEngine(cfg, logger, reg)
	if err != nil {
		return nil, cfg, nil, nil, err
	}
	return eng, cfg, logger, closeFn, nil
}
