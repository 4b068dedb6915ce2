// package main is the entry point for the backport policy checker
package main

import (
	"log/slog"
	"os"

	"github.com/alan/backport-check/cmd"
	checkcmd "github.com/alan/backport-check/cmd/check"
	milestonecmd "github.com/alan/backport-check/cmd/milestone"
	runcmd "github.com/alan/backport-check/cmd/run"
	"github.com/alan/backport-check/internal/config"
	"github.com/spf13/cobra"
)

func main() {
	var configFile string
	var logLevel string
	var logFormat string

	rootCmd := &cobra.Command{
		Use:   "backport-check",
		Short: "A CI gate that validates backport labels and assigns milestones",
		Long: `backport-check runs once per pull-request event. It verifies the PR
carries exactly one backport disposition (backport labels, or the
no-backport label alone) and assigns the PR to the lowest open milestone
consistent with its labels.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			setupLogger(logLevel, logFormat)
		},
	}

	// Add global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Optional policy file path (environment variables take precedence)")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&logFormat, "log-format", "f", "text", "Log format (text, json)")

	// Create commands with access to the global config file
	rootCmd.AddCommand(runcmd.NewRunCmd(&configFile, config.Load, cmd.Assemble))
	rootCmd.AddCommand(checkcmd.NewCheckCmd(&configFile, config.Load, cmd.Assemble))
	rootCmd.AddCommand(milestonecmd.NewMilestoneCmd(&configFile, config.Load, cmd.Assemble))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogger(level, format string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	}

	slog.SetDefault(slog.New(handler))
}
