// Package run implements the run command, the full policy pass executed once
// per pull-request event.
package run

import (
	"context"
	"fmt"

	"github.com/alan/backport-check/cmd"
	"github.com/alan/backport-check/internal/config"
	"github.com/spf13/cobra"
)

// NewRunCmd creates and returns the run command
func NewRunCmd(globalConfigFile *string, loadSettings func(string) (*config.Settings, error), assemble cmd.AssembleFunc) *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the backport label check and milestone assignment",
		Long: `Run the full policy pass for the triggering pull-request event:
validate the PR's backport labels, then assign the lowest open milestone
consistent with them. Each step is gated by its own setting
(CHECK_BACKPORT_LABELS, SET_MILESTONE) and is skipped when disabled.`,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			return executeRun(cobraCmd.Context(), *globalConfigFile, loadSettings, assemble)
		},
	}

	return runCmd
}

func executeRun(ctx context.Context, configFile string, loadSettings func(string) (*config.Settings, error), assemble cmd.AssembleFunc) error {
	settings, err := loadSettings(configFile)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	rt, err := assemble(ctx, settings)
	if err != nil {
		return err
	}

	if err := rt.PR.Check(settings, rt.Action); err != nil {
		return err
	}

	return rt.PR.SetMilestone(ctx, rt.Repo, settings, rt.Action)
}
