// Package milestone implements the milestone command, which assigns the
// calculated milestone regardless of the SET_MILESTONE setting.
package milestone

import (
	"context"
	"fmt"

	"github.com/alan/backport-check/cmd"
	"github.com/alan/backport-check/internal/config"
	"github.com/spf13/cobra"
)

// NewMilestoneCmd creates and returns the milestone command
func NewMilestoneCmd(globalConfigFile *string, loadSettings func(string) (*config.Settings, error), assemble cmd.AssembleFunc) *cobra.Command {
	milestoneCmd := &cobra.Command{
		Use:   "milestone",
		Short: "Assign the PR's milestone from its backport labels",
		Long: `Assign the triggering pull request to the lowest open milestone
consistent with its backport labels. Assignment runs even when
SET_MILESTONE is unset; SET_MILESTONE=overwrite still controls whether an
already-set milestone may be replaced. The label check is not performed.`,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			return executeMilestone(cobraCmd.Context(), *globalConfigFile, loadSettings, assemble)
		},
	}

	return milestoneCmd
}

func executeMilestone(ctx context.Context, configFile string, loadSettings func(string) (*config.Settings, error), assemble cmd.AssembleFunc) error {
	settings, err := loadSettings(configFile)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	settings = settings.WithMilestone()

	rt, err := assemble(ctx, settings)
	if err != nil {
		return err
	}

	return rt.PR.SetMilestone(ctx, rt.Repo, settings, rt.Action)
}
