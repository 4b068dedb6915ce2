// Package check implements the check command, which validates backport
// labels regardless of the CHECK_BACKPORT_LABELS setting.
package check

import (
	"context"
	"fmt"

	"github.com/alan/backport-check/cmd"
	"github.com/alan/backport-check/internal/config"
	"github.com/spf13/cobra"
)

// NewCheckCmd creates and returns the check command
func NewCheckCmd(globalConfigFile *string, loadSettings func(string) (*config.Settings, error), assemble cmd.AssembleFunc) *cobra.Command {
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the PR's backport labels",
		Long: `Validate that the triggering pull request carries exactly one backport
disposition: one or more backport labels, or the no-backport label alone.
The check runs even when CHECK_BACKPORT_LABELS is unset; milestone
assignment is not performed.`,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			return executeCheck(cobraCmd.Context(), *globalConfigFile, loadSettings, assemble)
		},
	}

	return checkCmd
}

func executeCheck(ctx context.Context, configFile string, loadSettings func(string) (*config.Settings, error), assemble cmd.AssembleFunc) error {
	settings, err := loadSettings(configFile)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	settings = settings.WithCheck()

	rt, err := assemble(ctx, settings)
	if err != nil {
		return err
	}

	return rt.PR.Check(settings, rt.Action)
}
