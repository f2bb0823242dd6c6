package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agri-tools/fruit-atlas/pkg/services/config"
)

type ProfilesCmd struct {
	cfgPath string
}

func NewProfilesCmd() *cobra.Command {
	pc := &ProfilesCmd{}
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List configured institution profiles",
		RunE:  pc.run,
	}

	cmd.Flags().StringVar(&pc.cfgPath, "config", defaultConfigPath(), "Path to the .fruitatlascfg file")

	return cmd
}

func (pc *ProfilesCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	registry, err := config.NewRegistry(pc.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	profiles, err := registry.GetProfiles(ctx)
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}
	if len(profiles) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No profiles found in %s\n", pc.cfgPath)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Profiles in %s:\n%s\n",
		pc.cfgPath,
		strings.Join(profiles, "\n"))

	return nil
}
