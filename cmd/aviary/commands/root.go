package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose    bool
	jsonOutput bool
	statePath  string
	policyDirs []string
	policyMode string
)

// Execute runs the root command.
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "aviary",
		Short: "Aviary - Mission Preprocessing for Trajectory Optimization",
		Long: `Aviary prepares aircraft mission descriptions for trajectory optimization.

It classifies phases into the regular mission and post-mission reserves,
resolves duration and distance targets into solver constraints, links
adjacent phases with continuity directives, and accounts reserve fuel
after the solve.

Mission descriptions are YAML files or Starlark generator scripts; runs can
be recorded in a local SQLite database for later inspection.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().StringVar(&statePath, "state", "", "path to the run database (enables run recording)")
	rootCmd.PersistentFlags().StringArrayVar(&policyDirs, "policy-dir", nil, "additional policy pack directories")
	rootCmd.PersistentFlags().StringVar(&policyMode, "policy-mode", "advisory", "policy mode: advisory or enforcing")

	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newPlanCommand())
	rootCmd.AddCommand(newFuelCommand())
	rootCmd.AddCommand(newRunsCommand())
	rootCmd.AddCommand(newPoliciesCommand())
	rootCmd.AddCommand(newWatchCommand())

	return rootCmd
}
