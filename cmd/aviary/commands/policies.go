package commands

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/superlil27/Aviary/pkg/policy"
)

func newPoliciesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policies",
		Short: "List the loaded mission policies",
		Long: `List built-in policies plus any loaded from --policy-dir packs,
with their severity and enabled state.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			engine, err := policy.NewEngine(log.Logger, policy.Mode(policyMode))
			if err != nil {
				return err
			}
			if len(policyDirs) > 0 {
				if err := engine.LoadPolicies(ctx, policyDirs); err != nil {
					return err
				}
			}

			policies := engine.ListPolicies()
			sort.Slice(policies, func(i, j int) bool { return policies[i].Name < policies[j].Name })

			if jsonOutput {
				return printJSON(policies)
			}

			for _, p := range policies {
				state := "enabled"
				if !p.Enabled {
					state = "disabled"
				}
				fmt.Printf("%-24s %-8s %-8s %s\n", p.Name, p.Severity, state, p.Description)
			}
			return nil
		},
	}

	return cmd
}
