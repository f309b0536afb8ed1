package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/superlil27/Aviary/pkg/mission"
)

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <mission-file>",
		Short: "Validate a mission description",
		Long: `Validate a mission description without producing a plan.

This command checks:
  - description syntax and schema conformance
  - policy compliance (OPA/rego)
  - phase classification: reserve phases resolve to a known phase type
  - target conflicts: at most one of target_duration / target_distance
  - phase ordering: no regular phase after a reserve phase`,
		Example: `  # Validate a YAML mission description
  aviary validate mission.yaml

  # Validate a Starlark generator under enforcing policies
  aviary validate --policy-mode enforcing mission.star`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tel, err := newTelemetry(cmd.Root().Version, "")
			if err != nil {
				return err
			}
			defer func() { _ = tel.Shutdown(cmd.Context()) }()

			ctx := tel.WithContext(cmd.Context())

			cfg, err := loadMission(ctx, args[0])
			if err != nil {
				return err
			}

			if err := evaluatePolicies(ctx, tel, cfg, "validate"); err != nil {
				return err
			}

			seq, err := cfg.ToSequence()
			if err != nil {
				return err
			}

			// Preprocess logs each warning through the context logger.
			result, err := mission.Preprocess(ctx, seq)
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(map[string]interface{}{
					"mission":  cfg.Mission.Name,
					"valid":    true,
					"phases":   len(seq.Phases),
					"warnings": result.Warnings,
				})
			}

			fmt.Printf("mission %s is valid: %d phases, %d warning(s)\n",
				cfg.Mission.Name, len(seq.Phases), len(result.Warnings))
			return nil
		},
	}

	return cmd
}
