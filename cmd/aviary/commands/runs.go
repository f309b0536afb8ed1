package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRunsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded preprocessing runs",
		Long:  `List, show, and delete preprocessing runs recorded with --state.`,
	}

	cmd.AddCommand(newRunsListCommand())
	cmd.AddCommand(newRunsShowCommand())
	cmd.AddCommand(newRunsDeleteCommand())

	return cmd
}

func newRunsListCommand() *cobra.Command {
	var (
		limit  int
		offset int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if statePath == "" {
				return fmt.Errorf("runs commands require --state")
			}

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			runs, err := store.ListRuns(ctx, limit, offset)
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(runs)
			}

			if len(runs) == 0 {
				fmt.Println("no recorded runs")
				return nil
			}
			for _, run := range runs {
				fmt.Printf("%s  %-10s %-30s %s  %s\n",
					run.ID, run.Status, run.Mission, run.EOM,
					run.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to list")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of runs to skip")

	return cmd
}

func newRunsShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one recorded run with its phases and directives",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if statePath == "" {
				return fmt.Errorf("runs commands require --state")
			}

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			run, err := store.GetRun(ctx, args[0])
			if err != nil {
				return err
			}
			phases, err := store.ListPhasesByRun(ctx, run.ID)
			if err != nil {
				return err
			}
			directives, err := store.ListDirectivesByRun(ctx, run.ID)
			if err != nil {
				return err
			}

			summary, err := store.GetFuelSummary(ctx, run.ID)
			if err != nil {
				summary = nil // fuel accounting not attached yet
			}

			if jsonOutput {
				return printJSON(map[string]interface{}{
					"run":          run,
					"phases":       phases,
					"directives":   directives,
					"fuel_summary": summary,
				})
			}

			fmt.Printf("run %s: %s (%s) %s\n", run.ID, run.Mission, run.EOM, run.Status)
			if run.Error != nil {
				fmt.Printf("error: %s\n", *run.Error)
			}

			if len(phases) > 0 {
				fmt.Println("\nphases:")
				for _, p := range phases {
					tag := "ode"
					if p.Analytic {
						tag = "analytic"
					}
					fmt.Printf("  %-20s %-8s %s\n", p.Name, p.Group, tag)
				}
			}
			if len(directives) > 0 {
				fmt.Println("\ndirectives:")
				for _, d := range directives {
					fmt.Printf("  %s -> %s: %s\n", d.FromPhase, d.ToPhase, d.Kind)
				}
			}
			if summary != nil {
				fmt.Printf("\nfuel summary: burned=%g reserve_burned=%g reserve=%g\n",
					summary.FuelBurned, summary.ReserveFuelBurned, summary.ReserveFuel)
			}
			return nil
		},
	}

	return cmd
}

func newRunsDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <run-id>",
		Short: "Delete a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if statePath == "" {
				return fmt.Errorf("runs commands require --state")
			}

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteRun(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("run %s deleted\n", args[0])
			return nil
		},
	}

	return cmd
}
