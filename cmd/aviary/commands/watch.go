package commands

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newWatchCommand() *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "watch <mission-file>",
		Short: "Re-plan a mission whenever its description changes",
		Long: `Watch a mission description file and rerun the preprocessing pipeline
on every change. Useful while authoring a mission: classification errors,
target conflicts, and linking changes surface as soon as the file is saved.

With --metrics a Prometheus endpoint reports preprocessing outcomes.`,
		Example: `  # Watch a description and re-plan on save
  aviary watch mission.yaml

  # Watch with run recording and a metrics endpoint
  aviary watch --state runs.db --metrics :9090 mission.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			missionPath := args[0]

			tel, err := newTelemetry(cmd.Root().Version, metricsAddr)
			if err != nil {
				return err
			}
			if metricsAddr != "" {
				if err := tel.Metrics.StartServer(); err != nil {
					return err
				}
				log.Info().Str("addr", metricsAddr).Msg("metrics endpoint started")
			}
			ctx := tel.WithContext(cmd.Context())
			defer func() { _ = tel.Shutdown(cmd.Context()) }()

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return err
			}
			defer func() { _ = watcher.Close() }()

			// Editors often replace the file instead of writing in place, so
			// watch the directory and filter by name.
			dir := filepath.Dir(missionPath)
			if err := watcher.Add(dir); err != nil {
				return err
			}

			replan := func() {
				cfg, err := loadMission(ctx, missionPath)
				if err != nil {
					log.Error().Err(err).Msg("mission description invalid")
					return
				}
				if err := evaluatePolicies(ctx, tel, cfg, "plan"); err != nil {
					log.Error().Err(err).Msg("policy evaluation failed")
					return
				}
				runID, result, err := runPlan(ctx, tel, cfg)
				if err != nil {
					log.Error().Err(err).Msg("preprocessing failed")
					return
				}
				if err := printPlan(cfg, runID, result); err != nil {
					log.Error().Err(err).Msg("failed to print plan")
				}
			}

			// Initial plan before the first change.
			replan()
			log.Info().Str("path", missionPath).Msg("watching mission description")

			var debounce *time.Timer
			for {
				select {
				case <-ctx.Done():
					return nil

				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
						continue
					}
					if !strings.EqualFold(filepath.Clean(event.Name), filepath.Clean(missionPath)) {
						continue
					}
					if debounce != nil {
						debounce.Stop()
					}
					debounce = time.AfterFunc(300*time.Millisecond, replan)

				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					log.Error().Err(err).Msg("watcher error")
				}
			}
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics", "", "listen address for the Prometheus metrics endpoint")

	return cmd
}
