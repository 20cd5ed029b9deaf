package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/steve-rackham/azfleet/internal/action"
	exportaction "github.com/steve-rackham/azfleet/internal/actions/export"
	"github.com/steve-rackham/azfleet/internal/azure"
	"github.com/steve-rackham/azfleet/internal/config"
	"github.com/steve-rackham/azfleet/internal/engine"
	"github.com/steve-rackham/azfleet/internal/logger"
	"github.com/steve-rackham/azfleet/internal/model"
	"github.com/steve-rackham/azfleet/internal/snapshot"
)

const (
	defaultExportDir      = "exports"
	defaultExportParallel = 5
)

func newExportCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export resource definitions for drift tracking",
	}

	cmd.AddCommand(newExportNSGCmd(root))

	return cmd
}

func newExportNSGCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "nsg",
		Short: "Export every network security group definition to disk",
		RunE: func(cmd *cobra.Command, args []string) error {
			return actionRunner(root, exportNSGSpec())
		},
	}
}

func exportNSGSpec() runSpec {
	return runSpec{
		Request: func(cfg *config.Config) model.Request {
			return model.Request{Action: model.ActionExportNSG}
		},
		DefaultParallel: defaultExportParallel,
		Discover: func(ctx context.Context, clients *azure.Clients, cfg *config.Config, selector azure.TagSelector) ([]model.Target, error) {
			return clients.DiscoverSecurityGroups(ctx, cfg.Fleet.ResourceGroups, selector)
		},
		Handler: func(clients *azure.Clients, req model.Request, cfg *config.Config) action.Handler {
			return exportaction.New(clients, exportDir(cfg))
		},
		After: commitExportHistory,
	}
}

func exportDir(cfg *config.Config) string {
	if cfg.Export.Dir != "" {
		return cfg.Export.Dir
	}
	return defaultExportDir
}

// commitExportHistory records the run's artifacts in the export directory's
// git history, so definition drift stays reviewable over time.
func commitExportHistory(res *engine.Result, cfg *config.Config, log *logger.Logger) error {
	if !cfg.Export.GitHistoryEnabled() || res.Summary.Succeeded == 0 {
		return nil
	}

	message := fmt.Sprintf("export-nsg run %s: %d definition(s) exported", res.Summary.RunID, res.Summary.Succeeded)
	hash, committed, err := snapshot.Commit(exportDir(cfg), message)
	if err != nil {
		return fmt.Errorf("commit export history: %w", err)
	}
	if committed {
		log.WithRun(res.Summary.RunID, res.Summary.Action).
			WithFields(map[string]any{"commit": hash}).
			Info("export history committed")
	}
	return nil
}
