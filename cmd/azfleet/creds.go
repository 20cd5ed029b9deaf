package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/steve-rackham/azfleet/internal/action"
	credsaction "github.com/steve-rackham/azfleet/internal/actions/creds"
	"github.com/steve-rackham/azfleet/internal/azure"
	"github.com/steve-rackham/azfleet/internal/config"
	"github.com/steve-rackham/azfleet/internal/model"
)

func newCredsCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "creds",
		Short: "Audit application credentials",
	}

	cmd.AddCommand(newCredsScanCmd(root))

	return cmd
}

func newCredsScanCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Flag application credentials nearing expiry",
		RunE: func(cmd *cobra.Command, args []string) error {
			return actionRunner(root, credsScanSpec())
		},
	}
}

func credsScanSpec() runSpec {
	return runSpec{
		Request: func(cfg *config.Config) model.Request {
			return model.Request{
				Action:     model.ActionCredsScan,
				WarnWithin: warnWindow(cfg),
			}
		},
		Discover: func(ctx context.Context, clients *azure.Clients, cfg *config.Config, selector azure.TagSelector) ([]model.Target, error) {
			return clients.DiscoverApplications(ctx)
		},
		Handler: func(clients *azure.Clients, req model.Request, cfg *config.Config) action.Handler {
			return credsaction.New(clients, req.WarnWithin, time.Now())
		},
	}
}

func warnWindow(cfg *config.Config) time.Duration {
	return time.Duration(cfg.Creds.WarnWithinDays) * 24 * time.Hour
}
