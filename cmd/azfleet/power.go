package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/steve-rackham/azfleet/internal/action"
	poweraction "github.com/steve-rackham/azfleet/internal/actions/power"
	"github.com/steve-rackham/azfleet/internal/azure"
	"github.com/steve-rackham/azfleet/internal/config"
	"github.com/steve-rackham/azfleet/internal/model"
)

func newPowerCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "power",
		Short: "Drive fleet power state transitions",
	}

	cmd.AddCommand(newPowerDirectionCmd(root, "start", "Start every deallocated VM", model.ActionPowerStart))
	cmd.AddCommand(newPowerDirectionCmd(root, "stop", "Deallocate every running VM", model.ActionPowerStop))

	return cmd
}

func newPowerDirectionCmd(root *rootFlags, use, short string, direction model.Action) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return actionRunner(root, powerSpec(direction))
		},
	}
}

func powerSpec(direction model.Action) runSpec {
	return runSpec{
		Request: func(cfg *config.Config) model.Request {
			return model.Request{Action: direction}
		},
		Discover: func(ctx context.Context, clients *azure.Clients, cfg *config.Config, selector azure.TagSelector) ([]model.Target, error) {
			return clients.DiscoverVMs(ctx, cfg.Fleet.ResourceGroups, selector)
		},
		Handler: func(clients *azure.Clients, req model.Request, cfg *config.Config) action.Handler {
			return poweraction.New(clients, req.Action)
		},
	}
}
