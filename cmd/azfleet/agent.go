package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/steve-rackham/azfleet/internal/action"
	agentaction "github.com/steve-rackham/azfleet/internal/actions/agent"
	"github.com/steve-rackham/azfleet/internal/azure"
	"github.com/steve-rackham/azfleet/internal/config"
	"github.com/steve-rackham/azfleet/internal/model"
)

func newAgentCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Manage monitoring agents across the fleet",
	}

	cmd.AddCommand(newAgentInstallCmd(root))

	return cmd
}

func newAgentInstallCmd(root *rootFlags) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install a monitoring agent on every VM that lacks it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return actionRunner(root, agentInstallSpec(model.AgentKind(kind)))
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", string(model.AgentMonitor), "Agent kind to install (monitor or dependency)")

	return cmd
}

func agentInstallSpec(kind model.AgentKind) runSpec {
	return runSpec{
		Request: func(cfg *config.Config) model.Request {
			return model.Request{
				Action:    model.ActionAgentInstall,
				AgentKind: kind,
				Workspace: model.WorkspaceRef{
					ID:  cfg.Agent.WorkspaceID,
					Key: cfg.Agent.WorkspaceKey,
				},
			}
		},
		Discover: func(ctx context.Context, clients *azure.Clients, cfg *config.Config, selector azure.TagSelector) ([]model.Target, error) {
			return clients.DiscoverVMs(ctx, cfg.Fleet.ResourceGroups, selector)
		},
		Handler: func(clients *azure.Clients, req model.Request, cfg *config.Config) action.Handler {
			return agentaction.New(clients, req.AgentKind, req.Workspace)
		},
	}
}
