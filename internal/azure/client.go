// Package azure wraps the provider SDK behind the narrow call surface the
// action handlers consume: extension queries and installs, power state and
// transitions, security-group reads, Graph application listings, and fleet
// discovery. Nothing outside this package imports the SDK.
package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute/v6"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork/v6"

	"github.com/steve-rackham/azfleet/internal/model"
)

// Clients bundles the authenticated provider clients for one subscription.
// The bundle is built once per run and shared read-only across workers.
type Clients struct {
	Subscription string

	cred       azcore.TokenCredential
	vms        *armcompute.VirtualMachinesClient
	extensions *armcompute.VirtualMachineExtensionsClient
	nsgs       *armnetwork.SecurityGroupsClient
	graph      *GraphClient
}

// NewClients authenticates through the default credential chain and builds
// the client bundle. Any failure here is fatal to the run; no worker is
// spawned without a working session.
func NewClients(subscription string) (*Clients, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("acquire credential: %w", err)
	}
	return newClientsWithCredential(subscription, cred)
}

func newClientsWithCredential(subscription string, cred azcore.TokenCredential) (*Clients, error) {
	vms, err := armcompute.NewVirtualMachinesClient(subscription, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("create compute client: %w", err)
	}

	extensions, err := armcompute.NewVirtualMachineExtensionsClient(subscription, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("create extensions client: %w", err)
	}

	nsgs, err := armnetwork.NewSecurityGroupsClient(subscription, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("create network client: %w", err)
	}

	return &Clients{
		Subscription: subscription,
		cred:         cred,
		vms:          vms,
		extensions:   extensions,
		nsgs:         nsgs,
		graph:        NewGraphClient(cred),
	}, nil
}

// Graph returns the Microsoft Graph client sharing this bundle's credential.
func (c *Clients) Graph() *GraphClient {
	return c.graph
}

// ApplicationCredentials reads one application's credential expiry records.
func (c *Clients) ApplicationCredentials(ctx context.Context, objectID string) ([]model.Credential, error) {
	app, err := c.graph.GetApplication(ctx, objectID)
	if err != nil {
		return nil, err
	}
	return app.Credentials, nil
}
