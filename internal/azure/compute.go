package azure

import (
	"context"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute/v6"

	"github.com/steve-rackham/azfleet/internal/catalog"
	"github.com/steve-rackham/azfleet/internal/model"
)

const powerStatePrefix = "PowerState/"

// ListExtensions returns the extension type identifiers currently attached
// to a VM. Read-only.
func (c *Clients) ListExtensions(ctx context.Context, target model.Target) ([]string, error) {
	resp, err := c.extensions.List(ctx, target.ResourceGroup, target.Name, nil)
	if err != nil {
		return nil, err
	}
	return extensionTypes(resp.Value), nil
}

// InstallExtension attaches an agent extension to a VM with the catalog's
// parameter set and waits for provisioning to finish. The workspace key
// travels in protected settings only.
func (c *Clients) InstallExtension(ctx context.Context, target model.Target, spec catalog.ExtensionSpec, ws model.WorkspaceRef) (string, error) {
	properties := &armcompute.VirtualMachineExtensionProperties{
		Publisher:               to.Ptr(spec.Publisher),
		Type:                    to.Ptr(spec.Type),
		TypeHandlerVersion:      to.Ptr(spec.Version),
		AutoUpgradeMinorVersion: to.Ptr(spec.AutoUpgradeMinor),
	}
	if spec.NeedsWorkspace {
		properties.Settings = map[string]any{"workspaceId": ws.ID}
		properties.ProtectedSettings = map[string]any{"workspaceKey": ws.Key}
	}

	ext := armcompute.VirtualMachineExtension{
		Location:   to.Ptr(target.Location),
		Properties: properties,
	}

	poller, err := c.extensions.BeginCreateOrUpdate(ctx, target.ResourceGroup, target.Name, spec.Type, ext, nil)
	if err != nil {
		return "", err
	}
	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return "", err
	}

	state := "Succeeded"
	if resp.Properties != nil && resp.Properties.ProvisioningState != nil {
		state = *resp.Properties.ProvisioningState
	}
	return fmt.Sprintf("%s provisioning %s", spec.Type, state), nil
}

// PowerState reads a VM's instance view and reduces its power status code.
// The second return is the raw code suffix for reporting.
func (c *Clients) PowerState(ctx context.Context, target model.Target) (model.PowerState, string, error) {
	view, err := c.vms.InstanceView(ctx, target.ResourceGroup, target.Name, nil)
	if err != nil {
		return model.PowerUnknown, "", err
	}

	codes := make([]string, 0, len(view.Statuses))
	for _, status := range view.Statuses {
		if status != nil && status.Code != nil {
			codes = append(codes, *status.Code)
		}
	}

	state, detail := ParsePowerState(codes)
	return state, detail, nil
}

// StartVM starts a deallocated VM and waits for the operation to complete.
func (c *Clients) StartVM(ctx context.Context, target model.Target) (string, error) {
	poller, err := c.vms.BeginStart(ctx, target.ResourceGroup, target.Name, nil)
	if err != nil {
		return "", err
	}
	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return "", err
	}
	return "started", nil
}

// DeallocateVM stops and deallocates a running VM and waits for the
// operation to complete.
func (c *Clients) DeallocateVM(ctx context.Context, target model.Target) (string, error) {
	poller, err := c.vms.BeginDeallocate(ctx, target.ResourceGroup, target.Name, nil)
	if err != nil {
		return "", err
	}
	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return "", err
	}
	return "deallocated", nil
}

// ParsePowerState reduces instance-view status codes to a power state. Any
// power code other than running or deallocated (starting, stopping,
// deallocating, stopped) counts as transitioning; a missing power code is
// unknown. The second return is the raw code suffix.
func ParsePowerState(codes []string) (model.PowerState, string) {
	for _, code := range codes {
		if !strings.HasPrefix(code, powerStatePrefix) {
			continue
		}
		suffix := strings.TrimPrefix(code, powerStatePrefix)
		switch suffix {
		case "running":
			return model.PowerRunning, suffix
		case "deallocated":
			return model.PowerDeallocated, suffix
		default:
			return model.PowerTransitioning, suffix
		}
	}
	return model.PowerUnknown, ""
}

// extensionTypes collects the handler type of each attached extension,
// falling back to the resource name when the type is unset.
func extensionTypes(exts []*armcompute.VirtualMachineExtension) []string {
	types := make([]string, 0, len(exts))
	for _, ext := range exts {
		if ext == nil {
			continue
		}
		switch {
		case ext.Properties != nil && ext.Properties.Type != nil && *ext.Properties.Type != "":
			types = append(types, *ext.Properties.Type)
		case ext.Name != nil:
			types = append(types, *ext.Name)
		}
	}
	return types
}
