package azure

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute/v6"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork/v6"

	"github.com/steve-rackham/azfleet/internal/model"
)

// TagSelector filters discovered resources on one tag key/value pair. The
// zero selector matches everything.
type TagSelector struct {
	Key   string
	Value string
}

// ParseTagSelector parses a "key=value" selector.
func ParseTagSelector(s string) (TagSelector, error) {
	if s == "" {
		return TagSelector{}, nil
	}
	key, value, found := strings.Cut(s, "=")
	if !found || key == "" || value == "" {
		return TagSelector{}, fmt.Errorf("tag selector %q is not key=value", s)
	}
	return TagSelector{Key: key, Value: value}, nil
}

// Matches reports whether a resource tag map satisfies the selector.
func (s TagSelector) Matches(tags map[string]*string) bool {
	if s.Key == "" {
		return true
	}
	value, ok := tags[s.Key]
	return ok && value != nil && *value == s.Value
}

func (s TagSelector) String() string {
	if s.Key == "" {
		return ""
	}
	return s.Key + "=" + s.Value
}

// DiscoverVMs resolves the VM targets carrying the selector tag in the
// given resource groups, or across the whole subscription when none are
// given. Resource groups are walked concurrently; the result is
// deduplicated and sorted by key.
func (c *Clients) DiscoverVMs(ctx context.Context, resourceGroups []string, selector TagSelector) ([]model.Target, error) {
	var (
		mu      sync.Mutex
		targets []model.Target
	)
	collect := func(vms []*armcompute.VirtualMachine) {
		mu.Lock()
		defer mu.Unlock()
		for _, vm := range vms {
			if target, ok := vmTarget(vm, selector); ok {
				targets = append(targets, target)
			}
		}
	}

	if len(resourceGroups) == 0 {
		pager := c.vms.NewListAllPager(nil)
		for pager.More() {
			page, err := pager.NextPage(ctx)
			if err != nil {
				return nil, fmt.Errorf("list virtual machines: %w", err)
			}
			collect(page.Value)
		}
		return finishTargets(targets), nil
	}

	group, groupCtx := errgroup.WithContext(ctx)
	for _, rg := range resourceGroups {
		rg := rg
		group.Go(func() error {
			pager := c.vms.NewListPager(rg, nil)
			for pager.More() {
				page, err := pager.NextPage(groupCtx)
				if err != nil {
					return fmt.Errorf("list virtual machines in %s: %w", rg, err)
				}
				collect(page.Value)
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return finishTargets(targets), nil
}

// DiscoverSecurityGroups resolves network security group targets the same
// way DiscoverVMs resolves VMs.
func (c *Clients) DiscoverSecurityGroups(ctx context.Context, resourceGroups []string, selector TagSelector) ([]model.Target, error) {
	var (
		mu      sync.Mutex
		targets []model.Target
	)
	collect := func(groups []*armnetwork.SecurityGroup) {
		mu.Lock()
		defer mu.Unlock()
		for _, nsg := range groups {
			if target, ok := nsgTarget(nsg, selector); ok {
				targets = append(targets, target)
			}
		}
	}

	if len(resourceGroups) == 0 {
		pager := c.nsgs.NewListAllPager(nil)
		for pager.More() {
			page, err := pager.NextPage(ctx)
			if err != nil {
				return nil, fmt.Errorf("list security groups: %w", err)
			}
			collect(page.Value)
		}
		return finishTargets(targets), nil
	}

	group, groupCtx := errgroup.WithContext(ctx)
	for _, rg := range resourceGroups {
		rg := rg
		group.Go(func() error {
			pager := c.nsgs.NewListPager(rg, nil)
			for pager.More() {
				page, err := pager.NextPage(groupCtx)
				if err != nil {
					return fmt.Errorf("list security groups in %s: %w", rg, err)
				}
				collect(page.Value)
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return finishTargets(targets), nil
}

// DiscoverApplications resolves app-registration targets from Graph. The
// application client id stands in for the resource group so target keys
// stay unique across same-named registrations.
func (c *Clients) DiscoverApplications(ctx context.Context) ([]model.Target, error) {
	apps, err := c.graph.ListApplications(ctx)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}

	targets := make([]model.Target, 0, len(apps))
	for _, app := range apps {
		targets = append(targets, model.Target{
			Name:          app.DisplayName,
			ResourceGroup: app.AppID,
			ID:            app.ObjectID,
		})
	}
	return finishTargets(targets), nil
}

func vmTarget(vm *armcompute.VirtualMachine, selector TagSelector) (model.Target, bool) {
	if vm == nil || vm.Name == nil || vm.ID == nil {
		return model.Target{}, false
	}
	if !selector.Matches(vm.Tags) {
		return model.Target{}, false
	}

	target := model.Target{
		Name:          *vm.Name,
		ResourceGroup: resourceGroupFromID(*vm.ID),
		ID:            *vm.ID,
		OS:            osKind(vm),
		Tags:          flattenTags(vm.Tags),
	}
	if vm.Location != nil {
		target.Location = *vm.Location
	}
	return target, true
}

func nsgTarget(nsg *armnetwork.SecurityGroup, selector TagSelector) (model.Target, bool) {
	if nsg == nil || nsg.Name == nil || nsg.ID == nil {
		return model.Target{}, false
	}
	if !selector.Matches(nsg.Tags) {
		return model.Target{}, false
	}

	target := model.Target{
		Name:          *nsg.Name,
		ResourceGroup: resourceGroupFromID(*nsg.ID),
		ID:            *nsg.ID,
		Tags:          flattenTags(nsg.Tags),
	}
	if nsg.Location != nil {
		target.Location = *nsg.Location
	}
	return target, true
}

// resourceGroupFromID extracts the resource group segment of an ARM
// resource id.
func resourceGroupFromID(id string) string {
	segments := strings.Split(id, "/")
	for i := 0; i < len(segments)-1; i++ {
		if strings.EqualFold(segments[i], "resourceGroups") {
			return segments[i+1]
		}
	}
	return ""
}

func osKind(vm *armcompute.VirtualMachine) model.OSKind {
	if vm.Properties == nil || vm.Properties.StorageProfile == nil ||
		vm.Properties.StorageProfile.OSDisk == nil ||
		vm.Properties.StorageProfile.OSDisk.OSType == nil {
		return model.OSUnknown
	}

	switch *vm.Properties.StorageProfile.OSDisk.OSType {
	case armcompute.OperatingSystemTypesWindows:
		return model.OSWindows
	case armcompute.OperatingSystemTypesLinux:
		return model.OSLinux
	default:
		return model.OSUnknown
	}
}

func flattenTags(tags map[string]*string) map[string]string {
	if len(tags) == 0 {
		return nil
	}
	flat := make(map[string]string, len(tags))
	for key, value := range tags {
		if value != nil {
			flat[key] = *value
		}
	}
	return flat
}

func finishTargets(targets []model.Target) []model.Target {
	deduped := model.DedupeTargets(targets)
	sort.Slice(deduped, func(i, j int) bool {
		return deduped[i].Key() < deduped[j].Key()
	})
	return deduped
}
