// Package exportaction exports network resource definitions to local JSON
// artifacts and reports drift against the previous export of each target.
package exportaction

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/steve-rackham/azfleet/internal/action"
	"github.com/steve-rackham/azfleet/internal/catalog"
	"github.com/steve-rackham/azfleet/internal/model"
	"github.com/steve-rackham/azfleet/pkg/diff"
)

// Provider is the network surface the handler needs.
type Provider interface {
	GetSecurityGroup(ctx context.Context, target model.Target) (bool, []byte, error)
}

type exportHandler struct {
	provider Provider
	dir      string
	kind     string
}

// New creates the export handler writing artifacts under dir.
func New(provider Provider, dir string) action.Handler {
	return &exportHandler{provider: provider, dir: dir, kind: "nsg"}
}

var _ action.Handler = (*exportHandler)(nil)

func (h *exportHandler) Action() model.Action { return model.ActionExportNSG }

func (h *exportHandler) Probe(ctx context.Context, target model.Target) (model.Observation, error) {
	exists, definition, err := h.provider.GetSecurityGroup(ctx, target)
	if err != nil {
		return model.Observation{}, err
	}
	return model.Observation{Exists: exists, Definition: definition}, nil
}

func (h *exportHandler) Decide(target model.Target, obs model.Observation) model.Decision {
	if _, ok := catalog.Exporter(h.kind); !ok {
		return model.Reject(fmt.Sprintf("unrecognized resource kind %q", h.kind))
	}
	if !obs.Exists {
		return model.RejectState("missing", "definition no longer exists")
	}
	return model.Act("definition retrieved")
}

func (h *exportHandler) Execute(ctx context.Context, target model.Target, obs model.Observation) (string, error) {
	spec, ok := catalog.Exporter(h.kind)
	if !ok {
		return "", fmt.Errorf("unrecognized resource kind %q", h.kind)
	}

	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		return "", err
	}

	name := artifactName(target, spec)
	path := filepath.Join(h.dir, name)

	previous, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return "", err
	}

	if err := os.WriteFile(path, obs.Definition, 0o644); err != nil {
		return "", err
	}

	if previous == nil {
		return fmt.Sprintf("exported %s (new)", name), nil
	}

	drift := diff.Unified(previous, obs.Definition, name, "current")
	if drift == "" {
		return fmt.Sprintf("exported %s (no drift)", name), nil
	}
	added, removed := diff.Stats(drift)
	return fmt.Sprintf("exported %s (drift +%d/-%d lines)", name, added, removed), nil
}

// artifactName prefixes the resource group so same-named groups from
// different resource groups never collide in the export directory.
func artifactName(target model.Target, spec catalog.ExportSpec) string {
	return fmt.Sprintf("%s_%s%s", target.ResourceGroup, target.Name, spec.FileSuffix)
}
