package config

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the full azfleet configuration document.
type Config struct {
	Subscription string    `yaml:"subscription" validate:"required,uuid"`
	Fleet        Fleet     `yaml:"fleet,omitempty"`
	Settings     Settings  `yaml:"settings,omitempty"`
	Agent        Agent     `yaml:"agent,omitempty"`
	Export       Export    `yaml:"export,omitempty"`
	Creds        Creds     `yaml:"creds,omitempty"`
	Telemetry    Telemetry `yaml:"telemetry,omitempty"`
}

// Fleet scopes discovery to parts of the subscription. An empty resource
// group list means the whole subscription; an empty tag selector matches
// every resource.
type Fleet struct {
	ResourceGroups []string `yaml:"resource_groups,omitempty" validate:"omitempty,dive,resource_group"`
	TagSelector    string   `yaml:"tag_selector,omitempty" validate:"omitempty,tag_selector"`
}

// Settings holds global run parameters.
type Settings struct {
	Parallel int  `yaml:"parallel,omitempty" validate:"omitempty,min=1,max=64"`
	Timeout  int  `yaml:"timeout,omitempty" validate:"omitempty,min=1,max=86400"`
	DryRun   bool `yaml:"dry_run,omitempty"`
	Verbose  bool `yaml:"verbose,omitempty"`
}

// Agent holds the Log Analytics workspace agents report to. The key is a
// secret; it never appears in logs or progress lines.
type Agent struct {
	WorkspaceID  string `yaml:"workspace_id,omitempty" validate:"required_with=WorkspaceKey,omitempty,uuid"`
	WorkspaceKey string `yaml:"workspace_key,omitempty"`
}

// Export controls where export-nsg runs write their artifacts.
type Export struct {
	Dir           string `yaml:"dir,omitempty"`
	GitHistory    bool   `yaml:"git_history,omitempty"`
	GitHistorySet bool   `yaml:"-"`
}

// UnmarshalYAML applies defaults for the export section.
func (e *Export) UnmarshalYAML(value *yaml.Node) error {
	type rawExport Export
	var temp rawExport
	if err := value.Decode(&temp); err != nil {
		return err
	}
	*e = Export(temp)
	e.GitHistorySet = hasYAMLKey(value, "git_history")
	if !e.GitHistorySet {
		e.GitHistory = true
	}
	return nil
}

// GitHistoryEnabled reports whether export artifacts are committed to the
// local git history. Defaults to true when the key is absent.
func (e Export) GitHistoryEnabled() bool {
	if !e.GitHistorySet {
		return true
	}
	return e.GitHistory
}

// Creds controls creds-scan runs.
type Creds struct {
	WarnWithinDays int `yaml:"warn_within_days,omitempty" validate:"omitempty,min=1,max=365"`
}

// Telemetry configures the optional Pushgateway publisher.
type Telemetry struct {
	Pushgateway string `yaml:"pushgateway,omitempty" validate:"omitempty,url"`
}

func hasYAMLKey(node *yaml.Node, key string) bool {
	if node == nil || node.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i < len(node.Content); i += 2 {
		k := node.Content[i]
		if strings.EqualFold(k.Value, key) {
			return true
		}
	}
	return false
}
