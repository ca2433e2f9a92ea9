package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ahmad2b/cogniserve/internal/runtime"
)

// ManifestAgent is one agent definition in the deploy-time manifest.
type ManifestAgent struct {
	Name         string             `yaml:"name"`
	DisplayName  string             `yaml:"display_name"`
	Prefix       string             `yaml:"prefix"`
	Instructions string             `yaml:"instructions"`
	Model        string             `yaml:"model"`
	Tools        []runtime.ToolSpec `yaml:"tools"`
	Handoffs     []string           `yaml:"handoffs"`
}

// Manifest is the yaml agent manifest document.
type Manifest struct {
	Agents []ManifestAgent `yaml:"agents"`
}

// BoundAgent pairs a resolved agent config with its routing metadata.
type BoundAgent struct {
	DisplayName string
	Prefix      string
	Agent       *runtime.AgentConfig
}

// LoadManifest parses the yaml manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}

// Resolve turns manifest entries into bound agents. Handoffs reference other
// manifest agents by name; a dangling reference is an error so
// misconfiguration surfaces at startup rather than mid-run.
func (m *Manifest) Resolve() ([]BoundAgent, error) {
	configs := make(map[string]*runtime.AgentConfig, len(m.Agents))
	bound := make([]BoundAgent, 0, len(m.Agents))

	for _, entry := range m.Agents {
		if strings.TrimSpace(entry.Name) == "" {
			return nil, fmt.Errorf("manifest agent with empty name")
		}
		if !strings.HasPrefix(entry.Prefix, "/") {
			return nil, fmt.Errorf("agent %q: prefix %q must start with /", entry.Name, entry.Prefix)
		}
		if _, dup := configs[entry.Name]; dup {
			return nil, fmt.Errorf("duplicate agent name %q", entry.Name)
		}

		cfg := &runtime.AgentConfig{
			Name:         entry.Name,
			Instructions: entry.Instructions,
			Model:        entry.Model,
			Tools:        entry.Tools,
		}
		configs[entry.Name] = cfg

		display := entry.DisplayName
		if display == "" {
			display = entry.Name
		}
		bound = append(bound, BoundAgent{DisplayName: display, Prefix: entry.Prefix, Agent: cfg})
	}

	// Second pass: handoffs may point at agents defined later in the file.
	for _, entry := range m.Agents {
		for _, target := range entry.Handoffs {
			targetCfg, ok := configs[target]
			if !ok {
				return nil, fmt.Errorf("agent %q: unknown handoff target %q", entry.Name, target)
			}
			configs[entry.Name].Handoffs = append(configs[entry.Name].Handoffs, targetCfg)
		}
	}

	return bound, nil
}
