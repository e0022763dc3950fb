package config

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/voxroute/voxroute/pkg/models"
)

// ManifestEntry is one declared worker: its capability plus the name of
// the executor that performs its work. Executor names are resolved by
// the workers package.
type ManifestEntry struct {
	Capability models.Capability
	Adapter    string
}

// manifestFile represents the worker manifest YAML structure.
type manifestFile struct {
	Workers []manifestWorker `yaml:"workers"`
}

// manifestWorker is one worker entry in the manifest.
type manifestWorker struct {
	ID             string   `yaml:"id"`
	Name           string   `yaml:"name"`
	Description    string   `yaml:"description"`
	ExpertiseTags  []string `yaml:"expertise_tags"`
	BaseConfidence float64  `yaml:"base_confidence"`
	Adapter        string   `yaml:"adapter"`
}

// LoadManifest reads a worker manifest and returns the declared
// workers. Every entry is validated; an invalid entry fails the whole
// load so a partial manifest never reaches the registry.
func LoadManifest(path string) ([]ManifestEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	var mf manifestFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}

	entries := make([]ManifestEntry, 0, len(mf.Workers))
	seen := make(map[string]bool)
	for i, w := range mf.Workers {
		c := models.Capability{
			ID:             w.ID,
			Name:           w.Name,
			Description:    w.Description,
			ExpertiseTags:  w.ExpertiseTags,
			BaseConfidence: w.BaseConfidence,
		}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("manifest %s: worker %d: %w", path, i, err)
		}
		if w.Adapter == "" {
			return nil, fmt.Errorf("manifest %s: worker %s: missing adapter", path, c.ID)
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("manifest %s: duplicate worker id %s", path, c.ID)
		}
		seen[c.ID] = true
		entries = append(entries, ManifestEntry{Capability: c, Adapter: w.Adapter})
	}

	return entries, nil
}
