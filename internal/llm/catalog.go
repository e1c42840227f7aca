package llm

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// CatalogEntry holds static facts about a model that the models endpoint does not report.
type CatalogEntry struct {
	ID              string   `yaml:"id" json:"id"`
	DisplayName     string   `yaml:"display_name" json:"display_name"`
	Tier            string   `yaml:"tier" json:"tier"`
	ContextWindow   int      `yaml:"context_window" json:"context_window"`
	MaxOutputTokens int      `yaml:"max_output_tokens" json:"max_output_tokens"`
	InputPerMTok    float64  `yaml:"input_per_mtok" json:"input_per_mtok"`
	OutputPerMTok   float64  `yaml:"output_per_mtok" json:"output_per_mtok"`
	Aliases         []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
}

// Catalog is a read-only model registry.
type Catalog struct {
	entries []CatalogEntry
}

// LoadCatalog parses a YAML catalog document.
func LoadCatalog(data []byte) (*Catalog, error) {
	var doc struct {
		Models []CatalogEntry `yaml:"models"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("could not parse model catalog: %w", err)
	}
	for i, e := range doc.Models {
		if e.ID == "" {
			return nil, fmt.Errorf("model catalog entry %d has no id", i)
		}
	}
	return &Catalog{entries: doc.Models}, nil
}

// DefaultCatalog returns the embedded catalog. It panics if the embedded file is malformed.
func DefaultCatalog() *Catalog {
	c, err := LoadCatalog(defaultCatalogYAML)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) Entries() []CatalogEntry {
	out := make([]CatalogEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Lookup resolves an exact id, an alias, or a dated snapshot such as
// "claude-3-5-haiku-20241022" to its catalog entry.
func (c *Catalog) Lookup(modelID string) (CatalogEntry, bool) {
	for _, e := range c.entries {
		if e.ID == modelID {
			return e, true
		}
		for _, a := range e.Aliases {
			if a == modelID {
				return e, true
			}
		}
	}
	var best CatalogEntry
	bestLen := 0
	for _, e := range c.entries {
		for _, name := range append([]string{e.ID}, e.Aliases...) {
			if strings.HasPrefix(modelID, name+"-") && len(name) > bestLen {
				best = e
				bestLen = len(name)
			}
		}
	}
	return best, bestLen > 0
}

// EstimateCost returns the USD cost of a generation, or false for unknown models.
func (c *Catalog) EstimateCost(modelID string, usage Usage) (float64, bool) {
	e, ok := c.Lookup(modelID)
	if !ok {
		return 0, false
	}
	cost := float64(usage.InputTokens)/1e6*e.InputPerMTok + float64(usage.OutputTokens)/1e6*e.OutputPerMTok
	return cost, true
}
