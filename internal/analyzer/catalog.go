package analyzer

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// TargetEntry holds what the analyzer knows about one target word
type TargetEntry struct {
	Synonyms       []string `yaml:"synonyms"`
	VocabularyHint string   `yaml:"vocabulary_hint"`
}

// Catalog is the analyzer's word knowledge
type Catalog struct {
	Targets    map[string]TargetEntry `yaml:"targets"`
	Categories map[string][]string    `yaml:"categories"`
}

// LoadCatalog reads a catalog file, or the built-in one when path is empty
func LoadCatalog(path string) (*Catalog, error) {
	data := defaultCatalog
	if path != "" {
		fileData, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog: %w", err)
		}
		data = fileData
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes catalog YAML and lower-cases every word
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	targets := make(map[string]TargetEntry, len(c.Targets))
	for word, entry := range c.Targets {
		entry.Synonyms = lowerAll(entry.Synonyms)
		targets[strings.ToLower(word)] = entry
	}
	c.Targets = targets

	for name, words := range c.Categories {
		c.Categories[name] = lowerAll(words)
	}
	return &c, nil
}

func lowerAll(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = strings.ToLower(strings.TrimSpace(w))
	}
	return out
}
