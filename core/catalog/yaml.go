package catalog

import (
	"fmt"

	uerrors "github.com/FocuswithJustin/unitconv/core/errors"
	"gopkg.in/yaml.v3"
)

// yamlCatalog represents the YAML structure of a catalogue file.
type yamlCatalog struct {
	System string     `yaml:"system"`
	Units  []yamlUnit `yaml:"units"`
}

// yamlUnit represents one unit definition in YAML format.
type yamlUnit struct {
	Key         string    `yaml:"key"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Tags        []string  `yaml:"tags"`
	Aliases     []string  `yaml:"aliases"`
	Exponents   []float64 `yaml:"exponents"`
	Scale       *float64  `yaml:"scale"`
	Offset      float64   `yaml:"offset"`
}

// decodeYAML parses catalogue data in YAML format.
func decodeYAML(data []byte) (*Catalog, error) {
	var y yamlCatalog
	if err := yaml.Unmarshal(data, &y); err != nil {
		return nil, uerrors.Wrap(err, "YAML parse error")
	}

	// Unmarshal again into a node tree so errors can carry line numbers.
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, uerrors.Wrap(err, "YAML node parse error")
	}
	lines := unitLines(&root)

	cat := &Catalog{System: y.System}
	for i, u := range y.Units {
		if u.Key == "" {
			msg := fmt.Sprintf("unit %d has no key", i+1)
			if i < len(lines) {
				msg = fmt.Sprintf("line %d: %s", lines[i], msg)
			}
			return nil, uerrors.NewValidation("key", msg)
		}
		scale := 1.0
		if u.Scale != nil {
			scale = *u.Scale
		}
		cat.Definitions = append(cat.Definitions, Definition{
			Key:         u.Key,
			Name:        u.Name,
			Description: u.Description,
			Tags:        u.Tags,
			Aliases:     u.Aliases,
			Exponents:   u.Exponents,
			Scale:       scale,
			Offset:      u.Offset,
		})
	}
	return cat, nil
}

// unitLines returns the line of each item in the top-level "units" sequence.
func unitLines(root *yaml.Node) []int {
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i < len(doc.Content)-1; i += 2 {
		key, value := doc.Content[i], doc.Content[i+1]
		if key.Value != "units" || value.Kind != yaml.SequenceNode {
			continue
		}
		lines := make([]int, len(value.Content))
		for j, item := range value.Content {
			lines[j] = item.Line
		}
		return lines
	}
	return nil
}
