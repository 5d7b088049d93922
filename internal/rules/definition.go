package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Definition is the YAML shape of a rule catalog.
type Definition struct {
	Bindings  []string    `yaml:"bindings"`
	Colours   []string    `yaml:"colours"`
	Routes    []string    `yaml:"routes"`
	TrimSizes []string    `yaml:"trim_sizes"`
	Papers    []PaperRule `yaml:"papers"`
}

// PaperRule declares a paper stock together with its compatible colours and routes.
type PaperRule struct {
	Name    string   `yaml:"name"`
	Colours []string `yaml:"colours"`
	Routes  []string `yaml:"routes"`
}

// LoadFile reads a YAML catalog from path.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule catalog %q: %w", path, err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("rule catalog %q: %w", path, err)
	}
	return c, nil
}

// Parse decodes a YAML catalog and builds it.
func Parse(data []byte) (*Catalog, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse rule catalog: %w", err)
	}
	return New(def)
}

// Marshal encodes the definition as YAML.
func (d Definition) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}

func (d Definition) validate() error {
	sets := []struct {
		name   string
		values []string
	}{
		{"bindings", d.Bindings},
		{"colours", d.Colours},
		{"routes", d.Routes},
		{"trim_sizes", d.TrimSizes},
	}
	for _, s := range sets {
		if err := checkList(s.name, s.values); err != nil {
			return err
		}
	}

	for _, size := range d.TrimSizes {
		if !trimSizePattern.MatchString(size) {
			return invalid("trim size %q must be <width>x<height> in whole millimetres", size)
		}
	}

	if len(d.Papers) == 0 {
		return invalid("papers must not be empty")
	}

	colours := NewSet(d.Colours...)
	routes := NewSet(d.Routes...)
	seen := make(map[string]bool, len(d.Papers))
	for _, p := range d.Papers {
		if p.Name == "" {
			return invalid("paper with empty name")
		}
		if seen[p.Name] {
			return invalid("paper %q declared twice", p.Name)
		}
		seen[p.Name] = true

		if err := checkList(fmt.Sprintf("paper %q colours", p.Name), p.Colours); err != nil {
			return err
		}
		if err := checkList(fmt.Sprintf("paper %q routes", p.Name), p.Routes); err != nil {
			return err
		}
		for _, c := range p.Colours {
			if !colours.Has(c) {
				return invalid("paper %q allows colour %q which is not a valid colour", p.Name, c)
			}
		}
		for _, r := range p.Routes {
			if !routes.Has(r) {
				return invalid("paper %q allows route %q which is not a valid route", p.Name, r)
			}
		}
	}

	return nil
}

func checkList(name string, values []string) error {
	if len(values) == 0 {
		return invalid("%s must not be empty", name)
	}
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if v == "" {
			return invalid("%s contains an empty value", name)
		}
		if seen[v] {
			return invalid("%s contains %q twice", name, v)
		}
		seen[v] = true
	}
	return nil
}
