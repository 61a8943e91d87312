/* presets.go
 * Loads the catalog of named matchUpFormat codes (presets.yaml) so users can type "fast4" instead of
 * "SET3-S:4NOAD/TB7@3"
 */

package format

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var presetsYAML []byte

// Preset is a named matchUpFormat code
type Preset struct {
	Name        string `yaml:"name" json:"name"`
	Code        string `yaml:"code" json:"code"`
	Description string `yaml:"description" json:"description"`
}

type presetFile struct {
	Presets []Preset `yaml:"presets"`
}

// presets is read once at start up and never mutated
var presets = mustLoadPresets(presetsYAML)

func mustLoadPresets(data []byte) []Preset {
	loaded, err := loadPresets(data)
	if err != nil {
		panic(err)
	}
	return loaded
}

// loadPresets decodes a preset catalog and checks every code parses
func loadPresets(data []byte) ([]Preset, error) {
	var file presetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode presets: %w", err)
	}

	seen := make(map[string]bool)
	for _, p := range file.Presets {
		name := strings.ToLower(p.Name)
		if name == "" {
			return nil, fmt.Errorf("preset with code %q has no name", p.Code)
		}
		if seen[name] {
			return nil, fmt.Errorf("preset %q defined more than once", p.Name)
		}
		seen[name] = true
		if _, err := Parse(p.Code); err != nil {
			return nil, fmt.Errorf("preset %q: %w", p.Name, err)
		}
	}
	return file.Presets, nil
}

// Presets returns a copy of the preset catalog in file order
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// Resolve maps a preset name (case insensitive) to its code. Anything else is returned trimmed, as a code.
func Resolve(nameOrCode string) string {
	trimmed := strings.TrimSpace(nameOrCode)
	for _, p := range presets {
		if strings.EqualFold(p.Name, trimmed) {
			return p.Code
		}
	}
	return trimmed
}

// IsPreset reports whether the value names a preset
func IsPreset(name string) bool {
	trimmed := strings.TrimSpace(name)
	for _, p := range presets {
		if strings.EqualFold(p.Name, trimmed) {
			return true
		}
	}
	return false
}
