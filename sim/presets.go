package sim

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var builtinPresets []byte

// Preset is a named scenario.
type Preset struct {
	Description string           `yaml:"description"`
	Config      SimulationConfig `yaml:"config"`
}

// PresetFile represents the full presets.yaml structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type PresetFile struct {
	Version string            `yaml:"version"`
	Presets map[string]Preset `yaml:"presets"`
}

// Names returns the preset names in sorted order.
func (pf PresetFile) Names() []string {
	names := make([]string, 0, len(pf.Presets))
	for name := range pf.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the validated config of a named preset.
func (pf PresetFile) Lookup(name string) (SimulationConfig, error) {
	p, ok := pf.Presets[name]
	if !ok {
		return SimulationConfig{}, fmt.Errorf("unknown preset %q (available: %v)", name, pf.Names())
	}
	if err := p.Config.Validate(); err != nil {
		return SimulationConfig{}, fmt.Errorf("preset %q: %w", name, err)
	}
	return p.Config, nil
}

// BuiltinPresets returns the presets compiled into the binary.
func BuiltinPresets() (PresetFile, error) {
	return parsePresets(builtinPresets)
}

// LoadPresets parses a presets file from disk with strict field checking.
func LoadPresets(path string) (PresetFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PresetFile{}, fmt.Errorf("reading presets %s: %w", path, err)
	}
	pf, err := parsePresets(data)
	if err != nil {
		return PresetFile{}, fmt.Errorf("presets %s: %w", path, err)
	}
	return pf, nil
}

func parsePresets(data []byte) (PresetFile, error) {
	var pf PresetFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&pf); err != nil {
		return PresetFile{}, fmt.Errorf("parsing presets YAML: %w", err)
	}
	for name, p := range pf.Presets {
		if p.Config.NegativeValues == "" {
			p.Config.NegativeValues = NegativeAllow
			pf.Presets[name] = p
		}
	}
	return pf, nil
}
