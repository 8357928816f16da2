package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads the scenario catalog and sector map from YAML files in
// configDir (scenarios.yaml, sectors.yaml). Missing files fall back to the
// built-in defaults so a bare deployment needs no configuration at all.
func LoadConfig(configDir string) (*Catalog, SectorMap, error) {
	catalog, err := LoadCatalog(filepath.Join(configDir, "scenarios.yaml"))
	if err != nil {
		return nil, nil, fmt.Errorf("load scenario catalog: %w", err)
	}
	sectors, err := LoadSectors(filepath.Join(configDir, "sectors.yaml"))
	if err != nil {
		return nil, nil, fmt.Errorf("load sector map: %w", err)
	}
	return catalog, sectors, nil
}

// LoadCatalog reads a scenario catalog from a YAML file mapping scenario
// names to parameters. A missing file yields the default catalog.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultCatalog(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var raw map[string]Parameters
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("parse %s: no scenarios defined", path)
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	scenarios := make([]Parameters, 0, len(raw))
	for _, name := range names {
		p := raw[name]
		p.Name = name
		scenarios = append(scenarios, p)
	}
	return NewCatalog(scenarios)
}

// LoadSectors reads a symbol-to-sector map from a YAML file. A missing file
// yields the default map.
func LoadSectors(path string) (SectorMap, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultSectors(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var m SectorMap
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(m) == 0 {
		return nil, fmt.Errorf("parse %s: no sector mappings defined", path)
	}
	return m, nil
}
