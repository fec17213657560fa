package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads the scenario with the given ID.
// Search order: customPath -> ~/.wavekit/scenarios/<id>.yaml -> ./scenarios/<id>.yaml -> embedded default.
// Every scenario returned is validated. Only a missing override file falls
// through to the next location; a broken one is reported.
func Load(id, customPath string) (Scenario, error) {
	// Try custom path first
	if customPath != "" {
		return LoadFile(customPath)
	}

	// Try user config directory, then the local scenarios directory
	candidates := []string{filepath.Join("scenarios", id+".yaml")}
	if userPath := userScenarioPath(id + ".yaml"); userPath != "" {
		candidates = append([]string{userPath}, candidates...)
	}
	for _, path := range candidates {
		sc, err := LoadFile(path)
		if err == nil {
			return sc, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return Scenario{}, err
		}
	}

	// Use embedded default YAML
	sc, err := DefaultScenario(id)
	if err != nil {
		return Scenario{}, err
	}
	if err := sc.Validate(); err != nil {
		return Scenario{}, err
	}
	return sc, nil
}

// LoadFile reads, parses and validates a scenario file.
// A scenario without an ID takes the file's base name.
func LoadFile(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	sc, err := Parse(data)
	if err != nil {
		return Scenario{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if sc.ID == "" {
		base := filepath.Base(path)
		sc.ID = base[:len(base)-len(filepath.Ext(base))]
	}
	if err := sc.Validate(); err != nil {
		return Scenario{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes scenario YAML. Unknown fields are rejected so typos in
// hand-written scenarios surface immediately.
func Parse(data []byte) (Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return Scenario{}, err
	}
	return sc, nil
}

// userScenarioPath returns the path to a user scenario file, or empty if home is unavailable.
func userScenarioPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".wavekit", "scenarios", filename)
}
