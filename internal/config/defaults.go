package config

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/grunts.yaml
var defaultGruntsYAML []byte

//go:embed defaults/siege.yaml
var defaultSiegeYAML []byte

//go:embed defaults/endless.yaml
var defaultEndlessYAML []byte

// BuiltinIDs returns the IDs of the embedded scenarios.
func BuiltinIDs() []string {
	return []string{"endless", "grunts", "siege"}
}

// GetDefaultYAML returns the embedded default YAML for a scenario, or nil.
func GetDefaultYAML(id string) []byte {
	switch id {
	case "grunts":
		return defaultGruntsYAML
	case "siege":
		return defaultSiegeYAML
	case "endless":
		return defaultEndlessYAML
	default:
		return nil
	}
}

// DefaultScenario returns the embedded scenario with the given ID.
func DefaultScenario(id string) (Scenario, error) {
	data := GetDefaultYAML(id)
	if data == nil {
		return Scenario{}, fmt.Errorf("config: no built-in scenario %q", id)
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return Scenario{}, fmt.Errorf("config: embedded scenario %q is malformed: %w", id, err)
	}
	return sc, nil
}
