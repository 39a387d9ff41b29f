package config

import (
	"encoding/json"
	"os"

	"gopkg.in/yaml.v3"
)

// scaffoldConfig mirrors Config so the scaffold writer controls field
// order independently of the runtime type.
type scaffoldConfig struct {
	Version    int                    `yaml:"version" json:"version"`
	Filters    FilterConfiguration    `yaml:"filters" json:"filters"`
	Mappings   MappingConfiguration   `yaml:"mappings" json:"mappings"`
	Exclusions ExclusionConfiguration `yaml:"exclusions" json:"exclusions"`
	Rules      BreakingChangeRules    `yaml:"rules" json:"rules"`
	Output     OutputConfig           `yaml:"output" json:"output"`
	Logging    LoggingConfig          `yaml:"logging" json:"logging"`
}

// WriteScaffold writes a default configuration file in the given format
// ("json" or "yaml") for apidiff init.
func WriteScaffold(path, format string) error {
	cfg := DefaultConfig()
	doc := scaffoldConfig{
		Version:    cfg.Version,
		Filters:    cfg.Filters,
		Mappings:   cfg.Mappings,
		Exclusions: cfg.Exclusions,
		Rules:      cfg.Rules,
		Output:     cfg.Output,
		Logging:    cfg.Logging,
	}

	var data []byte
	var err error
	if format == "yaml" {
		data, err = yaml.Marshal(&doc)
	} else {
		data, err = json.MarshalIndent(&doc, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
