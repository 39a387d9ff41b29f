package config

import (
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"apidiff/internal/apierrors"
)

// MappingsFile is the default name of the standalone mapping rules file
const MappingsFile = "MAPPINGS.toml"

// mappingsDocument is the on-disk shape of a MAPPINGS.toml file
type mappingsDocument struct {
	// Namespaces maps one source namespace to one or more targets
	Namespaces map[string][]string `toml:"namespaces,omitempty"`

	// Types maps one fully qualified type name to its new name
	Types map[string]string `toml:"types,omitempty"`

	// AutoMapSameNameTypes enables simple-name auto matching
	AutoMapSameNameTypes bool `toml:"autoMapSameNameTypes,omitempty"`

	// CaseSensitive toggles case sensitivity for all name matching
	CaseSensitive *bool `toml:"caseSensitive,omitempty"`
}

// LoadMappingsFile reads a TOML mapping rules file and merges it into
// the given mapping configuration. File entries win over config entries
// with the same key.
func LoadMappingsFile(path string, into *MappingConfiguration) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return apierrors.New(apierrors.ConfigInvalid, "failed to read mappings file", err)
	}

	var doc mappingsDocument
	if err := toml.Unmarshal(data, &doc); err != nil {
		return apierrors.New(apierrors.ConfigInvalid, "failed to parse mappings file", err)
	}

	if into.NamespaceMappings == nil {
		into.NamespaceMappings = map[string][]string{}
	}
	if into.TypeMappings == nil {
		into.TypeMappings = map[string]string{}
	}

	for src, targets := range doc.Namespaces {
		into.NamespaceMappings[src] = targets
	}
	for src, target := range doc.Types {
		into.TypeMappings[src] = target
	}

	if doc.AutoMapSameNameTypes {
		into.AutoMapSameNameTypes = true
	}
	if doc.CaseSensitive != nil {
		into.CaseSensitive = *doc.CaseSensitive
	}

	return nil
}
