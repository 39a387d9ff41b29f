package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"apidiff/internal/apierrors"
)

// CurrentVersion is the supported configuration schema version
const CurrentVersion = 1

// Config is the complete apidiff configuration
type Config struct {
	Version int `json:"version" yaml:"version" mapstructure:"version"`

	Filters    FilterConfiguration    `json:"filters" yaml:"filters" mapstructure:"filters"`
	Mappings   MappingConfiguration   `json:"mappings" yaml:"mappings" mapstructure:"mappings"`
	Exclusions ExclusionConfiguration `json:"exclusions" yaml:"exclusions" mapstructure:"exclusions"`
	Rules      BreakingChangeRules    `json:"rules" yaml:"rules" mapstructure:"rules"`
	Output     OutputConfig           `json:"output" yaml:"output" mapstructure:"output"`
	Logging    LoggingConfig          `json:"logging" yaml:"logging" mapstructure:"logging"`
}

// FilterConfiguration narrows which types take part in the comparison
type FilterConfiguration struct {
	// IncludeNamespaces keeps only types whose namespace matches one of
	// these prefixes; empty means all namespaces
	IncludeNamespaces []string `json:"includeNamespaces,omitempty" yaml:"includeNamespaces" mapstructure:"includeNamespaces"`
	ExcludeNamespaces []string `json:"excludeNamespaces,omitempty" yaml:"excludeNamespaces" mapstructure:"excludeNamespaces"`
	// IncludeTypes and ExcludeTypes are wildcard patterns (* and ?)
	// against fully qualified type names
	IncludeTypes []string `json:"includeTypes,omitempty" yaml:"includeTypes" mapstructure:"includeTypes"`
	ExcludeTypes []string `json:"excludeTypes,omitempty" yaml:"excludeTypes" mapstructure:"excludeTypes"`
	// CaseSensitiveNamespaces controls namespace prefix matching
	CaseSensitiveNamespaces bool `json:"caseSensitiveNamespaces" yaml:"caseSensitiveNamespaces" mapstructure:"caseSensitiveNamespaces"`
	// IncludeInternals keeps types that are not externally visible
	IncludeInternals bool `json:"includeInternals" yaml:"includeInternals" mapstructure:"includeInternals"`
	// IncludeCompilerGenerated keeps compiler-synthesized types
	IncludeCompilerGenerated bool `json:"includeCompilerGenerated" yaml:"includeCompilerGenerated" mapstructure:"includeCompilerGenerated"`
}

// MappingConfiguration translates old names to candidate new names
type MappingConfiguration struct {
	// NamespaceMappings maps one source namespace to one or more target
	// namespaces
	NamespaceMappings map[string][]string `json:"namespaceMappings,omitempty" yaml:"namespaceMappings" mapstructure:"namespaceMappings"`
	// TypeMappings maps one fully qualified type name to exactly one
	// new fully qualified name; an exact hit wins over namespace logic
	TypeMappings map[string]string `json:"typeMappings,omitempty" yaml:"typeMappings" mapstructure:"typeMappings"`
	// AutoMapSameNameTypes enables last-resort matching by simple name
	AutoMapSameNameTypes bool `json:"autoMapSameNameTypes" yaml:"autoMapSameNameTypes" mapstructure:"autoMapSameNameTypes"`
	// CaseSensitive applies uniformly to namespace, type, and auto-map
	// matching
	CaseSensitive bool `json:"caseSensitive" yaml:"caseSensitive" mapstructure:"caseSensitive"`
}

// ExclusionConfiguration removes differences from breaking-change accounting
type ExclusionConfiguration struct {
	ExcludedTypes   []string `json:"excludedTypes,omitempty" yaml:"excludedTypes" mapstructure:"excludedTypes"`
	ExcludedMembers []string `json:"excludedMembers,omitempty" yaml:"excludedMembers" mapstructure:"excludedMembers"`
	// Wildcard patterns (* and ?), compiled once at classifier construction
	TypePatterns   []string `json:"typePatterns,omitempty" yaml:"typePatterns" mapstructure:"typePatterns"`
	MemberPatterns []string `json:"memberPatterns,omitempty" yaml:"memberPatterns" mapstructure:"memberPatterns"`
}

// BreakingChangeRules is the per-change-kind breaking policy.
// nil values mean "use default" - only set values override the defaults.
type BreakingChangeRules struct {
	AddedTypeBreaking       *bool `json:"addedTypeBreaking,omitempty" yaml:"addedTypeBreaking" mapstructure:"addedTypeBreaking"`
	AddedMemberBreaking     *bool `json:"addedMemberBreaking,omitempty" yaml:"addedMemberBreaking" mapstructure:"addedMemberBreaking"`
	RemovedTypeBreaking     *bool `json:"removedTypeBreaking,omitempty" yaml:"removedTypeBreaking" mapstructure:"removedTypeBreaking"`
	RemovedMemberBreaking   *bool `json:"removedMemberBreaking,omitempty" yaml:"removedMemberBreaking" mapstructure:"removedMemberBreaking"`
	SignatureChangeBreaking *bool `json:"signatureChangeBreaking,omitempty" yaml:"signatureChangeBreaking" mapstructure:"signatureChangeBreaking"`
}

// Rule defaults: additions are safe, removals are not. The signature
// rule is off so the calculator's per-cause verdicts stand; enabling it
// hardens every textual signature change to a breaking error.
const (
	defaultAddedBreaking           = false
	defaultRemovedBreaking         = true
	defaultSignatureChangeBreaking = false
)

func ruleValue(v *bool, def bool) bool {
	if v != nil {
		return *v
	}
	return def
}

// IsAddedTypeBreaking resolves the added-type rule
func (r *BreakingChangeRules) IsAddedTypeBreaking() bool {
	return ruleValue(r.AddedTypeBreaking, defaultAddedBreaking)
}

// IsAddedMemberBreaking resolves the added-member rule
func (r *BreakingChangeRules) IsAddedMemberBreaking() bool {
	return ruleValue(r.AddedMemberBreaking, defaultAddedBreaking)
}

// IsRemovedTypeBreaking resolves the removed-type rule
func (r *BreakingChangeRules) IsRemovedTypeBreaking() bool {
	return ruleValue(r.RemovedTypeBreaking, defaultRemovedBreaking)
}

// IsRemovedMemberBreaking resolves the removed-member rule
func (r *BreakingChangeRules) IsRemovedMemberBreaking() bool {
	return ruleValue(r.RemovedMemberBreaking, defaultRemovedBreaking)
}

// IsSignatureChangeBreaking resolves the signature-change rule
func (r *BreakingChangeRules) IsSignatureChangeBreaking() bool {
	return ruleValue(r.SignatureChangeBreaking, defaultSignatureChangeBreaking)
}

// OutputConfig controls report rendering
type OutputConfig struct {
	// Format is one of console, json, markdown, html
	Format string `json:"format" yaml:"format" mapstructure:"format"`
	// Path writes the report to a file instead of stdout when set
	Path string `json:"path,omitempty" yaml:"path" mapstructure:"path"`
	// IncludeNonBreaking includes non-breaking differences in rendered
	// output (all differences are always present in the result)
	IncludeNonBreaking bool `json:"includeNonBreaking" yaml:"includeNonBreaking" mapstructure:"includeNonBreaking"`
	// FailOnBreaking makes the CLI exit non-zero when breaking changes
	// are found (CI gate)
	FailOnBreaking bool `json:"failOnBreaking" yaml:"failOnBreaking" mapstructure:"failOnBreaking"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" yaml:"format" mapstructure:"format"`
	Level  string `json:"level" yaml:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Filters: FilterConfiguration{
			CaseSensitiveNamespaces:  true,
			IncludeInternals:         false,
			IncludeCompilerGenerated: false,
		},
		Mappings: MappingConfiguration{
			NamespaceMappings:    map[string][]string{},
			TypeMappings:         map[string]string{},
			AutoMapSameNameTypes: false,
			CaseSensitive:        true,
		},
		Exclusions: ExclusionConfiguration{},
		Rules:      BreakingChangeRules{},
		Output: OutputConfig{
			Format:             "console",
			IncludeNonBreaking: true,
			FailOnBreaking:     true,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from an explicit file path, or from
// apidiff.{json,yaml} in the working directory when path is empty.
// A missing config file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("apidiff")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if path == "" {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				return DefaultConfig(), nil
			}
		}
		return nil, apierrors.New(apierrors.ConfigInvalid, "failed to read configuration", err)
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, apierrors.New(apierrors.ConfigInvalid, "failed to parse configuration", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return apierrors.Errorf(apierrors.ConfigInvalid, "unsupported config version %d", c.Version)
	}

	switch c.Output.Format {
	case "", "console", "json", "markdown", "html":
	default:
		return apierrors.Errorf(apierrors.ConfigInvalid, "unsupported output format %q", c.Output.Format)
	}

	return nil
}

// Save writes the configuration as JSON
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return os.WriteFile(path, append(data, '\n'), 0644)
}
