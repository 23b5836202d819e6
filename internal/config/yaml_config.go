package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"smartcare/internal/instructions"
	"smartcare/internal/triage"
	"smartcare/internal/validation"
)

// ErrInvalidCatalog is returned when the catalog file parses but its content
// is not usable.
var ErrInvalidCatalog = errors.New("invalid catalog")

//go:embed catalog.default.yaml
var defaultCatalog []byte

// Feature card actions.
const (
	ActionRedirect = "redirect"
	ActionAlert    = "alert"
)

// Catalog represents the structure of the clinical catalog file.
// Clinical content lives here so it can change without a rebuild.
type Catalog struct {
	Version      string              `yaml:"version"`
	Triage       []TriageConfig      `yaml:"triage"`
	Instructions map[string][]string `yaml:"instructions"`
	Features     []FeatureConfig     `yaml:"features"`
}

// TriageConfig is one row of the symptom priority table.
type TriageConfig struct {
	Symptom  string `yaml:"symptom"`
	Name     string `yaml:"name"`     // Display name
	Priority string `yaml:"priority"` // Critical, High, Medium, Low
	Score    int    `yaml:"score"`    // 1-4, must match priority
}

// FeatureConfig defines a clickable feature card on the landing page.
type FeatureConfig struct {
	Key         string `yaml:"key"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon,omitempty"`
	Action      string `yaml:"action"`            // "redirect" or "alert"
	Target      string `yaml:"target,omitempty"`  // Redirect destination
	Message     string `yaml:"message,omitempty"` // Alert text
	Kind        string `yaml:"kind,omitempty"`    // Alert colour, defaults to info
}

// LoadCatalog loads the catalog file at path.
// Falls back to the built-in catalog if the file doesn't exist.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultCatalog()
		}
		return nil, err
	}
	return ParseCatalog(data)
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

// ParseCatalog decodes and validates catalog YAML.
func ParseCatalog(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	if _, err := cat.TriageTable(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	for i, f := range cat.Features {
		if f.Key == "" {
			return nil, fmt.Errorf("%w: feature %d has no key", ErrInvalidCatalog, i)
		}
		switch f.Action {
		case ActionRedirect:
			if !validation.ValidateRedirectTarget(f.Target) {
				return nil, fmt.Errorf("%w: feature %q redirects to %q, want a local path", ErrInvalidCatalog, f.Key, f.Target)
			}
		case ActionAlert:
			if f.Message == "" {
				return nil, fmt.Errorf("%w: feature %q has no message", ErrInvalidCatalog, f.Key)
			}
		default:
			return nil, fmt.Errorf("%w: feature %q has unknown action %q", ErrInvalidCatalog, f.Key, f.Action)
		}
	}

	return &cat, nil
}

// TriageTable builds the priority table described by the catalog.
func (c *Catalog) TriageTable() (*triage.Table, error) {
	if c == nil || len(c.Triage) == 0 {
		return triage.DefaultTable(), nil
	}
	entries := make([]triage.Entry, 0, len(c.Triage))
	for _, t := range c.Triage {
		entries = append(entries, triage.Entry{
			Symptom:     t.Symptom,
			DisplayName: t.Name,
			Classification: triage.Classification{
				Label: triage.Label(t.Priority),
				Rank:  t.Score,
			},
		})
	}
	return triage.NewTable(entries)
}

// InstructionCatalog builds the first-aid catalog described by the catalog.
func (c *Catalog) InstructionCatalog() *instructions.Catalog {
	if c == nil || c.Instructions == nil {
		return instructions.DefaultCatalog()
	}
	return instructions.NewCatalog(c.Instructions)
}

// GetFeature finds a feature card by its key.
func (c *Catalog) GetFeature(key string) *FeatureConfig {
	if c == nil {
		return nil
	}
	for i := range c.Features {
		if c.Features[i].Key == key {
			return &c.Features[i]
		}
	}
	return nil
}
