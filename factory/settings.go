/*
Package factory provides JSON/YAML to Go planning settings conversion.

PURPOSE:
  Converts company planning settings documents into generic.CompanySettings.
  The API accepts JSON; operators can ship company defaults as a YAML file
  (SETTINGS_FILE). Both go through the same defaults and validation.

JSON SCHEMA:
  {
    "weekly_hours": 37.5,
    "display_mode": "percentage",
    "thresholds": {
      "over_allocated": 1.0,
      "at_capacity": 0.8,
      "available": 0.2
    }
  }

YAML FILE:
  weekly_hours: 40
  display_mode: hours
  thresholds:
    at_capacity: 0.85

DEFAULTS:
  Any missing field falls back to generic.DefaultSettings(): a 40 hour
  week, percentage mode and 0.2 / 0.8 / 1.0 zone thresholds. A partial
  thresholds block only overrides the fields it names.

USAGE:
  f := factory.NewSettingsFactory()
  settings, err := f.ParseSettings(jsonString)

  // Company defaults from disk
  settings, err := f.LoadSettingsFile("planner.yaml")

SEE ALSO:
  - generic/settings.go: CompanySettings type definition
  - generic/insights.go: Thresholds
*/
package factory

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/warp/resource-planner/generic"
)

// =============================================================================
// SCHEMA TYPES
// =============================================================================

// SettingsJSON is the wire representation of company settings.
type SettingsJSON struct {
	WeeklyHours *float64        `json:"weekly_hours,omitempty" yaml:"weekly_hours,omitempty"`
	DisplayMode string          `json:"display_mode,omitempty" yaml:"display_mode,omitempty"`
	Thresholds  *ThresholdsJSON `json:"thresholds,omitempty" yaml:"thresholds,omitempty"`
}

// ThresholdsJSON represents zone thresholds as ratios (1.0 = 100%).
type ThresholdsJSON struct {
	OverAllocated *float64 `json:"over_allocated,omitempty" yaml:"over_allocated,omitempty"`
	AtCapacity    *float64 `json:"at_capacity,omitempty" yaml:"at_capacity,omitempty"`
	Available     *float64 `json:"available,omitempty" yaml:"available,omitempty"`
}

// =============================================================================
// SETTINGS FACTORY
// =============================================================================

// SettingsFactory converts settings documents to generic.CompanySettings.
type SettingsFactory struct {
	// Base supplies values for fields a document leaves out.
	Base generic.CompanySettings
}

// NewSettingsFactory creates a factory that defaults to generic.DefaultSettings.
func NewSettingsFactory() *SettingsFactory {
	return &SettingsFactory{Base: generic.DefaultSettings()}
}

// ParseSettings parses a JSON settings document.
func (f *SettingsFactory) ParseSettings(jsonStr string) (generic.CompanySettings, error) {
	var doc SettingsJSON
	if err := json.Unmarshal([]byte(jsonStr), &doc); err != nil {
		return generic.CompanySettings{}, fmt.Errorf("%w: %v", generic.ErrInvalidSettings, err)
	}
	return f.FromJSON(doc)
}

// ParseSettingsYAML parses a YAML settings document.
func (f *SettingsFactory) ParseSettingsYAML(data []byte) (generic.CompanySettings, error) {
	var doc SettingsJSON
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return generic.CompanySettings{}, fmt.Errorf("%w: %v", generic.ErrInvalidSettings, err)
	}
	return f.FromJSON(doc)
}

// LoadSettingsFile reads a YAML settings file.
func (f *SettingsFactory) LoadSettingsFile(path string) (generic.CompanySettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return generic.CompanySettings{}, fmt.Errorf("read settings file: %w", err)
	}
	return f.ParseSettingsYAML(data)
}

// FromJSON applies a decoded document over the factory's base settings.
func (f *SettingsFactory) FromJSON(doc SettingsJSON) (generic.CompanySettings, error) {
	s := f.Base
	if doc.WeeklyHours != nil {
		s.WeeklyHours = generic.NewHours(*doc.WeeklyHours)
	}
	if doc.DisplayMode != "" {
		mode, ok := generic.ParseDisplayMode(doc.DisplayMode)
		if !ok {
			return generic.CompanySettings{}, fmt.Errorf("%w: unknown display mode %q", generic.ErrInvalidSettings, doc.DisplayMode)
		}
		s.DisplayMode = mode
	}
	if t := doc.Thresholds; t != nil {
		if t.OverAllocated != nil {
			s.Thresholds.OverAllocated = decimal.NewFromFloat(*t.OverAllocated)
		}
		if t.AtCapacity != nil {
			s.Thresholds.AtCapacity = decimal.NewFromFloat(*t.AtCapacity)
		}
		if t.Available != nil {
			s.Thresholds.Available = decimal.NewFromFloat(*t.Available)
		}
	}
	if err := s.Validate(); err != nil {
		return generic.CompanySettings{}, err
	}
	return s, nil
}

// ToJSON converts settings back to the wire representation.
func ToJSON(s generic.CompanySettings) SettingsJSON {
	weekly := s.WeeklyHours.Float64()
	over, _ := s.Thresholds.OverAllocated.Float64()
	at, _ := s.Thresholds.AtCapacity.Float64()
	avail, _ := s.Thresholds.Available.Float64()
	return SettingsJSON{
		WeeklyHours: &weekly,
		DisplayMode: string(s.DisplayMode),
		Thresholds: &ThresholdsJSON{
			OverAllocated: &over,
			AtCapacity:    &at,
			Available:     &avail,
		},
	}
}
