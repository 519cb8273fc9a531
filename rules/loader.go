package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

/* Loader reads label overrides from rules.yaml
 * Fields missing from the file keep their default value
 */

// Config represents the structure of rules.yaml
type Config struct {
	Labels LabelsConfig `yaml:"labels"`
}

// LabelsConfig represents the labels section in the YAML file
type LabelsConfig struct {
	ProcessedMarker  *string     `yaml:"processed_marker"`
	UnrefinedTag     *string     `yaml:"unrefined_tag"`
	TreadmillHike    *NameConfig `yaml:"treadmill_hike"`
	TreadmillRun     *NameConfig `yaml:"treadmill_run"`
	StrengthTraining *string     `yaml:"strength_training"`
	GeneralActivity  *string     `yaml:"general_activity"`
	RefinedPrefixes  []string    `yaml:"refined_prefixes"` // Replaces the defaults when present
}

// NameConfig pairs a canonical name with its to-be-refined placeholder
type NameConfig struct {
	Name        *string `yaml:"name"`
	Placeholder *string `yaml:"placeholder"`
}

// Loader holds the loaded labels
type Loader struct {
	labels Labels
}

// NewLoader creates a loader holding the default labels
func NewLoader() *Loader {
	return &Loader{
		labels: Defaults(),
	}
}

// Load reads and parses a rules.yaml file on top of the defaults
func (l *Loader) Load(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("reading rules file: %w", err)
	}
	return l.Parse(data)
}

// Parse applies YAML overrides held in memory
func (l *Loader) Parse(data []byte) error {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("parsing rules YAML: %w", err)
	}

	labels := Defaults()
	lc := config.Labels
	override(&labels.ProcessedMarker, lc.ProcessedMarker)
	override(&labels.UnrefinedTag, lc.UnrefinedTag)
	override(&labels.StrengthTrainingName, lc.StrengthTraining)
	override(&labels.GeneralActivityName, lc.GeneralActivity)
	if lc.TreadmillHike != nil {
		override(&labels.TreadmillHikeName, lc.TreadmillHike.Name)
		override(&labels.TreadmillHikePlaceholder, lc.TreadmillHike.Placeholder)
	}
	if lc.TreadmillRun != nil {
		override(&labels.TreadmillRunName, lc.TreadmillRun.Name)
		override(&labels.TreadmillRunPlaceholder, lc.TreadmillRun.Placeholder)
	}
	if lc.RefinedPrefixes != nil {
		labels.RefinedPrefixes = lc.RefinedPrefixes
	}

	if err := labels.Validate(); err != nil {
		return fmt.Errorf("validating labels: %w", err)
	}

	l.labels = labels
	return nil
}

// Labels returns the current labels
func (l *Loader) Labels() Labels {
	return l.labels
}

func override(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
