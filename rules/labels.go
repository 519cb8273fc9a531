package rules

import (
	"fmt"
	"strings"
)

/* Labels holds every piece of text the classification rules write or match
 * Defaults cover the usual setup; a rules.yaml file may override any of them
 */
type Labels struct {
	ProcessedMarker          string
	UnrefinedTag             string
	TreadmillHikeName        string
	TreadmillHikePlaceholder string
	TreadmillRunName         string
	TreadmillRunPlaceholder  string
	StrengthTrainingName     string
	GeneralActivityName      string
	RefinedPrefixes          []string // Names starting with one of these were already refined by hand
}

// Defaults returns the built-in labels
func Defaults() Labels {
	return Labels{
		ProcessedMarker:          "[refined]",
		UnrefinedTag:             "#unrefined",
		TreadmillHikeName:        "Treadmill Hike",
		TreadmillHikePlaceholder: "Treadmill Hike (to be refined)",
		TreadmillRunName:         "Treadmill Run",
		TreadmillRunPlaceholder:  "Treadmill Run (to be refined)",
		StrengthTrainingName:     "Strength Training",
		GeneralActivityName:      "General Activity",
		RefinedPrefixes:          []string{"Treadmill Hike", "Treadmill Run"},
	}
}

// Validate checks if the labels are usable by the rules
func (l *Labels) Validate() error {
	required := map[string]string{
		"processed_marker":           l.ProcessedMarker,
		"treadmill_hike.name":        l.TreadmillHikeName,
		"treadmill_hike.placeholder": l.TreadmillHikePlaceholder,
		"treadmill_run.name":         l.TreadmillRunName,
		"treadmill_run.placeholder":  l.TreadmillRunPlaceholder,
		"strength_training":          l.StrengthTrainingName,
		"general_activity":           l.GeneralActivityName,
	}
	for key, value := range required {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s cannot be empty", key)
		}
	}
	if l.TreadmillHikePlaceholder == l.TreadmillHikeName {
		return fmt.Errorf("treadmill_hike.placeholder must differ from treadmill_hike.name")
	}
	if l.TreadmillRunPlaceholder == l.TreadmillRunName {
		return fmt.Errorf("treadmill_run.placeholder must differ from treadmill_run.name")
	}
	if l.UnrefinedTag != "" && strings.Contains(l.UnrefinedTag, l.ProcessedMarker) {
		return fmt.Errorf("unrefined_tag must not contain processed_marker")
	}
	for i, prefix := range l.RefinedPrefixes {
		if strings.TrimSpace(prefix) == "" {
			return fmt.Errorf("refined_prefixes[%d] cannot be empty", i)
		}
	}
	return nil
}

// HasRefinedPrefix reports whether name starts with any refined prefix
func (l *Labels) HasRefinedPrefix(name string) bool {
	for _, prefix := range l.RefinedPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
