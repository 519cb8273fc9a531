package main

import (
	"fmt"
	"os"

	"github.com/marcelsud/activity-refiner/rules"
)

/* validate-rules - Standalone CLI tool to validate rules.yaml
 * Usage: go run cmd/validate-rules/main.go [rules.yaml]
 * Exit codes: 0 = valid, 1 = invalid
 */

func main() {
	rulesFile := "rules.yaml"
	if len(os.Args) > 1 {
		rulesFile = os.Args[1]
	}

	fmt.Printf("Validating rules file: %s\n\n", rulesFile)

	loader := rules.NewLoader()
	if err := loader.Load(rulesFile); err != nil {
		fmt.Fprintf(os.Stderr, "❌ VALIDATION FAILED\n\n")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	l := loader.Labels()
	fmt.Printf("✓ VALIDATION PASSED\n\n")
	fmt.Printf("Processed marker:  %q\n", l.ProcessedMarker)
	fmt.Printf("Unrefined tag:     %q\n", l.UnrefinedTag)
	fmt.Printf("Treadmill hike:    %q (placeholder %q)\n", l.TreadmillHikeName, l.TreadmillHikePlaceholder)
	fmt.Printf("Treadmill run:     %q (placeholder %q)\n", l.TreadmillRunName, l.TreadmillRunPlaceholder)
	fmt.Printf("Strength training: %q\n", l.StrengthTrainingName)
	fmt.Printf("General activity:  %q\n", l.GeneralActivityName)
	fmt.Printf("Refined prefixes:  %v\n", l.RefinedPrefixes)
	os.Exit(0)
}
