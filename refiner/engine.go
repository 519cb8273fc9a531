package refiner

import (
	"context"
	"fmt"
	"time"

	"github.com/marcelsud/activity-refiner/activity"
	"github.com/marcelsud/activity-refiner/rules"
	"github.com/marcelsud/activity-refiner/weather"
	"github.com/rs/zerolog"
)

// Rule names, also used as metric labels
const (
	RuleAlreadyRefined  = "already_refined"
	RuleOutdoorWalk     = "outdoor_walk"
	RuleTreadmillHike   = "treadmill_hike"
	RuleTreadmillRun    = "treadmill_run"
	RuleWeather         = "weather"
	RuleStrength        = "strength_training"
	RuleGeneralActivity = "general_activity"
	RuleNone            = "none"
)

// Narrator renders the weather over an activity's time span
type Narrator interface {
	Describe(ctx context.Context, start time.Time, elapsed time.Duration, at weather.Location) (string, error)
}

// Decision is the outcome of classifying one activity
type Decision struct {
	Rule    string
	Command activity.UpdateCommand
}

// Update reports whether the decision writes anything
func (d Decision) Update() bool {
	return !d.Command.IsEmpty()
}

// Engine decides how an activity should be rewritten. It never writes.
type Engine struct {
	labels   rules.Labels
	narrator Narrator
	logger   zerolog.Logger
}

// NewEngine creates a new classification engine
func NewEngine(labels rules.Labels, narrator Narrator, logger zerolog.Logger) *Engine {
	return &Engine{
		labels:   labels,
		narrator: narrator,
		logger:   logger,
	}
}

// Decide returns the update to apply and whether there is one
func (e *Engine) Decide(ctx context.Context, a activity.Activity) (activity.UpdateCommand, bool, error) {
	d, err := e.Classify(ctx, a)
	if err != nil {
		return activity.UpdateCommand{}, false, err
	}
	return d.Command, d.Update(), nil
}

// Classify runs the guard and then the first matching rule
func (e *Engine) Classify(ctx context.Context, a activity.Activity) (Decision, error) {
	l := e.labels

	if activity.IsProcessed(a.Description, l.ProcessedMarker) || l.HasRefinedPrefix(a.Name) {
		return Decision{Rule: RuleAlreadyRefined}, nil
	}

	switch {
	case a.SportType == activity.Walk && a.Name != l.TreadmillHikeName:
		if a.HasRoute() || !a.Trainer {
			return e.write(RuleOutdoorWalk, a.Description, activity.UpdateCommand{
				HideFromHome: activity.Bool(true),
			}), nil
		}
		return e.write(RuleTreadmillHike, activity.AppendLine(a.Description, l.UnrefinedTag), activity.UpdateCommand{
			Name:         activity.String(l.TreadmillHikePlaceholder),
			SportType:    activity.String(activity.Hike),
			HideFromHome: activity.Bool(true),
		}), nil

	case a.SportType == activity.Run && !a.HasRoute() && a.Name != l.TreadmillRunName:
		return e.write(RuleTreadmillRun, activity.AppendLine(a.Description, l.UnrefinedTag), activity.UpdateCommand{
			Name:         activity.String(l.TreadmillRunPlaceholder),
			HideFromHome: activity.Bool(true),
		}), nil

	case isOnFoot(a.SportType) && a.HasEndpoints():
		narrative, err := e.narrator.Describe(ctx, a.StartTime, a.Elapsed, weather.Location{Lat: a.Start.Lat, Lng: a.Start.Lng})
		if err != nil {
			return Decision{}, fmt.Errorf("describing weather for activity %d: %w", a.ID, err)
		}
		return e.write(RuleWeather, activity.AppendLine(a.Description, narrative), activity.UpdateCommand{}), nil

	case a.SportType == activity.WeightTraining:
		return e.write(RuleStrength, a.Description, activity.UpdateCommand{
			Name:         activity.String(l.StrengthTrainingName),
			SportType:    activity.String(activity.WeightTraining),
			HideFromHome: activity.Bool(true),
		}), nil

	case a.SportType == activity.Workout && !a.HasRoute():
		return e.write(RuleGeneralActivity, a.Description, activity.UpdateCommand{
			Name:         activity.String(l.GeneralActivityName),
			HideFromHome: activity.Bool(true),
		}), nil
	}

	return Decision{Rule: RuleNone}, nil
}

// write is the single exit of every write branch: it stamps the marker
// onto the composed description
func (e *Engine) write(rule, description string, cmd activity.UpdateCommand) Decision {
	cmd.Description = activity.String(activity.MarkProcessed(description, e.labels.ProcessedMarker))
	return Decision{Rule: rule, Command: cmd}
}

func isOnFoot(sport string) bool {
	switch sport {
	case activity.Run, activity.TrailRun, activity.Hike:
		return true
	}
	return false
}
