package activity

import "time"

// Sport types the classification rules care about
const (
	Walk           = "Walk"
	Hike           = "Hike"
	Run            = "Run"
	TrailRun       = "TrailRun"
	WeightTraining = "WeightTraining"
	Workout        = "Workout"
)

// Coordinate is a latitude/longitude pair in degrees
type Coordinate struct {
	Lat float64
	Lng float64
}

/* Activity is the subset of an upstream activity the refiner reads
 * Uses value semantics as it represents data, not behavior
 */
type Activity struct {
	ID          int64
	Name        string
	SportType   string
	Description string
	Trainer     bool
	Start       *Coordinate
	End         *Coordinate
	StartTime   time.Time
	Elapsed     time.Duration
	Polyline    string
}

// HasRoute reports whether the activity was recorded with GPS
func (a Activity) HasRoute() bool {
	return a.Polyline != ""
}

// HasEndpoints reports whether both start and end coordinates are known
func (a Activity) HasEndpoints() bool {
	return a.Start != nil && a.End != nil
}

// UpdateCommand holds the fields to change; nil fields are left untouched
type UpdateCommand struct {
	Name         *string
	SportType    *string
	Description  *string
	HideFromHome *bool
}

// IsEmpty reports whether the command would change nothing
func (c UpdateCommand) IsEmpty() bool {
	return c.Name == nil && c.SportType == nil && c.Description == nil && c.HideFromHome == nil
}

// String and Bool return pointers for building commands
func String(s string) *string { return &s }

func Bool(b bool) *bool { return &b }
