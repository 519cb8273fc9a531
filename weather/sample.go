package weather

import "time"

// Location is where weather is sampled
type Location struct {
	Lat float64
	Lng float64
}

// Sample is one quarter-hour observation in imperial units
type Sample struct {
	Time          time.Time
	TemperatureF  float64
	DewPointF     float64
	HumidityPct   float64
	PrecipIn      float64
	Sky           SkyCode
	WindSpeedMph  float64
	WindGustMph   float64
	WindDirection float64 // degrees, meteorological (direction wind blows from)
}

// Summary is an aggregated sample, labeled when it is part of a multi-window narrative
type Summary struct {
	Label  string
	Sample Sample
}

// Summary labels
const (
	LabelStart  = "Start"
	LabelMiddle = "Middle"
	LabelEnd    = "End"
)
