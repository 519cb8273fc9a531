package weather

import (
	"fmt"
	"math"
	"strings"
)

var compassPoints = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// Compass maps degrees onto 16 sectors of 22.5° centered on each point
func Compass(degrees float64) string {
	d := math.Mod(degrees, 360)
	if d < 0 {
		d += 360
	}
	idx := int(math.Floor((d+11.25)/22.5)) % len(compassPoints)
	return compassPoints[idx]
}

// round is the single rounding rule for every printed number
func round(v float64) int {
	return int(math.Round(v))
}

// Format renders one sample as a single line
func Format(s Sample) string {
	precip := ""
	if s.PrecipIn > 0 {
		precip = ", some precip"
	}
	return fmt.Sprintf("%dF, Dew %dF, Hum %d%%, Wind %dmph %s (gust %d), Sky %s%s",
		round(s.TemperatureF),
		round(s.DewPointF),
		round(s.HumidityPct),
		round(s.WindSpeedMph),
		Compass(s.WindDirection),
		round(s.WindGustMph),
		s.Sky,
		precip,
	)
}

// String renders the summary, prefixed by its label when it has one
func (s Summary) String() string {
	if s.Label == "" {
		return Format(s.Sample)
	}
	return s.Label + ": " + Format(s.Sample)
}

// Narrative joins summaries one per line
func Narrative(summaries []Summary) string {
	lines := make([]string, 0, len(summaries))
	for _, s := range summaries {
		lines = append(lines, s.String())
	}
	return strings.Join(lines, "\n")
}
