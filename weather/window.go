package weather

import (
	"errors"
	"sort"
	"time"
)

// ErrNoSamples is returned when there is nothing to summarize
var ErrNoSamples = errors.New("no weather samples")

const (
	// SamplePadding widens the fetched range on both sides of the activity
	SamplePadding = 15 * time.Minute
	// SingleWindowLimit is the elapsed time below which one summary covers the activity
	SingleWindowLimit = time.Hour
	// MiddleWindowFrom is the elapsed time from which a Middle summary is added
	MiddleWindowFrom = 3 * time.Hour
)

// Summarize maps samples onto one, two or three summaries depending on elapsed
func Summarize(samples []Sample, start time.Time, elapsed time.Duration) ([]Summary, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}

	sorted := make([]Sample, len(samples))
	copy(sorted, samples)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.Before(sorted[j].Time)
	})

	end := start.Add(elapsed)

	switch {
	case elapsed < SingleWindowLimit:
		in := within(sorted, start, end)
		if len(in) == 0 {
			in = []Sample{nearest(sorted, start)}
		}
		return []Summary{{Sample: Aggregate(in)}}, nil
	case elapsed < MiddleWindowFrom:
		return []Summary{
			{Label: LabelStart, Sample: Aggregate(bracket(sorted, start))},
			{Label: LabelEnd, Sample: Aggregate(bracket(sorted, end))},
		}, nil
	default:
		middle := start.Add(elapsed / 2)
		return []Summary{
			{Label: LabelStart, Sample: Aggregate(bracket(sorted, start))},
			{Label: LabelMiddle, Sample: Aggregate(bracket(sorted, middle))},
			{Label: LabelEnd, Sample: Aggregate(bracket(sorted, end))},
		}, nil
	}
}

// within returns samples with from <= t <= to
func within(sorted []Sample, from, to time.Time) []Sample {
	var out []Sample
	for _, s := range sorted {
		if !s.Time.Before(from) && !s.Time.After(to) {
			out = append(out, s)
		}
	}
	return out
}

// nearest returns the sample closest to anchor; ties go to the earlier one
func nearest(sorted []Sample, anchor time.Time) Sample {
	best := sorted[0]
	bestDiff := absDuration(best.Time.Sub(anchor))
	for _, s := range sorted[1:] {
		if d := absDuration(s.Time.Sub(anchor)); d < bestDiff {
			best, bestDiff = s, d
		}
	}
	return best
}

// bracket returns the nearest samples at/before and at/after anchor.
// A missing side is dropped and a sample sitting on the anchor is used once.
func bracket(sorted []Sample, anchor time.Time) []Sample {
	var before, after *Sample
	for i := range sorted {
		s := &sorted[i]
		if !s.Time.After(anchor) {
			before = s
		}
		if after == nil && !s.Time.Before(anchor) {
			after = s
		}
	}

	switch {
	case before == nil:
		return []Sample{*after}
	case after == nil:
		return []Sample{*before}
	case before.Time.Equal(after.Time):
		return []Sample{*before}
	default:
		return []Sample{*before, *after}
	}
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
