package weather

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, time.June, 1, 14, 0, 0, 0, time.UTC)

func at(minutes int) time.Time {
	return t0.Add(time.Duration(minutes) * time.Minute)
}

func sampleAt(minutes int, tempF float64, sky SkyCode) Sample {
	return Sample{
		Time:          at(minutes),
		TemperatureF:  tempF,
		DewPointF:     tempF - 10,
		HumidityPct:   50,
		Sky:           sky,
		WindSpeedMph:  5,
		WindGustMph:   10,
		WindDirection: 90,
	}
}

// quarterHours returns samples every 15 minutes from -15 to last, temperature = minute offset
func quarterHours(last int) []Sample {
	var out []Sample
	for m := -15; m <= last; m += 15 {
		out = append(out, sampleAt(m, float64(m), Clear))
	}
	return out
}

func TestCompass(t *testing.T) {
	cases := []struct {
		degrees float64
		want    string
	}{
		{0, "N"},
		{11.2, "N"},
		{11.3, "NNE"},
		{350, "N"},
		{348.75, "N"},
		{348.7, "NNW"},
		{45, "NE"},
		{90, "E"},
		{180, "S"},
		{202.5, "SSW"},
		{270, "W"},
		{360, "N"},
		{-90, "W"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Compass(tc.degrees), "degrees %v", tc.degrees)
	}
}

func TestAggregate(t *testing.T) {
	t.Run("means, sums and first direction", func(t *testing.T) {
		samples := []Sample{
			{Time: at(0), TemperatureF: 60, DewPointF: 40, HumidityPct: 40, PrecipIn: 0.01, WindSpeedMph: 4, WindGustMph: 8, WindDirection: 10, Sky: Clear},
			{Time: at(15), TemperatureF: 70, DewPointF: 50, HumidityPct: 60, PrecipIn: 0.02, WindSpeedMph: 6, WindGustMph: 12, WindDirection: 200, Sky: Clear},
		}

		got := Aggregate(samples)

		assert.InDelta(t, 65, got.TemperatureF, 1e-9)
		assert.InDelta(t, 45, got.DewPointF, 1e-9)
		assert.InDelta(t, 50, got.HumidityPct, 1e-9)
		assert.InDelta(t, 0.03, got.PrecipIn, 1e-9)
		assert.InDelta(t, 5, got.WindSpeedMph, 1e-9)
		assert.InDelta(t, 10, got.WindGustMph, 1e-9)
		assert.Equal(t, 10.0, got.WindDirection)
	})

	t.Run("warm overcast with a clear spell becomes mainly clear", func(t *testing.T) {
		got := Aggregate([]Sample{sampleAt(0, 55, Overcast), sampleAt(15, 65, MainlyClear)})
		assert.Equal(t, MainlyClear, got.Sky)
	})

	t.Run("warm overcast with partly cloudy becomes partly cloudy", func(t *testing.T) {
		got := Aggregate([]Sample{sampleAt(0, 60, Overcast), sampleAt(15, 60, PartlyCloudy)})
		assert.Equal(t, PartlyCloudy, got.Sky)
	})

	t.Run("warm partly cloudy with clear becomes mainly clear", func(t *testing.T) {
		got := Aggregate([]Sample{sampleAt(0, 60, PartlyCloudy), sampleAt(15, 60, Clear)})
		assert.Equal(t, MainlyClear, got.Sky)
	})

	t.Run("cold days keep the most severe code", func(t *testing.T) {
		got := Aggregate([]Sample{sampleAt(0, 40, Overcast), sampleAt(15, 45, MainlyClear)})
		assert.Equal(t, Overcast, got.Sky)
	})

	t.Run("precipitation is never softened", func(t *testing.T) {
		got := Aggregate([]Sample{sampleAt(0, 70, LightRain), sampleAt(15, 70, Clear)})
		assert.Equal(t, LightRain, got.Sky)
	})

	t.Run("threshold is inclusive", func(t *testing.T) {
		got := Aggregate([]Sample{sampleAt(0, 45, Overcast), sampleAt(15, 55, Clear)})
		assert.Equal(t, MainlyClear, got.Sky)
	})
}

func TestSummarize(t *testing.T) {
	t.Run("short activity averages in-range samples", func(t *testing.T) {
		summaries, err := Summarize(quarterHours(45), t0, 1800*time.Second)
		require.NoError(t, err)
		require.Len(t, summaries, 1)

		// samples at 0, 15 and 30 are inside [start, end]
		assert.Empty(t, summaries[0].Label)
		assert.InDelta(t, 15, summaries[0].Sample.TemperatureF, 1e-9)
	})

	t.Run("short activity falls back to the nearest sample", func(t *testing.T) {
		samples := []Sample{sampleAt(-15, 40, Clear), sampleAt(-5, 41, Clear), sampleAt(45, 42, Clear)}

		summaries, err := Summarize(samples, t0, 1800*time.Second)
		require.NoError(t, err)
		require.Len(t, summaries, 1)
		assert.Equal(t, 41.0, summaries[0].Sample.TemperatureF)
	})

	t.Run("two hours gives start and end bracketing pairs", func(t *testing.T) {
		samples := []Sample{
			sampleAt(-10, 50, Clear),
			sampleAt(5, 60, Clear),
			sampleAt(110, 70, Clear),
			sampleAt(125, 80, Clear),
		}

		summaries, err := Summarize(samples, t0, 7200*time.Second)
		require.NoError(t, err)
		require.Len(t, summaries, 2)

		assert.Equal(t, LabelStart, summaries[0].Label)
		assert.Equal(t, 55.0, summaries[0].Sample.TemperatureF)
		assert.Equal(t, LabelEnd, summaries[1].Label)
		assert.Equal(t, 75.0, summaries[1].Sample.TemperatureF)
	})

	t.Run("three hours adds a middle summary", func(t *testing.T) {
		summaries, err := Summarize(quarterHours(195), t0, 3*time.Hour)
		require.NoError(t, err)
		require.Len(t, summaries, 3)

		assert.Equal(t, []string{LabelStart, LabelMiddle, LabelEnd},
			[]string{summaries[0].Label, summaries[1].Label, summaries[2].Label})
		// anchors sit exactly on samples, which are used once
		assert.Equal(t, 0.0, summaries[0].Sample.TemperatureF)
		assert.Equal(t, 90.0, summaries[1].Sample.TemperatureF)
		assert.Equal(t, 180.0, summaries[2].Sample.TemperatureF)
	})

	t.Run("one-sided bracket uses the available sample", func(t *testing.T) {
		samples := []Sample{sampleAt(-5, 50, Clear), sampleAt(10, 60, Clear)}

		summaries, err := Summarize(samples, t0, 2*time.Hour)
		require.NoError(t, err)
		require.Len(t, summaries, 2)
		assert.Equal(t, 55.0, summaries[0].Sample.TemperatureF)
		assert.Equal(t, 60.0, summaries[1].Sample.TemperatureF)
	})

	t.Run("unsorted input is handled", func(t *testing.T) {
		samples := []Sample{sampleAt(30, 30, Clear), sampleAt(0, 0, Clear), sampleAt(15, 15, Clear)}

		summaries, err := Summarize(samples, t0, 1800*time.Second)
		require.NoError(t, err)
		assert.Equal(t, at(0), summaries[0].Sample.Time)
	})

	t.Run("no samples", func(t *testing.T) {
		_, err := Summarize(nil, t0, time.Hour)
		assert.ErrorIs(t, err, ErrNoSamples)
	})
}

func TestFormat(t *testing.T) {
	t.Run("renders every field", func(t *testing.T) {
		s := Sample{
			TemperatureF:  71.5,
			DewPointF:     55.4,
			HumidityPct:   62.49,
			PrecipIn:      0.01,
			Sky:           PartlyCloudy,
			WindSpeedMph:  8.6,
			WindGustMph:   15.2,
			WindDirection: 225,
		}

		assert.Equal(t, "72F, Dew 55F, Hum 62%, Wind 9mph SW (gust 15), Sky PartlyCloudy, some precip", Format(s))
	})

	t.Run("labels and line breaks", func(t *testing.T) {
		summaries := []Summary{
			{Label: LabelStart, Sample: sampleAt(0, 60, Clear)},
			{Label: LabelEnd, Sample: sampleAt(90, 62, Overcast)},
		}

		lines := strings.Split(Narrative(summaries), "\n")
		require.Len(t, lines, 2)
		assert.True(t, strings.HasPrefix(lines[0], "Start: 60F"))
		assert.True(t, strings.HasPrefix(lines[1], "End: 62F"))
	})

	t.Run("numbers parse back to the rounded values", func(t *testing.T) {
		pattern := regexp.MustCompile(`^(-?\d+)F, Dew (-?\d+)F, Hum (\d+)%, Wind (\d+)mph [A-Z]+ \(gust (\d+)\), Sky \w+$`)
		values := []float64{-3.5, 0.49, 12.5, 49.99, 88.2}

		for _, v := range values {
			s := Sample{TemperatureF: v, DewPointF: v - 1, HumidityPct: v + 20, WindSpeedMph: v + 10, WindGustMph: v + 15, Sky: Clear}
			m := pattern.FindStringSubmatch(Format(s))
			require.NotNil(t, m, Format(s))

			want := []float64{s.TemperatureF, s.DewPointF, s.HumidityPct, s.WindSpeedMph, s.WindGustMph}
			for i, w := range want {
				got, err := strconv.Atoi(m[i+1])
				require.NoError(t, err)
				assert.Equal(t, round(w), got)
			}
		}
	})

	t.Run("unknown sky code", func(t *testing.T) {
		assert.Equal(t, "Code42", SkyCode(42).String())
	})
}

type stubFetcher struct {
	samples  []Sample
	err      error
	from, to time.Time
}

func (f *stubFetcher) Fetch(_ context.Context, _ Location, from, to time.Time) ([]Sample, error) {
	f.from, f.to = from, to
	return f.samples, f.err
}

func TestEngine_Describe(t *testing.T) {
	ctx := context.Background()

	t.Run("pads the fetched range by a quarter hour", func(t *testing.T) {
		f := &stubFetcher{samples: quarterHours(45)}
		e := NewEngine(f, zerolog.Nop())

		text, err := e.Describe(ctx, t0, 30*time.Minute, Location{Lat: 40, Lng: -105})
		require.NoError(t, err)

		assert.Equal(t, at(-15), f.from)
		assert.Equal(t, at(45), f.to)
		assert.NotContains(t, text, "Start:")
	})

	t.Run("long activity yields labeled lines", func(t *testing.T) {
		e := NewEngine(&stubFetcher{samples: quarterHours(135)}, zerolog.Nop())

		text, err := e.Describe(ctx, t0, 2*time.Hour, Location{})
		require.NoError(t, err)
		assert.Contains(t, text, "Start: ")
		assert.Contains(t, text, "\nEnd: ")
	})

	t.Run("fetch error is wrapped", func(t *testing.T) {
		e := NewEngine(&stubFetcher{err: errors.New("boom")}, zerolog.Nop())

		_, err := e.Describe(ctx, t0, time.Hour, Location{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "fetching weather samples")
	})

	t.Run("empty response", func(t *testing.T) {
		e := NewEngine(&stubFetcher{}, zerolog.Nop())

		_, err := e.Describe(ctx, t0, time.Hour, Location{})
		assert.ErrorIs(t, err, ErrNoSamples)
	})
}
