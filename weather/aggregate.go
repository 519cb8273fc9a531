package weather

// WarmThresholdF is the mean temperature at which brief clear spells outweigh passing cloud
const WarmThresholdF = 50.0

// Aggregate collapses samples into one representative sample.
// Numeric fields are averaged, precipitation is summed and wind direction
// is taken from the first sample as-is. samples must not be empty.
func Aggregate(samples []Sample) Sample {
	n := float64(len(samples))
	out := Sample{
		Time:          samples[0].Time,
		WindDirection: samples[0].WindDirection,
	}

	for _, s := range samples {
		out.TemperatureF += s.TemperatureF
		out.DewPointF += s.DewPointF
		out.HumidityPct += s.HumidityPct
		out.WindSpeedMph += s.WindSpeedMph
		out.WindGustMph += s.WindGustMph
		out.PrecipIn += s.PrecipIn
	}
	out.TemperatureF /= n
	out.DewPointF /= n
	out.HumidityPct /= n
	out.WindSpeedMph /= n
	out.WindGustMph /= n

	out.Sky = aggregateSky(samples, out.TemperatureF)
	return out
}

// aggregateSky picks the most severe code, softened on warm days
func aggregateSky(samples []Sample, meanTempF float64) SkyCode {
	worst := samples[0].Sky
	anyClear, anyPartly := false, false
	for _, s := range samples {
		if s.Sky > worst {
			worst = s.Sky
		}
		if s.Sky.IsClear() {
			anyClear = true
		}
		if s.Sky == PartlyCloudy {
			anyPartly = true
		}
	}

	if meanTempF < WarmThresholdF {
		return worst
	}

	switch worst {
	case Overcast:
		if anyClear {
			return MainlyClear
		}
		if anyPartly {
			return PartlyCloudy
		}
	case PartlyCloudy:
		if anyClear {
			return MainlyClear
		}
	}
	return worst
}
