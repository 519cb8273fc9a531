package weather

import "fmt"

/* SkyCode is a WMO weather interpretation code
 * Numeric order doubles as severity order: a larger code is worse weather
 */
type SkyCode int

const (
	Clear                 SkyCode = 0
	MainlyClear           SkyCode = 1
	PartlyCloudy          SkyCode = 2
	Overcast              SkyCode = 3
	Fog                   SkyCode = 45
	RimeFog               SkyCode = 48
	LightDrizzle          SkyCode = 51
	Drizzle               SkyCode = 53
	DenseDrizzle          SkyCode = 55
	LightFreezingDrizzle  SkyCode = 56
	FreezingDrizzle       SkyCode = 57
	LightRain             SkyCode = 61
	Rain                  SkyCode = 63
	HeavyRain             SkyCode = 65
	LightFreezingRain     SkyCode = 66
	FreezingRain          SkyCode = 67
	LightSnow             SkyCode = 71
	Snow                  SkyCode = 73
	HeavySnow             SkyCode = 75
	SnowGrains            SkyCode = 77
	LightRainShowers      SkyCode = 80
	RainShowers           SkyCode = 81
	ViolentRainShowers    SkyCode = 82
	LightSnowShowers      SkyCode = 85
	SnowShowers           SkyCode = 86
	Thunderstorm          SkyCode = 95
	ThunderstormHail      SkyCode = 96
	ThunderstormHeavyHail SkyCode = 99
)

var skyNames = map[SkyCode]string{
	Clear:                 "Clear",
	MainlyClear:           "MainlyClear",
	PartlyCloudy:          "PartlyCloudy",
	Overcast:              "Overcast",
	Fog:                   "Fog",
	RimeFog:               "RimeFog",
	LightDrizzle:          "LightDrizzle",
	Drizzle:               "Drizzle",
	DenseDrizzle:          "DenseDrizzle",
	LightFreezingDrizzle:  "LightFreezingDrizzle",
	FreezingDrizzle:       "FreezingDrizzle",
	LightRain:             "LightRain",
	Rain:                  "Rain",
	HeavyRain:             "HeavyRain",
	LightFreezingRain:     "LightFreezingRain",
	FreezingRain:          "FreezingRain",
	LightSnow:             "LightSnow",
	Snow:                  "Snow",
	HeavySnow:             "HeavySnow",
	SnowGrains:            "SnowGrains",
	LightRainShowers:      "LightRainShowers",
	RainShowers:           "RainShowers",
	ViolentRainShowers:    "ViolentRainShowers",
	LightSnowShowers:      "LightSnowShowers",
	SnowShowers:           "SnowShowers",
	Thunderstorm:          "Thunderstorm",
	ThunderstormHail:      "ThunderstormHail",
	ThunderstormHeavyHail: "ThunderstormHeavyHail",
}

// String returns the name of the code
func (c SkyCode) String() string {
	if name, ok := skyNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Code%d", int(c))
}

// IsClear is true for Clear and MainlyClear
func (c SkyCode) IsClear() bool {
	return c == Clear || c == MainlyClear
}
