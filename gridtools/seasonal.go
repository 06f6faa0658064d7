package gridtools

import (
	"math"
	"math/rand"
)

// SeasonProfile holds the multiplicative boost factors used to synthesize a
// season from yearly-averaged data. The factors are keyed by coarse latitude
// band and are a documented modeling choice, not a physical derivation: the
// source datasets are yearly composites, so seasonal structure is simulated
// from latitude patterns.
type SeasonProfile struct {
	Name        string
	Description string

	NorthTemperate float64 // latitude > 30
	SouthTemperate float64 // latitude < -30
	Tropical       float64 // default band
	Polar          float64 // |latitude| > 60, checked after the temperate bands
}

// SeasonProfiles lists the four seasonal variants in emission order.
var SeasonProfiles = []SeasonProfile{
	{
		Name:           "Spring",
		Description:    "Spring blooms in temperate regions",
		NorthTemperate: 1.8,
		SouthTemperate: 0.8,
		Tropical:       1.0,
		Polar:          1.2,
	},
	{
		Name:           "Summer",
		Description:    "Summer productivity patterns",
		NorthTemperate: 1.2,
		SouthTemperate: 0.6,
		Tropical:       0.9,
		Polar:          1.5,
	},
	{
		Name:           "Autumn",
		Description:    "Autumn mixing and southern spring",
		NorthTemperate: 1.0,
		SouthTemperate: 1.6,
		Tropical:       1.1,
		Polar:          0.8,
	},
	{
		Name:           "Winter",
		Description:    "Winter patterns and tropical peaks",
		NorthTemperate: 0.7,
		SouthTemperate: 1.3,
		Tropical:       1.2,
		Polar:          0.4,
	},
}

// SeasonArtifact is one synthesized seasonal variant of a point set.
type SeasonArtifact struct {
	Season string
	Year   int
	Points []Point
	Min    float64
	Max    float64
}

// Synthesize produces the four seasonal variants of a normalized point set.
// Each point's value is scaled by its latitude-band multiplier, a coastal
// boost, a deterministic year-cycle factor, and a bounded random jitter from
// rng, then clamped back to [0,1]. Seasons are generated in SeasonProfiles
// order so a seeded rng yields reproducible output. Performs no I/O.
func Synthesize(points []Point, year int, rng *rand.Rand) map[string]SeasonArtifact {
	yf := yearFactor(year)
	seasons := make(map[string]SeasonArtifact, len(SeasonProfiles))

	for _, profile := range SeasonProfiles {
		out := make([]Point, len(points))
		min, max := math.Inf(1), math.Inf(-1)
		for i, p := range points {
			jitter := 1.0 + 0.1*(rng.Float64()-0.5)
			v := p.Value * bandMultiplier(p.Lat, profile) * coastalBoost(p.Lon) * yf * jitter
			v = clamp01(v)

			out[i] = Point{Lat: p.Lat, Lon: p.Lon, Value: v}
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
		seasons[profile.Name] = SeasonArtifact{
			Season: profile.Name,
			Year:   year,
			Points: out,
			Min:    min,
			Max:    max,
		}
	}
	return seasons
}

// bandMultiplier picks the boost factor for a latitude. Band precedence is
// north-temperate, south-temperate, polar, then tropical as the default; the
// temperate checks run first, so polar latitudes resolve to a temperate band.
func bandMultiplier(lat float64, p SeasonProfile) float64 {
	switch {
	case lat > 30:
		return p.NorthTemperate
	case lat < -30:
		return p.SouthTemperate
	case math.Abs(lat) > 60:
		return p.Polar
	default:
		return p.Tropical
	}
}

// coastalBoost approximates coastal upwelling: longitudes within 20 degrees
// of the Atlantic (0) or Pacific (±180) basin boundaries get a 1.2 boost.
func coastalBoost(lon float64) float64 {
	if math.Abs(lon) < 20 || math.Abs(math.Abs(lon)-180) < 20 {
		return 1.2
	}
	return 1.0
}

// yearFactor models year-to-year variation (climate cycles) as a 7-year
// sine centered on 2003.
func yearFactor(year int) float64 {
	return 1.0 + 0.1*math.Sin(2*math.Pi*float64(year-2003)/7)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
