package geofence

import (
	"math"
	"sort"
	"time"
)

// EarthRadiusM is the mean Earth radius used for great-circle distances.
const EarthRadiusM = 6371000.0

const (
	DefaultMaxAccuracyM = 120.0
	DefaultMaxAge       = 10 * time.Minute
)

// Location is a named geofence circle, usually a store. ID carries the
// caller's record id through the match untouched.
type Location struct {
	ID      uint
	Name    string
	Lat     float64
	Lng     float64
	RadiusM float64
}

// Reading is one GPS fix as reported by the client, including how noisy
// (AccuracyM) and how old (Age) it is.
type Reading struct {
	Lat       float64
	Lng       float64
	AccuracyM float64
	Age       time.Duration
}

// Match is the resolved location plus the computed distance for display.
type Match struct {
	Location  Location
	DistanceM float64
}

// Resolver gates readings by accuracy and age before matching them against
// a set of locations. The zero value accepts nothing; use NewResolver.
type Resolver struct {
	MaxAccuracyM float64
	MaxAge       time.Duration
}

func NewResolver() Resolver {
	return Resolver{MaxAccuracyM: DefaultMaxAccuracyM, MaxAge: DefaultMaxAge}
}

// Resolve returns the location the reading falls inside, or nil when the
// reading is too noisy, too old, or outside every circle. Containment is
// inclusive: distance == radius counts as inside. When several circles
// contain the reading the nearest wins; an exact distance tie goes to the
// lexicographically smaller name.
func (r Resolver) Resolve(reading Reading, locations []Location) *Match {
	if reading.AccuracyM > r.MaxAccuracyM {
		return nil
	}
	if reading.Age > r.MaxAge {
		return nil
	}

	var matches []Match
	for _, loc := range locations {
		if loc.RadiusM <= 0 {
			continue
		}
		d := DistanceM(reading.Lat, reading.Lng, loc.Lat, loc.Lng)
		if d <= loc.RadiusM {
			matches = append(matches, Match{Location: loc, DistanceM: d})
		}
	}
	if len(matches) == 0 {
		return nil
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].DistanceM != matches[j].DistanceM {
			return matches[i].DistanceM < matches[j].DistanceM
		}
		return matches[i].Location.Name < matches[j].Location.Name
	})

	best := matches[0]
	return &best
}

// DistanceM computes the haversine great-circle distance in meters.
func DistanceM(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusM * c
}
