// Package normalize cleans sport-type and activity-name strings produced by the
// store's sync job and reclassifies ambiguous ride categories.
package normalize

import "strings"

// Sport categories produced by normalization.
const (
	SportRide    = "Ride"
	SportRun     = "Run"
	SportPeloton = "Peloton"
	SportBike    = "Bike"
)

const rootPrefix = "root="

// Unwrap strips the serialization artifact root='v', root="v" or root=v from
// value. Values without the artifact are returned unchanged.
func Unwrap(value string) string {
	switch {
	case strings.HasPrefix(value, rootPrefix+"'") && strings.HasSuffix(value, "'"):
		return trimEnds(value, len(rootPrefix)+1)
	case strings.HasPrefix(value, rootPrefix+`"`) && strings.HasSuffix(value, `"`):
		return trimEnds(value, len(rootPrefix)+1)
	case strings.HasPrefix(value, rootPrefix):
		return unquote(value[len(rootPrefix):])
	default:
		return value
	}
}

// unquote removes one pair of matching single or double quotes.
func unquote(value string) string {
	if (strings.HasPrefix(value, "'") && strings.HasSuffix(value, "'")) ||
		(strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`)) {
		return trimEnds(value, 1)
	}
	return value
}

// trimEnds drops head bytes from the front and one byte from the back. A
// value too short to hold both collapses to the empty string.
func trimEnds(value string, head int) string {
	if len(value) < head+1 {
		return ""
	}
	return value[head : len(value)-1]
}

// Category maps raw store categories onto competition categories. Stationary
// and road rides both arrive as Ride; Reclassify separates them later.
func Category(value string) string {
	switch value {
	case SportRide:
		return SportPeloton
	case SportRun:
		return SportRun
	default:
		return value
	}
}

// Clean unwraps and maps a sport type or activity name.
func Clean(value string) string {
	return Category(Unwrap(value))
}

// Reclassify turns a Peloton session that gained elevation into a Bike ride.
func Reclassify(sportType string, elevationGainMeters float64) string {
	if sportType == SportPeloton && elevationGainMeters > 0 {
		return SportBike
	}
	return sportType
}

// SportType runs the full sport-type pipeline: Clean followed by Reclassify.
func SportType(raw string, elevationGainMeters float64) string {
	return Reclassify(Clean(raw), elevationGainMeters)
}

// Rules holds the configurable part of normalization.
type Rules struct {
	// Excluded is the non-competition sport type whose records are dropped.
	Excluded string
}

// Excludes reports whether a normalized sport type is dropped from the competition.
func (r Rules) Excludes(sportType string) bool {
	return r.Excluded != "" && sportType == r.Excluded
}
