package aggregate

import "math"

const (
	// MetersPerMile converts distances.
	MetersPerMile = 1609.344

	// FeetPerMeter converts elevation.
	FeetPerMeter = 3.28084

	secondsPerHour = 3600
)

// CyclingSports are the normalized sport types counted as cycling.
var CyclingSports = []string{"Ride", "VirtualRide", "Peloton", "Bike"}

// IsCycling reports whether a normalized sport type is a cycling sport.
func IsCycling(sportType string) bool {
	for _, s := range CyclingSports {
		if s == sportType {
			return true
		}
	}
	return false
}

// Miles converts meters to miles.
func Miles(meters float64) float64 {
	return meters / MetersPerMile
}

// Hours converts seconds to hours.
func Hours(seconds float64) float64 {
	return seconds / secondsPerHour
}

// Round rounds v to the given number of decimals, halves to even.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.RoundToEven(v*p) / p
}
