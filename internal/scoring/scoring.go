// Package scoring converts heart-rate-zone time into competition points.
package scoring

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/domain"
)

// Zones is the number of heart-rate zones.
const Zones = 5

// Weights are the points earned per minute in zones 1..5.
var Weights = [Zones]float64{1, 2, 3, 4, 5}

// ResolveZones extracts zone seconds from raw store columns. Each zone is read
// from zone_<i>_seconds when that column exists and from zone_<i>_time
// otherwise. Null or unparseable values are zero.
func ResolveZones(cols domain.ZoneColumns) [Zones]float64 {
	var out [Zones]float64
	for i := range out {
		n := i + 1
		raw, ok := cols[fmt.Sprintf("zone_%d_seconds", n)]
		if !ok {
			raw = cols[fmt.Sprintf("zone_%d_time", n)]
		}
		if v, ok := number(raw); ok {
			out[i] = v
		}
	}
	return out
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case *float64:
		if n == nil {
			return 0, false
		}
		return *n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// RecordPoints computes the weighted points of one record: the sum over zones
// of minutes in zone times the zone weight.
func RecordPoints(seconds [Zones]float64) float64 {
	var total float64
	for i, s := range seconds {
		total += s / 60 * Weights[i]
	}
	return total
}

// AthletePoints is one athlete's aggregated score.
type AthletePoints struct {
	Rank        int            `json:"rank"`
	Athlete     string         `json:"athlete"`
	Points      int            `json:"points"`
	Activities  int            `json:"activity_count"`
	ZoneSeconds [Zones]float64 `json:"zone_seconds"`
	Behind      int            `json:"points_behind_leader"`
}

// Standings are athlete scores ordered by points, highest first.
type Standings []AthletePoints

// Find returns the entry for an athlete.
func (s Standings) Find(athlete string) (AthletePoints, bool) {
	for _, p := range s {
		if p.Athlete == athlete {
			return p, true
		}
	}
	return AthletePoints{}, false
}

// TotalPoints sums points over all athletes.
func (s Standings) TotalPoints() int {
	total := 0
	for _, p := range s {
		total += p.Points
	}
	return total
}

// TotalActivities sums activity counts over all athletes.
func (s Standings) TotalActivities() int {
	total := 0
	for _, p := range s {
		total += p.Activities
	}
	return total
}

// Score aggregates zone records per athlete. Records without an athlete name
// are ignored. Points are rounded to whole points (half to even); ties keep the
// order in which athletes first appear in records.
func Score(records []domain.ZoneRecord) Standings {
	type tally struct {
		points     float64
		zones      [Zones]float64
		activities map[string]struct{}
	}

	order := make([]string, 0)
	byAthlete := make(map[string]*tally)
	for _, r := range records {
		if r.AthleteName == "" {
			continue
		}
		t, ok := byAthlete[r.AthleteName]
		if !ok {
			t = &tally{activities: make(map[string]struct{})}
			byAthlete[r.AthleteName] = t
			order = append(order, r.AthleteName)
		}
		t.points += RecordPoints(r.Seconds)
		for i, s := range r.Seconds {
			t.zones[i] += s
		}
		t.activities[r.ActivityID] = struct{}{}
	}

	out := make(Standings, 0, len(order))
	for _, name := range order {
		t := byAthlete[name]
		out = append(out, AthletePoints{
			Athlete:     name,
			Points:      int(math.RoundToEven(t.points)),
			Activities:  len(t.activities),
			ZoneSeconds: t.zones,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Points > out[j].Points
	})
	for i := range out {
		out[i].Rank = i + 1
		out[i].Behind = out[0].Points - out[i].Points
	}
	return out
}
