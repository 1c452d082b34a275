package memory

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/domain"
)

type fixture struct {
	Athletes []struct {
		ID        string `yaml:"id"`
		FirstName string `yaml:"firstname"`
		LastName  string `yaml:"lastname"`
	} `yaml:"athletes"`
	Activities []struct {
		ID                 string    `yaml:"id"`
		AthleteID          string    `yaml:"athlete_id"`
		Name               string    `yaml:"name"`
		SportType          string    `yaml:"sport_type"`
		StartDate          time.Time `yaml:"start_date"`
		Distance           *float64  `yaml:"distance"`
		MovingTime         *float64  `yaml:"moving_time"`
		AverageHeartrate   *float64  `yaml:"average_heartrate"`
		MaxHeartrate       *float64  `yaml:"max_heartrate"`
		TotalElevationGain *float64  `yaml:"total_elevation_gain"`
	} `yaml:"activities"`
	HeartRateZones []map[string]any `yaml:"heart_rate_zones"`
}

// LoadFixtureFile seeds a new store from a YAML fixture using the store's
// column names.
func LoadFixtureFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()
	return LoadFixture(f)
}

// LoadFixture seeds a new store from YAML.
func LoadFixture(r io.Reader) (*Store, error) {
	var fx fixture
	if err := yaml.NewDecoder(r).Decode(&fx); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}

	s := NewStore()
	for _, a := range fx.Athletes {
		s.AddAthlete(domain.Athlete{ID: a.ID, FirstName: a.FirstName, LastName: a.LastName})
	}
	for _, a := range fx.Activities {
		s.AddActivity(domain.ActivityRow{
			ID:                  a.ID,
			AthleteID:           a.AthleteID,
			Name:                a.Name,
			SportType:           a.SportType,
			StartDate:           a.StartDate,
			DistanceMeters:      a.Distance,
			MovingTimeSeconds:   a.MovingTime,
			AvgHeartRate:        a.AverageHeartrate,
			MaxHeartRate:        a.MaxHeartrate,
			ElevationGainMeters: a.TotalElevationGain,
		})
	}
	for i, z := range fx.HeartRateZones {
		row := domain.ZoneRow{Columns: domain.ZoneColumns{}}
		for k, v := range z {
			switch k {
			case "id":
				row.ID = fmt.Sprint(v)
			case "activity_id":
				row.ActivityID = fmt.Sprint(v)
			default:
				row.Columns[k] = v
			}
		}
		if row.ActivityID == "" {
			return nil, fmt.Errorf("heart_rate_zones[%d]: missing activity_id", i)
		}
		s.AddZones(row)
	}
	return s, nil
}
