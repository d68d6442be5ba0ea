// Package scorecard evaluates KPI values against configured traffic-light
// thresholds and assembles per-period scorecard entries.
package scorecard

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
)

// Threshold defines the traffic-light bands for one KPI. For a normal
// KPI higher is better and green sits above yellow; lowerIsBetter flips
// both the ordering requirement and the comparisons.
type Threshold struct {
	KPIName       string  `json:"kpiName"`
	DisplayName   string  `json:"displayName"`
	Green         float64 `json:"greenThreshold"`
	Yellow        float64 `json:"yellowThreshold"`
	LowerIsBetter bool    `json:"lowerIsBetter"`
}

// ThresholdSet is the on-disk threshold configuration.
type ThresholdSet struct {
	Version    string      `json:"version"`
	Thresholds []Threshold `json:"thresholds"`
}

// LoadThresholds reads and validates the threshold file. A misordered
// threshold pair is a configuration error and fails the load; scoring
// with inverted bands would silently mislabel every entity.
func LoadThresholds(path string) (*ThresholdSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "scorecard: read thresholds %s", path)
	}
	var set ThresholdSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, eris.Wrapf(err, "scorecard: decode thresholds %s", path)
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return &set, nil
}

// Validate checks band ordering for every threshold.
func (s *ThresholdSet) Validate() error {
	if len(s.Thresholds) == 0 {
		return eris.New("scorecard: threshold set is empty")
	}
	for _, t := range s.Thresholds {
		if t.KPIName == "" {
			return eris.New("scorecard: threshold with empty kpiName")
		}
		if t.LowerIsBetter {
			if t.Green >= t.Yellow {
				return eris.Errorf("scorecard: %s is lower-is-better but green (%v) >= yellow (%v)",
					t.KPIName, t.Green, t.Yellow)
			}
			continue
		}
		if t.Green <= t.Yellow {
			return eris.Errorf("scorecard: %s green (%v) <= yellow (%v)", t.KPIName, t.Green, t.Yellow)
		}
	}
	return nil
}

// Lookup returns the threshold for a KPI name.
func (s *ThresholdSet) Lookup(name string) (Threshold, bool) {
	for _, t := range s.Thresholds {
		if t.KPIName == name {
			return t, true
		}
	}
	return Threshold{}, false
}
