// Package greenscore derives a household's green score, tips and collection
// schedule from its usage history.
package greenscore

import (
	"time"

	"github.com/jgoulah/ecohome/pkg/models"
)

const (
	// NeutralScore is returned for households without usage in the window
	NeutralScore = 50

	// WindowDays is how far back, in calendar days, entries count toward the score
	WindowDays = 30

	WaterBaseline  = 200.0 // litres per day
	EnergyBaseline = 20.0  // kWh per day
)

// Result is the breakdown behind a green score
type Result struct {
	Score       int      `json:"score"`
	WaterScore  float64  `json:"water_score"`
	EnergyScore float64  `json:"energy_score"`
	WaterAvg    *float64 `json:"water_daily_avg,omitempty"`  // nil when no water entries in the window
	EnergyAvg   *float64 `json:"energy_daily_avg,omitempty"` // nil when no energy entries in the window
}

// Score returns the 0-100 green score for a household's entries as of now
func Score(entries []models.UsageEntry, now time.Time) int {
	return Breakdown(entries, now).Score
}

// Breakdown computes the green score along with its per-type sub-scores
func Breakdown(entries []models.UsageEntry, now time.Time) Result {
	res := Result{
		Score:       NeutralScore,
		WaterScore:  NeutralScore,
		EnergyScore: NeutralScore,
	}
	if len(entries) == 0 {
		return res
	}

	loc := now.Location()
	windowStart := dateOf(now, loc).AddDate(0, 0, -WindowDays)

	daily := map[models.EntryType]map[time.Time]float64{
		models.Water:  {},
		models.Energy: {},
	}
	for _, e := range entries {
		day := dateOf(e.RecordedAt, loc)
		if day.Before(windowStart) {
			continue
		}
		sums, ok := daily[e.Type]
		if !ok {
			// unknown types stay out of both buckets
			continue
		}
		sums[day] += e.Value
	}

	if avg, ok := meanOf(daily[models.Water]); ok {
		res.WaterAvg = &avg
		res.WaterScore = subScore(avg, WaterBaseline)
	}
	if avg, ok := meanOf(daily[models.Energy]); ok {
		res.EnergyAvg = &avg
		res.EnergyScore = subScore(avg, EnergyBaseline)
	}

	res.Score = int(0.5*res.WaterScore + 0.5*res.EnergyScore)
	return res
}

// subScore maps an average daily total onto 0-100, where the baseline scores 50
func subScore(avg, baseline float64) float64 {
	return clamp((1-avg/baseline)*100+50, 0, 100)
}

func meanOf(sums map[time.Time]float64) (float64, bool) {
	if len(sums) == 0 {
		return 0, false
	}
	var total float64
	for _, v := range sums {
		total += v
	}
	return total / float64(len(sums)), true
}

func dateOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
