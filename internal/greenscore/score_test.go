package greenscore

import (
	"testing"
	"time"

	"github.com/jgoulah/ecohome/pkg/models"
)

var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func entry(t models.EntryType, v float64, at time.Time) models.UsageEntry {
	return models.UsageEntry{HouseholdID: 1, Type: t, Value: v, RecordedAt: at}
}

func TestScoreEmpty(t *testing.T) {
	if got := Score(nil, testNow); got != 50 {
		t.Errorf("expected 50 for no entries, got %d", got)
	}
}

func TestScoreScenarios(t *testing.T) {
	tests := []struct {
		name    string
		entries []models.UsageEntry
		want    int
		water   float64
		energy  float64
	}{
		{
			name:    "half-baseline water today",
			entries: []models.UsageEntry{entry(models.Water, 100, testNow)},
			want:    75,
			water:   100,
			energy:  50,
		},
		{
			name:    "double-baseline energy today",
			entries: []models.UsageEntry{entry(models.Energy, 40, testNow)},
			want:    25,
			water:   50,
			energy:  0,
		},
		{
			name: "usage at baseline",
			entries: []models.UsageEntry{
				entry(models.Water, 200, testNow),
				entry(models.Energy, 20, testNow),
			},
			want:   50,
			water:  50,
			energy: 50,
		},
		{
			name: "zero usage clamps at 100",
			entries: []models.UsageEntry{
				entry(models.Water, 0, testNow),
				entry(models.Energy, 0, testNow),
			},
			want:   100,
			water:  100,
			energy: 100,
		},
		{
			name: "per-date sums are averaged over dates",
			entries: []models.UsageEntry{
				// day one: 150 + 150 = 300, day two: 100, average 200
				entry(models.Water, 150, testNow),
				entry(models.Water, 150, testNow.Add(-time.Hour)),
				entry(models.Water, 100, testNow.AddDate(0, 0, -3)),
			},
			want:   50,
			water:  50,
			energy: 50,
		},
		{
			name: "truncates toward zero",
			entries: []models.UsageEntry{
				// water sub-score 75, energy 50, mean 62.5
				entry(models.Water, 150, testNow),
			},
			want:   62,
			water:  75,
			energy: 50,
		},
		{
			name: "unknown types are ignored",
			entries: []models.UsageEntry{
				entry(models.EntryType("gas"), 1000, testNow),
				entry(models.Energy, 15, testNow),
			},
			want:   62,
			water:  50,
			energy: 75,
		},
		{
			name:    "only old entries yields neutral",
			entries: []models.UsageEntry{entry(models.Water, 5000, testNow.AddDate(0, 0, -60))},
			want:    50,
			water:   50,
			energy:  50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Breakdown(tt.entries, testNow)
			if res.Score != tt.want {
				t.Errorf("expected score %d, got %d", tt.want, res.Score)
			}
			if res.WaterScore != tt.water {
				t.Errorf("expected water sub-score %v, got %v", tt.water, res.WaterScore)
			}
			if res.EnergyScore != tt.energy {
				t.Errorf("expected energy sub-score %v, got %v", tt.energy, res.EnergyScore)
			}
			if got := Score(tt.entries, testNow); got != res.Score {
				t.Errorf("Score and Breakdown disagree: %d vs %d", got, res.Score)
			}
		})
	}
}

func TestScoreWindowBoundary(t *testing.T) {
	boundary := time.Date(2026, 9, 19, 0, 0, 0, 0, time.UTC)
	inside := []models.UsageEntry{entry(models.Water, 400, boundary)}
	if got := Score(inside, testNow); got != 25 {
		t.Errorf("entry on the window start date should count: expected 25, got %d", got)
	}

	outside := []models.UsageEntry{entry(models.Water, 400, boundary.Add(-time.Nanosecond))}
	if got := Score(outside, testNow); got != 50 {
		t.Errorf("entry before the window start date should not count: expected 50, got %d", got)
	}
}

func TestScoreIgnoresOldEntries(t *testing.T) {
	base := []models.UsageEntry{
		entry(models.Water, 120, testNow.AddDate(0, 0, -1)),
		entry(models.Energy, 12, testNow.AddDate(0, 0, -2)),
	}
	want := Score(base, testNow)

	for _, days := range []int{31, 45, 365} {
		withOld := append(append([]models.UsageEntry{}, base...),
			entry(models.Water, 9999, testNow.AddDate(0, 0, -days)),
			entry(models.Energy, 9999, testNow.AddDate(0, 0, -days)),
		)
		if got := Score(withOld, testNow); got != want {
			t.Errorf("entries %d days old changed the score: %d -> %d", days, want, got)
		}
	}
}

func TestScoreUsesCallerLocation(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*60*60)
	now := time.Date(2026, 10, 19, 20, 0, 0, 0, loc)
	// 2026-09-18 18:00 UTC is 2026-09-19 02:00 at UTC+8, inside the window there
	e := []models.UsageEntry{entry(models.Energy, 40, time.Date(2026, 9, 18, 18, 0, 0, 0, time.UTC))}

	if got := Score(e, now); got != 25 {
		t.Errorf("expected 25 in UTC+8, got %d", got)
	}
	if got := Score(e, now.UTC()); got != 50 {
		t.Errorf("expected 50 in UTC, got %d", got)
	}
}

func TestSubScoreMonotonic(t *testing.T) {
	for _, baseline := range []float64{WaterBaseline, EnergyBaseline} {
		prev := subScore(baseline*3, baseline)
		for v := baseline * 3; v >= 0; v -= baseline / 16 {
			s := subScore(v, baseline)
			if s < prev {
				t.Fatalf("sub-score decreased from %v to %v when usage dropped to %v (baseline %v)", prev, s, v, baseline)
			}
			prev = s
		}
	}
}

func TestScoreClamped(t *testing.T) {
	values := []float64{0, 0.001, 1, 19.99, 20, 199, 200, 401, 1e9}
	for _, wv := range values {
		for _, ev := range values {
			res := Breakdown([]models.UsageEntry{
				entry(models.Water, wv, testNow),
				entry(models.Energy, ev, testNow),
			}, testNow)
			for name, s := range map[string]float64{
				"water":  res.WaterScore,
				"energy": res.EnergyScore,
				"final":  float64(res.Score),
			} {
				if s < 0 || s > 100 {
					t.Errorf("%s score %v out of range for water=%v energy=%v", name, s, wv, ev)
				}
			}
		}
	}
}

func TestBreakdownAverages(t *testing.T) {
	res := Breakdown([]models.UsageEntry{
		entry(models.Energy, 10, testNow),
		entry(models.Energy, 20, testNow.AddDate(0, 0, -1)),
	}, testNow)

	if res.WaterAvg != nil {
		t.Errorf("expected no water average, got %v", *res.WaterAvg)
	}
	if res.EnergyAvg == nil || *res.EnergyAvg != 15 {
		t.Errorf("expected energy average 15, got %v", res.EnergyAvg)
	}
}
