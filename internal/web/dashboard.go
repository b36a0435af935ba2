package web

import (
	"context"
	"fmt"
	"time"

	"github.com/jgoulah/ecohome/internal/database"
	"github.com/jgoulah/ecohome/internal/greenscore"
	"github.com/jgoulah/ecohome/pkg/models"
)

// UsageSummary totals values per entry type
type UsageSummary struct {
	Water  float64 `json:"water"`
	Energy float64 `json:"energy"`
}

// Dashboard is everything shown for one household
type Dashboard struct {
	Household  models.Household              `json:"household"`
	Entries    []models.UsageEntry           `json:"entries"`
	Summary    UsageSummary                  `json:"summary"` // over Entries
	Totals     UsageSummary                  `json:"totals"`  // all time
	GreenScore int                           `json:"greenScore"`
	Breakdown  greenscore.Result             `json:"breakdown"`
	Tips       []string                      `json:"tips"`
	Schedule   greenscore.CollectionSchedule `json:"schedule"`
}

// buildDashboard gathers a household's recent entries, score and tips
func (s *Server) buildDashboard(ctx context.Context, hh *models.Household) (*Dashboard, error) {
	now := s.now()

	recent, err := s.store.ListEntries(ctx, hh.ID, database.ListOptions{
		Order: database.Descending,
		Limit: s.dashboardLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("listing recent entries: %w", err)
	}

	// One extra day either side of the window covers any zone offset; the
	// engine applies the exact calendar-date cut.
	windowed, err := s.store.ListEntries(ctx, hh.ID, database.ListOptions{
		Since: now.AddDate(0, 0, -(greenscore.WindowDays + 1)).Add(-24 * time.Hour),
	})
	if err != nil {
		return nil, fmt.Errorf("listing entries for score: %w", err)
	}

	totals, err := s.store.Totals(ctx, hh.ID)
	if err != nil {
		return nil, fmt.Errorf("totalling entries: %w", err)
	}

	result := greenscore.Breakdown(windowed, now)
	s.log.Debug("household %d: %d recent, %d in window, score %d (water %.1f, energy %.1f)",
		hh.ID, len(recent), len(windowed), result.Score, result.WaterScore, result.EnergyScore)

	d := &Dashboard{
		Household:  *hh,
		Entries:    recent,
		Summary:    summarize(recent),
		Totals:     UsageSummary{Water: totals[models.Water], Energy: totals[models.Energy]},
		GreenScore: result.Score,
		Breakdown:  result,
		Tips:       greenscore.Tips(*hh, result.Score),
		Schedule:   greenscore.Schedule(hh.Postcode),
	}
	if d.Entries == nil {
		d.Entries = []models.UsageEntry{}
	}
	return d, nil
}

func summarize(entries []models.UsageEntry) UsageSummary {
	var sum UsageSummary
	for _, e := range entries {
		switch e.Type {
		case models.Water:
			sum.Water += e.Value
		case models.Energy:
			sum.Energy += e.Value
		}
	}
	return sum
}
