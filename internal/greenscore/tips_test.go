package greenscore

import (
	"slices"
	"testing"

	"github.com/jgoulah/ecohome/pkg/models"
)

func TestTipsBands(t *testing.T) {
	hh := models.Household{ID: 1, Name: "Test", Postcode: "6000 AB"}
	scheduleLine := "General waste day: Monday. Recycling day: Wednesday."

	tests := []struct {
		score int
		band  []string
	}{
		{0, lowScoreTips},
		{29, lowScoreTips},
		{30, midScoreTips},
		{59, midScoreTips},
		{60, highScoreTips},
		{100, highScoreTips},
	}

	for _, tt := range tests {
		got := Tips(hh, tt.score)
		want := append(slices.Clone(tt.band), scheduleLine)
		if !slices.Equal(got, want) {
			t.Errorf("Tips(score=%d) = %q, want %q", tt.score, got, want)
		}
	}
}

func TestTipsDefaultSchedule(t *testing.T) {
	got := Tips(models.Household{Postcode: ""}, 75)
	if len(got) != 3 {
		t.Fatalf("expected 3 tips, got %d", len(got))
	}
	if got[2] != "General waste day: Friday. Recycling day: Tuesday." {
		t.Errorf("unexpected schedule tip: %q", got[2])
	}
}

func TestLowEnergyScenarioTips(t *testing.T) {
	hh := models.Household{ID: 7, Postcode: "6001"}
	score := Score([]models.UsageEntry{entry(models.Energy, 40, testNow)}, testNow)
	if score != 25 {
		t.Fatalf("expected score 25, got %d", score)
	}

	got := Tips(hh, score)
	want := []string{lowScoreTips[0], lowScoreTips[1], "General waste day: Tuesday. Recycling day: Thursday."}
	if !slices.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTipsDoesNotAliasBands(t *testing.T) {
	tips := Tips(models.Household{}, 10)
	tips[0] = "mutated"
	if lowScoreTips[0] == "mutated" {
		t.Error("Tips returned a slice sharing storage with the band table")
	}
}
