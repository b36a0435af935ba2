package models

import (
	"math"
	"testing"
)

func TestParseEntryType(t *testing.T) {
	tests := []struct {
		in      string
		want    EntryType
		wantErr bool
	}{
		{"water", Water, false},
		{"energy", Energy, false},
		{" Energy ", Energy, false},
		{"WATER", Water, false},
		{"gas", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseEntryType(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseEntryType(%q): expected error, got %q", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseEntryType(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseEntryType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateValue(t *testing.T) {
	for _, v := range []float64{0, 1.5, 1e6} {
		if err := ValidateValue(v); err != nil {
			t.Errorf("ValidateValue(%g): unexpected error: %v", v, err)
		}
	}
	for _, v := range []float64{-0.1, math.NaN(), math.Inf(1)} {
		if err := ValidateValue(v); err == nil {
			t.Errorf("ValidateValue(%g): expected error", v)
		}
	}
}

func TestUnit(t *testing.T) {
	if Water.Unit() != "L" {
		t.Errorf("expected L, got %s", Water.Unit())
	}
	if Energy.Unit() != "kWh" {
		t.Errorf("expected kWh, got %s", Energy.Unit())
	}
	if EntryType("gas").Unit() != "" {
		t.Errorf("expected empty unit for unknown type")
	}
}
