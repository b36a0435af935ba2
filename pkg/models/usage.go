package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// EntryType is the kind of resource a usage entry measures
type EntryType string

const (
	Water  EntryType = "water"
	Energy EntryType = "energy"
)

// EntryTypes lists every valid entry type in display order
var EntryTypes = []EntryType{Water, Energy}

// ParseEntryType validates a raw entry type string
func ParseEntryType(s string) (EntryType, error) {
	switch t := EntryType(strings.ToLower(strings.TrimSpace(s))); t {
	case Water, Energy:
		return t, nil
	default:
		return "", fmt.Errorf(`entry_type must be "water" or "energy", got %q`, s)
	}
}

// Unit returns the measurement unit implied by the type
func (t EntryType) Unit() string {
	switch t {
	case Water:
		return "L"
	case Energy:
		return "kWh"
	default:
		return ""
	}
}

// ValidateValue checks that a usage value is a finite, non-negative number
func ValidateValue(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("value must be a finite number")
	}
	if v < 0 {
		return fmt.Errorf("value must not be negative, got %g", v)
	}
	return nil
}

// UsageEntry represents one water or energy reading for a household
type UsageEntry struct {
	ID          int64     `json:"id"`
	HouseholdID int64     `json:"household_id"`
	Type        EntryType `json:"entry_type"`
	Value       float64   `json:"value"` // litres for water, kWh for energy
	RecordedAt  time.Time `json:"recorded_at"`
}
