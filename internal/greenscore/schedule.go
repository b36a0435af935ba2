package greenscore

import (
	"strings"
	"unicode"
)

// CollectionSchedule holds the general and recycling pickup weekdays for a postcode
type CollectionSchedule struct {
	General   string `json:"general"`
	Recycling string `json:"recycling"`
}

var defaultSchedule = CollectionSchedule{General: "Friday", Recycling: "Tuesday"}

// binSchedules is a stand-in for a council schedule lookup, keyed by postcode prefix
var binSchedules = map[string]CollectionSchedule{
	"6000": {General: "Monday", Recycling: "Wednesday"},
	"6001": {General: "Tuesday", Recycling: "Thursday"},
	"6002": {General: "Wednesday", Recycling: "Friday"},
	"6003": {General: "Thursday", Recycling: "Monday"},
}

// Schedule returns the collection days for a postcode, falling back to the default pair
func Schedule(postcode string) CollectionSchedule {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, postcode)

	prefix := compact
	if r := []rune(compact); len(r) > 4 {
		prefix = string(r[:4])
	}

	if s, ok := binSchedules[prefix]; ok {
		return s
	}
	return defaultSchedule
}
