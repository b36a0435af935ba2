package greenscore

import (
	"fmt"

	"github.com/jgoulah/ecohome/pkg/models"
)

var (
	lowScoreTips = []string{
		"Your score is low — consider an energy audit and reduce standby power (unplug chargers and unused devices).",
		"Install low-flow shower heads and check for leaks to reduce water usage.",
	}
	midScoreTips = []string{
		"Good start — replace old incandescent bulbs with LED and run full loads in washing/dishwasher.",
		"Track shower times and set a family challenge to save water each week.",
	}
	highScoreTips = []string{
		"Great job! Keep monitoring and consider solar panels or a rainwater tank for further gains.",
		"Share your habits with neighbours and start a community swap or tool library.",
	}
)

// Tips returns the advice for a score band followed by the household's collection days
func Tips(household models.Household, score int) []string {
	var band []string
	switch {
	case score < 30:
		band = lowScoreTips
	case score < 60:
		band = midScoreTips
	default:
		band = highScoreTips
	}

	tips := make([]string, 0, len(band)+1)
	tips = append(tips, band...)
	tips = append(tips, ScheduleTip(Schedule(household.Postcode)))
	return tips
}

// ScheduleTip formats a collection schedule as a tip line
func ScheduleTip(s CollectionSchedule) string {
	return fmt.Sprintf("General waste day: %s. Recycling day: %s.", s.General, s.Recycling)
}
