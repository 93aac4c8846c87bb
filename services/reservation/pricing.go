package reservation

import (
	"math"
	"time"

	"carental/models"
)

// Quote derives the billing figures for a rental period. The day count is the
// whole number of 24-hour spans between the two instants; any period shorter
// than a day still bills one day.
func Quote(dailyRate float64, start, end time.Time) models.Pricing {
	days := int(math.Floor(end.Sub(start).Hours() / 24))
	if days < 1 {
		days = 1
	}
	return models.Pricing{
		DailyRate:   dailyRate,
		TotalDays:   days,
		TotalAmount: dailyRate * float64(days),
	}
}
