package models

// Pricing is the quote for a candidate interval.
type Pricing struct {
	DailyRate   float64 `json:"daily_rate"`
	TotalDays   int     `json:"total_days"`
	TotalAmount float64 `json:"total_amount"`
}

// AvailabilityResult is the read-only twin of a booking attempt: whether the
// car can be booked for the interval, and either the conflicts blocking it or
// the price it would cost.
type AvailabilityResult struct {
	Available bool              `json:"available"`
	Message   string            `json:"message,omitempty"`
	Conflicts []ConflictSummary `json:"conflicts,omitempty"`
	Pricing   *Pricing          `json:"pricing,omitempty"`
}
