package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(d int) time.Time {
	return time.Date(2025, time.January, d, 0, 0, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	res := &Reservation{StartDate: day(5), EndDate: day(10)}

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{"identical interval", day(5), day(10), true},
		{"candidate inside existing", day(6), day(8), true},
		{"existing inside candidate", day(1), day(20), true},
		{"partial overlap at start", day(3), day(6), true},
		{"partial overlap at end", day(9), day(12), true},
		{"single shared day", day(9), day(10), true},
		{"abuts existing end", day(10), day(15), false},
		{"abuts existing start", day(1), day(5), false},
		{"entirely before", day(1), day(3), false},
		{"entirely after", day(12), day(15), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, res.Overlaps(tc.start, tc.end))
		})
	}
}

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		from ReservationStatus
		to   ReservationStatus
		want bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusActive, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusActive, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusCompleted, false},
		{StatusConfirmed, StatusPending, false},
		{StatusActive, StatusCompleted, true},
		{StatusActive, StatusCancelled, true},
		{StatusActive, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusActive, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusActive, false},
	}
	for _, tc := range tests {
		t.Run(string(tc.from)+"_to_"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.want, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestStatusClassification(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.False(t, StatusActive.IsTerminal())

	assert.True(t, StatusPending.IsValid())
	assert.False(t, ReservationStatus("returned").IsValid())

	assert.ElementsMatch(t,
		[]ReservationStatus{StatusPending, StatusConfirmed, StatusActive},
		NonTerminalStatuses())
}

func TestCarLabel(t *testing.T) {
	car := &Car{Brand: "Toyota", Model: "Corolla", Year: 2022}
	assert.Equal(t, "Toyota Corolla (2022)", car.Label())

	noYear := &Car{Brand: "Tesla", Model: "Model 3"}
	assert.Equal(t, "Tesla Model 3", noYear.Label())
}
