package application

import (
	"math"
	"time"

	"github.com/example/cafe-manager/internal/domain"
	"github.com/example/cafe-manager/internal/persistence"
)

// billableMinutes prorates elapsed time to whole minutes, rounding to the
// nearest minute with a one-minute floor so no session closes for free.
func billableMinutes(start, end time.Time) int {
	minutes := int(math.Round(end.Sub(start).Minutes()))
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// timeCharge computes the time portion of a session's bill at endedAt.
//
// Timed sessions bill per minute against the hourly rate snapshot; a prepaid
// planned block bills the block instead of elapsed time. Unlimited sessions
// bill the flat rate regardless of duration.
func timeCharge(session persistence.Session, endedAt time.Time) (charge float64, minutes int) {
	minutes = billableMinutes(session.StartedAt, endedAt)

	switch session.Mode {
	case domain.SessionModeUnlimited:
		return roundCents(session.FlatRate), minutes
	default:
		if session.PlannedMinutes != nil && *session.PlannedMinutes > 0 {
			minutes = *session.PlannedMinutes
		}
		return roundCents(session.HourlyRate * float64(minutes) / 60), minutes
	}
}

func roundCents(value float64) float64 {
	return math.Round(value*100) / 100
}
