package lifecycle

import (
	"time"

	"github.com/fastify/org-admin/internal/model"
)

// EligibleForEmeritus reports whether a member's activity record makes them
// eligible for the emeritus transition: no contribution of any kind within
// thresholdMonths of now.
//
// Month distance is calendar arithmetic: day-of-month is ignored, so the
// policy is deliberately coarse at month boundaries. A contribution exactly
// thresholdMonths old still counts as active. A member with no recorded
// contributions at all is eligible.
func EligibleForEmeritus(activity model.MemberActivity, thresholdMonths int, now time.Time) bool {
	for _, ts := range activity.Timestamps() {
		if monthsBetween(ts, now) <= thresholdMonths {
			return false
		}
	}
	return true
}

// monthsBetween returns the calendar-month distance from ts to now.
func monthsBetween(ts, now time.Time) int {
	return (now.Year()-ts.Year())*12 + int(now.Month()) - int(ts.Month())
}

// WindowYears returns the number of one-year query windows needed to cover
// a threshold expressed in months: ceil(thresholdMonths / 12).
func WindowYears(thresholdMonths int) int {
	return (thresholdMonths + 11) / 12
}
