package utils

import (
	"fmt"
	"time"

	"aluko-backend/internal/domain"
)

// CountdownInfo is the presentable state of the next rental deadline.
// Callers re-derive it on a ticker (at least once per second while shown);
// the function itself has no side effects and no internal clock.
type CountdownInfo struct {
	Label     string        `json:"label"`
	Target    time.Time     `json:"target"`
	Remaining time.Duration `json:"-"`
	IsOverdue bool          `json:"is_overdue"`
}

// Countdown derives the next relevant deadline for a rental. Approved
// rentals count down to pickup (start date + pickup time), active rentals
// to the return deadline (end date + return time). Other statuses have no
// deadline and report ok=false.
func Countdown(now time.Time, rental *domain.Rental, loc *time.Location) (CountdownInfo, bool) {
	var (
		target time.Time
		err    error
		kind   string
	)

	switch rental.Status {
	case domain.RentalStatusApproved:
		target, err = CombineDateTime(rental.StartDate, rental.PickupTime, loc)
		kind = "Pickup"
	case domain.RentalStatusActive:
		target, err = CombineDateTime(rental.EndDate, rental.ReturnTime, loc)
		kind = "Return"
	default:
		return CountdownInfo{}, false
	}
	if err != nil {
		return CountdownInfo{}, false
	}

	remaining := target.Sub(now)
	if remaining <= 0 {
		return CountdownInfo{
			Label:     fmt.Sprintf("%s overdue by %s", kind, FormatRemaining(-remaining)),
			Target:    target,
			Remaining: remaining,
			IsOverdue: true,
		}, true
	}

	var label string
	if kind == "Pickup" {
		label = fmt.Sprintf("Pickup in %s", FormatRemaining(remaining))
	} else {
		label = fmt.Sprintf("Return due in %s", FormatRemaining(remaining))
	}
	return CountdownInfo{Label: label, Target: target, Remaining: remaining}, true
}

// FormatRemaining renders a duration as its two or three most significant
// non-zero units out of days/hours/minutes/seconds: "2d 5h 13m",
// "3h 12m", "45m 10s", "9s".
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	total := int64(d.Seconds())
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
