package models

import (
	"fmt"
	"time"
)

// WarningThresholdMinutes is the remaining time at or below which an open
// window is flagged.
const WarningThresholdMinutes = 10

type TimeTag string

const (
	TagNormal  TimeTag = "normal"
	TagWarning TimeTag = "warning"
)

// TimeWindow is the display form of an application's timed portion.
//
// Closed windows carry the frozen duration in Elapsed; Remaining is only
// meaningful for open windows and may be negative on overrun.
type TimeWindow struct {
	Visible   bool
	Closed    bool
	Elapsed   int
	Remaining int
	Limit     int
	Tag       TimeTag
	Text      string
}

// DeriveTimeWindow computes the time display from the window bounds.
// Minutes are whole and rounded down. A closed window does not depend on now.
func DeriveTimeWindow(now time.Time, started, completed *time.Time, limitMinutes int) TimeWindow {
	if started == nil {
		return TimeWindow{}
	}

	if completed != nil {
		total := wholeMinutes(completed.Sub(*started))
		return TimeWindow{
			Visible: true,
			Closed:  true,
			Elapsed: total,
			Limit:   limitMinutes,
			Tag:     TagNormal,
			Text:    fmt.Sprintf("%d %s", total, minutesWord(total)),
		}
	}

	elapsed := wholeMinutes(now.Sub(*started))
	remaining := limitMinutes - elapsed
	w := TimeWindow{
		Visible:   true,
		Elapsed:   elapsed,
		Remaining: remaining,
		Limit:     limitMinutes,
		Tag:       TagNormal,
		Text:      fmt.Sprintf("%d / %d мин", elapsed, limitMinutes),
	}
	if remaining <= WarningThresholdMinutes {
		w.Tag = TagWarning
		w.Text = fmt.Sprintf("%d / %d мин (осталось %d)", elapsed, limitMinutes, remaining)
	}
	return w
}

// wholeMinutes floors d to minutes, also for negative durations.
func wholeMinutes(d time.Duration) int {
	m := d / time.Minute
	if d < 0 && d%time.Minute != 0 {
		m--
	}
	return int(m)
}

// minutesWord returns the Russian plural form of "minute" for n.
func minutesWord(n int) string {
	if n < 0 {
		n = -n
	}
	switch {
	case n%100 >= 11 && n%100 <= 14:
		return "минут"
	case n%10 == 1:
		return "минута"
	case n%10 >= 2 && n%10 <= 4:
		return "минуты"
	default:
		return "минут"
	}
}
