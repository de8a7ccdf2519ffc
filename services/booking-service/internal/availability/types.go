package availability

import (
	"fmt"
	"time"
)

// TimeOfDay is a minute offset since midnight. The wire format is "15:04";
// nothing else in the system parses clock strings.
type TimeOfDay int

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("invalid time of day %q", s)
		}
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	return TimeOfDay(h*60 + m), nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// MinuteOf truncates an instant to its minute offset within its own day.
func MinuteOf(now time.Time) TimeOfDay {
	return TimeOfDay(now.Hour()*60 + now.Minute())
}

// Date is a calendar day with no location attached. Comparisons against an
// instant assume the instant was already converted to the shop timezone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q", s)
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

func DateOf(now time.Time) Date {
	return Date{Year: now.Year(), Month: now.Month(), Day: now.Day()}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// Hours is the shop's daily working window, shared by every barber.
type Hours struct {
	Open  TimeOfDay
	Close TimeOfDay
}

func NewHours(open, close TimeOfDay) (Hours, error) {
	if open >= close {
		return Hours{}, fmt.Errorf("working hours open %s must precede close %s", open, close)
	}
	return Hours{Open: open, Close: close}, nil
}
