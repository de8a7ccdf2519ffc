package availability

import "time"

// GenerateSlots returns every bookable start time for one day: Open, Open+i,
// Open+2i, ... strictly before Close. Interval 30 over 10:00-20:00 yields 20
// slots ending 19:30; a last appointment may run past closing, the shop just
// stops seating new chairs at Close.
func GenerateSlots(intervalMinutes int, hours Hours) []TimeOfDay {
	if intervalMinutes <= 0 || hours.Open >= hours.Close {
		return nil
	}
	var slots []TimeOfDay
	for t := hours.Open; t < hours.Close; t += TimeOfDay(intervalMinutes) {
		slots = append(slots, t)
	}
	return slots
}

// AvailableSlots filters the generated sequence down to what a customer may
// still book on date: occupied starts are removed, and when date is today
// (relative to now, already in the shop timezone) so is everything at or
// before the current minute. Order is preserved.
func AvailableSlots(intervalMinutes int, hours Hours, date Date, booked []TimeOfDay, now time.Time) []TimeOfDay {
	all := GenerateSlots(intervalMinutes, hours)
	if len(all) == 0 {
		return nil
	}

	taken := make(map[TimeOfDay]struct{}, len(booked))
	for _, b := range booked {
		taken[b] = struct{}{}
	}

	today := date == DateOf(now)
	cutoff := MinuteOf(now)

	var free []TimeOfDay
	for _, t := range all {
		if _, ok := taken[t]; ok {
			continue
		}
		if today && t <= cutoff {
			continue
		}
		free = append(free, t)
	}
	return free
}

// IsPast reports whether the slot at t on date has already begun. A slot equal
// to the current minute counts as past.
func IsPast(date Date, t TimeOfDay, now time.Time) bool {
	nd := DateOf(now)
	if date.Before(nd) {
		return true
	}
	if nd.Before(date) {
		return false
	}
	return t <= MinuteOf(now)
}
