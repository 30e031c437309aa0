package portfolio

import "time"

// DefaultTimezone decides which calendar day counts as "today".
const DefaultTimezone = "Europe/Warsaw"

// LoadLocation resolves name, falling back to a fixed CET zone when the
// tz database is unavailable.
func LoadLocation(name string) *time.Location {
	if name == "" {
		name = DefaultTimezone
	}
	location, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone(name, 60*60)
	}
	return location
}

// TodayIn returns the current calendar day in loc.
func TodayIn(loc *time.Location) Date {
	if loc == nil {
		loc = time.Local
	}
	return DateOf(time.Now().In(loc))
}
