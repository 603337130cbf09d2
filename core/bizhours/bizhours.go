// Package bizhours estimates issue resolution time in business hours.
package bizhours

import (
	"math"
	"time"
)

// Business day boundaries. Work observed after the nominal end of day
// extends that day's window to midnight.
const (
	dayStartHour = 7
	dayEndHour   = 19
)

// weekendBoundaryHours is credited for a weekend day when the activity
// itself started or ended on it. Interior weekend days count nothing.
const weekendBoundaryHours = 4.0

// DefaultTimezone is the zone the business-hours window is anchored to
// when the caller does not override it.
const DefaultTimezone = "America/Los_Angeles"

// Calculator computes elapsed business hours between two points in time.
type Calculator struct {
	loc *time.Location
}

// NewCalculator creates a calculator anchored to the given location.
func NewCalculator(loc *time.Location) *Calculator {
	return &Calculator{loc: loc}
}

// NewCalculatorForZone creates a calculator for an IANA zone name,
// falling back to UTC if the zone cannot be loaded.
func NewCalculatorForZone(name string) *Calculator {
	loc, err := time.LoadLocation(name)
	if err != nil {
		loc = time.UTC
	}
	return &Calculator{loc: loc}
}

// Between returns the business hours elapsed between start and end,
// rounded to one decimal. Weekdays count the 07:00-19:00 window,
// extended to midnight on days where the boundary activity itself
// happened after 19:00. Weekend days count nothing unless the activity
// started or ended on them, which credits a flat half shift.
func (c *Calculator) Between(start, end time.Time) float64 {
	if start.IsZero() || end.IsZero() {
		return 0
	}

	s := start.In(c.loc)
	e := end.In(c.loc)
	if s.After(e) {
		s, e = e, s
	}

	firstDay := c.startOfDay(s)
	lastDay := c.startOfDay(e)

	total := 0.0
	for day := firstDay; !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			if day.Equal(firstDay) || day.Equal(lastDay) {
				total += weekendBoundaryHours
			}
			continue
		}

		dayStart := c.atHour(day, dayStartHour)
		dayEnd := c.atHour(day, dayEndHour)

		if day.Equal(firstDay) {
			if s.After(dayStart) {
				dayStart = s
			}
			if s.Hour() >= dayEndHour {
				dayEnd = day.AddDate(0, 0, 1)
			}
		}
		if day.Equal(lastDay) {
			if e.Hour() >= dayEndHour {
				dayEnd = day.AddDate(0, 0, 1)
			}
			if e.Before(dayEnd) {
				dayEnd = e
			}
		}

		if dayStart.Before(dayEnd) {
			total += dayEnd.Sub(dayStart).Hours()
		}
	}

	return math.Round(total*10) / 10
}

// startOfDay returns midnight of the given time's calendar day.
func (c *Calculator) startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.loc)
}

// atHour returns the given calendar day at the specified hour.
func (c *Calculator) atHour(day time.Time, hour int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, c.loc)
}
