package week

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/yungbote/goalflow-backend/internal/domain/user"
)

const DateLayout = "2006-01-02"

// DefaultZone is used when APP_TIMEZONE is unset.
const DefaultZone = "Asia/Tokyo"

// Location loads name, falling back to a fixed +09:00 zone for Asia/Tokyo
// when the host has no tzdata, and to UTC for anything else.
func Location(name string) *time.Location {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultZone
	}
	loc, err := time.LoadLocation(name)
	if err == nil {
		return loc
	}
	if name == DefaultZone {
		return time.FixedZone("JST", 9*60*60)
	}
	return time.UTC
}

// Start returns the first day of the week containing now, as seen in loc.
// startDay is "monday" or "sunday"; anything else is treated as monday.
func Start(now time.Time, startDay string, loc *time.Location) datatypes.Date {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	wd := int(local.Weekday())
	var diff int
	if startDay == user.WeekStartSunday {
		diff = -wd
	} else if wd == 0 {
		diff = -6
	} else {
		diff = 1 - wd
	}
	d := local.AddDate(0, 0, diff)
	return Date(d.Year(), d.Month(), d.Day())
}

// Date builds a calendar date stored as UTC midnight.
func Date(y int, m time.Month, d int) datatypes.Date {
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// Normalize drops the clock from t, keeping its calendar day in t's zone.
func Normalize(t time.Time) datatypes.Date {
	return Date(t.Year(), t.Month(), t.Day())
}

func Shift(d datatypes.Date, weeks int) datatypes.Date {
	return Normalize(time.Time(d).AddDate(0, 0, 7*weeks))
}

func Next(d datatypes.Date) datatypes.Date     { return Shift(d, 1) }
func Previous(d datatypes.Date) datatypes.Date { return Shift(d, -1) }

// Bounds converts the week starting on d into the instant range
// [from, to) in loc, both returned in UTC.
func Bounds(d datatypes.Date, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	t := time.Time(d)
	from := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	to := from.AddDate(0, 0, 7)
	return from.UTC(), to.UTC()
}

func Parse(s string) (datatypes.Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return datatypes.Date{}, fmt.Errorf("date %q must look like %s: %w", s, DateLayout, err)
	}
	return Normalize(t), nil
}

// ParseOptional returns nil for an empty string.
func ParseOptional(s *string) (*datatypes.Date, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	d, err := Parse(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func Format(d datatypes.Date) string {
	return time.Time(d).Format(DateLayout)
}
