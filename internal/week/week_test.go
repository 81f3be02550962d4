package week

import (
	"testing"
	"time"
)

func TestStartMondayAndSunday(t *testing.T) {
	tokyo := Location("Asia/Tokyo")
	// Sunday 2024-06-09 23:30 in Tokyo.
	sunday := time.Date(2024, 6, 9, 23, 30, 0, 0, tokyo)

	if got := Format(Start(sunday, "monday", tokyo)); got != "2024-06-03" {
		t.Fatalf("monday start: want=2024-06-03 got=%s", got)
	}
	if got := Format(Start(sunday, "sunday", tokyo)); got != "2024-06-09" {
		t.Fatalf("sunday start: want=2024-06-09 got=%s", got)
	}
	wednesday := time.Date(2024, 6, 12, 8, 0, 0, 0, tokyo)
	if got := Format(Start(wednesday, "", tokyo)); got != "2024-06-10" {
		t.Fatalf("default start: want=2024-06-10 got=%s", got)
	}
}

func TestStartUsesLocalCalendar(t *testing.T) {
	tokyo := Location("Asia/Tokyo")
	// Sunday 20:00 UTC is already Monday morning in Tokyo.
	instant := time.Date(2024, 6, 9, 20, 0, 0, 0, time.UTC)
	if got := Format(Start(instant, "monday", tokyo)); got != "2024-06-10" {
		t.Fatalf("want=2024-06-10 got=%s", got)
	}
	if got := Format(Start(instant, "monday", time.UTC)); got != "2024-06-03" {
		t.Fatalf("utc: want=2024-06-03 got=%s", got)
	}
}

func TestShiftAndBounds(t *testing.T) {
	d, err := Parse("2024-06-10")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := Format(Next(d)); got != "2024-06-17" {
		t.Fatalf("Next: got=%s", got)
	}
	if got := Format(Previous(d)); got != "2024-06-03" {
		t.Fatalf("Previous: got=%s", got)
	}
	from, to := Bounds(d, time.FixedZone("JST", 9*60*60))
	if want := time.Date(2024, 6, 9, 15, 0, 0, 0, time.UTC); !from.Equal(want) {
		t.Fatalf("from: want=%s got=%s", want, from)
	}
	if to.Sub(from) != 7*24*time.Hour {
		t.Fatalf("width: got=%s", to.Sub(from))
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse("10/06/2024"); err == nil {
		t.Fatalf("want error")
	}
	empty := "  "
	got, err := ParseOptional(&empty)
	if err != nil || got != nil {
		t.Fatalf("ParseOptional(blank): want nil,nil got %v,%v", got, err)
	}
}
