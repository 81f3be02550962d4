package progress

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	types "github.com/yungbote/goalflow-backend/internal/domain"
)

const (
	Minutes = "minutes"
	Hours   = "hours"
)

// CompletionTolerance absorbs float drift from minute/hour conversions when
// comparing a running total with its target.
const CompletionTolerance = 1e-9

var aliases = map[string]string{
	"minutes": Minutes,
	"分":       Minutes,
	"hours":   Hours,
	"時間":      Hours,
}

// Canonical folds the recognised time units to Minutes or Hours. Any other
// label is returned trimmed and otherwise untouched.
func Canonical(unit string) string {
	u := strings.TrimSpace(unit)
	if c, ok := aliases[strings.ToLower(u)]; ok {
		return c
	}
	return u
}

// Convert expresses quantity, logged in recordUnit, in targetUnit. Only the
// minutes/hours pair converts; every other pairing passes through.
func Convert(quantity float64, recordUnit, targetUnit string) float64 {
	from, to := Canonical(recordUnit), Canonical(targetUnit)
	switch {
	case from == Minutes && to == Hours:
		return quantity / 60
	case from == Hours && to == Minutes:
		return quantity * 60
	default:
		return quantity
	}
}

// Contribution is Convert against an optional target unit.
func Contribution(quantity float64, recordUnit string, targetUnit *string) float64 {
	if targetUnit == nil {
		return quantity
	}
	return Convert(quantity, recordUnit, *targetUnit)
}

// Compatible reports whether records in recordUnit count towards a target
// measured in targetUnit.
func Compatible(recordUnit, targetUnit string) bool {
	from, to := Canonical(recordUnit), Canonical(targetUnit)
	if from == to {
		return true
	}
	return (from == Minutes && to == Hours) || (from == Hours && to == Minutes)
}

// Accumulate adds delta to a possibly unset running total.
func Accumulate(current *float64, delta float64) float64 {
	base := 0.0
	if current != nil {
		base = *current
	}
	return base + delta
}

// Withdraw removes a contribution and never goes below zero.
func Withdraw(current *float64, contribution float64) float64 {
	return math.Max(0, Accumulate(current, -contribution))
}

// Delta is the change in contribution when a record is edited from
// (oldQ, oldUnit) to (newQ, newUnit), both measured against targetUnit.
func Delta(oldQ float64, oldUnit string, newQ float64, newUnit string, targetUnit *string) float64 {
	return Contribution(newQ, newUnit, targetUnit) - Contribution(oldQ, oldUnit, targetUnit)
}

// WeeklyStatus derives a weekly goal's status from its totals. It never
// yields failed.
func WeeklyStatus(current, target float64) string {
	if current+CompletionTolerance >= target {
		return types.WeeklyStatusCompleted
	}
	return types.WeeklyStatusActive
}

// AchievementRate is actual as a percentage of target, 0 for a zero target.
func AchievementRate(actual, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return actual / target * 100
}

// FormatQuantity renders a quantity for display. Time units become hours
// and minutes ("1h 30m", "45m"); Japanese labels stay Japanese.
func FormatQuantity(quantity float64, unit string) string {
	raw := strings.TrimSpace(unit)
	hourLabel, minLabel, sep := "h", "m", " "
	if raw == "時間" || raw == "分" {
		hourLabel, minLabel, sep = "時間", "分", ""
	}

	switch Canonical(raw) {
	case Hours:
		h := math.Floor(quantity)
		m := math.Round((quantity - h) * 60)
		return hoursMinutes(h, m, hourLabel, minLabel, sep)
	case Minutes:
		if quantity < 60 {
			return num(quantity) + minLabel
		}
		h := math.Floor(quantity / 60)
		m := math.Round(math.Mod(quantity, 60))
		return hoursMinutes(h, m, hourLabel, minLabel, sep)
	}
	if raw == "" {
		return num(quantity)
	}
	return fmt.Sprintf("%s %s", num(quantity), raw)
}

func hoursMinutes(h, m float64, hourLabel, minLabel, sep string) string {
	if m >= 60 {
		h++
		m -= 60
	}
	if m == 0 {
		return num(h) + hourLabel
	}
	return num(h) + hourLabel + sep + num(m) + minLabel
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
