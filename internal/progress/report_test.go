package progress

import (
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/goalflow-backend/internal/domain"
)

func TestReportConvertsAndFilters(t *testing.T) {
	goalID := uuid.New()
	other := uuid.New()
	targets := []*types.WeeklyTarget{
		{MetricName: "study", TargetValue: 2, Unit: "hours"},
		{MetricName: "running", TargetValue: 10, Unit: "km", GoalID: &goalID},
	}
	records := []*types.Record{
		{Quantity: 90, Unit: "minutes"},
		{Quantity: 0.5, Unit: "時間"},
		{Quantity: 4, Unit: "km", GoalID: &goalID},
		{Quantity: 6, Unit: "km", GoalID: &other},
		{Quantity: 3, Unit: "pages"},
	}

	got := Report(targets, records)
	if len(got) != 2 {
		t.Fatalf("rows: want=2 got=%d", len(got))
	}
	if !near(got[0].ActualValue, 2) || !near(got[0].AchievementRate, 100) {
		t.Fatalf("study: unexpected %+v", got[0])
	}
	if got[1].ActualValue != 4 || got[1].AchievementRate != 40 {
		t.Fatalf("running: unexpected %+v", got[1])
	}
}

func TestReportEmpty(t *testing.T) {
	if got := Report(nil, nil); got == nil || len(got) != 0 {
		t.Fatalf("want empty non-nil slice, got=%v", got)
	}
}
