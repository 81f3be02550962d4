package services

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/goalflow-backend/internal/domain"
	"github.com/yungbote/goalflow-backend/internal/platform/apierr"
	"github.com/yungbote/goalflow-backend/internal/platform/pointers"
	"github.com/yungbote/goalflow-backend/internal/realtime"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

type progressFixture struct {
	plan   *types.Plan
	weekly *types.WeeklyGoal
}

func seedProgress(t *testing.T, h *harness, weeklyTarget float64) progressFixture {
	t.Helper()
	g, err := h.goals.Create(h.dbc, CreateGoalInput{Title: "study"})
	if err != nil {
		t.Fatalf("goal: %v", err)
	}
	p, err := h.plans.Create(h.dbc, g.ID, CreatePlanInput{
		Title:       "go",
		TargetValue: pointers.Float64(20),
		Unit:        pointers.String("hours"),
	})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	wg, err := h.weekly.Create(h.dbc, CreateWeeklyGoalInput{PlanID: p.ID, TargetValue: weeklyTarget})
	if err != nil {
		t.Fatalf("weekly goal: %v", err)
	}
	return progressFixture{plan: p, weekly: wg}
}

func (h *harness) planValue(t *testing.T, id uuid.UUID) float64 {
	t.Helper()
	p, err := h.plans.Get(h.dbc, id)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if p.CurrentValue == nil {
		return 0
	}
	return *p.CurrentValue
}

func (h *harness) weeklyGoal(t *testing.T, id uuid.UUID) *types.WeeklyGoal {
	t.Helper()
	var w types.WeeklyGoal
	if err := h.db.Where("id = ?", id).First(&w).Error; err != nil {
		t.Fatalf("weekly goal: %v", err)
	}
	return &w
}

func TestRecordServiceCreateAccumulatesWithConversion(t *testing.T) {
	h := newHarness(t)
	fx := seedProgress(t, h, 1)

	for i := 0; i < 3; i++ {
		if _, err := h.records.Create(h.dbc, CreateRecordInput{
			Quantity:     20,
			Unit:         "minutes",
			WeeklyGoalID: &fx.weekly.ID,
		}); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}
	wg := h.weeklyGoal(t, fx.weekly.ID)
	if !near(wg.CurrentValue, 1) || wg.Status != types.WeeklyStatusCompleted {
		t.Fatalf("3x20m against 1h: got current=%v status=%s", wg.CurrentValue, wg.Status)
	}
	if got := h.planValue(t, fx.plan.ID); got != 0 {
		t.Fatalf("plan must not move for weekly-only records, got=%v", got)
	}

	r, err := h.records.Create(h.dbc, CreateRecordInput{Quantity: 90, Unit: "minutes", PlanID: &fx.plan.ID})
	if err != nil {
		t.Fatalf("Create plan record: %v", err)
	}
	if r.GoalID == nil || *r.GoalID != fx.plan.GoalID {
		t.Fatalf("record should carry the plan's goal, got=%v", r.GoalID)
	}
	if !r.PerformedAt.Equal(pinnedNow) {
		t.Fatalf("performed_at default: want=%v got=%v", pinnedNow, r.PerformedAt)
	}
	if got := h.planValue(t, fx.plan.ID); !near(got, 1.5) {
		t.Fatalf("plan: want=1.5 got=%v", got)
	}
	hist, _ := h.plans.History(h.dbc, fx.plan.ID)
	if hist[0].ChangeType != types.HistoryProgress || hist[0].NewValue == nil || *hist[0].NewValue != "1.5" {
		t.Fatalf("latest history should be progress to 1.5, got=%+v", hist[0])
	}
	if got := h.notifier.count(realtime.SSEEventRecordCreated); got != 4 {
		t.Fatalf("created events: want=4 got=%d", got)
	}
}

func TestRecordServiceUpdateAppliesDelta(t *testing.T) {
	h := newHarness(t)
	fx := seedProgress(t, h, 2)
	r, _ := h.records.Create(h.dbc, CreateRecordInput{Quantity: 30, Unit: "minutes", PlanID: &fx.plan.ID, WeeklyGoalID: &fx.weekly.ID})

	q := 60.0
	if _, err := h.records.Update(h.dbc, r.ID, UpdateRecordInput{Quantity: &q}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := h.planValue(t, fx.plan.ID); !near(got, 1) {
		t.Fatalf("plan after 30m->60m: want=1 got=%v", got)
	}
	wg := h.weeklyGoal(t, fx.weekly.ID)
	if !near(wg.CurrentValue, 1) || wg.Status != types.WeeklyStatusActive {
		t.Fatalf("weekly after edit: current=%v status=%s", wg.CurrentValue, wg.Status)
	}

	unit := "hours"
	q = 2
	if _, err := h.records.Update(h.dbc, r.ID, UpdateRecordInput{Quantity: &q, Unit: &unit}); err != nil {
		t.Fatalf("Update unit: %v", err)
	}
	wg = h.weeklyGoal(t, fx.weekly.ID)
	if !near(wg.CurrentValue, 2) || wg.Status != types.WeeklyStatusCompleted {
		t.Fatalf("weekly after 60m->2h: current=%v status=%s", wg.CurrentValue, wg.Status)
	}
}

func TestRecordServiceUpdateMovesContributionBetweenPlans(t *testing.T) {
	h := newHarness(t)
	fx := seedProgress(t, h, 5)
	other, _ := h.plans.Create(h.dbc, fx.plan.GoalID, CreatePlanInput{Title: "rust", Unit: pointers.String("minutes")})
	r, _ := h.records.Create(h.dbc, CreateRecordInput{Quantity: 2, Unit: "hours", PlanID: &fx.plan.ID})

	if _, err := h.records.Update(h.dbc, r.ID, UpdateRecordInput{SetPlan: true, PlanID: &other.ID}); err != nil {
		t.Fatalf("Update link: %v", err)
	}
	if got := h.planValue(t, fx.plan.ID); got != 0 {
		t.Fatalf("old plan: want=0 got=%v", got)
	}
	if got := h.planValue(t, other.ID); got != 120 {
		t.Fatalf("new plan: want=120 got=%v", got)
	}

	if _, err := h.records.Update(h.dbc, r.ID, UpdateRecordInput{SetPlan: true}); err != nil {
		t.Fatalf("Update unlink: %v", err)
	}
	if got := h.planValue(t, other.ID); got != 0 {
		t.Fatalf("unlinked plan: want=0 got=%v", got)
	}
	stored, _ := h.records.Recent(h.dbc, 10, 0)
	if len(stored) != 1 || stored[0].Kind != types.RecordStandalone {
		t.Fatalf("record should now be standalone, got=%+v", stored)
	}
}

func TestRecordServiceDeleteClampsAtZero(t *testing.T) {
	h := newHarness(t)
	fx := seedProgress(t, h, 1)
	r, _ := h.records.Create(h.dbc, CreateRecordInput{Quantity: 45, Unit: "minutes", PlanID: &fx.plan.ID, WeeklyGoalID: &fx.weekly.ID})

	// Someone lowered the totals by hand after the record was logged.
	if _, err := h.plans.Update(h.dbc, fx.plan.ID, UpdatePlanInput{CurrentValue: pointers.Float64(0.25)}); err != nil {
		t.Fatalf("plan update: %v", err)
	}
	if _, err := h.weekly.Update(h.dbc, fx.weekly.ID, UpdateWeeklyGoalInput{CurrentValue: pointers.Float64(0.5)}); err != nil {
		t.Fatalf("weekly update: %v", err)
	}

	if err := h.records.Delete(h.dbc, r.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := h.planValue(t, fx.plan.ID); got != 0 {
		t.Fatalf("plan: want clamp to 0 got=%v", got)
	}
	if wg := h.weeklyGoal(t, fx.weekly.ID); wg.CurrentValue != 0 || wg.Status != types.WeeklyStatusActive {
		t.Fatalf("weekly: want 0/active got=%v/%s", wg.CurrentValue, wg.Status)
	}
	if err := h.records.Delete(h.dbc, r.ID); !errors.Is(err, apierr.ErrNotFound) {
		t.Fatalf("second delete: want ErrNotFound got=%v", err)
	}
}

func TestRecordServiceValidatesBeforeWriting(t *testing.T) {
	h := newHarness(t)
	missing := uuid.New()
	if _, err := h.records.Create(h.dbc, CreateRecordInput{Quantity: 1, Unit: "hours", PlanID: &missing}); !errors.Is(err, apierr.ErrNotFound) {
		t.Fatalf("unknown plan: want ErrNotFound got=%v", err)
	}
	if _, err := h.records.Create(h.dbc, CreateRecordInput{Quantity: 1, Unit: " "}); !errors.Is(err, apierr.ErrInvalidArgument) {
		t.Fatalf("blank unit: want ErrInvalidArgument got=%v", err)
	}
	if _, err := h.records.Create(h.anonymous(), CreateRecordInput{Quantity: 1, Unit: "hours"}); !errors.Is(err, apierr.ErrUnauthenticated) {
		t.Fatalf("anonymous: want ErrUnauthenticated got=%v", err)
	}
	var n int64
	h.db.Model(&types.Record{}).Where("user_id = ?", h.owner).Count(&n)
	if n != 0 {
		t.Fatalf("no record should have been written, got=%d", n)
	}
}

func TestRecordServiceRecentDefaultsToPageSize(t *testing.T) {
	h := newHarness(t)
	for i := 0; i < 7; i++ {
		at := pinnedNow.Add(-time.Duration(i) * time.Hour)
		if _, err := h.records.Create(h.dbc, CreateRecordInput{PerformedAt: &at, Quantity: float64(i), Unit: "pages"}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	page, err := h.records.Recent(h.dbc, 0, 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(page) != DefaultRecentRecords || page[0].Quantity != 0 {
		t.Fatalf("first page: want %d newest-first, got len=%d", DefaultRecentRecords, len(page))
	}
	rest, _ := h.records.Recent(h.dbc, 0, DefaultRecentRecords)
	if len(rest) != 2 || rest[1].Quantity != 6 {
		t.Fatalf("second page: got len=%d", len(rest))
	}
}
