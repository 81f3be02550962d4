package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/goalflow-backend/internal/data/repos/testutil"
	types "github.com/yungbote/goalflow-backend/internal/domain"
	"github.com/yungbote/goalflow-backend/internal/platform/apierr"
	"github.com/yungbote/goalflow-backend/internal/platform/pointers"
)

func TestPlanServiceCreateWritesHistory(t *testing.T) {
	h := newHarness(t)
	g, _ := h.goals.Create(h.dbc, CreateGoalInput{Title: "fitness"})

	p, err := h.plans.Create(h.dbc, g.ID, CreatePlanInput{
		Title:       "run",
		TargetValue: pointers.Float64(10),
		Unit:        pointers.String("km"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Status != types.PlanStatusPending || p.Priority != types.PlanPriorityMedium {
		t.Fatalf("defaults: got status=%s priority=%s", p.Status, p.Priority)
	}
	if p.CurrentValue == nil || *p.CurrentValue != 0 {
		t.Fatalf("current value should start at 0, got=%v", p.CurrentValue)
	}
	hist, err := h.plans.History(h.dbc, p.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(hist) != 1 || hist[0].ChangeType != types.HistoryCreated {
		t.Fatalf("want one created entry, got=%+v", hist)
	}

	if _, err := h.plans.Create(h.dbc, uuid.New(), CreatePlanInput{Title: "x"}); !errors.Is(err, apierr.ErrNotFound) {
		t.Fatalf("unknown goal: want ErrNotFound got=%v", err)
	}
	if _, err := h.plans.Create(h.dbc, g.ID, CreatePlanInput{Title: "x", Priority: "urgent"}); !errors.Is(err, apierr.ErrInvalidArgument) {
		t.Fatalf("bad priority: want ErrInvalidArgument got=%v", err)
	}
}

func TestPlanServiceUpdateRecordsChangedFields(t *testing.T) {
	h := newHarness(t)
	g, _ := h.goals.Create(h.dbc, CreateGoalInput{Title: "fitness"})
	p, _ := h.plans.Create(h.dbc, g.ID, CreatePlanInput{Title: "run", Priority: types.PlanPriorityLow})

	title := "run more"
	same := types.PlanPriorityLow
	due := "2024-02-01"
	got, err := h.plans.Update(h.dbc, p.ID, UpdatePlanInput{Title: &title, Priority: &same, DueDate: &due})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Title != title || got.DueDate == nil {
		t.Fatalf("unexpected plan: %+v", got)
	}
	hist, _ := h.plans.History(h.dbc, p.ID)
	fields := map[string]bool{}
	for _, row := range hist {
		if row.ChangeType == types.HistoryUpdated && row.FieldName != nil {
			fields[*row.FieldName] = true
		}
	}
	if len(fields) != 2 || !fields["title"] || !fields["due_date"] {
		t.Fatalf("want title and due_date entries only, got=%v", fields)
	}
}

func TestPlanServiceListActive(t *testing.T) {
	h := newHarness(t)
	g, _ := h.goals.Create(h.dbc, CreateGoalInput{Title: "fitness"})
	open, _ := h.plans.Create(h.dbc, g.ID, CreatePlanInput{Title: "open"})
	done, _ := h.plans.Create(h.dbc, g.ID, CreatePlanInput{Title: "done", Status: types.PlanStatusCompleted})

	active, err := h.plans.ListActive(h.dbc)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active) != 1 || active[0].ID != open.ID || active[0].Goal == nil || active[0].Goal.Title != "fitness" {
		t.Fatalf("unexpected active plans %+v", active)
	}
	for _, a := range active {
		if a.ID == done.ID {
			t.Fatalf("completed plan listed as active")
		}
	}
}

func TestPlanServiceDeleteUnlinksRecords(t *testing.T) {
	h := newHarness(t)
	ctx := h.dbc.Ctx
	g, _ := h.goals.Create(h.dbc, CreateGoalInput{Title: "study"})
	p, _ := h.plans.Create(h.dbc, g.ID, CreatePlanInput{Title: "go", Unit: pointers.String("hours")})
	wg := testutil.SeedWeeklyGoal(t, ctx, h.db, h.owner, p.ID, h.cal.WeekStart(types.WeekStartMonday), 5)
	direct := testutil.SeedRecord(t, ctx, h.db, h.owner, pinnedNow, 1, "hours", &p.ID, nil)
	weekly := testutil.SeedRecord(t, ctx, h.db, h.owner, pinnedNow, 1, "hours", nil, &wg.ID)

	if err := h.plans.Delete(h.dbc, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := h.plans.Get(h.dbc, p.ID); !errors.Is(err, apierr.ErrNotFound) {
		t.Fatalf("plan still present: %v", err)
	}
	for _, id := range []uuid.UUID{direct.ID, weekly.ID} {
		var r types.Record
		if err := h.db.Where("id = ?", id).First(&r).Error; err != nil {
			t.Fatalf("record %s removed: %v", id, err)
		}
		if r.PlanID != nil || r.WeeklyGoalID != nil {
			t.Fatalf("record %s still linked: %+v", id, r)
		}
	}
	var weeklies, history int64
	h.db.Model(&types.WeeklyGoal{}).Where("plan_id = ?", p.ID).Count(&weeklies)
	h.db.Model(&types.PlanHistory{}).Where("plan_id = ?", p.ID).Count(&history)
	if weeklies != 0 || history != 0 {
		t.Fatalf("leftovers weekly=%d history=%d", weeklies, history)
	}
}
