package tracking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/goalflow-backend/internal/data/repos/testutil"
	types "github.com/yungbote/goalflow-backend/internal/domain"
	"github.com/yungbote/goalflow-backend/internal/platform/dbctx"
	"github.com/yungbote/goalflow-backend/internal/platform/pointers"
	"github.com/yungbote/goalflow-backend/internal/week"
)

func TestWeeklyGoalRepoProgressDerivesStatus(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewWeeklyGoalRepo(db, testutil.Logger(t))

	owner := uuid.New()
	g := testutil.SeedGoal(t, ctx, tx, owner, nil, "study", 0)
	p := testutil.SeedPlan(t, ctx, tx, owner, g.ID, "go", nil, pointers.String("hours"))
	wg := testutil.SeedWeeklyGoal(t, ctx, tx, owner, p.ID, week.Date(2024, time.January, 8), 1)

	for i := 0; i < 3; i++ {
		if err := repo.AddProgress(dbc, owner, wg.ID, 20.0/60); err != nil {
			t.Fatalf("AddProgress %d: %v", i, err)
		}
	}
	got, _ := repo.GetByID(dbc, owner, wg.ID)
	if got.Status != types.WeeklyStatusCompleted {
		t.Fatalf("3x20m against 1h: want completed got=%s (current %v)", got.Status, got.CurrentValue)
	}

	if err := repo.WithdrawProgress(dbc, owner, wg.ID, 0.5); err != nil {
		t.Fatalf("WithdrawProgress: %v", err)
	}
	got, _ = repo.GetByID(dbc, owner, wg.ID)
	if got.Status != types.WeeklyStatusActive {
		t.Fatalf("after withdraw: want active got=%s", got.Status)
	}

	if err := repo.WithdrawProgress(dbc, owner, wg.ID, 10); err != nil {
		t.Fatalf("WithdrawProgress: %v", err)
	}
	got, _ = repo.GetByID(dbc, owner, wg.ID)
	if got.CurrentValue != 0 || got.Status != types.WeeklyStatusActive {
		t.Fatalf("clamped: want 0/active got=%v/%s", got.CurrentValue, got.Status)
	}
}

func TestWeeklyGoalRepoListByWeekWithPlan(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewWeeklyGoalRepo(db, testutil.Logger(t))

	owner := uuid.New()
	monday := week.Date(2024, time.January, 8)
	g := testutil.SeedGoal(t, ctx, tx, owner, nil, "reading", 0)
	p := testutil.SeedPlan(t, ctx, tx, owner, g.ID, "novels", nil, pointers.String("pages"))
	this := testutil.SeedWeeklyGoal(t, ctx, tx, owner, p.ID, monday, 50)
	testutil.SeedWeeklyGoal(t, ctx, tx, owner, p.ID, week.Previous(monday), 50)

	rows, err := repo.ListByWeekWithPlan(dbc, owner, monday)
	if err != nil || len(rows) != 1 {
		t.Fatalf("ListByWeekWithPlan: err=%v len=%d", err, len(rows))
	}
	if rows[0].ID != this.ID || rows[0].Plan == nil || rows[0].Plan.Title != "novels" || rows[0].Plan.GoalTitle != "reading" {
		t.Fatalf("unexpected row: %+v plan=%+v", rows[0], rows[0].Plan)
	}

	all, err := repo.ListByPlan(dbc, owner, p.ID)
	if err != nil || len(all) != 2 {
		t.Fatalf("ListByPlan: err=%v len=%d", err, len(all))
	}
	if time.Time(all[0].WeekStartDate).Before(time.Time(all[1].WeekStartDate)) {
		t.Fatalf("ListByPlan: want newest week first")
	}
}

func TestRecordRepoTagsViews(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewRecordRepo(db, testutil.Logger(t))

	owner := uuid.New()
	g := testutil.SeedGoal(t, ctx, tx, owner, nil, "fitness", 0)
	p := testutil.SeedPlan(t, ctx, tx, owner, g.ID, "run", nil, pointers.String("km"))
	wg := testutil.SeedWeeklyGoal(t, ctx, tx, owner, p.ID, week.Date(2024, time.January, 8), 20)

	base := time.Date(2024, time.January, 9, 7, 0, 0, 0, time.UTC)
	standalone := testutil.SeedRecord(t, ctx, tx, owner, base, 1, "km", nil, nil)
	planned := testutil.SeedRecord(t, ctx, tx, owner, base.Add(time.Hour), 2, "km", pointers.Ptr(p.ID), nil)
	weekly := testutil.SeedRecord(t, ctx, tx, owner, base.Add(2*time.Hour), 3, "km", pointers.Ptr(p.ID), pointers.Ptr(wg.ID))

	views, err := repo.ListRecent(dbc, owner, 5, 0)
	if err != nil || len(views) != 3 {
		t.Fatalf("ListRecent: err=%v len=%d", err, len(views))
	}
	want := []struct {
		id   uuid.UUID
		kind types.RecordKind
	}{
		{weekly.ID, types.RecordWithWeeklyGoal},
		{planned.ID, types.RecordWithPlan},
		{standalone.ID, types.RecordStandalone},
	}
	for i, w := range want {
		if views[i].ID != w.id || views[i].Kind != w.kind {
			t.Fatalf("view %d: want=%s/%s got=%s/%s", i, w.id, w.kind, views[i].ID, views[i].Kind)
		}
	}
	if views[0].WeeklyGoal == nil || views[0].Plan == nil || views[0].Plan.ID != p.ID {
		t.Fatalf("weekly view missing joins: %+v", views[0])
	}

	page, err := repo.ListRecent(dbc, owner, 2, 2)
	if err != nil || len(page) != 1 || page[0].ID != standalone.ID {
		t.Fatalf("second page: err=%v len=%d", err, len(page))
	}

	if err := repo.UnlinkWeeklyGoals(dbc, owner, []uuid.UUID{wg.ID}); err != nil {
		t.Fatalf("UnlinkWeeklyGoals: %v", err)
	}
	got, _ := repo.GetByID(dbc, owner, weekly.ID)
	if got.WeeklyGoalID != nil || got.PlanID == nil {
		t.Fatalf("after unlink weekly goal: %+v", got)
	}
	if err := repo.UnlinkPlans(dbc, owner, []uuid.UUID{p.ID}); err != nil {
		t.Fatalf("UnlinkPlans: %v", err)
	}
	got, _ = repo.GetByID(dbc, owner, planned.ID)
	if got.PlanID != nil {
		t.Fatalf("after unlink plan: %+v", got)
	}

	between, err := repo.ListBetween(dbc, owner, base, base.Add(90*time.Minute))
	if err != nil || len(between) != 2 {
		t.Fatalf("ListBetween: err=%v len=%d", err, len(between))
	}
}

func TestRecordRepoDeleteLinked(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewRecordRepo(db, testutil.Logger(t))

	owner := uuid.New()
	g := testutil.SeedGoal(t, ctx, tx, owner, nil, "fitness", 0)
	p := testutil.SeedPlan(t, ctx, tx, owner, g.ID, "run", nil, nil)
	now := time.Now()
	testutil.SeedRecord(t, ctx, tx, owner, now, 1, "km", pointers.Ptr(p.ID), nil)
	keep := testutil.SeedRecord(t, ctx, tx, owner, now, 1, "km", nil, nil)

	if err := repo.DeleteLinked(dbc, owner, nil, []uuid.UUID{p.ID}, nil); err != nil {
		t.Fatalf("DeleteLinked: %v", err)
	}
	n, err := repo.Count(dbc, owner)
	if err != nil || n != 1 {
		t.Fatalf("Count: want=1 got=%d err=%v", n, err)
	}
	if got, _ := repo.GetByID(dbc, owner, keep.ID); got == nil {
		t.Fatalf("standalone record should survive")
	}
}
