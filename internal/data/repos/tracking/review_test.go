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

func TestWeeklyReviewRepoUpsertKeepsOneRowPerWeek(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewWeeklyReviewRepo(db, testutil.Logger(t))

	owner := uuid.New()
	monday := week.Date(2024, time.January, 8)

	first := &types.WeeklyReview{UserID: owner, WeekStartDate: monday, Summary: pointers.String("slow start")}
	if err := repo.Upsert(dbc, first); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	second := &types.WeeklyReview{UserID: owner, WeekStartDate: monday, Summary: pointers.String("recovered")}
	if err := repo.Upsert(dbc, second); err != nil {
		t.Fatalf("Upsert again: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("want same row, got %s and %s", first.ID, second.ID)
	}

	got, err := repo.GetByWeek(dbc, owner, monday)
	if err != nil || got == nil || got.Summary == nil || *got.Summary != "recovered" {
		t.Fatalf("GetByWeek: err=%v got=%+v", err, got)
	}
	if got, err := repo.GetByWeek(dbc, owner, week.Next(monday)); err != nil || got != nil {
		t.Fatalf("GetByWeek empty week: want nil got=%+v err=%v", got, err)
	}
}

func TestWeeklyTargetRepoReplaceForWeek(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewWeeklyTargetRepo(db, testutil.Logger(t))

	owner := uuid.New()
	monday := week.Date(2024, time.January, 15)

	if _, err := repo.ReplaceForWeek(dbc, owner, monday, []*types.WeeklyTarget{
		{MetricName: "study", TargetValue: 10, Unit: "hours"},
		{MetricName: "run", TargetValue: 20, Unit: "km"},
	}); err != nil {
		t.Fatalf("ReplaceForWeek: %v", err)
	}
	if _, err := repo.ReplaceForWeek(dbc, owner, monday, []*types.WeeklyTarget{
		{MetricName: "study", TargetValue: 12, Unit: "hours"},
	}); err != nil {
		t.Fatalf("ReplaceForWeek again: %v", err)
	}

	rows, err := repo.ListByWeek(dbc, owner, monday)
	if err != nil || len(rows) != 1 {
		t.Fatalf("ListByWeek: err=%v len=%d", err, len(rows))
	}
	if rows[0].TargetValue != 12 || rows[0].UserID != owner {
		t.Fatalf("unexpected target: %+v", rows[0])
	}
}
