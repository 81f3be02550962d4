package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/goalflow-backend/internal/domain"
)

func SeedGoal(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, parentID *uuid.UUID, title string, order float64) *types.Goal {
	tb.Helper()
	g := &types.Goal{
		ID:           uuid.New(),
		UserID:       userID,
		ParentID:     parentID,
		Title:        title,
		Status:       types.GoalStatusActive,
		DisplayOrder: order,
	}
	if err := tx.WithContext(ctx).Create(g).Error; err != nil {
		tb.Fatalf("seed goal: %v", err)
	}
	return g
}

func SeedPlan(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, goalID uuid.UUID, title string, target *float64, unit *string) *types.Plan {
	tb.Helper()
	p := &types.Plan{
		ID:          uuid.New(),
		UserID:      userID,
		GoalID:      goalID,
		Title:       title,
		Status:      types.PlanStatusInProgress,
		Priority:    types.PlanPriorityMedium,
		TargetValue: target,
		Unit:        unit,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed plan: %v", err)
	}
	return p
}

func SeedWeeklyGoal(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, planID uuid.UUID, weekStart datatypes.Date, target float64) *types.WeeklyGoal {
	tb.Helper()
	w := &types.WeeklyGoal{
		ID:            uuid.New(),
		UserID:        userID,
		PlanID:        planID,
		WeekStartDate: weekStart,
		TargetValue:   target,
		Status:        types.WeeklyStatusActive,
	}
	if err := tx.WithContext(ctx).Create(w).Error; err != nil {
		tb.Fatalf("seed weekly goal: %v", err)
	}
	return w
}

func SeedRecord(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, at time.Time, quantity float64, unit string, planID, weeklyGoalID *uuid.UUID) *types.Record {
	tb.Helper()
	r := &types.Record{
		ID:           uuid.New(),
		UserID:       userID,
		PerformedAt:  at.UTC(),
		Quantity:     quantity,
		Unit:         unit,
		PlanID:       planID,
		WeeklyGoalID: weeklyGoalID,
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed record: %v", err)
	}
	return r
}
