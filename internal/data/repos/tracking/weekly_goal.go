package tracking

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/goalflow-backend/internal/domain"
	"github.com/yungbote/goalflow-backend/internal/platform/apierr"
	"github.com/yungbote/goalflow-backend/internal/platform/dbctx"
	"github.com/yungbote/goalflow-backend/internal/platform/logger"
	"github.com/yungbote/goalflow-backend/internal/progress"
)

type WeeklyGoalRepo interface {
	ListByPlan(dbc dbctx.Context, ownerID, planID uuid.UUID) ([]*types.WeeklyGoal, error)
	ListByWeekWithPlan(dbc dbctx.Context, ownerID uuid.UUID, weekStart datatypes.Date) ([]*types.WeeklyGoalWithPlan, error)
	GetByID(dbc dbctx.Context, ownerID, id uuid.UUID) (*types.WeeklyGoal, error)
	GetByIDs(dbc dbctx.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]*types.WeeklyGoal, error)
	IDsByPlans(dbc dbctx.Context, ownerID uuid.UUID, planIDs []uuid.UUID) ([]uuid.UUID, error)
	Create(dbc dbctx.Context, row *types.WeeklyGoal) error
	UpdateFields(dbc dbctx.Context, ownerID, id uuid.UUID, updates map[string]any) error
	AddProgress(dbc dbctx.Context, ownerID, id uuid.UUID, delta float64) error
	WithdrawProgress(dbc dbctx.Context, ownerID, id uuid.UUID, amount float64) error
	DeleteByIDs(dbc dbctx.Context, ownerID uuid.UUID, ids []uuid.UUID) error
}

type weeklyGoalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWeeklyGoalRepo(db *gorm.DB, baseLog *logger.Logger) WeeklyGoalRepo {
	return &weeklyGoalRepo{db: db, log: baseLog.With("repo", "WeeklyGoalRepo")}
}

func (r *weeklyGoalRepo) ListByPlan(dbc dbctx.Context, ownerID, planID uuid.UUID) ([]*types.WeeklyGoal, error) {
	var out []*types.WeeklyGoal
	err := dbc.DB(r.db).
		Where("user_id = ? AND plan_id = ?", ownerID, planID).
		Order("week_start_date DESC").
		Find(&out).Error
	return out, err
}

func (r *weeklyGoalRepo) ListByWeekWithPlan(dbc dbctx.Context, ownerID uuid.UUID, weekStart datatypes.Date) ([]*types.WeeklyGoalWithPlan, error) {
	var rows []*types.WeeklyGoal
	if err := dbc.DB(r.db).
		Where("user_id = ? AND week_start_date = ?", ownerID, weekStart).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	planIDs := make([]uuid.UUID, 0, len(rows))
	for _, w := range rows {
		planIDs = append(planIDs, w.PlanID)
	}
	summaries, err := planSummaries(dbc.DB(r.db), ownerID, planIDs)
	if err != nil {
		return nil, err
	}
	out := make([]*types.WeeklyGoalWithPlan, 0, len(rows))
	for _, w := range rows {
		out = append(out, &types.WeeklyGoalWithPlan{WeeklyGoal: *w, Plan: summaries[w.PlanID]})
	}
	return out, nil
}

func (r *weeklyGoalRepo) GetByID(dbc dbctx.Context, ownerID, id uuid.UUID) (*types.WeeklyGoal, error) {
	if ownerID == uuid.Nil || id == uuid.Nil {
		return nil, nil
	}
	var row types.WeeklyGoal
	err := dbc.DB(r.db).Where("user_id = ? AND id = ?", ownerID, id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *weeklyGoalRepo) GetByIDs(dbc dbctx.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]*types.WeeklyGoal, error) {
	var out []*types.WeeklyGoal
	if len(ids) == 0 {
		return out, nil
	}
	err := dbc.DB(r.db).Where("user_id = ? AND id IN ?", ownerID, ids).Find(&out).Error
	return out, err
}

func (r *weeklyGoalRepo) IDsByPlans(dbc dbctx.Context, ownerID uuid.UUID, planIDs []uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if len(planIDs) == 0 {
		return ids, nil
	}
	err := dbc.DB(r.db).Model(&types.WeeklyGoal{}).
		Where("user_id = ? AND plan_id IN ?", ownerID, planIDs).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *weeklyGoalRepo) Create(dbc dbctx.Context, row *types.WeeklyGoal) error {
	return dbc.DB(r.db).Create(row).Error
}

func (r *weeklyGoalRepo) UpdateFields(dbc dbctx.Context, ownerID, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	res := dbc.DB(r.db).Model(&types.WeeklyGoal{}).
		Where("user_id = ? AND id = ?", ownerID, id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apierr.NotFound("weekly goal")
	}
	return nil
}

// statusExpr re-derives status from an expression for the new current value.
// SET clauses see the row as it was before the update, so the new value has
// to be spelled out again rather than read back from current_value.
func statusExpr(newValue string, args ...any) clause.Expr {
	return gorm.Expr(fmt.Sprintf("CASE WHEN (%s) + %g >= target_value THEN '%s' ELSE '%s' END",
		newValue, progress.CompletionTolerance, types.WeeklyStatusCompleted, types.WeeklyStatusActive), args...)
}

func (r *weeklyGoalRepo) AddProgress(dbc dbctx.Context, ownerID, id uuid.UUID, delta float64) error {
	return r.UpdateFields(dbc, ownerID, id, map[string]any{
		"current_value": gorm.Expr("current_value + ?", delta),
		"status":        statusExpr("current_value + ?", delta),
	})
}

func (r *weeklyGoalRepo) WithdrawProgress(dbc dbctx.Context, ownerID, id uuid.UUID, amount float64) error {
	clamped := "CASE WHEN current_value - ? < 0 THEN 0 ELSE current_value - ? END"
	return r.UpdateFields(dbc, ownerID, id, map[string]any{
		"current_value": gorm.Expr(clamped, amount, amount),
		"status":        statusExpr(clamped, amount, amount),
	})
}

func (r *weeklyGoalRepo) DeleteByIDs(dbc dbctx.Context, ownerID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return dbc.DB(r.db).Where("user_id = ? AND id IN ?", ownerID, ids).Delete(&types.WeeklyGoal{}).Error
}

// planSummaries loads the plans (and their goal titles) referenced by a page
// of weekly goals or records.
func planSummaries(db *gorm.DB, ownerID uuid.UUID, planIDs []uuid.UUID) (map[uuid.UUID]*types.PlanSummary, error) {
	out := map[uuid.UUID]*types.PlanSummary{}
	if len(planIDs) == 0 {
		return out, nil
	}
	var plans []*types.Plan
	if err := db.Where("user_id = ? AND id IN ?", ownerID, planIDs).Find(&plans).Error; err != nil {
		return nil, err
	}
	goalIDs := make([]uuid.UUID, 0, len(plans))
	for _, p := range plans {
		goalIDs = append(goalIDs, p.GoalID)
	}
	titles := map[uuid.UUID]string{}
	if len(goalIDs) > 0 {
		var goals []*types.Goal
		if err := db.Select("id", "title").Where("user_id = ? AND id IN ?", ownerID, goalIDs).Find(&goals).Error; err != nil {
			return nil, err
		}
		for _, g := range goals {
			titles[g.ID] = g.Title
		}
	}
	for _, p := range plans {
		out[p.ID] = &types.PlanSummary{
			ID:          p.ID,
			GoalID:      p.GoalID,
			Title:       p.Title,
			Unit:        p.Unit,
			TargetValue: p.TargetValue,
			GoalTitle:   titles[p.GoalID],
		}
	}
	return out, nil
}
