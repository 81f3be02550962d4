package goals

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/goalflow-backend/internal/domain"
	"github.com/yungbote/goalflow-backend/internal/platform/apierr"
	"github.com/yungbote/goalflow-backend/internal/platform/dbctx"
	"github.com/yungbote/goalflow-backend/internal/platform/logger"
)

type PlanRepo interface {
	ListByGoal(dbc dbctx.Context, ownerID, goalID uuid.UUID) ([]*types.Plan, error)
	ListActiveWithGoal(dbc dbctx.Context, ownerID uuid.UUID) ([]*types.PlanWithGoal, error)
	GetByID(dbc dbctx.Context, ownerID, id uuid.UUID) (*types.Plan, error)
	GetByIDs(dbc dbctx.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]*types.Plan, error)
	IDsByGoals(dbc dbctx.Context, ownerID uuid.UUID, goalIDs []uuid.UUID) ([]uuid.UUID, error)
	Create(dbc dbctx.Context, plan *types.Plan) error
	UpdateFields(dbc dbctx.Context, ownerID, id uuid.UUID, updates map[string]any) error
	AddProgress(dbc dbctx.Context, ownerID, id uuid.UUID, delta float64) error
	WithdrawProgress(dbc dbctx.Context, ownerID, id uuid.UUID, amount float64) error
	DeleteByIDs(dbc dbctx.Context, ownerID uuid.UUID, ids []uuid.UUID) error
}

type planRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlanRepo(db *gorm.DB, baseLog *logger.Logger) PlanRepo {
	return &planRepo{db: db, log: baseLog.With("repo", "PlanRepo")}
}

func (r *planRepo) ListByGoal(dbc dbctx.Context, ownerID, goalID uuid.UUID) ([]*types.Plan, error) {
	var out []*types.Plan
	err := dbc.DB(r.db).
		Where("user_id = ? AND goal_id = ?", ownerID, goalID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *planRepo) ListActiveWithGoal(dbc dbctx.Context, ownerID uuid.UUID) ([]*types.PlanWithGoal, error) {
	var plans []*types.Plan
	if err := dbc.DB(r.db).
		Where("user_id = ? AND status IN ?", ownerID, []string{types.PlanStatusPending, types.PlanStatusInProgress}).
		Order("created_at DESC").
		Find(&plans).Error; err != nil {
		return nil, err
	}
	goalIDs := make([]uuid.UUID, 0, len(plans))
	for _, p := range plans {
		goalIDs = append(goalIDs, p.GoalID)
	}
	var goals []*types.Goal
	if len(goalIDs) > 0 {
		if err := dbc.DB(r.db).
			Select("id", "title").
			Where("user_id = ? AND id IN ?", ownerID, goalIDs).
			Find(&goals).Error; err != nil {
			return nil, err
		}
	}
	byID := make(map[uuid.UUID]*types.Goal, len(goals))
	for _, g := range goals {
		byID[g.ID] = g
	}
	out := make([]*types.PlanWithGoal, 0, len(plans))
	for _, p := range plans {
		row := &types.PlanWithGoal{Plan: *p}
		if g, ok := byID[p.GoalID]; ok {
			row.Goal = &types.GoalRef{ID: g.ID, Title: g.Title}
		}
		out = append(out, row)
	}
	return out, nil
}

func (r *planRepo) GetByID(dbc dbctx.Context, ownerID, id uuid.UUID) (*types.Plan, error) {
	if ownerID == uuid.Nil || id == uuid.Nil {
		return nil, nil
	}
	var row types.Plan
	err := dbc.DB(r.db).Where("user_id = ? AND id = ?", ownerID, id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *planRepo) GetByIDs(dbc dbctx.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]*types.Plan, error) {
	var out []*types.Plan
	if len(ids) == 0 {
		return out, nil
	}
	err := dbc.DB(r.db).Where("user_id = ? AND id IN ?", ownerID, ids).Find(&out).Error
	return out, err
}

func (r *planRepo) IDsByGoals(dbc dbctx.Context, ownerID uuid.UUID, goalIDs []uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if len(goalIDs) == 0 {
		return ids, nil
	}
	err := dbc.DB(r.db).Model(&types.Plan{}).
		Where("user_id = ? AND goal_id IN ?", ownerID, goalIDs).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *planRepo) Create(dbc dbctx.Context, plan *types.Plan) error {
	if plan == nil {
		return nil
	}
	return dbc.DB(r.db).Create(plan).Error
}

func (r *planRepo) UpdateFields(dbc dbctx.Context, ownerID, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	res := dbc.DB(r.db).Model(&types.Plan{}).
		Where("user_id = ? AND id = ?", ownerID, id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apierr.NotFound("plan")
	}
	return nil
}

// AddProgress adds delta to current_value in a single statement.
func (r *planRepo) AddProgress(dbc dbctx.Context, ownerID, id uuid.UUID, delta float64) error {
	return r.UpdateFields(dbc, ownerID, id, map[string]any{
		"current_value": gorm.Expr("COALESCE(current_value, 0) + ?", delta),
	})
}

// WithdrawProgress subtracts amount from current_value, clamped at zero.
func (r *planRepo) WithdrawProgress(dbc dbctx.Context, ownerID, id uuid.UUID, amount float64) error {
	return r.UpdateFields(dbc, ownerID, id, map[string]any{
		"current_value": gorm.Expr(
			"CASE WHEN COALESCE(current_value, 0) - ? < 0 THEN 0 ELSE COALESCE(current_value, 0) - ? END",
			amount, amount,
		),
	})
}

func (r *planRepo) DeleteByIDs(dbc dbctx.Context, ownerID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return dbc.DB(r.db).Where("user_id = ? AND id IN ?", ownerID, ids).Delete(&types.Plan{}).Error
}
