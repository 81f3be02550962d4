package goals

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/goalflow-backend/internal/domain"
	"github.com/yungbote/goalflow-backend/internal/platform/dbctx"
	"github.com/yungbote/goalflow-backend/internal/platform/logger"
)

type PlanHistoryRepo interface {
	Create(dbc dbctx.Context, rows []*types.PlanHistory) error
	ListByPlan(dbc dbctx.Context, ownerID, planID uuid.UUID) ([]*types.PlanHistory, error)
	DeleteByPlanIDs(dbc dbctx.Context, ownerID uuid.UUID, planIDs []uuid.UUID) error
}

type planHistoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlanHistoryRepo(db *gorm.DB, baseLog *logger.Logger) PlanHistoryRepo {
	return &planHistoryRepo{db: db, log: baseLog.With("repo", "PlanHistoryRepo")}
}

func (r *planHistoryRepo) Create(dbc dbctx.Context, rows []*types.PlanHistory) error {
	if len(rows) == 0 {
		return nil
	}
	return dbc.DB(r.db).Create(&rows).Error
}

func (r *planHistoryRepo) ListByPlan(dbc dbctx.Context, ownerID, planID uuid.UUID) ([]*types.PlanHistory, error) {
	var out []*types.PlanHistory
	err := dbc.DB(r.db).
		Where("user_id = ? AND plan_id = ?", ownerID, planID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *planHistoryRepo) DeleteByPlanIDs(dbc dbctx.Context, ownerID uuid.UUID, planIDs []uuid.UUID) error {
	if len(planIDs) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Where("user_id = ? AND plan_id IN ?", ownerID, planIDs).
		Delete(&types.PlanHistory{}).Error
}
