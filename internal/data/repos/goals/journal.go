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

type GoalLogRepo interface {
	ListByGoal(dbc dbctx.Context, ownerID, goalID uuid.UUID) ([]*types.GoalLog, error)
	Create(dbc dbctx.Context, row *types.GoalLog) error
	DeleteByGoalIDs(dbc dbctx.Context, ownerID uuid.UUID, goalIDs []uuid.UUID) error
}

type goalLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGoalLogRepo(db *gorm.DB, baseLog *logger.Logger) GoalLogRepo {
	return &goalLogRepo{db: db, log: baseLog.With("repo", "GoalLogRepo")}
}

func (r *goalLogRepo) ListByGoal(dbc dbctx.Context, ownerID, goalID uuid.UUID) ([]*types.GoalLog, error) {
	var out []*types.GoalLog
	err := dbc.DB(r.db).
		Where("user_id = ? AND goal_id = ?", ownerID, goalID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *goalLogRepo) Create(dbc dbctx.Context, row *types.GoalLog) error {
	return dbc.DB(r.db).Create(row).Error
}

func (r *goalLogRepo) DeleteByGoalIDs(dbc dbctx.Context, ownerID uuid.UUID, goalIDs []uuid.UUID) error {
	if len(goalIDs) == 0 {
		return nil
	}
	return dbc.DB(r.db).Where("user_id = ? AND goal_id IN ?", ownerID, goalIDs).Delete(&types.GoalLog{}).Error
}

type GoalWeeklyTargetRepo interface {
	ListByGoal(dbc dbctx.Context, ownerID, goalID uuid.UUID) ([]*types.GoalWeeklyTarget, error)
	GetByID(dbc dbctx.Context, ownerID, id uuid.UUID) (*types.GoalWeeklyTarget, error)
	Create(dbc dbctx.Context, row *types.GoalWeeklyTarget) error
	UpdateFields(dbc dbctx.Context, ownerID, id uuid.UUID, updates map[string]any) error
	DeleteByGoalIDs(dbc dbctx.Context, ownerID uuid.UUID, goalIDs []uuid.UUID) error
}

type goalWeeklyTargetRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGoalWeeklyTargetRepo(db *gorm.DB, baseLog *logger.Logger) GoalWeeklyTargetRepo {
	return &goalWeeklyTargetRepo{db: db, log: baseLog.With("repo", "GoalWeeklyTargetRepo")}
}

func (r *goalWeeklyTargetRepo) ListByGoal(dbc dbctx.Context, ownerID, goalID uuid.UUID) ([]*types.GoalWeeklyTarget, error) {
	var out []*types.GoalWeeklyTarget
	err := dbc.DB(r.db).
		Where("user_id = ? AND goal_id = ?", ownerID, goalID).
		Order("week_start DESC").
		Find(&out).Error
	return out, err
}

func (r *goalWeeklyTargetRepo) GetByID(dbc dbctx.Context, ownerID, id uuid.UUID) (*types.GoalWeeklyTarget, error) {
	var row types.GoalWeeklyTarget
	err := dbc.DB(r.db).Where("user_id = ? AND id = ?", ownerID, id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *goalWeeklyTargetRepo) Create(dbc dbctx.Context, row *types.GoalWeeklyTarget) error {
	return dbc.DB(r.db).Create(row).Error
}

func (r *goalWeeklyTargetRepo) UpdateFields(dbc dbctx.Context, ownerID, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	res := dbc.DB(r.db).Model(&types.GoalWeeklyTarget{}).
		Where("user_id = ? AND id = ?", ownerID, id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apierr.NotFound("goal weekly target")
	}
	return nil
}

func (r *goalWeeklyTargetRepo) DeleteByGoalIDs(dbc dbctx.Context, ownerID uuid.UUID, goalIDs []uuid.UUID) error {
	if len(goalIDs) == 0 {
		return nil
	}
	return dbc.DB(r.db).Where("user_id = ? AND goal_id IN ?", ownerID, goalIDs).Delete(&types.GoalWeeklyTarget{}).Error
}

type GoalReviewRepo interface {
	ListByGoal(dbc dbctx.Context, ownerID, goalID uuid.UUID) ([]*types.GoalReview, error)
	Create(dbc dbctx.Context, row *types.GoalReview) error
	DeleteByGoalIDs(dbc dbctx.Context, ownerID uuid.UUID, goalIDs []uuid.UUID) error
}

type goalReviewRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGoalReviewRepo(db *gorm.DB, baseLog *logger.Logger) GoalReviewRepo {
	return &goalReviewRepo{db: db, log: baseLog.With("repo", "GoalReviewRepo")}
}

func (r *goalReviewRepo) ListByGoal(dbc dbctx.Context, ownerID, goalID uuid.UUID) ([]*types.GoalReview, error) {
	var out []*types.GoalReview
	err := dbc.DB(r.db).
		Where("user_id = ? AND goal_id = ?", ownerID, goalID).
		Order("review_date DESC").
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *goalReviewRepo) Create(dbc dbctx.Context, row *types.GoalReview) error {
	return dbc.DB(r.db).Create(row).Error
}

func (r *goalReviewRepo) DeleteByGoalIDs(dbc dbctx.Context, ownerID uuid.UUID, goalIDs []uuid.UUID) error {
	if len(goalIDs) == 0 {
		return nil
	}
	return dbc.DB(r.db).Where("user_id = ? AND goal_id IN ?", ownerID, goalIDs).Delete(&types.GoalReview{}).Error
}
