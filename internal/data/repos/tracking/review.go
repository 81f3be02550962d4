package tracking

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/goalflow-backend/internal/domain"
	"github.com/yungbote/goalflow-backend/internal/platform/dbctx"
	"github.com/yungbote/goalflow-backend/internal/platform/logger"
)

type WeeklyReviewRepo interface {
	GetByWeek(dbc dbctx.Context, ownerID uuid.UUID, weekStart datatypes.Date) (*types.WeeklyReview, error)
	Upsert(dbc dbctx.Context, row *types.WeeklyReview) error
}

type weeklyReviewRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWeeklyReviewRepo(db *gorm.DB, baseLog *logger.Logger) WeeklyReviewRepo {
	return &weeklyReviewRepo{db: db, log: baseLog.With("repo", "WeeklyReviewRepo")}
}

func (r *weeklyReviewRepo) GetByWeek(dbc dbctx.Context, ownerID uuid.UUID, weekStart datatypes.Date) (*types.WeeklyReview, error) {
	var row types.WeeklyReview
	err := dbc.DB(r.db).
		Where("user_id = ? AND week_start_date = ?", ownerID, weekStart).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// Upsert writes the review for (user, week), replacing the text fields of an
// existing one. row is reloaded so ID and timestamps reflect the stored row.
func (r *weeklyReviewRepo) Upsert(dbc dbctx.Context, row *types.WeeklyReview) error {
	if row == nil {
		return nil
	}
	err := dbc.DB(r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "week_start_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"summary", "learnings", "problems", "improvements", "self_rating", "updated_at",
		}),
	}).Create(row).Error
	if err != nil {
		return err
	}
	var stored types.WeeklyReview
	if err := dbc.DB(r.db).
		Where("user_id = ? AND week_start_date = ?", row.UserID, row.WeekStartDate).
		First(&stored).Error; err != nil {
		return err
	}
	*row = stored
	return nil
}

type WeeklyTargetRepo interface {
	ListByWeek(dbc dbctx.Context, ownerID uuid.UUID, weekStart datatypes.Date) ([]*types.WeeklyTarget, error)
	ReplaceForWeek(dbc dbctx.Context, ownerID uuid.UUID, weekStart datatypes.Date, rows []*types.WeeklyTarget) ([]*types.WeeklyTarget, error)
	UnlinkGoals(dbc dbctx.Context, ownerID uuid.UUID, goalIDs []uuid.UUID) error
}

type weeklyTargetRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWeeklyTargetRepo(db *gorm.DB, baseLog *logger.Logger) WeeklyTargetRepo {
	return &weeklyTargetRepo{db: db, log: baseLog.With("repo", "WeeklyTargetRepo")}
}

func (r *weeklyTargetRepo) ListByWeek(dbc dbctx.Context, ownerID uuid.UUID, weekStart datatypes.Date) ([]*types.WeeklyTarget, error) {
	var out []*types.WeeklyTarget
	err := dbc.DB(r.db).
		Where("user_id = ? AND week_start_date = ?", ownerID, weekStart).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

// ReplaceForWeek drops the week's targets and inserts rows in their place.
// Callers wrap it in a transaction when it must be atomic with other writes.
func (r *weeklyTargetRepo) ReplaceForWeek(dbc dbctx.Context, ownerID uuid.UUID, weekStart datatypes.Date, rows []*types.WeeklyTarget) ([]*types.WeeklyTarget, error) {
	transaction := dbc.DB(r.db)
	if err := transaction.
		Where("user_id = ? AND week_start_date = ?", ownerID, weekStart).
		Delete(&types.WeeklyTarget{}).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []*types.WeeklyTarget{}, nil
	}
	for _, row := range rows {
		row.ID = uuid.Nil
		row.UserID = ownerID
		row.WeekStartDate = weekStart
	}
	if err := transaction.Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *weeklyTargetRepo) UnlinkGoals(dbc dbctx.Context, ownerID uuid.UUID, goalIDs []uuid.UUID) error {
	if len(goalIDs) == 0 {
		return nil
	}
	return dbc.DB(r.db).Model(&types.WeeklyTarget{}).
		Where("user_id = ? AND goal_id IN ?", ownerID, goalIDs).
		Update("goal_id", nil).Error
}
