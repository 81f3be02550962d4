package tracking

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/goalflow-backend/internal/domain"
	"github.com/yungbote/goalflow-backend/internal/platform/apierr"
	"github.com/yungbote/goalflow-backend/internal/platform/dbctx"
	"github.com/yungbote/goalflow-backend/internal/platform/logger"
)

type RecordRepo interface {
	ListRecent(dbc dbctx.Context, ownerID uuid.UUID, limit, offset int) ([]*types.RecordView, error)
	ListBetween(dbc dbctx.Context, ownerID uuid.UUID, from, to time.Time) ([]*types.Record, error)
	Count(dbc dbctx.Context, ownerID uuid.UUID) (int64, error)
	GetByID(dbc dbctx.Context, ownerID, id uuid.UUID) (*types.Record, error)
	Create(dbc dbctx.Context, row *types.Record) error
	UpdateFields(dbc dbctx.Context, ownerID, id uuid.UUID, updates map[string]any) error
	Delete(dbc dbctx.Context, ownerID, id uuid.UUID) error
	UnlinkPlans(dbc dbctx.Context, ownerID uuid.UUID, planIDs []uuid.UUID) error
	UnlinkWeeklyGoals(dbc dbctx.Context, ownerID uuid.UUID, weeklyGoalIDs []uuid.UUID) error
	DeleteLinked(dbc dbctx.Context, ownerID uuid.UUID, goalIDs, planIDs, weeklyGoalIDs []uuid.UUID) error
}

type recordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecordRepo(db *gorm.DB, baseLog *logger.Logger) RecordRepo {
	return &recordRepo{db: db, log: baseLog.With("repo", "RecordRepo")}
}

// ListRecent returns a page of records, newest first, each tagged with what
// it is attributed to.
func (r *recordRepo) ListRecent(dbc dbctx.Context, ownerID uuid.UUID, limit, offset int) ([]*types.RecordView, error) {
	if limit <= 0 {
		limit = 5
	}
	if offset < 0 {
		offset = 0
	}
	var rows []*types.Record
	if err := dbc.DB(r.db).
		Where("user_id = ?", ownerID).
		Order("performed_at DESC").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	var wgIDs []uuid.UUID
	for _, rec := range rows {
		if rec.WeeklyGoalID != nil {
			wgIDs = append(wgIDs, *rec.WeeklyGoalID)
		}
	}
	weekly := map[uuid.UUID]*types.WeeklyGoal{}
	if len(wgIDs) > 0 {
		var wgs []*types.WeeklyGoal
		if err := dbc.DB(r.db).Where("user_id = ? AND id IN ?", ownerID, wgIDs).Find(&wgs).Error; err != nil {
			return nil, err
		}
		for _, w := range wgs {
			weekly[w.ID] = w
		}
	}

	var planIDs []uuid.UUID
	for _, rec := range rows {
		if rec.PlanID != nil {
			planIDs = append(planIDs, *rec.PlanID)
		}
	}
	for _, w := range weekly {
		planIDs = append(planIDs, w.PlanID)
	}
	plans, err := planSummaries(dbc.DB(r.db), ownerID, planIDs)
	if err != nil {
		return nil, err
	}

	out := make([]*types.RecordView, 0, len(rows))
	for _, rec := range rows {
		view := &types.RecordView{Record: *rec, Kind: types.RecordStandalone}
		if rec.WeeklyGoalID != nil {
			if w, ok := weekly[*rec.WeeklyGoalID]; ok {
				view.Kind = types.RecordWithWeeklyGoal
				view.WeeklyGoal = w
				view.Plan = plans[w.PlanID]
			}
		}
		if view.Kind == types.RecordStandalone && rec.PlanID != nil {
			if p, ok := plans[*rec.PlanID]; ok {
				view.Kind = types.RecordWithPlan
				view.Plan = p
			}
		}
		out = append(out, view)
	}
	return out, nil
}

func (r *recordRepo) ListBetween(dbc dbctx.Context, ownerID uuid.UUID, from, to time.Time) ([]*types.Record, error) {
	var out []*types.Record
	err := dbc.DB(r.db).
		Where("user_id = ? AND performed_at >= ? AND performed_at < ?", ownerID, from.UTC(), to.UTC()).
		Order("performed_at ASC").
		Find(&out).Error
	return out, err
}

func (r *recordRepo) Count(dbc dbctx.Context, ownerID uuid.UUID) (int64, error) {
	var n int64
	err := dbc.DB(r.db).Model(&types.Record{}).Where("user_id = ?", ownerID).Count(&n).Error
	return n, err
}

func (r *recordRepo) GetByID(dbc dbctx.Context, ownerID, id uuid.UUID) (*types.Record, error) {
	if ownerID == uuid.Nil || id == uuid.Nil {
		return nil, nil
	}
	var row types.Record
	err := dbc.DB(r.db).Where("user_id = ? AND id = ?", ownerID, id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *recordRepo) Create(dbc dbctx.Context, row *types.Record) error {
	row.PerformedAt = row.PerformedAt.UTC()
	return dbc.DB(r.db).Create(row).Error
}

func (r *recordRepo) UpdateFields(dbc dbctx.Context, ownerID, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	if at, ok := updates["performed_at"].(time.Time); ok {
		updates["performed_at"] = at.UTC()
	}
	res := dbc.DB(r.db).Model(&types.Record{}).
		Where("user_id = ? AND id = ?", ownerID, id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apierr.NotFound("record")
	}
	return nil
}

func (r *recordRepo) Delete(dbc dbctx.Context, ownerID, id uuid.UUID) error {
	res := dbc.DB(r.db).Where("user_id = ? AND id = ?", ownerID, id).Delete(&types.Record{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apierr.NotFound("record")
	}
	return nil
}

func (r *recordRepo) UnlinkPlans(dbc dbctx.Context, ownerID uuid.UUID, planIDs []uuid.UUID) error {
	if len(planIDs) == 0 {
		return nil
	}
	return dbc.DB(r.db).Model(&types.Record{}).
		Where("user_id = ? AND plan_id IN ?", ownerID, planIDs).
		Update("plan_id", nil).Error
}

func (r *recordRepo) UnlinkWeeklyGoals(dbc dbctx.Context, ownerID uuid.UUID, weeklyGoalIDs []uuid.UUID) error {
	if len(weeklyGoalIDs) == 0 {
		return nil
	}
	return dbc.DB(r.db).Model(&types.Record{}).
		Where("user_id = ? AND weekly_goal_id IN ?", ownerID, weeklyGoalIDs).
		Update("weekly_goal_id", nil).Error
}

// DeleteLinked removes every record attributed to any of the given goals,
// plans or weekly goals.
func (r *recordRepo) DeleteLinked(dbc dbctx.Context, ownerID uuid.UUID, goalIDs, planIDs, weeklyGoalIDs []uuid.UUID) error {
	if len(goalIDs) == 0 && len(planIDs) == 0 && len(weeklyGoalIDs) == 0 {
		return nil
	}
	q := dbc.DB(r.db).Where("user_id = ?", ownerID)
	cond := dbc.DB(r.db)
	first := true
	add := func(col string, ids []uuid.UUID) {
		if len(ids) == 0 {
			return
		}
		if first {
			cond = cond.Where(col+" IN ?", ids)
			first = false
			return
		}
		cond = cond.Or(col+" IN ?", ids)
	}
	add("goal_id", goalIDs)
	add("plan_id", planIDs)
	add("weekly_goal_id", weeklyGoalIDs)
	return q.Where(cond).Delete(&types.Record{}).Error
}
