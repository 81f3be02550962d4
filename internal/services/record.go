package services

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/goalflow-backend/internal/data/repos"
	types "github.com/yungbote/goalflow-backend/internal/domain"
	"github.com/yungbote/goalflow-backend/internal/platform/apierr"
	"github.com/yungbote/goalflow-backend/internal/platform/dbctx"
	"github.com/yungbote/goalflow-backend/internal/platform/logger"
	"github.com/yungbote/goalflow-backend/internal/progress"
	"github.com/yungbote/goalflow-backend/internal/realtime"
)

const DefaultRecentRecords = 5

type CreateRecordInput struct {
	PerformedAt  *time.Time `json:"performed_at"`
	Quantity     float64    `json:"quantity" binding:"min=0"`
	Unit         string     `json:"unit" binding:"required"`
	Memo         *string    `json:"memo"`
	PlanID       *uuid.UUID `json:"plan_id"`
	WeeklyGoalID *uuid.UUID `json:"weekly_goal_id"`
}

// UpdateRecordInput is a partial update. Links are changed with the Set
// flags so that a null can detach a record.
type UpdateRecordInput struct {
	PerformedAt   *time.Time `json:"performed_at"`
	Quantity      *float64   `json:"quantity" binding:"omitempty,min=0"`
	Unit          *string    `json:"unit"`
	Memo          *string    `json:"memo"`
	SetPlan       bool       `json:"set_plan"`
	PlanID        *uuid.UUID `json:"plan_id"`
	SetWeeklyGoal bool       `json:"set_weekly_goal"`
	WeeklyGoalID  *uuid.UUID `json:"weekly_goal_id"`
}

type RecordService interface {
	Recent(dbc dbctx.Context, limit, offset int) ([]*types.RecordView, error)
	Create(dbc dbctx.Context, in CreateRecordInput) (*types.Record, error)
	Update(dbc dbctx.Context, id uuid.UUID, in UpdateRecordInput) (*types.Record, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type recordService struct {
	db       *gorm.DB
	log      *logger.Logger
	now      func() time.Time
	pageSize int
	plans    repos.PlanRepo
	history  repos.PlanHistoryRepo
	weekly   repos.WeeklyGoalRepo
	records  repos.RecordRepo
	notifier realtime.Notifier
}

func NewRecordService(
	db *gorm.DB,
	log *logger.Logger,
	pageSize int,
	plans repos.PlanRepo,
	history repos.PlanHistoryRepo,
	weekly repos.WeeklyGoalRepo,
	records repos.RecordRepo,
	notifier realtime.Notifier,
) RecordService {
	if pageSize <= 0 {
		pageSize = DefaultRecentRecords
	}
	if notifier == nil {
		notifier = realtime.Nop()
	}
	return &recordService{
		db:       db,
		log:      log.With("service", "RecordService"),
		now:      time.Now,
		pageSize: pageSize,
		plans:    plans,
		history:  history,
		weekly:   weekly,
		records:  records,
		notifier: notifier,
	}
}

func (s *recordService) Recent(dbc dbctx.Context, limit, offset int) ([]*types.RecordView, error) {
	owner, err := requireOwner(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.pageSize
	}
	if offset < 0 {
		offset = 0
	}
	views, err := s.records.ListRecent(dbc, owner, limit, offset)
	if err != nil {
		return nil, err
	}
	for _, v := range views {
		v.Display = progress.FormatQuantity(v.Quantity, v.Unit)
	}
	return views, nil
}

// target is something a record contributes to, with the unit its
// current_value is measured in.
type target struct {
	planID   *uuid.UUID
	weeklyID *uuid.UUID
	unit     *string
}

func (t target) same(o target) bool {
	switch {
	case t.planID != nil && o.planID != nil:
		return *t.planID == *o.planID
	case t.weeklyID != nil && o.weeklyID != nil:
		return *t.weeklyID == *o.weeklyID
	}
	return false
}

// links resolves the targets a record with the given links contributes to.
// A weekly goal is measured in its plan's unit.
func (s *recordService) links(dbc dbctx.Context, owner uuid.UUID, planID, weeklyID *uuid.UUID) (plan *target, weekly *target, goalID *uuid.UUID, err error) {
	if planID != nil {
		p, err := s.plans.GetByID(dbc, owner, *planID)
		if err != nil {
			return nil, nil, nil, err
		}
		if p == nil {
			return nil, nil, nil, apierr.NotFound("plan")
		}
		plan = &target{planID: &p.ID, unit: p.Unit}
		goalID = &p.GoalID
	}
	if weeklyID != nil {
		w, err := s.weekly.GetByID(dbc, owner, *weeklyID)
		if err != nil {
			return nil, nil, nil, err
		}
		if w == nil {
			return nil, nil, nil, apierr.NotFound("weekly goal")
		}
		p, err := s.plans.GetByID(dbc, owner, w.PlanID)
		if err != nil {
			return nil, nil, nil, err
		}
		weekly = &target{weeklyID: &w.ID}
		if p != nil {
			weekly.unit = p.Unit
			if goalID == nil {
				goalID = &p.GoalID
			}
		}
	}
	return plan, weekly, goalID, nil
}

func (s *recordService) add(dbc dbctx.Context, owner uuid.UUID, t *target, amount float64) error {
	if t == nil || amount == 0 {
		return nil
	}
	if t.weeklyID != nil {
		return s.weekly.AddProgress(dbc, owner, *t.weeklyID, amount)
	}
	return s.planProgress(dbc, owner, *t.planID, func() error {
		return s.plans.AddProgress(dbc, owner, *t.planID, amount)
	})
}

func (s *recordService) withdraw(dbc dbctx.Context, owner uuid.UUID, t *target, amount float64) error {
	if t == nil || amount == 0 {
		return nil
	}
	if t.weeklyID != nil {
		return s.weekly.WithdrawProgress(dbc, owner, *t.weeklyID, amount)
	}
	return s.planProgress(dbc, owner, *t.planID, func() error {
		return s.plans.WithdrawProgress(dbc, owner, *t.planID, amount)
	})
}

// planProgress runs apply and appends a "progress" history row with the
// plan's current_value before and after.
func (s *recordService) planProgress(dbc dbctx.Context, owner, planID uuid.UUID, apply func() error) error {
	before, err := s.plans.GetByID(dbc, owner, planID)
	if err != nil {
		return err
	}
	if err := apply(); err != nil {
		return err
	}
	after, err := s.plans.GetByID(dbc, owner, planID)
	if err != nil {
		return err
	}
	if before == nil || after == nil {
		return nil
	}
	field := "current_value"
	return s.history.Create(dbc, []*types.PlanHistory{{
		UserID:     owner,
		PlanID:     planID,
		ChangedBy:  &owner,
		ChangeType: types.HistoryProgress,
		FieldName:  &field,
		OldValue:   floatText(before.CurrentValue),
		NewValue:   floatText(after.CurrentValue),
	}})
}

func (s *recordService) Create(dbc dbctx.Context, in CreateRecordInput) (*types.Record, error) {
	owner, err := requireOwner(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	unit, err := requiredText("unit", in.Unit)
	if err != nil {
		return nil, err
	}
	if in.Quantity < 0 {
		return nil, apierr.Invalid("quantity must not be negative")
	}
	at := s.now()
	if in.PerformedAt != nil {
		at = *in.PerformedAt
	}
	row := &types.Record{
		UserID:       owner,
		PerformedAt:  at,
		Quantity:     in.Quantity,
		Unit:         unit,
		Memo:         optionalText(in.Memo),
		PlanID:       in.PlanID,
		WeeklyGoalID: in.WeeklyGoalID,
	}
	err = inTx(s.db, dbc, func(inner dbctx.Context) error {
		plan, weekly, goalID, err := s.links(inner, owner, in.PlanID, in.WeeklyGoalID)
		if err != nil {
			return err
		}
		row.GoalID = goalID
		if err := s.records.Create(inner, row); err != nil {
			return err
		}
		if weekly != nil {
			if err := s.add(inner, owner, weekly, progress.Contribution(row.Quantity, row.Unit, weekly.unit)); err != nil {
				return err
			}
		}
		if plan != nil {
			return s.add(inner, owner, plan, progress.Contribution(row.Quantity, row.Unit, plan.unit))
		}
		return nil
	})
	if err != nil {
		return nil, apierr.FromDB(err)
	}
	s.notifier.Notify(dbc.Ctx, owner, realtime.SSEEventRecordCreated, row)
	return row, nil
}

// Update applies the change in contribution to every target. When a link
// moves, the old target loses the old contribution (clamped at zero) and
// the new one gains the new contribution.
func (s *recordService) Update(dbc dbctx.Context, id uuid.UUID, in UpdateRecordInput) (*types.Record, error) {
	owner, err := requireOwner(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	if in.Quantity != nil && *in.Quantity < 0 {
		return nil, apierr.Invalid("quantity must not be negative")
	}
	updates := map[string]any{}
	if in.Unit != nil {
		unit, err := requiredText("unit", *in.Unit)
		if err != nil {
			return nil, err
		}
		updates["unit"] = unit
	}
	if in.Quantity != nil {
		updates["quantity"] = *in.Quantity
	}
	if in.PerformedAt != nil {
		updates["performed_at"] = *in.PerformedAt
	}
	if in.Memo != nil {
		updates["memo"] = optionalText(in.Memo)
	}

	var out *types.Record
	err = inTx(s.db, dbc, func(inner dbctx.Context) error {
		cur, err := s.records.GetByID(inner, owner, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return apierr.NotFound("record")
		}
		oldPlan, oldWeekly, _, err := s.links(inner, owner, cur.PlanID, cur.WeeklyGoalID)
		if err != nil {
			return err
		}

		planID, weeklyID := cur.PlanID, cur.WeeklyGoalID
		if in.SetPlan {
			planID = in.PlanID
			updates["plan_id"] = nullableID(planID)
		}
		if in.SetWeeklyGoal {
			weeklyID = in.WeeklyGoalID
			updates["weekly_goal_id"] = nullableID(weeklyID)
		}
		newPlan, newWeekly, goalID, err := s.links(inner, owner, planID, weeklyID)
		if err != nil {
			return err
		}
		if in.SetPlan || in.SetWeeklyGoal {
			updates["goal_id"] = nullableID(goalID)
		}

		newQ, newUnit := cur.Quantity, cur.Unit
		if q, ok := updates["quantity"].(float64); ok {
			newQ = q
		}
		if u, ok := updates["unit"].(string); ok {
			newUnit = u
		}

		if err := s.records.UpdateFields(inner, owner, id, updates); err != nil {
			return err
		}
		for _, pair := range [][2]*target{{oldWeekly, newWeekly}, {oldPlan, newPlan}} {
			oldT, newT := pair[0], pair[1]
			if oldT != nil && newT != nil && oldT.same(*newT) {
				delta := progress.Delta(cur.Quantity, cur.Unit, newQ, newUnit, newT.unit)
				if err := s.add(inner, owner, newT, delta); err != nil {
					return err
				}
				continue
			}
			if oldT != nil {
				if err := s.withdraw(inner, owner, oldT, progress.Contribution(cur.Quantity, cur.Unit, oldT.unit)); err != nil {
					return err
				}
			}
			if newT != nil {
				if err := s.add(inner, owner, newT, progress.Contribution(newQ, newUnit, newT.unit)); err != nil {
					return err
				}
			}
		}
		out, err = s.records.GetByID(inner, owner, id)
		return err
	})
	if err != nil {
		return nil, apierr.FromDB(err)
	}
	s.notifier.Notify(dbc.Ctx, owner, realtime.SSEEventRecordUpdated, out)
	return out, nil
}

func (s *recordService) Delete(dbc dbctx.Context, id uuid.UUID) error {
	owner, err := requireOwner(dbc.Ctx)
	if err != nil {
		return err
	}
	err = inTx(s.db, dbc, func(inner dbctx.Context) error {
		cur, err := s.records.GetByID(inner, owner, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return apierr.NotFound("record")
		}
		plan, weekly, _, err := s.links(inner, owner, cur.PlanID, cur.WeeklyGoalID)
		if err != nil {
			return err
		}
		if err := s.records.Delete(inner, owner, id); err != nil {
			return err
		}
		if weekly != nil {
			if err := s.withdraw(inner, owner, weekly, progress.Contribution(cur.Quantity, cur.Unit, weekly.unit)); err != nil {
				return err
			}
		}
		if plan != nil {
			return s.withdraw(inner, owner, plan, progress.Contribution(cur.Quantity, cur.Unit, plan.unit))
		}
		return nil
	})
	if err != nil {
		return apierr.FromDB(err)
	}
	s.notifier.Notify(dbc.Ctx, owner, realtime.SSEEventRecordDeleted, map[string]any{"id": id})
	return nil
}

// nullableID turns a nil pointer into an untyped nil for map updates.
func nullableID(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return *id
}
