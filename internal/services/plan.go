package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/goalflow-backend/internal/data/repos"
	types "github.com/yungbote/goalflow-backend/internal/domain"
	"github.com/yungbote/goalflow-backend/internal/platform/apierr"
	"github.com/yungbote/goalflow-backend/internal/platform/dbctx"
	"github.com/yungbote/goalflow-backend/internal/platform/logger"
	"github.com/yungbote/goalflow-backend/internal/realtime"
	"github.com/yungbote/goalflow-backend/internal/week"
)

type CreatePlanInput struct {
	Title       string   `json:"title" binding:"required"`
	Description *string  `json:"description"`
	Status      string   `json:"status" binding:"omitempty,oneof=pending in_progress completed cancelled"`
	Priority    string   `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     *string  `json:"due_date"`
	TargetValue *float64 `json:"target_value"`
	Unit        *string  `json:"unit"`
}

type UpdatePlanInput struct {
	Title         *string  `json:"title"`
	Description   *string  `json:"description"`
	Status        *string  `json:"status" binding:"omitempty,oneof=pending in_progress completed cancelled"`
	Priority      *string  `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate       *string  `json:"due_date"`
	CompletedDate *string  `json:"completed_date"`
	TargetValue   *float64 `json:"target_value"`
	CurrentValue  *float64 `json:"current_value"`
	Unit          *string  `json:"unit"`
}

type PlanService interface {
	ListByGoal(dbc dbctx.Context, goalID uuid.UUID) ([]*types.Plan, error)
	ListActive(dbc dbctx.Context) ([]*types.PlanWithGoal, error)
	Get(dbc dbctx.Context, id uuid.UUID) (*types.Plan, error)
	Create(dbc dbctx.Context, goalID uuid.UUID, in CreatePlanInput) (*types.Plan, error)
	Update(dbc dbctx.Context, id uuid.UUID, in UpdatePlanInput) (*types.Plan, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
	History(dbc dbctx.Context, id uuid.UUID) ([]*types.PlanHistory, error)
}

type planService struct {
	db       *gorm.DB
	log      *logger.Logger
	goals    repos.GoalRepo
	plans    repos.PlanRepo
	history  repos.PlanHistoryRepo
	weekly   repos.WeeklyGoalRepo
	records  repos.RecordRepo
	notifier realtime.Notifier
}

func NewPlanService(
	db *gorm.DB,
	log *logger.Logger,
	goals repos.GoalRepo,
	plans repos.PlanRepo,
	history repos.PlanHistoryRepo,
	weekly repos.WeeklyGoalRepo,
	records repos.RecordRepo,
	notifier realtime.Notifier,
) PlanService {
	if notifier == nil {
		notifier = realtime.Nop()
	}
	return &planService{
		db:       db,
		log:      log.With("service", "PlanService"),
		goals:    goals,
		plans:    plans,
		history:  history,
		weekly:   weekly,
		records:  records,
		notifier: notifier,
	}
}

func (s *planService) ListByGoal(dbc dbctx.Context, goalID uuid.UUID) ([]*types.Plan, error) {
	owner, err := requireOwner(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	return s.plans.ListByGoal(dbc, owner, goalID)
}

func (s *planService) ListActive(dbc dbctx.Context) ([]*types.PlanWithGoal, error) {
	owner, err := requireOwner(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	return s.plans.ListActiveWithGoal(dbc, owner)
}

func (s *planService) Get(dbc dbctx.Context, id uuid.UUID) (*types.Plan, error) {
	owner, err := requireOwner(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.plans.GetByID(dbc, owner, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apierr.NotFound("plan")
	}
	return p, nil
}

func (s *planService) Create(dbc dbctx.Context, goalID uuid.UUID, in CreatePlanInput) (*types.Plan, error) {
	owner, err := requireOwner(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	title, err := requiredText("title", in.Title)
	if err != nil {
		return nil, err
	}
	status := strings.TrimSpace(in.Status)
	if status == "" {
		status = types.PlanStatusPending
	}
	if !types.ValidPlanStatus(status) {
		return nil, apierr.Invalid(fmt.Sprintf("unknown plan status %q", status))
	}
	priority := strings.TrimSpace(in.Priority)
	if priority == "" {
		priority = types.PlanPriorityMedium
	}
	if !types.ValidPriority(priority) {
		return nil, apierr.Invalid(fmt.Sprintf("unknown priority %q", priority))
	}
	if in.TargetValue != nil && *in.TargetValue < 0 {
		return nil, apierr.Invalid("target_value must not be negative")
	}
	due, err := week.ParseOptional(in.DueDate)
	if err != nil {
		return nil, apierr.Invalid(err.Error())
	}

	p := &types.Plan{
		UserID:      owner,
		GoalID:      goalID,
		Title:       title,
		Description: optionalText(in.Description),
		Status:      status,
		Priority:    priority,
		DueDate:     due,
		TargetValue: in.TargetValue,
		Unit:        optionalText(in.Unit),
	}
	if p.TargetValue != nil {
		zero := 0.0
		p.CurrentValue = &zero
	}
	err = inTx(s.db, dbc, func(inner dbctx.Context) error {
		g, err := s.goals.GetByID(inner, owner, goalID)
		if err != nil {
			return err
		}
		if g == nil {
			return apierr.NotFound("goal")
		}
		if err := s.plans.Create(inner, p); err != nil {
			return err
		}
		return s.history.Create(inner, []*types.PlanHistory{{
			UserID:     owner,
			PlanID:     p.ID,
			ChangedBy:  &owner,
			ChangeType: types.HistoryCreated,
			NewValue:   &p.Title,
		}})
	})
	if err != nil {
		return nil, apierr.FromDB(err)
	}
	s.notifier.Notify(dbc.Ctx, owner, realtime.SSEEventPlanChanged, p)
	return p, nil
}

func (s *planService) Update(dbc dbctx.Context, id uuid.UUID, in UpdatePlanInput) (*types.Plan, error) {
	owner, err := requireOwner(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	updates, err := planUpdates(in)
	if err != nil {
		return nil, err
	}

	var out *types.Plan
	err = inTx(s.db, dbc, func(inner dbctx.Context) error {
		before, err := s.plans.GetByID(inner, owner, id)
		if err != nil {
			return err
		}
		if before == nil {
			return apierr.NotFound("plan")
		}
		if err := s.plans.UpdateFields(inner, owner, id, updates); err != nil {
			return err
		}
		after, err := s.plans.GetByID(inner, owner, id)
		if err != nil {
			return err
		}
		if rows := diffPlan(owner, before, after); len(rows) > 0 {
			if err := s.history.Create(inner, rows); err != nil {
				return err
			}
		}
		out = after
		return nil
	})
	if err != nil {
		return nil, apierr.FromDB(err)
	}
	s.notifier.Notify(dbc.Ctx, owner, realtime.SSEEventPlanChanged, out)
	return out, nil
}

func planUpdates(in UpdatePlanInput) (map[string]any, error) {
	updates := map[string]any{}
	if in.Title != nil {
		title, err := requiredText("title", *in.Title)
		if err != nil {
			return nil, err
		}
		updates["title"] = title
	}
	if in.Description != nil {
		updates["description"] = optionalText(in.Description)
	}
	if in.Status != nil {
		if !types.ValidPlanStatus(*in.Status) {
			return nil, apierr.Invalid(fmt.Sprintf("unknown plan status %q", *in.Status))
		}
		updates["status"] = *in.Status
	}
	if in.Priority != nil {
		if !types.ValidPriority(*in.Priority) {
			return nil, apierr.Invalid(fmt.Sprintf("unknown priority %q", *in.Priority))
		}
		updates["priority"] = *in.Priority
	}
	for col, raw := range map[string]*string{"due_date": in.DueDate, "completed_date": in.CompletedDate} {
		if raw == nil {
			continue
		}
		d, err := week.ParseOptional(raw)
		if err != nil {
			return nil, apierr.Invalid(err.Error())
		}
		if d == nil {
			updates[col] = nil
		} else {
			updates[col] = *d
		}
	}
	if in.TargetValue != nil {
		if *in.TargetValue < 0 {
			return nil, apierr.Invalid("target_value must not be negative")
		}
		updates["target_value"] = *in.TargetValue
	}
	if in.CurrentValue != nil {
		if *in.CurrentValue < 0 {
			return nil, apierr.Invalid("current_value must not be negative")
		}
		updates["current_value"] = *in.CurrentValue
	}
	if in.Unit != nil {
		updates["unit"] = optionalText(in.Unit)
	}
	return updates, nil
}

// diffPlan yields one "updated" history row per tracked field that changed.
func diffPlan(owner uuid.UUID, before, after *types.Plan) []*types.PlanHistory {
	fields := []struct {
		name     string
		old, new *string
	}{
		{"title", &before.Title, &after.Title},
		{"status", &before.Status, &after.Status},
		{"priority", &before.Priority, &after.Priority},
		{"due_date", dateText(before.DueDate), dateText(after.DueDate)},
		{"target_value", floatText(before.TargetValue), floatText(after.TargetValue)},
		{"current_value", floatText(before.CurrentValue), floatText(after.CurrentValue)},
		{"unit", before.Unit, after.Unit},
	}
	var rows []*types.PlanHistory
	for _, f := range fields {
		if sameText(f.old, f.new) {
			continue
		}
		name := f.name
		rows = append(rows, &types.PlanHistory{
			UserID:     owner,
			PlanID:     after.ID,
			ChangedBy:  &owner,
			ChangeType: types.HistoryUpdated,
			FieldName:  &name,
			OldValue:   f.old,
			NewValue:   f.new,
		})
	}
	return rows
}

func sameText(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func floatText(v *float64) *string {
	if v == nil {
		return nil
	}
	s := strconv.FormatFloat(*v, 'f', -1, 64)
	return &s
}

func dateText(d *datatypes.Date) *string {
	if d == nil {
		return nil
	}
	s := week.Format(*d)
	return &s
}

// Delete removes the plan with its weekly goals and history. Records that
// pointed at either are kept and unlinked.
func (s *planService) Delete(dbc dbctx.Context, id uuid.UUID) error {
	owner, err := requireOwner(dbc.Ctx)
	if err != nil {
		return err
	}
	err = inTx(s.db, dbc, func(inner dbctx.Context) error {
		p, err := s.plans.GetByID(inner, owner, id)
		if err != nil {
			return err
		}
		if p == nil {
			return apierr.NotFound("plan")
		}
		planIDs := []uuid.UUID{id}
		weeklyIDs, err := s.weekly.IDsByPlans(inner, owner, planIDs)
		if err != nil {
			return err
		}
		if err := s.records.UnlinkWeeklyGoals(inner, owner, weeklyIDs); err != nil {
			return err
		}
		if err := s.records.UnlinkPlans(inner, owner, planIDs); err != nil {
			return err
		}
		if err := s.weekly.DeleteByIDs(inner, owner, weeklyIDs); err != nil {
			return err
		}
		if err := s.history.DeleteByPlanIDs(inner, owner, planIDs); err != nil {
			return err
		}
		return s.plans.DeleteByIDs(inner, owner, planIDs)
	})
	if err != nil {
		return apierr.FromDB(err)
	}
	s.notifier.Notify(dbc.Ctx, owner, realtime.SSEEventPlanChanged, map[string]any{"deleted": id})
	return nil
}

func (s *planService) History(dbc dbctx.Context, id uuid.UUID) ([]*types.PlanHistory, error) {
	owner, err := requireOwner(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.plans.GetByID(dbc, owner, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apierr.NotFound("plan")
	}
	return s.history.ListByPlan(dbc, owner, id)
}
