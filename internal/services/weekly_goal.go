package services

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/goalflow-backend/internal/data/repos"
	types "github.com/yungbote/goalflow-backend/internal/domain"
	"github.com/yungbote/goalflow-backend/internal/platform/apierr"
	"github.com/yungbote/goalflow-backend/internal/platform/dbctx"
	"github.com/yungbote/goalflow-backend/internal/platform/logger"
	"github.com/yungbote/goalflow-backend/internal/progress"
	"github.com/yungbote/goalflow-backend/internal/realtime"
	"github.com/yungbote/goalflow-backend/internal/week"
)

type CreateWeeklyGoalInput struct {
	PlanID        uuid.UUID `json:"plan_id" binding:"required"`
	WeekStartDate string    `json:"week_start_date"`
	TargetValue   float64   `json:"target_value" binding:"required,gt=0"`
	Notes         *string   `json:"notes"`
}

// CreateCustomWeeklyGoalInput creates a weekly goal for something that has
// no plan yet. The plan is made up from Title and Unit.
type CreateCustomWeeklyGoalInput struct {
	Title         string  `json:"title" binding:"required"`
	Unit          string  `json:"unit" binding:"required"`
	WeekStartDate string  `json:"week_start_date"`
	TargetValue   float64 `json:"target_value" binding:"required,gt=0"`
	Notes         *string `json:"notes"`
}

type UpdateWeeklyGoalInput struct {
	TargetValue  *float64 `json:"target_value" binding:"omitempty,gt=0"`
	CurrentValue *float64 `json:"current_value" binding:"omitempty,min=0"`
	Notes        *string  `json:"notes"`
}

type WeeklyGoalService interface {
	ListByPlan(dbc dbctx.Context, planID uuid.UUID) ([]*types.WeeklyGoal, error)
	CurrentWeek(dbc dbctx.Context) ([]*types.WeeklyGoalWithPlan, error)
	Create(dbc dbctx.Context, in CreateWeeklyGoalInput) (*types.WeeklyGoal, error)
	CreateCustom(dbc dbctx.Context, in CreateCustomWeeklyGoalInput) (*types.WeeklyGoalWithPlan, error)
	Update(dbc dbctx.Context, id uuid.UUID, in UpdateWeeklyGoalInput) (*types.WeeklyGoal, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type weeklyGoalService struct {
	db       *gorm.DB
	log      *logger.Logger
	cal      Calendar
	goals    repos.GoalRepo
	plans    repos.PlanRepo
	weekly   repos.WeeklyGoalRepo
	records  repos.RecordRepo
	profiles repos.ProfileRepo
	notifier realtime.Notifier
}

func NewWeeklyGoalService(
	db *gorm.DB,
	log *logger.Logger,
	cal Calendar,
	goals repos.GoalRepo,
	plans repos.PlanRepo,
	weekly repos.WeeklyGoalRepo,
	records repos.RecordRepo,
	profiles repos.ProfileRepo,
	notifier realtime.Notifier,
) WeeklyGoalService {
	if notifier == nil {
		notifier = realtime.Nop()
	}
	return &weeklyGoalService{
		db:       db,
		log:      log.With("service", "WeeklyGoalService"),
		cal:      cal,
		goals:    goals,
		plans:    plans,
		weekly:   weekly,
		records:  records,
		profiles: profiles,
		notifier: notifier,
	}
}

func (s *weeklyGoalService) ListByPlan(dbc dbctx.Context, planID uuid.UUID) ([]*types.WeeklyGoal, error) {
	owner, err := requireOwner(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	return s.weekly.ListByPlan(dbc, owner, planID)
}

func (s *weeklyGoalService) CurrentWeek(dbc dbctx.Context) ([]*types.WeeklyGoalWithPlan, error) {
	owner, err := requireOwner(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	start, err := currentWeekStart(dbc, s.cal, s.profiles, owner)
	if err != nil {
		return nil, err
	}
	return s.weekly.ListByWeekWithPlan(dbc, owner, start)
}

// currentWeekStart honours the owner's week_start_day preference.
func currentWeekStart(dbc dbctx.Context, cal Calendar, profiles repos.ProfileRepo, owner uuid.UUID) (datatypes.Date, error) {
	startDay := types.WeekStartMonday
	p, err := profiles.GetByUserID(dbc, owner)
	if err != nil {
		return datatypes.Date{}, err
	}
	if p != nil && types.ValidWeekStartDay(p.WeekStartDay) {
		startDay = p.WeekStartDay
	}
	return cal.WeekStart(startDay), nil
}

func (s *weeklyGoalService) weekOf(dbc dbctx.Context, owner uuid.UUID, raw string) (datatypes.Date, error) {
	if strings.TrimSpace(raw) == "" {
		return currentWeekStart(dbc, s.cal, s.profiles, owner)
	}
	d, err := week.Parse(raw)
	if err != nil {
		return datatypes.Date{}, apierr.Invalid(err.Error())
	}
	return d, nil
}

func (s *weeklyGoalService) Create(dbc dbctx.Context, in CreateWeeklyGoalInput) (*types.WeeklyGoal, error) {
	owner, err := requireOwner(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	if in.TargetValue <= 0 {
		return nil, apierr.Invalid("target_value must be positive")
	}
	weekStart, err := s.weekOf(dbc, owner, in.WeekStartDate)
	if err != nil {
		return nil, err
	}
	row := &types.WeeklyGoal{
		UserID:        owner,
		PlanID:        in.PlanID,
		WeekStartDate: weekStart,
		TargetValue:   in.TargetValue,
		Status:        types.WeeklyStatusActive,
		Notes:         optionalText(in.Notes),
	}
	err = inTx(s.db, dbc, func(inner dbctx.Context) error {
		p, err := s.plans.GetByID(inner, owner, in.PlanID)
		if err != nil {
			return err
		}
		if p == nil {
			return apierr.NotFound("plan")
		}
		return s.weekly.Create(inner, row)
	})
	if err != nil {
		return nil, apierr.FromDB(err)
	}
	s.notifier.Notify(dbc.Ctx, owner, realtime.SSEEventWeeklyGoalChanged, row)
	return row, nil
}

// CreateCustom files the new plan under a root goal titled CustomGoalTitle,
// creating that goal on first use.
func (s *weeklyGoalService) CreateCustom(dbc dbctx.Context, in CreateCustomWeeklyGoalInput) (*types.WeeklyGoalWithPlan, error) {
	owner, err := requireOwner(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	title, err := requiredText("title", in.Title)
	if err != nil {
		return nil, err
	}
	unit, err := requiredText("unit", in.Unit)
	if err != nil {
		return nil, err
	}
	if in.TargetValue <= 0 {
		return nil, apierr.Invalid("target_value must be positive")
	}
	weekStart, err := s.weekOf(dbc, owner, in.WeekStartDate)
	if err != nil {
		return nil, err
	}

	var out *types.WeeklyGoalWithPlan
	err = inTx(s.db, dbc, func(inner dbctx.Context) error {
		root, err := s.customRoot(inner, owner)
		if err != nil {
			return err
		}
		plan := &types.Plan{
			UserID:   owner,
			GoalID:   root.ID,
			Title:    title,
			Status:   types.PlanStatusInProgress,
			Priority: types.PlanPriorityMedium,
			Unit:     &unit,
		}
		if err := s.plans.Create(inner, plan); err != nil {
			return err
		}
		row := &types.WeeklyGoal{
			UserID:        owner,
			PlanID:        plan.ID,
			WeekStartDate: weekStart,
			TargetValue:   in.TargetValue,
			Status:        types.WeeklyStatusActive,
			Notes:         optionalText(in.Notes),
		}
		if err := s.weekly.Create(inner, row); err != nil {
			return err
		}
		out = &types.WeeklyGoalWithPlan{
			WeeklyGoal: *row,
			Plan: &types.PlanSummary{
				ID:        plan.ID,
				GoalID:    root.ID,
				Title:     plan.Title,
				Unit:      plan.Unit,
				GoalTitle: root.Title,
			},
		}
		return nil
	})
	if err != nil {
		return nil, apierr.FromDB(err)
	}
	s.notifier.Notify(dbc.Ctx, owner, realtime.SSEEventWeeklyGoalChanged, out)
	return out, nil
}

func (s *weeklyGoalService) customRoot(dbc dbctx.Context, owner uuid.UUID) (*types.Goal, error) {
	root, err := s.goals.FindRootByTitle(dbc, owner, types.CustomGoalTitle)
	if err != nil || root != nil {
		return root, err
	}
	root = &types.Goal{
		UserID: owner,
		Title:  types.CustomGoalTitle,
		Status: types.GoalStatusActive,
	}
	maxOrder, ok, err := s.goals.MaxOrder(dbc, owner, nil)
	if err != nil {
		return nil, err
	}
	if ok {
		root.DisplayOrder = maxOrder + 1
	}
	if err := s.goals.Create(dbc, root); err != nil {
		return nil, err
	}
	return root, nil
}

// Update edits notes and the two values. Status is always re-derived from the
// resulting values and never taken from the caller.
func (s *weeklyGoalService) Update(dbc dbctx.Context, id uuid.UUID, in UpdateWeeklyGoalInput) (*types.WeeklyGoal, error) {
	owner, err := requireOwner(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	if in.TargetValue != nil && *in.TargetValue <= 0 {
		return nil, apierr.Invalid("target_value must be positive")
	}
	if in.CurrentValue != nil && *in.CurrentValue < 0 {
		return nil, apierr.Invalid("current_value must not be negative")
	}

	var out *types.WeeklyGoal
	err = inTx(s.db, dbc, func(inner dbctx.Context) error {
		cur, err := s.weekly.GetByID(inner, owner, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return apierr.NotFound("weekly goal")
		}
		target, current := cur.TargetValue, cur.CurrentValue
		updates := map[string]any{}
		if in.TargetValue != nil {
			target = *in.TargetValue
			updates["target_value"] = target
		}
		if in.CurrentValue != nil {
			current = *in.CurrentValue
			updates["current_value"] = current
		}
		if in.Notes != nil {
			updates["notes"] = optionalText(in.Notes)
		}
		updates["status"] = progress.WeeklyStatus(current, target)
		if err := s.weekly.UpdateFields(inner, owner, id, updates); err != nil {
			return err
		}
		out, err = s.weekly.GetByID(inner, owner, id)
		return err
	})
	if err != nil {
		return nil, apierr.FromDB(err)
	}
	s.notifier.Notify(dbc.Ctx, owner, realtime.SSEEventWeeklyGoalChanged, out)
	return out, nil
}

// Delete keeps records that were logged against the weekly goal.
func (s *weeklyGoalService) Delete(dbc dbctx.Context, id uuid.UUID) error {
	owner, err := requireOwner(dbc.Ctx)
	if err != nil {
		return err
	}
	err = inTx(s.db, dbc, func(inner dbctx.Context) error {
		cur, err := s.weekly.GetByID(inner, owner, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return apierr.NotFound("weekly goal")
		}
		ids := []uuid.UUID{id}
		if err := s.records.UnlinkWeeklyGoals(inner, owner, ids); err != nil {
			return err
		}
		return s.weekly.DeleteByIDs(inner, owner, ids)
	})
	if err != nil {
		return apierr.FromDB(err)
	}
	s.notifier.Notify(dbc.Ctx, owner, realtime.SSEEventWeeklyGoalChanged, map[string]any{"deleted": id})
	return nil
}
