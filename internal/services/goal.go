package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/goalflow-backend/internal/data/repos"
	types "github.com/yungbote/goalflow-backend/internal/domain"
	"github.com/yungbote/goalflow-backend/internal/goaltree"
	"github.com/yungbote/goalflow-backend/internal/platform/apierr"
	"github.com/yungbote/goalflow-backend/internal/platform/dbctx"
	"github.com/yungbote/goalflow-backend/internal/platform/logger"
	"github.com/yungbote/goalflow-backend/internal/realtime"
	"github.com/yungbote/goalflow-backend/internal/week"
)

type CreateGoalInput struct {
	Title       string     `json:"title" binding:"required"`
	Description *string    `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id"`
	StartDate   *string    `json:"start_date"`
	TargetDate  *string    `json:"target_date"`
}

// UpdateGoalInput is a partial update; nil fields are left alone. An empty
// date string clears that date.
type UpdateGoalInput struct {
	Title         *string  `json:"title"`
	Description   *string  `json:"description"`
	Status        *string  `json:"status" binding:"omitempty,oneof=active completed archived"`
	Progress      *float64 `json:"progress" binding:"omitempty,min=0,max=100"`
	StartDate     *string  `json:"start_date"`
	TargetDate    *string  `json:"target_date"`
	CompletedDate *string  `json:"completed_date"`
}

// MoveGoalInput is one drop gesture. Zone wins over the pointer offset when
// both are given.
type MoveGoalInput struct {
	TargetID  uuid.UUID `json:"target_id" binding:"required"`
	Zone      string    `json:"zone" binding:"omitempty,oneof=before after inside"`
	OffsetY   *float64  `json:"offset_y"`
	RowHeight *float64  `json:"row_height"`
}

type MoveResult struct {
	Move         goaltree.Move   `json:"move"`
	Renormalized []goaltree.Move `json:"renormalized"`
}

type GoalService interface {
	List(dbc dbctx.Context) ([]*types.Goal, error)
	Tree(dbc dbctx.Context) ([]*goaltree.Node, error)
	Get(dbc dbctx.Context, id uuid.UUID) (*types.Goal, error)
	Create(dbc dbctx.Context, in CreateGoalInput) (*types.Goal, error)
	Update(dbc dbctx.Context, id uuid.UUID, in UpdateGoalInput) (*types.Goal, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
	Move(dbc dbctx.Context, id uuid.UUID, in MoveGoalInput) (*MoveResult, error)
	MoveToRoot(dbc dbctx.Context, id uuid.UUID) (*MoveResult, error)
	Renormalize(dbc dbctx.Context, parentID *uuid.UUID) ([]goaltree.Move, error)
}

type goalService struct {
	db       *gorm.DB
	log      *logger.Logger
	goals    repos.GoalRepo
	plans    repos.PlanRepo
	history  repos.PlanHistoryRepo
	weekly   repos.WeeklyGoalRepo
	records  repos.RecordRepo
	logs     repos.GoalLogRepo
	targets  repos.GoalWeeklyTargetRepo
	reviews  repos.GoalReviewRepo
	wtargets repos.WeeklyTargetRepo
	notifier realtime.Notifier
}

type GoalServiceDeps struct {
	Goals         repos.GoalRepo
	Plans         repos.PlanRepo
	PlanHistory   repos.PlanHistoryRepo
	WeeklyGoals   repos.WeeklyGoalRepo
	Records       repos.RecordRepo
	GoalLogs      repos.GoalLogRepo
	GoalTargets   repos.GoalWeeklyTargetRepo
	GoalReviews   repos.GoalReviewRepo
	WeeklyTargets repos.WeeklyTargetRepo
	Notifier      realtime.Notifier
}

func NewGoalService(db *gorm.DB, log *logger.Logger, deps GoalServiceDeps) GoalService {
	notifier := deps.Notifier
	if notifier == nil {
		notifier = realtime.Nop()
	}
	return &goalService{
		db:       db,
		log:      log.With("service", "GoalService"),
		goals:    deps.Goals,
		plans:    deps.Plans,
		history:  deps.PlanHistory,
		weekly:   deps.WeeklyGoals,
		records:  deps.Records,
		logs:     deps.GoalLogs,
		targets:  deps.GoalTargets,
		reviews:  deps.GoalReviews,
		wtargets: deps.WeeklyTargets,
		notifier: notifier,
	}
}

func (s *goalService) List(dbc dbctx.Context) ([]*types.Goal, error) {
	owner, err := requireOwner(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	return s.goals.ListByOwner(dbc, owner)
}

func (s *goalService) Tree(dbc dbctx.Context) ([]*goaltree.Node, error) {
	all, err := s.List(dbc)
	if err != nil {
		return nil, err
	}
	return goaltree.Build(all), nil
}

func (s *goalService) Get(dbc dbctx.Context, id uuid.UUID) (*types.Goal, error) {
	owner, err := requireOwner(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	g, err := s.goals.GetByID(dbc, owner, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, apierr.NotFound("goal")
	}
	return g, nil
}

func (s *goalService) Create(dbc dbctx.Context, in CreateGoalInput) (*types.Goal, error) {
	owner, err := requireOwner(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	title, err := requiredText("title", in.Title)
	if err != nil {
		return nil, err
	}
	start, err := week.ParseOptional(in.StartDate)
	if err != nil {
		return nil, apierr.Invalid(err.Error())
	}
	target, err := week.ParseOptional(in.TargetDate)
	if err != nil {
		return nil, apierr.Invalid(err.Error())
	}

	g := &types.Goal{
		UserID:      owner,
		ParentID:    in.ParentID,
		Title:       title,
		Description: optionalText(in.Description),
		Status:      types.GoalStatusActive,
		StartDate:   start,
		TargetDate:  target,
	}
	err = inTx(s.db, dbc, func(inner dbctx.Context) error {
		if in.ParentID != nil {
			parent, err := s.goals.GetByID(inner, owner, *in.ParentID)
			if err != nil {
				return err
			}
			if parent == nil {
				return apierr.NotFound("parent goal")
			}
		}
		maxOrder, ok, err := s.goals.MaxOrder(inner, owner, in.ParentID)
		if err != nil {
			return err
		}
		if ok {
			g.DisplayOrder = maxOrder + 1
		}
		return s.goals.Create(inner, g)
	})
	if err != nil {
		return nil, apierr.FromDB(err)
	}
	s.notifier.Notify(dbc.Ctx, owner, realtime.SSEEventGoalTreeChanged, g)
	return g, nil
}

func (s *goalService) Update(dbc dbctx.Context, id uuid.UUID, in UpdateGoalInput) (*types.Goal, error) {
	owner, err := requireOwner(dbc.Ctx)
	if err != nil {
		return nil, err
	}
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
		status := strings.TrimSpace(*in.Status)
		if !types.ValidGoalStatus(status) {
			return nil, apierr.Invalid(fmt.Sprintf("unknown goal status %q", status))
		}
		updates["status"] = status
	}
	if in.Progress != nil {
		if *in.Progress < 0 || *in.Progress > 100 {
			return nil, apierr.Invalid("progress must be between 0 and 100")
		}
		updates["progress"] = *in.Progress
	}
	for col, raw := range map[string]*string{
		"start_date":     in.StartDate,
		"target_date":    in.TargetDate,
		"completed_date": in.CompletedDate,
	} {
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

	var out *types.Goal
	err = inTx(s.db, dbc, func(inner dbctx.Context) error {
		if err := s.goals.UpdateFields(inner, owner, id, updates); err != nil {
			return err
		}
		g, err := s.goals.GetByID(inner, owner, id)
		if err != nil {
			return err
		}
		if g == nil {
			return apierr.NotFound("goal")
		}
		out = g
		return nil
	})
	if err != nil {
		return nil, apierr.FromDB(err)
	}
	s.notifier.Notify(dbc.Ctx, owner, realtime.SSEEventGoalTreeChanged, out)
	return out, nil
}

// Delete removes the goal, every goal below it and everything hanging off
// those goals, including records attributed to their plans.
func (s *goalService) Delete(dbc dbctx.Context, id uuid.UUID) error {
	owner, err := requireOwner(dbc.Ctx)
	if err != nil {
		return err
	}
	var removed []uuid.UUID
	err = inTx(s.db, dbc, func(inner dbctx.Context) error {
		g, err := s.goals.GetByID(inner, owner, id)
		if err != nil {
			return err
		}
		if g == nil {
			return apierr.NotFound("goal")
		}
		goalIDs, err := s.goals.SubtreeIDs(inner, owner, id)
		if err != nil {
			return err
		}
		planIDs, err := s.plans.IDsByGoals(inner, owner, goalIDs)
		if err != nil {
			return err
		}
		weeklyIDs, err := s.weekly.IDsByPlans(inner, owner, planIDs)
		if err != nil {
			return err
		}
		if err := s.records.DeleteLinked(inner, owner, goalIDs, planIDs, weeklyIDs); err != nil {
			return err
		}
		if err := s.weekly.DeleteByIDs(inner, owner, weeklyIDs); err != nil {
			return err
		}
		if err := s.history.DeleteByPlanIDs(inner, owner, planIDs); err != nil {
			return err
		}
		if err := s.plans.DeleteByIDs(inner, owner, planIDs); err != nil {
			return err
		}
		if err := s.logs.DeleteByGoalIDs(inner, owner, goalIDs); err != nil {
			return err
		}
		if err := s.targets.DeleteByGoalIDs(inner, owner, goalIDs); err != nil {
			return err
		}
		if err := s.reviews.DeleteByGoalIDs(inner, owner, goalIDs); err != nil {
			return err
		}
		if err := s.wtargets.UnlinkGoals(inner, owner, goalIDs); err != nil {
			return err
		}
		removed = goalIDs
		return s.goals.DeleteByIDs(inner, owner, goalIDs)
	})
	if err != nil {
		return apierr.FromDB(err)
	}
	s.log.Debug("goal subtree deleted", "goalID", id, "goals", len(removed))
	s.notifier.Notify(dbc.Ctx, owner, realtime.SSEEventGoalTreeChanged, map[string]any{"deleted": removed})
	return nil
}

func (s *goalService) Move(dbc dbctx.Context, id uuid.UUID, in MoveGoalInput) (*MoveResult, error) {
	zone, err := resolveZone(in)
	if err != nil {
		return nil, err
	}
	return s.move(dbc, func(f *goaltree.Forest) (goaltree.Move, error) {
		return f.PlanMove(id, in.TargetID, zone)
	})
}

func (s *goalService) MoveToRoot(dbc dbctx.Context, id uuid.UUID) (*MoveResult, error) {
	return s.move(dbc, func(f *goaltree.Forest) (goaltree.Move, error) {
		return f.PlanMoveToRoot(id)
	})
}

func resolveZone(in MoveGoalInput) (goaltree.DropZone, error) {
	if z := strings.TrimSpace(in.Zone); z != "" {
		zone, ok := goaltree.ParseDropZone(z)
		if !ok {
			return "", apierr.Invalid(fmt.Sprintf("unknown drop zone %q", z))
		}
		return zone, nil
	}
	if in.OffsetY == nil || in.RowHeight == nil {
		return "", apierr.Invalid("zone or offset_y and row_height are required")
	}
	return goaltree.ClassifyDropZone(*in.OffsetY, *in.RowHeight), nil
}

// move loads the owner's forest, plans a move with plan, applies it with the
// store update as the persist step and renormalizes the destination sibling
// group when midpoint inserts have squeezed it too tight.
func (s *goalService) move(dbc dbctx.Context, plan func(f *goaltree.Forest) (goaltree.Move, error)) (*MoveResult, error) {
	owner, err := requireOwner(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	var res MoveResult
	err = inTx(s.db, dbc, func(inner dbctx.Context) error {
		all, err := s.goals.ListByOwner(inner, owner)
		if err != nil {
			return err
		}
		forest := goaltree.NewForest(all)
		mv, err := plan(forest)
		if err != nil {
			return err
		}
		persist := func(ctx context.Context, m goaltree.Move) error {
			return s.goals.UpdatePlacement(inner, owner, m.GoalID, m.ParentID, m.DisplayOrder)
		}
		if err := forest.Apply(inner.Ctx, mv, persist); err != nil {
			return err
		}
		res.Move = mv

		siblings := forest.Siblings(mv.ParentID)
		if !goaltree.NeedsRenormalize(siblings) {
			return nil
		}
		changes := goaltree.Renormalize(siblings)
		if err := s.goals.SetOrders(inner, owner, ordersOf(changes)); err != nil {
			return err
		}
		forest.SetOrders(changes)
		res.Renormalized = changes
		for _, c := range changes {
			if c.GoalID == mv.GoalID {
				res.Move.DisplayOrder = c.DisplayOrder
			}
		}
		return nil
	})
	if err != nil {
		return nil, apierr.FromDB(err)
	}
	if res.Renormalized == nil {
		res.Renormalized = []goaltree.Move{}
	}
	s.notifier.Notify(dbc.Ctx, owner, realtime.SSEEventGoalTreeChanged, res)
	return &res, nil
}

// Renormalize rewrites the sibling group under parentID (roots when nil) to
// orders 0, 1, 2, ...
func (s *goalService) Renormalize(dbc dbctx.Context, parentID *uuid.UUID) ([]goaltree.Move, error) {
	owner, err := requireOwner(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	var changes []goaltree.Move
	err = inTx(s.db, dbc, func(inner dbctx.Context) error {
		all, err := s.goals.ListByOwner(inner, owner)
		if err != nil {
			return err
		}
		forest := goaltree.NewForest(all)
		if parentID != nil {
			if _, ok := forest.Get(*parentID); !ok {
				return apierr.NotFound("goal")
			}
		}
		changes = goaltree.Renormalize(forest.Siblings(parentID))
		return s.goals.SetOrders(inner, owner, ordersOf(changes))
	})
	if err != nil {
		return nil, apierr.FromDB(err)
	}
	if len(changes) > 0 {
		s.notifier.Notify(dbc.Ctx, owner, realtime.SSEEventGoalTreeChanged, changes)
	}
	return changes, nil
}

func ordersOf(changes []goaltree.Move) map[uuid.UUID]float64 {
	out := make(map[uuid.UUID]float64, len(changes))
	for _, c := range changes {
		out[c.GoalID] = c.DisplayOrder
	}
	return out
}
