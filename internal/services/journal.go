package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/goalflow-backend/internal/data/repos"
	types "github.com/yungbote/goalflow-backend/internal/domain"
	"github.com/yungbote/goalflow-backend/internal/platform/apierr"
	"github.com/yungbote/goalflow-backend/internal/platform/dbctx"
	"github.com/yungbote/goalflow-backend/internal/platform/logger"
	"github.com/yungbote/goalflow-backend/internal/week"
)

// ownedGoal fails with not found unless goalID belongs to owner.
func ownedGoal(dbc dbctx.Context, goals repos.GoalRepo, owner, goalID uuid.UUID) error {
	g, err := goals.GetByID(dbc, owner, goalID)
	if err != nil {
		return err
	}
	if g == nil {
		return apierr.NotFound("goal")
	}
	return nil
}

type CreateGoalLogInput struct {
	Content string `json:"content" binding:"required"`
	LogType string `json:"log_type" binding:"omitempty,oneof=note milestone issue decision"`
}

type GoalLogService interface {
	List(dbc dbctx.Context, goalID uuid.UUID) ([]*types.GoalLog, error)
	Create(dbc dbctx.Context, goalID uuid.UUID, in CreateGoalLogInput) (*types.GoalLog, error)
}

type goalLogService struct {
	db    *gorm.DB
	log   *logger.Logger
	goals repos.GoalRepo
	logs  repos.GoalLogRepo
}

func NewGoalLogService(db *gorm.DB, log *logger.Logger, goals repos.GoalRepo, logs repos.GoalLogRepo) GoalLogService {
	return &goalLogService{db: db, log: log.With("service", "GoalLogService"), goals: goals, logs: logs}
}

func (s *goalLogService) List(dbc dbctx.Context, goalID uuid.UUID) ([]*types.GoalLog, error) {
	owner, err := requireOwner(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	return s.logs.ListByGoal(dbc, owner, goalID)
}

func (s *goalLogService) Create(dbc dbctx.Context, goalID uuid.UUID, in CreateGoalLogInput) (*types.GoalLog, error) {
	owner, err := requireOwner(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	content, err := requiredText("content", in.Content)
	if err != nil {
		return nil, err
	}
	logType := strings.TrimSpace(in.LogType)
	if logType == "" {
		logType = types.LogTypeNote
	}
	if !types.ValidLogType(logType) {
		return nil, apierr.Invalid(fmt.Sprintf("unknown log type %q", logType))
	}
	row := &types.GoalLog{UserID: owner, GoalID: goalID, Content: content, LogType: logType}
	err = inTx(s.db, dbc, func(inner dbctx.Context) error {
		if err := ownedGoal(inner, s.goals, owner, goalID); err != nil {
			return err
		}
		return s.logs.Create(inner, row)
	})
	if err != nil {
		return nil, apierr.FromDB(err)
	}
	return row, nil
}

type CreateGoalWeeklyTargetInput struct {
	WeekStart string `json:"week_start" binding:"required"`
	Target    string `json:"target" binding:"required"`
}

type UpdateGoalWeeklyTargetInput struct {
	Target        *string `json:"target"`
	Status        *string `json:"status" binding:"omitempty,oneof=pending in_progress completed missed"`
	CompletedDate *string `json:"completed_date"`
}

type GoalWeeklyTargetService interface {
	List(dbc dbctx.Context, goalID uuid.UUID) ([]*types.GoalWeeklyTarget, error)
	Create(dbc dbctx.Context, goalID uuid.UUID, in CreateGoalWeeklyTargetInput) (*types.GoalWeeklyTarget, error)
	Update(dbc dbctx.Context, id uuid.UUID, in UpdateGoalWeeklyTargetInput) (*types.GoalWeeklyTarget, error)
}

type goalWeeklyTargetService struct {
	db      *gorm.DB
	log     *logger.Logger
	goals   repos.GoalRepo
	targets repos.GoalWeeklyTargetRepo
}

func NewGoalWeeklyTargetService(db *gorm.DB, log *logger.Logger, goals repos.GoalRepo, targets repos.GoalWeeklyTargetRepo) GoalWeeklyTargetService {
	return &goalWeeklyTargetService{
		db:      db,
		log:     log.With("service", "GoalWeeklyTargetService"),
		goals:   goals,
		targets: targets,
	}
}

func (s *goalWeeklyTargetService) List(dbc dbctx.Context, goalID uuid.UUID) ([]*types.GoalWeeklyTarget, error) {
	owner, err := requireOwner(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	return s.targets.ListByGoal(dbc, owner, goalID)
}

func (s *goalWeeklyTargetService) Create(dbc dbctx.Context, goalID uuid.UUID, in CreateGoalWeeklyTargetInput) (*types.GoalWeeklyTarget, error) {
	owner, err := requireOwner(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	target, err := requiredText("target", in.Target)
	if err != nil {
		return nil, err
	}
	weekStart, err := week.Parse(in.WeekStart)
	if err != nil {
		return nil, apierr.Invalid(err.Error())
	}
	row := &types.GoalWeeklyTarget{
		UserID:    owner,
		GoalID:    goalID,
		WeekStart: weekStart,
		Target:    target,
		Status:    types.TargetStatusPending,
	}
	err = inTx(s.db, dbc, func(inner dbctx.Context) error {
		if err := ownedGoal(inner, s.goals, owner, goalID); err != nil {
			return err
		}
		return s.targets.Create(inner, row)
	})
	if err != nil {
		return nil, apierr.FromDB(err)
	}
	return row, nil
}

func (s *goalWeeklyTargetService) Update(dbc dbctx.Context, id uuid.UUID, in UpdateGoalWeeklyTargetInput) (*types.GoalWeeklyTarget, error) {
	owner, err := requireOwner(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if in.Target != nil {
		target, err := requiredText("target", *in.Target)
		if err != nil {
			return nil, err
		}
		updates["target"] = target
	}
	if in.Status != nil {
		if !types.ValidTargetStatus(*in.Status) {
			return nil, apierr.Invalid(fmt.Sprintf("unknown target status %q", *in.Status))
		}
		updates["status"] = *in.Status
	}
	if in.CompletedDate != nil {
		d, err := week.ParseOptional(in.CompletedDate)
		if err != nil {
			return nil, apierr.Invalid(err.Error())
		}
		if d == nil {
			updates["completed_date"] = nil
		} else {
			updates["completed_date"] = *d
		}
	}

	var out *types.GoalWeeklyTarget
	err = inTx(s.db, dbc, func(inner dbctx.Context) error {
		if err := s.targets.UpdateFields(inner, owner, id, updates); err != nil {
			return err
		}
		row, err := s.targets.GetByID(inner, owner, id)
		if err != nil {
			return err
		}
		if row == nil {
			return apierr.NotFound("goal weekly target")
		}
		out = row
		return nil
	})
	if err != nil {
		return nil, apierr.FromDB(err)
	}
	return out, nil
}

type CreateGoalReviewInput struct {
	ReviewDate    string  `json:"review_date"`
	WhatWentWell  *string `json:"what_went_well"`
	WhatToImprove *string `json:"what_to_improve"`
	NextActions   *string `json:"next_actions"`
	Rating        *int    `json:"rating" binding:"omitempty,min=1,max=5"`
}

type GoalReviewService interface {
	List(dbc dbctx.Context, goalID uuid.UUID) ([]*types.GoalReview, error)
	Create(dbc dbctx.Context, goalID uuid.UUID, in CreateGoalReviewInput) (*types.GoalReview, error)
}

type goalReviewService struct {
	db      *gorm.DB
	log     *logger.Logger
	goals   repos.GoalRepo
	reviews repos.GoalReviewRepo
	cal     Calendar
}

func NewGoalReviewService(db *gorm.DB, log *logger.Logger, cal Calendar, goals repos.GoalRepo, reviews repos.GoalReviewRepo) GoalReviewService {
	return &goalReviewService{
		db:      db,
		log:     log.With("service", "GoalReviewService"),
		goals:   goals,
		reviews: reviews,
		cal:     cal,
	}
}

func (s *goalReviewService) List(dbc dbctx.Context, goalID uuid.UUID) ([]*types.GoalReview, error) {
	owner, err := requireOwner(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	return s.reviews.ListByGoal(dbc, owner, goalID)
}

// Create stores a review dated today unless review_date is given.
func (s *goalReviewService) Create(dbc dbctx.Context, goalID uuid.UUID, in CreateGoalReviewInput) (*types.GoalReview, error) {
	owner, err := requireOwner(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	if in.Rating != nil && (*in.Rating < 1 || *in.Rating > 5) {
		return nil, apierr.Invalid("rating must be between 1 and 5")
	}
	date := s.cal.Today()
	if strings.TrimSpace(in.ReviewDate) != "" {
		if date, err = week.Parse(in.ReviewDate); err != nil {
			return nil, apierr.Invalid(err.Error())
		}
	}
	row := &types.GoalReview{
		UserID:        owner,
		GoalID:        goalID,
		ReviewDate:    date,
		WhatWentWell:  optionalText(in.WhatWentWell),
		WhatToImprove: optionalText(in.WhatToImprove),
		NextActions:   optionalText(in.NextActions),
		Rating:        in.Rating,
	}
	err = inTx(s.db, dbc, func(inner dbctx.Context) error {
		if err := ownedGoal(inner, s.goals, owner, goalID); err != nil {
			return err
		}
		return s.reviews.Create(inner, row)
	})
	if err != nil {
		return nil, apierr.FromDB(err)
	}
	return row, nil
}
