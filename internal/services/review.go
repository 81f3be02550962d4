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
	"github.com/yungbote/goalflow-backend/internal/week"
)

type NextWeekTargetInput struct {
	MetricName  string     `json:"metric_name" binding:"required"`
	TargetValue float64    `json:"target_value" binding:"gt=0"`
	Unit        string     `json:"unit" binding:"required"`
	GoalID      *uuid.UUID `json:"goal_id"`
}

// SaveReviewInput is the weekly review wizard's final step. WeekStartDate
// defaults to the current week.
type SaveReviewInput struct {
	WeekStartDate   string                `json:"week_start_date"`
	Summary         *string               `json:"summary"`
	Learnings       *string               `json:"learnings"`
	Problems        *string               `json:"problems"`
	Improvements    *string               `json:"improvements"`
	SelfRating      *int                  `json:"self_rating" binding:"omitempty,min=1,max=5"`
	NextWeekTargets []NextWeekTargetInput `json:"next_week_targets" binding:"dive"`
}

type SavedReview struct {
	Review          *types.WeeklyReview   `json:"review"`
	NextWeekTargets []*types.WeeklyTarget `json:"next_week_targets"`
}

type ReviewService interface {
	WeeklyProgress(dbc dbctx.Context, weekStart string) ([]types.WeeklyProgress, error)
	GetReview(dbc dbctx.Context, weekStart string) (*types.WeeklyReview, error)
	PreviousReview(dbc dbctx.Context, weekStart string) (*types.WeeklyReview, error)
	SaveReview(dbc dbctx.Context, in SaveReviewInput) (*SavedReview, error)
	ListTargets(dbc dbctx.Context, weekStart string) ([]*types.WeeklyTarget, error)
}

type reviewService struct {
	db       *gorm.DB
	log      *logger.Logger
	cal      Calendar
	goals    repos.GoalRepo
	records  repos.RecordRepo
	reviews  repos.WeeklyReviewRepo
	targets  repos.WeeklyTargetRepo
	profiles repos.ProfileRepo
}

func NewReviewService(
	db *gorm.DB,
	log *logger.Logger,
	cal Calendar,
	goals repos.GoalRepo,
	records repos.RecordRepo,
	reviews repos.WeeklyReviewRepo,
	targets repos.WeeklyTargetRepo,
	profiles repos.ProfileRepo,
) ReviewService {
	return &reviewService{
		db:       db,
		log:      log.With("service", "ReviewService"),
		cal:      cal,
		goals:    goals,
		records:  records,
		reviews:  reviews,
		targets:  targets,
		profiles: profiles,
	}
}

// resolveWeek parses raw as a week start, or computes the current one.
func (s *reviewService) resolveWeek(dbc dbctx.Context, owner uuid.UUID, raw string) (datatypes.Date, error) {
	if strings.TrimSpace(raw) == "" {
		return currentWeekStart(dbc, s.cal, s.profiles, owner)
	}
	d, err := week.Parse(raw)
	if err != nil {
		return datatypes.Date{}, apierr.Invalid(err.Error())
	}
	return d, nil
}

func (s *reviewService) WeeklyProgress(dbc dbctx.Context, weekStart string) ([]types.WeeklyProgress, error) {
	owner, err := requireOwner(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	start, err := s.resolveWeek(dbc, owner, weekStart)
	if err != nil {
		return nil, err
	}
	targets, err := s.targets.ListByWeek(dbc, owner, start)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return []types.WeeklyProgress{}, nil
	}
	from, to := week.Bounds(start, s.cal.location())
	records, err := s.records.ListBetween(dbc, owner, from, to)
	if err != nil {
		return nil, err
	}
	return progress.Report(targets, records), nil
}

func (s *reviewService) GetReview(dbc dbctx.Context, weekStart string) (*types.WeeklyReview, error) {
	owner, err := requireOwner(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	start, err := s.resolveWeek(dbc, owner, weekStart)
	if err != nil {
		return nil, err
	}
	return s.reviewFor(dbc, owner, start)
}

// PreviousReview returns the review of the week before weekStart, which the
// wizard offers to copy from.
func (s *reviewService) PreviousReview(dbc dbctx.Context, weekStart string) (*types.WeeklyReview, error) {
	owner, err := requireOwner(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	start, err := s.resolveWeek(dbc, owner, weekStart)
	if err != nil {
		return nil, err
	}
	return s.reviewFor(dbc, owner, week.Previous(start))
}

func (s *reviewService) reviewFor(dbc dbctx.Context, owner uuid.UUID, start datatypes.Date) (*types.WeeklyReview, error) {
	r, err := s.reviews.GetByWeek(dbc, owner, start)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, apierr.NotFound("weekly review")
	}
	return r, nil
}

// SaveReview stores the week's review, replacing an earlier save, and sets
// the following week's targets.
func (s *reviewService) SaveReview(dbc dbctx.Context, in SaveReviewInput) (*SavedReview, error) {
	owner, err := requireOwner(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	if in.SelfRating != nil && (*in.SelfRating < 1 || *in.SelfRating > 5) {
		return nil, apierr.Invalid("self_rating must be between 1 and 5")
	}
	rows := make([]*types.WeeklyTarget, 0, len(in.NextWeekTargets))
	for _, t := range in.NextWeekTargets {
		name, err := requiredText("metric_name", t.MetricName)
		if err != nil {
			return nil, err
		}
		unit, err := requiredText("unit", t.Unit)
		if err != nil {
			return nil, err
		}
		if t.TargetValue <= 0 {
			return nil, apierr.Invalid("target_value must be positive")
		}
		rows = append(rows, &types.WeeklyTarget{
			MetricName:  name,
			TargetValue: t.TargetValue,
			Unit:        unit,
			GoalID:      t.GoalID,
		})
	}

	var out SavedReview
	err = inTx(s.db, dbc, func(inner dbctx.Context) error {
		start, err := s.resolveWeek(inner, owner, in.WeekStartDate)
		if err != nil {
			return err
		}
		for _, r := range rows {
			if r.GoalID == nil {
				continue
			}
			if err := ownedGoal(inner, s.goals, owner, *r.GoalID); err != nil {
				return err
			}
		}
		review := &types.WeeklyReview{
			UserID:        owner,
			WeekStartDate: start,
			Summary:       optionalText(in.Summary),
			Learnings:     optionalText(in.Learnings),
			Problems:      optionalText(in.Problems),
			Improvements:  optionalText(in.Improvements),
			SelfRating:    in.SelfRating,
		}
		if err := s.reviews.Upsert(inner, review); err != nil {
			return err
		}
		saved, err := s.targets.ReplaceForWeek(inner, owner, week.Next(start), rows)
		if err != nil {
			return err
		}
		out = SavedReview{Review: review, NextWeekTargets: saved}
		return nil
	})
	if err != nil {
		return nil, apierr.FromDB(err)
	}
	return &out, nil
}

func (s *reviewService) ListTargets(dbc dbctx.Context, weekStart string) ([]*types.WeeklyTarget, error) {
	owner, err := requireOwner(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	start, err := s.resolveWeek(dbc, owner, weekStart)
	if err != nil {
		return nil, err
	}
	return s.targets.ListByWeek(dbc, owner, start)
}
