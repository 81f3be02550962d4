package services

import (
	"golang.org/x/sync/errgroup"

	types "github.com/yungbote/goalflow-backend/internal/domain"
	"github.com/yungbote/goalflow-backend/internal/platform/dbctx"
	"github.com/yungbote/goalflow-backend/internal/platform/logger"
)

type Dashboard struct {
	WeeklyGoals    []*types.WeeklyGoalWithPlan `json:"weekly_goals"`
	ActivePlans    []*types.PlanWithGoal       `json:"active_plans"`
	RecentRecords  []*types.RecordView         `json:"recent_records"`
	WeeklyProgress []types.WeeklyProgress      `json:"weekly_progress"`
}

type DashboardService interface {
	Load(dbc dbctx.Context) (*Dashboard, error)
}

type dashboardService struct {
	log     *logger.Logger
	weekly  WeeklyGoalService
	plans   PlanService
	records RecordService
	reviews ReviewService
}

func NewDashboardService(log *logger.Logger, weekly WeeklyGoalService, plans PlanService, records RecordService, reviews ReviewService) DashboardService {
	return &dashboardService{
		log:     log.With("service", "DashboardService"),
		weekly:  weekly,
		plans:   plans,
		records: records,
		reviews: reviews,
	}
}

// Load reads the four dashboard panels concurrently. The first failure
// cancels the rest.
func (s *dashboardService) Load(dbc dbctx.Context) (*Dashboard, error) {
	if _, err := requireOwner(dbc.Ctx); err != nil {
		return nil, err
	}
	g, ctx := errgroup.WithContext(dbc.Ctx)
	sub := dbctx.Context{Ctx: ctx}
	var out Dashboard
	g.Go(func() (err error) {
		out.WeeklyGoals, err = s.weekly.CurrentWeek(sub)
		return err
	})
	g.Go(func() (err error) {
		out.ActivePlans, err = s.plans.ListActive(sub)
		return err
	})
	g.Go(func() (err error) {
		out.RecentRecords, err = s.records.Recent(sub, 0, 0)
		return err
	})
	g.Go(func() (err error) {
		out.WeeklyProgress, err = s.reviews.WeeklyProgress(sub, "")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}
