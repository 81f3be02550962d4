package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/goalflow-backend/internal/platform/logger"
	"github.com/yungbote/goalflow-backend/internal/realtime"
	"github.com/yungbote/goalflow-backend/internal/services"
	"github.com/yungbote/goalflow-backend/internal/week"
)

type Services struct {
	Auth             services.AuthService
	Goal             services.GoalService
	Plan             services.PlanService
	GoalLog          services.GoalLogService
	GoalWeeklyTarget services.GoalWeeklyTargetService
	GoalReview       services.GoalReviewService
	WeeklyGoal       services.WeeklyGoalService
	Record           services.RecordService
	Review           services.ReviewService
	Profile          services.ProfileService
	Dashboard        services.DashboardService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, notifier realtime.Notifier) (Services, error) {
	log.Info("Wiring services...")
	devUser, err := cfg.devUser()
	if err != nil {
		return Services{}, err
	}
	cal := services.NewCalendar(week.Location(cfg.AppTimezone))

	var s Services
	s.Auth = services.NewAuthService(log, cfg.JWTSecretKey, devUser)
	s.Goal = services.NewGoalService(db, log, services.GoalServiceDeps{
		Goals:         r.Goal,
		Plans:         r.Plan,
		PlanHistory:   r.PlanHistory,
		WeeklyGoals:   r.WeeklyGoal,
		Records:       r.Record,
		GoalLogs:      r.GoalLog,
		GoalTargets:   r.GoalWeeklyTarget,
		GoalReviews:   r.GoalReview,
		WeeklyTargets: r.WeeklyTarget,
		Notifier:      notifier,
	})
	s.Plan = services.NewPlanService(db, log, r.Goal, r.Plan, r.PlanHistory, r.WeeklyGoal, r.Record, notifier)
	s.GoalLog = services.NewGoalLogService(db, log, r.Goal, r.GoalLog)
	s.GoalWeeklyTarget = services.NewGoalWeeklyTargetService(db, log, r.Goal, r.GoalWeeklyTarget)
	s.GoalReview = services.NewGoalReviewService(db, log, cal, r.Goal, r.GoalReview)
	s.WeeklyGoal = services.NewWeeklyGoalService(db, log, cal, r.Goal, r.Plan, r.WeeklyGoal, r.Record, r.Profile, notifier)
	s.Record = services.NewRecordService(db, log, cfg.RecentRecordsPageSize, r.Plan, r.PlanHistory, r.WeeklyGoal, r.Record, notifier)
	s.Review = services.NewReviewService(db, log, cal, r.Goal, r.Record, r.WeeklyReview, r.WeeklyTarget, r.Profile)
	s.Profile = services.NewProfileService(db, log, r.Profile)
	s.Dashboard = services.NewDashboardService(log, s.WeeklyGoal, s.Plan, s.Record, s.Review)
	return s, nil
}
