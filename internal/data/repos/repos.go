package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/goalflow-backend/internal/data/repos/goals"
	"github.com/yungbote/goalflow-backend/internal/data/repos/tracking"
	"github.com/yungbote/goalflow-backend/internal/data/repos/user"
	"github.com/yungbote/goalflow-backend/internal/platform/logger"
)

type GoalRepo = goals.GoalRepo
type PlanRepo = goals.PlanRepo
type PlanHistoryRepo = goals.PlanHistoryRepo
type GoalLogRepo = goals.GoalLogRepo
type GoalWeeklyTargetRepo = goals.GoalWeeklyTargetRepo
type GoalReviewRepo = goals.GoalReviewRepo

type WeeklyGoalRepo = tracking.WeeklyGoalRepo
type RecordRepo = tracking.RecordRepo
type WeeklyReviewRepo = tracking.WeeklyReviewRepo
type WeeklyTargetRepo = tracking.WeeklyTargetRepo

type ProfileRepo = user.ProfileRepo

func NewGoalRepo(db *gorm.DB, baseLog *logger.Logger) GoalRepo { return goals.NewGoalRepo(db, baseLog) }
func NewPlanRepo(db *gorm.DB, baseLog *logger.Logger) PlanRepo { return goals.NewPlanRepo(db, baseLog) }
func NewPlanHistoryRepo(db *gorm.DB, baseLog *logger.Logger) PlanHistoryRepo {
	return goals.NewPlanHistoryRepo(db, baseLog)
}
func NewGoalLogRepo(db *gorm.DB, baseLog *logger.Logger) GoalLogRepo {
	return goals.NewGoalLogRepo(db, baseLog)
}
func NewGoalWeeklyTargetRepo(db *gorm.DB, baseLog *logger.Logger) GoalWeeklyTargetRepo {
	return goals.NewGoalWeeklyTargetRepo(db, baseLog)
}
func NewGoalReviewRepo(db *gorm.DB, baseLog *logger.Logger) GoalReviewRepo {
	return goals.NewGoalReviewRepo(db, baseLog)
}

func NewWeeklyGoalRepo(db *gorm.DB, baseLog *logger.Logger) WeeklyGoalRepo {
	return tracking.NewWeeklyGoalRepo(db, baseLog)
}
func NewRecordRepo(db *gorm.DB, baseLog *logger.Logger) RecordRepo {
	return tracking.NewRecordRepo(db, baseLog)
}
func NewWeeklyReviewRepo(db *gorm.DB, baseLog *logger.Logger) WeeklyReviewRepo {
	return tracking.NewWeeklyReviewRepo(db, baseLog)
}
func NewWeeklyTargetRepo(db *gorm.DB, baseLog *logger.Logger) WeeklyTargetRepo {
	return tracking.NewWeeklyTargetRepo(db, baseLog)
}

func NewProfileRepo(db *gorm.DB, baseLog *logger.Logger) ProfileRepo {
	return user.NewProfileRepo(db, baseLog)
}
