package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/goalflow-backend/internal/data/repos"
	"github.com/yungbote/goalflow-backend/internal/platform/logger"
)

type Repos struct {
	Goal             repos.GoalRepo
	Plan             repos.PlanRepo
	PlanHistory      repos.PlanHistoryRepo
	GoalLog          repos.GoalLogRepo
	GoalWeeklyTarget repos.GoalWeeklyTargetRepo
	GoalReview       repos.GoalReviewRepo
	WeeklyGoal       repos.WeeklyGoalRepo
	Record           repos.RecordRepo
	WeeklyReview     repos.WeeklyReviewRepo
	WeeklyTarget     repos.WeeklyTargetRepo
	Profile          repos.ProfileRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Goal:             repos.NewGoalRepo(db, log),
		Plan:             repos.NewPlanRepo(db, log),
		PlanHistory:      repos.NewPlanHistoryRepo(db, log),
		GoalLog:          repos.NewGoalLogRepo(db, log),
		GoalWeeklyTarget: repos.NewGoalWeeklyTargetRepo(db, log),
		GoalReview:       repos.NewGoalReviewRepo(db, log),
		WeeklyGoal:       repos.NewWeeklyGoalRepo(db, log),
		Record:           repos.NewRecordRepo(db, log),
		WeeklyReview:     repos.NewWeeklyReviewRepo(db, log),
		WeeklyTarget:     repos.NewWeeklyTargetRepo(db, log),
		Profile:          repos.NewProfileRepo(db, log),
	}
}
