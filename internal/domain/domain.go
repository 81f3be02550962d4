package domain

import (
	"github.com/yungbote/goalflow-backend/internal/domain/goals"
	"github.com/yungbote/goalflow-backend/internal/domain/tracking"
	"github.com/yungbote/goalflow-backend/internal/domain/user"
)

type (
	Goal             = goals.Goal
	Plan             = goals.Plan
	PlanWithGoal     = goals.PlanWithGoal
	GoalRef          = goals.GoalRef
	PlanHistory      = goals.PlanHistory
	GoalLog          = goals.GoalLog
	GoalWeeklyTarget = goals.GoalWeeklyTarget
	GoalReview       = goals.GoalReview

	WeeklyGoal         = tracking.WeeklyGoal
	WeeklyGoalWithPlan = tracking.WeeklyGoalWithPlan
	PlanSummary        = tracking.PlanSummary
	Record             = tracking.Record
	RecordKind         = tracking.RecordKind
	RecordView         = tracking.RecordView
	WeeklyReview       = tracking.WeeklyReview
	WeeklyTarget       = tracking.WeeklyTarget
	WeeklyProgress     = tracking.WeeklyProgress

	Profile = user.Profile
)

const (
	GoalStatusActive    = goals.GoalStatusActive
	GoalStatusCompleted = goals.GoalStatusCompleted
	GoalStatusArchived  = goals.GoalStatusArchived
	CustomGoalTitle     = goals.CustomGoalTitle

	PlanStatusPending    = goals.PlanStatusPending
	PlanStatusInProgress = goals.PlanStatusInProgress
	PlanStatusCompleted  = goals.PlanStatusCompleted
	PlanStatusCancelled  = goals.PlanStatusCancelled

	PlanPriorityLow    = goals.PriorityLow
	PlanPriorityMedium = goals.PriorityMedium
	PlanPriorityHigh   = goals.PriorityHigh

	LogTypeNote      = goals.LogTypeNote
	LogTypeMilestone = goals.LogTypeMilestone
	LogTypeIssue     = goals.LogTypeIssue
	LogTypeDecision  = goals.LogTypeDecision

	TargetStatusPending    = goals.TargetStatusPending
	TargetStatusInProgress = goals.TargetStatusInProgress
	TargetStatusCompleted  = goals.TargetStatusCompleted
	TargetStatusMissed     = goals.TargetStatusMissed

	HistoryCreated  = goals.HistoryCreated
	HistoryUpdated  = goals.HistoryUpdated
	HistoryProgress = goals.HistoryProgress

	WeeklyStatusActive    = tracking.WeeklyStatusActive
	WeeklyStatusCompleted = tracking.WeeklyStatusCompleted
	WeeklyStatusFailed    = tracking.WeeklyStatusFailed

	RecordStandalone     = tracking.RecordStandalone
	RecordWithPlan       = tracking.RecordWithPlan
	RecordWithWeeklyGoal = tracking.RecordWithWeeklyGoal

	WeekStartMonday = user.WeekStartMonday
	WeekStartSunday = user.WeekStartSunday

	DefaultThemeColor = user.DefaultThemeColor
)

var (
	ValidGoalStatus   = goals.ValidGoalStatus
	ValidPlanStatus   = goals.ValidPlanStatus
	ValidPriority     = goals.ValidPriority
	ValidLogType      = goals.ValidLogType
	ValidTargetStatus = goals.ValidTargetStatus
	ValidWeekStartDay = user.ValidWeekStartDay
	ValidThemeColor   = user.ValidThemeColor
	DefaultProfile    = user.DefaultProfile
)

// AllModels lists every table in migration order.
func AllModels() []any {
	return []any{
		&goals.Goal{},
		&goals.Plan{},
		&goals.PlanHistory{},
		&goals.GoalLog{},
		&goals.GoalWeeklyTarget{},
		&goals.GoalReview{},
		&tracking.WeeklyGoal{},
		&tracking.Record{},
		&tracking.WeeklyReview{},
		&tracking.WeeklyTarget{},
		&user.Profile{},
	}
}
