package tracking

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	WeeklyStatusActive    = "active"
	WeeklyStatusCompleted = "completed"
	// WeeklyStatusFailed exists in the schema; nothing transitions into it yet.
	WeeklyStatusFailed = "failed"
)

type WeeklyGoal struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	PlanID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"plan_id"`
	WeekStartDate datatypes.Date `gorm:"column:week_start_date;not null;index" json:"week_start_date"`
	TargetValue   float64        `gorm:"column:target_value;not null" json:"target_value"`
	CurrentValue  float64        `gorm:"column:current_value;not null;default:0" json:"current_value"`
	Status        string         `gorm:"column:status;not null;default:'active'" json:"status"`
	Notes         *string        `gorm:"column:notes" json:"notes"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (WeeklyGoal) TableName() string { return "weekly_goals" }

func (w *WeeklyGoal) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	if w.Status == "" {
		w.Status = WeeklyStatusActive
	}
	return nil
}

// PlanSummary is the slice of a plan shown next to its weekly goals and records.
type PlanSummary struct {
	ID          uuid.UUID `json:"id"`
	GoalID      uuid.UUID `json:"goal_id"`
	Title       string    `json:"title"`
	Unit        *string   `json:"unit"`
	TargetValue *float64  `json:"target_value"`
	GoalTitle   string    `json:"goal_title,omitempty"`
}

// WeeklyGoalWithPlan is the current-week listing row.
type WeeklyGoalWithPlan struct {
	WeeklyGoal
	Plan *PlanSummary `json:"plan,omitempty"`
}
