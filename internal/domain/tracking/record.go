package tracking

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Record struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	PerformedAt  time.Time  `gorm:"column:performed_at;not null;index" json:"performed_at"`
	Quantity     float64    `gorm:"column:quantity;not null" json:"quantity"`
	Unit         string     `gorm:"column:unit;not null" json:"unit"`
	Memo         *string    `gorm:"column:memo" json:"memo"`
	GoalID       *uuid.UUID `gorm:"type:uuid;index" json:"goal_id"`
	PlanID       *uuid.UUID `gorm:"type:uuid;index" json:"plan_id"`
	WeeklyGoalID *uuid.UUID `gorm:"type:uuid;index" json:"weekly_goal_id"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Record) TableName() string { return "records" }

func (r *Record) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RecordKind tags which join produced a RecordView.
type RecordKind string

const (
	RecordStandalone     RecordKind = "standalone"
	RecordWithPlan       RecordKind = "plan"
	RecordWithWeeklyGoal RecordKind = "weekly_goal"
)

// RecordView is a record plus whatever it is attributed to. Plan is set for
// both RecordWithPlan and RecordWithWeeklyGoal (the weekly goal's plan);
// WeeklyGoal only for RecordWithWeeklyGoal.
type RecordView struct {
	Record
	Kind       RecordKind   `json:"kind"`
	Plan       *PlanSummary `json:"plan,omitempty"`
	WeeklyGoal *WeeklyGoal  `json:"weekly_goal,omitempty"`
	// Display is the quantity as shown in the recent list, e.g. "1h 30m".
	Display    string       `json:"display"`
}
