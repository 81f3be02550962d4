package goals

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	LogTypeNote      = "note"
	LogTypeMilestone = "milestone"
	LogTypeIssue     = "issue"
	LogTypeDecision  = "decision"
)

type GoalLog struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	GoalID  uuid.UUID `gorm:"type:uuid;not null;index" json:"goal_id"`
	Content string    `gorm:"column:content;not null" json:"content"`
	LogType string    `gorm:"column:log_type;not null;default:'note'" json:"log_type"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (GoalLog) TableName() string { return "goal_logs" }

func (l *GoalLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.LogType == "" {
		l.LogType = LogTypeNote
	}
	return nil
}

func ValidLogType(s string) bool {
	switch s {
	case LogTypeNote, LogTypeMilestone, LogTypeIssue, LogTypeDecision:
		return true
	}
	return false
}

const (
	TargetStatusPending    = "pending"
	TargetStatusInProgress = "in_progress"
	TargetStatusCompleted  = "completed"
	TargetStatusMissed     = "missed"
)

// GoalWeeklyTarget is the free-text weekly target attached directly to a goal.
// Numeric weekly targets live on WeeklyGoal.
type GoalWeeklyTarget struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	GoalID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"goal_id"`
	WeekStart     datatypes.Date  `gorm:"column:week_start;not null" json:"week_start"`
	Target        string          `gorm:"column:target;not null" json:"target"`
	Status        string          `gorm:"column:status;not null;default:'pending'" json:"status"`
	CompletedDate *datatypes.Date `gorm:"column:completed_date" json:"completed_date"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (GoalWeeklyTarget) TableName() string { return "goal_weekly_targets" }

func (t *GoalWeeklyTarget) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Status == "" {
		t.Status = TargetStatusPending
	}
	return nil
}

func ValidTargetStatus(s string) bool {
	switch s {
	case TargetStatusPending, TargetStatusInProgress, TargetStatusCompleted, TargetStatusMissed:
		return true
	}
	return false
}

type GoalReview struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	GoalID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"goal_id"`
	ReviewDate    datatypes.Date `gorm:"column:review_date;not null" json:"review_date"`
	WhatWentWell  *string        `gorm:"column:what_went_well" json:"what_went_well"`
	WhatToImprove *string        `gorm:"column:what_to_improve" json:"what_to_improve"`
	NextActions   *string        `gorm:"column:next_actions" json:"next_actions"`
	Rating        *int           `gorm:"column:rating" json:"rating"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (GoalReview) TableName() string { return "goal_reviews" }

func (r *GoalReview) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
