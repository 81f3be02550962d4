package tracking

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type WeeklyReview struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_weekly_review_user_week" json:"user_id"`
	WeekStartDate datatypes.Date `gorm:"column:week_start_date;not null;uniqueIndex:idx_weekly_review_user_week" json:"week_start_date"`
	Summary       *string        `gorm:"column:summary" json:"summary"`
	Learnings     *string        `gorm:"column:learnings" json:"learnings"`
	Problems      *string        `gorm:"column:problems" json:"problems"`
	Improvements  *string        `gorm:"column:improvements" json:"improvements"`
	SelfRating    *int           `gorm:"column:self_rating" json:"self_rating"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (WeeklyReview) TableName() string { return "weekly_reviews" }

func (r *WeeklyReview) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// WeeklyTarget is a metric target set from the weekly review wizard.
type WeeklyTarget struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	WeekStartDate datatypes.Date `gorm:"column:week_start_date;not null;index" json:"week_start_date"`
	MetricName    string         `gorm:"column:metric_name;not null" json:"metric_name"`
	TargetValue   float64        `gorm:"column:target_value;not null" json:"target_value"`
	Unit          string         `gorm:"column:unit;not null" json:"unit"`
	GoalID        *uuid.UUID     `gorm:"type:uuid;index" json:"goal_id"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (WeeklyTarget) TableName() string { return "weekly_targets" }

func (t *WeeklyTarget) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// WeeklyProgress is one row of the weekly progress report.
type WeeklyProgress struct {
	MetricName      string  `json:"metric_name"`
	TargetValue     float64 `json:"target_value"`
	ActualValue     float64 `json:"actual_value"`
	Unit            string  `json:"unit"`
	AchievementRate float64 `json:"achievement_rate"`
}
