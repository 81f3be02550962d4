package goals

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	GoalStatusActive    = "active"
	GoalStatusCompleted = "completed"
	GoalStatusArchived  = "archived"
)

// CustomGoalTitle names the synthetic root that holds planless weekly goals.
const CustomGoalTitle = "Custom goals"

type Goal struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	ParentID      *uuid.UUID      `gorm:"type:uuid;index" json:"parent_id"`
	Title         string          `gorm:"column:title;not null" json:"title"`
	Description   *string         `gorm:"column:description" json:"description"`
	Status        string          `gorm:"column:status;not null;default:'active'" json:"status"`
	Progress      float64         `gorm:"column:progress;not null;default:0" json:"progress"`
	StartDate     *datatypes.Date `gorm:"column:start_date" json:"start_date"`
	TargetDate    *datatypes.Date `gorm:"column:target_date" json:"target_date"`
	CompletedDate *datatypes.Date `gorm:"column:completed_date" json:"completed_date"`
	DisplayOrder  float64         `gorm:"column:display_order;not null;default:0" json:"display_order"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Goal) TableName() string { return "goals" }

func (g *Goal) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	if g.Status == "" {
		g.Status = GoalStatusActive
	}
	return nil
}

func ValidGoalStatus(s string) bool {
	switch s {
	case GoalStatusActive, GoalStatusCompleted, GoalStatusArchived:
		return true
	}
	return false
}
