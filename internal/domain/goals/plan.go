package goals

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PlanStatusPending    = "pending"
	PlanStatusInProgress = "in_progress"
	PlanStatusCompleted  = "completed"
	PlanStatusCancelled  = "cancelled"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type Plan struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	GoalID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"goal_id"`
	Title         string          `gorm:"column:title;not null" json:"title"`
	Description   *string         `gorm:"column:description" json:"description"`
	Status        string          `gorm:"column:status;not null;default:'pending'" json:"status"`
	Priority      string          `gorm:"column:priority;not null;default:'medium'" json:"priority"`
	DueDate       *datatypes.Date `gorm:"column:due_date" json:"due_date"`
	CompletedDate *datatypes.Date `gorm:"column:completed_date" json:"completed_date"`
	TargetValue   *float64        `gorm:"column:target_value" json:"target_value"`
	CurrentValue  *float64        `gorm:"column:current_value" json:"current_value"`
	Unit          *string         `gorm:"column:unit" json:"unit"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Plan) TableName() string { return "plans" }

func (p *Plan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = PlanStatusPending
	}
	if p.Priority == "" {
		p.Priority = PriorityMedium
	}
	return nil
}

func ValidPlanStatus(s string) bool {
	switch s {
	case PlanStatusPending, PlanStatusInProgress, PlanStatusCompleted, PlanStatusCancelled:
		return true
	}
	return false
}

func ValidPriority(s string) bool {
	switch s {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// PlanWithGoal is a plan joined with the goal it belongs to.
type PlanWithGoal struct {
	Plan
	Goal *GoalRef `json:"goal,omitempty"`
}

type GoalRef struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

const (
	HistoryCreated  = "created"
	HistoryUpdated  = "updated"
	HistoryProgress = "progress"
)

// PlanHistory rows are append-only.
type PlanHistory struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	PlanID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"plan_id"`
	ChangedBy  *uuid.UUID `gorm:"type:uuid" json:"changed_by"`
	ChangeType string     `gorm:"column:change_type;not null" json:"change_type"`
	FieldName  *string    `gorm:"column:field_name" json:"field_name"`
	OldValue   *string    `gorm:"column:old_value" json:"old_value"`
	NewValue   *string    `gorm:"column:new_value" json:"new_value"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (PlanHistory) TableName() string { return "plan_history" }

func (h *PlanHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
