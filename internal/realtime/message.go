package realtime

import "github.com/google/uuid"

type SSEEvent string

const (
	SSEEventRecordCreated     SSEEvent = "RecordCreated"
	SSEEventRecordUpdated     SSEEvent = "RecordUpdated"
	SSEEventRecordDeleted     SSEEvent = "RecordDeleted"
	SSEEventWeeklyGoalChanged SSEEvent = "WeeklyGoalChanged"
	SSEEventPlanChanged       SSEEvent = "PlanChanged"
	SSEEventGoalTreeChanged   SSEEvent = "GoalTreeChanged"
)

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}

// UserChannel is the channel every stream of a user subscribes to.
func UserChannel(userID uuid.UUID) string {
	return "user:" + userID.String()
}
