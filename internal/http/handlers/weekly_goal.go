package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/goalflow-backend/internal/http/response"
	"github.com/yungbote/goalflow-backend/internal/services"
)

type WeeklyGoalHandler struct {
	weekly services.WeeklyGoalService
}

func NewWeeklyGoalHandler(weekly services.WeeklyGoalService) *WeeklyGoalHandler {
	return &WeeklyGoalHandler{weekly: weekly}
}

// GET /api/weekly-goals/current
func (h *WeeklyGoalHandler) Current(c *gin.Context) {
	rows, err := h.weekly.CurrentWeek(dbcOf(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"weekly_goals": rows})
}

// POST /api/weekly-goals
func (h *WeeklyGoalHandler) Create(c *gin.Context) {
	var req services.CreateWeeklyGoalInput
	if !bindJSON(c, &req) {
		return
	}
	row, err := h.weekly.Create(dbcOf(c), req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"weekly_goal": row})
}

// POST /api/weekly-goals/custom
// body: { "title": "...", "unit": "...", "target_value": 3 }
func (h *WeeklyGoalHandler) CreateCustom(c *gin.Context) {
	var req services.CreateCustomWeeklyGoalInput
	if !bindJSON(c, &req) {
		return
	}
	row, err := h.weekly.CreateCustom(dbcOf(c), req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"weekly_goal": row})
}

// PATCH /api/weekly-goals/:id
func (h *WeeklyGoalHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.UpdateWeeklyGoalInput
	if !bindJSON(c, &req) {
		return
	}
	row, err := h.weekly.Update(dbcOf(c), id, req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"weekly_goal": row})
}

// DELETE /api/weekly-goals/:id
func (h *WeeklyGoalHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.weekly.Delete(dbcOf(c), id); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
