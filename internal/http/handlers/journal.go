package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/goalflow-backend/internal/http/response"
	"github.com/yungbote/goalflow-backend/internal/services"
)

// JournalHandler serves the per-goal logs, weekly targets and reviews.
type JournalHandler struct {
	logs    services.GoalLogService
	targets services.GoalWeeklyTargetService
	reviews services.GoalReviewService
}

func NewJournalHandler(logs services.GoalLogService, targets services.GoalWeeklyTargetService, reviews services.GoalReviewService) *JournalHandler {
	return &JournalHandler{logs: logs, targets: targets, reviews: reviews}
}

// GET /api/goals/:id/logs
func (h *JournalHandler) ListLogs(c *gin.Context) {
	goalID, ok := pathID(c, "id")
	if !ok {
		return
	}
	rows, err := h.logs.List(dbcOf(c), goalID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"logs": rows})
}

// POST /api/goals/:id/logs
func (h *JournalHandler) CreateLog(c *gin.Context) {
	goalID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.CreateGoalLogInput
	if !bindJSON(c, &req) {
		return
	}
	row, err := h.logs.Create(dbcOf(c), goalID, req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"log": row})
}

// GET /api/goals/:id/weekly-targets
func (h *JournalHandler) ListTargets(c *gin.Context) {
	goalID, ok := pathID(c, "id")
	if !ok {
		return
	}
	rows, err := h.targets.List(dbcOf(c), goalID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"weekly_targets": rows})
}

// POST /api/goals/:id/weekly-targets
func (h *JournalHandler) CreateTarget(c *gin.Context) {
	goalID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.CreateGoalWeeklyTargetInput
	if !bindJSON(c, &req) {
		return
	}
	row, err := h.targets.Create(dbcOf(c), goalID, req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"weekly_target": row})
}

// PATCH /api/goal-weekly-targets/:id
func (h *JournalHandler) UpdateTarget(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.UpdateGoalWeeklyTargetInput
	if !bindJSON(c, &req) {
		return
	}
	row, err := h.targets.Update(dbcOf(c), id, req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"weekly_target": row})
}

// GET /api/goals/:id/reviews
func (h *JournalHandler) ListReviews(c *gin.Context) {
	goalID, ok := pathID(c, "id")
	if !ok {
		return
	}
	rows, err := h.reviews.List(dbcOf(c), goalID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"reviews": rows})
}

// POST /api/goals/:id/reviews
func (h *JournalHandler) CreateReview(c *gin.Context) {
	goalID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.CreateGoalReviewInput
	if !bindJSON(c, &req) {
		return
	}
	row, err := h.reviews.Create(dbcOf(c), goalID, req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"review": row})
}
