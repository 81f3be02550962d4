package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/goalflow-backend/internal/http/response"
	"github.com/yungbote/goalflow-backend/internal/services"
)

type PlanHandler struct {
	plans  services.PlanService
	weekly services.WeeklyGoalService
}

func NewPlanHandler(plans services.PlanService, weekly services.WeeklyGoalService) *PlanHandler {
	return &PlanHandler{plans: plans, weekly: weekly}
}

// GET /api/goals/:id/plans
func (h *PlanHandler) ListByGoal(c *gin.Context) {
	goalID, ok := pathID(c, "id")
	if !ok {
		return
	}
	plans, err := h.plans.ListByGoal(dbcOf(c), goalID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"plans": plans})
}

// POST /api/goals/:id/plans
func (h *PlanHandler) Create(c *gin.Context) {
	goalID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.CreatePlanInput
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.plans.Create(dbcOf(c), goalID, req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"plan": p})
}

// GET /api/plans/active
func (h *PlanHandler) ListActive(c *gin.Context) {
	plans, err := h.plans.ListActive(dbcOf(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"plans": plans})
}

// PATCH /api/plans/:id
func (h *PlanHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.UpdatePlanInput
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.plans.Update(dbcOf(c), id, req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"plan": p})
}

// DELETE /api/plans/:id
func (h *PlanHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.plans.Delete(dbcOf(c), id); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// GET /api/plans/:id/history
func (h *PlanHandler) History(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rows, err := h.plans.History(dbcOf(c), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"history": rows})
}

// GET /api/plans/:id/weekly-goals
func (h *PlanHandler) WeeklyGoals(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rows, err := h.weekly.ListByPlan(dbcOf(c), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"weekly_goals": rows})
}
