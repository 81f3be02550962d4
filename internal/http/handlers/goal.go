package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/goalflow-backend/internal/http/response"
	"github.com/yungbote/goalflow-backend/internal/services"
)

type GoalHandler struct {
	goals services.GoalService
}

func NewGoalHandler(goals services.GoalService) *GoalHandler {
	return &GoalHandler{goals: goals}
}

// GET /api/goals
func (h *GoalHandler) List(c *gin.Context) {
	goals, err := h.goals.List(dbcOf(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"goals": goals})
}

// GET /api/goals/tree
func (h *GoalHandler) Tree(c *gin.Context) {
	roots, err := h.goals.Tree(dbcOf(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"roots": roots})
}

// GET /api/goals/:id
func (h *GoalHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	g, err := h.goals.Get(dbcOf(c), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"goal": g})
}

// POST /api/goals
func (h *GoalHandler) Create(c *gin.Context) {
	var req services.CreateGoalInput
	if !bindJSON(c, &req) {
		return
	}
	g, err := h.goals.Create(dbcOf(c), req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"goal": g})
}

// PATCH /api/goals/:id
func (h *GoalHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.UpdateGoalInput
	if !bindJSON(c, &req) {
		return
	}
	g, err := h.goals.Update(dbcOf(c), id, req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"goal": g})
}

// DELETE /api/goals/:id
// Removes the goal, its whole subtree and everything hanging off it.
func (h *GoalHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.goals.Delete(dbcOf(c), id); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// POST /api/goals/:id/move
// body: { "target_id": "...", "zone": "before|after|inside" } or
// { "target_id": "...", "offset_y": 12.5, "row_height": 40 }
func (h *GoalHandler) Move(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.MoveGoalInput
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.goals.Move(dbcOf(c), id, req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, res)
}

// POST /api/goals/:id/move-root
func (h *GoalHandler) MoveToRoot(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	res, err := h.goals.MoveToRoot(dbcOf(c), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, res)
}

// POST /api/goals/renormalize
// body: { "parent_id": null | "..." }
func (h *GoalHandler) Renormalize(c *gin.Context) {
	var req struct {
		ParentID *uuid.UUID `json:"parent_id"`
	}
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	moves, err := h.goals.Renormalize(dbcOf(c), req.ParentID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"moves": moves})
}
