package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/goalflow-backend/internal/http/response"
	"github.com/yungbote/goalflow-backend/internal/services"
)

type RecordHandler struct {
	records services.RecordService
}

func NewRecordHandler(records services.RecordService) *RecordHandler {
	return &RecordHandler{records: records}
}

// GET /api/records?limit=5&offset=0
func (h *RecordHandler) List(c *gin.Context) {
	rows, err := h.records.Recent(dbcOf(c), queryInt(c, "limit"), queryInt(c, "offset"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"records": rows})
}

// POST /api/records
func (h *RecordHandler) Create(c *gin.Context) {
	var req services.CreateRecordInput
	if !bindJSON(c, &req) {
		return
	}
	row, err := h.records.Create(dbcOf(c), req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"record": row})
}

// PATCH /api/records/:id
// Links only change when set_plan / set_weekly_goal is true, so that a null
// id can detach the record.
func (h *RecordHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.UpdateRecordInput
	if !bindJSON(c, &req) {
		return
	}
	row, err := h.records.Update(dbcOf(c), id, req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"record": row})
}

// DELETE /api/records/:id
func (h *RecordHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.records.Delete(dbcOf(c), id); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
