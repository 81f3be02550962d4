package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/goalflow-backend/internal/http/response"
	"github.com/yungbote/goalflow-backend/internal/services"
)

// ReviewHandler backs the weekly review wizard. Weeks are addressed by their
// start date (YYYY-MM-DD); an empty week means the current one.
type ReviewHandler struct {
	reviews services.ReviewService
}

func NewReviewHandler(reviews services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// GET /api/weekly-progress?week=2024-01-08
func (h *ReviewHandler) WeeklyProgress(c *gin.Context) {
	rows, err := h.reviews.WeeklyProgress(dbcOf(c), c.Query("week"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"progress": rows})
}

// GET /api/weekly-targets?week=2024-01-08
func (h *ReviewHandler) ListTargets(c *gin.Context) {
	rows, err := h.reviews.ListTargets(dbcOf(c), c.Query("week"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"targets": rows})
}

// GET /api/weekly-reviews/:week
func (h *ReviewHandler) Get(c *gin.Context) {
	row, err := h.reviews.GetReview(dbcOf(c), c.Param("week"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"review": row})
}

// GET /api/weekly-reviews/:week/previous
func (h *ReviewHandler) Previous(c *gin.Context) {
	row, err := h.reviews.PreviousReview(dbcOf(c), c.Param("week"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"review": row})
}

// POST /api/weekly-reviews
func (h *ReviewHandler) Save(c *gin.Context) {
	var req services.SaveReviewInput
	if !bindJSON(c, &req) {
		return
	}
	saved, err := h.reviews.SaveReview(dbcOf(c), req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, saved)
}
