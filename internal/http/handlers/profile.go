package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/goalflow-backend/internal/http/response"
	"github.com/yungbote/goalflow-backend/internal/services"
)

type ProfileHandler struct {
	profiles  services.ProfileService
	dashboard services.DashboardService
}

func NewProfileHandler(profiles services.ProfileService, dashboard services.DashboardService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, dashboard: dashboard}
}

// GET /api/profile
func (h *ProfileHandler) Get(c *gin.Context) {
	p, err := h.profiles.Get(dbcOf(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"profile": p})
}

// PUT /api/profile
func (h *ProfileHandler) Update(c *gin.Context) {
	var req services.UpdateProfileInput
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.profiles.UpdateProfile(dbcOf(c), req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"profile": p})
}

// GET /api/settings
func (h *ProfileHandler) GetSettings(c *gin.Context) {
	s, err := h.profiles.GetSettings(dbcOf(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"settings": s})
}

// PUT /api/settings
func (h *ProfileHandler) UpdateSettings(c *gin.Context) {
	var req services.UpdateSettingsInput
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.profiles.UpdateSettings(dbcOf(c), req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"settings": s})
}

// GET /api/dashboard
func (h *ProfileHandler) Dashboard(c *gin.Context) {
	d, err := h.dashboard.Load(dbcOf(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, d)
}
