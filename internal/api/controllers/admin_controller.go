package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"phongtro/internal/models/request_models"
	"phongtro/internal/services"
	"phongtro/pkg/utils"
)

type AdminController struct {
	postService  services.PostServiceInterface
	statsService services.StatsServiceInterface
	scheduler    *services.RenewalScheduler
}

func NewAdminController(
	postService services.PostServiceInterface,
	statsService services.StatsServiceInterface,
	scheduler *services.RenewalScheduler,
) *AdminController {
	return &AdminController{
		postService:  postService,
		statsService: statsService,
		scheduler:    scheduler,
	}
}

// ApprovePost godoc
// @Summary Approve a pending listing
// @Description Manual review path for free-tier listings
// @Tags Admin
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/posts/{id}/approve [post]
func (a *AdminController) ApprovePost(c *gin.Context) {
	postID, ok := pathPostID(c)
	if !ok {
		return
	}

	post, err := a.postService.AdminApprove(c.Request.Context(), postID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, post, "Post approved")
}

// RejectPost godoc
// @Summary Reject a pending listing
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param request body request_models.RejectPostRequest true "Rejection payload"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/posts/{id}/reject [post]
func (a *AdminController) RejectPost(c *gin.Context) {
	postID, ok := pathPostID(c)
	if !ok {
		return
	}

	var req request_models.RejectPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	post, err := a.postService.AdminReject(c.Request.Context(), postID, req.Reason)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, post, "Post rejected")
}

// GetStats godoc
// @Summary Revenue and approval statistics
// @Tags Admin
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/stats [get]
func (a *AdminController) GetStats(c *gin.Context) {
	stats, err := a.statsService.GetRevenueStats(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{
		"posts":    stats,
		"renewals": a.scheduler.Stats(),
	}, "")
}
