package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"phongtro/internal/models/request_models"
	"phongtro/internal/services"
	"phongtro/pkg/utils"
)

type PostController struct {
	postService services.PostServiceInterface
}

func NewPostController(postService services.PostServiceInterface) *PostController {
	return &PostController{
		postService: postService,
	}
}

func currentAccountID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetString("user_id")
	if raw == "" {
		utils.RespondError(c, http.StatusBadRequest, "user_id is required")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "user_id is invalid")
		return uuid.Nil, false
	}
	return id, true
}

func pathPostID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "post id is invalid")
		return uuid.Nil, false
	}
	return id, true
}

// CreatePost godoc
// @Summary Create a listing
// @Description Create a listing on the chosen tier; VIP tiers are charged from the wallet and auto-approved
// @Tags Posts
// @Accept json
// @Produce json
// @Param request body request_models.CreatePostRequest true "Create post payload"
// @Success 200 {object} utils.APIResponse
// @Failure 402 {object} utils.APIResponse
// @Security BearerAuth
// @Router /posts [post]
func (p *PostController) CreatePost(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	var req request_models.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	post, err := p.postService.CreatePost(c.Request.Context(), accountID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, post, "Post created successfully")
}

// ListPosts godoc
// @Summary List approved listings
// @Description Approved listings ordered by featured tier priority
// @Tags Posts
// @Produce json
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} utils.APIResponse
// @Router /posts [get]
func (p *PostController) ListPosts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	posts, err := p.postService.ListApprovedPosts(c.Request.Context(), page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, posts, "")
}

func (p *PostController) GetPost(c *gin.Context) {
	id, ok := pathPostID(c)
	if !ok {
		return
	}

	post, err := p.postService.GetPost(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, post, "")
}

func (p *PostController) ListMyPosts(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	posts, err := p.postService.ListMyPosts(c.Request.Context(), accountID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, posts, "")
}

// ListPlans godoc
// @Summary List featured tiers and prices
// @Tags Plans
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /plans [get]
func (p *PostController) ListPlans(c *gin.Context) {
	utils.RespondSuccess(c, p.postService.ListPlans(), "")
}

// PreviewCost godoc
// @Summary Preview the cost of a featured plan
// @Tags Plans
// @Produce json
// @Param tier query string true "Tier"
// @Param days query int true "Duration in days"
// @Success 200 {object} utils.APIResponse
// @Router /posts/cost-preview [get]
func (p *PostController) PreviewCost(c *gin.Context) {
	days, err := strconv.Atoi(c.Query("days"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "days must be a number")
		return
	}

	preview, err := p.postService.PreviewCost(c.Query("tier"), days)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, preview, "")
}

// ChangePlan godoc
// @Summary Change a listing's featured plan
// @Description Charges the new tier in full and resets the featured window
// @Tags Posts
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param request body request_models.ChangePlanRequest true "Change plan payload"
// @Success 200 {object} utils.APIResponse
// @Failure 402 {object} utils.APIResponse
// @Security BearerAuth
// @Router /posts/{id}/change-plan [post]
func (p *PostController) ChangePlan(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}
	postID, ok := pathPostID(c)
	if !ok {
		return
	}

	var req request_models.ChangePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	post, err := p.postService.ChangePlan(c.Request.Context(), accountID, postID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, post, "Plan changed successfully")
}

// ExtendPlan godoc
// @Summary Extend a listing's featured window
// @Description Adds days at the current tier's rates; the window grows from its current end
// @Tags Posts
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param request body request_models.ExtendPlanRequest true "Extend payload"
// @Success 200 {object} utils.APIResponse
// @Failure 402 {object} utils.APIResponse
// @Security BearerAuth
// @Router /posts/{id}/extend [post]
func (p *PostController) ExtendPlan(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}
	postID, ok := pathPostID(c)
	if !ok {
		return
	}

	var req request_models.ExtendPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	post, err := p.postService.ExtendPlan(c.Request.Context(), accountID, postID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, post, "Plan extended successfully")
}

func (p *PostController) SetAutoRenew(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}
	postID, ok := pathPostID(c)
	if !ok {
		return
	}

	var req request_models.SetAutoRenewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	post, err := p.postService.SetAutoRenew(c.Request.Context(), accountID, postID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, post, "Auto renew updated")
}

func (p *PostController) ToggleAvailability(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}
	postID, ok := pathPostID(c)
	if !ok {
		return
	}

	post, err := p.postService.ToggleAvailability(c.Request.Context(), accountID, postID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, post, "Availability toggled")
}
