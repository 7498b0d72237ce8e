package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusnet/internal/app/models/dto"
	"github.com/yigit/campusnet/internal/app/services"
	"github.com/yigit/campusnet/internal/middleware"
)

// CollegeController handles college lookup and follow management
type CollegeController struct {
	collegeService services.CollegeService
	followService  services.FollowService
}

// NewCollegeController creates a new CollegeController
func NewCollegeController(collegeService services.CollegeService, followService services.FollowService) *CollegeController {
	return &CollegeController{
		collegeService: collegeService,
		followService:  followService,
	}
}

// Autocomplete suggests colleges by name
// @Summary Autocomplete college names
// @Tags colleges
// @Produce json
// @Param q query string false "Search term"
// @Success 200 {object} dto.APIResponse{data=[]dto.CollegeResponse}
// @Router /colleges/autocomplete [get]
func (c *CollegeController) Autocomplete(ctx *gin.Context) {
	colleges, err := c.collegeService.Autocomplete(ctx.Request.Context(), ctx.Query("q"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(colleges))
}

// States suggests state names by prefix
// @Summary Autocomplete state names
// @Tags colleges
// @Produce json
// @Param q query string false "Prefix"
// @Success 200 {object} dto.APIResponse{data=[]string}
// @Router /colleges/states [get]
func (c *CollegeController) States(ctx *gin.Context) {
	states, err := c.collegeService.States(ctx.Request.Context(), ctx.Query("q"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(states))
}

// Suggested returns random colleges the requester does not follow yet
// @Summary Suggested colleges
// @Tags colleges
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.CollegeResponse}
// @Router /colleges/suggested [get]
func (c *CollegeController) Suggested(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	colleges, err := c.collegeService.Suggested(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(colleges))
}

// CollegePosts shows one college's page
// @Summary Posts of a college
// @Tags colleges
// @Produce json
// @Security BearerAuth
// @Param name path string true "College name"
// @Success 200 {object} dto.APIResponse{data=dto.CollegePostsResponse}
// @Failure 404 {object} dto.ErrorResponse "College not found"
// @Router /colleges/{name}/posts [get]
func (c *CollegeController) CollegePosts(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	page, err := c.collegeService.CollegePosts(ctx.Request.Context(), userID, ctx.Param("name"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(page))
}

// Following lists the requester's explicit follows
// @Summary Followed colleges
// @Tags colleges
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.FollowingResponse}
// @Router /following [get]
func (c *CollegeController) Following(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	following, err := c.followService.Following(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(following))
}

// ToggleFollow follows or unfollows a college
// @Summary Follow or unfollow a college
// @Description Idempotent. Following twice stays followed, unfollowing a college that is not followed is a no-op.
// @Tags colleges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.FollowRequest true "College and action"
// @Success 200 {object} dto.APIResponse{data=dto.FollowResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid action"
// @Failure 404 {object} dto.ErrorResponse "College not found"
// @Router /colleges/follow [post]
func (c *CollegeController) ToggleFollow(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req dto.FollowRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.followService.ToggleFollow(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
