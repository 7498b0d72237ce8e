package controllers

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusnet/internal/app/models/dto"
	"github.com/yigit/campusnet/internal/app/services"
	"github.com/yigit/campusnet/internal/middleware"
)

const mediaFilesField = "media_files"

// FeedController serves the home feed, the community feed and post creation
type FeedController struct {
	feedService services.FeedService
	postService services.PostService
}

// NewFeedController creates a new FeedController
func NewFeedController(feedService services.FeedService, postService services.PostService) *FeedController {
	return &FeedController{
		feedService: feedService,
		postService: postService,
	}
}

// GetFeed composes the requester's home feed
// @Summary Home feed
// @Description Posts from followed colleges, newest first, then a bounded number of posts from other colleges
// @Tags feed
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.FeedResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Profile setup incomplete"
// @Router /feed [get]
func (c *FeedController) GetFeed(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	feed, err := c.feedService.ComposeFeed(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(feed))
}

// GetCommunity lists posts from the requester's own college
// @Summary Community feed
// @Tags feed
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.PostResponse}
// @Failure 403 {object} dto.ErrorResponse "Profile setup incomplete"
// @Router /community [get]
func (c *FeedController) GetCommunity(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	posts, err := c.feedService.CommunityPosts(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(posts))
}

// CreatePost publishes a post with optional media attachments
// @Summary Create a post
// @Tags feed
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param body formData string false "Post text"
// @Param media_files formData file false "Images or videos"
// @Success 201 {object} dto.APIResponse{data=dto.PostResponse}
// @Failure 400 {object} dto.ErrorResponse "Empty post or too many files"
// @Router /posts [post]
func (c *FeedController) CreatePost(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	body := ctx.PostForm("body")
	var files []*multipart.FileHeader
	if form, err := ctx.MultipartForm(); err == nil && form != nil {
		files = form.File[mediaFilesField]
	}

	post, err := c.postService.CreatePost(ctx.Request.Context(), userID, body, files)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(post))
}
