package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/campusnet/internal/app/models/dto"
	"github.com/yigit/campusnet/internal/app/services"
	"github.com/yigit/campusnet/internal/middleware"
)

// maxWebhookBody caps a single webhook delivery
const maxWebhookBody = 1 << 20

// InstagramController links Instagram accounts and receives media webhooks
type InstagramController struct {
	mirrorService services.MirrorService
	logger        zerolog.Logger
}

// NewInstagramController creates a new InstagramController
func NewInstagramController(mirrorService services.MirrorService, logger zerolog.Logger) *InstagramController {
	return &InstagramController{
		mirrorService: mirrorService,
		logger:        logger,
	}
}

// Connect redirects the requester to the Instagram authorization page
// @Summary Link an Instagram account
// @Tags instagram
// @Security BearerAuth
// @Success 302 "Redirect to the provider"
// @Router /instagram/connect [get]
func (c *InstagramController) Connect(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	target, err := c.mirrorService.ConnectURL(userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Redirect(http.StatusFound, target)
}

// Callback completes the authorization started by Connect
// @Summary Instagram OAuth callback
// @Tags instagram
// @Produce json
// @Param code query string true "Authorization code"
// @Param state query string true "State issued by connect"
// @Success 200 {object} dto.APIResponse{data=models.SocialCredential}
// @Failure 401 {object} dto.ErrorResponse "Invalid or expired state"
// @Failure 502 {object} dto.ErrorResponse "Provider error"
// @Router /instagram/callback [get]
func (c *InstagramController) Callback(ctx *gin.Context) {
	cred, err := c.mirrorService.Callback(ctx.Request.Context(), ctx.Query("state"), ctx.Query("code"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(cred))
}

// VerifyWebhook answers the subscription handshake
// @Summary Webhook verification
// @Tags instagram
// @Produce plain
// @Param hub.mode query string true "subscribe"
// @Param hub.verify_token query string true "Configured verify token"
// @Param hub.challenge query string true "Challenge to echo"
// @Success 200 {string} string "The challenge"
// @Failure 403 {string} string "Verification failed"
// @Router /instagram/webhook [get]
func (c *InstagramController) VerifyWebhook(ctx *gin.Context) {
	if !c.mirrorService.VerifySubscription(ctx.Query("hub.mode"), ctx.Query("hub.verify_token")) {
		c.logger.Warn().Str("mode", ctx.Query("hub.mode")).Msg("Webhook verification rejected")
		ctx.String(http.StatusForbidden, "Verification failed")
		return
	}
	ctx.String(http.StatusOK, ctx.Query("hub.challenge"))
}

// ReceiveWebhook mirrors newly published media
// @Summary Webhook delivery
// @Tags instagram
// @Accept json
// @Produce plain
// @Success 200 {string} string "EVENT_RECEIVED"
// @Failure 400 {object} dto.ErrorResponse "Invalid payload"
// @Failure 403 {object} dto.ErrorResponse "Admin account not linked"
// @Router /instagram/webhook [post]
func (c *InstagramController) ReceiveWebhook(ctx *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxWebhookBody))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeBadRequest, "Failed to read request body")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	result, err := c.mirrorService.HandleWebhook(ctx.Request.Context(), body)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int("created", result.Created).Int("failed", result.Failed).Msg("Webhook processed")
	ctx.String(http.StatusOK, "EVENT_RECEIVED")
}
