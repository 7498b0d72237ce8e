package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusnet/internal/app/controllers"
	"github.com/yigit/campusnet/internal/app/models/dto"
	"github.com/yigit/campusnet/internal/middleware"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Controllers groups the HTTP handlers mounted under /api/v1
type Controllers struct {
	Auth      *controllers.AuthController
	Profile   *controllers.ProfileController
	Feed      *controllers.FeedController
	College   *controllers.CollegeController
	Event     *controllers.EventController
	Instagram *controllers.InstagramController
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	ctrl Controllers,
	authMiddleware *middleware.AuthMiddleware,
	limiter *middleware.IPRateLimiter,
	db Pinger,
) {
	v1 := router.Group("/api/v1")
	rateLimited := middleware.RateLimit(limiter)

	v1.GET("/health", healthHandler(db))

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	auth.Use(rateLimited)
	{
		auth.POST("/register", ctrl.Auth.Register)
		auth.POST("/login", ctrl.Auth.Login)
	}

	// --- Public lookups ---
	v1.GET("/colleges/autocomplete", ctrl.College.Autocomplete)
	v1.GET("/colleges/states", ctrl.College.States)
	v1.GET("/events/categories", ctrl.Event.Categories)
	v1.GET("/events/link/:key", ctrl.Event.GetByLinkKey)

	// Provider facing, authenticated by the signed state and the verify token
	instagram := v1.Group("/instagram")
	{
		instagram.GET("/callback", ctrl.Instagram.Callback)
		instagram.GET("/webhook", ctrl.Instagram.VerifyWebhook)
		instagram.POST("/webhook", rateLimited, ctrl.Instagram.ReceiveWebhook)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		// Reachable before setup so the user can complete it
		authenticated.GET("/profile", ctrl.Profile.GetProfile)
		authenticated.PUT("/profile", rateLimited, ctrl.Profile.UpdateProfile)
		authenticated.POST("/profile/setup", rateLimited, ctrl.Profile.SetupProfile)
		authenticated.POST("/profile/icon", rateLimited, ctrl.Profile.UpdateProfileIcon)
		authenticated.GET("/instagram/connect", ctrl.Instagram.Connect)
	}

	member := authenticated.Group("")
	member.Use(authMiddleware.ProfileSetupRequired())
	{
		member.GET("/feed", ctrl.Feed.GetFeed)
		member.GET("/community", ctrl.Feed.GetCommunity)
		member.POST("/posts", rateLimited, ctrl.Feed.CreatePost)

		colleges := member.Group("/colleges")
		{
			colleges.GET("/suggested", ctrl.College.Suggested)
			colleges.GET("/:name/posts", ctrl.College.CollegePosts)
			colleges.POST("/follow", rateLimited, ctrl.College.ToggleFollow)
		}
		member.GET("/following", ctrl.College.Following)

		events := member.Group("/events")
		{
			events.POST("", rateLimited, ctrl.Event.CreateEvent)
			events.GET("/filter", ctrl.Event.FilterEvents)
			events.GET("/calendar", ctrl.Event.Calendar)
			events.GET("/day/:date", ctrl.Event.EventsOnDay)
			events.GET("/mine", ctrl.Event.MyEvents)
			events.POST("/link/:key/apply", rateLimited, ctrl.Event.Apply)
			events.GET("/:id/registrations", ctrl.Event.Registrations)
		}
		member.GET("/applications/mine", ctrl.Event.MyApplications)
	}
}

func healthHandler(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if db != nil {
			if err := db.Ping(ctx); err != nil {
				errorDetail := dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Database unavailable").WithDetails(err.Error())
				c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(errorDetail))
				return
			}
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}))
	}
}
