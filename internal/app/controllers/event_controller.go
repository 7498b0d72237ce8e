package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusnet/internal/app/models/dto"
	"github.com/yigit/campusnet/internal/app/services"
	"github.com/yigit/campusnet/internal/middleware"
	"github.com/yigit/campusnet/internal/pkg/apperrors"
)

const (
	bannerField = "banner"
	// eventsFallbackPath is where a malformed day lookup lands
	eventsFallbackPath = "/api/v1/events/filter"
)

// EventController handles event discovery, creation and registration
type EventController struct {
	eventService       services.EventService
	applicationService services.ApplicationService
}

// NewEventController creates a new EventController
func NewEventController(eventService services.EventService, applicationService services.ApplicationService) *EventController {
	return &EventController{
		eventService:       eventService,
		applicationService: applicationService,
	}
}

// Categories lists event categories with their types
// @Summary Event categories
// @Tags events
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.EventCategoryResponse}
// @Router /events/categories [get]
func (c *EventController) Categories(ctx *gin.Context) {
	categories, err := c.eventService.Categories(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(categories))
}

// FilterEvents lists upcoming events matching the filter
// @Summary Filter upcoming events
// @Description All filters combine with AND. Absent or empty parameters are ignored.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param event_type query int false "Event type id"
// @Param fees query string false "free or paid"
// @Param my_college_only query bool false "Only events organized from the requester's college"
// @Param applied_filter query bool false "true to show only events the requester applied to"
// @Param college_name query string false "Organizer college"
// @Param state query string false "Event state"
// @Success 200 {object} dto.APIResponse{data=dto.EventListResponse}
// @Router /events/filter [get]
func (c *EventController) FilterEvents(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	filter := services.ParseEventFilter(ctx.Request.URL.Query())
	events, err := c.eventService.FilterEvents(ctx.Request.Context(), userID, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(events))
}

// Calendar groups upcoming events by UTC day
// @Summary Calendar of upcoming events
// @Description Accepts the same filters as /events/filter
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CalendarResponse}
// @Router /events/calendar [get]
func (c *EventController) Calendar(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	filter := services.ParseEventFilter(ctx.Request.URL.Query())
	calendar, err := c.eventService.Calendar(ctx.Request.Context(), userID, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(calendar))
}

// EventsOnDay lists every event of one day
// @Summary Events on a day
// @Description A malformed date redirects to the unfiltered event list
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param date path string true "Day (YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse{data=dto.DayEventsResponse}
// @Success 302 "Malformed date"
// @Router /events/day/{date} [get]
func (c *EventController) EventsOnDay(ctx *gin.Context) {
	day, err := c.eventService.EventsOnDay(ctx.Request.Context(), ctx.Param("date"))
	if errors.Is(err, apperrors.ErrInvalidDate) {
		ctx.Redirect(http.StatusFound, eventsFallbackPath)
		return
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(day))
}

// GetByLinkKey returns the event behind a shareable link
// @Summary Event detail
// @Tags events
// @Produce json
// @Param key path string true "Link key"
// @Success 200 {object} dto.APIResponse{data=dto.EventDetailResponse}
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/link/{key} [get]
func (c *EventController) GetByLinkKey(ctx *gin.Context) {
	event, err := c.eventService.GetByLinkKey(ctx.Request.Context(), ctx.Param("key"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(event))
}

// MyEvents lists events organized by the requester
// @Summary My organized events
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.EventListResponse}
// @Router /events/mine [get]
func (c *EventController) MyEvents(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	events, err := c.eventService.MyEvents(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(events))
}

// CreateEvent creates an event with an optional banner
// @Summary Create an event
// @Tags events
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param name formData string true "Event name"
// @Param location formData string true "Location"
// @Param date_time formData string true "Start time (RFC3339 or YYYY-MM-DD HH:MM)"
// @Param event_type formData int false "Event type id"
// @Param registration_fee formData number false "Fee, 0 or empty for free"
// @Param banner formData file false "Banner image"
// @Success 201 {object} dto.APIResponse{data=dto.EventDetailResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 404 {object} dto.ErrorResponse "Event type not found"
// @Router /events [post]
func (c *EventController) CreateEvent(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateEventRequest
	if !middleware.BindForm(ctx, &req) {
		return
	}

	var banner *multipart.FileHeader
	if file, err := ctx.FormFile(bannerField); err == nil {
		banner = file
	}

	event, err := c.eventService.CreateEvent(ctx.Request.Context(), userID, &req, banner)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(event))
}

// Apply registers the requester for an event
// @Summary Apply to an event
// @Description Omitted contact fields are taken from the applicant's profile
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param key path string true "Link key"
// @Param request body dto.ApplyRequest false "Contact overrides"
// @Success 201 {object} dto.APIResponse{data=dto.ApplicationResponse}
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 409 {object} dto.ErrorResponse "Already applied"
// @Router /events/link/{key}/apply [post]
func (c *EventController) Apply(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req *dto.ApplyRequest
	if ctx.Request.ContentLength != 0 {
		req = &dto.ApplyRequest{}
		if !middleware.BindJSON(ctx, req) {
			return
		}
	}

	application, err := c.applicationService.Apply(ctx.Request.Context(), userID, ctx.Param("key"), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(application))
}

// MyApplications lists the requester's applications
// @Summary My applications
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.ApplicationResponse}
// @Router /applications/mine [get]
func (c *EventController) MyApplications(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	applications, err := c.applicationService.MyApplications(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(applications))
}

// Registrations lists applications to an event the requester organizes
// @Summary Event registrations
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.ApplicationResponse}
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id}/registrations [get]
func (c *EventController) Registrations(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	eventID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	applications, err := c.eventService.Registrations(ctx.Request.Context(), userID, eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(applications))
}
