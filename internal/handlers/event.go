// internal/handlers/event.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/melodia-community/melodia-backend/internal/i18n"
	"github.com/melodia-community/melodia-backend/internal/services"
	"github.com/melodia-community/melodia-backend/internal/utils"
)

type EventHandler struct {
	eventService *services.EventService
}

func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// GET /events
func (h *EventHandler) List(c *gin.Context) {
	_, isStaff := staffRole(c)

	params := services.EventSearchParams{
		PaginationParams: utils.GetPaginationParams(c),
		Upcoming:         c.Query("upcoming") == "true",
		PublishedOnly:    !isStaff,
	}

	events, total, err := h.eventService.SearchEvents(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(events, total, params.PaginationParams))
}

// GET /events/:id
func (h *EventHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid event ID", nil)
		return
	}

	_, isStaff := staffRole(c)

	event, err := h.eventService.GetEvent(id, isStaff)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "event")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"event": event})
}

// POST /admin/events
func (h *EventHandler) Create(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	creatorIDStr, _ := utils.GetUserIDFromContext(c)
	creatorID, err := uuid.Parse(creatorIDStr)
	if err != nil {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	event, err := h.eventService.CreateEvent(creatorID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyEventCreated),
		"event":   event,
	})
}

// PUT /admin/events/:id
func (h *EventHandler) Update(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid event ID", nil)
		return
	}

	var req services.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	event, err := h.eventService.UpdateEvent(id, &req)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "event")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyEventUpdated),
		"event":   event,
	})
}

// POST /admin/events/:id/cover
func (h *EventHandler) UploadCover(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid event ID", nil)
		return
	}

	file, header, err := c.Request.FormFile("cover")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationRequired, "cover"), nil)
		return
	}
	defer file.Close()

	event, err := h.eventService.SetCoverImage(id, file, header)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "event")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyEventUpdated),
		"event":   event,
	})
}

// DELETE /admin/events/:id
func (h *EventHandler) Delete(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid event ID", nil)
		return
	}

	if err := h.eventService.DeleteEvent(id); err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "event")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyEventDeleted),
	})
}

// staffRole reports whether the request carries a board or admin token.
func staffRole(c *gin.Context) (string, bool) {
	role, ok := utils.GetRoleFromContext(c)
	if !ok {
		return "", false
	}
	return role, role == "board" || role == "admin"
}
