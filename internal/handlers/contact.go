// internal/handlers/contact.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/melodia-community/melodia-backend/internal/i18n"
	"github.com/melodia-community/melodia-backend/internal/models"
	"github.com/melodia-community/melodia-backend/internal/services"
	"github.com/melodia-community/melodia-backend/internal/utils"
)

type ContactHandler struct {
	contactService *services.ContactService
}

func NewContactHandler(contactService *services.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// POST /contact
func (h *ContactHandler) Submit(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.SubmitContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	message, err := h.contactService.SubmitMessage(&req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyContactReceived),
		"id":      message.ID,
	})
}

// GET /admin/contact
func (h *ContactHandler) List(c *gin.Context) {
	params := services.ContactSearchParams{
		PaginationParams: utils.GetPaginationParams(c),
	}
	if params.PaginationParams.Status != "" {
		status := models.ContactStatus(params.PaginationParams.Status)
		params.Status = &status
	}

	messages, total, err := h.contactService.SearchMessages(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(messages, total, params.PaginationParams))
}

// GET /admin/contact/:id
func (h *ContactHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid message ID", nil)
		return
	}

	message, err := h.contactService.GetMessage(id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "contact")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"contact_message": message})
}

// PUT /admin/contact/:id/resolve
func (h *ContactHandler) Resolve(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid message ID", nil)
		return
	}

	resolverIDStr, _ := utils.GetUserIDFromContext(c)
	resolverID, err := uuid.Parse(resolverIDStr)
	if err != nil {
		utils.UnauthorizedResponse(c, "")
		return
	}

	message, err := h.contactService.ResolveMessage(id, resolverID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "contact")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":         i18n.T(lang, i18n.KeyContactResolved),
		"contact_message": message,
	})
}
