// internal/handlers/suggestion.go
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

type SuggestionHandler struct {
	suggestionService *services.SuggestionService
}

func NewSuggestionHandler(suggestionService *services.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{suggestionService: suggestionService}
}

// GET /suggestions
func (h *SuggestionHandler) List(c *gin.Context) {
	params := services.SuggestionSearchParams{
		PaginationParams: utils.GetPaginationParams(c),
	}
	if params.PaginationParams.Status != "" {
		status := models.SuggestionStatus(params.PaginationParams.Status)
		params.SuggestionStatus = &status
	}

	suggestions, total, err := h.suggestionService.SearchSuggestions(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(suggestions, total, params.PaginationParams))
}

// POST /suggestions
func (h *SuggestionHandler) Create(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userIDStr, _ := utils.GetUserIDFromContext(c)
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateSuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	suggestion, err := h.suggestionService.CreateSuggestion(userID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":    i18n.T(lang, i18n.KeySuggestionCreated),
		"suggestion": suggestion,
	})
}

// POST /suggestions/:id/vote
func (h *SuggestionHandler) Vote(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid suggestion ID", nil)
		return
	}

	userIDStr, _ := utils.GetUserIDFromContext(c)
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.UnauthorizedResponse(c, "")
		return
	}

	suggestion, err := h.suggestionService.Vote(id, userID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "suggestion")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":    i18n.T(lang, i18n.KeySuggestionVoted),
		"suggestion": suggestion,
	})
}

// PUT /admin/suggestions/:id/status
func (h *SuggestionHandler) UpdateStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid suggestion ID", nil)
		return
	}

	var req struct {
		Status string `json:"status" validate:"required,oneof=open picked archived"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	suggestion, err := h.suggestionService.UpdateStatus(id, models.SuggestionStatus(req.Status))
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "suggestion")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":    i18n.T(lang, i18n.KeyAdminActionSuccess),
		"suggestion": suggestion,
	})
}

// DELETE /suggestions/:id
func (h *SuggestionHandler) Delete(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid suggestion ID", nil)
		return
	}

	userIDStr, _ := utils.GetUserIDFromContext(c)
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.UnauthorizedResponse(c, "")
		return
	}

	role, _ := utils.GetRoleFromContext(c)
	isAdmin := role == "admin" || role == "board"

	if err := h.suggestionService.DeleteSuggestion(id, userID, isAdmin); err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "suggestion")
			return
		}
		if strings.Contains(err.Error(), "unauthorized") {
			utils.ForbiddenResponse(c, err.Error())
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeySuggestionDeleted),
	})
}
