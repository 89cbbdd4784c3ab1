// internal/handlers/application.go
package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/melodia-community/melodia-backend/internal/i18n"
	"github.com/melodia-community/melodia-backend/internal/models"
	"github.com/melodia-community/melodia-backend/internal/services"
	"github.com/melodia-community/melodia-backend/internal/utils"
)

type ApplicationHandler struct {
	applicationService *services.ApplicationService
}

func NewApplicationHandler(applicationService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		applicationService: applicationService,
	}
}

// POST /membership/apply
func (h *ApplicationHandler) Submit(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	paymentAmount, err := strconv.ParseFloat(c.PostForm("paymentAmount"), 64)
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "paymentAmount"), nil)
		return
	}

	req := services.SubmitApplicationRequest{
		FullName:      c.PostForm("fullName"),
		StudentNumber: c.PostForm("studentNumber"),
		Department:    c.PostForm("department"),
		PhoneNumber:   c.PostForm("phoneNumber"),
		PaymentAmount: paymentAmount,
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	// The receipt is optional when dues were paid online; the service
	// requires one or the other.
	file, header, err := c.Request.FormFile("paymentReceipt")
	if err == nil {
		defer file.Close()
	} else {
		file, header = nil, nil
	}

	application, err := h.applicationService.SubmitApplication(&req, file, header)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":       i18n.T(lang, i18n.KeyApplicationSubmitted),
		"applicationId": application.ID,
		"status":        application.Status,
		"isEligible":    application.IsEligible,
	})
}

// GET /admin/applications
func (h *ApplicationHandler) List(c *gin.Context) {
	params := services.ApplicationSearchParams{
		PaginationParams: utils.GetPaginationParams(c),
	}
	if params.PaginationParams.Status != "" {
		status := models.ApplicationStatus(params.PaginationParams.Status)
		params.Status = &status
	}

	applications, total, err := h.applicationService.SearchApplications(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(applications, total, params.PaginationParams))
}

// GET /admin/applications/:id
func (h *ApplicationHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid application ID", nil)
		return
	}

	application, err := h.applicationService.GetApplication(id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "application")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"application": application})
}

// PUT /admin/applications/:id/review
func (h *ApplicationHandler) Review(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid application ID", nil)
		return
	}

	reviewerIDStr, _ := utils.GetUserIDFromContext(c)
	reviewerID, err := uuid.Parse(reviewerIDStr)
	if err != nil {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.ReviewApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	application, err := h.applicationService.ReviewApplication(id, reviewerID, &req)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "application")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	messageKey := i18n.KeyApplicationRejected
	if application.Status == models.ApplicationStatusApproved {
		messageKey = i18n.KeyApplicationApproved
	}

	utils.SuccessResponse(c, gin.H{
		"message":     i18n.T(lang, messageKey),
		"application": application,
	})
}
