// internal/handlers/gallery.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/melodia-community/melodia-backend/internal/i18n"
	"github.com/melodia-community/melodia-backend/internal/services"
	"github.com/melodia-community/melodia-backend/internal/utils"
)

type GalleryHandler struct {
	galleryService *services.GalleryService
}

func NewGalleryHandler(galleryService *services.GalleryService) *GalleryHandler {
	return &GalleryHandler{galleryService: galleryService}
}

// GET /gallery
func (h *GalleryHandler) List(c *gin.Context) {
	params := services.GallerySearchParams{
		PaginationParams: utils.GetPaginationParams(c),
	}
	if eventIDStr := c.Query("event_id"); eventIDStr != "" {
		eventID, err := uuid.Parse(eventIDStr)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid event ID", nil)
			return
		}
		params.EventID = &eventID
	}

	items, total, err := h.galleryService.SearchItems(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(items, total, params.PaginationParams))
}

// GET /gallery/:id
func (h *GalleryHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid gallery item ID", nil)
		return
	}

	item, err := h.galleryService.GetItem(id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "gallery")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"item": item})
}

// POST /admin/gallery
func (h *GalleryHandler) Upload(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	uploaderIDStr, _ := utils.GetUserIDFromContext(c)
	uploaderID, err := uuid.Parse(uploaderIDStr)
	if err != nil {
		utils.UnauthorizedResponse(c, "")
		return
	}

	req := services.UploadGalleryItemRequest{
		Title:   c.PostForm("title"),
		Caption: c.PostForm("caption"),
	}
	if eventIDStr := c.PostForm("event_id"); eventIDStr != "" {
		eventID, err := uuid.Parse(eventIDStr)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid event ID", nil)
			return
		}
		req.EventID = &eventID
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationRequired, "image"), nil)
		return
	}
	defer file.Close()

	item, err := h.galleryService.UploadItem(uploaderID, &req, file, header)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "event")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyGalleryUploaded),
		"item":    item,
	})
}

// DELETE /admin/gallery/:id
func (h *GalleryHandler) Delete(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid gallery item ID", nil)
		return
	}

	if err := h.galleryService.DeleteItem(id); err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "gallery")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyGalleryDeleted),
	})
}
