package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/epokowo/epokowo-service/internal/services"
)

// ContentHandler serves the learner-facing content tree: epochs, their
// lessons and full lesson pages.
type ContentHandler struct {
	BaseHandler
	contentService services.ContentService
}

func NewContentHandler(contentService services.ContentService, logger *slog.Logger) *ContentHandler {
	return &ContentHandler{
		BaseHandler:    NewBaseHandler(logger),
		contentService: contentService,
	}
}

// ListEpochs returns all epochs in their display order.
func (h *ContentHandler) ListEpochs(c *gin.Context) {
	epochs, err := h.contentService.ListEpochs(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, epochs)
}

// GetEpoch returns one epoch by its slug.
func (h *ContentHandler) GetEpoch(c *gin.Context) {
	slug := parseStringParam(c, "slug")
	if slug == "" {
		return
	}

	epoch, err := h.contentService.GetEpochBySlug(c.Request.Context(), slug)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, epoch)
}

// ListLessons returns the epoch's lessons. Learners see published lessons
// only; admins also see drafts.
func (h *ContentHandler) ListLessons(c *gin.Context) {
	slug := parseStringParam(c, "slug")
	if slug == "" {
		return
	}

	epoch, err := h.contentService.GetEpochBySlug(c.Request.Context(), slug)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	lessons, err := h.contentService.ListLessons(c.Request.Context(), epoch.ID, currentActor(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, lessons)
}

// GetLesson returns a full lesson page with its ordered content blocks.
func (h *ContentHandler) GetLesson(c *gin.Context) {
	lessonID := parseIDParam(c, "id")
	if lessonID == 0 {
		return
	}

	lesson, err := h.contentService.GetLesson(c.Request.Context(), lessonID, currentActor(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, lesson)
}
