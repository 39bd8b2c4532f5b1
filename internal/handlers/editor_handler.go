package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/epokowo/epokowo-service/internal/services"
)

// EditorHandler is the admin write surface for the content tree, plus the
// spreadsheet import/export endpoints.
type EditorHandler struct {
	BaseHandler
	editorService services.EditorService
	exportService services.ExportService
}

type PublishRequest struct {
	Published bool `json:"published"`
}

func NewEditorHandler(editorService services.EditorService, exportService services.ExportService, logger *slog.Logger) *EditorHandler {
	return &EditorHandler{
		BaseHandler:   NewBaseHandler(logger),
		editorService: editorService,
		exportService: exportService,
	}
}

// ===== EPOCHS =====

func (h *EditorHandler) CreateEpoch(c *gin.Context) {
	var req services.EpochRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	epoch, err := h.editorService.CreateEpoch(c.Request.Context(), currentActor(c), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, epoch)
}

func (h *EditorHandler) UpdateEpoch(c *gin.Context) {
	epochID := parseIDParam(c, "id")
	if epochID == 0 {
		return
	}

	var req services.EpochRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	epoch, err := h.editorService.UpdateEpoch(c.Request.Context(), currentActor(c), epochID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, epoch)
}

func (h *EditorHandler) DeleteEpoch(c *gin.Context) {
	epochID := parseIDParam(c, "id")
	if epochID == 0 {
		return
	}

	if err := h.editorService.DeleteEpoch(c.Request.Context(), currentActor(c), epochID); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Epoch deleted"})
}

// ===== LESSONS =====

func (h *EditorHandler) CreateLesson(c *gin.Context) {
	var req services.LessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	lesson, err := h.editorService.CreateLesson(c.Request.Context(), currentActor(c), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lesson)
}

func (h *EditorHandler) UpdateLesson(c *gin.Context) {
	lessonID := parseIDParam(c, "id")
	if lessonID == 0 {
		return
	}

	var req services.LessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	lesson, err := h.editorService.UpdateLesson(c.Request.Context(), currentActor(c), lessonID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, lesson)
}

func (h *EditorHandler) DeleteLesson(c *gin.Context) {
	lessonID := parseIDParam(c, "id")
	if lessonID == 0 {
		return
	}

	if err := h.editorService.DeleteLesson(c.Request.Context(), currentActor(c), lessonID); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Lesson deleted"})
}

func (h *EditorHandler) PublishLesson(c *gin.Context) {
	lessonID := parseIDParam(c, "id")
	if lessonID == 0 {
		return
	}

	// Bare POST publishes; {"published": false} withdraws.
	req := PublishRequest{Published: true}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
			return
		}
	}

	lesson, err := h.editorService.SetLessonPublished(c.Request.Context(), currentActor(c), lessonID, req.Published)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, lesson)
}

// ===== CONTENT BLOCKS =====

func (h *EditorHandler) CreateBlock(c *gin.Context) {
	lessonID := parseIDParam(c, "id")
	if lessonID == 0 {
		return
	}

	var req services.BlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	block, err := h.editorService.CreateBlock(c.Request.Context(), currentActor(c), lessonID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, block)
}

func (h *EditorHandler) UpdateBlock(c *gin.Context) {
	blockID := parseIDParam(c, "id")
	if blockID == 0 {
		return
	}

	var req services.BlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	block, err := h.editorService.UpdateBlock(c.Request.Context(), currentActor(c), blockID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, block)
}

func (h *EditorHandler) DeleteBlock(c *gin.Context) {
	blockID := parseIDParam(c, "id")
	if blockID == 0 {
		return
	}

	if err := h.editorService.DeleteBlock(c.Request.Context(), currentActor(c), blockID); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Content block deleted"})
}

// ===== QUESTIONS =====

func (h *EditorHandler) CreateQuestion(c *gin.Context) {
	lessonID := parseIDParam(c, "id")
	if lessonID == 0 {
		return
	}

	var req services.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	question, err := h.editorService.CreateQuestion(c.Request.Context(), currentActor(c), lessonID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, question)
}

func (h *EditorHandler) UpdateQuestion(c *gin.Context) {
	questionID := parseIDParam(c, "id")
	if questionID == 0 {
		return
	}

	var req services.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	question, err := h.editorService.UpdateQuestion(c.Request.Context(), currentActor(c), questionID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

func (h *EditorHandler) DeleteQuestion(c *gin.Context) {
	questionID := parseIDParam(c, "id")
	if questionID == 0 {
		return
	}

	if err := h.editorService.DeleteQuestion(c.Request.Context(), currentActor(c), questionID); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Question deleted"})
}

// ===== IMPORT / EXPORT =====

// ExportResults streams the lesson's results as an xlsx workbook.
func (h *EditorHandler) ExportResults(c *gin.Context) {
	lessonID := parseIDParam(c, "id")
	if lessonID == 0 {
		return
	}

	data, err := h.exportService.ExportLessonResults(c.Request.Context(), currentActor(c), lessonID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("lesson-%d-results.xlsx", lessonID)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// ImportQuestions reads single-choice questions from an uploaded spreadsheet
// and appends them to the lesson.
func (h *EditorHandler) ImportQuestions(c *gin.Context) {
	lessonID := parseIDParam(c, "id")
	if lessonID == 0 {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing file upload",
			Details: err.Error(),
		})
		return
	}
	defer file.Close()

	result, err := h.exportService.ImportQuestions(c.Request.Context(), currentActor(c), lessonID, file, header.Filename)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
