package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coursegen/internal/models"
	"coursegen/internal/service"
)

// NotesHandler handles chapter notes generation
type NotesHandler struct {
	notesService *service.NotesService
}

// NewNotesHandler creates a new notes handler
func NewNotesHandler(notesService *service.NotesService) *NotesHandler {
	return &NotesHandler{notesService: notesService}
}

// Generate handles chapter notes requests
// @Summary Generate chapter notes
// @Description Generate markdown revision notes for one chapter, citing the chapter's selected video
// @Tags Notes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.NotesRequest true "Notes request"
// @Success 200 {object} models.APIResponse{data=models.NotesResponse}
// @Failure 400 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse
// @Failure 429 {object} models.APIResponse
// @Failure 500 {object} models.APIResponse
// @Router /api/generate-chapter-notes [post]
func (h *NotesHandler) Generate(c *gin.Context) {
	var req models.NotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.notesService.Generate(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, resp)
}
