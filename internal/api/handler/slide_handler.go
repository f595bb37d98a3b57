package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coursegen/internal/api/middleware"
	"coursegen/internal/models"
	"coursegen/internal/service"
)

// SlideHandler handles chapter slide generation
type SlideHandler struct {
	slideService *service.SlideService
}

// NewSlideHandler creates a new slide handler
func NewSlideHandler(slideService *service.SlideService) *SlideHandler {
	return &SlideHandler{slideService: slideService}
}

// Generate handles chapter slide requests
// @Summary Generate chapter slides
// @Description Generate narrated slides for one chapter of the caller's course, replacing any slides stored for it
// @Tags Slides
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.SlideRequest true "Slide request"
// @Success 200 {object} models.APIResponse{data=models.SlideResponse}
// @Failure 400 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Failure 502 {object} models.APIResponse
// @Router /api/chapter-slides [post]
func (h *SlideHandler) Generate(c *gin.Context) {
	var req models.SlideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.slideService.Generate(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, resp)
}

// List handles stored slide requests
// @Summary List chapter slides
// @Description Return the slides stored for one chapter of the caller's course
// @Tags Slides
// @Produce json
// @Security BearerAuth
// @Param courseId query string true "Course ID"
// @Param chapterId query string true "Chapter ID"
// @Success 200 {object} models.APIResponse{data=models.SlideResponse}
// @Failure 400 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /api/chapter-slides [get]
func (h *SlideHandler) List(c *gin.Context) {
	var req models.SlideRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.slideService.List(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, resp)
}
