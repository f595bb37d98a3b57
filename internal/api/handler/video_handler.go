package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coursegen/internal/models"
	"coursegen/internal/service"
)

// VideoHandler handles chapter video recommendations
type VideoHandler struct {
	videoService *service.VideoService
}

// NewVideoHandler creates a new video handler
func NewVideoHandler(videoService *service.VideoService) *VideoHandler {
	return &VideoHandler{videoService: videoService}
}

// Match handles chapter video matching
// @Summary Recommend a YouTube video per chapter
// @Description Search YouTube for each chapter, rank the hits against the chapter's keywords and return one pick per chapter. Quota failures are reported in the warning field.
// @Tags Video
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.VideoSearchRequest true "Chapters to match"
// @Success 200 {object} models.APIResponse{data=models.VideoSearchResponse}
// @Failure 400 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse
// @Failure 500 {object} models.APIResponse
// @Router /api/youtube-videos [post]
func (h *VideoHandler) Match(c *gin.Context) {
	var req models.VideoSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.videoService.MatchChapters(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, resp)
}
