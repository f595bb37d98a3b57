package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coursegen/internal/api/middleware"
	"coursegen/internal/models"
	"coursegen/internal/service"
)

// MockTestHandler handles mock test generation
type MockTestHandler struct {
	mockTestService *service.MockTestService
}

// NewMockTestHandler creates a new mock test handler
func NewMockTestHandler(mockTestService *service.MockTestService) *MockTestHandler {
	return &MockTestHandler{mockTestService: mockTestService}
}

// Generate handles mock test requests
// @Summary Generate a mock test
// @Description Generate multiple-choice questions covering one of the caller's courses. totalQuestions defaults to 10 and must be between 5 and 30.
// @Tags MockTest
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.MockTestRequest true "Mock test request"
// @Success 200 {object} models.APIResponse{data=models.MockTestResponse}
// @Failure 400 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Failure 429 {object} models.APIResponse
// @Router /api/mock-test [post]
func (h *MockTestHandler) Generate(c *gin.Context) {
	var req models.MockTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.mockTestService.Generate(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, resp)
}
