package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"coursegen/internal/api/middleware"
	"coursegen/internal/models"
	"coursegen/internal/service"
)

// CourseHandler handles course layout generation and course CRUD
type CourseHandler struct {
	courseService *service.CourseService
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courseService *service.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// GenerateLayout handles course layout generation
// @Summary Generate a course layout
// @Description Ask the language model for a chapter outline and store it as a new course owned by the caller
// @Tags Course
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.GenerateCourseRequest true "Course generation request"
// @Success 200 {object} models.APIResponse{data=models.Course}
// @Failure 400 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse
// @Failure 429 {object} models.APIResponse
// @Failure 500 {object} models.APIResponse
// @Failure 503 {object} models.APIResponse
// @Router /api/generate-course-layout [post]
func (h *CourseHandler) GenerateLayout(c *gin.Context) {
	var req models.GenerateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	course, err := h.courseService.GenerateLayout(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, course)
}

// Get handles course listing and lookup
// @Summary List or fetch courses
// @Description Without courseId, list the caller's courses newest first. With courseId, return that course and its chapter slides.
// @Tags Course
// @Produce json
// @Security BearerAuth
// @Param courseId query string false "Course id"
// @Success 200 {object} models.APIResponse{data=models.CourseDetailResponse}
// @Failure 401 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /api/course [get]
func (h *CourseHandler) Get(c *gin.Context) {
	userID := middleware.UserID(c)
	courseID := strings.TrimSpace(c.Query("courseId"))

	if courseID == "" {
		list, err := h.courseService.List(c.Request.Context(), userID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondSuccess(c, http.StatusOK, list)
		return
	}

	course, err := h.courseService.Get(c.Request.Context(), userID, courseID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, course)
}

// Update handles partial course updates
// @Summary Update a course
// @Description Update any of courseName, userInput, type and courseLayout on one of the caller's courses
// @Tags Course
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.UpdateCourseRequest true "Course update"
// @Success 200 {object} models.APIResponse{data=models.Course}
// @Failure 400 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /api/course [patch]
func (h *CourseHandler) Update(c *gin.Context) {
	var req models.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	course, err := h.courseService.Update(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, course)
}

// Delete handles course deletion
// @Summary Delete a course
// @Description Delete one of the caller's courses together with its slides
// @Tags Course
// @Produce json
// @Security BearerAuth
// @Param courseId query string true "Course id"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /api/course [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	courseID := c.Query("courseId")
	if err := h.courseService.Delete(c.Request.Context(), middleware.UserID(c), courseID); err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"success": true})
}
