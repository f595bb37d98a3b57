package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gorm.io/datatypes"

	"coursegen/internal/apierr"
	"coursegen/internal/models"
	"coursegen/internal/prompts"
	"coursegen/internal/store"
	"coursegen/internal/util"
)

// PingFunc checks store reachability and reports the round-trip time.
type PingFunc func(ctx context.Context) (time.Duration, error)

// CourseService generates course layouts and manages a user's stored courses
type CourseService struct {
	generator  TextGenerator
	courses    store.CourseRepo
	slides     store.SlideRepo
	ping       PingFunc
	retryDelay time.Duration
	logger     *util.Logger
}

// NewCourseService creates a new course service
func NewCourseService(generator TextGenerator, courses store.CourseRepo, slides store.SlideRepo, ping PingFunc, retryDelay time.Duration) *CourseService {
	return &CourseService{
		generator:  generator,
		courses:    courses,
		slides:     slides,
		ping:       ping,
		retryDelay: retryDelay,
		logger:     util.NewLogger("CourseService"),
	}
}

// GenerateLayout asks the model for a course layout, repairs or replaces its
// output, and stores the course for userID.
func (cs *CourseService) GenerateLayout(ctx context.Context, userID string, req *models.GenerateCourseRequest) (*models.Course, error) {
	cs.logger.Start("Course Layout Generation")
	defer cs.logger.End("Course Layout Generation")

	if userID == "" {
		return nil, unauthorized()
	}
	courseType := strings.TrimSpace(req.Type)
	if courseType == "" {
		courseType = util.DefaultCourseType
	}

	if cs.ping != nil {
		if _, err := cs.ping(ctx); err != nil {
			cs.logger.Error("Course storage unreachable", err)
			return nil, apierr.Unavailable(CodeStorageUnavailable, "Course storage is temporarily unavailable. Please try again shortly.", err)
		}
	}

	raw, err := cs.generateWithRetry(ctx, req.UserInput, req.CourseID, courseType)
	if err != nil {
		return nil, llmError(err)
	}

	layout, ok := parseLayout(raw)
	if !ok {
		cs.logger.Warn("Model output was not JSON, using fallback layout", nil)
		layout = fallbackLayout(req.UserInput, req.CourseID)
	}

	courseID := strings.TrimSpace(req.CourseID)
	if courseID == "" {
		courseID = layout.CourseID
	}
	if courseID == "" {
		return nil, apierr.BadRequest(CodeInvalidRequest, "courseId is missing in request and model response")
	}
	courseName := strings.TrimSpace(layout.CourseName)
	if courseName == "" {
		return nil, apierr.New(http.StatusInternalServerError, CodeMissingCourseName, "Model response is missing courseName. Please try again.", nil)
	}
	if len(layout.Chapters) == 0 {
		layout = fallbackLayout(req.UserInput, courseID)
	}
	cs.logger.KeyValue("courseId", courseID, "chapters", layout.TotalChapters)
	cs.logger.JSON("Course layout", layout)

	created, err := cs.courses.CreateWithConflictHandling(ctx, store.NewCourse{
		CourseID:   courseID,
		CourseName: courseName,
		UserInput:  req.UserInput,
		Type:       courseType,
		UserID:     userID,
		Layout:     &layout,
	})
	if err != nil {
		cs.logger.Error("Failed to save course", err)
		if mapped := storageError(err); mapped != err {
			return nil, mapped
		}
		return nil, apierr.Unavailable(CodeGenerationFailed, "Failed to generate course layout. Please try again.", err)
	}
	if created == nil || created.CourseID == "" {
		return nil, apierr.Unavailable(CodeSaveFailed, "Course was generated but could not be saved. Please try again.", nil)
	}

	cs.logger.Success("Course saved as " + created.CourseID)
	return created, nil
}

func (cs *CourseService) generateWithRetry(ctx context.Context, userInput, courseID, courseType string) (string, error) {
	system := prompts.CourseLayoutSystemPrompt()
	user := prompts.CourseLayoutUserPrompt(userInput, courseID, courseType)
	opts := GenerateOptions{JSON: true}

	out, err := cs.generator.Generate(ctx, system, user, opts)
	if err == nil {
		return out, nil
	}
	if errors.Is(err, ErrLLMNotConfigured) {
		return "", err
	}
	cs.logger.Warn("Layout generation failed, retrying once", err)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(cs.retryDelay):
	}
	return cs.generator.Generate(ctx, system, user, opts)
}

// List returns the user's courses, newest first
func (cs *CourseService) List(ctx context.Context, userID string) (*models.CourseListResponse, error) {
	if userID == "" {
		return nil, unauthorized()
	}
	courses, err := cs.courses.ListByUser(ctx, userID)
	if err != nil {
		return nil, storageError(err)
	}
	return &models.CourseListResponse{Courses: courses}, nil
}

// Get returns one of the user's courses with its chapter slides
func (cs *CourseService) Get(ctx context.Context, userID, courseID string) (*models.CourseDetailResponse, error) {
	if userID == "" {
		return nil, unauthorized()
	}
	course, err := cs.courses.GetForUser(ctx, courseID, userID)
	if err != nil {
		return nil, storageError(err)
	}
	if course == nil {
		return nil, courseNotFound()
	}

	slides, err := cs.slides.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, storageError(err)
	}
	return &models.CourseDetailResponse{Course: *course, ChapterContentSlides: slides}, nil
}

// Update applies a partial update to one of the user's courses
func (cs *CourseService) Update(ctx context.Context, userID string, req *models.UpdateCourseRequest) (*models.Course, error) {
	if userID == "" {
		return nil, unauthorized()
	}
	if !req.HasChanges() {
		return nil, apierr.BadRequest(CodeInvalidRequest, "At least one field must be provided for update")
	}

	existing, err := cs.courses.GetForUser(ctx, req.CourseID, userID)
	if err != nil {
		return nil, storageError(err)
	}
	if existing == nil {
		return nil, courseNotFound()
	}

	updates := map[string]any{}
	if req.CourseName != nil {
		updates["course_name"] = *req.CourseName
	}
	if req.UserInput != nil {
		updates["user_input"] = *req.UserInput
	}
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if len(req.CourseLayout) > 0 {
		layout, err := sanitizeRawLayout(req.CourseLayout)
		if err != nil {
			return nil, apierr.BadRequest(CodeInvalidRequest, "courseLayout must be valid JSON")
		}
		updates["course_layout"] = layout
	}

	updated, err := cs.courses.Update(ctx, req.CourseID, userID, updates)
	if err != nil {
		return nil, storageError(err)
	}
	if updated == nil {
		return nil, courseNotFound()
	}
	return updated, nil
}

// Delete removes one of the user's courses and its slides
func (cs *CourseService) Delete(ctx context.Context, userID, courseID string) error {
	if userID == "" {
		return unauthorized()
	}
	if strings.TrimSpace(courseID) == "" {
		return apierr.BadRequest(CodeInvalidRequest, "courseId is required")
	}

	existing, err := cs.courses.GetForUser(ctx, courseID, userID)
	if err != nil {
		return storageError(err)
	}
	if existing == nil {
		return courseNotFound()
	}
	if err := cs.courses.Delete(ctx, courseID, userID); err != nil {
		return storageError(err)
	}
	return nil
}

// sanitizeRawLayout strips control characters from every string in a client-supplied layout.
// A JSON null clears the stored layout.
func sanitizeRawLayout(raw json.RawMessage) (any, error) {
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("decode course layout: %w", err)
	}
	if generic == nil {
		return nil, nil
	}
	clean, err := json.Marshal(util.SanitizeJSON(generic))
	if err != nil {
		return nil, fmt.Errorf("encode course layout: %w", err)
	}
	return datatypes.JSON(clean), nil
}
