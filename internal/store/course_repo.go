package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"coursegen/internal/models"
	"coursegen/internal/util"
)

// NewCourse is the unsanitized input for persisting a generated course.
type NewCourse struct {
	CourseID   string
	CourseName string
	UserInput  string
	Type       string
	UserID     string
	Layout     *models.CourseLayout
}

type CourseRepo interface {
	CreateWithConflictHandling(ctx context.Context, in NewCourse) (*models.Course, error)
	GetForUser(ctx context.Context, courseID, userID string) (*models.Course, error)
	ListByUser(ctx context.Context, userID string) ([]models.Course, error)
	Update(ctx context.Context, courseID, userID string, updates map[string]any) (*models.Course, error)
	Delete(ctx context.Context, courseID, userID string) error
}

type courseRepo struct {
	db  *gorm.DB
	log *util.Logger
	now func() time.Time
}

func NewCourseRepo(db *gorm.DB) CourseRepo {
	return &courseRepo{db: db, log: util.NewLogger("CourseRepo"), now: time.Now}
}

// CreateWithConflictHandling inserts a course with every field cut to its column
// limit. A layout the database rejects is stored as NULL; a taken courseId is
// retried once with a time-derived suffix.
func (r *courseRepo) CreateWithConflictHandling(ctx context.Context, in NewCourse) (*models.Course, error) {
	row := models.Course{
		CourseID:   util.FitToLength(in.CourseID, util.MaxCourseIDLength),
		CourseName: util.FitToLength(in.CourseName, util.MaxCourseNameLength),
		UserInput:  util.FitToLength(in.UserInput, util.MaxUserInputLength),
		Type:       util.FitToLength(in.Type, util.MaxTypeLength),
		UserID:     util.FitToLength(in.UserID, util.MaxUserIDLength),
	}
	layout, err := encodeLayout(in.Layout, row.CourseID)
	if err != nil {
		r.log.Warn("Course layout could not be encoded, storing without layout", err)
	}
	row.CourseLayout = layout

	err = r.db.WithContext(ctx).Create(&row).Error
	if err == nil {
		return &row, nil
	}

	if isInvalidJSON(err) {
		r.log.Warn("Database rejected course layout, storing without layout", err)
		row.ID = 0
		row.CourseLayout = nil
		if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
			return nil, fmt.Errorf("insert course without layout: %w", err)
		}
		return &row, nil
	}

	if !IsUniqueViolation(err) {
		return nil, fmt.Errorf("insert course: %w", err)
	}

	millis := strconv.FormatInt(r.now().UnixMilli(), 10)
	suffix := millis[len(millis)-4:]
	row.ID = 0
	row.CourseID = util.FitToLength(row.CourseID+"-"+suffix, util.MaxCourseIDLength)
	row.CourseLayout, err = encodeLayout(in.Layout, row.CourseID)
	if err != nil {
		r.log.Warn("Course layout could not be encoded, storing without layout", err)
	}
	r.log.Info("courseId taken, retrying as %s", row.CourseID)

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("insert course with suffixed id: %w", err)
	}
	return &row, nil
}

func (r *courseRepo) GetForUser(ctx context.Context, courseID, userID string) (*models.Course, error) {
	var row models.Course
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *courseRepo) ListByUser(ctx context.Context, userID string) ([]models.Course, error) {
	results := []models.Course{}
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *courseRepo) Update(ctx context.Context, courseID, userID string, updates map[string]any) (*models.Course, error) {
	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).
			Model(&models.Course{}).
			Where("course_id = ? AND user_id = ?", courseID, userID).
			Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.GetForUser(ctx, courseID, userID)
}

// Delete removes a course and its slides in one transaction.
func (r *courseRepo) Delete(ctx context.Context, courseID, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", courseID).Delete(&models.ChapterContentSlide{}).Error; err != nil {
			return err
		}
		return tx.Where("course_id = ? AND user_id = ?", courseID, userID).Delete(&models.Course{}).Error
	})
}

// encodeLayout stamps courseID into the layout and strips control characters from every string.
func encodeLayout(layout *models.CourseLayout, courseID string) (datatypes.JSON, error) {
	if layout == nil {
		return nil, nil
	}
	stamped := *layout
	stamped.CourseID = courseID

	raw, err := json.Marshal(stamped)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	clean, err := json.Marshal(util.SanitizeJSON(generic))
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(clean), nil
}

func isInvalidJSON(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "invalid input syntax for type json") || (pgCode(err) == "22P02" && strings.Contains(msg, "json"))
}
