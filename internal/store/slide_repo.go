package store

import (
	"context"

	"gorm.io/gorm"

	"coursegen/internal/models"
	"coursegen/internal/util"
)

type SlideRepo interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.ChapterContentSlide, error)
	ListByChapter(ctx context.Context, courseID, chapterID string) ([]models.ChapterContentSlide, error)
	ReplaceForChapter(ctx context.Context, courseID, chapterID string, slides []models.ChapterContentSlide) error
	CountByCourses(ctx context.Context, courseIDs []string) (int64, error)
}

type slideRepo struct {
	db  *gorm.DB
	log *util.Logger
}

func NewSlideRepo(db *gorm.DB) SlideRepo {
	return &slideRepo{db: db, log: util.NewLogger("SlideRepo")}
}

func (r *slideRepo) ListByCourse(ctx context.Context, courseID string) ([]models.ChapterContentSlide, error) {
	results := []models.ChapterContentSlide{}
	if err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("chapter_id ASC").
		Order("slide_index ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *slideRepo) ListByChapter(ctx context.Context, courseID, chapterID string) ([]models.ChapterContentSlide, error) {
	results := []models.ChapterContentSlide{}
	if err := r.db.WithContext(ctx).
		Where("course_id = ? AND chapter_id = ?", courseID, chapterID).
		Order("slide_index ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ReplaceForChapter swaps a chapter's slides atomically.
func (r *slideRepo) ReplaceForChapter(ctx context.Context, courseID, chapterID string, slides []models.ChapterContentSlide) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ? AND chapter_id = ?", courseID, chapterID).
			Delete(&models.ChapterContentSlide{}).Error; err != nil {
			return err
		}
		if len(slides) == 0 {
			return nil
		}
		for i := range slides {
			slides[i].ID = 0
			slides[i].CourseID = courseID
			slides[i].ChapterID = chapterID
		}
		return tx.Create(&slides).Error
	})
}

func (r *slideRepo) CountByCourses(ctx context.Context, courseIDs []string) (int64, error) {
	var count int64
	if len(courseIDs) == 0 {
		return 0, nil
	}
	if err := r.db.WithContext(ctx).
		Model(&models.ChapterContentSlide{}).
		Where("course_id IN ?", courseIDs).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
