package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursegen/internal/models"
	"coursegen/internal/store"
)

func TestDashboardSummary(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	courses := store.NewCourseRepo(db)
	slides := store.NewSlideRepo(db)
	users := store.NewUserRepo(db)
	svc := NewDashboardService(courses, slides, users)

	_, err := users.GetOrCreate(ctx, owner, "Owner")
	require.NoError(t, err)

	_, err = courses.CreateWithConflictHandling(ctx, store.NewCourse{
		CourseID: "a", CourseName: "A", UserInput: "a", Type: "full-course", UserID: owner,
		Layout: &models.CourseLayout{Level: "Beginner", Chapters: []models.Chapter{
			{ChapterID: "a1", ChapterTitle: "One", SubContent: []string{"x", "y"}},
			{ChapterID: "a2", ChapterTitle: "Two", SubContent: []string{"z"}},
		}},
	})
	require.NoError(t, err)
	_, err = courses.CreateWithConflictHandling(ctx, store.NewCourse{
		CourseID: "b", CourseName: "B", UserInput: "b", Type: "", UserID: owner,
	})
	require.NoError(t, err)
	_, err = courses.CreateWithConflictHandling(ctx, store.NewCourse{
		CourseID: "c", CourseName: "C", UserInput: "c", Type: "quick", UserID: "other@example.com",
	})
	require.NoError(t, err)

	require.NoError(t, slides.ReplaceForChapter(ctx, "a", "a1", []models.ChapterContentSlide{
		{SlideID: "a1-01", SlideIndex: 1, AudioFileName: "a1-01.mp3", Narration: []byte(`{}`), RevealData: []byte(`[]`)},
		{SlideID: "a1-02", SlideIndex: 2, AudioFileName: "a1-02.mp3", Narration: []byte(`{}`), RevealData: []byte(`[]`)},
	}))
	require.NoError(t, slides.ReplaceForChapter(ctx, "c", "c1", []models.ChapterContentSlide{
		{SlideID: "c1-01", SlideIndex: 1, AudioFileName: "c1-01.mp3", Narration: []byte(`{}`), RevealData: []byte(`[]`)},
	}))

	summary, err := svc.Summary(ctx, owner)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalCourses)
	assert.Equal(t, 2, summary.TotalChapters)
	assert.Equal(t, 3, summary.TotalSubtopics)
	assert.Equal(t, int64(2), summary.TotalSlides)
	assert.Equal(t, 2, summary.Credits)
	assert.Equal(t, map[string]int{"Beginner": 1, "Mixed": 1}, summary.ByLevel)
	assert.Equal(t, map[string]int{"full-course": 2}, summary.ByType)
	require.Len(t, summary.RecentCourses, 2)
	assert.Equal(t, "b", summary.RecentCourses[0].CourseID)
}

func TestDashboardSummaryEmpty(t *testing.T) {
	db := testDB(t)
	svc := NewDashboardService(store.NewCourseRepo(db), store.NewSlideRepo(db), store.NewUserRepo(db))

	summary, err := svc.Summary(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Zero(t, summary.TotalCourses)
	assert.Zero(t, summary.Credits)
	assert.Empty(t, summary.RecentCourses)
	assert.NotNil(t, summary.ByLevel)
}
