package store

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"coursegen/internal/models"
)

func sampleLayout() *models.CourseLayout {
	return &models.CourseLayout{
		CourseID:   "ignored",
		CourseName: "Go\x00 Basics",
		Level:      "Beginner",
		Chapters: []models.Chapter{
			{ChapterID: "intro", ChapterTitle: "Intro\n\nto Go", SubContent: []string{"why go"}},
		},
		TotalChapters: 1,
	}
}

func TestCourseRepoCreateAndRead(t *testing.T) {
	db := testDB(t)
	repo := NewCourseRepo(db)
	ctx := context.Background()

	created, err := repo.CreateWithConflictHandling(ctx, NewCourse{
		CourseID:   "go-basics",
		CourseName: strings.Repeat("n", 300),
		UserInput:  "learn go\tquickly",
		Type:       "full-course",
		UserID:     "a@example.com",
		Layout:     sampleLayout(),
	})
	require.NoError(t, err)
	assert.Equal(t, "go-basics", created.CourseID)
	assert.Len(t, created.CourseName, 255)
	assert.Equal(t, "learn go quickly", created.UserInput)

	got, err := repo.GetForUser(ctx, "go-basics", "a@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	layout := got.Layout()
	assert.Equal(t, "go-basics", layout.CourseID, "stored layout carries the stored id")
	assert.Equal(t, "Go Basics", layout.CourseName)
	assert.Equal(t, "Intro to Go", layout.Chapters[0].ChapterTitle)

	other, err := repo.GetForUser(ctx, "go-basics", "b@example.com")
	require.NoError(t, err)
	assert.Nil(t, other, "courses are scoped to their owner")
}

func TestCourseRepoConflictRetriesWithSuffix(t *testing.T) {
	db := testDB(t)
	repo := NewCourseRepo(db).(*courseRepo)
	repo.now = func() time.Time { return time.UnixMilli(1700000001234) }
	ctx := context.Background()

	in := NewCourse{CourseID: "react", CourseName: "React", UserInput: "react", Type: "full-course", UserID: "a@example.com", Layout: sampleLayout()}
	first, err := repo.CreateWithConflictHandling(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "react", first.CourseID)

	second, err := repo.CreateWithConflictHandling(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "react-1234", second.CourseID)
	assert.Equal(t, "react-1234", second.Layout().CourseID)
}

func TestCourseRepoNilLayout(t *testing.T) {
	db := testDB(t)
	repo := NewCourseRepo(db)

	created, err := repo.CreateWithConflictHandling(context.Background(), NewCourse{CourseID: "x", CourseName: "X", UserInput: "xyz", Type: "t", UserID: "u"})
	require.NoError(t, err)
	assert.Empty(t, created.CourseLayout)
	assert.Equal(t, models.CourseLayout{}, created.Layout())
}

func TestCourseRepoRejectedLayoutStoredAsNull(t *testing.T) {
	db := testDB(t)
	// sqlite accepts any text, so reject layouts the way postgres does for bad json.
	err := db.Callback().Create().Before("gorm:create").Register("test:reject_layout", func(tx *gorm.DB) {
		if row, ok := tx.Statement.Dest.(*models.Course); ok && row.CourseLayout != nil {
			_ = tx.AddError(&pgconn.PgError{Severity: "ERROR", Code: "22P02", Message: "invalid input syntax for type json"})
		}
	})
	require.NoError(t, err)
	repo := NewCourseRepo(db)

	created, err := repo.CreateWithConflictHandling(context.Background(), NewCourse{
		CourseID: "go", CourseName: "Go", UserInput: "go", Type: "full-course", UserID: "u", Layout: sampleLayout(),
	})
	require.NoError(t, err)
	assert.Equal(t, "go", created.CourseID)
	assert.Nil(t, created.CourseLayout)

	stored, err := repo.GetForUser(context.Background(), "go", "u")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Empty(t, stored.CourseLayout)
}

func TestCourseRepoListUpdateDelete(t *testing.T) {
	db := testDB(t)
	repo := NewCourseRepo(db)
	slides := NewSlideRepo(db)
	ctx := context.Background()

	for _, id := range []string{"one", "two", "three"} {
		_, err := repo.CreateWithConflictHandling(ctx, NewCourse{CourseID: id, CourseName: id, UserInput: id, Type: "t", UserID: "owner"})
		require.NoError(t, err)
	}
	_, err := repo.CreateWithConflictHandling(ctx, NewCourse{CourseID: "foreign", CourseName: "f", UserInput: "f", Type: "t", UserID: "someone-else"})
	require.NoError(t, err)

	list, err := repo.ListByUser(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "three", list[0].CourseID, "newest first")

	layout, _ := json.Marshal(map[string]any{"courseName": "Renamed"})
	updated, err := repo.Update(ctx, "two", "owner", map[string]any{"course_name": "Two!", "course_layout": layout})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Two!", updated.CourseName)
	assert.Equal(t, "Renamed", updated.Layout().CourseName)

	require.NoError(t, slides.ReplaceForChapter(ctx, "two", "ch-1", []models.ChapterContentSlide{
		{SlideID: "ch-1-01", SlideIndex: 1, AudioFileName: "ch-1-01.mp3", Narration: []byte(`{"fullText":"hi"}`), HTML: "<div/>", RevealData: []byte(`["r1"]`)},
	}))

	require.NoError(t, repo.Delete(ctx, "two", "owner"))
	gone, err := repo.GetForUser(ctx, "two", "owner")
	require.NoError(t, err)
	assert.Nil(t, gone)

	left, err := slides.ListByCourse(ctx, "two")
	require.NoError(t, err)
	assert.Empty(t, left)
}
