package service

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursegen/internal/models"
	"coursegen/internal/store"
	"coursegen/internal/util"
)

func question(q string, options []any, correct string) map[string]any {
	return map[string]any{"question": q, "options": options, "correctAnswer": correct, "explanation": "because"}
}

func TestNormalizeQuestions(t *testing.T) {
	opts := []any{"A", "B", "C", "D"}

	t.Run("repairs and numbers by position", func(t *testing.T) {
		value := []any{
			question("Q one", opts, "B"),
			question("Q two", []any{"A", "B"}, "A"),
			question("Q three", opts, "Z"),
			map[string]any{"options": []any{"A", "B", "C", "D", "E"}, "correctAnswer": "D"},
		}
		got := normalizeQuestions(value, "Go", 10)
		require.Len(t, got, 3)

		assert.Equal(t, "q-1", got[0].ID)
		assert.Equal(t, "B", got[0].CorrectAnswer)

		assert.Equal(t, "q-3", got[1].ID, "dropped items leave id gaps")
		assert.Equal(t, "A", got[1].CorrectAnswer, "unknown answer becomes the first option")

		assert.Equal(t, "q-4", got[2].ID)
		assert.Equal(t, "Question 4", got[2].Question)
		assert.Equal(t, []string{"A", "B", "C", "D"}, got[2].Options)
		assert.Equal(t, "D", got[2].CorrectAnswer)
	})

	t.Run("questions object", func(t *testing.T) {
		value := map[string]any{"questions": []any{question("1", opts, "A"), question("2", opts, "A"), question("3", opts, "A")}}
		assert.Len(t, normalizeQuestions(value, "Go", 10), 3)
	})

	t.Run("truncates to total", func(t *testing.T) {
		items := []any{}
		for i := 0; i < 8; i++ {
			items = append(items, question(fmt.Sprint(i), opts, "A"))
		}
		assert.Len(t, normalizeQuestions(items, "Go", 5), 5)
	})

	t.Run("too few valid falls back", func(t *testing.T) {
		got := normalizeQuestions([]any{question("1", opts, "A")}, "Go", 6)
		require.Len(t, got, 6)
		assert.Contains(t, got[0].Question, "core concept of Go")
		assert.Equal(t, got[0].Options[0], got[0].CorrectAnswer)
	})

	t.Run("not an array", func(t *testing.T) {
		assert.Len(t, normalizeQuestions("nope", "Go", 5), 5)
	})
}

func TestChapterSummary(t *testing.T) {
	chapters := []models.Chapter{
		{ChapterTitle: "Basics", SubContent: []string{"a", " ", "b", "c", "d", "e"}},
		{SubContent: nil},
	}
	assert.Equal(t, "1. Basics -> a, b, c, d\n2. Chapter 2", chapterSummary(chapters))
}

func TestMockTestGenerate(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	courses := store.NewCourseRepo(db)
	_, err := courses.CreateWithConflictHandling(ctx, store.NewCourse{
		CourseID: "go", CourseName: "Go", UserInput: "go", Type: "full-course", UserID: owner,
		Layout: &models.CourseLayout{CourseName: "Go Basics", Level: "Beginner", Chapters: []models.Chapter{{ChapterID: "c1", ChapterTitle: "Syntax", SubContent: []string{"vars"}}}},
	})
	require.NoError(t, err)

	out := `Here you go: [` +
		`{"question":"What is :=?","options":["decl","loop","type","pkg"],"correctAnswer":"decl"},` +
		`{"question":"Zero value of int?","options":["0","nil","1","-1"],"correctAnswer":"0"},` +
		`{"question":"Keyword for loops?","options":["for","while","loop","do"],"correctAnswer":"for"}]`
	gen := &fakeGenerator{outputs: []string{out}}
	svc := NewMockTestService(gen, courses)

	total := 50
	resp, err := svc.Generate(ctx, owner, &models.MockTestRequest{CourseID: "go", TotalQuestions: &total})
	require.NoError(t, err)

	assert.Equal(t, "Go Basics", resp.CourseName)
	assert.Equal(t, 3, resp.TotalQuestions)
	require.Equal(t, 1, gen.callCount())
	call := gen.calls[0]
	assert.Contains(t, call.User, "1. Syntax -> vars")
	assert.Contains(t, call.User, fmt.Sprintf("Create exactly %d multiple-choice questions", util.MaxMockQuestions))
	require.NotNil(t, call.Opts.Temperature)
	assert.InDelta(t, 0.3, *call.Opts.Temperature, 0.0001)
	assert.Equal(t, 2600, call.Opts.MaxTokens)

	t.Run("non json output uses fallback", func(t *testing.T) {
		svc := NewMockTestService(&fakeGenerator{outputs: []string{"sorry"}}, courses)
		resp, err := svc.Generate(ctx, owner, &models.MockTestRequest{CourseID: "go"})
		require.NoError(t, err)
		assert.Equal(t, util.DefaultMockQuestions, resp.TotalQuestions)
	})

	t.Run("other user's course", func(t *testing.T) {
		_, err := svc.Generate(ctx, "someone@else.com", &models.MockTestRequest{CourseID: "go"})
		requireAPIErr(t, err, http.StatusNotFound, CodeCourseNotFound)
	})
}
