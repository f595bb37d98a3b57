package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"coursegen/internal/models"
)

func TestExtractKeywords(t *testing.T) {
	ch := models.ChapterInput{
		ChapterTitle: "Introduction to React Hooks",
		SubContent:   []string{"useState & useEffect", "Hooks in practice", "JS"},
	}
	assert.Equal(t, []string{"react", "hooks", "usestate", "useeffect", "practice"}, extractKeywords(ch))
}

func TestScoreCandidate(t *testing.T) {
	ch := models.ChapterInput{ChapterTitle: "React Hooks", SubContent: []string{"useState"}}

	cases := []struct {
		name        string
		title       string
		description string
		want        int
	}{
		{"title keywords and full title", "React Hooks useState", "", 4 + 4 + 4 + 8},
		{"description only", "Lesson", "covers react hooks", 2 + 2},
		{"explained tutorial bonus", "React Hooks explained tutorial", "", 4 + 4 + 8 + 2 + 2},
		{"full course penalty", "React full course", "", 4 - 8},
		{"shorts penalty", "hooks #shorts", "", 4 - 8},
		{"nothing relevant", "Cooking pasta", "", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, scoreCandidate(ch, tc.title, tc.description))
		})
	}
}
