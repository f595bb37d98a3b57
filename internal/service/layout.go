package service

import (
	"fmt"
	"strings"

	"coursegen/internal/models"
	"coursegen/internal/util"
)

// parseLayout recovers a layout from raw model output. An array yields its first
// element. ok is false when no JSON could be extracted at all.
func parseLayout(text string) (models.CourseLayout, bool) {
	value, err := util.ExtractJSON(text)
	if err != nil {
		return models.CourseLayout{}, false
	}
	if arr, isArr := value.([]any); isArr {
		if len(arr) == 0 {
			value = nil
		} else {
			value = arr[0]
		}
	}
	return normalizeLayout(util.AsMap(value)), true
}

var courseLevels = []string{util.LevelBeginner, util.LevelIntermediate, util.LevelAdvanced, util.LevelMixed}

// normalizeLevel maps a known level to its canonical spelling. Unknown levels
// are kept as written.
func normalizeLevel(level string) string {
	level = strings.TrimSpace(level)
	for _, known := range courseLevels {
		if strings.EqualFold(level, known) {
			return known
		}
	}
	return level
}

// normalizeLayout coerces a decoded object into a layout: untitled chapters are
// dropped, missing ids become "chapter-{n}", subtopics are trimmed and capped.
func normalizeLayout(raw map[string]any) models.CourseLayout {
	layout := models.CourseLayout{
		CourseID:          strings.TrimSpace(util.AsString(raw["courseId"])),
		CourseName:        strings.TrimSpace(util.AsString(raw["courseName"])),
		CourseDescription: strings.TrimSpace(util.AsString(raw["courseDescription"])),
		Level:             normalizeLevel(util.AsString(raw["level"])),
		Chapters:          []models.Chapter{},
	}

	rawChapters, _ := raw["chapters"].([]any)
	for _, item := range rawChapters {
		ch := util.AsMap(item)
		title := strings.TrimSpace(util.AsString(ch["chapterTitle"]))
		if title == "" {
			continue
		}
		id := strings.TrimSpace(util.AsString(ch["chapterId"]))
		if id == "" {
			id = fmt.Sprintf("chapter-%d", len(layout.Chapters)+1)
		}
		layout.Chapters = append(layout.Chapters, models.Chapter{
			ChapterID:    id,
			ChapterTitle: title,
			SubContent:   normalizeSubContent(util.AsStringSlice(ch["subContent"])),
		})
	}

	layout.TotalChapters = len(layout.Chapters)
	return layout
}

func normalizeSubContent(items []string) []string {
	out := []string{}
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
		if len(out) == util.MaxSubtopicsPerChapter {
			break
		}
	}
	return out
}

// fallbackLayout is the fixed five-chapter outline used when the model output is unusable.
func fallbackLayout(userInput, courseID string) models.CourseLayout {
	topic := strings.TrimSpace(userInput)
	id := courseID
	if id == "" {
		id = util.Slugify(topic, util.CourseSlugLength)
	}
	if id == "" {
		id = "generated-course"
	}

	chapters := []models.Chapter{
		{ChapterID: id + "-foundations", ChapterTitle: "Foundations and Core Concepts", SubContent: []string{"What this topic is", "Why it matters", "Essential terminology"}},
		{ChapterID: id + "-setup", ChapterTitle: "Environment Setup and Basics", SubContent: []string{"Initial setup", "Basic workflow", "First practical steps"}},
		{ChapterID: id + "-key-techniques", ChapterTitle: "Key Techniques", SubContent: []string{"Core method 1", "Core method 2", "When to use each"}},
		{ChapterID: id + "-real-world", ChapterTitle: "Real-World Usage", SubContent: []string{"Applied examples", "Common patterns", "Troubleshooting basics"}},
		{ChapterID: id + "-revision", ChapterTitle: "Revision and Next Steps", SubContent: []string{"Recap", "Common mistakes", "Practice roadmap"}},
	}

	return models.CourseLayout{
		CourseID:          id,
		CourseName:        "Complete Guide: " + topic,
		CourseDescription: fmt.Sprintf("A practical, step-by-step course on %s for learners who want strong fundamentals and clear progression.", topic),
		Level:             util.LevelBeginner,
		TotalChapters:     len(chapters),
		Chapters:          chapters,
	}
}
