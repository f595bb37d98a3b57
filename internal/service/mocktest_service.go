package service

import (
	"context"
	"fmt"
	"strings"

	"coursegen/internal/models"
	"coursegen/internal/prompts"
	"coursegen/internal/store"
	"coursegen/internal/util"
)

const (
	mockTestTemperature float32 = 0.3
	mockTestMaxTokens           = 2600
)

// MockTestService builds multiple-choice mock tests from a stored course
type MockTestService struct {
	generator TextGenerator
	courses   store.CourseRepo
	logger    *util.Logger
}

// NewMockTestService creates a new mock test service
func NewMockTestService(generator TextGenerator, courses store.CourseRepo) *MockTestService {
	return &MockTestService{
		generator: generator,
		courses:   courses,
		logger:    util.NewLogger("MockTestService"),
	}
}

// Generate creates a mock test for one of the user's courses. Output the model
// gets wrong is repaired, and unusable output is replaced by a generic set.
func (ms *MockTestService) Generate(ctx context.Context, userID string, req *models.MockTestRequest) (*models.MockTestResponse, error) {
	if userID == "" {
		return nil, unauthorized()
	}
	total := util.DefaultMockQuestions
	if req.TotalQuestions != nil {
		total = *req.TotalQuestions
	}
	if total < util.MinMockQuestions {
		total = util.MinMockQuestions
	} else if total > util.MaxMockQuestions {
		total = util.MaxMockQuestions
	}

	course, err := ms.courses.GetForUser(ctx, req.CourseID, userID)
	if err != nil {
		return nil, storageError(err)
	}
	if course == nil {
		return nil, courseNotFound()
	}

	ms.logger.Start("Mock Test Generation")
	defer ms.logger.End("Mock Test Generation")

	layout := course.Layout()
	courseName := util.StripUnsafe(util.FirstNonEmpty(layout.CourseName, course.CourseName, "Course"))
	level := util.StripUnsafe(util.FirstNonEmpty(layout.Level, util.LevelMixed))

	temperature := mockTestTemperature
	out, err := ms.generator.Generate(ctx,
		prompts.MockTestSystemPrompt(),
		prompts.MockTestUserPrompt(courseName, level, chapterSummary(layout.Chapters), total),
		GenerateOptions{Temperature: &temperature, MaxTokens: mockTestMaxTokens},
	)
	if err != nil {
		ms.logger.Error("Failed to generate mock test", err)
		return nil, llmError(err)
	}

	var questions []models.MockQuestion
	parsed, err := util.ExtractJSON(out)
	if err != nil {
		ms.logger.Warn("Model output was not JSON, using fallback questions", err)
		questions = fallbackQuestions(courseName, total)
	} else {
		questions = normalizeQuestions(parsed, courseName, total)
	}
	ms.logger.KeyValue("courseId", req.CourseID, "questions", len(questions))

	return &models.MockTestResponse{
		CourseID:       req.CourseID,
		CourseName:     courseName,
		TotalQuestions: len(questions),
		Questions:      questions,
	}, nil
}

func chapterSummary(chapters []models.Chapter) string {
	lines := []string{}
	for i, ch := range firstChapters(chapters, util.MockChapterLimit) {
		title := util.StripUnsafe(util.FirstNonEmpty(ch.ChapterTitle, fmt.Sprintf("Chapter %d", i+1)))
		topics := []string{}
		for _, topic := range ch.SubContent {
			if t := util.StripUnsafe(topic); t != "" {
				topics = append(topics, t)
			}
			if len(topics) == util.MockTopicsPerChapter {
				break
			}
		}
		line := fmt.Sprintf("%d. %s", i+1, title)
		if len(topics) > 0 {
			line += " -> " + strings.Join(topics, ", ")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func firstChapters(chapters []models.Chapter, n int) []models.Chapter {
	if len(chapters) > n {
		return chapters[:n]
	}
	return chapters
}

// normalizeQuestions keeps well-formed questions from decoded model output. Ids
// follow the question's position in the output, so dropped items leave gaps.
func normalizeQuestions(value any, courseName string, total int) []models.MockQuestion {
	items, ok := value.([]any)
	if !ok {
		if obj, isObj := value.(map[string]any); isObj {
			items, ok = obj["questions"].([]any)
		}
	}
	if !ok {
		return fallbackQuestions(courseName, total)
	}

	out := []models.MockQuestion{}
	for i, item := range items {
		src := util.AsMap(item)

		options := []string{}
		for _, opt := range util.AsStringSlice(src["options"]) {
			if o := util.StripUnsafe(opt); o != "" {
				options = append(options, o)
			}
			if len(options) == util.MockOptionCount {
				break
			}
		}
		if len(options) < util.MockOptionCount {
			continue
		}

		correct := util.StripUnsafe(util.AsString(src["correctAnswer"]))
		if !contains(options, correct) {
			correct = options[0]
		}

		question := util.StripUnsafe(util.AsString(src["question"]))
		if _, present := src["question"]; !present || src["question"] == nil {
			question = fmt.Sprintf("Question %d", i+1)
		}

		out = append(out, models.MockQuestion{
			ID:            fmt.Sprintf("q-%d", i+1),
			Question:      question,
			Options:       options,
			CorrectAnswer: correct,
			Explanation:   util.StripUnsafe(util.AsString(src["explanation"])),
		})
	}

	if len(out) < util.MinValidMockQuestions {
		return fallbackQuestions(courseName, total)
	}
	if len(out) > total {
		out = out[:total]
	}
	return out
}

func fallbackQuestions(courseName string, total int) []models.MockQuestion {
	out := make([]models.MockQuestion, 0, total)
	for i := 1; i <= total; i++ {
		options := []string{
			"It focuses on practical understanding and application",
			"It should only be learned theoretically",
			"It is unrelated to problem-solving",
			"It cannot be improved with practice",
		}
		out = append(out, models.MockQuestion{
			ID:            fmt.Sprintf("q-%d", i),
			Question:      fmt.Sprintf("Which statement best reflects the core concept of %s? (Q%d)", courseName, i),
			Options:       options,
			CorrectAnswer: options[0],
			Explanation:   "The course emphasizes understanding concepts and applying them through practice.",
		})
	}
	return out
}

func contains(items []string, s string) bool {
	for _, item := range items {
		if item == s {
			return true
		}
	}
	return false
}
