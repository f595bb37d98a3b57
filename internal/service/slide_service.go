package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"gorm.io/datatypes"

	"coursegen/internal/apierr"
	"coursegen/internal/models"
	"coursegen/internal/prompts"
	"coursegen/internal/store"
	"coursegen/internal/util"
)

var sentenceEnd = regexp.MustCompile(`[.!?]+(\s|$)`)

// SlideService generates narrated slides for a chapter of a stored course
type SlideService struct {
	generator TextGenerator
	courses   store.CourseRepo
	slides    store.SlideRepo
	logger    *util.Logger
}

// NewSlideService creates a new slide service
func NewSlideService(generator TextGenerator, courses store.CourseRepo, slides store.SlideRepo) *SlideService {
	return &SlideService{
		generator: generator,
		courses:   courses,
		slides:    slides,
		logger:    util.NewLogger("SlideService"),
	}
}

// Generate asks the model for one slide per subtopic and replaces the chapter's stored slides.
func (ss *SlideService) Generate(ctx context.Context, userID string, req *models.SlideRequest) (*models.SlideResponse, error) {
	if userID == "" {
		return nil, unauthorized()
	}

	course, err := ss.courses.GetForUser(ctx, req.CourseID, userID)
	if err != nil {
		return nil, storageError(err)
	}
	if course == nil {
		return nil, courseNotFound()
	}

	layout := course.Layout()
	var chapter *models.Chapter
	for i := range layout.Chapters {
		if layout.Chapters[i].ChapterID == req.ChapterID {
			chapter = &layout.Chapters[i]
			break
		}
	}
	if chapter == nil {
		return nil, apierr.NotFound(CodeChapterNotFound, "Chapter not found in course layout")
	}

	ss.logger.Start("Chapter Slide Generation")
	defer ss.logger.End("Chapter Slide Generation")

	slug := util.Slugify(chapter.ChapterID, util.NotesSlugLength)
	if slug == "" {
		slug = util.FirstNonEmpty(util.Slugify(chapter.ChapterTitle, util.NotesSlugLength), "chapter")
	}
	courseName := util.FirstNonEmpty(layout.CourseName, course.CourseName)

	out, err := ss.generator.Generate(ctx,
		prompts.SlidesSystemPrompt(),
		prompts.SlidesUserPrompt(courseName, chapter.ChapterTitle, slug, chapter.SubContent),
		GenerateOptions{},
	)
	if err != nil {
		ss.logger.Error("Failed to generate slides", err)
		return nil, llmError(err)
	}

	ss.logger.Section("Slide Normalization")
	slides, err := normalizeSlides(out, slug, *chapter)
	if err != nil {
		ss.logger.Warn("Unusable slide output", err)
		return nil, apierr.New(http.StatusBadGateway, CodeSlidesInvalid, "The model returned unusable slides. Please try again.", err)
	}

	if err := ss.slides.ReplaceForChapter(ctx, course.CourseID, chapter.ChapterID, slides); err != nil {
		ss.logger.Error("Failed to store slides", err)
		return nil, storageError(err)
	}
	ss.logger.KeyValue("courseId", course.CourseID, "chapterId", chapter.ChapterID, "slides", len(slides))

	return &models.SlideResponse{CourseID: course.CourseID, ChapterID: chapter.ChapterID, Slides: slides}, nil
}

// List returns the slides stored for a chapter of the caller's course.
func (ss *SlideService) List(ctx context.Context, userID string, req *models.SlideRequest) (*models.SlideResponse, error) {
	if userID == "" {
		return nil, unauthorized()
	}

	course, err := ss.courses.GetForUser(ctx, req.CourseID, userID)
	if err != nil {
		return nil, storageError(err)
	}
	if course == nil {
		return nil, courseNotFound()
	}

	slides, err := ss.slides.ListByChapter(ctx, course.CourseID, req.ChapterID)
	if err != nil {
		ss.logger.Error("Failed to load slides", err)
		return nil, storageError(err)
	}
	return &models.SlideResponse{CourseID: course.CourseID, ChapterID: req.ChapterID, Slides: slides}, nil
}

// normalizeSlides rebuilds slide ids, audio names and reveal keys from position,
// keeping only the model's text and markup.
func normalizeSlides(text, slug string, chapter models.Chapter) ([]models.ChapterContentSlide, error) {
	value, err := util.ExtractJSON(text)
	if err != nil {
		return nil, err
	}
	items, ok := value.([]any)
	if !ok {
		items, ok = util.AsMap(value)["slides"].([]any)
	}
	if !ok {
		return nil, fmt.Errorf("slides output is not an array")
	}

	out := []models.ChapterContentSlide{}
	for _, item := range items {
		src := util.AsMap(item)
		html := strings.TrimSpace(util.AsString(src["html"]))
		narration := narrationText(src["narration"])
		if html == "" && narration == "" {
			continue
		}

		index := len(out) + 1
		slideID := fmt.Sprintf("%s-0%d", slug, index)
		title := util.StripUnsafe(util.AsString(src["title"]))
		if title == "" && index <= len(chapter.SubContent) {
			title = chapter.SubContent[index-1]
		}

		narrationJSON, _ := json.Marshal(map[string]string{"fullText": narration})
		revealJSON, _ := json.Marshal(revealKeys(len(util.AsStringSlice(src["revealData"])), narration))

		out = append(out, models.ChapterContentSlide{
			SlideID:       slideID,
			SlideIndex:    index,
			Title:         util.FitToLength(title, util.MaxCourseNameLength),
			Subtitle:      util.FitToLength(util.AsString(src["subtitle"]), util.MaxCourseNameLength),
			AudioFileName: slideID + ".mp3",
			Narration:     datatypes.JSON(narrationJSON),
			HTML:          html,
			RevealData:    datatypes.JSON(revealJSON),
		})
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("slides output has no usable slides")
	}
	return out, nil
}

func narrationText(v any) string {
	if s, ok := v.(string); ok {
		return util.StripUnsafe(s)
	}
	return util.StripUnsafe(util.AsString(util.AsMap(v)["fullText"]))
}

// revealKeys returns r1..rk. k is the model's key count, else the narration's sentence count, at least 1.
func revealKeys(declared int, narration string) []string {
	k := declared
	if k == 0 {
		k = len(sentenceEnd.FindAllStringIndex(narration, -1))
	}
	if k == 0 {
		k = 1
	}
	keys := make([]string, k)
	for i := range keys {
		keys[i] = fmt.Sprintf("r%d", i+1)
	}
	return keys
}
