package service

import (
	"context"
	"net/http"
	"strings"

	"coursegen/internal/apierr"
	"coursegen/internal/models"
	"coursegen/internal/prompts"
	"coursegen/internal/util"
)

// NotesService generates markdown revision notes for a chapter
type NotesService struct {
	generator TextGenerator
	logger    *util.Logger
}

// NewNotesService creates a new notes service
func NewNotesService(generator TextGenerator) *NotesService {
	return &NotesService{
		generator: generator,
		logger:    util.NewLogger("NotesService"),
	}
}

// Generate produces notes for one chapter, citing the chapter's selected video when given
func (ns *NotesService) Generate(ctx context.Context, req *models.NotesRequest) (*models.NotesResponse, error) {
	if req.Chapter == nil || strings.TrimSpace(req.Chapter.ChapterTitle) == "" {
		return nil, apierr.BadRequest(CodeInvalidRequest, "chapterTitle is required")
	}

	ns.logger.Start("Chapter Notes Generation")
	defer ns.logger.End("Chapter Notes Generation")

	userPrompt := prompts.NotesUserPrompt(req.CourseName, *req.Chapter, req.Video)
	out, err := ns.generator.Generate(ctx, prompts.NotesSystemPrompt(), userPrompt, GenerateOptions{})
	if err != nil {
		ns.logger.Error("Failed to generate notes", err)
		return nil, llmError(err)
	}

	notes := strings.TrimSpace(out)
	if notes == "" {
		return nil, apierr.New(http.StatusInternalServerError, CodeEmptyNotes, "Could not generate notes", nil)
	}

	return &models.NotesResponse{
		Notes:    notes,
		FileName: notesFileName(req.CourseName, req.Chapter.ChapterTitle),
	}, nil
}

func notesFileName(courseName, chapterTitle string) string {
	if courseName == "" {
		courseName = "course"
	}
	return util.Slugify(courseName, util.NotesSlugLength) + "-" + util.Slugify(chapterTitle, util.NotesSlugLength) + "-notes.md"
}
