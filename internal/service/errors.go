package service

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"coursegen/internal/apierr"
	"coursegen/internal/store"
)

var (
	ErrCourseNotFound   = errors.New("course not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrLLMNotConfigured = errors.New("language model API key is not configured")
)

// Error codes surfaced in the response envelope.
const (
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeCourseNotFound     = "COURSE_NOT_FOUND"
	CodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	CodeSaveFailed         = "SAVE_FAILED"
	CodeQuotaExceeded      = "QUOTA_EXCEEDED"
	CodeLLMUnreachable     = "LLM_UNREACHABLE"
	CodeLLMNotConfigured   = "LLM_NOT_CONFIGURED"
	CodeGenerationFailed   = "GENERATION_FAILED"
	CodeMissingCourseName  = "MISSING_COURSE_NAME"
	CodeYouTubeNotConfig   = "YOUTUBE_NOT_CONFIGURED"
	CodeEmptyNotes         = "EMPTY_NOTES"
	CodeSlidesInvalid      = "SLIDES_INVALID"
	CodeChapterNotFound    = "CHAPTER_NOT_FOUND"
)

func unauthorized() *apierr.Error {
	return apierr.New(http.StatusUnauthorized, CodeUnauthorized, "Unauthorized", ErrUnauthorized)
}

func courseNotFound() *apierr.Error {
	return apierr.New(http.StatusNotFound, CodeCourseNotFound, "Course not found", ErrCourseNotFound)
}

// storageError maps a store failure to a 503 when the database is unreachable
// or rejected the write, and passes anything else through.
func storageError(err error) error {
	if err == nil {
		return nil
	}
	if store.IsUnavailable(err) {
		return apierr.Unavailable(CodeStorageUnavailable, "Course storage is temporarily unavailable. Please try again shortly.", err)
	}
	if store.IsSaveFailure(err) {
		return apierr.Unavailable(CodeSaveFailed, "Unable to save this generated course. Please try again.", err)
	}
	return err
}

// llmError maps a completion failure to the status a caller should see.
func llmError(err error) *apierr.Error {
	if errors.Is(err, ErrLLMNotConfigured) {
		return apierr.New(http.StatusInternalServerError, CodeLLMNotConfigured, "Language model is not configured", err)
	}
	if isQuotaError(err) {
		return apierr.New(http.StatusTooManyRequests, CodeQuotaExceeded, "Model quota exceeded. Try again later or switch to another model.", err)
	}
	if isNetworkError(err) {
		return apierr.Unavailable(CodeLLMUnreachable, "Unable to reach the language model API. Check firewall/proxy/VPN and try again.", err)
	}
	return apierr.Unavailable(CodeGenerationFailed, "Failed to generate content. Please try again.", err)
}

func isQuotaError(err error) bool {
	if llmStatus(err) == http.StatusTooManyRequests {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "resource exhausted") || strings.Contains(msg, "resource_exhausted")
}

func isNetworkError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "fetch failed")
}
