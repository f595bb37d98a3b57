package models

import (
	"encoding/json"
	"time"
)

// ===== Course Layout Models =====

// Chapter is one unit of a course layout
type Chapter struct {
	ChapterID    string   `json:"chapterId"`
	ChapterTitle string   `json:"chapterTitle"`
	SubContent   []string `json:"subContent"`
}

// CourseLayout is the chapter/subtopic outline produced by the language model
type CourseLayout struct {
	CourseID          string    `json:"courseId"`
	CourseName        string    `json:"courseName"`
	CourseDescription string    `json:"courseDescription"`
	Level             string    `json:"level"`
	TotalChapters     int       `json:"totalChapters"`
	Chapters          []Chapter `json:"chapters"`
}

// GenerateCourseRequest represents a request to generate a course layout
type GenerateCourseRequest struct {
	UserInput string `json:"userInput" binding:"required,min=3,max=1024"`
	CourseID  string `json:"courseId" binding:"required,min=1,max=255"`
	Type      string `json:"type" binding:"omitempty,max=255"`
}

// UpdateCourseRequest represents a partial course update
type UpdateCourseRequest struct {
	CourseID     string          `json:"courseId" binding:"required,min=1"`
	CourseName   *string         `json:"courseName" binding:"omitempty,min=1,max=255"`
	UserInput    *string         `json:"userInput" binding:"omitempty,min=1,max=1024"`
	Type         *string         `json:"type" binding:"omitempty,min=1,max=255"`
	CourseLayout json.RawMessage `json:"courseLayout" swaggertype:"object"`
}

// HasChanges reports whether at least one updatable field was provided
func (r *UpdateCourseRequest) HasChanges() bool {
	return r.CourseName != nil || r.UserInput != nil || r.Type != nil || len(r.CourseLayout) > 0
}

// CourseListResponse lists a user's courses
type CourseListResponse struct {
	Courses []Course `json:"courses"`
}

// CourseDetailResponse is a course together with its generated slides
type CourseDetailResponse struct {
	Course
	ChapterContentSlides []ChapterContentSlide `json:"chapterContentSlides"`
}

// ===== Video Models =====

// ChapterInput is a chapter as sent by clients; every field is optional
type ChapterInput struct {
	ChapterID    string   `json:"chapterId,omitempty"`
	ChapterTitle string   `json:"chapterTitle,omitempty"`
	SubContent   []string `json:"subContent,omitempty"`
}

// VideoSearchRequest asks for one video recommendation per chapter
type VideoSearchRequest struct {
	CourseName   string         `json:"courseName"`
	Chapters     []ChapterInput `json:"chapters"`
	ForceRefresh bool           `json:"forceRefresh"`
}

// ChapterVideo is the video picked for a chapter. Video fields are null when nothing matched.
type ChapterVideo struct {
	ChapterID    string  `json:"chapterId"`
	ChapterTitle string  `json:"chapterTitle"`
	VideoID      *string `json:"videoId"`
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	ThumbnailURL *string `json:"thumbnailUrl"`
	ChannelTitle *string `json:"channelTitle"`
	PublishedAt  *string `json:"publishedAt"`
	WatchURL     *string `json:"watchUrl"`
	EmbedURL     *string `json:"embedUrl"`
}

// VideoSearchResponse carries per-chapter videos and the first API warning, if any
type VideoSearchResponse struct {
	Videos  []ChapterVideo `json:"videos"`
	Warning string         `json:"warning,omitempty"`
}

// ===== Notes Models =====

// VideoReference describes the video a chapter's notes should cite
type VideoReference struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	WatchURL     *string `json:"watchUrl"`
	ChannelTitle *string `json:"channelTitle"`
}

// NotesRequest asks for revision notes for one chapter
type NotesRequest struct {
	CourseName string          `json:"courseName"`
	Chapter    *ChapterInput   `json:"chapter"`
	Video      *VideoReference `json:"video"`
}

// NotesResponse is the generated markdown with a suggested download name
type NotesResponse struct {
	Notes    string `json:"notes"`
	FileName string `json:"fileName"`
}

// ===== Mock Test Models =====

// MockTestRequest asks for a mock test over one of the user's courses
type MockTestRequest struct {
	CourseID       string `json:"courseId" binding:"required,min=1"`
	TotalQuestions *int   `json:"totalQuestions" binding:"omitempty,min=5,max=30"`
}

// MockQuestion is a single multiple-choice question
type MockQuestion struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// MockTestResponse is a generated mock test
type MockTestResponse struct {
	CourseID       string         `json:"courseId"`
	CourseName     string         `json:"courseName"`
	TotalQuestions int            `json:"totalQuestions"`
	Questions      []MockQuestion `json:"questions"`
}

// ===== Slide Models =====

// SlideRequest asks for narrated slides for one chapter of a stored course
type SlideRequest struct {
	CourseID  string `json:"courseId" form:"courseId" binding:"required,min=1"`
	ChapterID string `json:"chapterId" form:"chapterId" binding:"required,min=1"`
}

// SlideResponse lists the slides stored for a chapter
type SlideResponse struct {
	CourseID  string                `json:"courseId"`
	ChapterID string                `json:"chapterId"`
	Slides    []ChapterContentSlide `json:"slides"`
}

// ===== User Models =====

// Identity is the authenticated caller as described by the identity provider
type Identity struct {
	Email     string
	Name      string
	FirstName string
	LastName  string
	Username  string
}

// UserResponse is a stored user, or a guest placeholder when storage or identity is unavailable
type UserResponse struct {
	ID              uint    `json:"id"`
	Email           *string `json:"email"`
	Name            string  `json:"name"`
	Credits         int     `json:"credits"`
	Fallback        bool    `json:"fallback,omitempty"`
	AuthUnavailable bool    `json:"authUnavailable,omitempty"`
	DBUnavailable   bool    `json:"dbUnavailable,omitempty"`
}

// ===== Dashboard Models =====

// CourseSummary is a compact view of a course for the dashboard
type CourseSummary struct {
	CourseID      string    `json:"courseId"`
	CourseName    string    `json:"courseName"`
	Level         string    `json:"level"`
	TotalChapters int       `json:"totalChapters"`
	CreatedAt     time.Time `json:"createdAt"`
}

// DashboardSummary aggregates the caller's own courses
type DashboardSummary struct {
	TotalCourses   int             `json:"totalCourses"`
	TotalChapters  int             `json:"totalChapters"`
	TotalSubtopics int             `json:"totalSubtopics"`
	TotalSlides    int64           `json:"totalSlides"`
	Credits        int             `json:"credits"`
	ByLevel        map[string]int  `json:"byLevel"`
	ByType         map[string]int  `json:"byType"`
	RecentCourses  []CourseSummary `json:"recentCourses"`
}

// ===== Health Models =====

// DatabaseCheck reports store reachability
type DatabaseCheck struct {
	OK        bool   `json:"ok"`
	LatencyMs *int64 `json:"latencyMs"`
}

// HealthChecks groups the individual checks
type HealthChecks struct {
	Env      interface{}   `json:"env"`
	Database DatabaseCheck `json:"database"`
}

// HealthResponse is the body of the health endpoint
type HealthResponse struct {
	Status         string       `json:"status"` // "ok" or "degraded"
	Timestamp      string       `json:"timestamp"`
	UptimeSec      int64        `json:"uptimeSec"`
	Checks         HealthChecks `json:"checks"`
	ResponseTimeMs int64        `json:"responseTimeMs"`
}

// ===== API Response Wrappers =====

// APIResponse represents a standard API response wrapper
type APIResponse struct {
	Success  bool        `json:"success"`
	Data     interface{} `json:"data,omitempty"`
	Error    *ErrorInfo  `json:"error,omitempty"`
	Metadata Metadata    `json:"metadata"`
}

// ErrorInfo represents error details in API response
type ErrorInfo struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Metadata represents response metadata
type Metadata struct {
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id"`
}
