package util

// Log message constants
const (
	LogStart   = "=== %s START ==="
	LogEnd     = "=== %s END ==="
	LogSection = "--- %s ---"
)

// Column limits of the course store
const (
	MaxUserIDLength     = 255
	MaxCourseIDLength   = 255
	MaxCourseNameLength = 255
	MaxUserInputLength  = 1024
	MaxTypeLength       = 255
)

// Course layout limits
const (
	MaxSubtopicsPerChapter = 3
	CourseSlugLength       = 60
	NotesSlugLength        = 80
	DefaultCourseType      = "full-course"
)

// Mock test limits
const (
	MinMockQuestions      = 5
	MaxMockQuestions      = 30
	DefaultMockQuestions  = 10
	MinValidMockQuestions = 3
	MockOptionCount       = 4
	MockChapterLimit      = 12
	MockTopicsPerChapter  = 4
)

// Course levels
const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
	LevelMixed        = "Mixed"
)
