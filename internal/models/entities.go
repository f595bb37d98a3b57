package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// User is a person known to the identity provider, keyed by email.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Credits   int       `gorm:"not null;default:2" json:"credits"`
	CreatedAt time.Time `json:"createdAt"`
}

func (User) TableName() string { return "users" }

// Course is a generated course owned by a user (UserID holds the owner's email).
type Course struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       string         `gorm:"size:255;not null;index" json:"userId"`
	CourseID     string         `gorm:"size:255;not null;uniqueIndex" json:"courseId"`
	CourseName   string         `gorm:"size:255;not null" json:"courseName"`
	UserInput    string         `gorm:"size:1024;not null" json:"userInput"`
	Type         string         `gorm:"size:255;not null" json:"type"`
	CourseLayout datatypes.JSON `json:"courseLayout"`
	CreatedAt    time.Time      `gorm:"index" json:"createdAt"`
}

func (Course) TableName() string { return "courses" }

// Layout decodes the stored layout. A missing or malformed layout yields an empty one.
func (c *Course) Layout() CourseLayout {
	var layout CourseLayout
	if c == nil || len(c.CourseLayout) == 0 {
		return layout
	}
	if err := json.Unmarshal(c.CourseLayout, &layout); err != nil {
		return CourseLayout{}
	}
	return layout
}

// ChapterContentSlide is one narrated slide of a chapter.
type ChapterContentSlide struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CourseID      string         `gorm:"size:255;not null;index:idx_slide_chapter" json:"courseId"`
	ChapterID     string         `gorm:"size:255;not null;index:idx_slide_chapter" json:"chapterId"`
	SlideID       string         `gorm:"size:255;not null" json:"slideId"`
	SlideIndex    int            `gorm:"not null" json:"slideIndex"`
	Title         string         `gorm:"size:255" json:"title"`
	Subtitle      string         `gorm:"size:255" json:"subtitle"`
	AudioFileName string         `gorm:"size:255;not null" json:"audioFileName"`
	Narration     datatypes.JSON `gorm:"not null" json:"narration"`
	HTML          string         `gorm:"type:text;not null" json:"html"`
	RevealData    datatypes.JSON `gorm:"not null" json:"revealData"`
}

func (ChapterContentSlide) TableName() string { return "chapter_content_slides" }
