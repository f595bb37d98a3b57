package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"coursegen/internal/models"
	"coursegen/internal/store"
	"coursegen/internal/util"
)

const recentCourseCount = 5

// DashboardService aggregates a user's own courses
type DashboardService struct {
	courses store.CourseRepo
	slides  store.SlideRepo
	users   store.UserRepo
	logger  *util.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(courses store.CourseRepo, slides store.SlideRepo, users store.UserRepo) *DashboardService {
	return &DashboardService{
		courses: courses,
		slides:  slides,
		users:   users,
		logger:  util.NewLogger("DashboardService"),
	}
}

// Summary counts the user's courses, chapters, subtopics and slides
func (ds *DashboardService) Summary(ctx context.Context, userID string) (*models.DashboardSummary, error) {
	if userID == "" {
		return nil, unauthorized()
	}
	ds.logger.Start("Dashboard Summary")
	defer ds.logger.End("Dashboard Summary")

	var (
		courses []models.Course
		user    *models.User
	)

	// Fetch courses and the user row in parallel
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		courses, err = ds.courses.ListByUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("list courses: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		user, err = ds.users.GetByEmail(gctx, userID)
		if err != nil {
			ds.logger.Warn("Failed to load user credits", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		ds.logger.Error("Failed to build dashboard", err)
		return nil, storageError(err)
	}

	summary := &models.DashboardSummary{
		TotalCourses:  len(courses),
		ByLevel:       map[string]int{},
		ByType:        map[string]int{},
		RecentCourses: []models.CourseSummary{},
	}
	if user != nil {
		summary.Credits = user.Credits
	}

	ids := make([]string, 0, len(courses))
	for _, course := range courses {
		ids = append(ids, course.CourseID)
		layout := course.Layout()

		summary.TotalChapters += len(layout.Chapters)
		for _, ch := range layout.Chapters {
			summary.TotalSubtopics += len(ch.SubContent)
		}
		summary.ByLevel[util.FirstNonEmpty(layout.Level, util.LevelMixed)]++
		summary.ByType[util.FirstNonEmpty(course.Type, util.DefaultCourseType)]++

		// courses are newest first
		if len(summary.RecentCourses) < recentCourseCount {
			summary.RecentCourses = append(summary.RecentCourses, models.CourseSummary{
				CourseID:      course.CourseID,
				CourseName:    util.FirstNonEmpty(layout.CourseName, course.CourseName),
				Level:         layout.Level,
				TotalChapters: len(layout.Chapters),
				CreatedAt:     course.CreatedAt,
			})
		}
	}

	slides, err := ds.slides.CountByCourses(ctx, ids)
	if err != nil {
		return nil, storageError(err)
	}
	summary.TotalSlides = slides

	ds.logger.KeyValue("courses", summary.TotalCourses, "chapters", summary.TotalChapters, "slides", summary.TotalSlides)
	return summary, nil
}
