package web

import (
	"fmt"
	"strconv"

	"lms/internal/model"
)

const unpublishedCourseLabel = "This course is unpublished. It will not be visible to students."

// CoursePageView is everything the course setup page renders.
type CoursePageView struct {
	Course     *model.Course
	Categories []model.Category
}

func coursePath(c *model.Course) string { return "/api/courses/" + c.ID }

func publishAction(c *model.Course) string {
	if c.IsPublished {
		return "unpublish"
	}
	return "publish"
}

func formatPrice(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', 2, 64)
}

func chapterHref(courseID, chapterID string) string {
	return fmt.Sprintf("/admin/courses/%s/chapters/%s", courseID, chapterID)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
