package service

import (
	"context"
	"fmt"

	"lms/internal/model"
	"lms/internal/repository"
	"lms/internal/session"
)

// CourseAccess decides whether a session may modify a course.
type CourseAccess struct {
	courses          repository.CourseRepository
	enforceOwnership bool
}

// NewCourseAccess returns the course access policy. With enforceOwnership off
// any authenticated user may edit any course.
func NewCourseAccess(courses repository.CourseRepository, enforceOwnership bool) *CourseAccess {
	return &CourseAccess{courses: courses, enforceOwnership: enforceOwnership}
}

func (a *CourseAccess) CanEdit(s session.Session, c *model.Course) bool {
	if !a.enforceOwnership {
		return true
	}
	return s.Role == model.RoleAdmin || c.UserID == s.UserID
}

// Authorize loads the course and checks the session may edit it.
func (a *CourseAccess) Authorize(ctx context.Context, s session.Session, courseID string) (*model.Course, error) {
	course, err := a.courses.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve course: %w", err)
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}
	if !a.CanEdit(s, course) {
		return nil, ErrForbidden
	}
	return course, nil
}
