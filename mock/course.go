package mock

import (
	"context"

	"github.com/boldstep/coursefetch"
)

var _ coursefetch.CourseService = (*CourseService)(nil)

// CourseService is a mock implementation of coursefetch.CourseService.
type CourseService struct {
	CreateCourseFn   func(ctx context.Context, course *coursefetch.Course) error
	FindCourseByIDFn func(ctx context.Context, id string) (*coursefetch.Course, error)
	FindCoursesFn    func(ctx context.Context, filter coursefetch.CourseFilter) ([]*coursefetch.Course, error)
	DeleteCourseFn   func(ctx context.Context, id string) error
}

func (s *CourseService) CreateCourse(ctx context.Context, course *coursefetch.Course) error {
	return s.CreateCourseFn(ctx, course)
}

func (s *CourseService) FindCourseByID(ctx context.Context, id string) (*coursefetch.Course, error) {
	return s.FindCourseByIDFn(ctx, id)
}

func (s *CourseService) FindCourses(ctx context.Context, filter coursefetch.CourseFilter) ([]*coursefetch.Course, error) {
	return s.FindCoursesFn(ctx, filter)
}

func (s *CourseService) DeleteCourse(ctx context.Context, id string) error {
	return s.DeleteCourseFn(ctx, id)
}
