package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/yigit/campusrecords/internal/app/integrity"
	"github.com/yigit/campusrecords/internal/app/models"
	"github.com/yigit/campusrecords/internal/app/models/dto"
	"github.com/yigit/campusrecords/internal/app/repositories"
	"github.com/yigit/campusrecords/internal/pkg/apperrors"
)

// CourseService handles course-related operations. Courses it returns carry their
// populated department when the reference still resolves.
type CourseService struct {
	courseRepo     *repositories.CourseRepository
	departmentRepo *repositories.DepartmentRepository
	guard          *integrity.Guard
	logger         zerolog.Logger
}

// NewCourseService creates a new course service instance
func NewCourseService(
	courseRepo *repositories.CourseRepository,
	departmentRepo *repositories.DepartmentRepository,
	guard *integrity.Guard,
	logger zerolog.Logger,
) *CourseService {
	return &CourseService{
		courseRepo:     courseRepo,
		departmentRepo: departmentRepo,
		guard:          guard,
		logger:         logger,
	}
}

// GetAllCourses returns every course, newest first
func (s *CourseService) GetAllCourses(ctx context.Context) ([]*models.Course, error) {
	courses, err := s.courseRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, courses)
}

// GetCourseByID retrieves a course by ID
func (s *CourseService) GetCourseByID(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.populate(ctx, []*models.Course{course}); err != nil {
		return nil, err
	}
	return course, nil
}

// GetCoursesByDepartment returns a department's courses ordered by year level, then semester
func (s *CourseService) GetCoursesByDepartment(ctx context.Context, departmentID string) ([]*models.Course, error) {
	courses, err := s.courseRepo.GetByDepartment(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, courses)
}

// SearchCourses matches course code, name and description
func (s *CourseService) SearchCourses(ctx context.Context, query string) ([]*models.Course, error) {
	courses, err := s.courseRepo.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, courses)
}

// CreateCourse validates and stores a new course
func (s *CourseService) CreateCourse(ctx context.Context, req *dto.CreateCourseRequest) (*models.Course, error) {
	course := req.ToModel()
	if err := s.guard.CheckCourse(ctx, course, nil); err != nil {
		return nil, err
	}

	created, err := s.courseRepo.Create(ctx, course)
	if err != nil {
		s.logger.Error().Err(err).Str("courseCode", course.CourseCode).Msg("Failed to create course")
		return nil, err
	}
	created.PopulatedDepartment = course.PopulatedDepartment
	s.logger.Info().Str("courseID", created.ID).Str("courseCode", created.CourseCode).Msg("Course created")
	return created, nil
}

// UpdateCourse merges the supplied fields into the stored course and re-validates it
func (s *CourseService) UpdateCourse(ctx context.Context, id string, req *dto.UpdateCourseRequest) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := *course

	req.ApplyTo(course)
	if err := s.guard.CheckCourse(ctx, course, &previous); err != nil {
		return nil, err
	}

	updated, err := s.courseRepo.Update(ctx, id, course)
	if err != nil {
		s.logger.Error().Err(err).Str("courseID", id).Msg("Failed to update course")
		return nil, err
	}
	updated.PopulatedDepartment = course.PopulatedDepartment
	return updated, nil
}

// DeleteCourse removes a course
func (s *CourseService) DeleteCourse(ctx context.Context, id string) error {
	if err := s.courseRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("courseID", id).Msg("Course deleted")
	return nil
}

// populate attaches each course's department. Dangling references are left unpopulated.
func (s *CourseService) populate(ctx context.Context, courses []*models.Course) ([]*models.Course, error) {
	if len(courses) == 1 {
		dept, err := s.departmentRepo.GetByID(ctx, courses[0].Department)
		switch {
		case err == nil:
			courses[0].PopulatedDepartment = dept
		case !errors.Is(err, apperrors.ErrResourceNotFound):
			return nil, err
		}
		return courses, nil
	}

	departments, err := s.departmentRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	PopulateDepartments(courses, departments)
	return courses, nil
}

// PopulateDepartments attaches departments to courses by id
func PopulateDepartments(courses []*models.Course, departments []*models.Department) {
	byID := make(map[string]*models.Department, len(departments))
	for _, d := range departments {
		byID[d.ID] = d
	}
	for _, c := range courses {
		c.PopulatedDepartment = byID[c.Department]
	}
}
