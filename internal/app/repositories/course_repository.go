package repositories

import (
	"context"

	"github.com/yigit/campusrecords/internal/app/models"
	"github.com/yigit/campusrecords/internal/pkg/docstore"
)

// CourseCollection stores courses; course_code is unique
var CourseCollection = docstore.CollectionSpec{
	Name:   "courses",
	Unique: []string{"course_code"},
}

// CourseRepository handles storage operations for courses
type CourseRepository struct {
	store[*models.Course]
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(backend docstore.Backend) (*CourseRepository, error) {
	coll, err := docstore.NewCollection(backend, CourseCollection, func() *models.Course {
		return &models.Course{}
	})
	if err != nil {
		return nil, err
	}
	return &CourseRepository{store[*models.Course]{
		coll:         coll,
		entity:       "Course",
		searchFields: []string{"course_code", "course_name", "description"},
	}}, nil
}

// GetByDepartment returns the courses of one department ordered by year level, then semester
func (r *CourseRepository) GetByDepartment(ctx context.Context, departmentID string) ([]*models.Course, error) {
	courses, err := r.coll.Find(ctx, docstore.Query{
		Equals: map[string]string{"department": departmentID},
		Sort: []docstore.SortField{
			{Field: "year_level"},
			{Field: "semester"},
		},
	})
	if err != nil {
		return nil, r.translate("list by department", err)
	}
	return courses, nil
}

// CountByDepartment reports how many courses reference the department
func (r *CourseRepository) CountByDepartment(ctx context.Context, departmentID string) (int, error) {
	courses, err := r.coll.Find(ctx, docstore.Query{
		Equals: map[string]string{"department": departmentID},
	})
	if err != nil {
		return 0, r.translate("count by department", err)
	}
	return len(courses), nil
}
