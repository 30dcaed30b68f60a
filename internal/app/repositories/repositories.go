package repositories

import (
	"fmt"

	"github.com/yigit/campusrecords/internal/pkg/docstore"
)

// CollectionSpecs lists every collection so backends can prepare their unique indexes
func CollectionSpecs() []docstore.CollectionSpec {
	return []docstore.CollectionSpec{
		DepartmentCollection,
		CourseCollection,
		StudentCollection,
		UserCollection,
	}
}

// Repositories holds all the repository instances
type Repositories struct {
	DepartmentRepository *DepartmentRepository
	CourseRepository     *CourseRepository
	StudentRepository    *StudentRepository
	UserRepository       *UserRepository
}

// NewRepositories initializes all repositories on one backend
func NewRepositories(backend docstore.Backend) (*Repositories, error) {
	departments, err := NewDepartmentRepository(backend)
	if err != nil {
		return nil, fmt.Errorf("department repository: %w", err)
	}
	courses, err := NewCourseRepository(backend)
	if err != nil {
		return nil, fmt.Errorf("course repository: %w", err)
	}
	students, err := NewStudentRepository(backend)
	if err != nil {
		return nil, fmt.Errorf("student repository: %w", err)
	}
	users, err := NewUserRepository(backend)
	if err != nil {
		return nil, fmt.Errorf("user repository: %w", err)
	}

	return &Repositories{
		DepartmentRepository: departments,
		CourseRepository:     courses,
		StudentRepository:    students,
		UserRepository:       users,
	}, nil
}
