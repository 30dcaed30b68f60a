package repositories

import (
	"github.com/yigit/campusrecords/internal/app/models"
	"github.com/yigit/campusrecords/internal/pkg/docstore"
)

// StudentCollection stores students; stud_id and email are unique
var StudentCollection = docstore.CollectionSpec{
	Name:   "students",
	Unique: []string{"stud_id", "email"},
}

// StudentRepository handles storage operations for students
type StudentRepository struct {
	store[*models.Student]
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(backend docstore.Backend) (*StudentRepository, error) {
	coll, err := docstore.NewCollection(backend, StudentCollection, func() *models.Student {
		return &models.Student{}
	})
	if err != nil {
		return nil, err
	}
	return &StudentRepository{store[*models.Student]{
		coll:         coll,
		entity:       "Student",
		searchFields: []string{"name", "stud_id", "email", "course", "year_level"},
	}}, nil
}
