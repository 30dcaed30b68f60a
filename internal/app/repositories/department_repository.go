package repositories

import (
	"github.com/yigit/campusrecords/internal/app/models"
	"github.com/yigit/campusrecords/internal/pkg/docstore"
)

// DepartmentCollection stores departments; name and code are unique
var DepartmentCollection = docstore.CollectionSpec{
	Name:   "departments",
	Unique: []string{"name", "code"},
}

// DepartmentRepository handles storage operations for departments
type DepartmentRepository struct {
	store[*models.Department]
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(backend docstore.Backend) (*DepartmentRepository, error) {
	coll, err := docstore.NewCollection(backend, DepartmentCollection, func() *models.Department {
		return &models.Department{}
	})
	if err != nil {
		return nil, err
	}
	return &DepartmentRepository{store[*models.Department]{
		coll:         coll,
		entity:       "Department",
		searchFields: []string{"name", "code", "description"},
	}}, nil
}
