package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/campusrecords/internal/app/integrity"
	"github.com/yigit/campusrecords/internal/app/models"
	"github.com/yigit/campusrecords/internal/app/models/dto"
	"github.com/yigit/campusrecords/internal/app/repositories"
)

// DepartmentService handles department-related operations
type DepartmentService struct {
	departmentRepo *repositories.DepartmentRepository
	guard          *integrity.Guard
	logger         zerolog.Logger
}

// NewDepartmentService creates a new department service instance
func NewDepartmentService(departmentRepo *repositories.DepartmentRepository, guard *integrity.Guard, logger zerolog.Logger) *DepartmentService {
	return &DepartmentService{
		departmentRepo: departmentRepo,
		guard:          guard,
		logger:         logger,
	}
}

// GetAllDepartments returns every department, newest first
func (s *DepartmentService) GetAllDepartments(ctx context.Context) ([]*models.Department, error) {
	return s.departmentRepo.GetAll(ctx)
}

// GetDepartmentByID retrieves a department by ID
func (s *DepartmentService) GetDepartmentByID(ctx context.Context, id string) (*models.Department, error) {
	return s.departmentRepo.GetByID(ctx, id)
}

// SearchDepartments matches name, code and description
func (s *DepartmentService) SearchDepartments(ctx context.Context, query string) ([]*models.Department, error) {
	return s.departmentRepo.Search(ctx, query)
}

// CreateDepartment validates and stores a new department
func (s *DepartmentService) CreateDepartment(ctx context.Context, req *dto.CreateDepartmentRequest) (*models.Department, error) {
	department := req.ToModel()
	if err := s.guard.CheckDepartment(ctx, department, ""); err != nil {
		return nil, err
	}

	created, err := s.departmentRepo.Create(ctx, department)
	if err != nil {
		s.logger.Error().Err(err).Str("code", department.Code).Msg("Failed to create department")
		return nil, err
	}
	s.logger.Info().Str("departmentID", created.ID).Str("code", created.Code).Msg("Department created")
	return created, nil
}

// UpdateDepartment merges the supplied fields into the stored department and re-validates it
func (s *DepartmentService) UpdateDepartment(ctx context.Context, id string, req *dto.UpdateDepartmentRequest) (*models.Department, error) {
	department, err := s.departmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	req.ApplyTo(department)
	if err := s.guard.CheckDepartment(ctx, department, id); err != nil {
		return nil, err
	}

	updated, err := s.departmentRepo.Update(ctx, id, department)
	if err != nil {
		s.logger.Error().Err(err).Str("departmentID", id).Msg("Failed to update department")
		return nil, err
	}
	return updated, nil
}

// DeleteDepartment removes a department subject to the delete policy
func (s *DepartmentService) DeleteDepartment(ctx context.Context, id string) error {
	if _, err := s.departmentRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.guard.CheckDepartmentDelete(ctx, id); err != nil {
		return err
	}
	if err := s.departmentRepo.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("departmentID", id).Msg("Failed to delete department")
		return err
	}
	s.logger.Info().Str("departmentID", id).Msg("Department deleted")
	return nil
}
