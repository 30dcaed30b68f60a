package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/campusrecords/internal/app/integrity"
	"github.com/yigit/campusrecords/internal/app/models"
	"github.com/yigit/campusrecords/internal/app/models/dto"
	"github.com/yigit/campusrecords/internal/app/repositories"
)

// StudentService handles student-related operations
type StudentService struct {
	studentRepo *repositories.StudentRepository
	guard       *integrity.Guard
	logger      zerolog.Logger
	now         func() time.Time
}

// NewStudentService creates a new student service instance
func NewStudentService(studentRepo *repositories.StudentRepository, guard *integrity.Guard, logger zerolog.Logger) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		guard:       guard,
		logger:      logger,
		now:         time.Now,
	}
}

// GetAllStudents returns every student, newest first
func (s *StudentService) GetAllStudents(ctx context.Context) ([]*models.Student, error) {
	return s.studentRepo.GetAll(ctx)
}

// GetStudentByID retrieves a student by ID
func (s *StudentService) GetStudentByID(ctx context.Context, id string) (*models.Student, error) {
	return s.studentRepo.GetByID(ctx, id)
}

// SearchStudents matches name, student id, email, course and year level
func (s *StudentService) SearchStudents(ctx context.Context, query string) ([]*models.Student, error) {
	return s.studentRepo.Search(ctx, query)
}

// CreateStudent validates and stores a new student
func (s *StudentService) CreateStudent(ctx context.Context, req *dto.CreateStudentRequest) (*models.Student, error) {
	student, err := req.ToModel(s.now())
	if err != nil {
		return nil, err
	}
	if err := s.guard.CheckStudent(ctx, student, ""); err != nil {
		return nil, err
	}

	created, err := s.studentRepo.Create(ctx, student)
	if err != nil {
		s.logger.Error().Err(err).Str("studID", student.StudID).Msg("Failed to create student")
		return nil, err
	}
	s.logger.Info().Str("studentID", created.ID).Msg("Student created")
	return created, nil
}

// UpdateStudent merges the supplied fields into the stored student and re-validates it
func (s *StudentService) UpdateStudent(ctx context.Context, id string, req *dto.UpdateStudentRequest) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := req.ApplyTo(student); err != nil {
		return nil, err
	}
	if err := s.guard.CheckStudent(ctx, student, id); err != nil {
		return nil, err
	}

	updated, err := s.studentRepo.Update(ctx, id, student)
	if err != nil {
		s.logger.Error().Err(err).Str("studentID", id).Msg("Failed to update student")
		return nil, err
	}
	return updated, nil
}

// DeleteStudent removes a student
func (s *StudentService) DeleteStudent(ctx context.Context, id string) error {
	if err := s.studentRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("studentID", id).Msg("Student deleted")
	return nil
}
