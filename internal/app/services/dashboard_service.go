package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/campusrecords/internal/app/models"
	"github.com/yigit/campusrecords/internal/app/repositories"
	"github.com/yigit/campusrecords/internal/app/stats"
	"golang.org/x/sync/errgroup"
)

// DashboardService computes dashboard statistics from fresh collection snapshots
type DashboardService struct {
	departmentRepo *repositories.DepartmentRepository
	courseRepo     *repositories.CourseRepository
	studentRepo    *repositories.StudentRepository
	logger         zerolog.Logger
}

// NewDashboardService creates a new dashboard service instance
func NewDashboardService(
	departmentRepo *repositories.DepartmentRepository,
	courseRepo *repositories.CourseRepository,
	studentRepo *repositories.StudentRepository,
	logger zerolog.Logger,
) *DashboardService {
	return &DashboardService{
		departmentRepo: departmentRepo,
		courseRepo:     courseRepo,
		studentRepo:    studentRepo,
		logger:         logger,
	}
}

// GetStats fetches the three collections concurrently and aggregates them once all are in
func (s *DashboardService) GetStats(ctx context.Context) (*stats.Result, error) {
	var (
		departments []*models.Department
		courses     []*models.Course
		students    []*models.Student
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		departments, err = s.departmentRepo.GetAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		courses, err = s.courseRepo.GetAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		students, err = s.studentRepo.GetAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("Failed to load collections for dashboard")
		return nil, err
	}

	PopulateDepartments(courses, departments)
	res := stats.Aggregate(departments, courses, students)
	return &res, nil
}
