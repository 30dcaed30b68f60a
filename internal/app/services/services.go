package services

import (
	"github.com/rs/zerolog"
	"github.com/yigit/campusrecords/internal/app/integrity"
	"github.com/yigit/campusrecords/internal/app/repositories"
	"github.com/yigit/campusrecords/internal/pkg/auth"
)

// Services holds every service instance
type Services struct {
	DepartmentService *DepartmentService
	CourseService     *CourseService
	StudentService    *StudentService
	DashboardService  *DashboardService
	AuthService       *AuthService
}

// NewServices wires the services on top of the repositories
func NewServices(
	repos *repositories.Repositories,
	policy integrity.DeletePolicy,
	google auth.GoogleProvider,
	sessions *auth.SessionService,
	logger zerolog.Logger,
) *Services {
	guard := integrity.NewGuard(repos.DepartmentRepository, repos.CourseRepository, repos.StudentRepository, policy)

	return &Services{
		DepartmentService: NewDepartmentService(repos.DepartmentRepository, guard, logger),
		CourseService:     NewCourseService(repos.CourseRepository, repos.DepartmentRepository, guard, logger),
		StudentService:    NewStudentService(repos.StudentRepository, guard, logger),
		DashboardService:  NewDashboardService(repos.DepartmentRepository, repos.CourseRepository, repos.StudentRepository, logger),
		AuthService:       NewAuthService(repos.UserRepository, google, sessions, logger),
	}
}
