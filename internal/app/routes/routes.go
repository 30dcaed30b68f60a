package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/campusrecords/internal/app/controllers"
	"github.com/yigit/campusrecords/internal/middleware"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Health     *controllers.HealthController
	Auth       *controllers.AuthController
	Department *controllers.DepartmentController
	Course     *controllers.CourseController
	Student    *controllers.StudentController
	Dashboard  *controllers.DashboardController
}

// SetupRouter configures all application routes. When requireLogin is set, the record
// and dashboard routes need a valid session.
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware, requireLogin bool) {
	router.GET("/", c.Health.Root)

	api := router.Group("/api")
	api.GET("/health", c.Health.Health)

	auth := api.Group("/auth")
	{
		auth.GET("/google", c.Auth.GoogleLogin)
		auth.GET("/google/callback", c.Auth.GoogleCallback)
		auth.GET("/logout", c.Auth.Logout)
		auth.GET("/me", authMiddleware.OptionalSession(), c.Auth.Me)
	}

	records := api.Group("")
	if requireLogin {
		records.Use(authMiddleware.RequireSession())
	}

	departments := records.Group("/departments")
	{
		departments.GET("", c.Department.GetAllDepartments)
		departments.GET("/search/:query", c.Department.SearchDepartments)
		departments.GET("/:id", c.Department.GetDepartmentByID)
		departments.POST("", c.Department.CreateDepartment)
		departments.PUT("/:id", c.Department.UpdateDepartment)
		departments.DELETE("/:id", c.Department.DeleteDepartment)
	}

	courses := records.Group("/courses")
	{
		courses.GET("", c.Course.GetAllCourses)
		courses.GET("/search/:query", c.Course.SearchCourses)
		courses.GET("/department/:departmentId", c.Course.GetCoursesByDepartment)
		courses.GET("/:id", c.Course.GetCourseByID)
		courses.POST("", c.Course.CreateCourse)
		courses.PUT("/:id", c.Course.UpdateCourse)
		courses.DELETE("/:id", c.Course.DeleteCourse)
	}

	students := records.Group("/students")
	{
		students.GET("", c.Student.GetAllStudents)
		students.GET("/search/:query", c.Student.SearchStudents)
		students.GET("/:id", c.Student.GetStudentByID)
		students.POST("", c.Student.CreateStudent)
		students.PUT("/:id", c.Student.UpdateStudent)
		students.DELETE("/:id", c.Student.DeleteStudent)
	}

	records.GET("/dashboard/stats", c.Dashboard.GetStats)
}
